package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/BartoszJarocki/udacity-catalog/internal/domain"
	"github.com/BartoszJarocki/udacity-catalog/internal/services"
	"github.com/BartoszJarocki/udacity-catalog/internal/validate"
)

// APIHandler serves the read-only JSON views. All catalog data is
// publicly readable; only mutation is gated.
type APIHandler struct {
	Catalog *services.CatalogService
}

type categoryJSON struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type itemJSON struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  int64  `json:"category_id"`
	CreatedAt   string `json:"created_at"`
}

func toItemJSON(it domain.Item) itemJSON {
	return itemJSON{
		ID:          it.ID,
		Title:       it.Title,
		Description: it.Description,
		CategoryID:  it.CategoryID,
		CreatedAt:   it.CreatedAt,
	}
}

func (h *APIHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return err
	}
	out := make([]categoryJSON, 0, len(cats))
	for _, cat := range cats {
		out = append(out, categoryJSON{ID: cat.ID, Title: cat.Title})
	}
	return c.JSON(fiber.Map{"categories": out})
}

func (h *APIHandler) CategoryItems(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.JSON(fiber.Map{"items": []itemJSON{}})
	}
	_, items, _, err := h.Catalog.CategoryItems(id, 0)
	if err != nil {
		// An unknown category lists as empty, matching the original API.
		items = nil
	}
	out := make([]itemJSON, 0, len(items))
	for _, it := range items {
		out = append(out, toItemJSON(it))
	}
	return c.JSON(fiber.Map{"items": out})
}

func (h *APIHandler) Item(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON("Invalid item id!")
	}
	it, err := h.Catalog.GetItem(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON("Invalid item id!")
	}
	return c.JSON(toItemJSON(it))
}
