package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	applog "github.com/BartoszJarocki/udacity-catalog/internal/log"
	"github.com/BartoszJarocki/udacity-catalog/internal/services"
	"github.com/BartoszJarocki/udacity-catalog/internal/validate"
)

type ItemHandler struct {
	Catalog *services.CatalogService
}

func categoryPath(id int64) string {
	return "/categories/" + strconv.FormatInt(id, 10)
}

// Details shows one item with its category.
func (h *ItemHandler) Details(c *fiber.Ctx) error {
	itemID, ok := validate.ID(c.Params("itemId"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Item not found"})
	}
	item, cat, isOwner, err := h.Catalog.ItemDetails(itemID, callerID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Item not found"})
		}
		return err
	}
	return render(c, "item_details", fiber.Map{"Item": item, "Category": cat, "IsOwner": isOwner})
}

func (h *ItemHandler) NewForm(c *fiber.Ctx) error {
	catID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Category not found"})
	}
	cat, err := h.Catalog.GetCategory(catID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Category not found"})
		}
		return err
	}
	return render(c, "new_item", fiber.Map{"Category": cat})
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	catID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Category not found"})
	}
	title, okT := validate.Title(c.FormValue("title"))
	desc, okD := validate.Description(c.FormValue("description"))
	if !okT || !okD {
		cat, err := h.Catalog.GetCategory(catID)
		if err != nil {
			return h.denied(c, err, catID)
		}
		c.Status(fiber.StatusBadRequest)
		return render(c, "new_item", fiber.Map{"Category": cat, "Err": "Title and description are required"})
	}
	id, err := h.Catalog.CreateItem(catID, title, desc, callerID(c))
	if err != nil {
		return h.denied(c, err, catID)
	}
	applog.Audit(c, "item.create", map[string]any{"item": id, "category": catID})
	setFlash(c, "Item has been created!")
	return c.Redirect(categoryPath(catID))
}

func (h *ItemHandler) EditForm(c *fiber.Ctx) error {
	catID, okC := validate.ID(c.Params("id"))
	itemID, okI := validate.ID(c.Params("itemId"))
	if !okC || !okI {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Item not found"})
	}
	item, err := h.Catalog.ItemForOwner(itemID, callerID(c))
	if err != nil {
		return h.denied(c, err, itemID)
	}
	return render(c, "edit_item", fiber.Map{"CategoryID": catID, "Item": item})
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	catID, okC := validate.ID(c.Params("id"))
	itemID, okI := validate.ID(c.Params("itemId"))
	if !okC || !okI {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Item not found"})
	}
	// Empty fields are per-field no-ops on update.
	title, _ := validate.Title(c.FormValue("title"))
	desc, _ := validate.Description(c.FormValue("description"))
	if err := h.Catalog.UpdateItem(itemID, title, desc, callerID(c)); err != nil {
		return h.denied(c, err, itemID)
	}
	applog.Audit(c, "item.update", map[string]any{"item": itemID})
	setFlash(c, "Item has been edited!")
	return c.Redirect(categoryPath(catID))
}

func (h *ItemHandler) DeleteForm(c *fiber.Ctx) error {
	catID, okC := validate.ID(c.Params("id"))
	itemID, okI := validate.ID(c.Params("itemId"))
	if !okC || !okI {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Item not found"})
	}
	item, err := h.Catalog.ItemForOwner(itemID, callerID(c))
	if err != nil {
		return h.denied(c, err, itemID)
	}
	return render(c, "delete_item", fiber.Map{"CategoryID": catID, "Item": item})
}

func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	catID, okC := validate.ID(c.Params("id"))
	itemID, okI := validate.ID(c.Params("itemId"))
	if !okC || !okI {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Item not found"})
	}
	if err := h.Catalog.DeleteItem(itemID, callerID(c)); err != nil {
		return h.denied(c, err, itemID)
	}
	applog.Audit(c, "item.delete", map[string]any{"item": itemID})
	setFlash(c, "Item has been deleted!")
	return c.Redirect(categoryPath(catID))
}

func (h *ItemHandler) denied(c *fiber.Ctx, err error, id int64) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		applog.Security(c, "access.denied.item", map[string]any{"item": id})
		return c.Redirect("/")
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Item not found"})
	default:
		return err
	}
}
