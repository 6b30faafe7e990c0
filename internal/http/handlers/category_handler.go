package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "github.com/BartoszJarocki/udacity-catalog/internal/log"
	"github.com/BartoszJarocki/udacity-catalog/internal/services"
	"github.com/BartoszJarocki/udacity-catalog/internal/validate"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

// Home shows every category and the latest items added.
func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return err
	}
	recent, err := h.Catalog.RecentItems(12)
	if err != nil {
		return err
	}
	return render(c, "home", fiber.Map{"Categories": cats, "RecentItems": recent})
}

// Show lists the items of one category; edit/delete affordances are
// shown only to the category's owner.
func (h *CategoryHandler) Show(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Category not found"})
	}
	cat, items, isOwner, err := h.Catalog.CategoryItems(id, callerID(c))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Category not found"})
		}
		return err
	}
	return render(c, "category_items", fiber.Map{"Category": cat, "Items": items, "IsOwner": isOwner})
}

func (h *CategoryHandler) NewForm(c *fiber.Ctx) error {
	return render(c, "new_category", fiber.Map{})
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	title, ok := validate.Title(c.FormValue("title"))
	if !ok {
		c.Status(fiber.StatusBadRequest)
		return render(c, "new_category", fiber.Map{"Err": "Title is required"})
	}
	id, err := h.Catalog.CreateCategory(title, callerID(c))
	if err != nil {
		if errors.Is(err, services.ErrEmptyTitle) {
			c.Status(fiber.StatusBadRequest)
			return render(c, "new_category", fiber.Map{"Err": "Title is required"})
		}
		return err
	}
	applog.Audit(c, "category.create", map[string]any{"category": id})
	setFlash(c, "Category "+title+" successfully created!")
	return c.Redirect("/")
}

func (h *CategoryHandler) EditForm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Category not found"})
	}
	cat, err := h.Catalog.CategoryForOwner(id, callerID(c))
	if err != nil {
		return h.denied(c, err, id)
	}
	return render(c, "edit_category", fiber.Map{"Category": cat})
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Category not found"})
	}
	title, _ := validate.Title(c.FormValue("title"))
	if err := h.Catalog.UpdateCategory(id, title, callerID(c)); err != nil {
		return h.denied(c, err, id)
	}
	applog.Audit(c, "category.update", map[string]any{"category": id})
	setFlash(c, "Category has been edited")
	return c.Redirect("/")
}

func (h *CategoryHandler) DeleteForm(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Category not found"})
	}
	cat, err := h.Catalog.CategoryForOwner(id, callerID(c))
	if err != nil {
		return h.denied(c, err, id)
	}
	return render(c, "delete_category", fiber.Map{"Category": cat})
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Category not found"})
	}
	if err := h.Catalog.DeleteCategory(id, callerID(c)); err != nil {
		return h.denied(c, err, id)
	}
	applog.Audit(c, "category.delete", map[string]any{"category": id})
	setFlash(c, "Category has been deleted!")
	return c.Redirect("/")
}

// denied maps catalog errors for the category form routes. Non-owners
// get a silent redirect home; the denial shows up in the log only.
func (h *CategoryHandler) denied(c *fiber.Ctx, err error, id int64) error {
	switch {
	case errors.Is(err, services.ErrForbidden):
		applog.Security(c, "access.denied.category", map[string]any{"category": id})
		return c.Redirect("/")
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Category not found"})
	default:
		return err
	}
}
