package services

import (
	"database/sql"
	"errors"

	"github.com/BartoszJarocki/udacity-catalog/internal/domain"
	"github.com/BartoszJarocki/udacity-catalog/internal/repos"
)

// CatalogService is the ownership-guarded CRUD core. Reads are open to
// everyone; every mutating operation takes the caller's user id
// explicitly and checks it against the record's owner before touching
// the store.
type CatalogService struct {
	Cats  *repos.CategoryRepo
	Items *repos.ItemRepo
}

func NewCatalogService(cats *repos.CategoryRepo, items *repos.ItemRepo) *CatalogService {
	return &CatalogService{Cats: cats, Items: items}
}

// assertOwner is the single ownership check every mutation goes through.
func assertOwner(ownerID, callerID int64) error {
	if ownerID != callerID {
		return ErrForbidden
	}
	return nil
}

func notFoundIfNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// ---------- Categories ----------

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}

func (s *CatalogService) GetCategory(id int64) (domain.Category, error) {
	c, err := s.Cats.Get(id)
	return c, notFoundIfNoRows(err)
}

func (s *CatalogService) CreateCategory(title string, callerID int64) (int64, error) {
	if title == "" {
		return 0, ErrEmptyTitle
	}
	return s.Cats.Create(title, callerID)
}

// UpdateCategory overwrites the title if a new one was given; an empty
// title leaves the category unchanged.
func (s *CatalogService) UpdateCategory(id int64, newTitle string, callerID int64) error {
	c, err := s.Cats.Get(id)
	if err != nil {
		return notFoundIfNoRows(err)
	}
	if err := assertOwner(c.UserID, callerID); err != nil {
		return err
	}
	if newTitle == "" {
		return nil
	}
	return s.Cats.UpdateTitle(id, newTitle)
}

// DeleteCategory removes the category and all items in it, regardless of
// who owns those items. That asymmetry with DeleteItem (strictly
// item-owner-gated) matches the original application.
func (s *CatalogService) DeleteCategory(id, callerID int64) error {
	c, err := s.Cats.Get(id)
	if err != nil {
		return notFoundIfNoRows(err)
	}
	if err := assertOwner(c.UserID, callerID); err != nil {
		return err
	}
	return s.Cats.DeleteCascade(id)
}

// CategoryItems returns a category with its items, plus whether the
// caller owns the category. callerID 0 (anonymous) never owns anything.
func (s *CatalogService) CategoryItems(id, callerID int64) (domain.Category, []domain.Item, bool, error) {
	c, err := s.Cats.Get(id)
	if err != nil {
		return domain.Category{}, nil, false, notFoundIfNoRows(err)
	}
	items, err := s.Items.ListByCategory(id)
	if err != nil {
		return domain.Category{}, nil, false, err
	}
	return c, items, c.UserID == callerID && callerID != 0, nil
}

func (s *CatalogService) RecentItems(limit int) ([]domain.Item, error) {
	return s.Items.Recent(limit)
}

// CategoryForOwner fetches a category for its edit/delete forms: same
// lookup and ownership check as the mutations, no side effect.
func (s *CatalogService) CategoryForOwner(id, callerID int64) (domain.Category, error) {
	c, err := s.Cats.Get(id)
	if err != nil {
		return domain.Category{}, notFoundIfNoRows(err)
	}
	if err := assertOwner(c.UserID, callerID); err != nil {
		return domain.Category{}, err
	}
	return c, nil
}

// ---------- Items ----------

func (s *CatalogService) CreateItem(categoryID int64, title, description string, callerID int64) (int64, error) {
	if title == "" {
		return 0, ErrEmptyTitle
	}
	if description == "" {
		return 0, ErrEmptyDescription
	}
	if _, err := s.Cats.Get(categoryID); err != nil {
		return 0, notFoundIfNoRows(err)
	}
	return s.Items.Create(title, description, callerID, categoryID)
}

// UpdateItem overwrites title and description field by field; an empty
// field is a no-op for that field. Ownership is keyed off the item's own
// user id, not the category's: a category owner cannot edit someone
// else's item placed in their category.
func (s *CatalogService) UpdateItem(id int64, title, description string, callerID int64) error {
	it, err := s.Items.Get(id)
	if err != nil {
		return notFoundIfNoRows(err)
	}
	if err := assertOwner(it.UserID, callerID); err != nil {
		return err
	}
	if title != "" {
		it.Title = title
	}
	if description != "" {
		it.Description = description
	}
	return s.Items.Update(id, it.Title, it.Description)
}

func (s *CatalogService) DeleteItem(id, callerID int64) error {
	it, err := s.Items.Get(id)
	if err != nil {
		return notFoundIfNoRows(err)
	}
	if err := assertOwner(it.UserID, callerID); err != nil {
		return err
	}
	return s.Items.Delete(id)
}

// ItemDetails returns an item with its category for display, plus
// whether the caller owns the item.
func (s *CatalogService) ItemDetails(id, callerID int64) (domain.Item, domain.Category, bool, error) {
	it, err := s.Items.Get(id)
	if err != nil {
		return domain.Item{}, domain.Category{}, false, notFoundIfNoRows(err)
	}
	c, err := s.Cats.Get(it.CategoryID)
	if err != nil {
		return domain.Item{}, domain.Category{}, false, notFoundIfNoRows(err)
	}
	return it, c, it.UserID == callerID && callerID != 0, nil
}

func (s *CatalogService) GetItem(id int64) (domain.Item, error) {
	it, err := s.Items.Get(id)
	return it, notFoundIfNoRows(err)
}

// ItemForOwner fetches an item for its edit/delete forms, applying the
// same ownership check as the mutations.
func (s *CatalogService) ItemForOwner(id, callerID int64) (domain.Item, error) {
	it, err := s.Items.Get(id)
	if err != nil {
		return domain.Item{}, notFoundIfNoRows(err)
	}
	if err := assertOwner(it.UserID, callerID); err != nil {
		return domain.Item{}, err
	}
	return it, nil
}
