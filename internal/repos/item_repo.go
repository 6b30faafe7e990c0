package repos

import (
	"github.com/jmoiron/sqlx"

	"github.com/BartoszJarocki/udacity-catalog/internal/domain"
)

type ItemRepo struct{ db *sqlx.DB }

func NewItemRepo(db *sqlx.DB) *ItemRepo { return &ItemRepo{db: db} }

func (r *ItemRepo) ListByCategory(categoryID int64) ([]domain.Item, error) {
	var out []domain.Item
	err := r.db.Select(&out, `
	  SELECT id,title,description,created_at,user_id,category_id
	  FROM items
	  WHERE category_id=?
	  ORDER BY id`, categoryID)
	return out, err
}

// Recent returns the most recently created items, newest first.
func (r *ItemRepo) Recent(limit int) ([]domain.Item, error) {
	var out []domain.Item
	err := r.db.Select(&out, `
	  SELECT id,title,description,created_at,user_id,category_id
	  FROM items
	  ORDER BY datetime(created_at) DESC, id DESC
	  LIMIT ?`, limit)
	return out, err
}

func (r *ItemRepo) Get(id int64) (domain.Item, error) {
	var it domain.Item
	err := r.db.Get(&it, `
	  SELECT id,title,description,created_at,user_id,category_id
	  FROM items WHERE id=?`, id)
	return it, err
}

// Create inserts an item; created_at is assigned by the store.
func (r *ItemRepo) Create(title, description string, userID, categoryID int64) (int64, error) {
	res, err := r.db.Exec(`INSERT INTO items(title,description,user_id,category_id) VALUES(?,?,?,?)`,
		title, description, userID, categoryID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Update overwrites title and description only; owner and category are
// fixed at insert.
func (r *ItemRepo) Update(id int64, title, description string) error {
	_, err := r.db.Exec(`UPDATE items SET title=?,description=? WHERE id=?`, title, description, id)
	return err
}

func (r *ItemRepo) Delete(id int64) error {
	_, err := r.db.Exec(`DELETE FROM items WHERE id=?`, id)
	return err
}
