package repos

import (
	"github.com/jmoiron/sqlx"

	"github.com/BartoszJarocki/udacity-catalog/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.Select(&out, `SELECT id,title,user_id FROM categories ORDER BY id`)
	return out, err
}

func (r *CategoryRepo) Get(id int64) (domain.Category, error) {
	var c domain.Category
	err := r.db.Get(&c, `SELECT id,title,user_id FROM categories WHERE id=?`, id)
	return c, err
}

func (r *CategoryRepo) Create(title string, userID int64) (int64, error) {
	res, err := r.db.Exec(`INSERT INTO categories(title,user_id) VALUES(?,?)`, title, userID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *CategoryRepo) UpdateTitle(id int64, title string) error {
	_, err := r.db.Exec(`UPDATE categories SET title=? WHERE id=?`, title, id)
	return err
}

// DeleteCascade removes the category and every item referencing it in one
// transaction. The item delete ignores item ownership: orphaned items must
// not survive a category delete.
func (r *CategoryRepo) DeleteCascade(id int64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM items WHERE category_id=?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM categories WHERE id=?`, id); err != nil {
		return err
	}

	return tx.Commit()
}
