package repos

import (
	"github.com/jmoiron/sqlx"

	"github.com/BartoszJarocki/udacity-catalog/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,name,email,picture FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id int64) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,name,email,picture FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(name, email, picture string) (int64, error) {
	res, err := r.DB.Exec(`INSERT INTO users(name,email,picture) VALUES(?,?,?)`, name, email, picture)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
