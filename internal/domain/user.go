package domain

type User struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Email   string `db:"email"`
	Picture string `db:"picture"`
}
