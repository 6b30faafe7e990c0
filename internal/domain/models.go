package domain

type Category struct {
	ID     int64  `db:"id"`
	Title  string `db:"title"`
	UserID int64  `db:"user_id"`
}

type Item struct {
	ID          int64  `db:"id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	CreatedAt   string `db:"created_at"`
	UserID      int64  `db:"user_id"`
	CategoryID  int64  `db:"category_id"`
}
