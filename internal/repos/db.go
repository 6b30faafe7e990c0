package repos

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo catalog data if the DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS users(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  picture TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS categories(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  user_id INTEGER NOT NULL REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_categories_user ON categories(user_id);

CREATE TABLE IF NOT EXISTS items(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  user_id INTEGER NOT NULL REFERENCES users(id),
  category_id INTEGER NOT NULL REFERENCES categories(id)
);
CREATE INDEX IF NOT EXISTS idx_items_category   ON items(category_id);
CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at);

-- Sessions, keyed by the 'sid' cookie. Also holds the provider access
-- token (for revocation on logout) and the login state nonce.
CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  user_id INTEGER NULL REFERENCES users(id) ON DELETE SET NULL,
  access_token TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

// seedIfEmpty loads the demo catalog: two users, four categories, four
// items per category. No-op once any user exists.
func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo users/categories/items")

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO users(id,name,email) VALUES
	  (1,'Bartosz Jarocki','jarocki.bartek@gmail.com'),
	  (2,'Katarzyna Jarocka','kasia@gmail.com')`)

	tx.MustExec(`INSERT INTO categories(id,title,user_id) VALUES
	  (1,'Mobile',1),
	  (2,'Web',1),
	  (3,'AI',2),
	  (4,'VR',2)`)

	cats := []struct {
		id    int64
		title string
		user  int64
	}{
		{1, "Mobile", 1},
		{2, "Web", 1},
		{3, "AI", 2},
		{4, "VR", 2},
	}
	for _, c := range cats {
		for i := 0; i < 4; i++ {
			tx.MustExec(`INSERT INTO items(title,description,user_id,category_id) VALUES(?,?,?,?)`,
				fmt.Sprintf("%s company %d", c.title, i),
				fmt.Sprintf("This is a nice %d %s company.", i, c.title),
				c.user, c.id)
		}
	}

	return tx.Commit()
}
