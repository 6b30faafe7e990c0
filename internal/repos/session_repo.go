package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/BartoszJarocki/udacity-catalog/internal/domain"
)

type SessionRepo struct{ DB *sqlx.DB }

func NewSessionRepo(db *sqlx.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Bind attaches a user and provider token to a session row, creating the
// row if the cookie is new.
func (r *SessionRepo) Bind(sid string, userID int64, accessToken string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,access_token,last_seen)
	                     VALUES(?,?,?,CURRENT_TIMESTAMP)
	                     ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,
	                       access_token=excluded.access_token,last_seen=CURRENT_TIMESTAMP`,
		sid, userID, accessToken)
	return err
}

func (r *SessionRepo) User(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
	  SELECT u.id,u.name,u.email,u.picture
	  FROM sessions s
	  JOIN users u ON u.id=s.user_id
	  WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserID returns the session's user id, or 0 when the session holds none.
func (r *SessionRepo) UserID(sid string) int64 {
	var id sql.NullInt64
	if err := r.DB.Get(&id, `SELECT user_id FROM sessions WHERE id=?`, sid); err != nil {
		return 0
	}
	if !id.Valid {
		return 0
	}
	return id.Int64
}

func (r *SessionRepo) AccessToken(sid string) (string, error) {
	var tok string
	err := r.DB.Get(&tok, `SELECT access_token FROM sessions WHERE id=?`, sid)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return tok, nil
}

// Unbind drops the identity fields but keeps the session row, so the
// cookie stays valid for a later login.
func (r *SessionRepo) Unbind(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,access_token='',last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}

// SetState stores the login state nonce for the session.
func (r *SessionRepo) SetState(sid, state string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,state,last_seen)
	                     VALUES(?,?,CURRENT_TIMESTAMP)
	                     ON CONFLICT(id) DO UPDATE SET state=excluded.state,last_seen=CURRENT_TIMESTAMP`,
		sid, state)
	return err
}
