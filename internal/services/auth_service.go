package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/BartoszJarocki/udacity-catalog/internal/domain"
	"github.com/BartoszJarocki/udacity-catalog/internal/oauth"
	"github.com/BartoszJarocki/udacity-catalog/internal/repos"
)

type AuthService struct {
	Users    *repos.UserRepo
	Sessions *repos.SessionRepo
	Provider oauth.Verifier
}

// NewLoginState issues a fresh nonce for the login page and stores it on
// the session row.
func (s *AuthService) NewLoginState(sid string) (string, error) {
	state := uuid.NewString()
	if err := s.Sessions.SetState(sid, state); err != nil {
		return "", err
	}
	return state, nil
}

// CompleteLogin exchanges the authorization code with the provider,
// finds or creates the matching user by email, and attaches the identity
// to the session. Repeated logins with the same email reuse the existing
// user row.
func (s *AuthService) CompleteLogin(ctx context.Context, sid, code string) (*domain.User, error) {
	claims, accessToken, err := s.Provider.VerifyCode(ctx, code)
	if err != nil {
		return nil, err
	}

	u, err := s.Users.ByEmail(claims.Email)
	if errors.Is(err, sql.ErrNoRows) {
		id, cerr := s.Users.Create(claims.Name, claims.Email, claims.Picture)
		if cerr != nil {
			return nil, cerr
		}
		u = &domain.User{ID: id, Name: claims.Name, Email: claims.Email, Picture: claims.Picture}
	} else if err != nil {
		return nil, err
	}

	if err := s.Sessions.Bind(sid, u.ID, accessToken); err != nil {
		return nil, err
	}
	return u, nil
}

// Logout revokes the provider token if the session holds one (best
// effort: a failed revocation still clears the local session) and drops
// the identity from the session. Logging out while not logged in is a
// no-op.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	tok, err := s.Sessions.AccessToken(sid)
	if err != nil {
		return err
	}
	if tok != "" {
		_ = s.Provider.Revoke(ctx, tok)
	}
	return s.Sessions.Unbind(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Sessions.User(sid)
}

// CurrentUserID returns the caller's user id, or 0 when the session
// holds no identity.
func (s *AuthService) CurrentUserID(sid string) int64 {
	return s.Sessions.UserID(sid)
}
