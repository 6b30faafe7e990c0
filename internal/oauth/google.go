// Package oauth talks to the Google identity provider: it exchanges an
// authorization code for an access token, verifies the token was issued
// to this app, and fetches the user's profile claims.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	tokeninfoURL = "https://www.googleapis.com/oauth2/v1/tokeninfo"
	userinfoURL  = "https://www.googleapis.com/oauth2/v1/userinfo"
	revokeURL    = "https://accounts.google.com/o/oauth2/revoke"
)

// Claims is the verified identity returned by the provider.
type Claims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// ErrAudienceMismatch means the access token was issued to a different
// client id than ours.
var ErrAudienceMismatch = errors.New("token's client ID does not match app's")

// ProviderError carries an error the provider itself reported.
type ProviderError struct{ Reason string }

func (e *ProviderError) Error() string { return "identity provider error: " + e.Reason }

// Verifier is the slice of the provider the auth service needs. Tests
// substitute a stub.
type Verifier interface {
	VerifyCode(ctx context.Context, code string) (Claims, string, error)
	Revoke(ctx context.Context, token string) error
}

type Google struct {
	conf *oauth2.Config
	http *http.Client
}

func NewGoogle(clientID, clientSecret string) *Google {
	return &Google{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"profile", "email"},
			// The one-time code comes from the browser-side flow.
			RedirectURL: "postmessage",
		},
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyCode exchanges the authorization code, checks the token's
// audience against our client id, and returns the profile claims plus
// the access token (kept for later revocation).
func (g *Google) VerifyCode(ctx context.Context, code string) (Claims, string, error) {
	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return Claims{}, "", &ProviderError{Reason: err.Error()}
	}
	accessToken := tok.AccessToken

	var info struct {
		IssuedTo string `json:"issued_to"`
		Error    string `json:"error"`
	}
	if err := g.getJSON(ctx, tokeninfoURL, url.Values{"access_token": {accessToken}}, &info); err != nil {
		return Claims{}, "", err
	}
	if info.Error != "" {
		return Claims{}, "", &ProviderError{Reason: info.Error}
	}
	if info.IssuedTo != g.conf.ClientID {
		return Claims{}, "", ErrAudienceMismatch
	}

	var claims Claims
	if err := g.getJSON(ctx, userinfoURL, url.Values{"access_token": {accessToken}, "alt": {"json"}}, &claims); err != nil {
		return Claims{}, "", err
	}
	return claims, accessToken, nil
}

// Revoke invalidates the access token at the provider.
func (g *Google) Revoke(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, revokeURL+"?token="+url.QueryEscape(token), nil)
	if err != nil {
		return err
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("revoke failed: status %d", resp.StatusCode)
	}
	return nil
}

func (g *Google) getJSON(ctx context.Context, base string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return &ProviderError{Reason: err.Error()}
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProviderError{Reason: err.Error()}
	}
	return nil
}
