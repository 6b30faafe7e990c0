package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BartoszJarocki/udacity-catalog/internal/oauth"
)

func TestGConnectRequiresAjaxHeader(t *testing.T) {
	app, _, _ := newApp(t, &stubProvider{})

	req := httptest.NewRequest("POST", "/gconnect", strings.NewReader("auth-code"))
	resp := testReq(app, req, t)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 without X-Requested-With, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != `"Invalid state"` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestGConnectSignsInAndIsIdempotent(t *testing.T) {
	provider := &stubProvider{
		claims: oauth.Claims{Name: "New User", Email: "new@example.com", Picture: "https://example.com/p.jpg"},
		token:  "tok-1",
	}
	app, db, _ := newApp(t, provider)

	connect := func() *http.Response {
		req := httptest.NewRequest("POST", "/gconnect", strings.NewReader("auth-code"))
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		return testReq(app, req, t)
	}

	resp := connect()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != `"User was logged in!"` {
		t.Fatalf("unexpected body: %s", body)
	}

	resp = connect()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second login expected 200, got %d", resp.StatusCode)
	}

	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users WHERE email='new@example.com'`); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected exactly one user row, got %d", n)
	}
}

func TestGConnectAudienceMismatch(t *testing.T) {
	app, _, _ := newApp(t, &stubProvider{err: oauth.ErrAudienceMismatch})

	req := httptest.NewRequest("POST", "/gconnect", strings.NewReader("auth-code"))
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	resp := testReq(app, req, t)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 on audience mismatch, got %d", resp.StatusCode)
	}
}

func TestGConnectProviderError(t *testing.T) {
	app, _, _ := newApp(t, &stubProvider{err: &oauth.ProviderError{Reason: "invalid_grant"}})

	req := httptest.NewRequest("POST", "/gconnect", strings.NewReader("auth-code"))
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	resp := testReq(app, req, t)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 on provider error, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != `"invalid_grant"` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	provider := &stubProvider{}
	app, _, sessions := newApp(t, provider)
	cookie := signIn(t, sessions, "sid-user1", 1)

	req := httptest.NewRequest("GET", "/logout", nil)
	req.AddCookie(cookie)
	resp := testReq(app, req, t)
	if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") != "/" {
		t.Fatalf("expected redirect home, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	if got := sessions.UserID("sid-user1"); got != 0 {
		t.Fatalf("session still bound to user %d", got)
	}
	if len(provider.revoked) != 1 || provider.revoked[0] != "test-token" {
		t.Fatalf("token not revoked: %v", provider.revoked)
	}

	// Logging out while logged out just goes home.
	resp = testReq(app, httptest.NewRequest("GET", "/logout", nil), t)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("logout without session expected redirect, got %d", resp.StatusCode)
	}
}

func TestLoginPageIssuesState(t *testing.T) {
	app, db, _ := newApp(t, &stubProvider{})

	resp := testReq(app, httptest.NewRequest("GET", "/login", nil), t)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var sid string
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			sid = c.Value
		}
	}
	if sid == "" {
		t.Fatal("login page did not set a session cookie")
	}

	var state string
	if err := db.Get(&state, `SELECT state FROM sessions WHERE id=?`, sid); err != nil {
		t.Fatalf("session row missing: %v", err)
	}
	if state == "" {
		t.Fatal("no state nonce stored for the session")
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), state) {
		t.Fatal("state nonce not rendered into the login page")
	}
}
