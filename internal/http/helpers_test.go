package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/jmoiron/sqlx"

	"github.com/BartoszJarocki/udacity-catalog/internal/http/handlers"
	"github.com/BartoszJarocki/udacity-catalog/internal/oauth"
	"github.com/BartoszJarocki/udacity-catalog/internal/repos"
	"github.com/BartoszJarocki/udacity-catalog/internal/services"
)

type stubProvider struct {
	claims  oauth.Claims
	token   string
	err     error
	revoked []string
}

func (s *stubProvider) VerifyCode(ctx context.Context, code string) (oauth.Claims, string, error) {
	if s.err != nil {
		return oauth.Claims{}, "", s.err
	}
	return s.claims, s.token, nil
}

func (s *stubProvider) Revoke(ctx context.Context, token string) error {
	s.revoked = append(s.revoked, token)
	return nil
}

// newApp wires the full route table over a seeded in-memory DB, without
// the CSRF/limiter middlewares so tests can post forms directly.
func newApp(t *testing.T, provider oauth.Verifier) (*fiber.App, *sqlx.DB, *repos.SessionRepo) {
	t.Helper()

	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sessionRepo := repos.NewSessionRepo(db)
	authSvc := &services.AuthService{
		Users:    repos.NewUserRepo(db),
		Sessions: sessionRepo,
		Provider: provider,
	}

	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Use(requestid.New())
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})

	deps := handlers.NewDeps(db, authSvc)
	requireUser := handlers.RequireUser(authSvc)

	app.Get("/login", deps.AuthHandler.LoginForm)
	app.Post("/gconnect", deps.AuthHandler.GConnect)
	app.Get("/logout", deps.AuthHandler.Logout)

	app.Get("/", deps.CategoryHandler.Home)
	app.Get("/categories/new", requireUser, deps.CategoryHandler.NewForm)
	app.Post("/categories/new", requireUser, deps.CategoryHandler.Create)
	app.Get("/categories/:id/edit", requireUser, deps.CategoryHandler.EditForm)
	app.Post("/categories/:id/edit", requireUser, deps.CategoryHandler.Update)
	app.Get("/categories/:id/delete", requireUser, deps.CategoryHandler.DeleteForm)
	app.Post("/categories/:id/delete", requireUser, deps.CategoryHandler.Delete)
	app.Get("/categories/:id/new", requireUser, deps.ItemHandler.NewForm)
	app.Post("/categories/:id/new", requireUser, deps.ItemHandler.Create)
	app.Get("/categories/:id/items/:itemId", deps.ItemHandler.Details)
	app.Get("/categories/:id/:itemId/edit", requireUser, deps.ItemHandler.EditForm)
	app.Post("/categories/:id/:itemId/edit", requireUser, deps.ItemHandler.Update)
	app.Get("/categories/:id/:itemId/delete", requireUser, deps.ItemHandler.DeleteForm)
	app.Post("/categories/:id/:itemId/delete", requireUser, deps.ItemHandler.Delete)
	app.Get("/categories/:id", deps.CategoryHandler.Show)

	api := app.Group("/api")
	api.Get("/categories/", deps.APIHandler.Categories)
	api.Get("/categories/:id", deps.APIHandler.CategoryItems)
	api.Get("/items/:id", deps.APIHandler.Item)

	return app, db, sessionRepo
}

// signIn binds a session row to a seeded user and returns the cookie to
// attach to requests.
func signIn(t *testing.T, sessions *repos.SessionRepo, sid string, userID int64) *http.Cookie {
	t.Helper()
	if err := sessions.Bind(sid, userID, "test-token"); err != nil {
		t.Fatalf("bind session: %v", err)
	}
	return &http.Cookie{Name: "sid", Value: sid}
}

func testReq(app *fiber.App, req *http.Request, t *testing.T) *http.Response {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("test request failed: %v", err)
	}
	return resp
}
