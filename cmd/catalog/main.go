package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"github.com/BartoszJarocki/udacity-catalog/internal/config"
	"github.com/BartoszJarocki/udacity-catalog/internal/http/handlers"
	applog "github.com/BartoszJarocki/udacity-catalog/internal/log"
	"github.com/BartoszJarocki/udacity-catalog/internal/oauth"
	"github.com/BartoszJarocki/udacity-catalog/internal/repos"
	"github.com/BartoszJarocki/udacity-catalog/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	sessionRepo := repos.NewSessionRepo(db)
	authSvc := &services.AuthService{
		Users:    userRepo,
		Sessions: sessionRepo,
		Provider: oauth.NewGoogle(cfg.ClientID, cfg.ClientSecret),
	}

	// Templates & app
	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Something went wrong. Please try again.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Something went wrong. Please try again.")
			}
			return nil
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for templates/ownership checks)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		Next: func(c *fiber.Ctx) bool {
			// /gconnect carries its own X-Requested-With check; the API
			// is read-only.
			p := c.Path()
			return p == "/gconnect" || strings.HasPrefix(p, "/api/")
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok := c.Locals("csrf"); tok != nil {
			c.Locals("CSRFToken", tok.(string))
		}
		return c.Next()
	})

	// ---------- App handlers ----------
	deps := handlers.NewDeps(db, authSvc)
	requireUser := handlers.RequireUser(authSvc)

	// Auth (code exchange throttled)
	app.Get("/login", deps.AuthHandler.LoginForm)
	app.Post("/gconnect", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.gconnect.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON("Too many attempts. Please try again later.")
		},
	}), deps.AuthHandler.GConnect)
	app.Get("/logout", deps.AuthHandler.Logout)

	// Catalog pages
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

	// Read-only JSON API
	api := app.Group("/api", cors.New())
	api.Get("/categories/", deps.APIHandler.Categories)
	api.Get("/categories/:id", deps.APIHandler.CategoryItems)
	api.Get("/items/:id", deps.APIHandler.Item)

	// 404
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
