package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/BartoszJarocki/udacity-catalog/internal/domain"
	applog "github.com/BartoszJarocki/udacity-catalog/internal/log"
	"github.com/BartoszJarocki/udacity-catalog/internal/services"
)

const loginRequiredNotice = "Only authenticated users can access item edit form"

// RequireUser gates mutating routes on a session with a verified
// identity; anonymous callers are sent to the login page with a notice
// and no side effect happens.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			setFlash(c, loginRequiredNotice)
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			applog.Security(c, "access.denied.anonymous", map[string]any{"sid": sid})
			setFlash(c, loginRequiredNotice)
			return c.Redirect("/login")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// currentUser returns the authenticated user set by RequireUser or the
// session middleware; nil for anonymous callers.
func currentUser(c *fiber.Ctx) *domain.User {
	if u, ok := c.Locals("user").(*domain.User); ok {
		return u
	}
	return nil
}

// callerID is the caller's user id, 0 for anonymous.
func callerID(c *fiber.Ctx) int64 {
	if u := currentUser(c); u != nil {
		return u.ID
	}
	return 0
}
