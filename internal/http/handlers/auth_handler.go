package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "github.com/BartoszJarocki/udacity-catalog/internal/log"
	"github.com/BartoszJarocki/udacity-catalog/internal/oauth"
	"github.com/BartoszJarocki/udacity-catalog/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     "sid",
			Value:    sid,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false,
		})
	}
	return sid
}

// LoginForm shows the login entry point with a fresh state nonce.
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	sid := ensureSID(c)
	state, err := h.Auth.NewLoginState(sid)
	if err != nil {
		applog.Error(c, "auth.state.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Something went wrong. Please try again."})
	}
	return render(c, "login", fiber.Map{"State": state})
}

// GConnect exchanges the provider authorization code posted by the
// browser for a verified identity and signs the session in. Requests
// without the X-Requested-With header are rejected before touching the
// provider.
func (h *AuthHandler) GConnect(c *fiber.Ctx) error {
	if c.Get("X-Requested-With") == "" {
		applog.Security(c, "auth.gconnect.no_header", nil)
		return c.Status(fiber.StatusForbidden).JSON("Invalid state")
	}

	sid := ensureSID(c)
	code := string(c.Body())

	u, err := h.Auth.CompleteLogin(c.UserContext(), sid, code)
	if err != nil {
		var pe *oauth.ProviderError
		switch {
		case errors.Is(err, oauth.ErrAudienceMismatch):
			applog.Security(c, "auth.gconnect.audience_mismatch", nil)
			return c.Status(fiber.StatusUnauthorized).JSON("Token's client ID does not match app's.")
		case errors.As(err, &pe):
			applog.Error(c, "auth.gconnect.provider_error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(pe.Reason)
		default:
			applog.Error(c, "auth.gconnect.fail", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON("Unexpected error")
		}
	}

	applog.Audit(c, "auth.login.success", map[string]any{"email": u.Email})
	return c.JSON("User was logged in!")
}

// Logout revokes the provider token (best effort), clears the session
// identity, and sends the caller home. Logging out while logged out is
// fine.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := c.Cookies("sid")
	if sid == "" {
		return c.Redirect("/")
	}
	if err := h.Auth.Logout(c.UserContext(), sid); err != nil {
		applog.Error(c, "auth.logout.fail", err, nil)
	}
	// Expire cookie
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "auth.logout", map[string]any{"sid": sid})
	return c.Redirect("/")
}
