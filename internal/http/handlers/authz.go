package handlers

import (
	"github.com/gofiber/fiber/v2"

	"ccp/internal/domain"
	"ccp/internal/i18n"
	applog "ccp/internal/log"
)

// RequireLogin rejects requests from sessions nobody is logged in on.
func RequireLogin(c *fiber.Ctx) error {
	if !stateOf(c).Auth.Snapshot().LoggedIn {
		applog.Security(c, "access.denied.login", nil)
		return alert(c, fiber.StatusUnauthorized, "not_logged_in", i18n.NotLoggedIn)
	}
	return c.Next()
}

// RequireSeller restricts seller-app routes such as the client list.
func RequireSeller(c *fiber.Ctx) error {
	snap := stateOf(c).Auth.Snapshot()
	if !snap.LoggedIn {
		applog.Security(c, "access.denied.login", nil)
		return alert(c, fiber.StatusUnauthorized, "not_logged_in", i18n.NotLoggedIn)
	}
	if snap.Role() != domain.RoleSeller {
		applog.Security(c, "access.denied.seller", map[string]any{"role": snap.Role()})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"codigo": "forbidden"})
	}
	return c.Next()
}
