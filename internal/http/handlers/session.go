package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ccp/internal/domain"
	"ccp/internal/i18n"
	"ccp/internal/repos"
	"ccp/internal/session"
)

const (
	sidCookie = "sid"
	didCookie = "did"
)

// ensureCookie returns the cookie value, issuing a fresh uuid when absent.
func ensureCookie(c *fiber.Ctx, name string) string {
	v := c.Cookies(name)
	if v == "" {
		v = uuid.NewString()
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    v,
			Path:     "/",
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
			Secure:   false, // enable true behind TLS
		})
	}
	return v
}

func ensureSID(c *fiber.Ctx) string { return ensureCookie(c, sidCookie) }

// Attach loads the session state and language into Locals for the
// handlers and the request logger.
func Attach(sessions *session.Registry, prefs *repos.PrefsRepo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		st := sessions.Get(ensureSID(c))
		c.Locals("state", st)
		if snap := st.Auth.Snapshot(); snap.LoggedIn {
			c.Locals("uid", snap.UserID)
			c.Locals("profile", snap.Profile)
		}
		lang := domain.LangES
		if did := c.Cookies(didCookie); did != "" {
			if p, err := prefs.Get(did); err == nil {
				lang = p.Language
			}
		}
		c.Locals("lang", lang)
		return c.Next()
	}
}

func stateOf(c *fiber.Ctx) *session.State {
	st, _ := c.Locals("state").(*session.State)
	return st
}

func langOf(c *fiber.Ctx) domain.Language {
	if l, ok := c.Locals("lang").(domain.Language); ok {
		return l
	}
	return domain.LangES
}

func tr(c *fiber.Ctx, key i18n.Key, args ...any) string {
	return i18n.T(langOf(c), key, args...)
}

// alert is the JSON shape the apps show as a blocking dialog.
func alert(c *fiber.Ctx, status int, code string, key i18n.Key, args ...any) error {
	return c.Status(status).JSON(fiber.Map{
		"titulo":  tr(c, i18n.TitleError),
		"mensaje": tr(c, key, args...),
		"codigo":  code,
	})
}
