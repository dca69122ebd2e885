package handlers

import (
	"github.com/gofiber/fiber/v2"

	"ccp/internal/domain"
	applog "ccp/internal/log"
	"ccp/internal/repos"
)

type PrefsHandler struct {
	Prefs *repos.PrefsRepo
}

func prefsJSON(c *fiber.Ctx, p domain.Preferences) error {
	return c.JSON(fiber.Map{
		"preferencias": p,
		"paleta":       domain.PaletteFor(p.Theme),
		"escala":       p.FontSize.FontScale(),
	})
}

// GET /api/v1/prefs
func (h *PrefsHandler) Get(c *fiber.Ctx) error {
	p, err := h.Prefs.Get(ensureCookie(c, didCookie))
	if err != nil {
		return err
	}
	return prefsJSON(c, p)
}

// PUT /api/v1/prefs
func (h *PrefsHandler) Save(c *fiber.Ctx) error {
	var p domain.Preferences
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"codigo": "bad_request"})
	}
	did := ensureCookie(c, didCookie)
	p = p.Normalize()
	if err := h.Prefs.Save(did, p); err != nil {
		applog.Error(c, "prefs.save.fail", err, nil)
		return err
	}
	applog.Info(c, "prefs.save", map[string]any{"theme": p.Theme, "font_size": p.FontSize, "language": p.Language})
	return prefsJSON(c, p)
}
