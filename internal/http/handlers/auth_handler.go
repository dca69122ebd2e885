package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ccp/internal/domain"
	"ccp/internal/i18n"
	"ccp/internal/log"
	"ccp/internal/remote"
	"ccp/internal/services"
	"ccp/internal/validate"
)

type AuthHandler struct{}

// cause is the text shown after an alert template: the remote service's
// own message when there is one.
func cause(err error) string {
	var rerr *remote.Error
	if errors.As(err, &rerr) {
		return rerr.Error()
	}
	return err.Error()
}

type loginRequest struct {
	domain.Credentials
	Role string `json:"rol"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return alert(c, fiber.StatusBadRequest, "bad_request", i18n.LoginFailed, "solicitud inválida")
	}
	role, ok := domain.ParseRole(req.Role)
	email, okEmail := validate.Email(req.Email)
	if !ok || !okEmail || !validate.Password(req.Password) {
		log.Security(c, "auth.login.fail", map[string]any{"email": req.Email, "reason": "bad_format"})
		return alert(c, fiber.StatusUnauthorized, "login_failed", i18n.LoginFailed, "correo o contraseña inválidos")
	}
	req.Email = email

	snap, err := stateOf(c).Auth.Login(c.UserContext(), role, req.Credentials)
	switch {
	case errors.Is(err, services.ErrProfileUnavailable):
		log.Error(c, "auth.login.profile_unavailable", err, map[string]any{"email": email})
		return alert(c, fiber.StatusBadGateway, "profile_unavailable", i18n.ProfileUnavailable, cause(err))
	case err != nil:
		log.Security(c, "auth.login.fail", map[string]any{"email": email, "role": role})
		return alert(c, fiber.StatusUnauthorized, "login_failed", i18n.LoginFailed, cause(err))
	}
	c.Locals("uid", snap.UserID)
	log.Audit(c, "auth.login.success", map[string]any{"email": email, "role": role})
	return c.JSON(snap)
}

type registerRequest struct {
	domain.Registration
	Role string `json:"rol"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return alert(c, fiber.StatusBadRequest, "bad_request", i18n.RegisterFailed, "solicitud inválida")
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		return alert(c, fiber.StatusBadRequest, "bad_role", i18n.RegisterFailed, "rol inválido")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return alert(c, fiber.StatusBadRequest, "bad_email", i18n.RegisterFailed, "correo inválido")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return alert(c, fiber.StatusBadRequest, "bad_name", i18n.RegisterFailed, "nombre inválido")
	}
	if !validate.Password(req.Password) {
		return alert(c, fiber.StatusBadRequest, "bad_password", i18n.RegisterFailed, "la contraseña debe tener entre 6 y 64 caracteres")
	}
	if req.Phone != "" {
		phone, ok := validate.Phone(req.Phone)
		if !ok {
			return alert(c, fiber.StatusBadRequest, "bad_phone", i18n.RegisterFailed, "teléfono inválido")
		}
		req.Phone = phone
	}
	req.Email, req.Name = email, name

	snap, err := stateOf(c).Auth.Register(c.UserContext(), role, req.Registration)
	switch {
	case errors.Is(err, services.ErrRegisterFailed):
		log.Security(c, "auth.register.fail", map[string]any{"email": email, "role": role})
		return alert(c, fiber.StatusBadRequest, "register_failed", i18n.RegisterFailed, cause(err))
	case errors.Is(err, services.ErrProfileUnavailable):
		log.Error(c, "auth.register.profile_unavailable", err, map[string]any{"email": email})
		return alert(c, fiber.StatusBadGateway, "profile_unavailable", i18n.ProfileUnavailable, cause(err))
	case err != nil:
		log.Security(c, "auth.register.login_fail", map[string]any{"email": email})
		return alert(c, fiber.StatusUnauthorized, "login_failed", i18n.LoginFailed, cause(err))
	}
	c.Locals("uid", snap.UserID)
	log.Audit(c, "auth.register.success", map[string]any{"email": email, "role": role})
	return c.Status(fiber.StatusCreated).JSON(snap)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	stateOf(c).Auth.Logout()
	log.Audit(c, "auth.logout", nil)
	return c.JSON(stateOf(c).Auth.Snapshot())
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(stateOf(c).Auth.Snapshot())
}
