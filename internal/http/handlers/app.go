package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"ccp/internal/config"
	"ccp/internal/i18n"
	applog "ccp/internal/log"
	"ccp/web"
)

const friendlyError = "Algo salió mal. Intenta de nuevo."

// ErrorHandler logs the failure and answers without internal details: JSON
// under /api, the error page elsewhere.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok && fe.Code < 500 {
		code = fe.Code
	}
	applog.Error(c, "server.error", err, map[string]any{"status": code})
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"titulo": "Error", "mensaje": friendlyError})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Title": "Error", "Message": friendlyError}); rerr != nil {
		return c.Status(code).SendString(friendlyError)
	}
	return nil
}

// NewApp builds the gateway: middlewares, the mobile JSON API and the admin
// panel.
func NewApp(cfg config.Config, d *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "ccp",
		Views:        web.Engine(),
		ErrorHandler: ErrorHandler,
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/healthz"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"codigo": "rate_limited"})
		},
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		_, at, ok, lastErr := d.Inventory.Latest()
		out := fiber.Map{"ok": true, "sessions": d.Sessions.Len(), "inventory_loaded": ok}
		if ok {
			out["inventory_updated"] = at
		}
		if lastErr != nil {
			out["inventory_error"] = lastErr.Error()
		}
		return c.JSON(out)
	})

	api := app.Group("/api/v1", Attach(d.Sessions, d.Prefs))

	auth := api.Group("/auth")
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return alert(c, fiber.StatusTooManyRequests, "rate_limited", i18n.LoginFailed, "demasiados intentos, intenta más tarde")
		},
	}), d.AuthHandler.Login)
	auth.Post("/register", d.AuthHandler.Register)
	auth.Post("/logout", d.AuthHandler.Logout)
	auth.Get("/me", d.AuthHandler.Me)

	api.Get("/catalog", d.CatalogHandler.List)
	api.Post("/catalog/filter", d.CatalogHandler.Filter)
	api.Delete("/catalog/filter", d.CatalogHandler.ResetFilter)
	api.Get("/catalog/:id", d.CatalogHandler.Get)

	api.Get("/cart", d.CartHandler.View)
	api.Post("/cart", d.CartHandler.Add)
	api.Delete("/cart", d.CartHandler.Clear)
	api.Patch("/cart/:id", d.CartHandler.Update)
	api.Delete("/cart/:id", d.CartHandler.Remove)

	api.Get("/customers", RequireSeller, d.CheckoutHandler.Customers)
	api.Put("/checkout/customer", RequireSeller, d.CheckoutHandler.SelectCustomer)
	api.Put("/checkout/address", d.CheckoutHandler.SetAddress)
	api.Get("/checkout", d.CheckoutHandler.View)
	api.Post("/checkout", d.CheckoutHandler.Submit)
	api.Post("/checkout/dismiss", d.CheckoutHandler.Dismiss)

	api.Get("/prefs", d.PrefsHandler.Get)
	api.Put("/prefs", d.PrefsHandler.Save)

	adminMW := []fiber.Handler{Attach(d.Sessions, d.Prefs)}
	if cfg.AdminUser != "" {
		adminMW = append([]fiber.Handler{basicauth.New(basicauth.Config{
			Users: map[string]string{cfg.AdminUser: cfg.AdminPassword},
			Realm: "CCP Logística",
			Unauthorized: func(c *fiber.Ctx) error {
				applog.Security(c, "access.denied.admin", nil)
				c.Set(fiber.HeaderWWWAuthenticate, `basic realm="CCP Logística"`)
				return c.SendStatus(fiber.StatusUnauthorized)
			},
		})}, adminMW...)
	}
	admin := app.Group("/admin", adminMW...)
	admin.Get("/", func(c *fiber.Ctx) error { return c.Redirect("/admin/orders") })
	admin.Get("/inventory", d.AdminHandler.Inventory)
	admin.Get("/orders", d.AdminHandler.OrdersPage)

	app.Use(func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), "/api/") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"codigo": "not_found"})
		}
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Title": "No encontrado", "Message": "Página no encontrada"})
	})
	return app
}
