package handlers_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"ccp/internal/http/handlers"
	"ccp/web"
)

// friendly error surface, no internal leakage
func TestErrorHandlerFriendlyMessage(t *testing.T) {
	app := fiber.New(fiber.Config{Views: web.Engine(), ErrorHandler: handlers.ErrorHandler})
	app.Use(requestid.New())

	app.Get("/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "db timeout: secret trace")
	})
	app.Get("/api/v1/err", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "dial tcp 10.0.0.7: secret")
	})

	for _, path := range []string{"/err", "/api/v1/err"} {
		var resp *httpResponse
		entries := captureLogs(t, func() {
			r, err := app.Test(httptest.NewRequest("GET", path, nil))
			if err != nil {
				t.Fatalf("test request failed: %v", err)
			}
			body, _ := io.ReadAll(r.Body)
			resp = &httpResponse{status: r.StatusCode, body: string(body)}
		})
		if resp.status != fiber.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", path, resp.status)
		}
		if !strings.Contains(resp.body, "Algo salió mal") {
			t.Fatalf("%s: friendly message missing; body=%s", path, resp.body)
		}
		if strings.Contains(resp.body, "secret") {
			t.Fatalf("%s: internal details leaked to user; body=%s", path, resp.body)
		}
		if !hasAction(entries, "error", "server.error") {
			t.Fatalf("%s: error not logged: %+v", path, entries)
		}
	}
}

type httpResponse struct {
	status int
	body   string
}
