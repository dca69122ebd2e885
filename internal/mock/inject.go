package mock

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	applog "ccp/internal/log"
)

// Injection modes.
const (
	ModeNormal      = "normal"
	ModeServerError = "server_error"
	ModeRateLimit   = "rate_limit"
	ModeDelay       = "delay"
)

// InjectRequest configures error injection. Path limits it to requests whose
// path starts with the given prefix; empty applies to every service route.
type InjectRequest struct {
	Mode            string  `json:"mode"`
	Path            string  `json:"path,omitempty"`
	ServerErrorRate float64 `json:"server_error_rate,omitempty"`
	RateLimitAfter  int     `json:"rate_limit_after,omitempty"`
	RetryAfterSecs  int     `json:"retry_after_secs,omitempty"`
	DelayMs         int     `json:"delay_ms,omitempty"`
}

type injector struct {
	mu       sync.Mutex
	cfg      InjectRequest
	requests int
}

func (in *injector) set(req InjectRequest) {
	if req.Mode == ModeServerError && req.ServerErrorRate <= 0 {
		req.ServerErrorRate = 1
	}
	if req.RetryAfterSecs <= 0 {
		req.RetryAfterSecs = 5
	}
	in.mu.Lock()
	in.cfg, in.requests = req, 0
	in.mu.Unlock()
}

func (in *injector) reset() { in.set(InjectRequest{Mode: ModeNormal}) }

func (in *injector) status() fiber.Map {
	in.mu.Lock()
	defer in.mu.Unlock()
	return fiber.Map{"config": in.cfg, "request_count": in.requests}
}

// middleware applies the current injection to service routes. Admin and
// health routes are never affected.
func (in *injector) middleware(c *fiber.Ctx) error {
	path := c.Path()
	if strings.HasPrefix(path, "/admin") || path == "/healthz" {
		return c.Next()
	}
	in.mu.Lock()
	cfg := in.cfg
	if cfg.Path != "" && !strings.HasPrefix(path, cfg.Path) {
		in.mu.Unlock()
		return c.Next()
	}
	in.requests++
	count := in.requests
	in.mu.Unlock()

	switch cfg.Mode {
	case ModeServerError:
		if rand.Float64() < cfg.ServerErrorRate {
			applog.Security(c, "mock.inject.server_error", nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"msg": "error interno simulado"})
		}
	case ModeRateLimit:
		if count > cfg.RateLimitAfter {
			applog.Security(c, "mock.inject.rate_limit", map[string]any{"count": count})
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(cfg.RetryAfterSecs))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"msg": "demasiadas solicitudes"})
		}
	case ModeDelay:
		time.Sleep(time.Duration(cfg.DelayMs) * time.Millisecond)
	}
	return c.Next()
}

func (in *injector) handleInject(c *fiber.Ctx) error {
	var req InjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "cuerpo inválido"})
	}
	switch req.Mode {
	case ModeNormal, ModeServerError, ModeRateLimit, ModeDelay:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"msg": "modo inválido"})
	}
	in.set(req)
	applog.Audit(c, "mock.inject.set", map[string]any{"mode": req.Mode, "path": req.Path})
	return c.JSON(in.status())
}

func (in *injector) handleReset(c *fiber.Ctx) error {
	in.reset()
	applog.Audit(c, "mock.inject.reset", nil)
	return c.JSON(in.status())
}
