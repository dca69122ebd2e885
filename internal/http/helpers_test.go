package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"ccp/internal/config"
	"ccp/internal/http/handlers"
	"ccp/internal/mock"
	"ccp/internal/repos"
)

type gateway struct {
	app     *fiber.App
	backend string
	deps    *handlers.Deps
}

// newGateway wires the gateway against a seeded mock backend.
func newGateway(t *testing.T, tweak func(*config.Config)) *gateway {
	t.Helper()
	mockDB, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open mock db: %v", err)
	}
	if err := repos.SeedDemo(mockDB); err != nil {
		t.Fatalf("seed: %v", err)
	}
	srv := httptest.NewServer(adaptor.FiberApp(mock.New(mockDB).App()))

	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		srv.Close()
		_ = mockDB.Close()
		_ = db.Close()
	})

	cfg := config.Config{
		Env:          "dev",
		AuthURL:      srv.URL,
		SellersURL:   srv.URL,
		ClientsURL:   srv.URL,
		InventoryURL: srv.URL,
		OrdersURL:    srv.URL,
		Geo:          config.GeoBox{MinLat: 4.47, MaxLat: 4.83, MinLon: -74.22, MaxLon: -74.01},
	}
	if tweak != nil {
		tweak(&cfg)
	}
	deps := handlers.NewDeps(db, cfg)
	return &gateway{app: handlers.NewApp(cfg, deps), backend: srv.URL, deps: deps}
}

// inject configures error injection on the mock backend.
func (g *gateway) inject(t *testing.T, body string) {
	t.Helper()
	resp, err := http.Post(g.backend+"/admin/inject-error", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("inject failed: %d", resp.StatusCode)
	}
}

// device is one phone: it keeps the cookies the gateway hands out.
type device struct {
	t       *testing.T
	g       *gateway
	cookies map[string]*http.Cookie
}

func (g *gateway) device(t *testing.T) *device {
	return &device{t: t, g: g, cookies: map[string]*http.Cookie{}}
}

func (d *device) do(method, path string, body any) (*http.Response, map[string]any) {
	d.t.Helper()
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range d.cookies {
		req.AddCookie(c)
	}
	resp, err := d.g.app.Test(req, -1)
	if err != nil {
		d.t.Fatalf("%s %s: %v", method, path, err)
	}
	for _, c := range resp.Cookies() {
		d.cookies[c.Name] = c
	}
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	var m map[string]any
	_ = json.Unmarshal(raw, &m)
	if m == nil {
		m = map[string]any{"_raw": string(raw)}
	}
	return resp, m
}

func (d *device) login(email string, role string) {
	d.t.Helper()
	resp, m := d.do(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"correo": email, "contrasena": "Passw0rd!", "rol": role,
	})
	if resp.StatusCode != http.StatusOK {
		d.t.Fatalf("login %s: %d %v", email, resp.StatusCode, m)
	}
}

type logEntry struct {
	Level  string                 `json:"level"`
	Action string                 `json:"action"`
	UserID string                 `json:"user_id"`
	Fields map[string]interface{} `json:"fields"`
}

// capture logs by temporarily replacing the standard logger output
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0) // remove timestamps to make JSON parseable
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e logEntry
		if err := json.Unmarshal([]byte(line), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

func hasAction(entries []logEntry, level, action string) bool {
	for _, e := range entries {
		if e.Level == level && e.Action == action {
			return true
		}
	}
	return false
}
