package mock_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"ccp/internal/mock"
	"ccp/internal/repos"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := repos.SeedDemo(db); err != nil {
		t.Fatal(err)
	}
	return mock.New(db).App()
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var m map[string]any
	_ = json.Unmarshal(raw, &m)
	return resp.StatusCode, m
}

func TestLoginAndProfileRoutes(t *testing.T) {
	app := newApp(t)

	code, m := do(t, app, http.MethodPost, "/login", `{"correo":"ana.vendedora@ccp.test","contrasena":"Passw0rd!"}`)
	if code != http.StatusOK || m["id"] != "v-001" {
		t.Fatalf("seller login: %d %v", code, m)
	}
	code, m = do(t, app, http.MethodPost, "/login", `{"correo":"ana.vendedora@ccp.test","contrasena":"wrong"}`)
	if code != http.StatusUnauthorized || m["msg"] == nil {
		t.Fatalf("bad password: %d %v", code, m)
	}

	code, m = do(t, app, http.MethodGet, "/obtener_vendedor/v-001", "")
	if code != http.StatusOK || m["nombre"] != "Ana Vendedora" {
		t.Fatalf("seller profile: %d %v", code, m)
	}
	// The catch-all client profile route must not shadow the named routes.
	code, m = do(t, app, http.MethodGet, "/c-001", "")
	if code != http.StatusOK || m["correo"] != "tienda.aurora@ccp.test" {
		t.Fatalf("client profile: %d %v", code, m)
	}
	code, _ = do(t, app, http.MethodGet, "/v-001", "")
	if code != http.StatusNotFound {
		t.Fatalf("seller id is not a client, got %d", code)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	app := newApp(t)
	body := `{"nombre":"Nueva","correo":"nueva@ccp.test","contrasena":"secreto1"}`
	if code, m := do(t, app, http.MethodPost, "/crear", body); code != http.StatusCreated {
		t.Fatalf("register: %d %v", code, m)
	}
	if code, _ := do(t, app, http.MethodPost, "/crear", body); code != http.StatusConflict {
		t.Fatalf("duplicate should be 409, got %d", code)
	}
	if code, _ := do(t, app, http.MethodPost, "/crear_vendedor", `{"nombre":"X","correo":"bad","contrasena":"secreto1"}`); code != http.StatusBadRequest {
		t.Fatalf("bad email should be 400, got %d", code)
	}
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	app := newApp(t)
	code, m := do(t, app, http.MethodPost, "/pedido/crear",
		`{"cliente_id":"c-001","direccion":"Calle 80 #12-34. Bogotá","productos":[{"sku":1004,"cantidad":99}]}`)
	if code != http.StatusConflict || m["msg"] != "stock insuficiente" {
		t.Fatalf("want 409 stock insuficiente, got %d %v", code, m)
	}
	code, m = do(t, app, http.MethodPost, "/pedido/crear",
		`{"cliente_id":"c-001","direccion":"Calle 80 #12-34. Bogotá","productos":[{"sku":1004,"cantidad":1}]}`)
	if code != http.StatusCreated || m["id"] == "" {
		t.Fatalf("want 201, got %d %v", code, m)
	}
}

func TestErrorInjection(t *testing.T) {
	app := newApp(t)
	if code, _ := do(t, app, http.MethodPost, "/admin/inject-error", `{"mode":"server_error","path":"/stock"}`); code != http.StatusOK {
		t.Fatalf("inject: %d", code)
	}
	if code, _ := do(t, app, http.MethodGet, "/stock_listar_inventarios", ""); code != http.StatusInternalServerError {
		t.Fatalf("want injected 500, got %d", code)
	}
	if code, _ := do(t, app, http.MethodGet, "/clientes?vendedor_id=v-001", ""); code != http.StatusOK {
		t.Fatalf("other routes unaffected, got %d", code)
	}
	if code, _ := do(t, app, http.MethodGet, "/healthz", ""); code != http.StatusOK {
		t.Fatalf("health is never injected, got %d", code)
	}

	do(t, app, http.MethodPost, "/admin/reset", "")
	if code, _ := do(t, app, http.MethodGet, "/stock_listar_inventarios", ""); code != http.StatusOK {
		t.Fatalf("after reset want 200, got %d", code)
	}

	if code, _ := do(t, app, http.MethodPost, "/admin/inject-error", `{"mode":"chaos"}`); code != http.StatusBadRequest {
		t.Fatalf("unknown mode should be 400, got %d", code)
	}
}
