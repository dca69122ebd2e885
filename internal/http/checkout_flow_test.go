package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"ccp/internal/config"
)

func TestSellerCheckoutFlow(t *testing.T) {
	g := newGateway(t, nil)
	d := g.device(t)
	d.login("ana.vendedora@ccp.test", "vendedor")

	resp, m := d.do(http.MethodGet, "/api/v1/catalog", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("catalog: %d %v", resp.StatusCode, m)
	}
	if items := m["items"].([]any); len(items) != 4 {
		t.Fatalf("want 4 products in stock, got %d", len(items))
	}

	d.do(http.MethodPost, "/api/v1/cart", map[string]any{"producto_id": "p-001", "cantidad": 2})
	_, m = d.do(http.MethodPost, "/api/v1/cart", map[string]any{"producto_id": "p-002", "cantidad": 1})
	if m["total"] != "40000" {
		t.Fatalf("want total 40000, got %v", m["total"])
	}

	// No client selected yet.
	resp, m = d.do(http.MethodPost, "/api/v1/checkout", nil)
	if resp.StatusCode != http.StatusUnprocessableEntity || m["codigo"] != "client" {
		t.Fatalf("want client precondition, got %d %v", resp.StatusCode, m)
	}

	resp, m = d.do(http.MethodPut, "/api/v1/checkout/customer", map[string]string{"cliente_id": "c-003"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("c-003 belongs to another seller, got %d %v", resp.StatusCode, m)
	}
	_, m = d.do(http.MethodPut, "/api/v1/checkout/customer", map[string]string{"cliente_id": "c-001"})
	if m["direccion"] != "Calle 80 #12-34. Bogotá" {
		t.Fatalf("address should prefill from the client, got %v", m)
	}

	resp, m = d.do(http.MethodPost, "/api/v1/checkout", nil)
	if resp.StatusCode != http.StatusCreated || m["pedido_id"] == "" {
		t.Fatalf("submit: %d %v", resp.StatusCode, m)
	}
	if !strings.Contains(m["mensaje"].(string), "creado") {
		t.Fatalf("want success alert, got %v", m["mensaje"])
	}

	// Cart stays until the alert is dismissed.
	if _, m = d.do(http.MethodGet, "/api/v1/cart", nil); len(m["items"].([]any)) != 2 {
		t.Fatalf("cart should be intact before dismiss: %v", m)
	}
	_, m = d.do(http.MethodPost, "/api/v1/checkout/dismiss", nil)
	if m["estado"] != "idle" || m["direccion"] != "" || m["cliente"] != nil || m["items"] != float64(0) {
		t.Fatalf("dismiss should reset the form, got %v", m)
	}

	resp, m = d.do(http.MethodGet, "/admin/orders?refresh=1", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(m["_raw"].(string), "c-001") {
		t.Fatalf("admin page should list the order: %d", resp.StatusCode)
	}
}

func TestEmptyCartSubmitNeverReachesBackend(t *testing.T) {
	g := newGateway(t, nil)
	d := g.device(t)
	d.login("tienda.aurora@ccp.test", "cliente")

	resp, m := d.do(http.MethodPost, "/api/v1/checkout", nil)
	if resp.StatusCode != http.StatusUnprocessableEntity || m["codigo"] != "cart" {
		t.Fatalf("want cart precondition, got %d %v", resp.StatusCode, m)
	}
	if !strings.Contains(m["mensaje"].(string), "carrito está vacío") {
		t.Fatalf("want cart-empty message, got %v", m["mensaje"])
	}
	if n, err := g.deps.Orders.Refresh(t.Context()); err != nil || len(n) != 0 {
		t.Fatalf("no order should exist, got %v %v", n, err)
	}
}

func TestAddressFormatIsChecked(t *testing.T) {
	g := newGateway(t, nil)
	d := g.device(t)
	d.login("tienda.aurora@ccp.test", "cliente")
	d.do(http.MethodPost, "/api/v1/cart", map[string]any{"producto_id": "p-003", "cantidad": 1})

	d.do(http.MethodPut, "/api/v1/checkout/address", map[string]string{"direccion": "Calle 80 #12-34"})
	resp, m := d.do(http.MethodPost, "/api/v1/checkout", nil)
	if resp.StatusCode != http.StatusUnprocessableEntity || !strings.Contains(m["mensaje"].(string), "ciudad") {
		t.Fatalf("want missing-city alert, got %d %v", resp.StatusCode, m)
	}
}

func TestAddressCheckSkippedInTestMode(t *testing.T) {
	g := newGateway(t, func(c *config.Config) { c.Env = "test" })
	d := g.device(t)
	d.login("tienda.aurora@ccp.test", "cliente")
	d.do(http.MethodPost, "/api/v1/cart", map[string]any{"producto_id": "p-003", "cantidad": 1})
	d.do(http.MethodPut, "/api/v1/checkout/address", map[string]string{"direccion": "casa azul"})
	if resp, m := d.do(http.MethodPost, "/api/v1/checkout", nil); resp.StatusCode != http.StatusCreated {
		t.Fatalf("test mode should skip the format check, got %d %v", resp.StatusCode, m)
	}
}

func TestFailedOrderKeepsCartAndForm(t *testing.T) {
	g := newGateway(t, nil)
	d := g.device(t)
	d.login("tienda.aurora@ccp.test", "cliente")
	d.do(http.MethodPost, "/api/v1/cart", map[string]any{"producto_id": "p-001", "cantidad": 1})
	d.do(http.MethodPut, "/api/v1/checkout/address", map[string]string{"direccion": "Calle 80 #12-34. Bogotá"})

	g.inject(t, `{"mode":"server_error","path":"/pedido"}`)
	resp, m := d.do(http.MethodPost, "/api/v1/checkout", nil)
	if resp.StatusCode != http.StatusBadGateway || !strings.Contains(m["mensaje"].(string), "error interno simulado") {
		t.Fatalf("want order failure with server text, got %d %v", resp.StatusCode, m)
	}

	_, m = d.do(http.MethodPost, "/api/v1/checkout/dismiss", nil)
	if m["items"] != float64(1) || m["direccion"] != "Calle 80 #12-34. Bogotá" {
		t.Fatalf("failure must keep cart and address, got %v", m)
	}
}
