package remote_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"ccp/internal/domain"
	"ccp/internal/mock"
	"ccp/internal/remote"
	"ccp/internal/repos"
)

func backend(t *testing.T) string {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	if err := repos.SeedDemo(db); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(adaptor.FiberApp(mock.New(db).App()))
	t.Cleanup(func() {
		srv.Close()
		_ = db.Close()
	})
	return srv.URL
}

func TestSellerLoginAndProfile(t *testing.T) {
	base := backend(t)
	acc := remote.NewSellerAccounts(base, 5*time.Second)
	ctx := context.Background()

	id, err := acc.Login(ctx, domain.Credentials{Email: "luis.vendedor@ccp.test", Password: "Passw0rd!"})
	if err != nil || id != "v-002" {
		t.Fatalf("login: %q %v", id, err)
	}
	p, err := acc.Profile(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Luis Vendedor" || p.Role != domain.RoleSeller {
		t.Fatalf("unexpected profile %+v", p)
	}

	_, err = acc.Login(ctx, domain.Credentials{Email: "luis.vendedor@ccp.test", Password: "nope"})
	var rerr *remote.Error
	if !errors.As(err, &rerr) || rerr.Status != http.StatusUnauthorized || rerr.Message != "Credenciales inválidas" {
		t.Fatalf("want 401 with server message, got %v", err)
	}
}

func TestClientRegisterThenProfile(t *testing.T) {
	base := backend(t)
	acc := remote.NewClientAccounts(base, 5*time.Second)
	ctx := context.Background()
	reg := domain.Registration{Name: "Tienda Nueva", Email: "nueva@ccp.test", Password: "secreto1", Address: "Calle 1 #2-3. Cali"}
	if err := acc.Register(ctx, reg); err != nil {
		t.Fatal(err)
	}
	id, err := acc.Login(ctx, reg.Credentials())
	if err != nil {
		t.Fatal(err)
	}
	p, err := acc.Profile(ctx, id)
	if err != nil || p.Address != reg.Address {
		t.Fatalf("profile: %+v %v", p, err)
	}
}

func TestInventoryDropsUnavailable(t *testing.T) {
	inv := remote.NewInventoryClient(backend(t), 5*time.Second)
	items, err := inv.ListInventory(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 4 {
		t.Fatalf("want 4 products in stock, got %d", len(items))
	}
	for _, p := range items {
		if p.SKU == 1005 {
			t.Fatal("sku 1005 has no stock and must be dropped")
		}
	}
}

func TestCustomersAndOrders(t *testing.T) {
	base := backend(t)
	ctx := context.Background()

	cs, err := remote.NewCustomersClient(base, 5*time.Second).ListBySeller(ctx, "v-001")
	if err != nil || len(cs) != 2 {
		t.Fatalf("customers: %v %v", cs, err)
	}

	orders := remote.NewOrdersClient(base, 5*time.Second)
	payload := domain.OrderPayload{
		ClientID: cs[0].ID, SellerID: "v-001", Address: cs[0].Address,
		Products: []domain.OrderLine{{SKU: 1001, Quantity: 2}, {SKU: 1002, Quantity: 1}},
		Latitude: 4.6, Longitude: -74.1,
	}
	id, err := orders.Create(ctx, "key-1", payload)
	if err != nil || id == "" {
		t.Fatalf("create: %q %v", id, err)
	}
	// Same key is the same order.
	again, err := orders.Create(ctx, "key-1", payload)
	if err != nil || again != id {
		t.Fatalf("resubmit with same key: want %q, got %q %v", id, again, err)
	}
	list, err := orders.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != id || list[0].Total.String() != "40000" || list[0].CreatedAt.IsZero() {
		t.Fatalf("unexpected orders %+v", list)
	}
}

func TestServerErrorIsSurfaced(t *testing.T) {
	base := backend(t)
	resp, err := http.Post(base+"/admin/inject-error", "application/json",
		strings.NewReader(`{"mode":"server_error","path":"/pedido"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	_, err = remote.NewOrdersClient(base, 5*time.Second).Create(context.Background(), "", domain.OrderPayload{
		ClientID: "c-001", Address: "x", Products: []domain.OrderLine{{SKU: 1001, Quantity: 1}},
	})
	var rerr *remote.Error
	if !errors.As(err, &rerr) || rerr.Status != http.StatusInternalServerError {
		t.Fatalf("want 500 remote error, got %v", err)
	}
	if rerr.Error() != "error interno simulado" {
		t.Fatalf("server message should be surfaced verbatim, got %q", rerr.Error())
	}
}

func TestUnreachableServiceHasNoStatus(t *testing.T) {
	inv := remote.NewInventoryClient("http://127.0.0.1:1", time.Second)
	_, err := inv.ListInventory(context.Background())
	var rerr *remote.Error
	if !errors.As(err, &rerr) || rerr.Status != 0 {
		t.Fatalf("want transport error, got %v", err)
	}
}
