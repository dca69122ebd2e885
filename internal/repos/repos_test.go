package repos_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"ccp/internal/domain"
	"ccp/internal/repos"
)

func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPrefsDefaultsAndSave(t *testing.T) {
	r := repos.NewPrefsRepo(memdb(t))

	p, err := r.Get("device-1")
	if err != nil {
		t.Fatal(err)
	}
	if p != domain.DefaultPreferences() {
		t.Fatalf("want defaults, got %+v", p)
	}

	want := domain.Preferences{Theme: domain.ThemeDark, FontSize: domain.FontLarge, Language: domain.LangEN}
	if err := r.Save("device-1", want); err != nil {
		t.Fatal(err)
	}
	if err := r.Save("device-1", want); err != nil {
		t.Fatalf("second save should upsert: %v", err)
	}
	got, err := r.Get("device-1")
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("want %+v, got %+v", want, got)
	}

	if err := r.Save("device-2", domain.Preferences{Theme: "neon"}); err != nil {
		t.Fatal(err)
	}
	if got, _ := r.Get("device-2"); got.Theme != domain.ThemeLight {
		t.Fatalf("unknown theme should normalize to light, got %q", got.Theme)
	}
}

func TestOrderCreateDecrementsStock(t *testing.T) {
	db := memdb(t)
	if err := repos.SeedDemo(db); err != nil {
		t.Fatal(err)
	}
	inv := repos.NewInventoryRepo(db)
	orders := repos.NewOrderRepo(db)

	payload := domain.OrderPayload{
		ClientID: "c-001",
		Address:  "Calle 80 #12-34. Bogotá",
		Products: []domain.OrderLine{{SKU: 1001, Quantity: 2}, {SKU: 1002, Quantity: 1}},
	}
	id, err := orders.Create(payload, "key-1")
	if err != nil {
		t.Fatal(err)
	}
	if qty, _ := inv.Qty(1001); qty != 118 {
		t.Fatalf("want 118 left, got %d", qty)
	}

	again, err := orders.Create(payload, "key-1")
	if err != nil || again != id {
		t.Fatalf("replayed key should return %s, got %s (%v)", id, again, err)
	}
	if qty, _ := inv.Qty(1001); qty != 118 {
		t.Fatalf("replay must not decrement again, got %d", qty)
	}

	list, err := orders.ListLatest(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || !list[0].Total.Equal(decimal.NewFromInt(40000)) {
		t.Fatalf("unexpected orders: %+v", list)
	}
	if list[0].CreatedAt.IsZero() {
		t.Fatalf("created_at not scanned")
	}
}

func TestOrderCreateInsufficientStockRollsBack(t *testing.T) {
	db := memdb(t)
	if err := repos.SeedDemo(db); err != nil {
		t.Fatal(err)
	}
	inv := repos.NewInventoryRepo(db)
	orders := repos.NewOrderRepo(db)

	_, err := orders.Create(domain.OrderPayload{
		ClientID: "c-001",
		Products: []domain.OrderLine{{SKU: 1001, Quantity: 1}, {SKU: 1004, Quantity: 10}},
	}, "")
	if !errors.Is(err, repos.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}
	if qty, _ := inv.Qty(1001); qty != 120 {
		t.Fatalf("stock must be untouched after rollback, got %d", qty)
	}
}

func TestAccountsAndCustomers(t *testing.T) {
	db := memdb(t)
	if err := repos.SeedDemo(db); err != nil {
		t.Fatal(err)
	}
	accts := repos.NewAccountRepo(db)

	cs, err := accts.CustomersOf("v-001")
	if err != nil {
		t.Fatal(err)
	}
	if len(cs) != 2 {
		t.Fatalf("want 2 customers for v-001, got %+v", cs)
	}

	reg := domain.Registration{Name: "Nuevo", Email: "TIENDA.AURORA@ccp.test", Password: "secreto1"}
	if _, err := accts.Create(domain.RoleClient, reg, "x"); !errors.Is(err, repos.ErrDuplicateEmail) {
		t.Fatalf("want duplicate email error, got %v", err)
	}
	// Same email is fine for the other role.
	if _, err := accts.Create(domain.RoleSeller, reg, "x"); err != nil {
		t.Fatal(err)
	}
}
