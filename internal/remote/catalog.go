package remote

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ccp/internal/domain"
)

type InventoryClient struct{ client }

func NewInventoryClient(base string, timeout time.Duration) *InventoryClient {
	return &InventoryClient{newClient("inventario", base, timeout)}
}

type stockWire struct {
	ID        flexID          `json:"id"`
	ProductID flexID          `json:"producto_id"`
	Name      string          `json:"nombre"`
	Price     decimal.Decimal `json:"precio"`
	SKU       int64           `json:"sku"`
	Available *int            `json:"cantidadDisponible"`
}

// ListInventory returns the products with units available; entries with
// cantidadDisponible <= 0 or missing are dropped.
func (c *InventoryClient) ListInventory(ctx context.Context) ([]domain.Product, error) {
	var rows []stockWire
	if err := c.get(ctx, "/stock_listar_inventarios", "", &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		id := string(r.ProductID)
		if id == "" {
			id = string(r.ID)
		}
		p := domain.Product{ID: id, Name: r.Name, Price: r.Price, SKU: r.SKU, AvailableQuantity: r.Available}
		if p.Available() {
			out = append(out, p)
		}
	}
	return out, nil
}

type CustomersClient struct{ client }

func NewCustomersClient(base string, timeout time.Duration) *CustomersClient {
	return &CustomersClient{newClient("clientes", base, timeout)}
}

type customerWire struct {
	ID      flexID `json:"id"`
	Name    string `json:"nombre"`
	Address string `json:"direccion"`
	Phone   string `json:"telefono"`
	Email   string `json:"correo"`
}

func (c *CustomersClient) ListBySeller(ctx context.Context, sellerID string) ([]domain.Customer, error) {
	var rows []customerWire
	q := url.Values{"vendedor_id": {sellerID}}.Encode()
	if err := c.get(ctx, "/clientes", q, &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Customer, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Customer{ID: string(r.ID), Name: r.Name, Address: r.Address, Phone: r.Phone, Email: r.Email})
	}
	return out, nil
}

type OrdersClient struct{ client }

func NewOrdersClient(base string, timeout time.Duration) *OrdersClient {
	return &OrdersClient{newClient("pedidos", base, timeout)}
}

type createOrderResponse struct {
	ID  flexID `json:"id"`
	Msg string `json:"msg"`
}

// Create submits an order and returns the id assigned by the service. key
// goes out as the Idempotency-Key header so a resubmitted order is answered
// with the original id; an empty key gets a fresh one.
func (c *OrdersClient) Create(ctx context.Context, key string, p domain.OrderPayload) (string, error) {
	if key == "" {
		key = uuid.NewString()
	}
	var res createOrderResponse
	hdr := map[string]string{"Idempotency-Key": key}
	if err := c.post(ctx, "/pedido/crear", p, hdr, &res); err != nil {
		return "", err
	}
	return string(res.ID), nil
}

type orderWire struct {
	ID        flexID          `json:"id"`
	ClientID  flexID          `json:"cliente_id"`
	SellerID  flexID          `json:"vendedor_id"`
	Status    string          `json:"estado"`
	Total     decimal.Decimal `json:"valor_total"`
	CreatedAt string          `json:"fecha_creacion"`
}

var orderTimeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", time.DateOnly}

func parseOrderTime(s string) (time.Time, error) {
	for _, layout := range orderTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized fecha_creacion %q", s)
}

func (c *OrdersClient) List(ctx context.Context) ([]domain.OrderSummary, error) {
	var rows []orderWire
	if err := c.get(ctx, "/pedidos", "", &rows); err != nil {
		return nil, err
	}
	out := make([]domain.OrderSummary, 0, len(rows))
	for _, r := range rows {
		ts, err := parseOrderTime(r.CreatedAt)
		if err != nil {
			return nil, &Error{Service: c.service, Status: 200, Err: err}
		}
		out = append(out, domain.OrderSummary{
			ID: string(r.ID), ClientID: string(r.ClientID), SellerID: string(r.SellerID),
			Status: r.Status, Total: r.Total, CreatedAt: ts,
		})
	}
	return out, nil
}
