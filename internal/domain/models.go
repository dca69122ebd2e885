package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                string          `json:"id" db:"id"`
	Name              string          `json:"nombre" db:"name"`
	Price             decimal.Decimal `json:"precio" db:"price"`
	SKU               int64           `json:"sku" db:"sku"`
	AvailableQuantity *int            `json:"cantidadDisponible,omitempty" db:"qty"`
}

// Available reports whether the inventory service listed units for the product.
func (p Product) Available() bool {
	return p.AvailableQuantity != nil && *p.AvailableQuantity > 0
}

type CartItem struct {
	Product  Product `json:"producto"`
	Quantity int     `json:"cantidad"`
}

func (it CartItem) Subtotal() decimal.Decimal {
	return it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// OrderLine is one entry of the "productos" array sent to the orders service.
type OrderLine struct {
	SKU      int64 `json:"sku" db:"sku"`
	Quantity int   `json:"cantidad" db:"qty"`
}

type OrderPayload struct {
	ClientID  string      `json:"cliente_id"`
	SellerID  string      `json:"vendedor_id,omitempty"`
	Address   string      `json:"direccion"`
	Products  []OrderLine `json:"productos"`
	Latitude  float64     `json:"latitud"`
	Longitude float64     `json:"longitud"`
}

type OrderSummary struct {
	ID        string          `json:"id" db:"id"`
	ClientID  string          `json:"cliente_id" db:"client_id"`
	SellerID  string          `json:"vendedor_id" db:"seller_id"`
	Status    string          `json:"estado" db:"status"`
	Total     decimal.Decimal `json:"valor_total" db:"total"`
	CreatedAt time.Time       `json:"fecha_creacion" db:"created_at"`
}

// Customer is a client account as listed for a seller.
type Customer struct {
	ID      string `json:"id" db:"id"`
	Name    string `json:"nombre" db:"name"`
	Address string `json:"direccion" db:"address"`
	Phone   string `json:"telefono" db:"phone"`
	Email   string `json:"correo" db:"email"`
}
