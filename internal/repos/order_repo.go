package repos

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"ccp/internal/cart"
	"ccp/internal/domain"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyOrder        = errors.New("order has no products")
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type OrderLineRow struct {
	SKU   int64           `db:"sku"`
	Qty   int             `db:"qty"`
	Price decimal.Decimal `db:"price"`
}

// Create stores the order, decrementing stock for every line in the same
// transaction. A repeated idempotency key returns the first order's id.
func (r *OrderRepo) Create(p domain.OrderPayload, idemKey string) (string, error) {
	if len(p.Products) == 0 {
		return "", ErrEmptyOrder
	}
	tx, err := r.db.Beginx()
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if idemKey != "" {
		var existing string
		err := tx.Get(&existing, `SELECT id FROM orders WHERE idempotency_key = ?`, idemKey)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return "", err
		}
	}

	id := uuid.NewString()
	total := decimal.Zero
	lines := cart.QuantitiesBySKU(p.Products)
	prices := make(map[int64]decimal.Decimal, len(lines))
	for sku, qty := range lines {
		price, err := decrement(tx, sku, qty)
		if err != nil {
			return "", err
		}
		prices[sku] = price
		total = total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}

	var key sql.NullString
	if idemKey != "" {
		key = sql.NullString{String: idemKey, Valid: true}
	}
	if _, err := tx.Exec(`
		INSERT INTO orders(id, client_id, seller_id, address, latitude, longitude, total, status, idempotency_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 'PENDIENTE', ?, ?)
	`, id, p.ClientID, p.SellerID, p.Address, p.Latitude, p.Longitude, total, key, time.Now().UTC()); err != nil {
		return "", err
	}
	for sku, qty := range lines {
		if _, err := tx.Exec(`INSERT INTO order_lines(order_id, sku, qty, price) VALUES (?, ?, ?, ?)`,
			id, sku, qty, prices[sku]); err != nil {
			return "", err
		}
	}
	return id, tx.Commit()
}

func (r *OrderRepo) Lines(orderID string) ([]OrderLineRow, error) {
	out := []OrderLineRow{}
	err := r.db.Select(&out, `SELECT sku, qty, price FROM order_lines WHERE order_id = ? ORDER BY sku`, orderID)
	return out, err
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.OrderSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.OrderSummary{}
	err := r.db.Select(&out, `
		SELECT id, client_id, seller_id, status, total, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	return out, err
}

func (r *OrderRepo) UpdateStatus(id, status string) error {
	_, err := r.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return err
}
