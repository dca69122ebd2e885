package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"ccp/internal/domain"
)

type InventoryRepo struct{ db *sqlx.DB }

func NewInventoryRepo(db *sqlx.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// ListAll returns every stock row, including those with no units left.
func (r *InventoryRepo) ListAll() ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.Select(&out, `
		SELECT product_id AS id, name, price, sku, qty
		FROM inventory
		ORDER BY name
	`)
	return out, err
}

// Qty returns current stock for a sku.
// If no row exists, it returns sql.ErrNoRows from sqlx.Get.
func (r *InventoryRepo) Qty(sku int64) (int, error) {
	var qty int
	if err := r.db.Get(&qty, `SELECT qty FROM inventory WHERE sku = ?`, sku); err != nil {
		return 0, err
	}
	return qty, nil
}

// UpsertQty sets the stock of a product, creating the row if needed.
func (r *InventoryRepo) UpsertQty(p domain.Product, qty int) error {
	_, err := r.db.Exec(`
		INSERT INTO inventory(product_id, name, price, sku, qty, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(product_id) DO UPDATE SET qty = excluded.qty, updated_at = CURRENT_TIMESTAMP
	`, p.ID, p.Name, p.Price, p.SKU, qty)
	return err
}

// decrement subtracts "by" units inside tx if enough stock exists and
// returns the unit price.
func decrement(tx *sqlx.Tx, sku int64, by int) (decimal.Decimal, error) {
	res, err := tx.Exec(`
		UPDATE inventory
		SET qty = qty - ?, updated_at = CURRENT_TIMESTAMP
		WHERE sku = ? AND qty >= ?
	`, by, sku, by)
	if err != nil {
		return decimal.Zero, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return decimal.Zero, fmt.Errorf("%w: sku %d", ErrInsufficientStock, sku)
	}
	var price decimal.Decimal
	if err := tx.Get(&price, `SELECT price FROM inventory WHERE sku = ?`, sku); err != nil {
		return decimal.Zero, err
	}
	return price, nil
}
