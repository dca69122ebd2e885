package services

// Stock levels shown on the admin inventory page.
const (
	StockIn  = "IN_STOCK"
	StockLow = "LOW_STOCK"
	StockOut = "OUT_OF_STOCK"
)

// LowStockThreshold is the quantity under which an item is flagged as low.
const LowStockThreshold = 5

// StockLevel converts an available quantity into IN_STOCK / LOW_STOCK /
// OUT_OF_STOCK. A missing quantity counts as zero.
func StockLevel(qty *int) string {
	n := 0
	if qty != nil {
		n = *qty
	}
	switch {
	case n >= LowStockThreshold:
		return StockIn
	case n > 0:
		return StockLow
	}
	return StockOut
}
