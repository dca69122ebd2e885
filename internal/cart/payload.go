package cart

import "ccp/internal/domain"

// Lines maps the cart to the "productos" array of an order.
func (s *Store) Lines() []domain.OrderLine {
	return ToLines(s.Items())
}

func ToLines(items []domain.CartItem) []domain.OrderLine {
	out := make([]domain.OrderLine, 0, len(items))
	for _, it := range items {
		out = append(out, domain.OrderLine{SKU: it.Product.SKU, Quantity: it.Quantity})
	}
	return out
}

// QuantitiesBySKU folds order lines back into quantity per sku. Repeated
// skus are summed.
func QuantitiesBySKU(lines []domain.OrderLine) map[int64]int {
	out := make(map[int64]int, len(lines))
	for _, l := range lines {
		out[l.SKU] += l.Quantity
	}
	return out
}
