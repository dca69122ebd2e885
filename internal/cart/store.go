// Package cart holds the session-scoped shopping cart.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"ccp/internal/domain"
)

// Store is an in-memory cart: one entry per product id, insertion order
// preserved, every quantity >= 1.
type Store struct {
	mu    sync.Mutex
	items []domain.CartItem
}

func New() *Store { return &Store{} }

// Add merges qty into the existing entry for the product, or appends a new
// one. Quantities below 1 count as 1.
func (s *Store) Add(p domain.Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(p.ID); i >= 0 {
		s.items[i].Quantity += qty
		return
	}
	s.items = append(s.items, domain.CartItem{Product: p, Quantity: qty})
}

func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(productID)
}

// UpdateQuantity sets the quantity of an existing entry. qty <= 0 removes it.
// Unknown ids are ignored.
func (s *Store) UpdateQuantity(productID string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if qty <= 0 {
		s.removeLocked(productID)
		return
	}
	if i := s.indexOf(productID); i >= 0 {
		s.items[i].Quantity = qty
	}
}

func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

// Items returns a copy of the entries in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Quantity returns the quantity held for productID, 0 when absent.
func (s *Store) Quantity(productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(productID); i >= 0 {
		return s.items[i].Quantity
	}
	return 0
}

func (s *Store) indexOf(productID string) int {
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeLocked(productID string) {
	if i := s.indexOf(productID); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
}
