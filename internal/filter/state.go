package filter

import (
	"sync"

	"ccp/internal/domain"
)

// ProductFilter is the catalog screen's filter form.
type ProductFilter struct {
	Search string
	Price  Range
}

func (f ProductFilter) Validate() error { return f.Price.Validate() }

func (f ProductFilter) Predicate() func(domain.Product) bool {
	return Products(f.Search, f.Price)
}

// OrderFilter is the admin order list's filter form.
type OrderFilter struct {
	Search string
	Amount Range
	Dates  DateRange
}

func (f OrderFilter) Validate() error {
	if err := f.Amount.Validate(); err != nil {
		return err
	}
	return f.Dates.Validate()
}

func (f OrderFilter) Predicate() func(domain.OrderSummary) bool {
	return Orders(f.Search, f.Amount, f.Dates)
}

type validator interface {
	Validate() error
}

// State keeps the last filter that passed validation.
type State[F validator] struct {
	mu      sync.Mutex
	current F
}

func (s *State[F]) Current() F {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Apply stores f and calls onApply when f is valid. An invalid f leaves the
// state untouched and onApply is not called.
func (s *State[F]) Apply(f F, onApply func(F)) error {
	if err := f.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.current = f
	s.mu.Unlock()
	if onApply != nil {
		onApply(f)
	}
	return nil
}

// Reset clears the filter back to the zero value.
func (s *State[F]) Reset() {
	var zero F
	s.mu.Lock()
	s.current = zero
	s.mu.Unlock()
}
