// Package filter builds the list predicates behind the catalog and order
// search screens.
package filter

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"ccp/internal/domain"
)

var ErrInvalidRange = errors.New("minimum is greater than maximum")

// Range is an inclusive numeric interval. An invalid (null) bound is open.
type Range struct {
	Min decimal.NullDecimal
	Max decimal.NullDecimal
}

func (r Range) Validate() error {
	if r.Min.Valid && r.Max.Valid && r.Min.Decimal.GreaterThan(r.Max.Decimal) {
		return ErrInvalidRange
	}
	return nil
}

func (r Range) Contains(v decimal.Decimal) bool {
	if r.Min.Valid && v.LessThan(r.Min.Decimal) {
		return false
	}
	if r.Max.Valid && v.GreaterThan(r.Max.Decimal) {
		return false
	}
	return true
}

// DateRange is an inclusive interval of calendar days. A zero bound is open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) Validate() error {
	if !r.Start.IsZero() && !r.End.IsZero() && day(r.Start).After(day(r.End)) {
		return ErrInvalidRange
	}
	return nil
}

func (r DateRange) Contains(t time.Time) bool {
	d := day(t)
	if !r.Start.IsZero() && d.Before(day(r.Start)) {
		return false
	}
	if !r.End.IsZero() && d.After(day(r.End)) {
		return false
	}
	return true
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func matches(field, search string) bool {
	search = strings.TrimSpace(search)
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(field), strings.ToLower(search))
}

// Products matches on product name and price.
func Products(search string, price Range) func(domain.Product) bool {
	return func(p domain.Product) bool {
		return matches(p.Name, search) && price.Contains(p.Price)
	}
}

// Orders matches on order id, total and creation date.
func Orders(search string, amount Range, dates DateRange) func(domain.OrderSummary) bool {
	return func(o domain.OrderSummary) bool {
		return matches(o.ID, search) && amount.Contains(o.Total) && dates.Contains(o.CreatedAt)
	}
}

func Apply[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}
