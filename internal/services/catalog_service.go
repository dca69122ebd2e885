package services

import (
	"context"
	"time"

	"ccp/internal/domain"
	"ccp/internal/filter"
	"ccp/internal/refresh"
)

// Listing is a filtered view of a polled list. Stale carries the last fetch
// error when Items come from an older successful fetch.
type Listing[T any] struct {
	Items     []T       `json:"items"`
	UpdatedAt time.Time `json:"actualizado"`
	Stale     error     `json:"-"`
}

// list returns the poller's value narrowed by pred. force fetches now; a
// failed forced fetch still returns the previous value when there is one.
func list[T any](ctx context.Context, p *refresh.Poller[[]T], force bool, pred func(T) bool) (Listing[T], error) {
	if force {
		if _, err := p.Refresh(ctx); err != nil {
			if _, _, ok, _ := p.Latest(); !ok {
				return Listing[T]{}, err
			}
		}
	} else if _, err := p.Get(ctx); err != nil {
		return Listing[T]{}, err
	}
	items, at, _, lastErr := p.Latest()
	return Listing[T]{Items: filter.Apply(items, pred), UpdatedAt: at, Stale: lastErr}, nil
}

type CatalogService struct {
	Inventory *refresh.Poller[[]domain.Product]
}

func NewCatalogService(inv *refresh.Poller[[]domain.Product]) *CatalogService {
	return &CatalogService{Inventory: inv}
}

func (s *CatalogService) Products(ctx context.Context, f filter.ProductFilter, force bool) (Listing[domain.Product], error) {
	return list(ctx, s.Inventory, force, f.Predicate())
}

// Product looks an available product up by id in the last fetched list.
func (s *CatalogService) Product(ctx context.Context, id string) (domain.Product, bool, error) {
	items, err := s.Inventory.Get(ctx)
	if err != nil {
		return domain.Product{}, false, err
	}
	for _, p := range items {
		if p.ID == id {
			return p, true, nil
		}
	}
	return domain.Product{}, false, nil
}

type OrdersService struct {
	Orders *refresh.Poller[[]domain.OrderSummary]
}

func NewOrdersService(orders *refresh.Poller[[]domain.OrderSummary]) *OrdersService {
	return &OrdersService{Orders: orders}
}

func (s *OrdersService) List(ctx context.Context, f filter.OrderFilter, force bool) (Listing[domain.OrderSummary], error) {
	return list(ctx, s.Orders, force, f.Predicate())
}

// CustomerLister loads the clients assigned to a seller.
type CustomerLister interface {
	ListBySeller(ctx context.Context, sellerID string) ([]domain.Customer, error)
}

type CustomersService struct {
	Remote CustomerLister
}

// ForSeller fetches on every call; the list depends on who is logged in.
func (s *CustomersService) ForSeller(ctx context.Context, sellerID string) ([]domain.Customer, error) {
	return s.Remote.ListBySeller(ctx, sellerID)
}

// Find returns the seller's client with the given id.
func (s *CustomersService) Find(ctx context.Context, sellerID, clientID string) (domain.Customer, bool, error) {
	cs, err := s.ForSeller(ctx, sellerID)
	if err != nil {
		return domain.Customer{}, false, err
	}
	for _, c := range cs {
		if c.ID == clientID {
			return c, true, nil
		}
	}
	return domain.Customer{}, false, nil
}
