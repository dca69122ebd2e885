// Package session keeps the in-memory state of each device talking to the
// gateway, keyed by the sid cookie. Nothing here survives a restart.
package session

import (
	"sync"
	"time"

	"ccp/internal/cart"
	"ccp/internal/filter"
	"ccp/internal/services"
)

// State is everything one device works on between requests.
type State struct {
	Cart          *cart.Store
	Auth          *services.AuthSession
	Checkout      *services.Checkout
	ProductFilter *filter.State[filter.ProductFilter]
	OrderFilter   *filter.State[filter.OrderFilter]

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *State) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *State) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Deps builds the per-session services.
type Deps struct {
	Accounts []services.Authenticator
	Orders   services.OrderSender
	Checkout services.CheckoutOptions
}

// NewState wires a fresh cart, auth session and checkout together.
func (d Deps) NewState() *State {
	c := cart.New()
	auth := services.NewAuthSession(d.Accounts...)
	return &State{
		Cart:          c,
		Auth:          auth,
		Checkout:      services.NewCheckout(c, auth, d.Orders, d.Checkout),
		ProductFilter: &filter.State[filter.ProductFilter]{},
		OrderFilter:   &filter.State[filter.OrderFilter]{},
	}
}

type Registry struct {
	factory func() *State
	now     func() time.Time

	mu     sync.Mutex
	states map[string]*State
}

func NewRegistry(factory func() *State) *Registry {
	return &Registry{factory: factory, now: time.Now, states: map[string]*State{}}
}

// Get returns the state for sid, creating it on first use.
func (r *Registry) Get(sid string) *State {
	r.mu.Lock()
	s, ok := r.states[sid]
	if !ok {
		s = r.factory()
		r.states[sid] = s
	}
	r.mu.Unlock()
	s.touch(r.now())
	return s
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}

// Sweep drops states not seen for longer than maxIdle and returns how many
// were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for sid, s := range r.states {
		if s.LastSeen().Before(cutoff) {
			delete(r.states, sid)
			n++
		}
	}
	return n
}
