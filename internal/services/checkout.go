package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"ccp/internal/cart"
	"ccp/internal/config"
	"ccp/internal/domain"
	"ccp/internal/validate"
)

var (
	ErrSubmitInProgress = errors.New("order submission already in progress")
	ErrAwaitingDismiss  = errors.New("previous order result not dismissed")
)

// Check names a submit precondition. They run in declaration order.
type Check int

const (
	CheckCart Check = iota + 1
	CheckAuth
	CheckClient
	CheckAddress
	CheckAddressFormat
)

func (c Check) String() string {
	switch c {
	case CheckCart:
		return "cart"
	case CheckAuth:
		return "auth"
	case CheckClient:
		return "client"
	case CheckAddress:
		return "address"
	case CheckAddressFormat:
		return "address_format"
	}
	return "unknown"
}

// PreconditionError is the first submit check that failed. For
// CheckAddressFormat, Cause is the *validate.AddressError.
type PreconditionError struct {
	Check Check
	Cause error
}

func (e *PreconditionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("precondition %s: %v", e.Check, e.Cause)
	}
	return "precondition " + e.Check.String()
}

func (e *PreconditionError) Unwrap() error { return e.Cause }

// Phase is the tag of a CheckoutState.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// CheckoutState is one of Idle, Validating, Submitting, Succeeded or Failed.
type CheckoutState interface{ Phase() Phase }

// Idle waits for a submit. Alert is the precondition that sent the flow
// back here, if any.
type Idle struct{ Alert *PreconditionError }

type Validating struct{}

// Submitting carries the payload in flight and the idempotency key it was
// sent under.
type Submitting struct {
	Payload domain.OrderPayload
	Key     string
}

type Succeeded struct{ OrderID string }

type Failed struct{ Err error }

func (Idle) Phase() Phase       { return PhaseIdle }
func (Validating) Phase() Phase { return PhaseValidating }
func (Submitting) Phase() Phase { return PhaseSubmitting }
func (Succeeded) Phase() Phase  { return PhaseSucceeded }
func (Failed) Phase() Phase     { return PhaseFailed }

type event interface{ isEvent() }

type (
	evSubmit   struct{}
	evRejected struct{ err *PreconditionError }
	evReady    struct {
		payload domain.OrderPayload
		key     string
	}
	evSent     struct{ id string }
	evSendErr  struct{ err error }
	evDismiss  struct{}
)

func (evSubmit) isEvent()   {}
func (evRejected) isEvent() {}
func (evReady) isEvent()    {}
func (evSent) isEvent()     {}
func (evSendErr) isEvent()  {}
func (evDismiss) isEvent()  {}

// transition is the whole state machine. Pairs not listed are rejected.
func transition(s CheckoutState, ev event) (CheckoutState, error) {
	switch s := s.(type) {
	case Idle, Failed:
		switch ev.(type) {
		case evSubmit:
			return Validating{}, nil
		case evDismiss:
			return Idle{}, nil
		}
	case Validating:
		switch ev := ev.(type) {
		case evRejected:
			return Idle{Alert: ev.err}, nil
		case evReady:
			return Submitting{Payload: ev.payload, Key: ev.key}, nil
		}
	case Submitting:
		switch ev := ev.(type) {
		case evSubmit:
			return s, ErrSubmitInProgress
		case evSent:
			return Succeeded{OrderID: ev.id}, nil
		case evSendErr:
			return Failed{Err: ev.err}, nil
		}
	case Succeeded:
		switch ev.(type) {
		case evSubmit:
			return s, ErrAwaitingDismiss
		case evDismiss:
			return Idle{}, nil
		}
	}
	return s, fmt.Errorf("checkout: event %T not allowed in %s", ev, s.Phase())
}

// OrderSender submits an order to the orders service. Requests sharing a
// key are the same order.
type OrderSender interface {
	Create(ctx context.Context, key string, p domain.OrderPayload) (string, error)
}

type CheckoutOptions struct {
	Geo                   config.GeoBox
	SkipAddressValidation bool
	// Rand picks the placeholder coordinates. Nil uses a randomly seeded source.
	Rand *rand.Rand
}

// Checkout is the order form of one session and its submit flow.
type Checkout struct {
	cart   *cart.Store
	auth   *AuthSession
	sender OrderSender
	opts   CheckoutOptions

	mu      sync.Mutex
	state   CheckoutState
	address string
	client  *domain.Customer

	// last payload built and its key; a resubmit of the same order reuses both
	pending *domain.OrderPayload
	key     string
}

func NewCheckout(c *cart.Store, auth *AuthSession, sender OrderSender, opts CheckoutOptions) *Checkout {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Checkout{cart: c, auth: auth, sender: sender, opts: opts, state: Idle{}}
}

// CheckoutView is a copy of the form and flow state.
type CheckoutView struct {
	Phase   Phase            `json:"estado"`
	Address string           `json:"direccion"`
	Client  *domain.Customer `json:"cliente,omitempty"`
	OrderID string           `json:"pedido_id,omitempty"`
	Err     error            `json:"-"`
}

func (c *Checkout) View() CheckoutView {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := CheckoutView{Phase: c.state.Phase(), Address: c.address}
	if c.client != nil {
		cl := *c.client
		v.Client = &cl
	}
	switch s := c.state.(type) {
	case Idle:
		if s.Alert != nil {
			v.Err = s.Alert
		}
	case Succeeded:
		v.OrderID = s.OrderID
	case Failed:
		v.Err = s.Err
	}
	return v
}

func (c *Checkout) State() CheckoutState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Checkout) SetAddress(s string) {
	c.mu.Lock()
	c.address = strings.TrimSpace(s)
	c.mu.Unlock()
}

// SelectClient sets the recipient for seller orders; nil clears it. An empty
// address is prefilled with the client's.
func (c *Checkout) SelectClient(cl *domain.Customer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cl == nil {
		c.client = nil
		return
	}
	cp := *cl
	c.client = &cp
	if c.address == "" {
		c.address = strings.TrimSpace(cp.Address)
	}
}

func (c *Checkout) fire(ev event) error {
	next, err := transition(c.state, ev)
	c.state = next
	return err
}

// Submit validates the form and sends the order. It returns the new order id,
// a *PreconditionError when a check fails (nothing is sent), or the send
// error. Cart and form are left untouched until Dismiss.
func (c *Checkout) Submit(ctx context.Context) (string, error) {
	c.mu.Lock()
	if err := c.fire(evSubmit{}); err != nil {
		c.mu.Unlock()
		return "", err
	}
	payload, perr := c.prepare()
	if perr != nil {
		_ = c.fire(evRejected{err: perr})
		c.mu.Unlock()
		return "", perr
	}
	key := c.key
	_ = c.fire(evReady{payload: payload, key: key})
	c.mu.Unlock()

	id, err := c.sender.Create(ctx, key, payload)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		_ = c.fire(evSendErr{err: err})
		return "", err
	}
	_ = c.fire(evSent{id: id})
	return id, nil
}

// prepare runs the checks in order and builds the payload. Called with mu held.
func (c *Checkout) prepare() (domain.OrderPayload, *PreconditionError) {
	if c.cart.Len() == 0 {
		return domain.OrderPayload{}, &PreconditionError{Check: CheckCart}
	}
	who := c.auth.Snapshot()
	if !who.LoggedIn {
		return domain.OrderPayload{}, &PreconditionError{Check: CheckAuth}
	}
	seller := who.Role() == domain.RoleSeller
	if seller && c.client == nil {
		return domain.OrderPayload{}, &PreconditionError{Check: CheckClient}
	}
	if c.address == "" {
		return domain.OrderPayload{}, &PreconditionError{Check: CheckAddress}
	}
	if !c.opts.SkipAddressValidation {
		if err := validate.Address(c.address); err != nil {
			return domain.OrderPayload{}, &PreconditionError{Check: CheckAddressFormat, Cause: err}
		}
	}

	p := domain.OrderPayload{
		ClientID: who.UserID,
		Address:  c.address,
		Products: c.cart.Lines(),
	}
	if seller {
		p.ClientID, p.SellerID = c.client.ID, who.UserID
	}
	if c.pending != nil && sameOrder(*c.pending, p) {
		p.Latitude, p.Longitude = c.pending.Latitude, c.pending.Longitude
	} else {
		p.Latitude, p.Longitude = c.coordinates()
		c.key = uuid.NewString()
	}
	c.pending = &p
	return p, nil
}

// sameOrder ignores the coordinates, which are drawn per order.
func sameOrder(a, b domain.OrderPayload) bool {
	return a.ClientID == b.ClientID && a.SellerID == b.SellerID &&
		a.Address == b.Address && slices.Equal(a.Products, b.Products)
}

func (c *Checkout) coordinates() (lat, lon float64) {
	g := c.opts.Geo
	lat = g.MinLat + c.opts.Rand.Float64()*(g.MaxLat-g.MinLat)
	lon = g.MinLon + c.opts.Rand.Float64()*(g.MaxLon-g.MinLon)
	return lat, lon
}

// Dismiss acknowledges the result alert. After a success it clears the cart,
// the address and the selected client; after a failure everything is kept.
func (c *Checkout) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, succeeded := c.state.(Succeeded)
	switch c.state.(type) {
	case Idle, Failed, Succeeded:
		_ = c.fire(evDismiss{})
	default:
		return
	}
	if succeeded {
		c.cart.Clear()
		c.address = ""
		c.client = nil
		c.pending, c.key = nil, ""
	}
}
