package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ccp/internal/i18n"
	applog "ccp/internal/log"
	"ccp/internal/services"
	"ccp/internal/validate"
)

type CheckoutHandler struct {
	CustomerSvc *services.CustomersService
}

// preconditionKey maps a failed check to its alert text.
func preconditionKey(pe *services.PreconditionError) i18n.Key {
	switch pe.Check {
	case services.CheckCart:
		return i18n.CartEmpty
	case services.CheckAuth:
		return i18n.NotLoggedIn
	case services.CheckClient:
		return i18n.NoClientSelected
	case services.CheckAddress:
		return i18n.AddressEmpty
	}
	var ae *validate.AddressError
	if errors.As(pe, &ae) {
		switch ae.Part {
		case validate.PartNumber:
			return i18n.AddressNumber
		case validate.PartCity:
			return i18n.AddressCity
		}
	}
	return i18n.AddressStreet
}

func (h *CheckoutHandler) view(c *fiber.Ctx) fiber.Map {
	st := stateOf(c)
	v := st.Checkout.View()
	out := fiber.Map{
		"estado":    v.Phase,
		"direccion": v.Address,
		"cliente":   v.Client,
		"total":     st.Cart.Total(),
		"items":     st.Cart.Len(),
	}
	if v.OrderID != "" {
		out["pedido_id"] = v.OrderID
		out["mensaje"] = tr(c, i18n.OrderCreated, v.OrderID)
	}
	var pe *services.PreconditionError
	switch {
	case errors.As(v.Err, &pe):
		out["mensaje"] = tr(c, preconditionKey(pe))
	case v.Err != nil:
		out["mensaje"] = tr(c, i18n.OrderFailed, cause(v.Err))
	}
	return out
}

// GET /api/v1/checkout
func (h *CheckoutHandler) View(c *fiber.Ctx) error {
	return c.JSON(h.view(c))
}

// GET /api/v1/customers
func (h *CheckoutHandler) Customers(c *fiber.Ctx) error {
	snap := stateOf(c).Auth.Snapshot()
	cs, err := h.CustomerSvc.ForSeller(c.UserContext(), snap.UserID)
	if err != nil {
		applog.Error(c, "customers.fetch.fail", err, nil)
		return alert(c, fiber.StatusBadGateway, "fetch_failed", i18n.FetchFailed, cause(err))
	}
	return c.JSON(cs)
}

type selectCustomer struct {
	ClientID string `json:"cliente_id"`
}

// PUT /api/v1/checkout/customer
func (h *CheckoutHandler) SelectCustomer(c *fiber.Ctx) error {
	var body selectCustomer
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"codigo": "bad_request"})
	}
	st := stateOf(c)
	if body.ClientID == "" {
		st.Checkout.SelectClient(nil)
		return c.JSON(h.view(c))
	}
	id, ok := validate.ID(body.ClientID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"codigo": "bad_id"})
	}
	cl, found, err := h.CustomerSvc.Find(c.UserContext(), st.Auth.Snapshot().UserID, id)
	if err != nil {
		return alert(c, fiber.StatusBadGateway, "fetch_failed", i18n.FetchFailed, cause(err))
	}
	if !found {
		applog.Security(c, "checkout.customer.unknown", map[string]any{"client_id": id})
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"codigo": "not_found"})
	}
	st.Checkout.SelectClient(&cl)
	return c.JSON(h.view(c))
}

type setAddress struct {
	Address string `json:"direccion"`
}

// PUT /api/v1/checkout/address
func (h *CheckoutHandler) SetAddress(c *fiber.Ctx) error {
	var body setAddress
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"codigo": "bad_request"})
	}
	if len(body.Address) > 200 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"codigo": "bad_address"})
	}
	stateOf(c).Checkout.SetAddress(body.Address)
	return c.JSON(h.view(c))
}

// POST /api/v1/checkout
func (h *CheckoutHandler) Submit(c *fiber.Ctx) error {
	st := stateOf(c)
	id, err := st.Checkout.Submit(c.UserContext())
	var pe *services.PreconditionError
	switch {
	case errors.As(err, &pe):
		applog.Security(c, "checkout.precondition", map[string]any{"check": pe.Check.String()})
		return alert(c, fiber.StatusUnprocessableEntity, pe.Check.String(), preconditionKey(pe))
	case errors.Is(err, services.ErrSubmitInProgress), errors.Is(err, services.ErrAwaitingDismiss):
		return alert(c, fiber.StatusConflict, "in_progress", i18n.OrderInProgress)
	case err != nil:
		applog.Error(c, "checkout.submit.fail", err, nil)
		return alert(c, fiber.StatusBadGateway, "order_failed", i18n.OrderFailed, cause(err))
	}
	applog.Audit(c, "order.placed", map[string]any{"order_id": id, "total": st.Cart.Total().String()})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"titulo":    tr(c, i18n.TitleSuccess),
		"mensaje":   tr(c, i18n.OrderCreated, id),
		"pedido_id": id,
	})
}

// POST /api/v1/checkout/dismiss
func (h *CheckoutHandler) Dismiss(c *fiber.Ctx) error {
	stateOf(c).Checkout.Dismiss()
	return c.JSON(h.view(c))
}
