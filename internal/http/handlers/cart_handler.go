package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"ccp/internal/domain"
	"ccp/internal/i18n"
	applog "ccp/internal/log"
	"ccp/internal/services"
	"ccp/internal/session"
	"ccp/internal/validate"
)

type CartHandler struct {
	Catalog *services.CatalogService
}

const maxQty = 999

type cartLine struct {
	Product  domain.Product  `json:"producto"`
	Quantity int             `json:"cantidad"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

func cartJSON(c *fiber.Ctx, st *session.State) error {
	items := st.Cart.Items()
	lines := make([]cartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, cartLine{Product: it.Product, Quantity: it.Quantity, Subtotal: it.Subtotal()})
	}
	return c.JSON(fiber.Map{"items": lines, "total": st.Cart.Total()})
}

// GET /api/v1/cart
func (h *CartHandler) View(c *fiber.Ctx) error {
	return cartJSON(c, stateOf(c))
}

type addToCart struct {
	ProductID string `json:"producto_id"`
	Quantity  int    `json:"cantidad"`
}

// POST /api/v1/cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var body addToCart
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"codigo": "bad_request"})
	}
	id, ok := validate.ID(body.ProductID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"codigo": "missing_product"})
	}
	if body.Quantity > maxQty {
		applog.Security(c, "validation.fail", map[string]any{"field": "cantidad", "value": body.Quantity})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"codigo": "bad_quantity"})
	}
	p, found, err := h.Catalog.Product(c.UserContext(), id)
	if err != nil {
		return alert(c, fiber.StatusBadGateway, "fetch_failed", i18n.FetchFailed, cause(err))
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"codigo": "not_found"})
	}
	st := stateOf(c)
	st.Cart.Add(p, body.Quantity)
	applog.Info(c, "cart.add", map[string]any{"product": id, "qty": body.Quantity})
	return cartJSON(c, st)
}

type setQuantity struct {
	Quantity int `json:"cantidad"`
}

// PATCH /api/v1/cart/:id
func (h *CartHandler) Update(c *fiber.Ctx) error {
	var body setQuantity
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"codigo": "bad_request"})
	}
	if body.Quantity > maxQty {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"codigo": "bad_quantity"})
	}
	st := stateOf(c)
	st.Cart.UpdateQuantity(c.Params("id"), body.Quantity)
	return cartJSON(c, st)
}

// DELETE /api/v1/cart/:id
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	st := stateOf(c)
	st.Cart.Remove(c.Params("id"))
	return cartJSON(c, st)
}

// DELETE /api/v1/cart
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	st := stateOf(c)
	st.Cart.Clear()
	applog.Audit(c, "cart.clear", nil)
	return cartJSON(c, st)
}
