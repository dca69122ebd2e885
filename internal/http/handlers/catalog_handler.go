package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"ccp/internal/domain"
	"ccp/internal/filter"
	"ccp/internal/i18n"
	applog "ccp/internal/log"
	"ccp/internal/services"
	"ccp/internal/validate"
)

type CatalogHandler struct {
	Catalog *services.CatalogService
}

type productFilterBody struct {
	Search string              `json:"buscar"`
	Min    decimal.NullDecimal `json:"precio_min"`
	Max    decimal.NullDecimal `json:"precio_max"`
}

func filterBody(f filter.ProductFilter) productFilterBody {
	return productFilterBody{Search: f.Search, Min: f.Price.Min, Max: f.Price.Max}
}

// catalogJSON writes the filtered listing; a kept value after a failed
// refresh carries a warning next to it.
func catalogJSON(c *fiber.Ctx, l services.Listing[domain.Product], f filter.ProductFilter) error {
	out := fiber.Map{"items": l.Items, "actualizado": l.UpdatedAt, "filtro": filterBody(f)}
	if l.Stale != nil {
		out["aviso"] = tr(c, i18n.FetchFailed, cause(l.Stale))
	}
	return c.JSON(out)
}

// GET /api/v1/catalog
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	f := stateOf(c).ProductFilter.Current()
	l, err := h.Catalog.Products(c.UserContext(), f, c.QueryBool("refresh"))
	if err != nil {
		applog.Error(c, "catalog.fetch.fail", err, nil)
		return alert(c, fiber.StatusBadGateway, "fetch_failed", i18n.FetchFailed, cause(err))
	}
	return catalogJSON(c, l, f)
}

// POST /api/v1/catalog/filter
func (h *CatalogHandler) Filter(c *fiber.Ctx) error {
	var body productFilterBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"codigo": "bad_request"})
	}
	q, ok := validate.Q(body.Search)
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "buscar"})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"codigo": "bad_search"})
	}
	f := filter.ProductFilter{Search: q, Price: filter.Range{Min: body.Min, Max: body.Max}}

	st := stateOf(c)
	if err := st.ProductFilter.Apply(f, nil); err != nil {
		if errors.Is(err, filter.ErrInvalidRange) {
			return alert(c, fiber.StatusBadRequest, "invalid_range", i18n.InvalidRange)
		}
		return err
	}
	return h.List(c)
}

// DELETE /api/v1/catalog/filter
func (h *CatalogHandler) ResetFilter(c *fiber.Ctx) error {
	stateOf(c).ProductFilter.Reset()
	return h.List(c)
}

// GET /api/v1/catalog/:id
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"codigo": "bad_id"})
	}
	p, found, err := h.Catalog.Product(c.UserContext(), id)
	if err != nil {
		return alert(c, fiber.StatusBadGateway, "fetch_failed", i18n.FetchFailed, cause(err))
	}
	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"codigo": "not_found"})
	}
	return c.JSON(fiber.Map{"producto": p, "estado": services.StockLevel(p.AvailableQuantity)})
}
