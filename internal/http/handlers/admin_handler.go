package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"ccp/internal/domain"
	"ccp/internal/filter"
	"ccp/internal/i18n"
	applog "ccp/internal/log"
	"ccp/internal/services"
	"ccp/internal/validate"
)

// AdminHandler serves the logistics panel pages.
type AdminHandler struct {
	Catalog *services.CatalogService
	Orders  *services.OrdersService
}

type inventoryRow struct {
	domain.Product
	Qty   int
	Level string
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// GET /admin/inventory?q=&min=&max=
func (h *AdminHandler) Inventory(c *fiber.Ctx) error {
	data := fiber.Map{"Title": "Inventario", "Q": c.Query("q"), "Min": c.Query("min"), "Max": c.Query("max")}

	var f filter.ProductFilter
	q, okQ := validate.Q(c.Query("q"))
	lo, okMin := validate.Money(c.Query("min"))
	hi, okMax := validate.Money(c.Query("max"))
	switch {
	case !okQ || !okMin || !okMax:
		applog.Security(c, "validation.fail", map[string]any{"page": "admin.inventory"})
		data["Err"] = "Filtro inválido"
	default:
		cand := filter.ProductFilter{Search: q, Price: filter.Range{Min: lo, Max: hi}}
		if err := cand.Validate(); err != nil {
			data["Err"] = tr(c, i18n.InvalidRange)
		} else {
			f = cand
		}
	}

	l, err := h.Catalog.Products(c.UserContext(), f, c.QueryBool("refresh"))
	if err != nil {
		applog.Error(c, "admin.inventory.list.fail", err, nil)
		data["Message"] = tr(c, i18n.FetchFailed, cause(err))
		return c.Status(fiber.StatusBadGateway).Render("notfound", data)
	}
	rows := make([]inventoryRow, 0, len(l.Items))
	for _, p := range l.Items {
		r := inventoryRow{Product: p, Level: services.StockLevel(p.AvailableQuantity)}
		if p.AvailableQuantity != nil {
			r.Qty = *p.AvailableQuantity
		}
		rows = append(rows, r)
	}
	data["Rows"] = rows
	data["UpdatedAt"] = stamp(l.UpdatedAt)
	if l.Stale != nil {
		data["Stale"] = tr(c, i18n.FetchFailed, cause(l.Stale))
	}
	return render(c, "admin_inventory", data)
}

// GET /admin/orders?q=&min=&max=&desde=&hasta=
// Without query parameters, or when they are rejected, the session's last
// applied filter is used.
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	st := stateOf(c)
	data := fiber.Map{"Title": "Pedidos"}

	f := st.OrderFilter.Current()
	if hasAny(c, "q", "min", "max", "desde", "hasta") {
		cand, err := orderFilterFromQuery(c)
		switch {
		case err == nil:
			err = st.OrderFilter.Apply(cand, func(applied filter.OrderFilter) { f = applied })
			if err != nil {
				data["Err"] = rangeMessage(c, cand)
			}
		default:
			applog.Security(c, "validation.fail", map[string]any{"page": "admin.orders"})
			data["Err"] = "Filtro inválido"
		}
	}
	data["Q"], data["Min"], data["Max"] = f.Search, nullString(f.Amount.Min), nullString(f.Amount.Max)
	data["From"], data["To"] = dayString(f.Dates.Start), dayString(f.Dates.End)

	l, err := h.Orders.List(c.UserContext(), f, c.QueryBool("refresh"))
	if err != nil {
		applog.Error(c, "admin.orders.list.fail", err, nil)
		data["Message"] = tr(c, i18n.FetchFailed, cause(err))
		return c.Status(fiber.StatusBadGateway).Render("notfound", data)
	}
	data["Orders"] = l.Items
	data["UpdatedAt"] = stamp(l.UpdatedAt)
	if l.Stale != nil {
		data["Stale"] = tr(c, i18n.FetchFailed, cause(l.Stale))
	}
	return render(c, "admin_orders", data)
}

var errBadFilter = errors.New("bad filter input")

func orderFilterFromQuery(c *fiber.Ctx) (filter.OrderFilter, error) {
	q, okQ := validate.Q(c.Query("q"))
	lo, okMin := validate.Money(c.Query("min"))
	hi, okMax := validate.Money(c.Query("max"))
	from, okFrom := validate.Date(c.Query("desde"))
	to, okTo := validate.Date(c.Query("hasta"))
	if !okQ || !okMin || !okMax || !okFrom || !okTo {
		return filter.OrderFilter{}, errBadFilter
	}
	return filter.OrderFilter{
		Search: q,
		Amount: filter.Range{Min: lo, Max: hi},
		Dates:  filter.DateRange{Start: from, End: to},
	}, nil
}

func rangeMessage(c *fiber.Ctx, f filter.OrderFilter) string {
	if f.Amount.Validate() != nil {
		return tr(c, i18n.InvalidRange)
	}
	return tr(c, i18n.InvalidDateRange)
}

func hasAny(c *fiber.Ctx, keys ...string) bool {
	for _, k := range keys {
		if c.Query(k) != "" {
			return true
		}
	}
	return false
}
