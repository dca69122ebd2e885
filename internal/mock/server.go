// Package mock serves a local stand-in for the CCP microservices: auth for
// clients and sellers, inventory, customers and orders, all from one base
// URL and backed by SQLite.
package mock

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"ccp/internal/domain"
	applog "ccp/internal/log"
	"ccp/internal/repos"
	"ccp/internal/validate"
)

type Server struct {
	Accounts  *repos.AccountRepo
	Inventory *repos.InventoryRepo
	Orders    *repos.OrderRepo

	inject injector
}

func New(db *sqlx.DB) *Server {
	s := &Server{
		Accounts:  repos.NewAccountRepo(db),
		Inventory: repos.NewInventoryRepo(db),
		Orders:    repos.NewOrderRepo(db),
	}
	s.inject.reset()
	return s
}

// App builds the fiber app. The client profile route GET /:id is registered
// last so it does not shadow the others.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{AppName: "ccp-mock"})
	app.Use(s.inject.middleware)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })
	app.Post("/admin/inject-error", s.inject.handleInject)
	app.Get("/admin/status", func(c *fiber.Ctx) error { return c.JSON(s.inject.status()) })
	app.Post("/admin/reset", s.inject.handleReset)

	app.Post("/login", s.login)
	app.Post("/crear", s.register(domain.RoleClient))
	app.Post("/crear_vendedor", s.register(domain.RoleSeller))
	app.Get("/obtener_vendedor/:id", s.profile(domain.RoleSeller))

	app.Get("/stock_listar_inventarios", s.listInventory)
	app.Get("/clientes", s.listCustomers)

	app.Post("/pedido/crear", s.createOrder)
	app.Get("/pedidos", s.listOrders)

	app.Get("/:id", s.profile(domain.RoleClient))
	return app
}

func msg(c *fiber.Ctx, status int, text string) error {
	return c.Status(status).JSON(fiber.Map{"msg": text})
}

func (s *Server) login(c *fiber.Ctx) error {
	var creds domain.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return msg(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	// Both auth services share this endpoint; clients are tried first.
	for _, role := range []domain.Role{domain.RoleClient, domain.RoleSeller} {
		a, err := s.Accounts.ByEmail(role, strings.TrimSpace(creds.Email))
		if err != nil {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(a.Hash), []byte(creds.Password)) == nil {
			applog.Audit(c, "mock.login", map[string]any{"id": a.ID, "role": role})
			return c.JSON(fiber.Map{"id": a.ID, "msg": "Inicio de sesión exitoso"})
		}
	}
	applog.Security(c, "mock.login.failed", nil)
	return msg(c, fiber.StatusUnauthorized, "Credenciales inválidas")
}

func (s *Server) register(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var reg domain.Registration
		if err := c.BodyParser(&reg); err != nil {
			return msg(c, fiber.StatusBadRequest, "cuerpo inválido")
		}
		email, ok := validate.Email(reg.Email)
		if !ok {
			return msg(c, fiber.StatusBadRequest, "correo inválido")
		}
		name, ok := validate.Name(reg.Name)
		if !ok {
			return msg(c, fiber.StatusBadRequest, "nombre inválido")
		}
		if !validate.Password(reg.Password) {
			return msg(c, fiber.StatusBadRequest, "contraseña inválida")
		}
		reg.Email, reg.Name = email, name

		hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		id, err := s.Accounts.Create(role, reg, string(hash))
		if errors.Is(err, repos.ErrDuplicateEmail) {
			return msg(c, fiber.StatusConflict, "el correo ya está registrado")
		}
		if err != nil {
			return err
		}
		applog.Audit(c, "mock.register", map[string]any{"id": id, "role": role})
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "msg": "Registro exitoso"})
	}
}

func (s *Server) profile(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, err := s.Accounts.ByID(role, c.Params("id"))
		if errors.Is(err, sql.ErrNoRows) {
			return msg(c, fiber.StatusNotFound, "usuario no encontrado")
		}
		if err != nil {
			return err
		}
		return c.JSON(a.Profile)
	}
}

func (s *Server) listInventory(c *fiber.Ctx) error {
	items, err := s.Inventory.ListAll()
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (s *Server) listCustomers(c *fiber.Ctx) error {
	seller := c.Query("vendedor_id")
	if seller == "" {
		return msg(c, fiber.StatusBadRequest, "vendedor_id requerido")
	}
	cs, err := s.Accounts.CustomersOf(seller)
	if err != nil {
		return err
	}
	return c.JSON(cs)
}

func (s *Server) createOrder(c *fiber.Ctx) error {
	var p domain.OrderPayload
	if err := c.BodyParser(&p); err != nil {
		return msg(c, fiber.StatusBadRequest, "cuerpo inválido")
	}
	if p.ClientID == "" || strings.TrimSpace(p.Address) == "" {
		return msg(c, fiber.StatusBadRequest, "cliente_id y direccion son requeridos")
	}
	for _, l := range p.Products {
		if l.Quantity < 1 {
			return msg(c, fiber.StatusBadRequest, "cantidad inválida")
		}
	}
	id, err := s.Orders.Create(p, c.Get("Idempotency-Key"))
	switch {
	case errors.Is(err, repos.ErrEmptyOrder):
		return msg(c, fiber.StatusBadRequest, "el pedido no tiene productos")
	case errors.Is(err, repos.ErrInsufficientStock):
		return msg(c, fiber.StatusConflict, "stock insuficiente")
	case err != nil:
		return err
	}
	applog.Audit(c, "mock.order.created", map[string]any{"order_id": id, "client_id": p.ClientID, "lines": len(p.Products)})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "msg": "Pedido creado"})
}

type orderOut struct {
	domain.OrderSummary
	CreatedAt string `json:"fecha_creacion"`
}

func (s *Server) listOrders(c *fiber.Ctx) error {
	list, err := s.Orders.ListLatest(c.QueryInt("limit", 100))
	if err != nil {
		return err
	}
	out := make([]orderOut, 0, len(list))
	for _, o := range list {
		out = append(out, orderOut{OrderSummary: o, CreatedAt: o.CreatedAt.UTC().Format(time.RFC3339)})
	}
	return c.JSON(out)
}
