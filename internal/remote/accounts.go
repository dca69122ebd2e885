package remote

import (
	"context"
	"net/url"
	"time"

	"ccp/internal/domain"
)

// Accounts talks to an authentication service. Clients and sellers use
// different services that share the login endpoint but differ in the
// signup and profile paths.
type Accounts struct {
	client
	role         domain.Role
	registerPath string
	profilePath  func(id string) string
}

func NewClientAccounts(base string, timeout time.Duration) *Accounts {
	return &Accounts{
		client:       newClient("clientes", base, timeout),
		role:         domain.RoleClient,
		registerPath: "/crear",
		profilePath:  func(id string) string { return "/" + url.PathEscape(id) },
	}
}

func NewSellerAccounts(base string, timeout time.Duration) *Accounts {
	return &Accounts{
		client:       newClient("vendedores", base, timeout),
		role:         domain.RoleSeller,
		registerPath: "/crear_vendedor",
		profilePath:  func(id string) string { return "/obtener_vendedor/" + url.PathEscape(id) },
	}
}

func (a *Accounts) Role() domain.Role { return a.role }

type loginResponse struct {
	ID  flexID `json:"id"`
	Msg string `json:"msg"`
}

// Login returns the account id issued by the service.
func (a *Accounts) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	var res loginResponse
	if err := a.post(ctx, "/login", creds, nil, &res); err != nil {
		return "", err
	}
	if res.ID == "" {
		msg := res.Msg
		if msg == "" {
			msg = "login response without id"
		}
		return "", &Error{Service: a.service, Status: 200, Message: msg}
	}
	return string(res.ID), nil
}

func (a *Accounts) Register(ctx context.Context, reg domain.Registration) error {
	return a.post(ctx, a.registerPath, reg, nil, nil)
}

type profileWire struct {
	ID      flexID `json:"id"`
	Name    string `json:"nombre"`
	Email   string `json:"correo"`
	Phone   string `json:"telefono"`
	Address string `json:"direccion"`
	Zone    string `json:"zona"`
}

func (a *Accounts) Profile(ctx context.Context, id string) (domain.Profile, error) {
	var w profileWire
	if err := a.get(ctx, a.profilePath(id), "", &w); err != nil {
		return domain.Profile{}, err
	}
	p := domain.Profile{
		ID: string(w.ID), Name: w.Name, Email: w.Email,
		Phone: w.Phone, Address: w.Address, Zone: w.Zone, Role: a.role,
	}
	if p.ID == "" {
		p.ID = id
	}
	return p, nil
}
