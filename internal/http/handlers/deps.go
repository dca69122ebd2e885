package handlers

import (
	"github.com/jmoiron/sqlx"

	"ccp/internal/config"
	"ccp/internal/domain"
	"ccp/internal/refresh"
	"ccp/internal/remote"
	"ccp/internal/repos"
	"ccp/internal/services"
	"ccp/internal/session"
)

type Deps struct {
	Sessions  *session.Registry
	Inventory *refresh.Poller[[]domain.Product]
	Orders    *refresh.Poller[[]domain.OrderSummary]
	Prefs     *repos.PrefsRepo

	AuthHandler     *AuthHandler
	CatalogHandler  *CatalogHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	PrefsHandler    *PrefsHandler
	AdminHandler    *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	timeout := cfg.HTTPTimeout
	inventory := remote.NewInventoryClient(cfg.InventoryURL, timeout)
	orders := remote.NewOrdersClient(cfg.OrdersURL, timeout)
	customers := remote.NewCustomersClient(cfg.ClientsURL, timeout)
	clientAcc := remote.NewClientAccounts(cfg.AuthURL, timeout)
	sellerAcc := remote.NewSellerAccounts(cfg.SellersURL, timeout)

	invPoll := refresh.New[[]domain.Product]("inventory", cfg.RefreshInterval, inventory.ListInventory)
	ordPoll := refresh.New[[]domain.OrderSummary]("orders", cfg.RefreshInterval, orders.List)

	sessions := session.NewRegistry(session.Deps{
		Accounts: []services.Authenticator{clientAcc, sellerAcc},
		Orders:   orders,
		Checkout: services.CheckoutOptions{Geo: cfg.Geo, SkipAddressValidation: cfg.TestMode()},
	}.NewState)

	prefsRepo := repos.NewPrefsRepo(db)
	catalogSvc := services.NewCatalogService(invPoll)
	ordersSvc := services.NewOrdersService(ordPoll)
	customersSvc := &services.CustomersService{Remote: customers}

	return &Deps{
		Sessions:  sessions,
		Inventory: invPoll,
		Orders:    ordPoll,
		Prefs:     prefsRepo,

		AuthHandler:     &AuthHandler{},
		CatalogHandler:  &CatalogHandler{Catalog: catalogSvc},
		CartHandler:     &CartHandler{Catalog: catalogSvc},
		CheckoutHandler: &CheckoutHandler{CustomerSvc: customersSvc},
		PrefsHandler:    &PrefsHandler{Prefs: prefsRepo},
		AdminHandler:    &AdminHandler{Catalog: catalogSvc, Orders: ordersSvc},
	}
}
