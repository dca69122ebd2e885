package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// GeoBox bounds the placeholder coordinates attached to new orders.
type GeoBox struct {
	MinLat float64 `koanf:"min_lat"`
	MaxLat float64 `koanf:"max_lat"`
	MinLon float64 `koanf:"min_lon"`
	MaxLon float64 `koanf:"max_lon"`
}

type Config struct {
	Env     string `koanf:"env"`
	Port    string `koanf:"port"`
	DBDSN   string `koanf:"db_dsn"`
	LogFile string `koanf:"log_file"`

	// Base URLs of the remote services.
	AuthURL      string `koanf:"auth_url"`
	SellersURL   string `koanf:"sellers_url"`
	ClientsURL   string `koanf:"clients_url"`
	InventoryURL string `koanf:"inventory_url"`
	OrdersURL    string `koanf:"orders_url"`

	HTTPTimeout     time.Duration `koanf:"http_timeout"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	SessionIdle     time.Duration `koanf:"session_idle"`

	SkipAddressValidation bool `koanf:"skip_address_validation"`

	AdminUser     string `koanf:"admin_user"`
	AdminPassword string `koanf:"admin_password"`

	Geo GeoBox `koanf:"geo"`

	Mock MockConfig `koanf:"mock"`
}

// MockConfig configures cmd/ccp-mock (CCP_MOCK__PORT, CCP_MOCK__DB_DSN).
type MockConfig struct {
	Port  string `koanf:"port"`
	DBDSN string `koanf:"db_dsn"`
}

// Load reads the optional YAML file named by CCP_CONFIG, then CCP_* env
// vars (CCP_GEO__MIN_LAT for nested keys), then fills defaults.
func Load() (Config, error) {
	k := koanf.New(".")
	if path := os.Getenv("CCP_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("CCP_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "CCP_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	log.Printf("[config] ENV=%s PORT=%s DB_DSN=%s LOG_FILE=%s AUTH=%s SELLERS=%s CLIENTS=%s INVENTORY=%s ORDERS=%s",
		cfg.Env, cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.AuthURL, cfg.SellersURL, cfg.ClientsURL, cfg.InventoryURL, cfg.OrdersURL)
	return cfg, nil
}

func (c Config) withDefaults() Config {
	if c.Env == "" {
		c.Env = "dev"
	}
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.DBDSN == "" {
		c.DBDSN = "ccp.db"
	}
	if c.LogFile == "" {
		c.LogFile = "./ccp.log"
	}
	if c.AuthURL == "" {
		c.AuthURL = "http://localhost:8090"
	}
	// Every backend defaults to the auth host so one mock serves all of them.
	if c.SellersURL == "" {
		c.SellersURL = c.AuthURL
	}
	if c.ClientsURL == "" {
		c.ClientsURL = c.AuthURL
	}
	if c.InventoryURL == "" {
		c.InventoryURL = c.AuthURL
	}
	if c.OrdersURL == "" {
		c.OrdersURL = c.AuthURL
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 10 * time.Second
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = 30 * time.Second
	}
	if c.SessionIdle <= 0 {
		c.SessionIdle = 12 * time.Hour
	}
	if c.Mock.Port == "" {
		c.Mock.Port = "8090"
	}
	if c.Mock.DBDSN == "" {
		c.Mock.DBDSN = "ccp-mock.db"
	}
	if c.Geo == (GeoBox{}) {
		// Bogotá urban area.
		c.Geo = GeoBox{MinLat: 4.47, MaxLat: 4.83, MinLon: -74.22, MaxLon: -74.01}
	}
	return c
}

func (c Config) Validate() error {
	for name, u := range map[string]string{
		"auth_url": c.AuthURL, "sellers_url": c.SellersURL, "clients_url": c.ClientsURL,
		"inventory_url": c.InventoryURL, "orders_url": c.OrdersURL,
	} {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("%s must be an http(s) URL, got %q", name, u)
		}
	}
	if c.Geo.MinLat > c.Geo.MaxLat || c.Geo.MinLon > c.Geo.MaxLon {
		return fmt.Errorf("geo box bounds are inverted")
	}
	return nil
}

// TestMode reports whether address-format validation is bypassed.
func (c Config) TestMode() bool {
	return c.Env == "test" || c.SkipAddressValidation
}
