package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ccp/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CCP_AUTH_URL", "http://auth.local")
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OrdersURL != "http://auth.local" || cfg.InventoryURL != "http://auth.local" {
		t.Fatalf("backends should default to auth url: %+v", cfg)
	}
	if cfg.RefreshInterval != 30*time.Second {
		t.Fatalf("want 30s refresh, got %s", cfg.RefreshInterval)
	}
	if cfg.TestMode() {
		t.Fatalf("dev env must not be test mode")
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ccp.yaml")
	yaml := "port: \"9000\"\nenv: test\norders_url: http://orders.file\nrefresh_interval: 5s\ngeo:\n  min_lat: 1\n  max_lat: 2\n  min_lon: 3\n  max_lon: 4\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CCP_CONFIG", path)
	t.Setenv("CCP_ORDERS_URL", "http://orders.env")

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9000" || cfg.RefreshInterval != 5*time.Second {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.OrdersURL != "http://orders.env" {
		t.Fatalf("env should override file, got %s", cfg.OrdersURL)
	}
	if !cfg.TestMode() {
		t.Fatalf("env=test should enable test mode")
	}
	if cfg.Geo.MaxLon != 4 {
		t.Fatalf("nested geo box not loaded: %+v", cfg.Geo)
	}
}

func TestValidateRejectsBadURL(t *testing.T) {
	t.Setenv("CCP_INVENTORY_URL", "ftp://nope")
	if _, err := config.Load(); err == nil {
		t.Fatal("expected error for non-http url")
	}
}
