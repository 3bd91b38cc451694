package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if cfg.Catalog.ForceOffline {
		t.Fatalf("expected force offline to default to false")
	}
	if got := cfg.Catalog.HTTPTimeout; got != 10*time.Second {
		t.Fatalf("expected catalog timeout 10s, got %v", got)
	}
	if cfg.Cart.StorageDriver != StorageFile {
		t.Fatalf("expected file storage by default, got %q", cfg.Cart.StorageDriver)
	}
	if cfg.Cart.MaxProfiles != 1024 {
		t.Fatalf("expected 1024 cached profiles by default, got %d", cfg.Cart.MaxProfiles)
	}
	if cfg.DB.DSN != ".moda/moda.db" {
		t.Fatalf("expected sqlite path as DSN, got %q", cfg.DB.DSN)
	}
	if got := cfg.Orders.FlatShipping().String(); got != "10000" {
		t.Fatalf("expected shipping 10000, got %s", got)
	}
}

func TestLoad_ForceOffline(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCatalogForceOffline, "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.Catalog.ForceOffline {
		t.Fatalf("expected force offline flag to be read")
	}
}

func TestLoad_RejectsUnknownStorage(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvCartStorage, "indexeddb")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown storage driver to return an error")
	}
}

func TestLoad_PostgresRequiresConnectionInfo(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvDBDriver, "postgres")

	if _, err := Load(); err == nil {
		t.Fatal("expected missing postgres settings to return an error")
	}

	t.Setenv(EnvDBHost, "localhost")
	t.Setenv(EnvDBUser, "moda")
	t.Setenv(EnvDBName, "moda")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.DB.DSN != "postgres://moda@localhost:5432/moda?sslmode=disable" {
		t.Fatalf("unexpected DSN %q", cfg.DB.DSN)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvDBDriver, "sqlite")
	t.Setenv(EnvCartStorage, "file")
	t.Setenv(EnvCatalogForceOffline, "false")
	t.Setenv(EnvOrdersShippingFee, "10000")
	t.Setenv(EnvDBDSN, "")
	t.Setenv(EnvDBHost, "")
	t.Setenv(EnvDBUser, "")
	t.Setenv(EnvDBName, "")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
}

func TestFlatShippingRejectsGarbage(t *testing.T) {
	if got := (OrdersConfig{ShippingFee: "abc"}).FlatShipping(); !got.IsZero() {
		t.Fatalf("expected zero shipping for invalid input, got %s", got)
	}
	if got := (OrdersConfig{ShippingFee: "-5"}).FlatShipping(); !got.IsZero() {
		t.Fatalf("expected zero shipping for negative input, got %s", got)
	}
}
