package config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("tiffin-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Geo.Provider != "geoapify" {
		t.Errorf("expected geoapify provider, got %s", cfg.Geo.Provider)
	}
	if cfg.Geo.APIKey != "" {
		t.Errorf("expected empty api key by default")
	}
	if cfg.Delivery.ZonePolicy != "radius" {
		t.Errorf("expected radius policy, got %s", cfg.Delivery.ZonePolicy)
	}
	if cfg.Delivery.NearbyRadiusKm != 15 {
		t.Errorf("expected nearby radius 15, got %v", cfg.Delivery.NearbyRadiusKm)
	}
	if cfg.Telemetry.ServiceName != "tiffin-test" {
		t.Errorf("expected service name tiffin-test, got %s", cfg.Telemetry.ServiceName)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TIFFIN_GEO_API_KEY", "secret")
	t.Setenv("TIFFIN_DELIVERY_ZONE_POLICY", "isoline")

	cfg, err := Load("tiffin-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Geo.APIKey != "secret" {
		t.Errorf("expected api key from env, got %q", cfg.Geo.APIKey)
	}
	if cfg.Delivery.ZonePolicy != "isoline" {
		t.Errorf("expected isoline policy, got %s", cfg.Delivery.ZonePolicy)
	}
}

func TestValidate_Errors(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error for empty config")
	}
	for _, want := range []string{"server.port", "geo.provider", "delivery.zone_policy"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected error to mention %s, got: %v", want, err)
		}
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{User: "u", Password: "p", Host: "db", Port: 5432, DBName: "tiffin", SSLMode: "disable"}
	if got := d.DSN(); got != "postgres://u:p@db:5432/tiffin?sslmode=disable" {
		t.Errorf("unexpected dsn %s", got)
	}
}
