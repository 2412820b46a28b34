package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/pable/scrimstats/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "ENV", "DATA_PATH", "ROSTER_PATH", "VARIANT", "SHEET", "ALLOWED_ORIGINS", "READ_TIMEOUT", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8501 || cfg.Env != "development" || cfg.DataPath != "data.csv" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Variant != "" {
		t.Errorf("variant should default to auto-detect, got %q", cfg.Variant)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"*"}) {
		t.Errorf("origins: %v", cfg.AllowedOrigins)
	}
	if cfg.IsProduction() {
		t.Error("development env reported as production")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("DATA_PATH", "/srv/scrim.xlsx")
	t.Setenv("VARIANT", "scrim")
	t.Setenv("SHEET", "시트1")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("READ_TIMEOUT", "3s")
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != ":9000" || !cfg.IsProduction() {
		t.Errorf("server settings: %+v", cfg)
	}
	if cfg.Variant != model.VariantScrim || cfg.Sheet != "시트1" || cfg.DataPath != "/srv/scrim.xlsx" {
		t.Errorf("input settings: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("origins: %v", cfg.AllowedOrigins)
	}
	if cfg.ReadTimeout != 3*time.Second {
		t.Errorf("read timeout: %v", cfg.ReadTimeout)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("invalid duration should fall back, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoadInvalidVariant(t *testing.T) {
	t.Setenv("VARIANT", "league")
	if _, err := Load(); err == nil {
		t.Error("expected an error for an unknown variant")
	}
}
