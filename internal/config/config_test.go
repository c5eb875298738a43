package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, k := range []string{"QUOTEMANAGER_ADDR", "QUOTEMANAGER_DB_DRIVER", "QUOTEMANAGER_SESSION_TTL", "QUOTEMANAGER_CATALOG_FILES", "QUOTEMANAGER_AUTO_MIGRATE"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	if cfg.Addr != ":8000" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.DBDriver != "memory" {
		t.Errorf("DBDriver = %q", cfg.DBDriver)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
	if cfg.AutoMigrate {
		t.Errorf("AutoMigrate should default to false")
	}
	if len(cfg.CatalogFiles) != 0 {
		t.Errorf("CatalogFiles = %v", cfg.CatalogFiles)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("QUOTEMANAGER_ADDR", ":9090")
	t.Setenv("QUOTEMANAGER_DB_DRIVER", "sqlite")
	t.Setenv("QUOTEMANAGER_AUTO_MIGRATE", "true")
	t.Setenv("QUOTEMANAGER_CATALOG_FILES", " a.yaml, ,b.json ")
	t.Setenv("QUOTEMANAGER_SESSION_TTL", "45m")

	cfg := FromEnv()
	if cfg.Addr != ":9090" || cfg.DBDriver != "sqlite" || !cfg.AutoMigrate {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if len(cfg.CatalogFiles) != 2 || cfg.CatalogFiles[0] != "a.yaml" || cfg.CatalogFiles[1] != "b.json" {
		t.Errorf("CatalogFiles = %v", cfg.CatalogFiles)
	}
	if cfg.SessionTTL != 45*time.Minute {
		t.Errorf("SessionTTL = %v", cfg.SessionTTL)
	}
}

func TestGetEnvDuration(t *testing.T) {
	cases := map[string]time.Duration{
		"":      time.Minute,
		"120":   2 * time.Minute,
		"1h":    time.Hour,
		"bogus": time.Minute,
		"-5m":   time.Minute,
	}
	for raw, want := range cases {
		t.Setenv("QM_TEST_DURATION", raw)
		if got := getEnvDuration("QM_TEST_DURATION", time.Minute); got != want {
			t.Errorf("%q: got %v, want %v", raw, got, want)
		}
	}
}
