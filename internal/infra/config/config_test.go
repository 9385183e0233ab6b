package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.ListingStore != StoreMemory || cfg.DefaultRadiusMiles != 5 || cfg.LocationTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.SearchRatePerMinute != 30 || len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestFromEnvParsesValues(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LISTING_STORE", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/ftm")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("LOCATION_TTL", "90m")
	t.Setenv("DEFAULT_RADIUS_MILES", "12.5")
	t.Setenv("S3_USE_SSL", "yes")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.ListingStore != StorePostgres || cfg.DefaultRadiusMiles != 12.5 || cfg.LocationTTL != 90*time.Minute || !cfg.S3UseSSL {
		t.Fatalf("unexpected %+v", cfg)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("brokers = %v", cfg.KafkaBrokers)
	}
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"store needs mongo uri":  {"LISTING_STORE": "mongo"},
		"unknown store":          {"LISTING_STORE": "cassandra"},
		"radius above maximum":   {"DEFAULT_RADIUS_MILES": "501"},
		"bad duration":           {"LOCATION_TTL": "soon"},
		"bad bool":               {"S3_USE_SSL": "maybe"},
		"jwt secret outside dev": {"APP_ENV": "prod"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("APP_ENV", "dev")
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("APP_ENV=local\nHTTP_ADDR=:9191\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Chdir(dir)
	// restored after the test; unset so the .env values win
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_ADDR", "")
	os.Unsetenv("APP_ENV")
	os.Unsetenv("HTTP_ADDR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Env != "local" || cfg.HTTPAddr != ":9191" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}
