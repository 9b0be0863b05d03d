package config

import (
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"APP_ENV", "HTTP_PORT", "PORT", "DB_HOST", "PGHOST", "DB_PORT", "PGPORT",
		"DB_USER", "PGUSER", "DB_PASSWORD", "DB_PASS", "PGPASSWORD", "DB_NAME",
		"DB_DATABASE", "PGDATABASE", "DB_SSLMODE", "DATABASE_DSN", "DB_AUTO_MIGRATE",
		"SEED_DEMO_DATA", "JWT_SECRET", "COOKIE_KEY", "SESSION_TTL", "APP_TIMEZONE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	want := "host=localhost user=postgres password=postgres dbname=restaurante port=5432 sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
	if !cfg.AutoMigrate {
		t.Errorf("AutoMigrate should default to true")
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Errorf("SessionTTL = %v, want 12h", cfg.SessionTTL)
	}
	if len(cfg.JWTSecret) < 32 {
		t.Errorf("expected a generated JWT secret, got %q", cfg.JWTSecret)
	}
}

func TestLoad_Fallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("PGHOST", "db.internal")
	t.Setenv("DB_PASS", "s3cret")
	t.Setenv("DB_DATABASE", "pos")
	t.Setenv("PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.HTTPPort != "9000" {
		t.Errorf("HTTPPort = %q, want 9000", cfg.HTTPPort)
	}
	dsn := cfg.DSN()
	for _, part := range []string{"host=db.internal", "password=s3cret", "dbname=pos"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("DSN %q does not contain %q", dsn, part)
		}
	}
}

func TestLoad_DSNOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_DSN", "postgres://u:p@h:5433/x")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DSN() != "postgres://u:p@h:5433/x" {
		t.Errorf("DSN() = %q", cfg.DSN())
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "production without jwt secret", env: map[string]string{"APP_ENV": "production"}},
		{name: "short jwt secret", env: map[string]string{"JWT_SECRET": "short"}},
		{name: "bad cookie key", env: map[string]string{"COOKIE_KEY": "not-base64!"}},
		{name: "bad session ttl", env: map[string]string{"SESSION_TTL": "forever"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_TIMEZONE", "Nowhere/Invalid")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("Location() = %v, want UTC", cfg.Location())
	}
}
