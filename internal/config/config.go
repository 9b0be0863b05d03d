package config

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDBHost     = "localhost"
	defaultDBPort     = "5432"
	defaultDBUser     = "postgres"
	defaultDBPassword = "postgres"
	defaultDBName     = "restaurante"
)

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	// DSN overrides the individual parts when set.
	DSN string
}

type Config struct {
	Environment  string
	HTTPPort     string
	Database     DatabaseConfig
	AutoMigrate  bool
	SeedDemoData bool
	JWTSecret    string
	CookieKey    string
	SessionTTL   time.Duration
	CORSOrigins  string
	Timezone     string

	location *time.Location
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] could not read .env: %v", err)
	}

	cfg := &Config{
		Environment: getEnv("APP_ENV", "development"),
		HTTPPort:    firstEnv("8080", "HTTP_PORT", "PORT"),
		Database: DatabaseConfig{
			Host:     firstEnv(defaultDBHost, "DB_HOST", "PGHOST"),
			Port:     firstEnv(defaultDBPort, "DB_PORT", "PGPORT"),
			User:     firstEnv(defaultDBUser, "DB_USER", "PGUSER"),
			Password: firstEnv(defaultDBPassword, "DB_PASSWORD", "DB_PASS", "PGPASSWORD"),
			Name:     firstEnv(defaultDBName, "DB_NAME", "DB_DATABASE", "PGDATABASE"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			DSN:      getEnv("DATABASE_DSN", ""),
		},
		AutoMigrate:  getBool("DB_AUTO_MIGRATE", true),
		SeedDemoData: getBool("SEED_DEMO_DATA", false),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		CookieKey:    getEnv("COOKIE_KEY", ""),
		CORSOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		Timezone:     getEnv("APP_TIMEZONE", "America/Guatemala"),
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "12h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cfg.SessionTTL = ttl

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("[WARN] APP_TIMEZONE %q could not be loaded, falling back to UTC: %v", cfg.Timezone, err)
		loc = time.UTC
	}
	cfg.location = loc

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = randomHex(32)
		log.Println("[WARN] JWT_SECRET is not set, generated a random secret for this process.")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}

	if cfg.CookieKey == "" {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate cookie key: %w", err)
		}
		cfg.CookieKey = base64.StdEncoding.EncodeToString(key)
		log.Println("[WARN] COOKIE_KEY is not set, sessions will not survive a restart.")
	} else if raw, err := base64.StdEncoding.DecodeString(cfg.CookieKey); err != nil || len(raw) != 32 {
		return nil, fmt.Errorf("COOKIE_KEY must be 32 bytes, base64 encoded")
	}

	if cfg.Database.DSN == "" && cfg.Database.Host == defaultDBHost && cfg.Database.Password == defaultDBPassword {
		log.Println("[WARN] using the default local database settings, set DB_HOST/DB_PASSWORD or DATABASE_DSN for production.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS is using its default value.")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	d := c.Database
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

// Location is the business time zone; order numbers and "today" use it.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstEnv(def string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[WARN] %s value %q is not a boolean, using default %v", key, v, def)
		return def
	}
	return b
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
