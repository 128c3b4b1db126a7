// Package config reads the register server's settings from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string
	Port     int
	DBPath   string

	// BackendURL is the base URL of the product and order service.
	BackendURL   string
	BackendToken string

	JWTSecret string
	TokenTTL  time.Duration

	// AdminUsername and AdminPassword seed the first operator when none exist.
	AdminUsername string
	AdminPassword string

	ScanQuietPeriod time.Duration
	ScanMinLength   int
	SearchDebounce  time.Duration
	CheckoutTimeout time.Duration
	LookupTimeout   time.Duration

	// CatalogRefresh reloads the catalog periodically. Zero disables it.
	CatalogRefresh time.Duration
}

func Load() Config {
	return Config{
		AppEnv:          getEnv("APP_ENV", "dev"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		Port:            getEnvInt("PORT", 8090),
		DBPath:          getEnv("DB_PATH", "./data/register.db"),
		BackendURL:      getEnv("BACKEND_URL", "http://localhost:8080/api"),
		BackendToken:    getEnv("BACKEND_TOKEN", ""),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:        getEnvDuration("TOKEN_TTL", 12*time.Hour),
		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", ""),
		ScanQuietPeriod: getEnvDuration("SCAN_QUIET_PERIOD", 50*time.Millisecond),
		ScanMinLength:   getEnvInt("SCAN_MIN_LENGTH", 5),
		SearchDebounce:  getEnvDuration("SEARCH_DEBOUNCE", 300*time.Millisecond),
		CheckoutTimeout: getEnvDuration("CHECKOUT_TIMEOUT", 15*time.Second),
		LookupTimeout:   getEnvDuration("LOOKUP_TIMEOUT", 5*time.Second),
		CatalogRefresh:  getEnvDuration("CATALOG_REFRESH", 0),
	}
}

// IsProduction reports whether APP_ENV is "prod" or "production".
func (c Config) IsProduction() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("Ignoring invalid integer setting", "key", key, "value", v, "default", def)
		return def
	}

	return n
}

// getEnvDuration accepts Go duration strings ("300ms", "15s").
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("Ignoring invalid duration setting", "key", key, "value", v, "default", def.String())
		return def
	}

	return d
}
