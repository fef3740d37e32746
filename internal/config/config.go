package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port      int
	JWTSecret string

	// DatabaseURL points at the master database. A postgres:// URL selects
	// the client/server backend; anything else is treated as a SQLite file
	// path and tenant databases are created next to it.
	DatabaseURL string

	// TenantDBPrefix is prepended to the organization id to form the tenant
	// database name (postgres) or file name (sqlite).
	TenantDBPrefix string

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	RateLimitRPM int

	ServiceName       string
	TelemetryEndpoint string
	TelemetryInsecure bool

	FrontendURL string
}

// Load reads configuration from environment variables and validates required
// fields. A .env file is honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return Config{}, fmt.Errorf("parse PORT: %w", err)
	}

	accessTTL, err := getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("parse ACCESS_TOKEN_TTL: %w", err)
	}

	refreshTTL, err := getEnvDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("parse REFRESH_TOKEN_TTL: %w", err)
	}

	rateLimit, err := getEnvInt("RATE_LIMIT_RPM", 600)
	if err != nil {
		return Config{}, fmt.Errorf("parse RATE_LIMIT_RPM: %w", err)
	}

	cfg := Config{
		Port:              port,
		JWTSecret:         getEnv("JWT_SECRET", ""),
		DatabaseURL:       getEnv("DATABASE_URL", "./data/zphere.db"),
		TenantDBPrefix:    getEnv("TENANT_DB_PREFIX", "zphere_tenant_"),
		AccessTokenTTL:    accessTTL,
		RefreshTokenTTL:   refreshTTL,
		RateLimitRPM:      rateLimit,
		ServiceName:       getEnv("SERVICE_NAME", "zphere-server"),
		TelemetryEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		TelemetryInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:5173"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.TenantDBPrefix == "" {
		return fmt.Errorf("TENANT_DB_PREFIX must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(v)
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}
	return time.ParseDuration(v)
}

func getEnvBool(key string, defaultValue bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "t", "yes", "on":
		return true
	case "0", "false", "f", "no", "off":
		return false
	}
	return defaultValue
}
