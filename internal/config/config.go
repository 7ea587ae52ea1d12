package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultDBDriver       = "sqlite"
	defaultDBPath         = "./selah.db"
	defaultPort           = "8080"
	defaultEnv            = "dev"
	defaultConnectTimeout = 10 * time.Second
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env            string
	Port           string
	DBDriver       string
	DBPath         string
	DatabaseURL    string
	ConnectTimeout time.Duration
	AdminEmail     string
	AdminPassword  string
	SessionSecret  string
	LogLevel       string
	LogFormat      string
	OptionsFile    string
	TierScheme     string

	// Warnings lists non-fatal configuration problems found while loading.
	Warnings []string
}

// Load reads environment variables, after a best-effort .env load, and returns a populated Config.
func Load() (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the current process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Env:           strings.ToLower(os.Getenv("APP_ENV")),
		Port:          os.Getenv("PORT"),
		DBDriver:      strings.ToLower(os.Getenv("DB_DRIVER")),
		DBPath:        os.Getenv("DB_PATH"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		LogFormat:     os.Getenv("LOG_FORMAT"),
		OptionsFile:   os.Getenv("OPTIONS_FILE"),
		TierScheme:    os.Getenv("PRICING_TIER_SCHEME"),
	}

	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = defaultDBDriver
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}

	cfg.ConnectTimeout = defaultConnectTimeout
	if raw := os.Getenv("DB_CONNECT_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("DB_CONNECT_TIMEOUT: %w", err)
		}
		if timeout <= 0 {
			return Config{}, fmt.Errorf("DB_CONNECT_TIMEOUT must be positive, got %s", raw)
		}
		cfg.ConnectTimeout = timeout
	}

	switch cfg.DBDriver {
	case "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", cfg.DBDriver)
	}

	if cfg.AdminEmail == "" {
		cfg.Warnings = append(cfg.Warnings, "ADMIN_EMAIL is not set")
	}
	if cfg.AdminPassword == "" {
		cfg.Warnings = append(cfg.Warnings, "ADMIN_PASSWORD is not set")
	}
	if cfg.SessionSecret == "" {
		cfg.Warnings = append(cfg.Warnings, "SESSION_SECRET is not set")
	}

	return cfg, nil
}

// IsDev reports whether the app runs in development mode.
func (c Config) IsDev() bool {
	return c.Env == defaultEnv
}

// DSN returns the data source name for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}
