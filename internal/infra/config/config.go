package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken    string
	DatabaseURL      string
	LogLevel         string
	Environment      string
	Timezone         string
	Location         *time.Location
	DataDir          string
	CatalogTTL       time.Duration
	CronSpecDispatch string // delivers due notifications
	CronSpecRefresh  string // rolls every chat's twelve month window forward
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getenvDefault("ENVIRONMENT", "development"))

	cfg.Timezone = getenvDefault("TIMEZONE", "Asia/Seoul")
	cfg.Location, err = time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}

	cfg.DataDir = getenvDefault("DATA_DIR", "data")

	cfg.CatalogTTL, err = time.ParseDuration(getenvDefault("CATALOG_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_TTL: %w", err)
	}
	if cfg.CatalogTTL <= 0 {
		return nil, fmt.Errorf("CATALOG_TTL must be positive, got %s", cfg.CatalogTTL)
	}

	cfg.CronSpecDispatch = getenvDefault("CRON_SPEC_DISPATCH", "* * * * *")  // Default: every minute
	cfg.CronSpecRefresh = getenvDefault("CRON_SPEC_REFRESH", "0 4 * * *") // Default: 04:00 daily

	return cfg, nil
}
