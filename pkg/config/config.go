package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	SessionStoreCookie = "cookie"
	SessionStoreRedis  = "redis"
)

type Config struct {
	Port          string
	DatabaseURL   string
	AppEnv        string
	BaseURL       string
	SessionSecret string
	SessionTTL    time.Duration
	SessionStore  string
	RedisURL      string
	LogLevel      string
}

func Load() (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "8h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", "file:shrinkray.sqlite"),
		AppEnv:        getEnv("APP_ENV", "local"),
		BaseURL:       getEnv("BASE_URL", "http://localhost:8080"),
		SessionSecret: getEnv("SESSION_SECRET", "secret"),
		SessionTTL:    ttl,
		SessionStore:  getEnv("SESSION_STORE", SessionStoreCookie),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	switch cfg.SessionStore {
	case SessionStoreCookie, SessionStoreRedis:
	default:
		return nil, fmt.Errorf("SESSION_STORE: unknown store %q", cfg.SessionStore)
	}

	if cfg.IsProduction() && cfg.SessionSecret == "secret" {
		return nil, fmt.Errorf("SESSION_SECRET must be set in production")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
