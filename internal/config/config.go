package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

const (
	environmentProduction = "production"

	// DevSessionSecret signs form sessions when SESSION_SECRET is unset outside production
	DevSessionSecret = "moviepicks-dev-session-secret-change-me"
)

// Config holds the application configuration
// Preferences are never persisted, so there is no database configuration
type Config struct {
	// Environment
	Environment string
	Port        string
	StaticDir   string // Served under /static

	// Form sessions
	SessionSecret    string // Signs the form session cookie
	SessionMaxAgeRaw string
	SessionMaxAge    int // Seconds

	// Genre catalog override (JSON array of names); empty uses the embedded catalog
	GenreCatalogPath string

	// Observability
	SentryDSN string // Sentry DSN for error tracking
}

func Load() *Config {
	cfg := &Config{
		Environment:      getEnv("ENVIRONMENT", "development"),
		Port:             getEnv("PORT", "3000"),
		StaticDir:        getEnv("STATIC_DIR", "public"),
		SessionSecret:    getEnv("SESSION_SECRET", ""),
		SessionMaxAgeRaw: getEnv("SESSION_MAX_AGE", "3600"),
		GenreCatalogPath: getEnv("GENRE_CATALOG_PATH", ""),
		SentryDSN:        getEnv("SENTRY_DSN", ""),
	}

	if maxAge, err := strconv.Atoi(cfg.SessionMaxAgeRaw); err == nil {
		cfg.SessionMaxAge = maxAge
	}

	return cfg
}

// Validate checks settings that would make the server unsafe or unusable
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.SessionMaxAgeRaw); err != nil {
		return fmt.Errorf("SESSION_MAX_AGE must be a number of seconds: %w", err)
	}
	if c.SessionMaxAge < 0 {
		return errors.New("SESSION_MAX_AGE must not be negative")
	}
	if c.IsProduction() && c.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required in production")
	}
	return nil
}

// SessionKey returns the key used to sign form sessions
func (c *Config) SessionKey() []byte {
	if c.SessionSecret == "" {
		return []byte(DevSessionSecret)
	}
	return []byte(c.SessionSecret)
}

// IsProduction returns true when running in the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == environmentProduction
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
