package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nwslgate/nwslgate/core/shared/errors"
)

const (
	defaultAPIBaseURL = "http://127.0.0.1:8080"
	defaultPort       = "3000"
	defaultCacheTTL   = 5 * time.Minute
)

// Config holds all gateway settings. Everything comes from the environment;
// the CLI loads .env files before Load runs.
type Config struct {
	// Port the gateway listens on
	Port string `validate:"required,numeric"`

	// Analytics backend
	APIBaseURL string `validate:"required,url"`
	APIKey     string `validate:"required"`

	// Admin token forwarded to the backend on panel mutations.
	// Only required when an admin route is actually hit.
	PanelAdminToken string

	// Visualization service
	VizBaseURL string `validate:"omitempty,url"`
	VizToken   string

	// Direct warehouse access for aggregate stats
	WarehouseURL string
	WarehouseSSL string

	// Optional Redis for proxy rate limiting
	RedisURL string

	// TTL for cached dashboard aggregates and warehouse stats
	CacheTTL time.Duration
}

var validate = validator.New()

// Load builds the configuration from environment variables and validates it.
// A missing API key fails here so the server refuses to start half-wired.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            envOr("PORT", defaultPort),
		APIBaseURL:      envOr("NWSL_API_BASE_URL", defaultAPIBaseURL),
		APIKey:          os.Getenv("NWSL_API_KEY"),
		PanelAdminToken: os.Getenv("NWSL_PANEL_ADMIN_TOKEN"),
		VizBaseURL:      os.Getenv("NWSL_VIZ_BASE_URL"),
		VizToken:        os.Getenv("NWSL_VIZ_TOKEN"),
		WarehouseURL:    os.Getenv("NWSL_DATA_WAREHOUSE_URL"),
		WarehouseSSL:    strings.ToLower(os.Getenv("NWSL_DATA_WAREHOUSE_SSL")),
		RedisURL:        os.Getenv("NWSL_REDIS_URL"),
		CacheTTL:        defaultCacheTTL,
	}

	if raw := os.Getenv("NWSL_CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, errors.NewAppError(errors.ErrCodeInvalidInput,
				fmt.Sprintf("NWSL_CACHE_TTL %q is not a valid duration", raw), err)
		}
		cfg.CacheTTL = ttl
	}

	if err := validate.Struct(cfg); err != nil {
		// Deliberately generic: never name the missing secret in the message
		return nil, errors.NewAppError(errors.ErrCodeNotConfigured,
			"gateway is not configured", err)
	}

	return cfg, nil
}

// RequireAdminToken fails when no admin token is configured. Admin mutations
// call this lazily so that a read-only deployment can run without one.
func (c *Config) RequireAdminToken() error {
	if c.PanelAdminToken == "" {
		return errors.NewAppError(errors.ErrCodeNotConfigured,
			"admin interface is not configured", nil)
	}
	return nil
}

// VizConfigured reports whether the visualization service is reachable
func (c *Config) VizConfigured() bool {
	return c.VizBaseURL != ""
}

// WarehouseConfigured reports whether direct warehouse access is available
func (c *Config) WarehouseConfigured() bool {
	return c.WarehouseURL != ""
}

func envOr(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}
