// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts. Write timeout is generous because one extraction
	// response can take many upstream round trips to assemble.
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Marketing Cloud endpoint templates. The {subdomain} slot is
	// replaced per request; tests point these at fake servers.
	MCAuthBaseURL string `env:"MC_AUTH_BASE_URL" envDefault:"https://{subdomain}.auth.marketingcloudapis.com"`
	MCRESTBaseURL string `env:"MC_REST_BASE_URL" envDefault:"https://{subdomain}.rest.marketingcloudapis.com"`
	MCSOAPBaseURL string `env:"MC_SOAP_BASE_URL" envDefault:"https://{subdomain}.soap.marketingcloudapis.com"`

	// Per-upstream-call timeout.
	MCRequestTimeout time.Duration `env:"MC_REQUEST_TIMEOUT" envDefault:"30s"`

	// Automation listing page size.
	MCPageSize int `env:"MC_PAGE_SIZE" envDefault:"200"`

	// Fan-out caps for the enrichment pipeline.
	MCAutomationWorkers int `env:"MC_AUTOMATION_WORKERS" envDefault:"8"`
	MCActivityWorkers   int `env:"MC_ACTIVITY_WORKERS" envDefault:"16"`

	// Outbound rate limit across all upstream calls.
	MCRateLimitRPS   float64 `env:"MC_RATE_LIMIT_RPS" envDefault:"10"`
	MCRateLimitBurst int     `env:"MC_RATE_LIMIT_BURST" envDefault:"20"`

	// CORS configuration
	// Comma-separated list of allowed origins for the browser UI
	// (e.g., "http://localhost:3000").
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`

	// Request body size limit in bytes (default 64KB; the only body this
	// service accepts is the login payload).
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"65536"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
