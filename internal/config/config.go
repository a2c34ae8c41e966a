// Package config resolves catadmin runtime settings from the environment
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/medsupply/catadmin/internal/logger"
)

const (
	// EnvAPIBaseURL overrides the catalog API base URL
	EnvAPIBaseURL = "CATADMIN_API_BASE_URL"
	// EnvTimeout overrides the per-request timeout (Go duration syntax)
	EnvTimeout = "CATADMIN_TIMEOUT"
	// EnvLogLevel overrides the log level (debug, info, warn, error)
	EnvLogLevel = "CATADMIN_LOG_LEVEL"

	// DefaultAPIBaseURL is used when no base URL is configured
	DefaultAPIBaseURL = "http://localhost:8080"
	// DefaultTimeout bounds a single API request
	DefaultTimeout = 30 * time.Second
	// DefaultNoticeTTL is how long a notification stays on screen
	DefaultNoticeTTL = 3 * time.Second
)

// Config holds global configuration settings
type Config struct {
	// APIBaseURL is the scheme://host[:port] prefix for every API path
	APIBaseURL string
	// Timeout bounds every HTTP request
	Timeout time.Duration
	// LogLevel is the minimum level written by the logger
	LogLevel logger.LogLevel
	// NoticeTTL is the lifetime of a transient notification
	NoticeTTL time.Duration
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL: DefaultAPIBaseURL,
		Timeout:    DefaultTimeout,
		LogLevel:   logger.WARN,
		NoticeTTL:  DefaultNoticeTTL,
	}
}

// LoadConfig applies environment overrides to the defaults and validates them
func LoadConfig() (*Config, error) {
	return loadFrom(os.Getenv)
}

// Load applies environment overrides to the defaults without validating,
// so callers can layer flags on top and call Validate once
func Load() (*Config, error) {
	return readEnv(os.Getenv)
}

func loadFrom(getenv func(string) string) (*Config, error) {
	cfg, err := readEnv(getenv)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func readEnv(getenv func(string) string) (*Config, error) {
	cfg := DefaultConfig()

	// An empty variable counts as unset.
	if v := strings.TrimSpace(getenv(EnvAPIBaseURL)); v != "" {
		cfg.APIBaseURL = v
	}

	if v := strings.TrimSpace(getenv(EnvTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}

	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		level, err := logger.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

// Validate checks the configuration and normalizes the base URL
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API base URL cannot be empty")
	}

	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse API base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("API base URL must use http or https, got %q", c.APIBaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("API base URL has no host: %q", c.APIBaseURL)
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.NoticeTTL <= 0 {
		c.NoticeTTL = DefaultNoticeTTL
	}

	return nil
}
