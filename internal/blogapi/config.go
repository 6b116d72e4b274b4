package blogapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config validation errors
var (
	// ErrMissingBaseURL is returned when BaseURL is empty
	ErrMissingBaseURL = errors.New("BaseURL is required")
	// ErrInvalidBaseURL is returned when BaseURL is not an absolute http(s) URL
	ErrInvalidBaseURL = errors.New("BaseURL must be an absolute http or https URL")
	// ErrInvalidTimeout is returned when Timeout is not positive
	ErrInvalidTimeout = errors.New("Timeout must be positive")
	// ErrInvalidMaxImageSize is returned when MaxImageSizeMB is not positive
	ErrInvalidMaxImageSize = errors.New("MaxImageSizeMB must be positive")
	// ErrInvalidBreakerThreshold is returned when BreakerThreshold is not positive
	ErrInvalidBreakerThreshold = errors.New("BreakerThreshold must be positive")
)

// Config holds the connection settings for the blog API.
// The base endpoint is always injected here; nothing in the client reads it
// from package state.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8080/api".
	BaseURL string

	// Timeout bounds every request, including reading the response body.
	Timeout time.Duration

	// MaxImageSizeMB caps how much of an image response is read into memory.
	MaxImageSizeMB int

	// BreakerThreshold is the number of consecutive failures of one
	// operation after which further calls fail fast.
	BreakerThreshold int

	// BreakerOpenDuration is how long an operation fails fast before one
	// trial request is let through.
	BreakerOpenDuration time.Duration
}

// DefaultConfig returns a Config pointing at a locally running blog API.
func DefaultConfig() Config {
	return Config{
		BaseURL:             "http://localhost:8080/api",
		Timeout:             10 * time.Second,
		MaxImageSizeMB:      10,
		BreakerThreshold:    5,
		BreakerOpenDuration: 30 * time.Second,
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: got %q", ErrInvalidBaseURL, c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidTimeout, c.Timeout)
	}
	if c.MaxImageSizeMB <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxImageSize, c.MaxImageSizeMB)
	}
	if c.BreakerThreshold <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidBreakerThreshold, c.BreakerThreshold)
	}
	return nil
}

// ConfigFromEnv creates a Config from environment variables.
// Uses defaults for any missing or invalid values.
//
// Environment variables:
//   - BLOG_API_URL: API root URL (default: "http://localhost:8080/api")
//   - BLOG_API_TIMEOUT_SECONDS: per-request timeout (default: 10)
//   - BLOG_API_MAX_IMAGE_MB: max image response size (default: 10)
//   - BLOG_API_BREAKER_THRESHOLD: consecutive failures before failing fast (default: 5)
//   - BLOG_API_BREAKER_OPEN_SECONDS: fail-fast window (default: 30)
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("BLOG_API_URL"); v != "" {
		cfg.BaseURL = v
	}

	if v := os.Getenv("BLOG_API_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Timeout = time.Duration(n) * time.Second
		} else {
			slog.Warn("[BLOG-API] invalid BLOG_API_TIMEOUT_SECONDS value, using default",
				"value", v,
				"default_seconds", int(cfg.Timeout.Seconds()),
				"error", err,
			)
		}
	}

	if v := os.Getenv("BLOG_API_MAX_IMAGE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxImageSizeMB = n
		} else {
			slog.Warn("[BLOG-API] invalid BLOG_API_MAX_IMAGE_MB value, using default",
				"value", v,
				"default", cfg.MaxImageSizeMB,
				"error", err,
			)
		}
	}

	if v := os.Getenv("BLOG_API_BREAKER_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BreakerThreshold = n
		} else {
			slog.Warn("[BLOG-API] invalid BLOG_API_BREAKER_THRESHOLD value, using default",
				"value", v,
				"default", cfg.BreakerThreshold,
				"error", err,
			)
		}
	}

	if v := os.Getenv("BLOG_API_BREAKER_OPEN_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BreakerOpenDuration = time.Duration(n) * time.Second
		} else {
			slog.Warn("[BLOG-API] invalid BLOG_API_BREAKER_OPEN_SECONDS value, using default",
				"value", v,
				"default_seconds", int(cfg.BreakerOpenDuration.Seconds()),
				"error", err,
			)
		}
	}

	return cfg
}
