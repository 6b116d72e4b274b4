package images

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

// Config validation errors
var (
	// ErrInvalidCacheEntries is returned when CacheEntries is not positive
	ErrInvalidCacheEntries = errors.New("CacheEntries must be positive")
	// ErrInvalidMaxUpload is returned when MaxUploadMB is not positive
	ErrInvalidMaxUpload = errors.New("MaxUploadMB must be positive")
)

// Config holds the configuration for serving and uploading post images.
type Config struct {
	// ResizeEnabled renders images through presets. When false the API's
	// bytes are served unchanged for every preset.
	ResizeEnabled bool

	// CacheEntries is how many rendered images are kept in memory.
	CacheEntries int

	// MaxUploadMB is the largest image accepted from the post forms.
	MaxUploadMB int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		ResizeEnabled: true,
		CacheEntries:  256,
		MaxUploadMB:   10,
	}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.CacheEntries <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCacheEntries, c.CacheEntries)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxUpload, c.MaxUploadMB)
	}
	return nil
}

// MaxUploadBytes returns MaxUploadMB in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

// ConfigFromEnv creates a Config from environment variables.
// Uses defaults for any missing or invalid values.
//
// Environment variables:
//   - IMAGES_RESIZE_ENABLED: "true"/"1" to resize, "false"/"0" to pass through (default: true)
//   - IMAGES_CACHE_ENTRIES: rendered images kept in memory (default: 256)
//   - IMAGES_MAX_UPLOAD_MB: max upload size in MB (default: 10)
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("IMAGES_RESIZE_ENABLED"); v != "" {
		cfg.ResizeEnabled = v == "true" || v == "1"
	}

	if v := os.Getenv("IMAGES_CACHE_ENTRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheEntries = n
		} else {
			slog.Warn("[IMAGES] invalid IMAGES_CACHE_ENTRIES value, using default",
				"value", v,
				"default", cfg.CacheEntries,
				"error", err,
			)
		}
	}

	if v := os.Getenv("IMAGES_MAX_UPLOAD_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxUploadMB = n
		} else {
			slog.Warn("[IMAGES] invalid IMAGES_MAX_UPLOAD_MB value, using default",
				"value", v,
				"default", cfg.MaxUploadMB,
				"error", err,
			)
		}
	}

	return cfg
}
