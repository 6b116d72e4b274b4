package blogapi

import (
	"errors"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	valid := DefaultConfig()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{
			name:    "valid default config",
			mutate:  func(c *Config) {},
			wantErr: nil,
		},
		{
			name:    "https base URL",
			mutate:  func(c *Config) { c.BaseURL = "https://blog.example.com/api" },
			wantErr: nil,
		},
		{
			name:    "empty base URL",
			mutate:  func(c *Config) { c.BaseURL = "" },
			wantErr: ErrMissingBaseURL,
		},
		{
			name:    "relative base URL",
			mutate:  func(c *Config) { c.BaseURL = "/api" },
			wantErr: ErrInvalidBaseURL,
		},
		{
			name:    "unsupported scheme",
			mutate:  func(c *Config) { c.BaseURL = "ftp://localhost/api" },
			wantErr: ErrInvalidBaseURL,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Timeout = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Timeout = -time.Second },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "zero max image size",
			mutate:  func(c *Config) { c.MaxImageSizeMB = 0 },
			wantErr: ErrInvalidMaxImageSize,
		},
		{
			name:    "zero breaker threshold",
			mutate:  func(c *Config) { c.BreakerThreshold = 0 },
			wantErr: ErrInvalidBreakerThreshold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BaseURL != "http://localhost:8080/api" {
		t.Errorf("BaseURL = %q, want http://localhost:8080/api", cfg.BaseURL)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.Timeout)
	}
	if cfg.BreakerThreshold != 5 {
		t.Errorf("BreakerThreshold = %d, want 5", cfg.BreakerThreshold)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() should be valid, got: %v", err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("BLOG_API_URL", "http://api.internal:9000/api")
	t.Setenv("BLOG_API_TIMEOUT_SECONDS", "3")
	t.Setenv("BLOG_API_MAX_IMAGE_MB", "not-a-number")
	t.Setenv("BLOG_API_BREAKER_THRESHOLD", "-2")
	t.Setenv("BLOG_API_BREAKER_OPEN_SECONDS", "45")

	cfg := ConfigFromEnv()
	defaults := DefaultConfig()

	if cfg.BaseURL != "http://api.internal:9000/api" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v, want 3s", cfg.Timeout)
	}
	if cfg.MaxImageSizeMB != defaults.MaxImageSizeMB {
		t.Errorf("invalid MaxImageSizeMB should fall back to %d, got %d", defaults.MaxImageSizeMB, cfg.MaxImageSizeMB)
	}
	if cfg.BreakerThreshold != defaults.BreakerThreshold {
		t.Errorf("invalid BreakerThreshold should fall back to %d, got %d", defaults.BreakerThreshold, cfg.BreakerThreshold)
	}
	if cfg.BreakerOpenDuration != 45*time.Second {
		t.Errorf("BreakerOpenDuration = %v, want 45s", cfg.BreakerOpenDuration)
	}
}
