package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// devSessionSecret is only used when SESSION_SECRET is unset and
// IS_DEV_ENV=true.
const devSessionSecret = "scribe-dev-session-secret-change-me!!"

const minSessionSecretLen = 32

// errSessionSecretRequired is returned outside development mode when no
// usable SESSION_SECRET is configured.
var errSessionSecretRequired = errors.New("SESSION_SECRET must be set to at least 32 characters")

type serverConfig struct {
	Port               string
	SessionSecret      string
	AllowedOrigins     []string
	RateLimitPerMinute int
	SecureCookies      bool
	DevMode            bool
}

func defaultServerConfig() serverConfig {
	return serverConfig{
		Port:               "3000",
		SessionSecret:      devSessionSecret,
		RateLimitPerMinute: 120,
	}
}

// serverConfigFromEnv reads the process level settings. Invalid values are
// logged and replaced by defaults, except for a missing or short
// SESSION_SECRET, which is only tolerated in development mode.
func serverConfigFromEnv() (serverConfig, error) {
	cfg := defaultServerConfig()
	cfg.DevMode = os.Getenv("IS_DEV_ENV") == "true"

	if v := os.Getenv("SCRIBE_PORT"); v != "" {
		cfg.Port = v
	}

	switch secret := os.Getenv("SESSION_SECRET"); {
	case len(secret) >= minSessionSecretLen:
		cfg.SessionSecret = secret
	case !cfg.DevMode:
		return serverConfig{}, fmt.Errorf("%w (got %d characters)", errSessionSecretRequired, len(secret))
	default:
		slog.Warn("[WEB] SESSION_SECRET missing or too short, using insecure development secret",
			"min_length", minSessionSecretLen)
	}

	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitPerMinute = n
		} else {
			slog.Warn("[WEB] invalid RATE_LIMIT_PER_MINUTE, using default",
				"value", v, "default", cfg.RateLimitPerMinute)
		}
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	if v := os.Getenv("SESSION_COOKIE_SECURE"); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			slog.Warn("[WEB] invalid SESSION_COOKIE_SECURE, using default", "value", v)
		} else {
			cfg.SecureCookies = secure
		}
	}

	return cfg, nil
}
