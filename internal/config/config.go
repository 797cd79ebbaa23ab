// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	// APIURL is the root of the Sweet Shop backend; /api/v1 is appended per request.
	APIURL string `env:"SWEETSHOP_API_URL" envDefault:"http://localhost:8000"`

	SessionSecret string `env:"SWEETSHOP_SESSION_SECRET,required"`
	ServerHost    string `env:"SWEETSHOP_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"SWEETSHOP_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"SWEETSHOP_ENV" envDefault:"development"`
	LogLevel      string `env:"SWEETSHOP_LOG_LEVEL" envDefault:"info"`
	DBPath        string `env:"SWEETSHOP_DB_PATH" envDefault:"./data/sweetshop.db"`

	// Optional Redis session store; SQLite is used when empty.
	RedisURL    string `env:"SWEETSHOP_REDIS_URL"`
	RedisPrefix string `env:"SWEETSHOP_REDIS_PREFIX" envDefault:"sweetshop:session:"`

	EventRetentionDays int           `env:"SWEETSHOP_EVENT_RETENTION_DAYS" envDefault:"30"`
	RequestTimeout     time.Duration `env:"SWEETSHOP_REQUEST_TIMEOUT" envDefault:"30s"`

	// Login rate limiting per client IP.
	LoginRateLimit float64 `env:"SWEETSHOP_LOGIN_RATE_LIMIT" envDefault:"0.5"`
	LoginBurst     int     `env:"SWEETSHOP_LOGIN_BURST" envDefault:"5"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisSessions returns true if sessions should live in Redis.
func (c Config) UseRedisSessions() bool {
	return c.RedisURL != ""
}

// EventRetention is how long event log rows are kept. Zero keeps them forever.
func (c Config) EventRetention() time.Duration {
	if c.EventRetentionDays <= 0 {
		return 0
	}
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// SlogLevel maps LogLevel to a slog.Level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validateAPIURL(); err != nil {
		return nil, err
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("SWEETSHOP_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("SWEETSHOP_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("SWEETSHOP_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// validateAPIURL requires an absolute http(s) URL and drops a trailing slash.
func (c *Config) validateAPIURL() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("SWEETSHOP_API_URL must be an absolute http(s) URL, got %q", c.APIURL)
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
