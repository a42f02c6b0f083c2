// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"your-super-secret-jwt-key-change-this-in-production",
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath string `env:"DB_PATH" envDefault:"./data/portfolio.db"`

	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@example.com"`
	DemoMode      bool   `env:"DEMO_MODE" envDefault:"false"` // Seed sample content into empty tables

	JWTSecret   string   `env:"JWT_SECRET,required"`
	TokenExpiry Duration `env:"TOKEN_EXPIRY" envDefault:"24h"`

	Host        string   `env:"HOST" envDefault:"0.0.0.0"`
	Port        int      `env:"PORT" envDefault:"5000"`
	Env         string   `env:"ENV" envDefault:"development"`
	FrontendURL []string `env:"FRONTEND_URL" envDefault:"http://localhost:3000" envSeparator:","`

	RateLimitWindow MillisDuration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	RateLimitMax    int            `env:"RATE_LIMIT_MAX" envDefault:"100"`

	UploadPath  string `env:"UPLOAD_PATH" envDefault:"./uploads"`
	MaxFileSize int64  `env:"MAX_FILE_SIZE" envDefault:"5242880"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Cache configuration
	RedisURL    string   `env:"REDIS_URL"`                         // Optional Redis URL for a shared cache
	CachePrefix string   `env:"CACHE_PREFIX" envDefault:"folio:"` // Redis key prefix
	CacheTTL    Duration `env:"CACHE_TTL" envDefault:"5m"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// MinJWTSecretLength is the minimum length of the HS256 signing key.
const MinJWTSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.JWTSecret) < MinJWTSecretLength {
		return nil, fmt.Errorf("JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(cfg.JWTSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.JWTSecret == weak {
			return nil, fmt.Errorf("JWT_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.JWTSecret) {
		slog.Warn("JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.TokenExpiry.Std() <= 0 {
		return nil, fmt.Errorf("TOKEN_EXPIRY must be positive")
	}
	if cfg.RateLimitWindow.Std() <= 0 || cfg.RateLimitMax <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW and RATE_LIMIT_MAX must be positive")
	}
	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("MAX_FILE_SIZE must be positive")
	}

	if !cfg.IsDevelopment() && cfg.AdminPassword == "admin123" {
		slog.Warn("ADMIN_PASSWORD uses the default value; change it before exposing the server")
	}

	return cfg, nil
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

// RateLimitPerSecond converts the window/max pair into a token bucket rate.
func (c Config) RateLimitPerSecond() float64 {
	return float64(c.RateLimitMax) / c.RateLimitWindow.Std().Seconds()
}

// Duration is a time.Duration read from the environment. It accepts Go
// durations ("90m"), whole days ("7d") and bare numbers of seconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := parseDuration(string(text), time.Second)
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MillisDuration is like Duration but bare numbers are milliseconds.
type MillisDuration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *MillisDuration) UnmarshalText(text []byte) error {
	v, err := parseDuration(string(text), time.Millisecond)
	if err != nil {
		return err
	}
	*d = MillisDuration(v)
	return nil
}

// Std returns d as a time.Duration.
func (d MillisDuration) Std() time.Duration {
	return time.Duration(d)
}

func parseDuration(s string, bareUnit time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * bareUnit, nil
	}

	if days, ok := strings.CutSuffix(s, "d"); ok {
		if n, err := strconv.ParseInt(days, 10, 64); err == nil {
			return time.Duration(n) * 24 * time.Hour, nil
		}
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return v, nil
}
