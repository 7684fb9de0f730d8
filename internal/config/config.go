// Package config reads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const secretKeyMinLength = 32

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

var (
	ErrSecretKeyMissing  = errors.New("SECRET_KEY is required")
	ErrSecretKeyInsecure = errors.New("SECRET_KEY uses an example placeholder")
	ErrSecretKeyTooShort = fmt.Errorf("SECRET_KEY must be at least %d characters", secretKeyMinLength)
)

type Config struct {
	Port              string        `env:"PORT"                envDefault:"8080"`
	DBPath            string        `env:"DB_PATH"             envDefault:"data/onboardly.db"`
	SecretKey         string        `env:"SECRET_KEY"`
	Timezone          string        `env:"TZ"                  envDefault:"UTC"`
	DefaultLanguage   string        `env:"DEFAULT_LANGUAGE"    envDefault:"en"`
	CookieSecure      bool          `env:"COOKIE_SECURE"       envDefault:"false"`
	AdminUser         string        `env:"ADMIN_USER"          envDefault:"admin"`
	AdminPasswordHash string        `env:"ADMIN_PASSWORD_HASH"`
	RedisURL          string        `env:"REDIS_URL"`
	CacheTTL          time.Duration `env:"CACHE_TTL"           envDefault:"30s"`
	LogLevel          string        `env:"LOG_LEVEL"           envDefault:"info"`
	LogFormat         string        `env:"LOG_FORMAT"          envDefault:"text"`
	TemplatesDir      string        `env:"TEMPLATES_DIR"       envDefault:"internal/templates"`
	LocalesDir        string        `env:"LOCALES_DIR"`
	StaticDir         string        `env:"STATIC_DIR"          envDefault:"web/static"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the server configuration and rejects values the server
// cannot start with.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.SecretKey = strings.TrimSpace(cfg.SecretKey)
	if err := ValidateSecretKey(cfg.SecretKey); err != nil {
		return Config{}, err
	}
	port, err := ResolvePort(cfg.Port)
	if err != nil {
		return Config{}, err
	}
	cfg.Port = port
	return cfg, nil
}

func ValidateSecretKey(secret string) error {
	if secret == "" {
		return ErrSecretKeyMissing
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return ErrSecretKeyInsecure
	}
	if len(secret) < secretKeyMinLength {
		return ErrSecretKeyTooShort
	}
	return nil
}

func ResolvePort(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "8080", nil
	}
	port, err := strconv.Atoi(value)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("invalid PORT %q", raw)
	}
	return strconv.Itoa(port), nil
}

// Location resolves TZ, falling back to UTC for unknown zones.
func (cfg Config) Location() (*time.Location, error) {
	if strings.TrimSpace(cfg.Timezone) == "" {
		return time.UTC, nil
	}
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.UTC, fmt.Errorf("invalid TZ %q: %w", cfg.Timezone, err)
	}
	return location, nil
}

// AdminAuthEnabled reports whether the admin pages require basic auth.
func (cfg Config) AdminAuthEnabled() bool {
	return strings.TrimSpace(cfg.AdminPasswordHash) != ""
}
