// Package config loads application configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings for the portal.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	DB   Database `envPrefix:"DB_"`
	Auth Auth     `envPrefix:"AUTH_"`
}

// Database holds PostgreSQL connection settings.
type Database struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD" envDefault:"postgres"`
	Name     string `env:"NAME" envDefault:"congress"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

// Auth holds session-token and admin-bootstrap settings.
// AdminEmail/AdminPassword, when both set, seed an administrator
// account at startup so a fresh deployment is usable immediately.
type Auth struct {
	JWTSecret     string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTLHours int    `env:"TOKEN_TTL_HOURS" envDefault:"12"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// DSN builds a libpq-compatible connection string.
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
