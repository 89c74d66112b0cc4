package config

import (
	"fmt"
	"strings"
	"time"
)

// DatabaseConfig holds where world saves and the event journal are stored
type DatabaseConfig struct {
	// Connection type: "postgres" or "sqlite"
	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`

	// Full postgres connection URL, takes precedence over the individual fields.
	// Also read from DATABASE_URL.
	URL string `mapstructure:"url"`

	// PostgreSQL connection fields (used if URL is empty)
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	// SQLite database file; empty or ":memory:" keeps the world in memory only
	Path string `mapstructure:"path"`

	// World slot the daemon resumes from and saves to. Several worlds can
	// share one database under different slots.
	SaveSlot string `mapstructure:"save_slot" validate:"required,max=64"`

	// Connection pool settings (postgres only)
	Pool PoolConfig `mapstructure:"pool"`
}

// PoolConfig holds connection pool configuration
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" validate:"min=1"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// InMemory reports whether saves vanish with the daemon process
func (c DatabaseConfig) InMemory() bool {
	return c.Type == "sqlite" && (c.Path == "" || c.Path == ":memory:")
}

// DSN returns the driver connection string.
// A file-backed sqlite database waits on the lock instead of failing while
// an autosave is in flight.
func (c DatabaseConfig) DSN() string {
	switch c.Type {
	case "postgres":
		if c.URL != "" {
			return c.URL
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	case "sqlite":
		if c.InMemory() {
			return ":memory:"
		}
		if strings.Contains(c.Path, "?") {
			return c.Path
		}
		return c.Path + "?_busy_timeout=5000"
	}
	return ""
}
