package config

import (
	"net"
	"strconv"
	"time"
)

// MetricsConfig controls the Prometheus endpoint for tick, stock and command metrics
type MetricsConfig struct {
	// Enabled turns on collection and the HTTP endpoint
	Enabled bool `mapstructure:"enabled"`

	// Port for the HTTP metrics server
	Port int `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`

	// Host to bind the metrics HTTP server (default: localhost)
	Host string `mapstructure:"host"`

	// Path for the metrics endpoint (default: /metrics)
	Path string `mapstructure:"path" validate:"omitempty,startswith=/"`

	// How often reservoir, stock and fleet gauges are refreshed.
	// Counters are updated on every tick regardless.
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"min=0"`
}

// Address returns host:port for the metrics listener
func (c MetricsConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
