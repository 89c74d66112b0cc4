package config

import "time"

// DaemonConfig holds daemon service configuration
type DaemonConfig struct {
	// Unix socket path for IPC
	SocketPath string `mapstructure:"socket_path" validate:"required"`

	// PID file location
	PIDFile string `mapstructure:"pid_file" validate:"required"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`

	// Command rate limiting
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// host:port for the websocket tick feed (empty disables it)
	StreamAddress string `mapstructure:"stream_address" validate:"omitempty,hostname_port"`
}

// RateLimitConfig holds token bucket settings for daemon commands
type RateLimitConfig struct {
	// Requests per second
	Requests float64 `mapstructure:"requests" validate:"gt=0"`

	// Maximum burst size
	Burst int `mapstructure:"burst" validate:"min=1"`
}
