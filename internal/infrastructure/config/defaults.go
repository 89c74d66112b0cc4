package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "mythic-mines.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "mines"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "mythic_mines"
	}
	if cfg.Database.SaveSlot == "" {
		cfg.Database.SaveSlot = "default"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Simulation defaults
	if cfg.Simulation.TickInterval == 0 {
		cfg.Simulation.TickInterval = 1 * time.Second
	}
	if cfg.Simulation.LoadRate == 0 {
		cfg.Simulation.LoadRate = 40
	}
	if cfg.Simulation.TravelTimePerDepth == 0 {
		cfg.Simulation.TravelTimePerDepth = 10
	}
	if cfg.Simulation.FleetSize == 0 {
		cfg.Simulation.FleetSize = 3
	}
	if cfg.Simulation.UnitCapacity == 0 {
		cfg.Simulation.UnitCapacity = 100
	}
	if cfg.Simulation.CollectPolicy == "" {
		cfg.Simulation.CollectPolicy = "truncate"
	}
	if cfg.Simulation.SnapshotEveryTicks == 0 {
		cfg.Simulation.SnapshotEveryTicks = 60
	}
	if cfg.Simulation.ProgressionLevel == 0 {
		cfg.Simulation.ProgressionLevel = 1
	}
	if cfg.Simulation.RequiredRole == "" {
		cfg.Simulation.RequiredRole = "miner"
	}

	// Storage defaults
	if cfg.Storage.BaseCapacity == 0 {
		cfg.Storage.BaseCapacity = 1000
	}

	// Daemon defaults
	if cfg.Daemon.SocketPath == "" {
		cfg.Daemon.SocketPath = "/tmp/mythic-mines-daemon.sock"
	}
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/mythic-mines-daemon.pid"
	}
	if cfg.Daemon.ShutdownTimeout == 0 {
		cfg.Daemon.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Daemon.RateLimit.Requests == 0 {
		cfg.Daemon.RateLimit.Requests = 20
	}
	if cfg.Daemon.RateLimit.Burst == 0 {
		cfg.Daemon.RateLimit.Burst = 40
	}

	// Metrics defaults
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.PollInterval == 0 {
		cfg.Metrics.PollInterval = 5 * time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}
