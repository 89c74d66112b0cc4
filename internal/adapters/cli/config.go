package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/mythic-mines/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage Mythic Mines configuration settings.

Daemon configuration is loaded from multiple sources with priority:
1. Environment variables (MM_* prefix)
2. Config file (config.yaml)
3. Default values

CLI preferences are stored in ~/.mythic-mines/config.json

Examples:
  mines config show
  mines config set-socket /run/mines.sock
  mines config set-output json`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetSocketCommand())
	cmd.AddCommand(newConfigSetOutputCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load config: %v\n", err)
				fmt.Fprintln(out, "Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Fprintf(out, "Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			fmt.Fprintln(out, "Mythic Mines Configuration")
			fmt.Fprintln(out, "==========================")

			fmt.Fprintln(out, "CLI Preferences:")
			fmt.Fprintf(out, "  Config file:      %s\n", userConfigHandler.GetConfigPath())
			fmt.Fprintf(out, "  Socket:           %s\n", resolveSocketPath())
			fmt.Fprintf(out, "  Output:           %s\n", orNotSet(userCfg.OutputFormat))

			fmt.Fprintln(out, "\nSimulation:")
			fmt.Fprintf(out, "  Tick Interval:    %s\n", cfg.Simulation.TickInterval)
			fmt.Fprintf(out, "  Fleet:            %d units x %s\n", cfg.Simulation.FleetSize, formatAmount(cfg.Simulation.UnitCapacity))
			fmt.Fprintf(out, "  Load Rate:        %s/tick\n", formatAmount(cfg.Simulation.LoadRate))
			fmt.Fprintf(out, "  Travel:           %d ticks per depth\n", cfg.Simulation.TravelTimePerDepth)
			fmt.Fprintf(out, "  Collect Policy:   %s\n", cfg.Simulation.CollectPolicy)
			fmt.Fprintf(out, "  Catalog:          %s\n", orNotSet(cfg.Simulation.CatalogPath))
			fmt.Fprintf(out, "  Autosave:         every %d ticks\n", cfg.Simulation.SnapshotEveryTicks)

			fmt.Fprintln(out, "\nStorage:")
			fmt.Fprintf(out, "  Base Capacity:    %s\n", formatAmount(cfg.Storage.BaseCapacity))
			for id, capacity := range cfg.Storage.PerResource {
				fmt.Fprintf(out, "  %-17s %s\n", id+":", formatAmount(capacity))
			}

			fmt.Fprintln(out, "\nDatabase:")
			fmt.Fprintf(out, "  Type:             %s\n", cfg.Database.Type)
			if cfg.Database.Type == "sqlite" {
				fmt.Fprintf(out, "  Path:             %s\n", cfg.Database.Path)
			} else if cfg.Database.URL != "" {
				fmt.Fprintln(out, "  URL:              (set)")
			} else {
				fmt.Fprintf(out, "  Host:             %s:%d\n", cfg.Database.Host, cfg.Database.Port)
				fmt.Fprintf(out, "  Database:         %s\n", cfg.Database.Name)
			}

			fmt.Fprintln(out, "\nDaemon:")
			fmt.Fprintf(out, "  Socket Path:      %s\n", cfg.Daemon.SocketPath)
			fmt.Fprintf(out, "  PID File:         %s\n", cfg.Daemon.PIDFile)
			fmt.Fprintf(out, "  Rate Limit:       %s req/s (burst: %d)\n",
				formatAmount(cfg.Daemon.RateLimit.Requests), cfg.Daemon.RateLimit.Burst)
			fmt.Fprintf(out, "  Stream:           %s\n", orNotSet(cfg.Daemon.StreamAddress))

			fmt.Fprintln(out, "\nLogging:")
			fmt.Fprintf(out, "  Level:            %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "  Format:           %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file")

	return cmd
}

func newConfigSetSocketCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-socket <path>",
		Short: "Set the default daemon socket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := handler.SetSocketPath(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Default socket set to %s\n", args[0])
			return nil
		},
	}
}

func newConfigSetOutputCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-output <table|json>",
		Short: "Set the default output format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}
			if err := handler.SetOutputFormat(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Default output set to %s\n", args[0])
			return nil
		},
	}
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
