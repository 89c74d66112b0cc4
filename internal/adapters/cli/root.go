package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/mythic-mines/internal/infrastructure/config"
)

const defaultSocketPath = "/tmp/mythic-mines-daemon.sock"

var (
	// Global flags
	socketPath   string
	outputFormat string
	verbose      bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mines",
		Short: "Mythic Mines CLI - Operate the mining daemon",
		Long: `Mythic Mines CLI drives a running mines daemon.
The CLI communicates with the daemon via Unix socket.

Examples:
  mines status
  mines workers hire --name Durin --job miner --efficiency 80
  mines assign stone 0 durin-1a2b3c4d
  mines dispatch stone
  mines tick 30
  mines collect
  mines snapshot export ./world.mms`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "",
		"Path to daemon Unix socket (default from user config, MM_SOCKET or "+defaultSocketPath+")")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "",
		"Output format: table or json (default from user config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewStatusCommand())
	rootCmd.AddCommand(NewFieldCommand())
	rootCmd.AddCommand(NewTickCommand())
	rootCmd.AddCommand(NewLevelCommand())
	rootCmd.AddCommand(NewAssignCommand())
	rootCmd.AddCommand(NewRemoveCommand())
	rootCmd.AddCommand(NewDispatchCommand())
	rootCmd.AddCommand(NewCollectCommand())
	rootCmd.AddCommand(NewWorkersCommand())
	rootCmd.AddCommand(NewSaveCommand())
	rootCmd.AddCommand(NewLoadCommand())
	rootCmd.AddCommand(NewSnapshotCommand())
	rootCmd.AddCommand(NewEventsCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// resolveSocketPath picks the socket: --socket flag > MM_SOCKET > user config > default
func resolveSocketPath() string {
	if socketPath != "" {
		return socketPath
	}
	if path := os.Getenv("MM_SOCKET"); path != "" {
		return path
	}
	if userCfg := loadUserConfig(); userCfg != nil && userCfg.SocketPath != "" {
		return userCfg.SocketPath
	}
	return defaultSocketPath
}

// resolveOutputFormat picks the format: --output flag > user config > table
func resolveOutputFormat() string {
	if outputFormat != "" {
		return outputFormat
	}
	if userCfg := loadUserConfig(); userCfg != nil && userCfg.OutputFormat != "" {
		return userCfg.OutputFormat
	}
	return "table"
}

func loadUserConfig() *config.UserConfig {
	handler, err := config.NewUserConfigHandler()
	if err != nil {
		return nil
	}
	userCfg, err := handler.Load()
	if err != nil {
		return nil
	}
	return userCfg
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}
