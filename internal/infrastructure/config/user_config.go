package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// UserConfig represents CLI preferences stored in ~/.mythic-mines/config.json
type UserConfig struct {
	// Daemon socket to use when --socket is not given
	SocketPath string `json:"socket_path,omitempty"`

	// Output format for CLI queries: table or json
	OutputFormat string `json:"output_format,omitempty"`
}

// UserConfigHandler manages loading and saving user configuration
type UserConfigHandler struct {
	configPath string
}

// NewUserConfigHandler creates a handler for the file in the user's home directory
func NewUserConfigHandler() (*UserConfigHandler, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return NewUserConfigHandlerAt(filepath.Join(homeDir, ".mythic-mines"))
}

// NewUserConfigHandlerAt creates a handler for config.json inside configDir
func NewUserConfigHandlerAt(configDir string) (*UserConfigHandler, error) {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return &UserConfigHandler{
		configPath: filepath.Join(configDir, "config.json"),
	}, nil
}

// Load reads the user config from disk
func (h *UserConfigHandler) Load() (*UserConfig, error) {
	if _, err := os.Stat(h.configPath); os.IsNotExist(err) {
		return &UserConfig{}, nil
	}

	data, err := os.ReadFile(h.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	var config UserConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}

	return &config, nil
}

// Save writes the user config to disk
func (h *UserConfigHandler) Save(config *UserConfig) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(h.configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}

	return nil
}

// SetSocketPath sets the default daemon socket
func (h *UserConfigHandler) SetSocketPath(path string) error {
	config, err := h.Load()
	if err != nil {
		return err
	}

	config.SocketPath = path
	return h.Save(config)
}

// SetOutputFormat sets the default CLI output format
func (h *UserConfigHandler) SetOutputFormat(format string) error {
	if format != "table" && format != "json" {
		return fmt.Errorf("unknown output format %q (expected table or json)", format)
	}

	config, err := h.Load()
	if err != nil {
		return err
	}

	config.OutputFormat = format
	return h.Save(config)
}

// GetConfigPath returns the path to the user config file
func (h *UserConfigHandler) GetConfigPath() string {
	return h.configPath
}
