package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mr-tron/base58"
)

const (
	configSubdir   = "config"
	configFileName = "signetd_config.json"
)

//go:embed default_config.json
var defaultConfigJSON []byte

// Default returns the embedded default configuration.
func Default() (Config, error) {
	var cfg Config
	if err := json.Unmarshal(defaultConfigJSON, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal embedded default config: %w", err)
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	// Validate log level
	if cfg.LogLevel < 0 || cfg.LogLevel > 5 {
		return fmt.Errorf("log level must be between 0 and 5")
	}

	// Validate log format
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("log format must be 'json' or 'console'")
	}

	// Set defaults for storage
	if cfg.DatabaseFile == "" {
		cfg.DatabaseFile = "signet.db"
	}

	// Set defaults for the protocol instance
	if cfg.NetworkID == "" {
		cfg.NetworkID = "solana:localnet"
	}

	// The admin identity, when present, must be a valid 32-byte base58 key.
	if cfg.AdminAddress != "" {
		raw, err := base58.Decode(cfg.AdminAddress)
		if err != nil {
			return fmt.Errorf("admin address is not valid base58: %w", err)
		}
		if len(raw) != 32 {
			return fmt.Errorf("admin address must decode to 32 bytes, got %d", len(raw))
		}
	}

	// Set defaults for query server
	if cfg.QueryServerPort == 0 {
		cfg.QueryServerPort = 8080
	}

	// Set defaults for event retention
	if cfg.EventCleanupIntervalSeconds == 0 {
		cfg.EventCleanupIntervalSeconds = 3600
	}
	if cfg.EventRetentionPeriodSeconds == 0 {
		cfg.EventRetentionPeriodSeconds = 86400
	}

	return nil
}

// Save writes the given config to <NodeHome>/config/signetd_config.json.
func Save(cfg *Config, basePath string) error {
	if err := validateConfig(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	configDir := filepath.Join(basePath, configSubdir)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configDir, configFileName)
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configFile, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Load reads, validates, and returns the config from
// <basePath>/config/signetd_config.json.
func Load(basePath string) (Config, error) {
	configFile := filepath.Join(basePath, configSubdir, configFileName)
	data, err := os.ReadFile(filepath.Clean(configFile))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
