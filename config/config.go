// Package config handles application configuration.
//
// Configuration is split into two categories:
//   - Naming rules: per-network protocol constants, must match across all nodes
//   - Node settings: runtime configuration, can vary per node
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// NetworkType identifies the network profile.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
	Regtest NetworkType = "regtest"
)

// Config holds node-specific runtime configuration.
// These settings can vary between nodes without breaking consensus.
type Config struct {
	// Core
	Network NetworkType `conf:"network"`
	DataDir string      `conf:"datadir"`

	// Metrics endpoint
	Metrics MetricsConfig

	// Logging
	Log LogConfig
}

// MetricsConfig holds the prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `conf:"metrics.enabled"`
	Addr    string `conf:"metrics.addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// Default returns the default node configuration for the given network.
func Default(network NetworkType) *Config {
	cfg := &Config{
		Network: network,
		DataDir: DefaultDataDir(),
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    "127.0.0.1:9430",
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
	if network == Testnet {
		cfg.Metrics.Addr = "127.0.0.1:9431"
	}
	return cfg
}

// DefaultDataDir returns the platform-specific default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "knames-data"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "KlingnetNames")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "KlingnetNames")
	default:
		return filepath.Join(home, ".klingnet-names")
	}
}

// NetworkDataDir returns the per-network subdirectory of the data dir.
func (c *Config) NetworkDataDir() string {
	if c.Network == Mainnet {
		return c.DataDir
	}
	return filepath.Join(c.DataDir, string(c.Network))
}
