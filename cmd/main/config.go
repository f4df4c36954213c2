package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/CTAG07/wordchain/pkg/markov"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds the settings for the HTTP API and the corpus store.
type ServerConfig struct {
	ApiAddr      string `json:"api_addr" yaml:"api_addr"`
	LogLevel     string `json:"log_level" yaml:"log_level"`
	DatabasePath string `json:"database_path" yaml:"database_path"`
}

// GenerationConfig holds the defaults applied to generation requests that do
// not set them explicitly.
type GenerationConfig struct {
	DefaultPolicy    string `json:"default_policy" yaml:"default_policy"`
	DefaultLength    int    `json:"default_length" yaml:"default_length"`
	RandSeed         uint64 `json:"rand_seed" yaml:"rand_seed"` // 0 means unseeded
	SeedInBudget     bool   `json:"seed_in_budget" yaml:"seed_in_budget"`
	DropFinalRestart bool   `json:"drop_final_restart" yaml:"drop_final_restart"`
	PruneMinFreq     int    `json:"prune_min_freq" yaml:"prune_min_freq"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Server     *ServerConfig     `json:"server_config" yaml:"server_config"`
	Generation *GenerationConfig `json:"generation_config" yaml:"generation_config"`
}

// DefaultServerConfig creates a server configuration with default values.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ApiAddr:      ":7280",
		LogLevel:     "info",
		DatabasePath: "./data/wordchain.db?_journal_mode=WAL&_busy_timeout=5000",
	}
}

// DefaultGenerationConfig creates a generation configuration with default values.
func DefaultGenerationConfig() *GenerationConfig {
	return &GenerationConfig{
		DefaultPolicy: markov.PolicyRandom.String(),
		DefaultLength: 20,
	}
}

// DefaultConfig returns a full configuration with every section at its defaults.
func DefaultConfig() *Config {
	return &Config{
		Server:     DefaultServerConfig(),
		Generation: DefaultGenerationConfig(),
	}
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadConfig reads the configuration from the file at the given path, parsed
// as YAML for .yaml/.yml paths and as JSON otherwise.
// If the file doesn't exist, defaults are returned, and written to path when
// writeDefaults is set.
func LoadConfig(path string, writeDefaults bool) (*Config, error) {
	config := DefaultConfig()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if !writeDefaults {
				return config, nil
			}
			if err = SaveConfig(path, config); err != nil {
				// The binary can still run with defaults.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(file, config)
	} else {
		err = json.Unmarshal(file, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Sections missing from the file fall back to defaults.
	if config.Server == nil {
		config.Server = DefaultServerConfig()
	}
	if config.Generation == nil {
		config.Generation = DefaultGenerationConfig()
	}

	if _, err = markov.ParsePolicy(config.Generation.DefaultPolicy); err != nil {
		return nil, fmt.Errorf("invalid generation_config.default_policy: %w", err)
	}
	if config.Generation.DefaultLength < 0 {
		return nil, fmt.Errorf("invalid generation_config.default_length: %w", markov.ErrNegativeLength)
	}

	return config, nil
}

// SaveConfig atomically writes config to path in the format its extension selects.
func SaveConfig(path string, config *Config) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// parseLogLevel maps a configured level name to a slog level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// generateOptions converts the generation config into options for a walk.
func (c *GenerationConfig) generateOptions() []markov.GenerateOption {
	opts := []markov.GenerateOption{markov.WithSeedInBudget(c.SeedInBudget)}
	if c.DropFinalRestart {
		opts = append(opts, markov.WithFinalRestart(markov.DropFinalRestart))
	}
	if c.RandSeed != 0 {
		opts = append(opts, markov.WithRand(newSeededRand(c.RandSeed)))
	}
	return opts
}
