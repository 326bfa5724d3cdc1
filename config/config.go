package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete trading run configuration
type Config struct {
	Trade   TradeConfig   `json:"trade" yaml:"trade"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// TradeConfig contains the control loop parameters
type TradeConfig struct {
	Instrument    string `json:"instrument" yaml:"instrument"`
	PollInterval  string `json:"poll_interval" yaml:"poll_interval"` // e.g., "15s", "1m"
	MaxIterations int    `json:"max_iterations" yaml:"max_iterations"`
	InventoryFile string `json:"inventory_file" yaml:"inventory_file"`
}

// ParsePollInterval converts the poll interval string to time.Duration
func (tc TradeConfig) ParsePollInterval() (time.Duration, error) {
	if tc.PollInterval == "" {
		return 15 * time.Second, nil
	}
	return time.ParseDuration(tc.PollInterval)
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// MetricsConfig contains the Prometheus endpoint parameters
type MetricsConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"` // empty disables the endpoint
}

// LoadFromFile loads configuration from a file (JSON or YAML based on content)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Trade.Instrument == "" {
		return fmt.Errorf("trade.instrument is required")
	}
	if _, err := c.Trade.ParsePollInterval(); err != nil {
		return fmt.Errorf("trade.poll_interval: %w", err)
	}
	if c.Trade.MaxIterations < 0 {
		return fmt.Errorf("trade.max_iterations must not be negative")
	}
	if c.Trade.InventoryFile == "" {
		return fmt.Errorf("trade.inventory_file is required")
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv", "sqlite":
		if c.Journal.Path == "" {
			return fmt.Errorf("journal.path required for %s type", c.Journal.Type)
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Trade: TradeConfig{
			Instrument:    "EUR_USD",
			PollInterval:  "15s",
			MaxIterations: 10000,
			InventoryFile: "./inventory.json",
		},
		Journal: JournalConfig{
			Type: "none",
		},
	}
}
