// Package config provides configuration loading for roam.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// ErrNoAPIKey is returned when no Gemini API key can be resolved from the
// config file or the environment. Orchestration must not attempt network
// calls in that state.
var ErrNoAPIKey = errors.New("config: no Gemini API key configured")

// APIKeyEnvVar is the environment variable consulted when the config file
// does not carry a key.
const APIKeyEnvVar = "GEMINI_API_KEY"

// Defaults applied by the getter methods when a field is unset.
const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultCurrency    = "INR"
	DefaultCostCeiling = 500
	DefaultMaxAttempts = 5
	DefaultLogLevel    = "info"
	DefaultListenAddr  = "127.0.0.1:8321"
)

// Config represents the roam configuration file.
type Config struct {
	// APIKey is the Gemini API key. The GEMINI_API_KEY environment
	// variable takes precedence when set.
	APIKey string `toml:"api-key"`

	// Model is the Gemini model used for both structured generation and
	// chat.
	Model string `toml:"model"`

	// Currency is the unit all cost estimates are requested in.
	Currency string `toml:"currency"`

	// CostCeiling is the per-activity budget ceiling, in Currency units,
	// the planner persona is instructed to respect.
	CostCeiling int `toml:"activity-cost-ceiling"`

	// MaxAttempts bounds the structured-generation retry loop.
	MaxAttempts int `toml:"max-attempts"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log-level"`

	// ListenAddr is the bind address for `roam serve`.
	ListenAddr string `toml:"listen-addr"`
}

// Path returns the path to the roam config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "roam", "config.toml"), nil
}

// Load loads the roam configuration. A `.env` file in the working
// directory is applied first (ignored when absent), then the TOML config.
// Returns a nil Config and nil error if the config file doesn't exist;
// the nil-safe getters below still yield defaults in that case.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads the config from a specific path.
// Returns nil config and nil error if the file doesn't exist.
func LoadFromPath(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

// ResolveAPIKey returns the Gemini API key, preferring the environment
// over the config file. Returns ErrNoAPIKey when neither is set.
func (c *Config) ResolveAPIKey() (string, error) {
	if key := os.Getenv(APIKeyEnvVar); key != "" {
		return key, nil
	}
	if c != nil && c.APIKey != "" {
		return c.APIKey, nil
	}
	return "", ErrNoAPIKey
}

// GetModel returns the configured model or the default.
func (c *Config) GetModel() string {
	if c != nil && c.Model != "" {
		return c.Model
	}
	return DefaultModel
}

// GetCurrency returns the configured cost currency or the default.
func (c *Config) GetCurrency() string {
	if c != nil && c.Currency != "" {
		return c.Currency
	}
	return DefaultCurrency
}

// GetCostCeiling returns the per-activity cost ceiling or the default.
func (c *Config) GetCostCeiling() int {
	if c != nil && c.CostCeiling > 0 {
		return c.CostCeiling
	}
	return DefaultCostCeiling
}

// GetMaxAttempts returns the retry budget for structured generation.
func (c *Config) GetMaxAttempts() int {
	if c != nil && c.MaxAttempts > 0 {
		return c.MaxAttempts
	}
	return DefaultMaxAttempts
}

// GetLogLevel returns the configured log level or the default.
func (c *Config) GetLogLevel() string {
	if c != nil && c.LogLevel != "" {
		return c.LogLevel
	}
	return DefaultLogLevel
}

// GetListenAddr returns the configured serve address or the default.
func (c *Config) GetListenAddr() string {
	if c != nil && c.ListenAddr != "" {
		return c.ListenAddr
	}
	return DefaultListenAddr
}
