// Package config loads and saves the melodine configuration file.
package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the on-disk application configuration.
type Config struct {
	// Locale pair sent with every catalog request.
	HL string `toml:"hl"`
	GL string `toml:"gl"`

	// VisitorData is the opaque visitor token; empty means anonymous.
	VisitorData string `toml:"visitor_data"`

	// Cookie enables authenticated requests when set.
	Cookie string `toml:"cookie"`

	// ProxyURL routes catalog traffic through a proxy when set.
	ProxyURL string `toml:"proxy_url"`

	// PipedURL selects the stream-extraction instance.
	PipedURL string `toml:"piped_url"`

	// RequestsPerSecond caps outgoing catalog calls; 0 disables the limit.
	RequestsPerSecond float64 `toml:"requests_per_second"`

	LogLevel string `toml:"log_level"`
}

// Load loads the configuration from a TOML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to a TOML file.
func Save(cfg *Config, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		HL:       "en",
		GL:       "US",
		LogLevel: "info",
	}
}
