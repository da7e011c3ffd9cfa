package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Session  SessionConfig  `toml:"session"`
	Database DatabaseConfig `toml:"database"`
}

// APIConfig selects which backend the client talks to.
//
// Environment names map to base URLs; an explicit BaseURL overrides the map.
type APIConfig struct {
	Environment string            `toml:"environment"`
	BaseURL     string            `toml:"base_url"`
	URLs        map[string]string `toml:"urls"`
}

// SessionConfig tunes the session core: the current-user cache, the request
// throttle and the loading watchdog. Zero values fall back to defaults.
type SessionConfig struct {
	UserCacheTTLSeconds  int `toml:"user_cache_ttl_seconds"`
	UserThrottleSeconds  int `toml:"user_throttle_seconds"`
	WatchdogSeconds      int `toml:"watchdog_seconds"`
	GuardTimeoutSeconds  int `toml:"guard_timeout_seconds"`
	RequestTimeoutSecond int `toml:"request_timeout_seconds"`
}

// DatabaseConfig contains local catalog cache settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// Resolve returns the backend base URL for the configured environment.
func (a APIConfig) Resolve() string {
	if a.BaseURL != "" {
		return a.BaseURL
	}
	if url, ok := a.URLs[a.Environment]; ok && url != "" {
		return url
	}
	return "http://localhost:8000/api"
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
