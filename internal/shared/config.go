package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Catalog  CatalogConfig  `toml:"catalog"`
	Storage  StorageConfig  `toml:"storage"`
	Database DatabaseConfig `toml:"database"`
	UI       UIConfig       `toml:"ui"`
}

// CatalogConfig contains settings for the OMDb movie catalog.
type CatalogConfig struct {
	BaseURL        string  `toml:"base_url"`
	APIKey         string  `toml:"api_key"`
	RateLimit      float64 `toml:"rate_limit"`
	DebounceMS     int     `toml:"debounce_ms"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Debounce returns the configured search debounce as a [time.Duration].
func (c CatalogConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Timeout returns the per-request timeout. Zero means no timeout.
func (c CatalogConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StorageConfig selects where the watched list is persisted.
type StorageConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
	Key    string `toml:"key"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	MaxOpenConns int `toml:"max_open_conns"`
	MaxIdleConns int `toml:"max_idle_conns"`
}

// UIConfig contains terminal UI defaults.
type UIConfig struct {
	ResultsOpen  bool   `toml:"results_open"`
	WatchedOpen  bool   `toml:"watched_open"`
	InitialQuery string `toml:"initial_query"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
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
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig encodes config as TOML and writes it to path.
func SaveConfig(path string, config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Validate reports the first setting that would make the application unusable.
func (c *Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("%w: catalog.base_url is empty", ErrInvalidConfig)
	}
	if c.Catalog.RateLimit < 0 {
		return fmt.Errorf("%w: catalog.rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.Catalog.DebounceMS < 0 || c.Catalog.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: catalog durations must not be negative", ErrInvalidConfig)
	}

	switch c.Storage.Driver {
	case StorageSQLite, StorageFile:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if c.Storage.Path == "" {
		return fmt.Errorf("%w: storage.path is empty", ErrInvalidConfig)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("%w: storage.key is empty", ErrInvalidConfig)
	}
	return nil
}

// HasAPIKey reports whether a real catalog key was configured.
func (c *Config) HasAPIKey() bool {
	return c.Catalog.APIKey != "" && c.Catalog.APIKey != "your_omdb_api_key"
}
