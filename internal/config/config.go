// Package config loads filescope settings from an optional TOML file in the
// working directory. A missing file yields the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// FileName is the config file looked up in the working directory
	FileName = ".filescope.toml"

	// DefaultDBPath matches the index file used by earlier releases
	DefaultDBPath = "file_structure.db"
	// DefaultBatchSize is the number of rows committed per transaction
	DefaultBatchSize = 100
	// MaxBatchSize bounds batch_size; one batch is embedded in one provider call
	MaxBatchSize = 100
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the complete filescope configuration.
type Config struct {
	// DBPath is the SQLite index file
	DBPath string `toml:"db_path"`
	// Root is the directory the scanner walks
	Root string `toml:"root"`
	// BatchSize is the number of indexed files per insert transaction
	BatchSize int `toml:"batch_size"`
	// LogPath receives the structured log; the terminal belongs to the UI
	LogPath string `toml:"log_path"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `toml:"log_level"`

	Embedder EmbedderConfig `toml:"embedder"`
	Ignore   IgnoreConfig   `toml:"ignore"`
}

// EmbedderConfig selects and configures the embedding provider.
type EmbedderConfig struct {
	// Provider is "local", "ollama", "openai" or "jina"
	Provider string `toml:"provider"`
	// Model overrides the provider's default model
	Model string `toml:"model"`
	// APIKey is required by the openai and jina providers
	APIKey string `toml:"api_key"`
	// BaseURL overrides the provider endpoint (ollama: http://127.0.0.1:11434)
	BaseURL string `toml:"base_url"`
	// CacheSize is the number of embeddings kept in memory
	CacheSize int `toml:"cache_size"`
}

// IgnoreConfig adds exclusions on top of the built-in ignore policy.
type IgnoreConfig struct {
	// Exclude holds doublestar globs matched against slash-separated relative paths
	Exclude []string `toml:"exclude"`
	// RespectGitignore also skips paths matched by the root .gitignore
	RespectGitignore bool `toml:"respect_gitignore"`
}

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		DBPath:    DefaultDBPath,
		Root:      ".",
		BatchSize: DefaultBatchSize,
		LogPath:   "filescope.log",
		LogLevel:  "info",
		Embedder: EmbedderConfig{
			Provider:  "local",
			CacheSize: 10000,
		},
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	cfg.Embedder.Provider = strings.ToLower(cfg.Embedder.Provider)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("%w: db_path is empty", ErrInvalidConfig)
	}
	if c.Root == "" {
		return fmt.Errorf("%w: root is empty", ErrInvalidConfig)
	}
	if c.BatchSize < 1 || c.BatchSize > MaxBatchSize {
		return fmt.Errorf("%w: batch_size %d outside 1..%d", ErrInvalidConfig, c.BatchSize, MaxBatchSize)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}

	switch c.Embedder.Provider {
	case "local", "ollama":
	case "openai", "jina":
		if c.Embedder.APIKey == "" {
			return fmt.Errorf("%w: embedder %s requires api_key", ErrInvalidConfig, c.Embedder.Provider)
		}
	default:
		return fmt.Errorf("%w: unknown embedder provider %q", ErrInvalidConfig, c.Embedder.Provider)
	}

	return nil
}
