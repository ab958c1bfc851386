package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/marmos91/docroots/pkg/document"
	"github.com/spf13/viper"
)

// Config represents the complete docroots configuration.
//
// This structure captures all configurable aspects of the provider:
//   - Logging configuration
//   - The set of roots exposed as document trees
//   - Provider behaviour (close-error policy, timestamp sanity threshold)
//   - The write-completion journal backend
//
// Configuration sources (in order of precedence):
//  1. Environment variables (DOCROOTS_*)
//  2. Configuration file (YAML, TOML or JSON), local or s3://
//  3. Default values (lowest priority)
//
// A missing configuration file is not an error: it yields the defaults,
// which contain zero roots.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Roots defines the mount points exposed to callers
	Roots []RootConfig `mapstructure:"roots" yaml:"roots" validate:"dive"`

	// Provider contains document tree settings
	Provider ProviderConfig `mapstructure:"provider" yaml:"provider"`

	// Journal selects where write completions are recorded
	Journal JournalConfig `mapstructure:"journal" yaml:"journal"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" yaml:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" yaml:"format" validate:"required,oneof=text json"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" yaml:"output" validate:"required"`
}

// RootConfig defines a single root.
type RootConfig struct {
	// Tag is the unique root identifier used as document id prefix.
	// It must not contain ':'.
	Tag string `mapstructure:"tag" yaml:"tag" validate:"required,excludesall=:"`

	// Path is the base directory. "~" is expanded to the home directory.
	Path string `mapstructure:"path" yaml:"path" validate:"required"`

	// Title is the display name (defaults to Tag)
	Title string `mapstructure:"title" yaml:"title,omitempty"`

	// Icon is an opaque icon reference passed through to callers
	Icon string `mapstructure:"icon" yaml:"icon,omitempty"`

	// ReadOnly disables writes and hides write capabilities
	ReadOnly bool `mapstructure:"read_only" yaml:"read_only"`
}

// ProviderConfig contains document tree settings.
type ProviderConfig struct {
	// PropagateCloseErrors returns write-handle close failures to the caller
	// instead of only logging them
	PropagateCloseErrors bool `mapstructure:"propagate_close_errors" yaml:"propagate_close_errors"`

	// MtimeThreshold hides modification times not after epoch + threshold
	MtimeThreshold time.Duration `mapstructure:"mtime_threshold" yaml:"mtime_threshold" validate:"gte=0"`
}

// JournalConfig specifies the write-completion journal.
//
// The Type field determines which implementation is used.
// Only the corresponding type-specific configuration section is used.
type JournalConfig struct {
	// Type specifies which journal implementation to use
	// Valid values: memory, badger, none
	Type string `mapstructure:"type" yaml:"type" validate:"required,oneof=memory badger none"`

	// Badger contains BadgerDB-specific configuration
	// Only used when Type = "badger"
	Badger map[string]any `mapstructure:"badger" yaml:"badger,omitempty"`
}

// Load loads configuration from file, environment, and defaults.
//
// configPath may be empty (default location), a local file path, or an
// s3://bucket/key URL. A configuration that does not exist yields the
// defaults; one that cannot be parsed or fails validation yields an
// ErrConfig error.
func Load(configPath string) (*Config, error) {
	return LoadContext(context.Background(), configPath)
}

// LoadContext is Load with a context for remote sources.
func LoadContext(ctx context.Context, configPath string) (*Config, error) {
	v := viper.New()

	// Configure viper
	setupViper(v, configPath)

	// Read configuration file if it exists
	if err := readConfig(ctx, v, configPath); err != nil {
		return nil, document.WrapError(document.ErrConfig, "failed to read configuration", configPath, err)
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, document.WrapError(document.ErrConfig, "failed to unmarshal configuration", configPath, err)
	}

	// Apply defaults for any missing values
	ApplyDefaults(&cfg)

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, document.WrapError(document.ErrConfig, "configuration validation failed", configPath, err)
	}

	return &cfg, nil
}

// LoadOrDefault is Load, except that on failure it returns the default
// configuration together with the error, so the host can log the problem and
// still come up with zero roots.
func LoadOrDefault(configPath string) (*Config, error) {
	cfg, err := Load(configPath)
	if err != nil {
		return GetDefaultConfig(), err
	}
	return cfg, nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Set up environment variable support
	// Environment variables use DOCROOTS_ prefix and underscores
	// Example: DOCROOTS_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("DOCROOTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Register scalar keys so AutomaticEnv can override them even when the
	// file does not mention them
	v.SetDefault("logging.level", DefaultLogLevel)
	v.SetDefault("logging.format", DefaultLogFormat)
	v.SetDefault("logging.output", DefaultLogOutput)
	v.SetDefault("provider.propagate_close_errors", false)
	v.SetDefault("provider.mtime_threshold", DefaultMtimeThreshold)
	v.SetDefault("journal.type", DefaultJournalType)

	switch {
	case isS3URL(configPath):
		// Read from bytes in readConfig
		configType := "yaml"
		if loc, err := parseS3URL(configPath); err == nil {
			configType = configTypeFor(loc.Key)
		}
		v.SetConfigType(configType)
	case configPath != "":
		// Use explicitly specified config file
		v.SetConfigFile(configPath)
	default:
		// Use default location: $XDG_CONFIG_HOME/docroots/config.{yaml,toml,json}
		configDir := getConfigDir()
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml") // Primary format
	}
}

// readConfig reads the configuration if it exists.
func readConfig(ctx context.Context, v *viper.Viper, configPath string) error {
	if isS3URL(configPath) {
		data, found, err := fetchS3Object(ctx, configPath)
		if err != nil {
			return err
		}
		if !found {
			return nil
		}
		return v.ReadConfig(bytes.NewReader(data))
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - use defaults
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	return nil
}

// configTypeFor returns the viper config type for a file name.
func configTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		return "toml"
	case ".json":
		return "json"
	default:
		return "yaml"
	}
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to current
// directory (.) if home directory cannot be determined.
func getConfigDir() string {
	// Check XDG_CONFIG_HOME
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "docroots")
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		// If we can't get home dir, use current directory as last resort
		return "."
	}

	return filepath.Join(home, ".config", "docroots")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// ConfigExists checks if a config file exists at the default location.
func ConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

// GetConfigDir returns the configuration directory path (exposed for init command).
func GetConfigDir() string {
	return getConfigDir()
}

// String renders a one-line summary for logs.
func (c *Config) String() string {
	return fmt.Sprintf("roots=%d journal=%s log_level=%s", len(c.Roots), c.Journal.Type, c.Logging.Level)
}
