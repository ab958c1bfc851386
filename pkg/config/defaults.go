package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultLogLevel       = "INFO"
	DefaultLogFormat      = "text"
	DefaultLogOutput      = "stdout"
	DefaultJournalType    = "memory"
	DefaultMtimeThreshold = 365 * 24 * time.Hour
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false, nil) are replaced with defaults
//   - Explicit values are preserved
//   - Roots are never invented: no roots configured means zero roots
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyRootDefaults(cfg.Roots)
	applyProviderDefaults(&cfg.Provider)
	applyJournalDefaults(&cfg.Journal)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = DefaultLogLevel
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = DefaultLogFormat
	}
	if cfg.Output == "" {
		cfg.Output = DefaultLogOutput
	}
}

// applyRootDefaults expands "~" in paths, cleans them and defaults titles.
func applyRootDefaults(roots []RootConfig) {
	for i := range roots {
		root := &roots[i]

		if root.Path != "" {
			root.Path = filepath.Clean(expandHome(root.Path))
		}
		if root.Title == "" {
			root.Title = root.Tag
		}
	}
}

// applyProviderDefaults sets provider defaults.
func applyProviderDefaults(cfg *ProviderConfig) {
	if cfg.MtimeThreshold == 0 {
		cfg.MtimeThreshold = DefaultMtimeThreshold
	}
	// PropagateCloseErrors defaults to false (best-effort close)
}

// applyJournalDefaults sets journal defaults.
func applyJournalDefaults(cfg *JournalConfig) {
	if cfg.Type == "" {
		cfg.Type = DefaultJournalType
	}

	// Initialize maps if nil
	if cfg.Badger == nil {
		cfg.Badger = make(map[string]any)
	}
	if _, ok := cfg.Badger["path"]; !ok {
		cfg.Badger["path"] = filepath.Join(getDataDir(), "journal")
	}
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// getDataDir returns the directory for persistent state.
//
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func getDataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "docroots")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "docroots")
}

// GetDefaultConfig returns the configuration used when nothing is configured:
// zero roots, INFO text logging on stdout and an in-memory journal.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// GetSampleConfig returns the configuration written by InitConfig: the
// defaults plus one example root under the home directory.
func GetSampleConfig() *Config {
	cfg := &Config{
		Roots: []RootConfig{
			{
				Tag:   "docs",
				Path:  "~/Documents",
				Title: "Documents",
			},
		},
	}
	ApplyDefaults(cfg)
	// Keep the portable form in the written file
	cfg.Roots[0].Path = "~/Documents"
	return cfg
}
