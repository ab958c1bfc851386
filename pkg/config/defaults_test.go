package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestApplyDefaults_Empty(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" || cfg.Logging.Format != "text" || cfg.Logging.Output != "stdout" {
		t.Errorf("Unexpected logging defaults: %+v", cfg.Logging)
	}
	if len(cfg.Roots) != 0 {
		t.Errorf("Expected no default roots, got %d", len(cfg.Roots))
	}
	if cfg.Provider.MtimeThreshold != 365*24*time.Hour {
		t.Errorf("Expected 8760h threshold, got %v", cfg.Provider.MtimeThreshold)
	}
	if cfg.Provider.PropagateCloseErrors {
		t.Error("Expected close errors to be swallowed by default")
	}
	if cfg.Journal.Type != "memory" {
		t.Errorf("Expected memory journal, got %q", cfg.Journal.Type)
	}
	if _, ok := cfg.Journal.Badger["path"]; !ok {
		t.Error("Expected default badger path")
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging:  LoggingConfig{Level: "error", Format: "json", Output: "stderr"},
		Provider: ProviderConfig{MtimeThreshold: time.Minute, PropagateCloseErrors: true},
		Journal:  JournalConfig{Type: "badger", Badger: map[string]any{"path": "/var/lib/docroots"}},
	}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "ERROR" {
		t.Errorf("Expected normalized 'ERROR', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Output != "stderr" {
		t.Errorf("Explicit logging values were overwritten: %+v", cfg.Logging)
	}
	if cfg.Provider.MtimeThreshold != time.Minute || !cfg.Provider.PropagateCloseErrors {
		t.Errorf("Explicit provider values were overwritten: %+v", cfg.Provider)
	}
	if cfg.Journal.Badger["path"] != "/var/lib/docroots" {
		t.Errorf("Explicit badger path was overwritten: %v", cfg.Journal.Badger["path"])
	}
}

func TestApplyDefaults_Roots(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := &Config{Roots: []RootConfig{
		{Tag: "docs", Path: "~/docs/"},
		{Tag: "srv", Path: "/srv//data", Title: "Server"},
		{Tag: "tilde", Path: "~other/x"},
	}}
	ApplyDefaults(cfg)

	if cfg.Roots[0].Path != filepath.Join(home, "docs") {
		t.Errorf("Expected expanded path, got %q", cfg.Roots[0].Path)
	}
	if cfg.Roots[0].Title != "docs" {
		t.Errorf("Expected title to default to tag, got %q", cfg.Roots[0].Title)
	}
	if cfg.Roots[1].Path != "/srv/data" || cfg.Roots[1].Title != "Server" {
		t.Errorf("Unexpected second root: %+v", cfg.Roots[1])
	}
	if cfg.Roots[2].Path != "~other/x" {
		t.Errorf("Only '~' and '~/' prefixes expand, got %q", cfg.Roots[2].Path)
	}
}
