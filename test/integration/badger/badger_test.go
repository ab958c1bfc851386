//go:build integration

package badger_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/marmos91/docroots/pkg/config"
	"github.com/marmos91/docroots/pkg/document"
	"github.com/spf13/afero"
)

// TestBadgerJournal_Integration drives the provider end to end on the real
// filesystem with a persistent journal.
//
// Prerequisites:
//   - None (BadgerDB is embedded, no external services needed)
//   - Run with: go test -tags=integration ./test/integration/badger/...
//
// These tests verify that:
//   - A configuration file selecting the badger journal builds a working provider
//   - Write completions survive a provider restart
//   - Roots are materialized lazily on first access
func TestBadgerJournal_Integration(t *testing.T) {
	ctx := context.Background()

	// ========================================================================
	// Setup: Configuration file with one root and a badger journal
	// ========================================================================

	tempDir := t.TempDir()
	rootDir := filepath.Join(tempDir, "docs")
	journalDir := filepath.Join(tempDir, "journal")
	configPath := filepath.Join(tempDir, "config.yaml")

	configYAML := `
logging:
  level: "WARN"
roots:
  - tag: "docs"
    path: "` + rootDir + `"
journal:
  type: "badger"
  badger:
    path: "` + journalDir + `"
    sync_writes: true
`
	if err := os.WriteFile(configPath, []byte(configYAML), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// ========================================================================
	// Test: Write through the provider and record a completion
	// ========================================================================

	t.Run("WriteAndRecord", func(t *testing.T) {
		p, err := config.InitializeProvider(ctx, afero.NewOsFs(), cfg)
		if err != nil {
			t.Fatalf("Failed to initialize provider: %v", err)
		}
		defer p.Journal().Close()

		if _, err := os.Stat(rootDir); !os.IsNotExist(err) {
			t.Fatalf("Root should not exist before first access, stat err: %v", err)
		}

		// First access creates the root
		children, err := p.ListChildren(ctx, "docs:")
		if err != nil {
			t.Fatalf("ListChildren failed: %v", err)
		}
		if len(children) != 0 {
			t.Fatalf("Expected empty root, got %d children", len(children))
		}

		if err := os.WriteFile(filepath.Join(rootDir, "notes.txt"), []byte("v1"), 0644); err != nil {
			t.Fatalf("Failed to seed file: %v", err)
		}

		f, err := p.OpenDocument(ctx, "docs:notes.txt", "wt")
		if err != nil {
			t.Fatalf("OpenDocument failed: %v", err)
		}
		if _, err := io.WriteString(f, "v2"); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		if err := f.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	})

	// ========================================================================
	// Test: Completions persist across restarts
	// ========================================================================

	t.Run("PersistsAcrossRestart", func(t *testing.T) {
		p, err := config.InitializeProvider(ctx, afero.NewOsFs(), cfg)
		if err != nil {
			t.Fatalf("Failed to initialize provider: %v", err)
		}
		defer p.Journal().Close()

		c, err := p.Journal().Last(ctx, "docs:notes.txt")
		if err != nil {
			t.Fatalf("Expected completion after restart: %v", err)
		}
		if c.Mode != "wt" || c.Failed() {
			t.Errorf("Unexpected completion: %+v", c)
		}

		data, err := os.ReadFile(filepath.Join(rootDir, "notes.txt"))
		if err != nil {
			t.Fatalf("Failed to read back file: %v", err)
		}
		if string(data) != "v2" {
			t.Errorf("Expected truncated content 'v2', got %q", data)
		}

		if _, err := p.Journal().Last(ctx, "docs:other.txt"); !document.IsNotFound(err) {
			t.Errorf("Expected NotFound for unwritten document, got: %v", err)
		}
	})
}
