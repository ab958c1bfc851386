package config

import (
	"context"
	"testing"
	"time"

	"github.com/marmos91/docroots/pkg/document"
	"github.com/spf13/afero"
)

func TestInitializeRegistry(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Roots = []RootConfig{
		{Tag: "b", Path: "/data/b", Title: "B"},
		{Tag: "a", Path: "/data/a", Title: "A", ReadOnly: true},
	}

	reg, err := InitializeRegistry(afero.NewMemMapFs(), cfg)
	if err != nil {
		t.Fatalf("InitializeRegistry failed: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("Expected 2 roots, got %d", reg.Len())
	}

	root, err := reg.Lookup("a")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if !root.ReadOnly || root.Title != "A" {
		t.Errorf("Root settings were not carried over: %+v", root)
	}
}

func TestInitializeRegistry_Nil(t *testing.T) {
	if _, err := InitializeRegistry(afero.NewMemMapFs(), nil); err == nil {
		t.Fatal("Expected error for nil configuration")
	}
}

func TestInitializeProvider(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := GetDefaultConfig()
	cfg.Roots = []RootConfig{{Tag: "docs", Path: "/data/docs", Title: "docs"}}
	cfg.Provider.MtimeThreshold = time.Hour

	p, err := InitializeProvider(context.Background(), fs, cfg)
	if err != nil {
		t.Fatalf("InitializeProvider failed: %v", err)
	}
	defer func() { _ = p.Journal().Close() }()

	roots := p.ListRoots()
	if len(roots) != 1 || roots[0].DocumentID != document.ID("docs:") {
		t.Fatalf("Unexpected roots: %+v", roots)
	}

	// Root directories are created on first access, not at startup
	if ok, _ := afero.DirExists(fs, "/data/docs"); ok {
		t.Error("Root was materialized during initialization")
	}

	if _, err := p.DescribeDocument(context.Background(), "docs:"); err != nil {
		t.Fatalf("DescribeDocument failed: %v", err)
	}
	if ok, _ := afero.DirExists(fs, "/data/docs"); !ok {
		t.Error("Root was not materialized on first access")
	}
}

func TestInitializeProvider_InvalidJournal(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Journal.Type = "bogus"

	if _, err := InitializeProvider(context.Background(), afero.NewMemMapFs(), cfg); err == nil {
		t.Fatal("Expected error for unknown journal type")
	}
}
