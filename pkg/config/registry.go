package config

import (
	"context"
	"fmt"

	"github.com/marmos91/docroots/internal/logger"
	"github.com/marmos91/docroots/pkg/provider"
	"github.com/marmos91/docroots/pkg/registry"
	"github.com/spf13/afero"
)

// InitializeRegistry builds the root registry from cfg.Roots.
//
// No directories are created here; each root is materialized on first
// access.
func InitializeRegistry(fs afero.Fs, cfg *Config) (*registry.Registry, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is nil")
	}

	configs := make([]registry.RootConfig, 0, len(cfg.Roots))
	for _, root := range cfg.Roots {
		configs = append(configs, registry.RootConfig{
			Tag:      root.Tag,
			Path:     root.Path,
			Title:    root.Title,
			Icon:     root.Icon,
			ReadOnly: root.ReadOnly,
		})
	}

	reg, err := registry.NewRegistry(fs, configs)
	if err != nil {
		return nil, err
	}

	logger.Debug("Registered %d root(s)", reg.Len())
	return reg, nil
}

// InitializeProvider creates a fully configured Provider from the provided configuration.
//
// This function orchestrates the complete initialization process:
//  1. Builds the root registry on fs
//  2. Creates the write-completion journal
//  3. Assembles the provider with the configured options
//
// The caller owns the returned provider's journal and should close it on
// shutdown.
//
// Example:
//
//	cfg, _ := config.Load("config.yaml")
//	p, err := config.InitializeProvider(ctx, afero.NewOsFs(), cfg)
//	if err != nil {
//	    log.Fatalf("Failed to initialize provider: %v", err)
//	}
//	defer p.Journal().Close()
func InitializeProvider(ctx context.Context, fs afero.Fs, cfg *Config) (*provider.Provider, error) {
	logger.Debug("Initializing provider from configuration")

	// Step 1: Build the registry
	reg, err := InitializeRegistry(fs, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build root registry: %w", err)
	}

	// Step 2: Create the journal
	j, err := CreateJournal(ctx, &cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("failed to create journal: %w", err)
	}
	logger.Debug("Journal %q ready", cfg.Journal.Type)

	// Step 3: Assemble the provider
	p := provider.New(reg, provider.Options{
		PropagateCloseErrors: cfg.Provider.PropagateCloseErrors,
		MtimeThreshold:       cfg.Provider.MtimeThreshold,
		Journal:              j,
	})

	return p, nil
}
