package config

import (
	"context"
	"fmt"

	"github.com/marmos91/docroots/internal/logger"
	"github.com/marmos91/docroots/pkg/journal"
	"github.com/marmos91/docroots/pkg/journal/badger"
	"github.com/marmos91/docroots/pkg/journal/memory"
	"github.com/mitchellh/mapstructure"
)

// CreateJournal creates a write-completion journal based on configuration.
//
// This factory function uses the Type field to determine which implementation
// to create, then decodes the type-specific configuration from the
// corresponding map and passes it to the constructor.
//
// Supported types:
//   - "memory": Uses pkg/journal/memory (lost on exit)
//   - "badger": Uses pkg/journal/badger (persistent)
//   - "none": Drops every completion
func CreateJournal(ctx context.Context, cfg *JournalConfig) (journal.Journal, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(), nil
	case "badger":
		return createBadgerJournal(ctx, cfg.Badger)
	case "none":
		return journal.Discard, nil
	default:
		return nil, fmt.Errorf("unknown journal type: %q", cfg.Type)
	}
}

// createBadgerJournal creates a BadgerDB-backed journal.
func createBadgerJournal(ctx context.Context, options map[string]any) (journal.Journal, error) {
	// Decode the options into the config struct
	var journalCfg badger.Config
	if err := mapstructure.Decode(options, &journalCfg); err != nil {
		return nil, fmt.Errorf("failed to decode badger journal config: %w", err)
	}

	// Validate required fields
	if journalCfg.Path == "" && !journalCfg.InMemory {
		return nil, fmt.Errorf("badger journal: path is required")
	}

	j, err := badger.New(ctx, journalCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create badger journal: %w", err)
	}

	logger.Info("Badger journal initialized: path=%s, sync_writes=%v", journalCfg.Path, journalCfg.SyncWrites)
	return j, nil
}
