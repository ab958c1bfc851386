package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/hashicorp/go-hclog"
	"github.com/marmos91/docroots/internal/logger"
	"github.com/marmos91/docroots/pkg/document"
	"github.com/marmos91/docroots/pkg/journal"
)

// BadgerJournal implements journal.Journal using BadgerDB for persistence.
//
// Completions survive process restarts, so a host can ask after startup
// which documents were written during the previous run.
//
// Thread Safety:
// BadgerDB transactions are safe for concurrent use, so the journal needs no
// locking of its own.
type BadgerJournal struct {
	db *badger.DB
}

// Config contains configuration for creating a BadgerDB journal.
type Config struct {
	// Path is the directory where BadgerDB stores its files.
	// Ignored when InMemory is set.
	Path string `mapstructure:"path"`

	// SyncWrites fsyncs every Record before returning
	SyncWrites bool `mapstructure:"sync_writes"`

	// InMemory keeps the database in memory (tests)
	InMemory bool `mapstructure:"in_memory"`
}

// New opens (or creates) a BadgerDB journal.
//
// Context Cancellation:
// The context is only checked before the database is opened.
func New(ctx context.Context, cfg Config) (*BadgerJournal, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cfg.Path == "" && !cfg.InMemory {
		return nil, fmt.Errorf("badger journal path is required")
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithLogger(newBadgerLogger()).
		WithLoggingLevel(badger.WARNING).
		WithSyncWrites(cfg.SyncWrites).
		WithCompression(options.None) // records are tiny

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB at %s: %w", cfg.Path, err)
	}

	logger.Debug("Opened badger journal at %q (in_memory=%v)", cfg.Path, cfg.InMemory)
	return &BadgerJournal{db: db}, nil
}

func (j *BadgerJournal) Record(ctx context.Context, c journal.Completion) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeCompletion(c)
	if err != nil {
		return err
	}

	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyCompletion(c.DocumentID), data)
	})
	if err != nil {
		return document.WrapError(document.ErrIO, "failed to record completion", string(c.DocumentID), err)
	}
	return nil
}

func (j *BadgerJournal) Last(ctx context.Context, id document.ID) (*journal.Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out *journal.Completion
	err := j.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyCompletion(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			c, err := decodeCompletion(val)
			if err != nil {
				return err
			}
			out = c
			return nil
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, journal.NotFound(id)
	}
	if err != nil {
		return nil, document.WrapError(document.ErrIO, "failed to read completion", string(id), err)
	}
	return out, nil
}

func (j *BadgerJournal) List(ctx context.Context) ([]journal.Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []journal.Completion
	err := j.db.View(func(txn *badger.Txn) error {
		prefix := []byte(prefixCompletion)
		it := txn.NewIterator(badger.IteratorOptions{Prefix: prefix, PrefetchValues: true, PrefetchSize: 100})
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				c, err := decodeCompletion(val)
				if err != nil {
					return err
				}
				out = append(out, *c)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, document.WrapError(document.ErrIO, "failed to list completions", "", err)
	}
	return out, nil
}

func (j *BadgerJournal) Close() error {
	return j.db.Close()
}

// badgerLogger routes BadgerDB's internal logging through a named sub-logger
// of the process logger.
type badgerLogger struct {
	l hclog.Logger
}

func newBadgerLogger() badgerLogger {
	return badgerLogger{l: logger.Named("badger")}
}

// message formats a badger log line without its trailing newline.
func message(format string, v ...any) string {
	return strings.TrimRight(fmt.Sprintf(format, v...), "\n")
}

func (b badgerLogger) Errorf(format string, v ...any)   { b.l.Error(message(format, v...)) }
func (b badgerLogger) Warningf(format string, v ...any) { b.l.Warn(message(format, v...)) }
func (b badgerLogger) Infof(format string, v ...any)    { b.l.Info(message(format, v...)) }
func (b badgerLogger) Debugf(format string, v ...any)   { b.l.Debug(message(format, v...)) }
