package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/marmos91/docroots/pkg/document"
	"github.com/marmos91/docroots/pkg/journal"
)

// MemoryJournal keeps the latest completion per document in a map.
//
// Contents are lost when the process exits. Suitable for tests and for
// hosts that only need completions while running.
type MemoryJournal struct {
	mu      sync.RWMutex
	entries map[document.ID]journal.Completion
	closed  bool
}

// New creates an empty in-memory journal.
func New() *MemoryJournal {
	return &MemoryJournal{
		entries: make(map[document.ID]journal.Completion),
	}
}

func (j *MemoryJournal) Record(ctx context.Context, c journal.Completion) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return document.NewError(document.ErrIO, "journal is closed", "")
	}

	j.entries[c.DocumentID] = c
	return nil
}

func (j *MemoryJournal) Last(ctx context.Context, id document.ID) (*journal.Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	c, ok := j.entries[id]
	if !ok {
		return nil, journal.NotFound(id)
	}
	return &c, nil
}

func (j *MemoryJournal) List(ctx context.Context) ([]journal.Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	j.mu.RLock()
	out := make([]journal.Completion, 0, len(j.entries))
	for _, c := range j.entries {
		out = append(out, c)
	}
	j.mu.RUnlock()

	sort.Slice(out, func(a, b int) bool {
		return out[a].DocumentID < out[b].DocumentID
	})
	return out, nil
}

func (j *MemoryJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.closed = true
	return nil
}
