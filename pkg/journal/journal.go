// Package journal records write-completion notifications.
//
// Every time a write handle opened through the provider is closed, one
// Completion is recorded. Hosts use the journal to learn which documents
// changed (e.g. to refresh thumbnails or notify sync agents).
package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marmos91/docroots/pkg/document"
)

// Completion describes one closed write handle.
type Completion struct {
	// ID uniquely identifies the notification
	ID uuid.UUID

	// DocumentID is the document that was written
	DocumentID document.ID

	// Mode is the open mode string the handle was opened with (e.g. "wt")
	Mode string

	// ClosedAt is when the handle was closed
	ClosedAt time.Time

	// Error is the close error message, empty when the close succeeded
	Error string
}

// Failed reports whether the underlying close reported an error.
func (c *Completion) Failed() bool {
	return c.Error != ""
}

// Journal stores completions.
//
// Implementations must be safe for concurrent use.
type Journal interface {
	// Record stores c, replacing any earlier completion for the same document.
	Record(ctx context.Context, c Completion) error

	// Last returns the most recent completion for id.
	// Returns an ErrNotFound error if none was recorded.
	Last(ctx context.Context, id document.ID) (*Completion, error)

	// List returns the most recent completion of every document, ordered by
	// document id.
	List(ctx context.Context) ([]Completion, error)

	// Close releases resources held by the journal.
	Close() error
}

// NewCompletion builds a completion for id with a fresh identifier.
func NewCompletion(id document.ID, mode string, closedAt time.Time, closeErr error) Completion {
	c := Completion{
		ID:         uuid.New(),
		DocumentID: id,
		Mode:       mode,
		ClosedAt:   closedAt,
	}
	if closeErr != nil {
		c.Error = closeErr.Error()
	}
	return c
}

// NotFound returns the error Last reports for a document without completions.
func NotFound(id document.ID) error {
	return document.NewError(document.ErrNotFound, "no completion recorded", string(id))
}

// Discard is a Journal that drops every completion.
var Discard Journal = discard{}

type discard struct{}

func (discard) Record(ctx context.Context, _ Completion) error {
	return ctx.Err()
}

func (discard) Last(ctx context.Context, id document.ID) (*Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, NotFound(id)
}

func (discard) List(ctx context.Context) ([]Completion, error) {
	return nil, ctx.Err()
}

func (discard) Close() error {
	return nil
}
