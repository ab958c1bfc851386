package provider

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/marmos91/docroots/internal/logger"
	"github.com/marmos91/docroots/pkg/document"
	"github.com/marmos91/docroots/pkg/journal"
	"github.com/spf13/afero"
)

// WriteHandle is an open document that records a completion when closed.
//
// All file operations are delegated to the embedded afero.File. Only Close
// is intercepted.
type WriteHandle struct {
	afero.File

	provider *Provider
	id       document.ID
	mode     OpenMode
	once     sync.Once
}

func newWriteHandle(p *Provider, f afero.File, id document.ID, mode OpenMode) *WriteHandle {
	return &WriteHandle{
		File:     f,
		provider: p,
		id:       id,
		mode:     mode,
	}
}

// DocumentID returns the id the handle was opened for.
func (h *WriteHandle) DocumentID() document.ID {
	return h.id
}

// Mode returns the mode the handle was opened with.
func (h *WriteHandle) Mode() OpenMode {
	return h.mode
}

// Close closes the file and records the completion.
//
// The completion is recorded even when the underlying close fails. That
// failure is logged and, unless PropagateCloseErrors is set, not returned.
// Calling Close again returns os.ErrClosed and records nothing.
func (h *WriteHandle) Close() error {
	err := os.ErrClosed
	h.once.Do(func() {
		err = h.finish()
	})
	return err
}

func (h *WriteHandle) finish() error {
	closeErr := h.File.Close()
	if closeErr != nil {
		logger.Warn("Write handle for %s closed with error: %v", h.id, closeErr)
	}

	c := journal.NewCompletion(h.id, h.mode.String(), time.Now(), closeErr)

	// The caller's context is gone by the time the handle is closed
	if err := h.provider.journal.Record(context.Background(), c); err != nil {
		logger.Error("Failed to record write completion for %s: %v", h.id, err)
	}
	if h.provider.opts.OnWriteComplete != nil {
		h.provider.opts.OnWriteComplete(c)
	}

	logger.Debug("Write completed: %s mode=%s failed=%v", h.id, h.mode, c.Failed())

	if closeErr != nil && h.provider.opts.PropagateCloseErrors {
		return document.WrapError(document.ErrIO, "failed to close document", string(h.id), closeErr)
	}
	return nil
}
