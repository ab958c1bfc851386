package badger

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marmos91/docroots/pkg/document"
	"github.com/marmos91/docroots/pkg/journal"
	xdr "github.com/rasky/go-xdr/xdr2"
)

// completionRecord is the on-disk form of a journal.Completion.
//
// Fields are XDR-encoded in declaration order; append new fields at the end
// and bump recordVersion.
type completionRecord struct {
	Version    uint32
	ID         [16]byte
	DocumentID string
	Mode       string
	ClosedAt   int64 // Unix nanoseconds
	Error      string
}

const recordVersion = 1

func encodeCompletion(c journal.Completion) ([]byte, error) {
	rec := completionRecord{
		Version:    recordVersion,
		ID:         c.ID,
		DocumentID: string(c.DocumentID),
		Mode:       c.Mode,
		ClosedAt:   c.ClosedAt.UnixNano(),
		Error:      c.Error,
	}

	var buf bytes.Buffer
	if _, err := xdr.Marshal(&buf, &rec); err != nil {
		return nil, fmt.Errorf("failed to encode completion: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeCompletion(data []byte) (*journal.Completion, error) {
	var rec completionRecord
	if _, err := xdr.Unmarshal(bytes.NewReader(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to decode completion: %w", err)
	}
	if rec.Version != recordVersion {
		return nil, fmt.Errorf("unsupported completion record version %d", rec.Version)
	}

	return &journal.Completion{
		ID:         uuid.UUID(rec.ID),
		DocumentID: document.ID(rec.DocumentID),
		Mode:       rec.Mode,
		ClosedAt:   time.Unix(0, rec.ClosedAt),
		Error:      rec.Error,
	}, nil
}
