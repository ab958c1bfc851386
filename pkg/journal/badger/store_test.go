package badger

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/marmos91/docroots/internal/logger"
	"github.com/marmos91/docroots/pkg/journal"
	journaltesting "github.com/marmos91/docroots/pkg/journal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerJournal(t *testing.T) {
	suite := &journaltesting.JournalTestSuite{
		NewJournal: func(t *testing.T) journal.Journal {
			j, err := New(context.Background(), Config{Path: t.TempDir()})
			require.NoError(t, err)
			return j
		},
	}
	suite.Run(t)
}

func TestBadgerJournalInMemory(t *testing.T) {
	suite := &journaltesting.JournalTestSuite{
		NewJournal: func(t *testing.T) journal.Journal {
			j, err := New(context.Background(), Config{InMemory: true})
			require.NoError(t, err)
			return j
		},
	}
	suite.Run(t)
}

func TestBadgerJournalPersists(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	j, err := New(ctx, Config{Path: dir, SyncWrites: true})
	require.NoError(t, err)

	c := journal.NewCompletion("docs:report.pdf", "wa", time.Unix(1700000000, 42), nil)
	require.NoError(t, j.Record(ctx, c))
	require.NoError(t, j.Close())

	reopened, err := New(ctx, Config{Path: dir})
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Last(ctx, "docs:report.pdf")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.True(t, c.ClosedAt.Equal(got.ClosedAt))
}

func TestNewRequiresPath(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestNewCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(ctx, Config{InMemory: true})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodeRejectsUnknownVersion(t *testing.T) {
	data, err := encodeCompletion(journal.NewCompletion("docs:x", "w", time.Now(), nil))
	require.NoError(t, err)

	// Version is the first XDR word
	data[3] = 9

	_, err = decodeCompletion(data)
	assert.Error(t, err)
}

func TestBadgerLoggerUsesNamedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.SetLevel("DEBUG")
	logger.SetOutput(&buf)
	t.Cleanup(func() {
		logger.SetLevel("INFO")
		logger.SetOutput(os.Stdout)
	})

	l := newBadgerLogger()
	l.Warningf("value log %d rotated\n", 3)
	l.Debugf("compaction done")

	out := buf.String()
	assert.Contains(t, out, "badger: value log 3 rotated")
	assert.Contains(t, out, "badger: compaction done")
	assert.NotContains(t, out, "rotated\n\n")
}
