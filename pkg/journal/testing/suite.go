package testing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/marmos91/docroots/pkg/document"
	"github.com/marmos91/docroots/pkg/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// JournalTestSuite is a test suite for Journal implementations.
// It tests the interface contract, not implementation details.
//
// Usage:
//
//	func TestMyJournal(t *testing.T) {
//	    suite := &testing.JournalTestSuite{
//	        NewJournal: func(t *testing.T) journal.Journal {
//	            return myjournal.New()
//	        },
//	    }
//	    suite.Run(t)
//	}
type JournalTestSuite struct {
	// NewJournal creates a fresh, empty Journal for each test.
	NewJournal func(t *testing.T) journal.Journal
}

// Run executes all tests in the suite.
func (suite *JournalTestSuite) Run(t *testing.T) {
	t.Run("Last_NotFound", suite.testLastNotFound)
	t.Run("Record_Last", suite.testRecordLast)
	t.Run("Record_Overwrites", suite.testRecordOverwrites)
	t.Run("List_Ordered", suite.testListOrdered)
	t.Run("List_Empty", suite.testListEmpty)
	t.Run("Record_Concurrent", suite.testRecordConcurrent)
	t.Run("Context_Cancelled", suite.testContextCancelled)
}

func (suite *JournalTestSuite) open(t *testing.T) journal.Journal {
	t.Helper()
	j := suite.NewJournal(t)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func completion(id document.ID, mode string, closedAt time.Time, err error) journal.Completion {
	return journal.NewCompletion(id, mode, closedAt, err)
}

func (suite *JournalTestSuite) testLastNotFound(t *testing.T) {
	j := suite.open(t)

	_, err := j.Last(context.Background(), "docs:missing")
	assert.True(t, document.IsNotFound(err), "expected ErrNotFound, got %v", err)
}

func (suite *JournalTestSuite) testRecordLast(t *testing.T) {
	j := suite.open(t)
	ctx := context.Background()

	closedAt := time.Date(2024, 3, 1, 10, 30, 0, 123, time.UTC)
	c := completion("docs:a/b.txt", "wt", closedAt, errors.New("disk full"))
	require.NoError(t, j.Record(ctx, c))

	got, err := j.Last(ctx, "docs:a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, c.DocumentID, got.DocumentID)
	assert.Equal(t, "wt", got.Mode)
	assert.True(t, closedAt.Equal(got.ClosedAt))
	assert.Equal(t, "disk full", got.Error)
	assert.True(t, got.Failed())
}

func (suite *JournalTestSuite) testRecordOverwrites(t *testing.T) {
	j := suite.open(t)
	ctx := context.Background()

	first := completion("docs:x", "w", time.Unix(1700000000, 0), nil)
	second := completion("docs:x", "wa", time.Unix(1700000100, 0), nil)
	require.NoError(t, j.Record(ctx, first))
	require.NoError(t, j.Record(ctx, second))

	got, err := j.Last(ctx, "docs:x")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, "wa", got.Mode)
	assert.False(t, got.Failed())

	all, err := j.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func (suite *JournalTestSuite) testListOrdered(t *testing.T) {
	j := suite.open(t)
	ctx := context.Background()

	ids := []document.ID{"docs:c", "docs:a", "photos:z", "docs:b/1"}
	for _, id := range ids {
		require.NoError(t, j.Record(ctx, completion(id, "w", time.Now(), nil)))
	}

	all, err := j.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(ids))

	var got []document.ID
	for _, c := range all {
		got = append(got, c.DocumentID)
	}
	assert.Equal(t, []document.ID{"docs:a", "docs:b/1", "docs:c", "photos:z"}, got)
}

func (suite *JournalTestSuite) testListEmpty(t *testing.T) {
	j := suite.open(t)

	all, err := j.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func (suite *JournalTestSuite) testRecordConcurrent(t *testing.T) {
	j := suite.open(t)
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := document.ID(fmt.Sprintf("docs:file-%02d", i%8))
			errs <- j.Record(ctx, completion(id, "w", time.Now(), nil))
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	all, err := j.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 8)
}

func (suite *JournalTestSuite) testContextCancelled(t *testing.T) {
	j := suite.open(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := j.Record(ctx, completion("docs:x", "w", time.Now(), nil))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = j.Last(ctx, "docs:x")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = j.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
