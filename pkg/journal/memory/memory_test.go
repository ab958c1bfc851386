package memory

import (
	"context"
	"testing"
	"time"

	"github.com/marmos91/docroots/pkg/document"
	"github.com/marmos91/docroots/pkg/journal"
	journaltesting "github.com/marmos91/docroots/pkg/journal/testing"
	"github.com/stretchr/testify/assert"
)

func TestMemoryJournal(t *testing.T) {
	suite := &journaltesting.JournalTestSuite{
		NewJournal: func(t *testing.T) journal.Journal {
			return New()
		},
	}
	suite.Run(t)
}

func TestRecordAfterClose(t *testing.T) {
	j := New()
	assert.NoError(t, j.Close())

	err := j.Record(context.Background(), journal.NewCompletion("docs:x", "w", time.Now(), nil))
	assert.True(t, document.IsIO(err))
}
