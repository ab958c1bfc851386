package provider

import (
	"context"

	"github.com/marmos91/docroots/pkg/document"
)

// Column names used in query results.
const (
	ColumnRootID       = "root_id"
	ColumnIcon         = "icon"
	ColumnTitle        = "title"
	ColumnFlags        = "flags"
	ColumnDocumentID   = "document_id"
	ColumnMimeType     = "mime_type"
	ColumnDisplayName  = "_display_name"
	ColumnLastModified = "last_modified"
	ColumnSize         = "_size"
)

// DefaultRootProjection is used by QueryRoots when no projection is given.
var DefaultRootProjection = []string{
	ColumnRootID,
	ColumnIcon,
	ColumnTitle,
	ColumnFlags,
	ColumnDocumentID,
}

// DefaultDocumentProjection is used by document queries when no projection
// is given.
var DefaultDocumentProjection = []string{
	ColumnDocumentID,
	ColumnMimeType,
	ColumnDisplayName,
	ColumnLastModified,
	ColumnFlags,
	ColumnSize,
}

// Cursor is a tabular query result: a fixed column list and one row of
// values per entry. Values are string, int64 or nil.
type Cursor struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

func newCursor(projection, defaults []string) *Cursor {
	if projection == nil {
		projection = defaults
	}
	columns := make([]string, len(projection))
	copy(columns, projection)

	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; !dup {
			index[c] = i
		}
	}
	return &Cursor{columns: columns, index: index}
}

// add appends a row, asking value for every column. Unknown columns get nil.
func (c *Cursor) add(value func(column string) (any, bool)) {
	row := make([]any, len(c.columns))
	for i, col := range c.columns {
		if v, ok := value(col); ok {
			row[i] = v
		}
	}
	c.rows = append(c.rows, row)
}

// Columns returns the column names in order.
func (c *Cursor) Columns() []string {
	return c.columns
}

// Len returns the number of rows.
func (c *Cursor) Len() int {
	return len(c.rows)
}

// Row returns the values of row i in column order.
func (c *Cursor) Row(i int) []any {
	return c.rows[i]
}

// Value returns the value of column in row i. ok is false if the cursor has
// no such column.
func (c *Cursor) Value(i int, column string) (v any, ok bool) {
	idx, ok := c.index[column]
	if !ok {
		return nil, false
	}
	return c.rows[i][idx], true
}

func rootValue(s document.RootSummary) func(string) (any, bool) {
	return func(column string) (any, bool) {
		switch column {
		case ColumnRootID:
			return s.RootID, true
		case ColumnIcon:
			if s.Icon == "" {
				return nil, true
			}
			return s.Icon, true
		case ColumnTitle:
			return s.Title, true
		case ColumnFlags:
			return int64(s.Flags), true
		case ColumnDocumentID:
			return string(s.DocumentID), true
		}
		return nil, false
	}
}

func entryValue(e *document.Entry) func(string) (any, bool) {
	return func(column string) (any, bool) {
		switch column {
		case ColumnDocumentID:
			return string(e.ID), true
		case ColumnMimeType:
			return e.MimeType, true
		case ColumnDisplayName:
			return e.DisplayName, true
		case ColumnLastModified:
			if e.LastModified == nil {
				return nil, true
			}
			return e.LastModified.UnixMilli(), true
		case ColumnFlags:
			return int64(e.Flags), true
		case ColumnSize:
			return e.Size, true
		}
		return nil, false
	}
}

// QueryRoots returns one row per root. A nil projection selects
// DefaultRootProjection.
func (p *Provider) QueryRoots(projection []string) *Cursor {
	c := newCursor(projection, DefaultRootProjection)
	for _, s := range p.ListRoots() {
		c.add(rootValue(s))
	}
	return c
}

// QueryDocument returns a single-row cursor describing id. A nil projection
// selects DefaultDocumentProjection.
func (p *Provider) QueryDocument(ctx context.Context, id document.ID, projection []string) (*Cursor, error) {
	entry, err := p.DescribeDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	c := newCursor(projection, DefaultDocumentProjection)
	c.add(entryValue(entry))
	return c, nil
}

// QueryChildDocuments returns one row per child of parent. A nil projection
// selects DefaultDocumentProjection.
func (p *Provider) QueryChildDocuments(ctx context.Context, parent document.ID, projection []string) (*Cursor, error) {
	entries, err := p.ListChildren(ctx, parent)
	if err != nil {
		return nil, err
	}

	c := newCursor(projection, DefaultDocumentProjection)
	for _, e := range entries {
		c.add(entryValue(e))
	}
	return c, nil
}
