// Package document defines the types shared by every layer of the provider:
// document identifiers, listing entries, capability flags and the error
// taxonomy.
package document

import (
	"strings"
	"time"
)

// ID is an opaque document identifier of the form "<tag>:<relativePath>".
//
// The relative path uses "/" separators and is empty for the root entry
// itself. Since ids are split on the first ':' the tag can never contain one.
//
// Example:
//
//	"docs:"            // the root directory of root "docs"
//	"docs:a/b.txt"     // a file two levels below it
type ID string

// Separator splits the tag from the relative path inside an ID.
const Separator = ":"

// String returns the id as a plain string.
func (id ID) String() string {
	return string(id)
}

// RootID returns the id of the root entry for tag.
func RootID(tag string) ID {
	return ID(tag + Separator)
}

// Tag returns the portion of the id before the first ':' ("" if none).
func (id ID) Tag() string {
	tag, _, ok := strings.Cut(string(id), Separator)
	if !ok {
		return ""
	}
	return tag
}

// Flags is the capability bitmask reported for one document.
//
// The bit values match the ones document-browsing hosts commonly use, so a
// host can pass them through untouched.
type Flags uint32

const (
	// FlagSupportsWrite is set on writable plain files
	FlagSupportsWrite Flags = 1 << 1

	// FlagSupportsDelete is set on any writable entry
	FlagSupportsDelete Flags = 1 << 2

	// FlagDirSupportsCreate is set on writable directories
	FlagDirSupportsCreate Flags = 1 << 3
)

// Has reports whether all bits in f2 are set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// RootFlags is the capability bitmask reported for one root.
type RootFlags uint32

const (
	// RootFlagSupportsCreate is set on roots that accept new documents
	RootFlagSupportsCreate RootFlags = 1 << 0

	// RootFlagLocalOnly marks roots backed by local storage
	RootFlagLocalOnly RootFlags = 1 << 1

	// RootFlagSupportsIsChild marks roots that answer IsChildDocument
	RootFlagSupportsIsChild RootFlags = 1 << 4
)

// Has reports whether all bits in f2 are set.
func (f RootFlags) Has(f2 RootFlags) bool {
	return f&f2 == f2
}

// MimeTypeDirectory is the reserved MIME marker for directories.
const MimeTypeDirectory = "vnd.android.document/directory"

// MimeTypeOctetStream is the fallback MIME type for unknown files.
const MimeTypeOctetStream = "application/octet-stream"

// Entry is the metadata row describing one document.
//
// Entries are built on demand for each query and never cached.
type Entry struct {
	ID           ID
	DisplayName  string
	Size         int64
	MimeType     string
	Flags        Flags
	LastModified *time.Time
}

// IsDir reports whether the entry describes a directory.
func (e *Entry) IsDir() bool {
	return e.MimeType == MimeTypeDirectory
}

// RootSummary is the row describing one configured root.
type RootSummary struct {
	RootID     string
	Icon       string
	Title      string
	Flags      RootFlags
	DocumentID ID
}
