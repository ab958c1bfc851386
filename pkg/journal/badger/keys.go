package badger

import (
	"github.com/marmos91/docroots/pkg/document"
)

// Database Key Namespace Design
// ==============================
//
// Completions are stored under a single prefix, one key per document:
//
// Data Type       Prefix   Key Format           Value Type
// ==========================================================
// Completions     "c:"     c:<documentID>       completionRecord (XDR)
//
// Keeping one key per document means Record is a plain overwrite and List
// is a prefix scan that already yields documents in id order, since Badger
// iterates keys in byte order.

const prefixCompletion = "c:"

// keyCompletion returns the key for the latest completion of id.
//
// Example: c:docs:a/b.txt
func keyCompletion(id document.ID) []byte {
	return []byte(prefixCompletion + string(id))
}
