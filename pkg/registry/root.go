package registry

import (
	"path/filepath"
	"strings"

	"github.com/marmos91/docroots/pkg/document"
)

// Root represents a configured mount point:
// - A tag (unique, used as the id prefix)
// - A base directory on the filesystem
// - Display metadata (title, icon)
// - A read-only switch
//
// Roots are immutable once the registry is built.
type Root struct {
	Tag      string
	Path     string
	Title    string
	Icon     string
	ReadOnly bool

	segments []string
}

// RootConfig contains all configuration needed to create a root.
type RootConfig struct {
	Tag      string
	Path     string
	Title    string
	Icon     string
	ReadOnly bool
}

// DocumentID returns the id of the root's own directory entry.
func (r *Root) DocumentID() document.ID {
	return document.RootID(r.Tag)
}

// Flags returns the capability flags advertised for the root.
func (r *Root) Flags() document.RootFlags {
	flags := document.RootFlagLocalOnly | document.RootFlagSupportsIsChild
	if !r.ReadOnly {
		flags |= document.RootFlagSupportsCreate
	}
	return flags
}

// Summary returns the listing row for the root.
func (r *Root) Summary() document.RootSummary {
	return document.RootSummary{
		RootID:     r.Tag,
		Icon:       r.Icon,
		Title:      r.Title,
		Flags:      r.Flags(),
		DocumentID: r.DocumentID(),
	}
}

// Rel returns the "/"-separated remainder of path below the root, and
// whether path lies at or below the root at all.
//
// Matching is done on whole path segments, so "/data/docs2/x" is not
// contained in a root at "/data/docs".
func (r *Root) Rel(path string) (string, bool) {
	segs := splitPath(path)
	if len(segs) < len(r.segments) {
		return "", false
	}
	for i, s := range r.segments {
		if segs[i] != s {
			return "", false
		}
	}
	return strings.Join(segs[len(r.segments):], "/"), true
}

// Join returns the filesystem path for a "/"-separated relative path.
func (r *Root) Join(rel string) string {
	if rel == "" {
		return r.Path
	}
	return filepath.Join(r.Path, filepath.FromSlash(rel))
}

// splitPath cleans p and returns its non-empty segments.
func splitPath(p string) []string {
	clean := filepath.ToSlash(filepath.Clean(p))
	var segs []string
	for _, s := range strings.Split(clean, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
