// Package codec maps document ids to filesystem paths and back.
package codec

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/marmos91/docroots/pkg/document"
	"github.com/marmos91/docroots/pkg/registry"
)

// Location is a document resolved against the registry: the root it
// belongs to, its "/"-separated path below that root and the filesystem
// path it denotes.
type Location struct {
	Root *registry.Root
	Rel  string
	Path string
}

// ID returns the canonical document id of the location.
func (l Location) ID() document.ID {
	return Format(l.Root.Tag, l.Rel)
}

// Format composes a document id from a tag and a relative path.
//
// Format: "<tag>:<relativePath>"
// Example: "docs:a/b.txt"
func Format(tag, rel string) document.ID {
	return document.ID(tag + document.Separator + rel)
}

// Parse splits a document id at the first ':' into tag and relative path.
//
// Only canonical ids are accepted: the relative path must be empty or a
// sequence of non-empty "/"-separated segments, none of which is "." or
// "..". This keeps ids from escaping their root and guarantees that a
// parsed id formats back to the same string.
//
// Example:
//
//	tag, rel, err := Parse("docs:a/b.txt")
//	// tag = "docs", rel = "a/b.txt"
func Parse(id document.ID) (tag, rel string, err error) {
	s := string(id)

	idx := strings.Index(s, document.Separator)
	if idx == -1 {
		return "", "", document.NewError(document.ErrInvalidID, "invalid document id: missing ':' separator", s)
	}

	tag = s[:idx]
	rel = s[idx+1:]

	if tag == "" {
		return "", "", document.NewError(document.ErrInvalidID, "invalid document id: empty tag", s)
	}

	if rel == "" {
		return tag, "", nil
	}

	for _, seg := range strings.Split(rel, "/") {
		switch seg {
		case "":
			return "", "", document.NewError(document.ErrInvalidID, "invalid document id: empty path segment", s)
		case ".", "..":
			return "", "", document.NewError(document.ErrInvalidID, fmt.Sprintf("invalid document id: %q segment", seg), s)
		}
	}

	return tag, rel, nil
}

// IsChild reports whether child lies strictly below parent. Both ids must
// be canonical and share the same tag; no filesystem access is made.
func IsChild(parent, child document.ID) bool {
	ptag, prel, err := Parse(parent)
	if err != nil {
		return false
	}
	ctag, crel, err := Parse(child)
	if err != nil || ctag != ptag || crel == "" {
		return false
	}
	if prel == "" {
		return true
	}
	return strings.HasPrefix(crel, prel+"/")
}

// Codec resolves ids against a registry.
//
// Resolve and Locate are pure lookups; Decode additionally materializes the
// root directory and checks that the target exists.
type Codec struct {
	reg *registry.Registry
}

// New creates a codec over reg.
func New(reg *registry.Registry) *Codec {
	return &Codec{reg: reg}
}

// Registry returns the underlying registry.
func (c *Codec) Registry() *registry.Registry {
	return c.reg
}

// Encode returns the document id for an absolute filesystem path.
//
// The most specific root containing path is used. Fails with
// ErrNoContainingRoot if no root contains it.
func (c *Codec) Encode(path string) (document.ID, error) {
	loc, err := c.Locate(path)
	if err != nil {
		return "", err
	}
	return loc.ID(), nil
}

// Locate resolves an absolute filesystem path to its location without
// touching the filesystem.
func (c *Codec) Locate(path string) (Location, error) {
	root, err := c.reg.ResolvePath(path)
	if err != nil {
		return Location{}, err
	}

	rel, _ := root.Rel(path)
	return Location{Root: root, Rel: rel, Path: root.Join(rel)}, nil
}

// Resolve maps an id to its location without touching the filesystem.
//
// Fails with ErrInvalidID for malformed ids and ErrUnknownRoot if the tag is
// not registered.
func (c *Codec) Resolve(id document.ID) (Location, error) {
	tag, rel, err := Parse(id)
	if err != nil {
		return Location{}, err
	}

	root, err := c.reg.Lookup(tag)
	if err != nil {
		return Location{}, err
	}

	return Location{Root: root, Rel: rel, Path: root.Join(rel)}, nil
}

// ResolveExisting resolves id, creates the root directory if it is missing
// and verifies that the target exists.
//
// Fails with ErrNotFound if the resolved path does not exist.
func (c *Codec) ResolveExisting(id document.ID) (Location, os.FileInfo, error) {
	loc, err := c.Resolve(id)
	if err != nil {
		return Location{}, nil, err
	}

	if err := c.reg.EnsureMaterialized(loc.Root); err != nil {
		return Location{}, nil, err
	}

	info, err := c.reg.Fs().Stat(loc.Path)
	if err != nil {
		if IsMissing(err) {
			return Location{}, nil, document.NewError(document.ErrNotFound, "document not found", string(id))
		}
		return Location{}, nil, document.WrapError(document.ErrIO, "failed to stat document", string(id), err)
	}

	return loc, info, nil
}

// IsMissing reports whether a stat error means the path does not exist,
// including paths that run through a plain file.
func IsMissing(err error) bool {
	return os.IsNotExist(err) || errors.Is(err, syscall.ENOTDIR)
}

// Decode returns the filesystem path for id. See ResolveExisting.
func (c *Codec) Decode(id document.ID) (string, error) {
	loc, _, err := c.ResolveExisting(id)
	if err != nil {
		return "", err
	}
	return loc.Path, nil
}
