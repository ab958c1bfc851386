// Package describer builds metadata entries for single documents.
package describer

import (
	"os"
	"path/filepath"
	"time"

	"github.com/marmos91/docroots/pkg/codec"
	"github.com/marmos91/docroots/pkg/document"
	"github.com/marmos91/docroots/pkg/mimetypes"
)

// DefaultMtimeThreshold is the default plausibility threshold for
// modification times: anything not strictly after epoch plus one year is
// treated as a bogus timestamp and omitted.
const DefaultMtimeThreshold = 365 * 24 * time.Hour

// Target names the document to describe. It is either KnownID or KnownPath.
type Target interface {
	target()
}

// KnownID describes a document the caller already has an id for.
type KnownID struct {
	ID document.ID
}

// KnownPath describes a filesystem entry that has no id yet, typically a
// child just returned by a directory listing.
type KnownPath struct {
	Path string
}

func (KnownID) target()   {}
func (KnownPath) target() {}

// Describer turns filesystem entries into document.Entry rows.
type Describer struct {
	codec     *codec.Codec
	mime      mimetypes.Resolver
	threshold time.Duration
}

// Option configures a Describer.
type Option func(*Describer)

// WithMimeResolver replaces the default MIME resolver.
func WithMimeResolver(r mimetypes.Resolver) Option {
	return func(d *Describer) {
		if r != nil {
			d.mime = r
		}
	}
}

// WithMtimeThreshold replaces DefaultMtimeThreshold.
func WithMtimeThreshold(threshold time.Duration) Option {
	return func(d *Describer) {
		d.threshold = threshold
	}
}

// New creates a describer resolving ids with c.
func New(c *codec.Codec, opts ...Option) *Describer {
	d := &Describer{
		codec:     c,
		mime:      mimetypes.Default,
		threshold: DefaultMtimeThreshold,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Describe builds the entry for t.
//
// For KnownID the id is decoded (creating the root directory if needed) and
// a missing target fails with ErrNotFound. For KnownPath the id is derived
// from the path and a path outside every root fails with
// ErrNoContainingRoot.
func (d *Describer) Describe(t Target) (*document.Entry, error) {
	var (
		loc  codec.Location
		info os.FileInfo
		err  error
	)

	switch t := t.(type) {
	case KnownID:
		loc, info, err = d.codec.ResolveExisting(t.ID)
		if err != nil {
			return nil, err
		}

	case KnownPath:
		loc, err = d.codec.Locate(t.Path)
		if err != nil {
			return nil, err
		}
		info, err = d.codec.Registry().Fs().Stat(loc.Path)
		if err != nil {
			if codec.IsMissing(err) {
				return nil, document.NewError(document.ErrNotFound, "document not found", loc.Path)
			}
			return nil, document.WrapError(document.ErrIO, "failed to stat document", loc.Path, err)
		}

	default:
		return nil, document.NewError(document.ErrInvalidArgument, "unknown describe target", "")
	}

	return d.entry(loc, info), nil
}

func (d *Describer) entry(loc codec.Location, info os.FileInfo) *document.Entry {
	name := filepath.Base(loc.Path)
	entry := &document.Entry{
		ID:          loc.ID(),
		DisplayName: name,
		Size:        info.Size(),
		MimeType:    d.mimeType(name, info),
	}

	if !loc.Root.ReadOnly && writable(info) {
		if info.IsDir() {
			entry.Flags |= document.FlagDirSupportsCreate
		} else {
			entry.Flags |= document.FlagSupportsWrite
		}
		entry.Flags |= document.FlagSupportsDelete
	}

	if mtime := info.ModTime(); d.plausible(mtime) {
		entry.LastModified = &mtime
	}

	return entry
}

func (d *Describer) mimeType(name string, info os.FileInfo) string {
	if info.IsDir() {
		return document.MimeTypeDirectory
	}
	if t := mimetypes.ForName(d.mime, name); t != "" {
		return t
	}
	return document.MimeTypeOctetStream
}

func (d *Describer) plausible(mtime time.Time) bool {
	return mtime.After(time.Unix(0, 0).Add(d.threshold))
}
