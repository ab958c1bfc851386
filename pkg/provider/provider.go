// Package provider exposes configured roots as a tree of documents
// addressed by opaque ids.
//
// A Provider answers the calls a document-browsing host makes: list the
// roots, describe a document, list a directory, open a document for reading
// or writing. Real filesystem paths never leave the package boundary; every
// entry is identified by a "<tag>:<relativePath>" id.
//
// The Provider holds no mutable state besides the journal it records write
// completions in, so it is safe for concurrent use. Concurrent writers to the
// same document race at the filesystem level exactly as two processes would.
package provider

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/marmos91/docroots/internal/logger"
	"github.com/marmos91/docroots/pkg/codec"
	"github.com/marmos91/docroots/pkg/describer"
	"github.com/marmos91/docroots/pkg/document"
	"github.com/marmos91/docroots/pkg/journal"
	"github.com/marmos91/docroots/pkg/mimetypes"
	"github.com/marmos91/docroots/pkg/registry"
)

// Options configures a Provider.
type Options struct {
	// PropagateCloseErrors makes WriteHandle.Close return the underlying
	// close error. By default the error is logged, recorded in the journal
	// and swallowed.
	PropagateCloseErrors bool

	// MtimeThreshold overrides describer.DefaultMtimeThreshold when non-zero.
	MtimeThreshold time.Duration

	// MimeResolver overrides mimetypes.Default when non-nil.
	MimeResolver mimetypes.Resolver

	// Journal receives one Completion per closed write handle.
	// Defaults to journal.Discard.
	Journal journal.Journal

	// OnWriteComplete, if set, is called after each completion is recorded.
	OnWriteComplete func(journal.Completion)
}

// Provider implements the document tree over a registry.
type Provider struct {
	reg       *registry.Registry
	codec     *codec.Codec
	describer *describer.Describer
	journal   journal.Journal
	opts      Options
}

// New creates a provider serving the roots in reg.
func New(reg *registry.Registry, opts Options) *Provider {
	c := codec.New(reg)

	var dopts []describer.Option
	if opts.MimeResolver != nil {
		dopts = append(dopts, describer.WithMimeResolver(opts.MimeResolver))
	}
	if opts.MtimeThreshold != 0 {
		dopts = append(dopts, describer.WithMtimeThreshold(opts.MtimeThreshold))
	}

	j := opts.Journal
	if j == nil {
		j = journal.Discard
	}

	return &Provider{
		reg:       reg,
		codec:     c,
		describer: describer.New(c, dopts...),
		journal:   j,
		opts:      opts,
	}
}

// Registry returns the registry the provider serves.
func (p *Provider) Registry() *registry.Registry {
	return p.reg
}

// Journal returns the journal write completions are recorded in.
func (p *Provider) Journal() journal.Journal {
	return p.journal
}

// ListRoots returns one summary per configured root, ordered by tag.
// A provider without roots returns an empty slice.
func (p *Provider) ListRoots() []document.RootSummary {
	roots := p.reg.Roots()
	out := make([]document.RootSummary, 0, len(roots))
	for _, root := range roots {
		out = append(out, root.Summary())
	}
	return out
}

// DescribeDocument returns the entry for id.
func (p *Provider) DescribeDocument(ctx context.Context, id document.ID) (*document.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.describer.Describe(describer.KnownID{ID: id})
}

// ListChildren returns the entries directly inside the directory parent,
// ordered by name.
//
// Fails with ErrNotFound if parent does not exist or is not a directory.
// Children that disappear while the listing is built are skipped.
func (p *Provider) ListChildren(ctx context.Context, parent document.ID) ([]*document.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loc, info, err := p.codec.ResolveExisting(parent)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, document.NewError(document.ErrNotFound, "document is not a directory", string(parent))
	}

	f, err := p.reg.Fs().Open(loc.Path)
	if err != nil {
		return nil, document.WrapError(document.ErrIO, "failed to open directory", string(parent), err)
	}
	defer func() { _ = f.Close() }()

	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, document.WrapError(document.ErrIO, "failed to read directory", string(parent), err)
	}
	sort.Strings(names)

	entries := make([]*document.Entry, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, err := p.describer.Describe(describer.KnownPath{Path: filepath.Join(loc.Path, name)})
		if err != nil {
			if document.IsNotFound(err) {
				logger.Debug("ListChildren: %s vanished during listing of %s", name, parent)
				continue
			}
			return nil, err
		}
		entries = append(entries, entry)
	}

	logger.Debug("ListChildren: parent=%s entries=%d", parent, len(entries))
	return entries, nil
}

// IsChildDocument reports whether child lies below parent. Only the ids are
// compared; the filesystem is not consulted.
func (p *Provider) IsChildDocument(parent, child document.ID) bool {
	return codec.IsChild(parent, child)
}

// resolveFile resolves id to an existing non-directory location.
func (p *Provider) resolveFile(id document.ID) (codec.Location, os.FileInfo, error) {
	loc, info, err := p.codec.ResolveExisting(id)
	if err != nil {
		return codec.Location{}, nil, err
	}
	if info.IsDir() {
		return codec.Location{}, nil, document.NewError(document.ErrInvalidArgument, "cannot open a directory", string(id))
	}
	return loc, info, nil
}
