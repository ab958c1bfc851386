package registry

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/marmos91/docroots/pkg/document"
	"github.com/spf13/afero"
)

// Registry holds the set of configured roots, keyed by tag.
//
// The registry is built once by NewRegistry and never mutated afterwards, so
// lookups need no locking. The only side effect it performs is creating a
// root's base directory on first access (see EnsureMaterialized), which is
// idempotent and safe to race.
//
// Example usage:
//
//	reg, err := NewRegistry(afero.NewOsFs(), []RootConfig{
//	    {Tag: "docs", Path: "/srv/docs"},
//	})
//
//	root, _ := reg.Lookup("docs")
//	path, _ := reg.ResolveTag("docs") // creates /srv/docs if missing
type Registry struct {
	fs     afero.Fs
	roots  map[string]*Root
	sorted []*Root
}

// NewRegistry validates configs and builds an immutable registry.
//
// An empty config list is valid and yields a registry with zero roots.
// Returns an ErrConfig error if a tag is empty or contains ':', a path is
// not absolute, or two roots share a tag or a base directory.
func NewRegistry(fs afero.Fs, configs []RootConfig) (*Registry, error) {
	if fs == nil {
		return nil, fmt.Errorf("cannot create registry with nil filesystem")
	}

	r := &Registry{
		fs:    fs,
		roots: make(map[string]*Root, len(configs)),
	}
	paths := make(map[string]string, len(configs))

	for i, cfg := range configs {
		if cfg.Tag == "" {
			return nil, document.NewError(document.ErrConfig, fmt.Sprintf("root #%d has an empty tag", i), "")
		}
		if strings.Contains(cfg.Tag, document.Separator) {
			return nil, document.NewError(document.ErrConfig, fmt.Sprintf("root tag %q must not contain %q", cfg.Tag, document.Separator), "")
		}
		if !filepath.IsAbs(cfg.Path) {
			return nil, document.NewError(document.ErrConfig, fmt.Sprintf("root %q path must be absolute", cfg.Tag), cfg.Path)
		}
		if _, exists := r.roots[cfg.Tag]; exists {
			return nil, document.NewError(document.ErrConfig, fmt.Sprintf("root %q already registered", cfg.Tag), "")
		}

		clean := filepath.Clean(cfg.Path)
		if other, exists := paths[clean]; exists {
			return nil, document.NewError(document.ErrConfig, fmt.Sprintf("roots %q and %q share a base directory", other, cfg.Tag), clean)
		}
		paths[clean] = cfg.Tag

		title := cfg.Title
		if title == "" {
			title = cfg.Tag
		}

		root := &Root{
			Tag:      cfg.Tag,
			Path:     clean,
			Title:    title,
			Icon:     cfg.Icon,
			ReadOnly: cfg.ReadOnly,
			segments: splitPath(clean),
		}
		r.roots[root.Tag] = root
		r.sorted = append(r.sorted, root)
	}

	sort.Slice(r.sorted, func(i, j int) bool {
		return r.sorted[i].Tag < r.sorted[j].Tag
	})

	return r, nil
}

// Fs returns the filesystem the registry materializes roots on.
func (r *Registry) Fs() afero.Fs {
	return r.fs
}

// Len returns the number of configured roots.
func (r *Registry) Len() int {
	return len(r.sorted)
}

// Roots returns all roots ordered by tag.
func (r *Registry) Roots() []*Root {
	out := make([]*Root, len(r.sorted))
	copy(out, r.sorted)
	return out
}

// Lookup returns the root registered under tag without touching the filesystem.
func (r *Registry) Lookup(tag string) (*Root, error) {
	root, ok := r.roots[tag]
	if !ok {
		return nil, document.NewError(document.ErrUnknownRoot, fmt.Sprintf("root %q not found", tag), "")
	}
	return root, nil
}

// EnsureMaterialized creates the root's base directory if it does not exist.
// Concurrent callers for the same root all succeed.
func (r *Registry) EnsureMaterialized(root *Root) error {
	if err := r.fs.MkdirAll(root.Path, 0755); err != nil {
		return document.WrapError(document.ErrIO, fmt.Sprintf("failed to create base directory for root %q", root.Tag), root.Path, err)
	}

	// Some filesystems report success when a plain file already sits there
	isDir, err := afero.IsDir(r.fs, root.Path)
	if err != nil {
		return document.WrapError(document.ErrIO, fmt.Sprintf("failed to stat base directory for root %q", root.Tag), root.Path, err)
	}
	if !isDir {
		return document.NewError(document.ErrIO, fmt.Sprintf("base directory for root %q is not a directory", root.Tag), root.Path)
	}
	return nil
}

// ResolveTag returns the base directory of tag, creating it on disk if missing.
func (r *Registry) ResolveTag(tag string) (string, error) {
	root, err := r.Lookup(tag)
	if err != nil {
		return "", err
	}
	if err := r.EnsureMaterialized(root); err != nil {
		return "", err
	}
	return root.Path, nil
}

// ResolvePath returns the most specific root containing path.
//
// When roots are nested, the one with the deepest base directory wins.
// Returns ErrNoContainingRoot if path is relative or outside every root.
func (r *Registry) ResolvePath(path string) (*Root, error) {
	if !filepath.IsAbs(path) {
		return nil, document.NewError(document.ErrNoContainingRoot, "path is not absolute", path)
	}

	var best *Root
	for _, root := range r.sorted {
		if _, ok := root.Rel(path); !ok {
			continue
		}
		if best == nil || len(root.segments) > len(best.segments) {
			best = root
		}
	}

	if best == nil {
		return nil, document.NewError(document.ErrNoContainingRoot, "path is not under any configured root", path)
	}
	return best, nil
}
