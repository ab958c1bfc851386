package provider

import (
	"context"
	"fmt"
	"os"

	"github.com/marmos91/docroots/internal/logger"
	"github.com/marmos91/docroots/pkg/document"
	"github.com/spf13/afero"
)

// OpenMode is a parsed open mode string.
//
// Accepted strings:
//
//	"r"    read only
//	"w"    write only, truncate
//	"wt"   write only, truncate
//	"wa"   write only, append
//	"rw"   read and write
//	"rwt"  read and write, truncate
type OpenMode struct {
	raw  string
	flag int
}

var openModes = map[string]int{
	"r":   os.O_RDONLY,
	"w":   os.O_WRONLY | os.O_CREATE | os.O_TRUNC,
	"wt":  os.O_WRONLY | os.O_CREATE | os.O_TRUNC,
	"wa":  os.O_WRONLY | os.O_CREATE | os.O_APPEND,
	"rw":  os.O_RDWR | os.O_CREATE,
	"rwt": os.O_RDWR | os.O_CREATE | os.O_TRUNC,
}

// ParseMode parses an open mode string.
// Unknown strings fail with ErrInvalidArgument.
func ParseMode(mode string) (OpenMode, error) {
	flag, ok := openModes[mode]
	if !ok {
		return OpenMode{}, document.NewError(document.ErrInvalidArgument, fmt.Sprintf("invalid open mode %q", mode), "")
	}
	return OpenMode{raw: mode, flag: flag}, nil
}

// MustParseMode is like ParseMode but panics on invalid input.
func MustParseMode(mode string) OpenMode {
	m, err := ParseMode(mode)
	if err != nil {
		panic(err)
	}
	return m
}

func (m OpenMode) String() string { return m.raw }

// Flag returns the os.OpenFile flags for the mode.
func (m OpenMode) Flag() int { return m.flag }

// IsWrite reports whether the mode grants write access.
func (m OpenMode) IsWrite() bool { return m.flag&(os.O_WRONLY|os.O_RDWR) != 0 }

// Truncate reports whether opening discards existing content.
func (m OpenMode) Truncate() bool { return m.flag&os.O_TRUNC != 0 }

// Append reports whether writes go to the end of the file.
func (m OpenMode) Append() bool { return m.flag&os.O_APPEND != 0 }

// OpenForRead opens an existing file read-only.
//
// Fails with ErrNotFound if the document does not exist and with
// ErrInvalidArgument if it is a directory.
func (p *Provider) OpenForRead(ctx context.Context, id document.ID) (afero.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	loc, _, err := p.resolveFile(id)
	if err != nil {
		return nil, err
	}

	f, err := p.reg.Fs().Open(loc.Path)
	if err != nil {
		return nil, document.WrapError(document.ErrIO, "failed to open document", string(id), err)
	}

	logger.Debug("OpenForRead: %s", id)
	return f, nil
}

// OpenForWrite opens an existing file for writing.
//
// Closing the returned handle records a completion in the journal. Fails
// with ErrInvalidArgument if mode is not a write mode or the document is a
// directory, ErrReadOnly on read-only roots and ErrNotFound if the document
// does not exist.
func (p *Provider) OpenForWrite(ctx context.Context, id document.ID, mode OpenMode) (*WriteHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !mode.IsWrite() {
		return nil, document.NewError(document.ErrInvalidArgument, fmt.Sprintf("open mode %q does not grant write access", mode), string(id))
	}

	loc, err := p.codec.Resolve(id)
	if err != nil {
		return nil, err
	}
	if loc.Root.ReadOnly {
		return nil, document.NewError(document.ErrReadOnly, fmt.Sprintf("root %q is read-only", loc.Root.Tag), string(id))
	}

	loc, _, err = p.resolveFile(id)
	if err != nil {
		return nil, err
	}

	f, err := p.reg.Fs().OpenFile(loc.Path, mode.Flag(), 0644)
	if err != nil {
		return nil, document.WrapError(document.ErrIO, "failed to open document for writing", string(id), err)
	}

	logger.Debug("OpenForWrite: %s mode=%s", id, mode)
	return newWriteHandle(p, f, id, mode), nil
}

// OpenDocument opens id with a mode string. Write modes return a
// *WriteHandle.
func (p *Provider) OpenDocument(ctx context.Context, id document.ID, mode string) (afero.File, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}
	if m.IsWrite() {
		h, err := p.OpenForWrite(ctx, id, m)
		if err != nil {
			// A nil *WriteHandle must not escape as a non-nil afero.File
			return nil, err
		}
		return h, nil
	}
	return p.OpenForRead(ctx, id)
}
