package document

import (
	"errors"
	"fmt"
)

// Error is the typed failure returned by every provider operation.
//
// Errors are reported once, synchronously, to the caller of the failing
// operation. Hosts translate Code into whatever their own surface expects
// (e.g. "file not found" exceptions, HTTP statuses).
type Error struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Path is the filesystem path or document id related to the error (if any)
	Path string

	// Cause is the underlying error, if one exists
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
// This allows errors.Is(err, &document.Error{Code: document.ErrNotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// ErrorCode represents the category of a provider error.
type ErrorCode int

const (
	// ErrConfig indicates the root configuration is malformed
	ErrConfig ErrorCode = iota + 1

	// ErrUnknownRoot indicates a document id names a tag that is not registered
	ErrUnknownRoot

	// ErrNoContainingRoot indicates a path lies outside every configured root
	ErrNoContainingRoot

	// ErrNotFound indicates the resolved path does not exist (or is not the
	// kind of entry the operation needs)
	ErrNotFound

	// ErrIO indicates an underlying open/read/write/stat failure
	ErrIO

	// ErrInvalidID indicates a malformed or non-canonical document id,
	// including ids that would escape their root
	ErrInvalidID

	// ErrReadOnly indicates a write was attempted on a read-only root
	ErrReadOnly

	// ErrInvalidArgument indicates invalid parameters, e.g. an unknown open mode
	ErrInvalidArgument
)

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	switch c {
	case ErrConfig:
		return "ConfigError"
	case ErrUnknownRoot:
		return "UnknownRootError"
	case ErrNoContainingRoot:
		return "NoContainingRootError"
	case ErrNotFound:
		return "NotFoundError"
	case ErrIO:
		return "IoError"
	case ErrInvalidID:
		return "InvalidIdError"
	case ErrReadOnly:
		return "ReadOnlyError"
	case ErrInvalidArgument:
		return "InvalidArgumentError"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(c))
	}
}

// NewError creates an *Error with the given code.
func NewError(code ErrorCode, message, path string) *Error {
	return &Error{Code: code, Message: message, Path: path}
}

// WrapError creates an *Error with the given code wrapping cause.
func WrapError(code ErrorCode, message, path string, cause error) *Error {
	return &Error{Code: code, Message: message, Path: path, Cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, or 0.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return 0
}

func IsConfig(err error) bool           { return CodeOf(err) == ErrConfig }
func IsUnknownRoot(err error) bool      { return CodeOf(err) == ErrUnknownRoot }
func IsNoContainingRoot(err error) bool { return CodeOf(err) == ErrNoContainingRoot }
func IsNotFound(err error) bool         { return CodeOf(err) == ErrNotFound }
func IsIO(err error) bool               { return CodeOf(err) == ErrIO }
func IsInvalidID(err error) bool        { return CodeOf(err) == ErrInvalidID }
func IsReadOnly(err error) bool         { return CodeOf(err) == ErrReadOnly }
func IsInvalidArgument(err error) bool  { return CodeOf(err) == ErrInvalidArgument }
