// Package oserror translates native operating system failures into a small,
// platform-independent taxonomy of typed errors.
//
// The classification tables differ between POSIX-like and Windows-like
// systems, the [Kind] values do not. Every [Error] keeps the original native
// code for diagnostics, and unknown codes fall into [Other].
package oserror

import (
	"errors"
	"fmt"
	"syscall"
)

// Kind is the platform-independent class of a failure.
type Kind int

const (
	Other Kind = iota
	NotFound
	AlreadyExists
	PermissionDenied
	BadDescriptor
	IsADirectory
	NotADirectory
	InvalidArgument
	TypeMismatch
)

//nolint:gochecknoglobals
var kindNames = map[Kind]string{
	Other:            "os failure",
	NotFound:         "not found",
	AlreadyExists:    "already exists",
	PermissionDenied: "permission denied",
	BadDescriptor:    "bad descriptor",
	IsADirectory:     "is a directory",
	NotADirectory:    "not a directory",
	InvalidArgument:  "invalid argument",
	TypeMismatch:     "type mismatch",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinel returns the package-level sentinel error for the [Kind].
func (k Kind) Sentinel() error {
	switch k {
	case NotFound:
		return ErrNotFound
	case AlreadyExists:
		return ErrAlreadyExists
	case PermissionDenied:
		return ErrPermissionDenied
	case BadDescriptor:
		return ErrBadDescriptor
	case IsADirectory:
		return ErrIsADirectory
	case NotADirectory:
		return ErrNotADirectory
	case InvalidArgument:
		return ErrInvalidArgument
	case TypeMismatch:
		return ErrTypeMismatch
	case Other:
		return ErrOther
	}

	return ErrOther
}

// Error is the single error type surfaced by the layer. Code holds the
// native error number (errno or Win32 error), or zero when the failure was
// detected by the layer itself without a native code.
type Error struct {
	Op   string
	Path string
	Kind Kind
	Code syscall.Errno
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Err != nil {
		msg = e.Err.Error()
	}

	if e.Path != "" {
		return e.Op + " " + e.Path + ": " + msg
	}

	return e.Op + ": " + msg
}

// Unwrap exposes both the [Kind] sentinel and the native cause, so that
// errors.Is works with this package's sentinels as well as with [io/fs]
// errors through [syscall.Errno].
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.Sentinel()}
	}

	return []error{e.Kind.Sentinel(), e.Err}
}

// New classifies a native error code for the given operation.
func New(op, path string, code syscall.Errno) *Error {
	return &Error{
		Op:   op,
		Path: path,
		Kind: classify(code),
		Code: code,
		Err:  code,
	}
}

// Wrap maps any error returned from a native call into an [*Error]. A nil
// error stays nil and an [*Error] is returned unchanged. Errors without a
// native code are kept as the cause of an [Other] failure.
func Wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}

	var oe *Error
	if errors.As(err, &oe) {
		return oe
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		e := New(op, path, errno)
		e.Err = err

		return e
	}

	return &Error{
		Op:   op,
		Path: path,
		Kind: Other,
		Err:  err,
	}
}

// Invalid returns an [InvalidArgument] failure detected by the layer, carrying
// the platform's native invalid-argument code.
func Invalid(op, path string, reason string) *Error {
	return &Error{
		Op:   op,
		Path: path,
		Kind: InvalidArgument,
		Code: codeInvalid,
		Err:  fmt.Errorf("%w: %s", ErrInvalidArgument, reason),
	}
}

// NotDir returns the [NotADirectory] failure for a path that exists but is
// not a directory where one is required.
func NotDir(op, path string) *Error {
	return New(op, path, codeNotADirectory)
}

// Closed returns the [BadDescriptor] failure for use of a closed handle.
func Closed(op, path string) *Error {
	return &Error{
		Op:   op,
		Path: path,
		Kind: BadDescriptor,
		Code: codeBadDescriptor,
		Err:  ErrFileClosed,
	}
}

// Mismatch returns a [TypeMismatch] failure for a value that has no path
// representation.
func Mismatch(op string, value any) *Error {
	return &Error{
		Op:   op,
		Kind: TypeMismatch,
		Err:  fmt.Errorf("%w: expected string, []byte or PathLike, got %T", ErrTypeMismatch, value),
	}
}

// KindOf returns the [Kind] of err, or [Other] if err is not an [*Error].
func KindOf(err error) Kind {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind
	}

	return Other
}

// CodeOf returns the native code carried by err, or zero.
func CodeOf(err error) syscall.Errno {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Code
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}

	return 0
}

// Is reports whether err is an [*Error] of the given [Kind].
func Is(err error, kind Kind) bool {
	var oe *Error

	return errors.As(err, &oe) && oe.Kind == kind
}
