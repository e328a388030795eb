package oserror

import "errors"

var (
	// ErrNotFound is the sentinel for failures of kind [NotFound].
	ErrNotFound = errors.New("no such file or directory")

	// ErrAlreadyExists is the sentinel for failures of kind [AlreadyExists].
	ErrAlreadyExists = errors.New("file already exists")

	// ErrPermissionDenied is the sentinel for failures of kind [PermissionDenied].
	ErrPermissionDenied = errors.New("permission denied")

	// ErrBadDescriptor is the sentinel for failures of kind [BadDescriptor].
	ErrBadDescriptor = errors.New("bad file descriptor")

	// ErrIsADirectory is the sentinel for failures of kind [IsADirectory].
	ErrIsADirectory = errors.New("is a directory")

	// ErrNotADirectory is the sentinel for failures of kind [NotADirectory].
	ErrNotADirectory = errors.New("not a directory")

	// ErrInvalidArgument is the sentinel for failures of kind [InvalidArgument].
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTypeMismatch is the sentinel for failures of kind [TypeMismatch].
	ErrTypeMismatch = errors.New("value has no path representation")

	// ErrOther is the sentinel for the catch-all kind [Other].
	ErrOther = errors.New("os failure")

	// ErrFileClosed is the cause recorded when a closed handle is used.
	ErrFileClosed = errors.New("file already closed")
)
