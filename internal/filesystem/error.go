package filesystem

import "errors"

var (
	// ErrHashMismatch is an error that occurs when the checksum of a copied
	// file does not match the checksum of its source.
	ErrHashMismatch = errors.New("hash mismatch")

	// ErrShortWrite is an error that occurs when the operating system accepts
	// zero bytes of a write without reporting a failure.
	ErrShortWrite = errors.New("short write")
)
