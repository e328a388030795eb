package scoped

import "errors"

// ErrEmptyBase is an error that occurs when a temporary directory is
// requested without a base directory.
var ErrEmptyBase = errors.New("empty base directory")
