package configuration

import "errors"

// ErrInvalidValue is an error that occurs when a configuration key is set
// to a value that cannot be converted into its setting.
var ErrInvalidValue = errors.New("invalid configuration value")
