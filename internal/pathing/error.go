package pathing

import "errors"

// ErrNotText is an error that occurs when raw path bytes cannot be decoded
// in the platform's text encoding.
var ErrNotText = errors.New("path is not valid text for this platform")
