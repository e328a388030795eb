package probe

import "errors"

var (
	// ErrCheckFailed is an error that occurs when an observed behavior of the
	// platform does not match the expected behavior of a check.
	ErrCheckFailed = errors.New("check failed")

	// ErrSkipped is returned by a check that cannot run on the platform,
	// for example when creating symlinks requires a privilege.
	ErrSkipped = errors.New("check skipped")
)

var errScopeProbe = errors.New("scope probe")
