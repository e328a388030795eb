//go:build windows

package schema

// Values of the C runtime's _O_* constants.
const (
	O_APPEND OpenFlags = 0x0008 //nolint:revive,stylecheck
	O_CREAT  OpenFlags = 0x0100 //nolint:revive,stylecheck
	O_TRUNC  OpenFlags = 0x0200 //nolint:revive,stylecheck
	O_EXCL   OpenFlags = 0x0400 //nolint:revive,stylecheck
)
