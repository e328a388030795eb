//go:build unix

package schema

import "golang.org/x/sys/unix"

const (
	O_CREAT  OpenFlags = unix.O_CREAT  //nolint:revive,stylecheck
	O_EXCL   OpenFlags = unix.O_EXCL   //nolint:revive,stylecheck
	O_APPEND OpenFlags = unix.O_APPEND //nolint:revive,stylecheck
	O_TRUNC  OpenFlags = unix.O_TRUNC  //nolint:revive,stylecheck
)
