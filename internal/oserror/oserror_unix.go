//go:build unix

package oserror

import (
	"syscall"

	"golang.org/x/sys/unix"
)

const (
	codeInvalid       = unix.EINVAL
	codeBadDescriptor = unix.EBADF
	codeNotADirectory = unix.ENOTDIR
)

func classify(code syscall.Errno) Kind {
	switch code {
	case unix.ENOENT:
		return NotFound
	case unix.EEXIST:
		return AlreadyExists
	case unix.EACCES, unix.EPERM, unix.EROFS:
		return PermissionDenied
	case unix.EBADF:
		return BadDescriptor
	case unix.EISDIR:
		return IsADirectory
	case unix.ENOTDIR:
		return NotADirectory
	case unix.EINVAL, unix.ENAMETOOLONG:
		return InvalidArgument
	default:
		return Other
	}
}
