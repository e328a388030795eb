//go:build windows

package oserror

import (
	"syscall"

	"golang.org/x/sys/windows"
)

const (
	codeInvalid       = windows.ERROR_INVALID_PARAMETER
	codeBadDescriptor = windows.ERROR_INVALID_HANDLE
	codeNotADirectory = windows.ERROR_DIRECTORY
)

func classify(code syscall.Errno) Kind {
	switch code {
	case windows.ERROR_FILE_NOT_FOUND, windows.ERROR_PATH_NOT_FOUND,
		windows.ERROR_INVALID_DRIVE, windows.ERROR_BAD_NETPATH, windows.ERROR_BAD_NET_NAME:
		return NotFound
	case windows.ERROR_FILE_EXISTS, windows.ERROR_ALREADY_EXISTS:
		return AlreadyExists
	case windows.ERROR_ACCESS_DENIED, windows.ERROR_SHARING_VIOLATION,
		windows.ERROR_LOCK_VIOLATION, windows.ERROR_PRIVILEGE_NOT_HELD:
		return PermissionDenied
	case windows.ERROR_INVALID_HANDLE:
		return BadDescriptor
	case windows.ERROR_DIRECTORY_NOT_SUPPORTED:
		return IsADirectory
	case windows.ERROR_DIRECTORY:
		return NotADirectory
	case windows.ERROR_INVALID_PARAMETER, windows.ERROR_INVALID_NAME,
		windows.ERROR_FILENAME_EXCED_RANGE, windows.ERROR_NEGATIVE_SEEK:
		return InvalidArgument
	default:
		return Other
	}
}
