// Package platform holds the two native variants of the layer, one for
// POSIX-like and one for Windows-like systems, behind the [Native]
// interface. The variant is chosen at build time and returned by [Current];
// it is never re-probed per call.
//
// Native methods return raw operating system errors. Mapping them into the
// typed taxonomy is left to the callers through the oserror package.
package platform

import (
	"io/fs"

	"github.com/desertwitch/osbridge/internal/schema"
)

// Descriptor is an opaque native file descriptor or handle.
type Descriptor uintptr

// InvalidDescriptor is the value of a descriptor that refers to nothing.
const InvalidDescriptor = ^Descriptor(0)

// DirStream reads directory entries in batches, in the order the operating
// system reports them.
type DirStream interface {
	ReadDir(n int) ([]fs.DirEntry, error)
	Close() error
}

// Native is the set of primitives one platform variant provides.
type Native interface {
	Name() string

	Open(path string, flags schema.OpenFlags, perm uint32) (Descriptor, error)
	OpenAt(dir Descriptor, name string, flags schema.OpenFlags, perm uint32) (Descriptor, error)
	Read(fd Descriptor, p []byte) (int, error)
	Pread(fd Descriptor, p []byte, offset int64) (int, error)
	Write(fd Descriptor, p []byte) (int, error)
	Seek(fd Descriptor, offset int64, whence int) (int64, error)
	Sync(fd Descriptor) error
	Truncate(fd Descriptor, size int64) error
	Close(fd Descriptor) error

	Stat(path string, follow bool) (*schema.Metadata, error)
	StatAt(dir Descriptor, name string, follow bool) (*schema.Metadata, error)
	Fstat(fd Descriptor) (*schema.Metadata, error)

	Rename(oldpath, newpath string) error
	Mkdir(path string, perm uint32) error
	MkdirAt(dir Descriptor, name string, perm uint32) error
	Symlink(target, link string) error
	Readlink(path string) (string, error)
	Remove(path string) error
	Rmdir(path string) error
	OpenDir(path string) (DirStream, error)

	Getwd() (string, error)
	Chdir(path string) error
	Fchdir(fd Descriptor) error

	Getenv(key string) (string, bool)
	Setenv(key, value string) error
	Unsetenv(key string) error
	Environ() []string
}

// Current returns the variant compiled for the running platform.
//
//nolint:ireturn
func Current() Native {
	return current
}
