package billyfs

import (
	"github.com/desertwitch/osbridge/internal/filesystem"
	"github.com/go-git/go-billy/v5"
)

// file adapts a [filesystem.File] to [billy.File]. Reads, writes, seeks and
// truncation go straight to the layer; locking is not offered.
type file struct {
	*filesystem.File

	name string
}

var _ billy.File = (*file)(nil)

// Name returns the name the file was opened with.
func (f *file) Name() string {
	return f.name
}

func (f *file) Read(p []byte) (int, error) {
	n, err := f.File.Read(p)

	return n, toPathError(err)
}

func (f *file) ReadAt(p []byte, off int64) (int, error) {
	n, err := f.File.ReadAt(p, off)

	return n, toPathError(err)
}

func (f *file) Write(p []byte) (int, error) {
	n, err := f.File.Write(p)

	return n, toPathError(err)
}

func (f *file) Seek(offset int64, whence int) (int64, error) {
	pos, err := f.File.Seek(offset, whence)

	return pos, toPathError(err)
}

func (f *file) Truncate(size int64) error {
	return toPathError(f.File.Truncate(size))
}

func (f *file) Close() error {
	return toPathError(f.File.Close())
}

func (f *file) Lock() error {
	return billy.ErrNotSupported
}

func (f *file) Unlock() error {
	return billy.ErrNotSupported
}
