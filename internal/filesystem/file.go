package filesystem

import (
	"fmt"
	"io"
	"runtime"
	"sync/atomic"

	"github.com/desertwitch/osbridge/internal/oserror"
	"github.com/desertwitch/osbridge/internal/platform"
	"github.com/desertwitch/osbridge/internal/schema"
)

// File owns exactly one open native descriptor. Once closed, every method
// fails with a [oserror.BadDescriptor] error without touching the operating
// system, so a descriptor number reused by a later open is never affected.
//
// A File is not safe for concurrent use, except for racing Close calls.
type File struct {
	fd     atomic.Uintptr
	native platform.Native
	name   string
	flags  schema.Decoded
}

var (
	_ io.ReadWriteCloser = (*File)(nil)
	_ io.Seeker          = (*File)(nil)
	_ io.ReaderAt        = (*File)(nil)
)

func newFile(native platform.Native, fd platform.Descriptor, name string, flags schema.Decoded) *File {
	f := &File{
		native: native,
		name:   name,
		flags:  flags,
	}
	f.fd.Store(uintptr(fd))

	runtime.SetFinalizer(f, (*File).finalize)

	return f
}

// finalize releases a descriptor that was never closed.
func (f *File) finalize() {
	fd := platform.Descriptor(f.fd.Swap(uintptr(platform.InvalidDescriptor)))
	if fd != platform.InvalidDescriptor {
		_ = f.native.Close(fd)
	}
}

func (f *File) descriptor(op string) (platform.Descriptor, error) {
	if f == nil {
		return platform.InvalidDescriptor, oserror.Closed(op, "")
	}

	fd := platform.Descriptor(f.fd.Load())
	if fd == platform.InvalidDescriptor {
		return fd, oserror.Closed(op, f.name)
	}

	return fd, nil
}

// Name returns the path the file was opened with.
func (f *File) Name() string {
	return f.name
}

// Fd returns the native descriptor, or [platform.InvalidDescriptor] once the
// file is closed.
func (f *File) Fd() platform.Descriptor {
	return platform.Descriptor(f.fd.Load())
}

// Access returns the access mode the file was opened with.
func (f *File) Access() schema.Access {
	return f.flags.Access
}

// Appending reports whether every write lands at the end of the file.
func (f *File) Appending() bool {
	return f.flags.Append
}

// Read reads up to len(p) bytes. At end of file it returns 0 and [io.EOF].
func (f *File) Read(p []byte) (int, error) {
	fd, err := f.descriptor("read")
	if err != nil {
		return 0, err
	}

	if len(p) == 0 {
		return 0, nil
	}

	n, err := f.native.Read(fd, p)
	if err != nil {
		return max(n, 0), oserror.Wrap("read", f.name, err)
	}

	if n == 0 {
		return 0, io.EOF
	}

	return n, nil
}

// ReadN reads up to maxBytes bytes. Fewer bytes are returned near the end of
// the file and an empty, non-nil slice at end of file.
func (f *File) ReadN(maxBytes int) ([]byte, error) {
	if maxBytes < 0 {
		return nil, oserror.Invalid("read", f.name, fmt.Sprintf("negative read size %d", maxBytes))
	}

	buf := make([]byte, maxBytes)

	n, err := f.Read(buf)
	if err == io.EOF { //nolint:errorlint
		return buf[:0], nil
	}
	if err != nil {
		return nil, err
	}

	return buf[:n], nil
}

// ReadAt reads len(p) bytes starting at offset without moving the file
// position. Fewer bytes are only returned together with an error.
func (f *File) ReadAt(p []byte, offset int64) (int, error) {
	fd, err := f.descriptor("pread")
	if err != nil {
		return 0, err
	}

	if offset < 0 {
		return 0, oserror.Invalid("pread", f.name, fmt.Sprintf("negative offset %d", offset))
	}

	var total int
	for total < len(p) {
		n, err := f.native.Pread(fd, p[total:], offset+int64(total))
		if err != nil {
			return total, oserror.Wrap("pread", f.name, err)
		}
		if n == 0 {
			return total, io.EOF
		}
		total += n
	}

	return total, nil
}

// Write writes all of p, looping over partial writes. A handle opened for
// appending writes at the end of the file regardless of earlier seeks.
func (f *File) Write(p []byte) (int, error) {
	fd, err := f.descriptor("write")
	if err != nil {
		return 0, err
	}

	var total int
	for total < len(p) {
		n, err := f.native.Write(fd, p[total:])
		if err != nil {
			return total, oserror.Wrap("write", f.name, err)
		}
		if n <= 0 {
			return total, oserror.Wrap("write", f.name, ErrShortWrite)
		}
		total += n
	}

	return total, nil
}

// WriteString is like [File.Write] with a string.
func (f *File) WriteString(s string) (int, error) {
	return f.Write([]byte(s))
}

// Seek sets the file position for the next read or write.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	fd, err := f.descriptor("seek")
	if err != nil {
		return 0, err
	}

	switch whence {
	case io.SeekStart, io.SeekCurrent, io.SeekEnd:
	default:
		return 0, oserror.Invalid("seek", f.name, fmt.Sprintf("invalid whence %d", whence))
	}

	pos, err := f.native.Seek(fd, offset, whence)
	if err != nil {
		return 0, oserror.Wrap("seek", f.name, err)
	}

	return pos, nil
}

// Sync flushes file data and metadata to the storage device.
func (f *File) Sync() error {
	fd, err := f.descriptor("sync")
	if err != nil {
		return err
	}

	if err := f.native.Sync(fd); err != nil {
		return oserror.Wrap("sync", f.name, err)
	}

	return nil
}

// Truncate changes the size of the file without moving the file position.
func (f *File) Truncate(size int64) error {
	fd, err := f.descriptor("truncate")
	if err != nil {
		return err
	}

	if size < 0 {
		return oserror.Invalid("truncate", f.name, fmt.Sprintf("negative size %d", size))
	}

	if err := f.native.Truncate(fd, size); err != nil {
		return oserror.Wrap("truncate", f.name, err)
	}

	return nil
}

// Stat returns fresh metadata for the open file.
func (f *File) Stat() (*schema.Metadata, error) {
	fd, err := f.descriptor("fstat")
	if err != nil {
		return nil, err
	}

	md, err := f.native.Fstat(fd)
	if err != nil {
		return nil, oserror.Wrap("fstat", f.name, err)
	}
	md.Path = f.name

	return md, nil
}

// Chdir makes the open directory the working directory. It is only
// available where the platform accepts a descriptor for chdir.
func (f *File) Chdir() error {
	fd, err := f.descriptor("fchdir")
	if err != nil {
		return err
	}

	if !platform.Caps().SupportsFD.Contains(platform.OpChdir) {
		return oserror.Invalid("fchdir", f.name, "descriptor chdir is not supported on "+f.native.Name())
	}

	if err := f.native.Fchdir(fd); err != nil {
		return oserror.Wrap("fchdir", f.name, err)
	}

	return nil
}

// Close releases the descriptor. Closing an already closed file fails with
// a [oserror.BadDescriptor] error and has no other effect.
func (f *File) Close() error {
	if f == nil {
		return oserror.Closed("close", "")
	}

	fd := platform.Descriptor(f.fd.Swap(uintptr(platform.InvalidDescriptor)))
	if fd == platform.InvalidDescriptor {
		return oserror.Closed("close", f.name)
	}

	runtime.SetFinalizer(f, nil)

	if err := f.native.Close(fd); err != nil {
		return oserror.Wrap("close", f.name, err)
	}

	return nil
}
