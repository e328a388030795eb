//go:build linux || darwin

package platform

import (
	"os"

	"github.com/desertwitch/osbridge/internal/schema"
	"golang.org/x/sys/unix"
)

const readlinkBufInitial = 128

//nolint:gochecknoglobals
var current Native = &posix{}

// posix is the variant for POSIX-like systems, wrapping [unix].
type posix struct{}

func nativeCapabilities() Capabilities {
	return Capabilities{
		SupportsFD:             newSet(OpStat, OpSync, OpTruncate, OpChdir),
		SupportsDirFD:          newSet(OpOpen, OpStat, OpMkdir),
		SupportsFollowSymlinks: newSet(OpStat),
	}
}

func (*posix) Name() string {
	return "posix"
}

func openMode(flags schema.OpenFlags) (int, error) {
	d, err := flags.Decode()
	if err != nil {
		return 0, err
	}

	mode := int(d.Access) | unix.O_CLOEXEC
	if d.Create {
		mode |= unix.O_CREAT
		if d.Exclusive {
			mode |= unix.O_EXCL
		}
	}
	if d.Append {
		mode |= unix.O_APPEND
	}
	if d.Truncate {
		mode |= unix.O_TRUNC
	}

	return mode, nil
}

func (*posix) Open(path string, flags schema.OpenFlags, perm uint32) (Descriptor, error) {
	mode, err := openMode(flags)
	if err != nil {
		return InvalidDescriptor, err
	}

	fd, err := unix.Open(path, mode, perm)
	if err != nil {
		return InvalidDescriptor, err
	}

	return Descriptor(fd), nil
}

func (*posix) OpenAt(dir Descriptor, name string, flags schema.OpenFlags, perm uint32) (Descriptor, error) {
	mode, err := openMode(flags)
	if err != nil {
		return InvalidDescriptor, err
	}

	fd, err := unix.Openat(int(dir), name, mode, perm)
	if err != nil {
		return InvalidDescriptor, err
	}

	return Descriptor(fd), nil
}

func (*posix) Read(fd Descriptor, p []byte) (int, error) {
	n, err := unix.Read(int(fd), p)
	if n < 0 {
		n = 0
	}

	return n, err
}

func (*posix) Pread(fd Descriptor, p []byte, offset int64) (int, error) {
	n, err := unix.Pread(int(fd), p, offset)
	if n < 0 {
		n = 0
	}

	return n, err
}

func (*posix) Write(fd Descriptor, p []byte) (int, error) {
	n, err := unix.Write(int(fd), p)
	if n < 0 {
		n = 0
	}

	return n, err
}

func (*posix) Seek(fd Descriptor, offset int64, whence int) (int64, error) {
	return unix.Seek(int(fd), offset, whence)
}

func (*posix) Sync(fd Descriptor) error {
	return unix.Fsync(int(fd))
}

func (*posix) Truncate(fd Descriptor, size int64) error {
	return unix.Ftruncate(int(fd), size)
}

func (*posix) Close(fd Descriptor) error {
	return unix.Close(int(fd))
}

func (*posix) Stat(path string, follow bool) (*schema.Metadata, error) {
	var st unix.Stat_t

	var err error
	if follow {
		err = unix.Stat(path, &st)
	} else {
		err = unix.Lstat(path, &st)
	}
	if err != nil {
		return nil, err
	}

	return toMetadata(path, &st), nil
}

func (*posix) StatAt(dir Descriptor, name string, follow bool) (*schema.Metadata, error) {
	var st unix.Stat_t

	flags := 0
	if !follow {
		flags = unix.AT_SYMLINK_NOFOLLOW
	}

	if err := unix.Fstatat(int(dir), name, &st, flags); err != nil {
		return nil, err
	}

	return toMetadata(name, &st), nil
}

func (*posix) Fstat(fd Descriptor) (*schema.Metadata, error) {
	var st unix.Stat_t

	if err := unix.Fstat(int(fd), &st); err != nil {
		return nil, err
	}

	return toMetadata("", &st), nil
}

func toMetadata(path string, st *unix.Stat_t) *schema.Metadata {
	atime, mtime, ctime := statTimes(st)

	return &schema.Metadata{
		Path:  path,
		Mode:  schema.Mode(st.Mode),
		Inode: st.Ino,
		Dev:   uint64(st.Dev), //nolint:gosec
		Nlink: uint64(st.Nlink),
		UID:   st.Uid,
		GID:   st.Gid,
		Size:  st.Size,
		Atime: toTimestamp(atime),
		Mtime: toTimestamp(mtime),
		Ctime: toTimestamp(ctime),
	}
}

// statTimes returns the access, modification and change times. linux and
// darwin share the field names in x/sys.
func statTimes(st *unix.Stat_t) (atime, mtime, ctime unix.Timespec) {
	return st.Atim, st.Mtim, st.Ctim
}

func toTimestamp(ts unix.Timespec) schema.Timestamp {
	sec, nsec := ts.Unix()

	return schema.Timestamp{Sec: sec, Nsec: nsec}
}

func (*posix) Rename(oldpath, newpath string) error {
	return unix.Rename(oldpath, newpath)
}

func (*posix) Mkdir(path string, perm uint32) error {
	return unix.Mkdir(path, perm)
}

func (*posix) MkdirAt(dir Descriptor, name string, perm uint32) error {
	return unix.Mkdirat(int(dir), name, perm)
}

func (*posix) Symlink(target, link string) error {
	return unix.Symlink(target, link)
}

func (*posix) Readlink(path string) (string, error) {
	for size := readlinkBufInitial; ; size *= 2 {
		buf := make([]byte, size)

		n, err := unix.Readlink(path, buf)
		if err != nil {
			return "", err
		}
		if n < size {
			return string(buf[:n]), nil
		}
	}
}

func (*posix) Remove(path string) error {
	return unix.Unlink(path)
}

func (*posix) Rmdir(path string) error {
	return unix.Rmdir(path)
}

//nolint:ireturn
func (*posix) OpenDir(path string) (DirStream, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}

	return os.NewFile(uintptr(fd), path), nil
}

func (*posix) Getwd() (string, error) {
	return unix.Getwd()
}

func (*posix) Chdir(path string) error {
	return unix.Chdir(path)
}

func (*posix) Fchdir(fd Descriptor) error {
	return unix.Fchdir(int(fd))
}

func (*posix) Getenv(key string) (string, bool) {
	return unix.Getenv(key)
}

func (*posix) Setenv(key, value string) error {
	return unix.Setenv(key, value)
}

func (*posix) Unsetenv(key string) error {
	return unix.Unsetenv(key)
}

func (*posix) Environ() []string {
	return unix.Environ()
}
