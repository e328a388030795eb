//go:build windows

package platform

import (
	"os"
	"strings"
	"unsafe"

	"github.com/desertwitch/osbridge/internal/schema"
	"golang.org/x/sys/windows"
)

const (
	fileAttributeTagInfo         = 9
	symlinkFlagAllowUnprivileged = 0x2
	appendAccess                 = windows.FILE_APPEND_DATA | windows.FILE_WRITE_ATTRIBUTES | windows.FILE_WRITE_EA | windows.STANDARD_RIGHTS_WRITE | windows.SYNCHRONIZE
	shareAll                     = windows.FILE_SHARE_READ | windows.FILE_SHARE_WRITE | windows.FILE_SHARE_DELETE
	readOnlyPerm                 = 0o444
	readWritePerm                = 0o666
	executablePerm               = 0o111
	ownerWritePerm               = 0o200
	nanosecondsPerSecond         = 1_000_000_000
)

//nolint:gochecknoglobals
var current Native = &nt{}

// nt is the variant for Windows-like systems, wrapping [windows].
type nt struct{}

type fileAttributeTagInformation struct {
	FileAttributes uint32
	ReparseTag     uint32
}

func nativeCapabilities() Capabilities {
	return Capabilities{
		SupportsFD:             newSet(OpStat, OpSync, OpTruncate),
		SupportsDirFD:          newSet(),
		SupportsFollowSymlinks: newSet(OpStat),
	}
}

func (*nt) Name() string {
	return "nt"
}

func (*nt) Open(path string, flags schema.OpenFlags, perm uint32) (Descriptor, error) {
	d, err := flags.Decode()
	if err != nil {
		return InvalidDescriptor, err
	}

	if path == "" {
		return InvalidDescriptor, windows.ERROR_FILE_NOT_FOUND
	}

	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return InvalidDescriptor, windows.ERROR_INVALID_NAME
	}

	access, createMode, attrs := openParams(d, perm)

	h, err := windows.CreateFile(p, access, shareAll, nil, createMode, attrs, 0)
	if err != nil {
		return InvalidDescriptor, err
	}

	return Descriptor(h), nil
}

// openParams maps decoded open flags to the desired access, creation
// disposition and attributes of CreateFile.
func openParams(d schema.Decoded, perm uint32) (access, createMode, attrs uint32) {
	switch d.Access {
	case schema.ReadOnly:
		access = windows.GENERIC_READ
	case schema.WriteOnly:
		access = windows.GENERIC_WRITE
	case schema.ReadWrite:
		access = windows.GENERIC_READ | windows.GENERIC_WRITE
	}

	if d.Append && d.Access.Writable() {
		access &^= windows.GENERIC_WRITE
		access |= appendAccess
	}

	switch {
	case d.Create && d.Exclusive:
		createMode = windows.CREATE_NEW
	case d.Create && d.Truncate:
		createMode = windows.CREATE_ALWAYS
	case d.Create:
		createMode = windows.OPEN_ALWAYS
	case d.Truncate:
		createMode = windows.TRUNCATE_EXISTING
	default:
		createMode = windows.OPEN_EXISTING
	}

	attrs = uint32(windows.FILE_ATTRIBUTE_NORMAL | windows.FILE_FLAG_BACKUP_SEMANTICS)
	if d.Create && perm&ownerWritePerm == 0 {
		attrs |= windows.FILE_ATTRIBUTE_READONLY
	}

	return access, createMode, attrs
}

func (*nt) OpenAt(Descriptor, string, schema.OpenFlags, uint32) (Descriptor, error) {
	return InvalidDescriptor, windows.ERROR_NOT_SUPPORTED
}

func (*nt) Read(fd Descriptor, p []byte) (int, error) {
	var done uint32

	err := windows.ReadFile(windows.Handle(fd), p, &done, nil)
	if err == windows.ERROR_HANDLE_EOF || err == windows.ERROR_BROKEN_PIPE { //nolint:errorlint
		return 0, nil
	}

	return int(done), err
}

func (*nt) Pread(fd Descriptor, p []byte, offset int64) (int, error) {
	h := windows.Handle(fd)

	curr, err := windows.Seek(h, 0, 1)
	if err != nil {
		return 0, err
	}
	defer windows.Seek(h, curr, 0) //nolint:errcheck

	o := windows.Overlapped{
		Offset:     uint32(offset),
		OffsetHigh: uint32(offset >> 32), //nolint:mnd
	}

	var done uint32
	err = windows.ReadFile(h, p, &done, &o)
	if err == windows.ERROR_HANDLE_EOF { //nolint:errorlint
		return 0, nil
	}

	return int(done), err
}

func (*nt) Write(fd Descriptor, p []byte) (int, error) {
	var done uint32

	err := windows.WriteFile(windows.Handle(fd), p, &done, nil)

	return int(done), err
}

func (*nt) Seek(fd Descriptor, offset int64, whence int) (int64, error) {
	return windows.Seek(windows.Handle(fd), offset, whence)
}

func (*nt) Sync(fd Descriptor) error {
	return windows.FlushFileBuffers(windows.Handle(fd))
}

func (*nt) Truncate(fd Descriptor, size int64) error {
	h := windows.Handle(fd)

	curr, err := windows.Seek(h, 0, 1)
	if err != nil {
		return err
	}
	defer windows.Seek(h, curr, 0) //nolint:errcheck

	if _, err := windows.Seek(h, size, 0); err != nil {
		return err
	}

	return windows.SetEndOfFile(h)
}

func (*nt) Close(fd Descriptor) error {
	return windows.CloseHandle(windows.Handle(fd))
}

func (*nt) Stat(path string, follow bool) (*schema.Metadata, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, windows.ERROR_INVALID_NAME
	}

	attrs := uint32(windows.FILE_FLAG_BACKUP_SEMANTICS)
	if !follow {
		attrs |= windows.FILE_FLAG_OPEN_REPARSE_POINT
	}

	h, err := windows.CreateFile(p, windows.FILE_READ_ATTRIBUTES, shareAll, nil, windows.OPEN_EXISTING, attrs, 0)
	if err != nil {
		return nil, err
	}
	defer windows.CloseHandle(h) //nolint:errcheck

	md, err := fstat(h, path, !follow)
	if err != nil {
		return nil, err
	}

	return md, nil
}

func (*nt) StatAt(Descriptor, string, bool) (*schema.Metadata, error) {
	return nil, windows.ERROR_NOT_SUPPORTED
}

func (*nt) Fstat(fd Descriptor) (*schema.Metadata, error) {
	return fstat(windows.Handle(fd), "", false)
}

func fstat(h windows.Handle, path string, reportLinks bool) (*schema.Metadata, error) {
	var info windows.ByHandleFileInformation
	if err := windows.GetFileInformationByHandle(h, &info); err != nil {
		return nil, err
	}

	var mode schema.Mode
	if info.FileAttributes&windows.FILE_ATTRIBUTE_READONLY != 0 {
		mode = readOnlyPerm
	} else {
		mode = readWritePerm
	}

	switch {
	case reportLinks && info.FileAttributes&windows.FILE_ATTRIBUTE_REPARSE_POINT != 0 && isSymlinkTag(h):
		mode |= schema.ModeSymlink
	case info.FileAttributes&windows.FILE_ATTRIBUTE_DIRECTORY != 0:
		mode |= schema.ModeDir | executablePerm
	default:
		mode |= schema.ModeRegular
		if isExecutableName(path) {
			mode |= executablePerm
		}
	}

	return &schema.Metadata{
		Path:  path,
		Mode:  mode,
		Inode: uint64(info.FileIndexHigh)<<32 | uint64(info.FileIndexLow), //nolint:mnd
		Dev:   uint64(info.VolumeSerialNumber),
		Nlink: uint64(info.NumberOfLinks),
		Size:  int64(info.FileSizeHigh)<<32 | int64(info.FileSizeLow), //nolint:mnd
		Atime: filetimeToTimestamp(info.LastAccessTime),
		Mtime: filetimeToTimestamp(info.LastWriteTime),
		Ctime: filetimeToTimestamp(info.CreationTime),
	}, nil
}

func isSymlinkTag(h windows.Handle) bool {
	var ti fileAttributeTagInformation

	err := windows.GetFileInformationByHandleEx(h, fileAttributeTagInfo, (*byte)(unsafe.Pointer(&ti)), uint32(unsafe.Sizeof(ti)))
	if err != nil {
		return false
	}

	return ti.ReparseTag == windows.IO_REPARSE_TAG_SYMLINK
}

func isExecutableName(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range []string{".exe", ".bat", ".cmd", ".com"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}

	return false
}

func filetimeToTimestamp(ft windows.Filetime) schema.Timestamp {
	ns := ft.Nanoseconds()

	return schema.Timestamp{Sec: ns / nanosecondsPerSecond, Nsec: ns % nanosecondsPerSecond}
}

func (*nt) Rename(oldpath, newpath string) error {
	from, err := windows.UTF16PtrFromString(oldpath)
	if err != nil {
		return windows.ERROR_INVALID_NAME
	}

	to, err := windows.UTF16PtrFromString(newpath)
	if err != nil {
		return windows.ERROR_INVALID_NAME
	}

	return windows.MoveFileEx(from, to, windows.MOVEFILE_REPLACE_EXISTING)
}

func (*nt) Mkdir(path string, _ uint32) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return windows.ERROR_INVALID_NAME
	}

	return windows.CreateDirectory(p, nil)
}

func (*nt) MkdirAt(Descriptor, string, uint32) error {
	return windows.ERROR_NOT_SUPPORTED
}

func (n *nt) Symlink(target, link string) error {
	l, err := windows.UTF16PtrFromString(link)
	if err != nil {
		return windows.ERROR_INVALID_NAME
	}

	t, err := windows.UTF16PtrFromString(strings.ReplaceAll(target, "/", `\`))
	if err != nil {
		return windows.ERROR_INVALID_NAME
	}

	resolved := target
	if !isAbsWindows(target) {
		if i := strings.LastIndexAny(link, `\/`); i >= 0 {
			resolved = link[:i+1] + target
		}
	}

	flags := uint32(symlinkFlagAllowUnprivileged)
	if md, err := n.Stat(resolved, true); err == nil && md.IsDir() {
		flags |= windows.SYMBOLIC_LINK_FLAG_DIRECTORY
	}

	err = windows.CreateSymbolicLink(l, t, flags)
	if err == windows.ERROR_INVALID_PARAMETER { //nolint:errorlint
		// Older systems do not know the unprivileged flag.
		err = windows.CreateSymbolicLink(l, t, flags&^symlinkFlagAllowUnprivileged)
	}

	return err
}

func isAbsWindows(path string) bool {
	if len(path) >= 3 && path[1] == ':' && (path[2] == '\\' || path[2] == '/') {
		return true
	}

	return strings.HasPrefix(path, `\\`) || strings.HasPrefix(path, "//")
}

// Readlink relies on [os.Readlink], which parses the reparse point buffer.
func (*nt) Readlink(path string) (string, error) {
	return os.Readlink(path)
}

func (*nt) Remove(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return windows.ERROR_INVALID_NAME
	}

	err = windows.DeleteFile(p)
	if err == nil {
		return nil
	}

	// Directory symlinks are removed like directories.
	if rerr := windows.RemoveDirectory(p); rerr == nil {
		return nil
	}

	return err
}

func (*nt) Rmdir(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return windows.ERROR_INVALID_NAME
	}

	return windows.RemoveDirectory(p)
}

//nolint:ireturn
func (n *nt) OpenDir(path string) (DirStream, error) {
	md, err := n.Stat(path, true)
	if err != nil {
		return nil, err
	}
	if !md.IsDir() {
		return nil, windows.ERROR_DIRECTORY
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	return f, nil
}

func (*nt) Getwd() (string, error) {
	return windows.Getwd()
}

func (*nt) Chdir(path string) error {
	return windows.Chdir(path)
}

func (*nt) Fchdir(Descriptor) error {
	return windows.ERROR_NOT_SUPPORTED
}

func (*nt) Getenv(key string) (string, bool) {
	return windows.Getenv(key)
}

func (*nt) Setenv(key, value string) error {
	return windows.Setenv(key, value)
}

func (*nt) Unsetenv(key string) error {
	return windows.Unsetenv(key)
}

func (*nt) Environ() []string {
	return windows.Environ()
}
