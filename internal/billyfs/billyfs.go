// Package billyfs exposes a [filesystem.Handler] as a go-billy filesystem,
// so that code written against billy can run on top of the layer.
//
// Paths handed to the adapter are relative to its root; the chroot helper
// from go-billy keeps them from escaping it.
package billyfs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/desertwitch/osbridge/internal/filesystem"
	"github.com/desertwitch/osbridge/internal/oserror"
	"github.com/desertwitch/osbridge/internal/pathing"
	"github.com/desertwitch/osbridge/internal/schema"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"
	"github.com/google/uuid"
)

const (
	defaultDirPerm  = 0o755
	tempFilePerm    = 0o600
	supportedOSFlag = os.O_RDONLY | os.O_WRONLY | os.O_RDWR | os.O_CREATE | os.O_EXCL | os.O_APPEND | os.O_TRUNC
)

// New returns a billy filesystem rooted at root.
//
//nolint:ireturn
func New(h *filesystem.Handler, root string) billy.Filesystem {
	return chroot.New(&rootFS{handler: h}, root)
}

// rootFS works on absolute paths and is only reached through the chroot
// helper.
type rootFS struct {
	handler *filesystem.Handler
}

var (
	_ billy.Basic    = (*rootFS)(nil)
	_ billy.TempFile = (*rootFS)(nil)
	_ billy.Dir      = (*rootFS)(nil)
	_ billy.Symlink  = (*rootFS)(nil)
	_ billy.Capable  = (*rootFS)(nil)
)

//nolint:ireturn
func (r *rootFS) Create(filename string) (billy.File, error) {
	return r.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
}

//nolint:ireturn
func (r *rootFS) Open(filename string) (billy.File, error) {
	return r.OpenFile(filename, os.O_RDONLY, 0)
}

//nolint:ireturn
func (r *rootFS) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	flags, err := translateFlags(flag)
	if err != nil {
		return nil, toPathError(withOp(err, "open", filename))
	}

	if flag&os.O_CREATE != 0 {
		if err := r.createParent(filename); err != nil {
			return nil, err
		}
	}

	f, err := r.handler.OpenFile(filename, flags, uint32(perm.Perm()))
	if err != nil {
		return nil, toPathError(err)
	}

	return &file{File: f, name: filename}, nil
}

func (r *rootFS) createParent(filename string) error {
	parent := filepath.Dir(filename)
	if parent == "." || parent == filename {
		return nil
	}

	return toPathError(r.handler.MkdirAll(parent, defaultDirPerm))
}

func (r *rootFS) Stat(filename string) (os.FileInfo, error) {
	md, err := r.handler.Stat(filename, true)
	if err != nil {
		return nil, toPathError(err)
	}

	return newFileInfo(filepath.Base(filename), md), nil
}

func (r *rootFS) Lstat(filename string) (os.FileInfo, error) {
	md, err := r.handler.Lstat(filename)
	if err != nil {
		return nil, toPathError(err)
	}

	return newFileInfo(filepath.Base(filename), md), nil
}

func (r *rootFS) Rename(oldpath, newpath string) error {
	if err := r.createParent(newpath); err != nil {
		return err
	}

	return toPathError(r.handler.Rename(oldpath, newpath))
}

// Remove deletes a file, a symlink or an empty directory.
func (r *rootFS) Remove(filename string) error {
	md, err := r.handler.Lstat(filename)
	if err != nil {
		return toPathError(err)
	}

	if md.IsDir() {
		return toPathError(r.handler.Rmdir(filename))
	}

	return toPathError(r.handler.Remove(filename))
}

// Join uses [filepath.Join], the joining rule the chroot helper relies on to
// keep absolute names below the root.
func (r *rootFS) Join(elem ...string) string {
	return filepath.Join(elem...)
}

//nolint:ireturn
func (r *rootFS) TempFile(dir, prefix string) (billy.File, error) {
	if dir == "" {
		dir = os.TempDir()
	}

	if err := r.handler.MkdirAll(dir, defaultDirPerm); err != nil {
		return nil, toPathError(err)
	}

	return r.OpenFile(filepath.Join(dir, prefix+uuid.NewString()), os.O_RDWR|os.O_CREATE|os.O_EXCL, tempFilePerm)
}

// ReadDir lists the directory sorted by name, like the billy osfs backend.
func (r *rootFS) ReadDir(path string) ([]os.FileInfo, error) {
	scanner, err := r.handler.Scan(path)
	if err != nil {
		return nil, toPathError(err)
	}

	var infos []os.FileInfo
	for entry, err := range scanner.All() {
		if err != nil {
			return nil, toPathError(err)
		}

		md, err := entry.Stat(false)
		if err != nil {
			if oserror.Is(err, oserror.NotFound) {
				continue // removed while listing
			}

			return nil, toPathError(err)
		}

		infos = append(infos, newFileInfo(entry.Name(), md))
	}

	slices.SortFunc(infos, func(a, b os.FileInfo) int {
		return strings.Compare(a.Name(), b.Name())
	})

	return infos, nil
}

func (r *rootFS) MkdirAll(filename string, perm os.FileMode) error {
	return toPathError(r.handler.MkdirAll(filename, uint32(perm.Perm())))
}

func (r *rootFS) Symlink(target, link string) error {
	if err := r.createParent(link); err != nil {
		return err
	}

	return toPathError(r.handler.Symlink(target, link))
}

func (r *rootFS) Readlink(link string) (string, error) {
	target, err := r.handler.Readlink(link)
	if err != nil {
		return "", toPathError(err)
	}

	return target, nil
}

// Chroot is never reached through [New]: the chroot helper implements it.
//
//nolint:ireturn
func (r *rootFS) Chroot(path string) (billy.Filesystem, error) {
	return chroot.New(r, path), nil
}

func (r *rootFS) Root() string {
	return pathing.Sep
}

func (r *rootFS) Capabilities() billy.Capability {
	return billy.WriteCapability | billy.ReadCapability |
		billy.ReadAndWriteCapability | billy.SeekCapability | billy.TruncateCapability
}

// translateFlags converts [os] open flags into the layer's flags.
func translateFlags(flag int) (schema.OpenFlags, error) {
	if unknown := flag &^ supportedOSFlag; unknown != 0 {
		return 0, oserror.Invalid("open", "", "unsupported open flags")
	}

	var flags schema.OpenFlags

	switch flag & (os.O_RDONLY | os.O_WRONLY | os.O_RDWR) {
	case os.O_RDONLY:
		flags = schema.O_RDONLY
	case os.O_WRONLY:
		flags = schema.O_WRONLY
	case os.O_RDWR:
		flags = schema.O_RDWR
	default:
		return 0, oserror.Invalid("open", "", "invalid access mode")
	}

	for _, m := range []struct {
		os    int
		layer schema.OpenFlags
	}{
		{os.O_CREATE, schema.O_CREAT},
		{os.O_EXCL, schema.O_EXCL},
		{os.O_APPEND, schema.O_APPEND},
		{os.O_TRUNC, schema.O_TRUNC},
	} {
		if flag&m.os != 0 {
			flags |= m.layer
		}
	}

	return flags, nil
}

func withOp(err error, op, path string) error {
	var oe *oserror.Error
	if errors.As(err, &oe) {
		cp := *oe
		cp.Op = op
		cp.Path = path

		return &cp
	}

	return err
}

// toPathError converts a layer error into an [*fs.PathError] around the
// native code, the form billy consumers check with [os.IsNotExist] and
// friends. Errors without a native code are returned unchanged.
func toPathError(err error) error {
	var oe *oserror.Error
	if !errors.As(err, &oe) || oe.Code == 0 {
		return err
	}

	return &fs.PathError{Op: oe.Op, Path: oe.Path, Err: oe.Code}
}
