// Package filesystem is the user-facing surface of the layer: opening files,
// moving bytes, querying metadata and iterating directories.
//
// Every failure is returned as an [*oserror.Error] carrying the native code,
// so callers can branch on its kind with errors.Is or [oserror.KindOf].
package filesystem

import (
	"errors"

	"github.com/desertwitch/osbridge/internal/oserror"
	"github.com/desertwitch/osbridge/internal/pathing"
	"github.com/desertwitch/osbridge/internal/platform"
	"github.com/desertwitch/osbridge/internal/schema"
)

// DefaultCreateMode is the permission applied to created files when no
// other mode is configured. The process umask still applies.
const DefaultCreateMode uint32 = 0o777

// Handler performs filesystem operations through one native variant.
type Handler struct {
	native      platform.Native
	caps        platform.Capabilities
	defaultPerm uint32
}

// NewHandler returns a pointer to a new [Handler] over the given native
// variant. defaultPerm is used by [Handler.Open] for created files.
func NewHandler(native platform.Native, defaultPerm uint32) *Handler {
	return &Handler{
		native:      native,
		caps:        platform.Caps(),
		defaultPerm: defaultPerm,
	}
}

// Platform returns the name of the native variant in use.
func (h *Handler) Platform() string {
	return h.native.Name()
}

// Capabilities returns the capability sets of the running platform.
func (h *Handler) Capabilities() platform.Capabilities {
	return h.caps
}

// DefaultPerm returns the create mode used by [Handler.Open].
func (h *Handler) DefaultPerm() uint32 {
	return h.defaultPerm
}

// Open opens path with the handler's default create mode.
func (h *Handler) Open(path string, flags schema.OpenFlags) (*File, error) {
	return h.OpenFile(path, flags, h.defaultPerm)
}

// OpenFile opens path with flags and, if the file is created, perm.
func (h *Handler) OpenFile(path string, flags schema.OpenFlags, perm uint32) (*File, error) {
	decoded, err := flags.Decode()
	if err != nil {
		return nil, withPath(err, path)
	}

	fd, err := h.native.Open(path, flags, perm)
	if err != nil {
		return nil, oserror.Wrap("open", path, err)
	}

	return newFile(h.native, fd, path, decoded), nil
}

// OpenAt opens name relative to the open directory dir. It is only available
// where the platform supports directory descriptors for open.
func (h *Handler) OpenAt(dir *File, name string, flags schema.OpenFlags, perm uint32) (*File, error) {
	if !h.caps.SupportsDirFD.Contains(platform.OpOpen) {
		return nil, oserror.Invalid("openat", name, "directory descriptors are not supported on "+h.native.Name())
	}

	decoded, err := flags.Decode()
	if err != nil {
		return nil, withPath(err, name)
	}

	dfd, err := dir.descriptor("openat")
	if err != nil {
		return nil, err
	}

	fd, err := h.native.OpenAt(dfd, name, flags, perm)
	if err != nil {
		return nil, oserror.Wrap("openat", name, err)
	}

	return newFile(h.native, fd, pathing.Join(dir.name, name), decoded), nil
}

// Rename moves oldpath to newpath, replacing newpath if it exists. The move
// is atomic where the filesystem supports it.
func (h *Handler) Rename(oldpath, newpath string) error {
	if err := h.native.Rename(oldpath, newpath); err != nil {
		return oserror.Wrap("rename", oldpath, err)
	}

	return nil
}

// withPath fills in the path of a layer error that was detected before the
// path was known.
func withPath(err error, path string) error {
	var oe *oserror.Error
	if errors.As(err, &oe) && oe.Path == "" {
		cp := *oe
		cp.Path = path

		return &cp
	}

	return err
}
