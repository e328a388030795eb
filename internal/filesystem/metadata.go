package filesystem

import (
	"github.com/desertwitch/osbridge/internal/oserror"
	"github.com/desertwitch/osbridge/internal/pathing"
	"github.com/desertwitch/osbridge/internal/platform"
	"github.com/desertwitch/osbridge/internal/schema"
)

// Stat returns fresh metadata for path. With follow set, a final symlink is
// resolved to its target, otherwise the link itself is described.
func (h *Handler) Stat(path string, follow bool) (*schema.Metadata, error) {
	md, err := h.native.Stat(path, follow)
	if err != nil {
		return nil, oserror.Wrap(statOp(follow), path, err)
	}

	return md, nil
}

// Lstat is [Handler.Stat] without following a final symlink.
func (h *Handler) Lstat(path string) (*schema.Metadata, error) {
	return h.Stat(path, false)
}

// StatAt is [Handler.Stat] relative to the open directory dir. It is only
// available where the platform supports directory descriptors for stat.
func (h *Handler) StatAt(dir *File, name string, follow bool) (*schema.Metadata, error) {
	if !h.caps.SupportsDirFD.Contains(platform.OpStat) {
		return nil, oserror.Invalid("fstatat", name, "directory descriptors are not supported on "+h.native.Name())
	}

	dfd, err := dir.descriptor("fstatat")
	if err != nil {
		return nil, err
	}

	md, err := h.native.StatAt(dfd, name, follow)
	if err != nil {
		return nil, oserror.Wrap("fstatat", name, err)
	}
	md.Path = pathing.Join(dir.name, name)

	return md, nil
}

func statOp(follow bool) string {
	if follow {
		return "stat"
	}

	return "lstat"
}
