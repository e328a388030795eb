package filesystem

import (
	"github.com/desertwitch/osbridge/internal/oserror"
	"github.com/desertwitch/osbridge/internal/pathing"
	"github.com/desertwitch/osbridge/internal/platform"
)

// Mkdir creates a single directory.
func (h *Handler) Mkdir(path string, perm uint32) error {
	if err := h.native.Mkdir(path, perm); err != nil {
		return oserror.Wrap("mkdir", path, err)
	}

	return nil
}

// MkdirAt creates a directory relative to the open directory dir. It is only
// available where the platform supports directory descriptors for mkdir.
func (h *Handler) MkdirAt(dir *File, name string, perm uint32) error {
	if !h.caps.SupportsDirFD.Contains(platform.OpMkdir) {
		return oserror.Invalid("mkdirat", name, "directory descriptors are not supported on "+h.native.Name())
	}

	dfd, err := dir.descriptor("mkdirat")
	if err != nil {
		return err
	}

	if err := h.native.MkdirAt(dfd, name, perm); err != nil {
		return oserror.Wrap("mkdirat", name, err)
	}

	return nil
}

// MkdirAll creates path and any missing parents. An existing directory at
// path is not an error, any other existing file fails with
// [oserror.NotADirectory].
func (h *Handler) MkdirAll(path string, perm uint32) error {
	if md, err := h.Stat(path, true); err == nil {
		if md.IsDir() {
			return nil
		}

		return oserror.NotDir("mkdir", path)
	}

	parent := pathing.Dirname(path)
	if parent != "" && parent != path {
		if err := h.MkdirAll(parent, perm); err != nil {
			return err
		}
	}

	if err := h.Mkdir(path, perm); err != nil {
		// Lost a race against a concurrent creator, or path names a root.
		if md, serr := h.Stat(path, true); serr == nil {
			if md.IsDir() {
				return nil
			}

			return oserror.NotDir("mkdir", path)
		}

		return err
	}

	return nil
}

// Symlink creates link pointing at target.
func (h *Handler) Symlink(target, link string) error {
	if err := h.native.Symlink(target, link); err != nil {
		return oserror.Wrap("symlink", link, err)
	}

	return nil
}

// Readlink returns the target of the symlink at path.
func (h *Handler) Readlink(path string) (string, error) {
	target, err := h.native.Readlink(path)
	if err != nil {
		return "", oserror.Wrap("readlink", path, err)
	}

	return target, nil
}

// Remove deletes a file or symlink.
func (h *Handler) Remove(path string) error {
	if err := h.native.Remove(path); err != nil {
		return oserror.Wrap("remove", path, err)
	}

	return nil
}

// Rmdir deletes an empty directory.
func (h *Handler) Rmdir(path string) error {
	if err := h.native.Rmdir(path); err != nil {
		return oserror.Wrap("rmdir", path, err)
	}

	return nil
}

// RemoveAll deletes path and, if it is a directory, everything below it.
// Symlinks are removed, never followed. A missing path is not an error.
func (h *Handler) RemoveAll(path string) error {
	md, err := h.Lstat(path)
	if err != nil {
		if oserror.Is(err, oserror.NotFound) {
			return nil
		}

		return err
	}

	if !md.IsDir() {
		return h.Remove(path)
	}

	scanner, err := h.Scan(path)
	if err != nil {
		return err
	}

	var children []string
	for entry, err := range scanner.All() {
		if err != nil {
			return err
		}
		children = append(children, entry.Path())
	}

	for _, child := range children {
		if err := h.RemoveAll(child); err != nil {
			return err
		}
	}

	return h.Rmdir(path)
}

// Getwd returns the working directory of the process.
func (h *Handler) Getwd() (string, error) {
	dir, err := h.native.Getwd()
	if err != nil {
		return "", oserror.Wrap("getwd", "", err)
	}

	return dir, nil
}

// Chdir changes the working directory of the process.
func (h *Handler) Chdir(path string) error {
	if err := h.native.Chdir(path); err != nil {
		return oserror.Wrap("chdir", path, err)
	}

	return nil
}
