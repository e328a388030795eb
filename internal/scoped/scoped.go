// Package scoped pairs the acquisition of a process resource with its
// release. The With* functions release on every exit path, including errors
// and panics raised by the callback.
package scoped

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/desertwitch/osbridge/internal/pathing"
	"github.com/google/uuid"
)

const tempDirPerm = 0o700

type dirProvider interface {
	Mkdir(path string, perm uint32) error
	RemoveAll(path string) error
}

type cwdProvider interface {
	Getwd() (string, error)
	Chdir(path string) error
}

// TempDir is a uniquely named directory that is removed recursively when
// released.
type TempDir struct {
	Path string

	handler  dirProvider
	released bool
}

// NewTempDir creates a directory named prefix followed by a random UUID
// below base.
func NewTempDir(h dirProvider, base, prefix string) (*TempDir, error) {
	if base == "" {
		return nil, fmt.Errorf("(scoped-tempdir) %w", ErrEmptyBase)
	}

	path := pathing.Join(base, prefix+uuid.NewString())

	if err := h.Mkdir(path, tempDirPerm); err != nil {
		return nil, fmt.Errorf("(scoped-tempdir) failed to create: %w", err)
	}

	return &TempDir{
		Path:    path,
		handler: h,
	}, nil
}

// Release removes the directory and its contents. Releasing twice, or after
// [TempDir.Keep], does nothing.
func (d *TempDir) Release() error {
	if d.released {
		return nil
	}
	d.released = true

	if err := d.handler.RemoveAll(d.Path); err != nil {
		return fmt.Errorf("(scoped-tempdir) failed to remove: %w", err)
	}

	return nil
}

// Keep turns [TempDir.Release] into a no-op, leaving the directory in place.
func (d *TempDir) Keep() {
	d.released = true
}

// WithTempDir creates a temporary directory, calls fn with its path and
// removes it afterwards. A removal failure is joined with fn's error.
func WithTempDir(h dirProvider, base, prefix string, fn func(path string) error) (err error) {
	dir, err := NewTempDir(h, base, prefix)
	if err != nil {
		return err
	}

	defer func() {
		if rerr := dir.Release(); rerr != nil {
			slog.Warn("Failed to remove temporary directory",
				"path", dir.Path,
				"err", rerr,
			)
			err = errors.Join(err, rerr)
		}
	}()

	return fn(dir.Path)
}

// WorkingDir remembers the working directory that was current before
// [EnterDir] changed it.
type WorkingDir struct {
	Previous string
	Current  string

	handler  cwdProvider
	restored bool
}

// EnterDir makes dir the working directory of the process.
func EnterDir(h cwdProvider, dir string) (*WorkingDir, error) {
	prev, err := h.Getwd()
	if err != nil {
		return nil, fmt.Errorf("(scoped-cwd) failed to get working directory: %w", err)
	}

	if err := h.Chdir(dir); err != nil {
		return nil, fmt.Errorf("(scoped-cwd) failed to enter: %w", err)
	}

	return &WorkingDir{
		Previous: prev,
		Current:  dir,
		handler:  h,
	}, nil
}

// Restore changes back to the previous working directory. Restoring twice
// does nothing.
func (w *WorkingDir) Restore() error {
	if w.restored {
		return nil
	}
	w.restored = true

	if err := w.handler.Chdir(w.Previous); err != nil {
		return fmt.Errorf("(scoped-cwd) failed to restore: %w", err)
	}

	return nil
}

// WithWorkingDir calls fn with dir as the working directory and restores
// the previous one afterwards. A restore failure is joined with fn's error.
func WithWorkingDir(h cwdProvider, dir string, fn func() error) (err error) {
	wd, err := EnterDir(h, dir)
	if err != nil {
		return err
	}

	defer func() {
		if rerr := wd.Restore(); rerr != nil {
			slog.Warn("Failed to restore working directory",
				"path", wd.Previous,
				"err", rerr,
			)
			err = errors.Join(err, rerr)
		}
	}()

	return fn()
}
