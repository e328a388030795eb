//go:build unix

package oserror

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// TestNew_Classification tests the POSIX classification table of [New].
func TestNew_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code syscall.Errno
		kind Kind
	}{
		{unix.ENOENT, NotFound},
		{unix.EEXIST, AlreadyExists},
		{unix.EACCES, PermissionDenied},
		{unix.EPERM, PermissionDenied},
		{unix.EBADF, BadDescriptor},
		{unix.EISDIR, IsADirectory},
		{unix.ENOTDIR, NotADirectory},
		{unix.EINVAL, InvalidArgument},
		{unix.ENOSPC, Other},
		{syscall.Errno(99999), Other},
	}

	for _, tt := range tests {
		t.Run(tt.code.Error(), func(t *testing.T) {
			t.Parallel()

			err := New("open", "/tmp/x", tt.code)
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.code, err.Code, "native code should be preserved")
			require.ErrorIs(t, err, tt.kind.Sentinel())
		})
	}
}

func TestNotDir(t *testing.T) {
	t.Parallel()

	err := NotDir("mkdir", "/tmp/file")
	assert.Equal(t, NotADirectory, err.Kind)
	assert.Equal(t, unix.ENOTDIR, err.Code)
	require.ErrorIs(t, err, ErrNotADirectory)
	require.ErrorIs(t, err, syscall.ENOTDIR)
	assert.Equal(t, "mkdir /tmp/file: not a directory", err.Error())
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("Success_Nil", func(t *testing.T) {
		t.Parallel()
		require.NoError(t, Wrap("open", "x", nil))
	})

	t.Run("Success_WrappedErrno", func(t *testing.T) {
		t.Parallel()

		cause := fmt.Errorf("syscall failed: %w", unix.ENOENT)
		err := Wrap("open", "/missing", cause)

		require.Error(t, err)
		assert.Equal(t, NotFound, KindOf(err))
		assert.Equal(t, unix.ENOENT, CodeOf(err))
		require.ErrorIs(t, err, ErrNotFound)
		require.ErrorIs(t, err, fs.ErrNotExist, "errno should still match io/fs sentinels")
		assert.Equal(t, "open /missing: syscall failed: no such file or directory", err.Error())
	})

	t.Run("Success_PassThrough", func(t *testing.T) {
		t.Parallel()

		orig := New("stat", "/a", unix.EACCES)
		err := Wrap("open", "/b", fmt.Errorf("outer: %w", orig))

		var oe *Error
		require.ErrorAs(t, err, &oe)
		assert.Same(t, orig, oe)
	})

	t.Run("Success_UnknownCause", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("something odd")
		err := Wrap("read", "", cause)

		assert.Equal(t, Other, KindOf(err))
		assert.Equal(t, syscall.Errno(0), CodeOf(err))
		require.ErrorIs(t, err, cause)
		require.ErrorIs(t, err, ErrOther)
		assert.Equal(t, "read: something odd", err.Error())
	})
}

func TestLayerErrors(t *testing.T) {
	t.Parallel()

	closed := Closed("read", "f")
	assert.Equal(t, BadDescriptor, closed.Kind)
	assert.Equal(t, unix.EBADF, closed.Code)
	require.ErrorIs(t, closed, ErrFileClosed)
	require.ErrorIs(t, closed, ErrBadDescriptor)

	invalid := Invalid("decode", "", "bad bits")
	assert.True(t, Is(invalid, InvalidArgument))
	assert.Equal(t, unix.EINVAL, invalid.Code)
	assert.Contains(t, invalid.Error(), "bad bits")

	mismatch := Mismatch("fspath", []int{1, 2, 3})
	assert.True(t, Is(mismatch, TypeMismatch))
	assert.Contains(t, mismatch.Error(), "[]int")
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "not found", NotFound.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
	require.ErrorIs(t, Kind(42).Sentinel(), ErrOther)
}
