//go:build linux || darwin

package filesystem

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/desertwitch/osbridge/internal/oserror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupScanDir creates one regular file, one directory, one symlink to the
// file and one symlink to the directory.
func setupScanDir(t *testing.T, h *Handler) string {
	t.Helper()

	dir := t.TempDir()
	writeTestFile(t, h, filepath.Join(dir, "file"), "content")
	require.NoError(t, h.Mkdir(filepath.Join(dir, "dir"), 0o755))
	require.NoError(t, h.Symlink(filepath.Join(dir, "file"), filepath.Join(dir, "link-file")))
	require.NoError(t, h.Symlink(filepath.Join(dir, "dir"), filepath.Join(dir, "link-dir")))

	return dir
}

func TestHandler_Scan(t *testing.T) {
	t.Parallel()

	h := newTestHandler()
	dir := setupScanDir(t, h)

	scanner, err := h.Scan(dir)
	require.NoError(t, err)

	entries := map[string]*DirEntry{}
	for scanner.Next() {
		e := scanner.Entry()
		entries[e.Name()] = e
	}
	require.NoError(t, scanner.Err())
	assert.False(t, scanner.Next(), "exhausted scanner should stay exhausted")
	require.NoError(t, scanner.Close())

	require.Len(t, entries, 4)
	require.Contains(t, entries, "file")
	require.Contains(t, entries, "dir")
	require.Contains(t, entries, "link-file")
	require.Contains(t, entries, "link-dir")

	tests := []struct {
		name         string
		symlink      bool
		dirFollow    bool
		dirNoFollow  bool
		fileFollow   bool
		fileNoFollow bool
	}{
		{"file", false, false, false, true, true},
		{"dir", false, true, true, false, false},
		{"link-file", true, false, false, true, false},
		{"link-dir", true, true, false, false, false},
	}

	for _, tt := range tests {
		e := entries[tt.name]
		assert.Equal(t, filepath.Join(dir, tt.name), e.Path())
		assert.Equal(t, tt.symlink, e.IsSymlink(), tt.name)

		isDir, err := e.IsDir(true)
		require.NoError(t, err)
		assert.Equal(t, tt.dirFollow, isDir, "%s IsDir(true)", tt.name)

		isDir, err = e.IsDir(false)
		require.NoError(t, err)
		assert.Equal(t, tt.dirNoFollow, isDir, "%s IsDir(false)", tt.name)

		isFile, err := e.IsFile(true)
		require.NoError(t, err)
		assert.Equal(t, tt.fileFollow, isFile, "%s IsFile(true)", tt.name)

		isFile, err = e.IsFile(false)
		require.NoError(t, err)
		assert.Equal(t, tt.fileNoFollow, isFile, "%s IsFile(false)", tt.name)
	}

	ino, err := entries["file"].Inode()
	require.NoError(t, err)
	md, err := h.Lstat(filepath.Join(dir, "file"))
	require.NoError(t, err)
	assert.Equal(t, md.Inode, ino)
}

func TestDirEntry_FreshMetadata(t *testing.T) {
	t.Parallel()

	h := newTestHandler()
	dir := setupScanDir(t, h)

	scanner, err := h.Scan(dir)
	require.NoError(t, err)
	defer scanner.Close()

	var link *DirEntry
	for e, err := range scanner.All() {
		require.NoError(t, err)
		if e.Name() == "link-dir" {
			link = e
		}
	}
	require.NotNil(t, link)

	require.NoError(t, h.Rmdir(filepath.Join(dir, "dir")))

	assert.True(t, link.IsSymlink(), "the link fact is cached")

	isDir, err := link.IsDir(true)
	require.NoError(t, err)
	assert.False(t, isDir, "a dangling link should requery and report false")

	_, err = link.Stat(true)
	require.ErrorIs(t, err, oserror.ErrNotFound)

	md, err := link.Stat(false)
	require.NoError(t, err)
	assert.True(t, md.IsSymlink())
}

func TestScanner_Close(t *testing.T) {
	t.Parallel()

	h := newTestHandler()
	dir := setupScanDir(t, h)

	scanner, err := h.Scan(dir)
	require.NoError(t, err)

	require.True(t, scanner.Next())
	require.NoError(t, scanner.Close())
	assert.False(t, scanner.Next())
	assert.Nil(t, scanner.Entry())
	require.NoError(t, scanner.Close(), "closing twice should be a no-op")
}

func TestScanner_All_EarlyBreak(t *testing.T) {
	t.Parallel()

	h := newTestHandler()
	dir := setupScanDir(t, h)

	scanner, err := h.Scan(dir)
	require.NoError(t, err)

	var seen int
	for _, err := range scanner.All() {
		require.NoError(t, err)
		seen++

		break
	}

	assert.Equal(t, 1, seen)
	assert.False(t, scanner.Next(), "breaking out should close the scanner")
}

func TestScanner_ManyEntries(t *testing.T) {
	t.Parallel()

	h := newTestHandler()
	dir := t.TempDir()

	const count = scanBatchSize*2 + 7
	for i := range count {
		writeTestFile(t, h, filepath.Join(dir, "f"+strconv.Itoa(i)), "")
	}

	scanner, err := h.Scan(dir)
	require.NoError(t, err)

	names := map[string]struct{}{}
	for e, err := range scanner.All() {
		require.NoError(t, err)
		names[e.Name()] = struct{}{}
	}

	assert.Len(t, names, count)
}

func TestHandler_Scan_Fail(t *testing.T) {
	t.Parallel()

	h := newTestHandler()
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	writeTestFile(t, h, file, "")

	_, err := h.Scan(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, oserror.ErrNotFound)

	_, err = h.Scan(file)
	require.ErrorIs(t, err, oserror.ErrNotADirectory)
}
