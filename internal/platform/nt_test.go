//go:build windows

package platform

import (
	"testing"

	"github.com/desertwitch/osbridge/internal/schema"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/windows"
)

func TestOpenParams(t *testing.T) {
	t.Parallel()

	const baseAttrs = uint32(windows.FILE_ATTRIBUTE_NORMAL | windows.FILE_FLAG_BACKUP_SEMANTICS)

	tests := []struct {
		name       string
		flags      schema.OpenFlags
		perm       uint32
		access     uint32
		createMode uint32
		attrs      uint32
	}{
		{"ReadOnly", schema.O_RDONLY, 0o666, windows.GENERIC_READ, windows.OPEN_EXISTING, baseAttrs},
		{"WriteOnly", schema.O_WRONLY, 0o666, windows.GENERIC_WRITE, windows.OPEN_EXISTING, baseAttrs},
		{"ReadWrite", schema.O_RDWR, 0o666, windows.GENERIC_READ | windows.GENERIC_WRITE, windows.OPEN_EXISTING, baseAttrs},
		{"Create", schema.O_WRONLY | schema.O_CREAT, 0o666, windows.GENERIC_WRITE, windows.OPEN_ALWAYS, baseAttrs},
		{"CreateExclusive", schema.O_WRONLY | schema.O_CREAT | schema.O_EXCL, 0o666, windows.GENERIC_WRITE, windows.CREATE_NEW, baseAttrs},
		{"CreateTruncate", schema.O_WRONLY | schema.O_CREAT | schema.O_TRUNC, 0o666, windows.GENERIC_WRITE, windows.CREATE_ALWAYS, baseAttrs},
		{"Truncate", schema.O_RDWR | schema.O_TRUNC, 0o666, windows.GENERIC_READ | windows.GENERIC_WRITE, windows.TRUNCATE_EXISTING, baseAttrs},
		{"ExclusiveWithoutCreate", schema.O_RDONLY | schema.O_EXCL, 0o666, windows.GENERIC_READ, windows.OPEN_EXISTING, baseAttrs},
		{"Append", schema.O_WRONLY | schema.O_APPEND, 0o666, appendAccess, windows.OPEN_EXISTING, baseAttrs},
		{"AppendReadWrite", schema.O_RDWR | schema.O_APPEND, 0o666, windows.GENERIC_READ | appendAccess, windows.OPEN_EXISTING, baseAttrs},
		{"AppendReadOnly", schema.O_RDONLY | schema.O_APPEND, 0o666, windows.GENERIC_READ, windows.OPEN_EXISTING, baseAttrs},
		{"CreateReadOnlyPerm", schema.O_WRONLY | schema.O_CREAT, 0o444, windows.GENERIC_WRITE, windows.OPEN_ALWAYS, baseAttrs | windows.FILE_ATTRIBUTE_READONLY},
		{"ReadOnlyPermWithoutCreate", schema.O_RDONLY, 0o444, windows.GENERIC_READ, windows.OPEN_EXISTING, baseAttrs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := tt.flags.Decode()
			assert.NoError(t, err)

			access, createMode, attrs := openParams(d, tt.perm)
			assert.Equal(t, tt.access, access, "access")
			assert.Equal(t, tt.createMode, createMode, "creation disposition")
			assert.Equal(t, tt.attrs, attrs, "attributes")
		})
	}
}

func TestCaps_Windows(t *testing.T) {
	t.Parallel()

	caps := Caps()

	assert.Equal(t, "nt", Current().Name())
	assert.Empty(t, caps.SupportsDirFD.List())
	assert.True(t, caps.SupportsFollowSymlinks.Contains(OpStat))
	assert.False(t, caps.SupportsFD.Contains(OpChdir))
}

func TestHelpers_Windows(t *testing.T) {
	t.Parallel()

	assert.True(t, isExecutableName(`C:\tools\RUN.EXE`))
	assert.True(t, isExecutableName("script.cmd"))
	assert.False(t, isExecutableName("notes.txt"))

	assert.True(t, isAbsWindows(`C:\x`))
	assert.True(t, isAbsWindows(`\\host\share`))
	assert.False(t, isAbsWindows(`C:x`))

	ft := windows.NsecToFiletime(1_700_000_000_123_456_700)
	assert.Equal(t, schema.Timestamp{Sec: 1_700_000_000, Nsec: 123_456_700}, filetimeToTimestamp(ft))
}
