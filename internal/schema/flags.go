package schema

import (
	"fmt"
	"strings"

	"github.com/desertwitch/osbridge/internal/oserror"
)

// OpenFlags combines an access mode in the low bits with optional
// modifiers. The access modes are mutually exclusive, the modifiers
// coexist bitwise. Modifier values match the platform's native bits.
type OpenFlags uint32

// Access is the decoded access mode of an [OpenFlags] value.
type Access uint32

const (
	ReadOnly Access = iota
	WriteOnly
	ReadWrite
)

const (
	O_RDONLY OpenFlags = OpenFlags(ReadOnly)  //nolint:revive,stylecheck
	O_WRONLY OpenFlags = OpenFlags(WriteOnly) //nolint:revive,stylecheck
	O_RDWR   OpenFlags = OpenFlags(ReadWrite) //nolint:revive,stylecheck

	// AccessMask isolates the access mode bits.
	AccessMask OpenFlags = 0b11

	knownFlags = AccessMask | O_CREAT | O_EXCL | O_APPEND | O_TRUNC
)

func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "O_RDONLY"
	case WriteOnly:
		return "O_WRONLY"
	case ReadWrite:
		return "O_RDWR"
	default:
		return fmt.Sprintf("access(%d)", uint32(a))
	}
}

// Readable reports whether the access mode permits reading.
func (a Access) Readable() bool {
	return a == ReadOnly || a == ReadWrite
}

// Writable reports whether the access mode permits writing.
func (a Access) Writable() bool {
	return a == WriteOnly || a == ReadWrite
}

// Decoded is the validated form of an [OpenFlags] value.
type Decoded struct {
	Access    Access
	Create    bool
	Exclusive bool
	Append    bool
	Truncate  bool
}

// Decode validates the flags. Unknown bits or an access mode outside of
// read-only, write-only and read-write produce an InvalidArgument error.
// An exclusive flag without create is carried along but has no effect.
func (f OpenFlags) Decode() (Decoded, error) {
	if unknown := f &^ knownFlags; unknown != 0 {
		return Decoded{}, oserror.Invalid("open", "", fmt.Sprintf("unknown open flag bits %#x", uint32(unknown)))
	}

	access := Access(f & AccessMask)
	if access > ReadWrite {
		return Decoded{}, oserror.Invalid("open", "", fmt.Sprintf("invalid access mode %d", uint32(access)))
	}

	return Decoded{
		Access:    access,
		Create:    f&O_CREAT != 0,
		Exclusive: f&O_EXCL != 0,
		Append:    f&O_APPEND != 0,
		Truncate:  f&O_TRUNC != 0,
	}, nil
}

func (f OpenFlags) String() string {
	parts := []string{Access(f & AccessMask).String()}

	for _, mod := range []struct {
		flag OpenFlags
		name string
	}{
		{O_CREAT, "O_CREAT"},
		{O_EXCL, "O_EXCL"},
		{O_APPEND, "O_APPEND"},
		{O_TRUNC, "O_TRUNC"},
	} {
		if f&mod.flag != 0 {
			parts = append(parts, mod.name)
		}
	}

	if unknown := f &^ knownFlags; unknown != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint32(unknown)))
	}

	return strings.Join(parts, "|")
}
