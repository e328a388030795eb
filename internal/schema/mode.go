package schema

import "io/fs"

// Mode holds file type and permission bits in the POSIX encoding. Windows
// metadata is synthesized into the same encoding, so type checks are
// portable.
type Mode uint32

const (
	ModeTypeMask Mode = 0o170000

	ModeSocket  Mode = 0o140000
	ModeSymlink Mode = 0o120000
	ModeRegular Mode = 0o100000
	ModeBlock   Mode = 0o060000
	ModeDir     Mode = 0o040000
	ModeChar    Mode = 0o020000
	ModeFifo    Mode = 0o010000

	ModeSetuid Mode = 0o4000
	ModeSetgid Mode = 0o2000
	ModeSticky Mode = 0o1000

	ModePermMask Mode = 0o777
)

// Type returns only the file type bits.
func (m Mode) Type() Mode {
	return m & ModeTypeMask
}

// Perm returns only the permission bits.
func (m Mode) Perm() Mode {
	return m & ModePermMask
}

func (m Mode) IsDir() bool {
	return m.Type() == ModeDir
}

func (m Mode) IsRegular() bool {
	return m.Type() == ModeRegular
}

func (m Mode) IsSymlink() bool {
	return m.Type() == ModeSymlink
}

// FileMode converts the POSIX encoding into an [fs.FileMode].
func (m Mode) FileMode() fs.FileMode {
	fm := fs.FileMode(m.Perm())

	switch m.Type() {
	case ModeDir:
		fm |= fs.ModeDir
	case ModeSymlink:
		fm |= fs.ModeSymlink
	case ModeFifo:
		fm |= fs.ModeNamedPipe
	case ModeSocket:
		fm |= fs.ModeSocket
	case ModeChar:
		fm |= fs.ModeDevice | fs.ModeCharDevice
	case ModeBlock:
		fm |= fs.ModeDevice
	}

	if m&ModeSetuid != 0 {
		fm |= fs.ModeSetuid
	}
	if m&ModeSetgid != 0 {
		fm |= fs.ModeSetgid
	}
	if m&ModeSticky != 0 {
		fm |= fs.ModeSticky
	}

	return fm
}

// ModeFromFileMode converts an [fs.FileMode] into the POSIX encoding. A
// mode without type bits is a regular file.
func ModeFromFileMode(fm fs.FileMode) Mode {
	m := Mode(fm.Perm())

	switch {
	case fm&fs.ModeDir != 0:
		m |= ModeDir
	case fm&fs.ModeSymlink != 0:
		m |= ModeSymlink
	case fm&fs.ModeNamedPipe != 0:
		m |= ModeFifo
	case fm&fs.ModeSocket != 0:
		m |= ModeSocket
	case fm&fs.ModeCharDevice != 0:
		m |= ModeChar
	case fm&fs.ModeDevice != 0:
		m |= ModeBlock
	case fm&fs.ModeIrregular != 0:
		// no type bits
	default:
		m |= ModeRegular
	}

	if fm&fs.ModeSetuid != 0 {
		m |= ModeSetuid
	}
	if fm&fs.ModeSetgid != 0 {
		m |= ModeSetgid
	}
	if fm&fs.ModeSticky != 0 {
		m |= ModeSticky
	}

	return m
}
