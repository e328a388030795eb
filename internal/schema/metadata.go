package schema

import (
	"time"
)

// Timestamp is a point in time as seconds and nanoseconds since the epoch.
type Timestamp struct {
	Sec  int64
	Nsec int64
}

// NewTimestamp returns the [Timestamp] of a [time.Time].
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Sec: t.Unix(), Nsec: int64(t.Nanosecond())}
}

// Float returns the timestamp as fractional seconds since the epoch.
func (t Timestamp) Float() float64 {
	return float64(t.Sec) + float64(t.Nsec)/float64(time.Second)
}

// Time returns the timestamp as a [time.Time].
func (t Timestamp) Time() time.Time {
	return time.Unix(t.Sec, t.Nsec)
}

// Compare returns -1, 0 or +1 depending on whether t is before, equal to or
// after u.
func (t Timestamp) Compare(u Timestamp) int {
	switch {
	case t.Sec < u.Sec:
		return -1
	case t.Sec > u.Sec:
		return 1
	case t.Nsec < u.Nsec:
		return -1
	case t.Nsec > u.Nsec:
		return 1
	default:
		return 0
	}
}

// After reports whether t is strictly after u.
func (t Timestamp) After(u Timestamp) bool {
	return t.Compare(u) > 0
}

// Metadata is an immutable snapshot of a file's attributes. Fields the
// platform does not provide hold stable placeholders (zero).
type Metadata struct {
	Path  string
	Mode  Mode
	Inode uint64
	Dev   uint64
	Nlink uint64
	UID   uint32
	GID   uint32
	Size  int64
	Atime Timestamp
	Mtime Timestamp
	Ctime Timestamp
}

func (m *Metadata) IsDir() bool {
	return m.Mode.IsDir()
}

func (m *Metadata) IsRegular() bool {
	return m.Mode.IsRegular()
}

func (m *Metadata) IsSymlink() bool {
	return m.Mode.IsSymlink()
}
