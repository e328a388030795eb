package filesystem

import (
	"errors"
	"io"
	"io/fs"
	"iter"

	"github.com/desertwitch/osbridge/internal/oserror"
	"github.com/desertwitch/osbridge/internal/pathing"
	"github.com/desertwitch/osbridge/internal/platform"
	"github.com/desertwitch/osbridge/internal/schema"
)

// scanBatchSize is the number of entries read from the operating system at
// once while scanning a directory.
const scanBatchSize = 64

// Scanner is a lazy, single-pass iterator over the immediate children of a
// directory. Entries are produced in the order the operating system reports
// them; "." and ".." are never produced.
type Scanner struct {
	handler *Handler
	dir     string
	stream  platform.DirStream
	batch   []fs.DirEntry
	pending error
	entry   *DirEntry
	err     error
	done    bool
}

// Scan opens dir for iteration. The caller must exhaust or close the
// returned [Scanner] to release the directory handle.
func (h *Handler) Scan(dir string) (*Scanner, error) {
	stream, err := h.native.OpenDir(dir)
	if err != nil {
		return nil, oserror.Wrap("scandir", dir, err)
	}

	return &Scanner{
		handler: h,
		dir:     dir,
		stream:  stream,
	}, nil
}

// Next advances to the next entry. It returns false when the directory is
// exhausted, an error occurred, or the scanner was closed.
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}

	for len(s.batch) == 0 {
		if s.pending != nil {
			s.finish(s.pending)

			return false
		}

		entries, err := s.stream.ReadDir(scanBatchSize)
		s.batch = entries

		switch {
		case errors.Is(err, io.EOF):
			if len(entries) == 0 {
				s.finish(nil)

				return false
			}
		case err != nil:
			s.pending = oserror.Wrap("scandir", s.dir, err)
		case len(entries) == 0:
			s.finish(nil)

			return false
		}
	}

	s.entry = newDirEntry(s.handler, s.dir, s.batch[0])
	s.batch = s.batch[1:]

	return true
}

// Entry returns the entry produced by the last successful [Scanner.Next].
func (s *Scanner) Entry() *DirEntry {
	return s.entry
}

// Err returns the error that ended the iteration, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Close releases the directory handle. Later calls to [Scanner.Next] return
// false. Closing an exhausted scanner is a no-op.
func (s *Scanner) Close() error {
	if s.done {
		return nil
	}

	s.done = true
	s.batch = nil
	s.entry = nil

	if err := s.stream.Close(); err != nil {
		return oserror.Wrap("closedir", s.dir, err)
	}

	return nil
}

// All returns an iterator over the remaining entries. An iteration error is
// yielded once as the final element. The scanner is closed when the
// iteration stops, including an early break.
func (s *Scanner) All() iter.Seq2[*DirEntry, error] {
	return func(yield func(*DirEntry, error) bool) {
		defer s.Close() //nolint:errcheck

		for s.Next() {
			if !yield(s.entry, nil) {
				return
			}
		}

		if s.err != nil {
			yield(nil, s.err)
		}
	}
}

func (s *Scanner) finish(err error) {
	s.err = err
	s.entry = nil

	if cerr := s.Close(); s.err == nil {
		s.err = cerr
	}
}

// DirEntry is one child produced by a [Scanner]. Its name, path and the type
// bits from the directory read are fixed at iteration; every metadata query
// asks the operating system again.
type DirEntry struct {
	handler *Handler
	name    string
	path    string
	typ     schema.Mode
	known   bool
}

func newDirEntry(h *Handler, dir string, de fs.DirEntry) *DirEntry {
	t := de.Type()

	return &DirEntry{
		handler: h,
		name:    de.Name(),
		path:    pathing.Join(dir, de.Name()),
		typ:     schema.ModeFromFileMode(t).Type(),
		known:   t&fs.ModeIrregular == 0,
	}
}

// Name returns the last path segment of the entry.
func (e *DirEntry) Name() string {
	return e.name
}

// Path returns the scanned directory joined with the entry name.
func (e *DirEntry) Path() string {
	return e.path
}

// IsSymlink reports whether the entry was a symlink when it was read.
func (e *DirEntry) IsSymlink() bool {
	if !e.known {
		md, err := e.handler.Lstat(e.path)

		return err == nil && md.IsSymlink()
	}

	return e.typ == schema.ModeSymlink
}

// IsDir reports whether the entry is a directory. With follow set, a symlink
// entry is answered by querying its target; a target that no longer exists
// is reported as false.
func (e *DirEntry) IsDir(follow bool) (bool, error) {
	return e.isType(schema.ModeDir, follow)
}

// IsFile reports whether the entry is a regular file, see [DirEntry.IsDir].
func (e *DirEntry) IsFile(follow bool) (bool, error) {
	return e.isType(schema.ModeRegular, follow)
}

func (e *DirEntry) isType(want schema.Mode, follow bool) (bool, error) {
	if e.known && (!follow || e.typ != schema.ModeSymlink) {
		return e.typ == want, nil
	}

	md, err := e.Stat(follow)
	if err != nil {
		if oserror.Is(err, oserror.NotFound) {
			return false, nil
		}

		return false, err
	}

	return md.Mode.Type() == want, nil
}

// Stat returns fresh metadata for the entry, following a symlink entry to
// its target when follow is set.
func (e *DirEntry) Stat(follow bool) (*schema.Metadata, error) {
	return e.handler.Stat(e.path, follow)
}

// Inode returns the inode or file index of the entry itself.
func (e *DirEntry) Inode() (uint64, error) {
	md, err := e.handler.Lstat(e.path)
	if err != nil {
		return 0, err
	}

	return md.Inode, nil
}
