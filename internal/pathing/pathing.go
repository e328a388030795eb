// Package pathing implements the platform's path syntax: marker constants,
// joining and splitting, conversion between text and raw byte paths, and the
// existence predicates derived from metadata queries.
package pathing

import (
	"strings"

	"github.com/desertwitch/osbridge/internal/oserror"
	"github.com/desertwitch/osbridge/internal/schema"
)

const (
	CurDir = "."
	ParDir = ".."
	ExtSep = "."
)

// MarkerSet holds the platform's path marker constants. AltSep is nil on
// platforms without an alternate separator.
type MarkerSet struct {
	CurDir      string  `yaml:"curdir"`
	ParDir      string  `yaml:"pardir"`
	ExtSep      string  `yaml:"extsep"`
	Sep         string  `yaml:"sep"`
	AltSep      *string `yaml:"altsep"`
	PathListSep string  `yaml:"pathsep"`
	LineSep     string  `yaml:"linesep"`
}

// Markers returns the marker constants of the running platform.
func Markers() MarkerSet {
	m := MarkerSet{
		CurDir:      CurDir,
		ParDir:      ParDir,
		ExtSep:      ExtSep,
		Sep:         Sep,
		PathListSep: PathListSep,
		LineSep:     LineSep,
	}

	if alt, ok := AltSep(); ok {
		m.AltSep = &alt
	}

	return m
}

// AltSep returns the alternate separator, if the platform has one.
func AltSep() (string, bool) {
	return altSep, altSep != ""
}

// PathLike is implemented by values that have a textual path form.
type PathLike interface {
	FSPath() string
}

// FSPath returns the path representation of v. Text and raw bytes are
// returned as they are, [PathLike] values are converted through their
// method. Anything else fails with a TypeMismatch error.
func FSPath(v any) (any, error) {
	switch p := v.(type) {
	case string:
		return p, nil
	case []byte:
		return p, nil
	case PathLike:
		return p.FSPath(), nil
	default:
		return nil, oserror.Mismatch("fspath", v)
	}
}

// Text returns the textual form of a path value accepted by [FSPath].
func Text(v any) (string, error) {
	p, err := FSPath(v)
	if err != nil {
		return "", err
	}

	switch p := p.(type) {
	case []byte:
		return Decode(p)
	case string:
		return p, nil
	}

	return "", oserror.Mismatch("fspath", v)
}

// Encode converts a textual path into its raw byte form.
func Encode(p string) []byte {
	return []byte(p)
}

// Decode converts a raw byte path into its textual form. Bytes that are not
// valid in the platform's text encoding fail with InvalidArgument.
func Decode(b []byte) (string, error) {
	if !validText(b) {
		return "", oserror.Invalid("decode", "", ErrNotText.Error())
	}

	return string(b), nil
}

// SplitDrive splits a path into its drive and the remainder. The drive is
// always empty on POSIX-like platforms.
func SplitDrive(p string) (string, string) {
	return splitDrive(p)
}

// IsAbs reports whether the path is absolute.
func IsAbs(p string) bool {
	_, rest := splitDrive(p)

	return rest != "" && isSep(rest[0])
}

// Join joins path segments with the separator. A segment that is absolute
// discards all previous segments; on Windows a rooted segment without a
// drive keeps the drive of the previous segments.
func Join(base string, segments ...string) string {
	resultDrive, resultPath := splitDrive(base)

	for _, seg := range segments {
		segDrive, segPath := splitDrive(seg)

		if segPath != "" && isSep(segPath[0]) {
			if segDrive != "" || resultDrive == "" {
				resultDrive = segDrive
			}
			resultPath = segPath

			continue
		}

		if segDrive != "" && segDrive != resultDrive {
			if !strings.EqualFold(segDrive, resultDrive) {
				resultDrive = segDrive
				resultPath = segPath

				continue
			}
			resultDrive = segDrive
		}

		if resultPath != "" && !isSep(resultPath[len(resultPath)-1]) {
			resultPath += Sep
		}
		resultPath += segPath
	}

	if resultPath != "" && !isSep(resultPath[0]) && resultDrive != "" && resultDrive[len(resultDrive)-1] != ':' {
		return resultDrive + Sep + resultPath
	}

	return resultDrive + resultPath
}

// Split splits a path into its directory head and its last segment.
// Trailing separators are removed from the head unless it is the root.
func Split(p string) (string, string) {
	drive, rest := splitDrive(p)

	i := len(rest)
	for i > 0 && !isSep(rest[i-1]) {
		i--
	}

	head, tail := rest[:i], rest[i:]

	trimmed := head
	for trimmed != "" && isSep(trimmed[len(trimmed)-1]) {
		trimmed = trimmed[:len(trimmed)-1]
	}
	if trimmed == "" {
		trimmed = head
	}

	return drive + trimmed, tail
}

// Basename returns the last segment of a path.
func Basename(p string) string {
	_, tail := Split(p)

	return tail
}

// Dirname returns everything but the last segment of a path.
func Dirname(p string) string {
	head, _ := Split(p)

	return head
}

type statProvider interface {
	Stat(path string, follow bool) (*schema.Metadata, error)
}

// Handler is the principal implementation of the existence predicates.
type Handler struct {
	statHandler statProvider
}

// NewHandler returns a pointer to a new [Handler].
func NewHandler(statHandler statProvider) *Handler {
	return &Handler{
		statHandler: statHandler,
	}
}

// Exists reports whether the path can be stat-ed, following symlinks.
func (p *Handler) Exists(path string) bool {
	_, err := p.statHandler.Stat(path, true)

	return err == nil
}

// Lexists reports whether the path itself exists, broken symlinks included.
func (p *Handler) Lexists(path string) bool {
	_, err := p.statHandler.Stat(path, false)

	return err == nil
}

// IsFile reports whether the path is a regular file, following symlinks.
func (p *Handler) IsFile(path string) bool {
	md, err := p.statHandler.Stat(path, true)

	return err == nil && md.IsRegular()
}

// IsDir reports whether the path is a directory, following symlinks.
func (p *Handler) IsDir(path string) bool {
	md, err := p.statHandler.Stat(path, true)

	return err == nil && md.IsDir()
}
