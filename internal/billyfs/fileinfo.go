package billyfs

import (
	"io/fs"
	"time"

	"github.com/desertwitch/osbridge/internal/schema"
)

// fileInfo adapts [schema.Metadata] to [fs.FileInfo].
type fileInfo struct {
	name string
	md   *schema.Metadata
}

var _ fs.FileInfo = (*fileInfo)(nil)

func newFileInfo(name string, md *schema.Metadata) *fileInfo {
	return &fileInfo{name: name, md: md}
}

func (fi *fileInfo) Name() string {
	return fi.name
}

func (fi *fileInfo) Size() int64 {
	return fi.md.Size
}

func (fi *fileInfo) Mode() fs.FileMode {
	return fi.md.Mode.FileMode()
}

func (fi *fileInfo) ModTime() time.Time {
	return fi.md.Mtime.Time()
}

func (fi *fileInfo) IsDir() bool {
	return fi.md.IsDir()
}

// Sys returns the underlying [*schema.Metadata].
func (fi *fileInfo) Sys() any {
	return fi.md
}
