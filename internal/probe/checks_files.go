package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/desertwitch/osbridge/internal/billyfs"
	"github.com/desertwitch/osbridge/internal/oserror"
	"github.com/desertwitch/osbridge/internal/pathing"
	"github.com/desertwitch/osbridge/internal/schema"
	"github.com/desertwitch/osbridge/internal/scoped"
	"github.com/dustin/go-humanize"
	"github.com/go-git/go-billy/v5/util"
)

func checkDescriptorLifecycle(_ context.Context, env *Env) error {
	f, err := env.FS.OpenFile(env.Path("lifecycle"), schema.O_RDWR|schema.O_CREAT, env.FS.DefaultPerm())
	if err != nil {
		return failf("open: %v", err)
	}

	other, err := env.FS.OpenFile(env.Path("other"), schema.O_RDWR|schema.O_CREAT, env.FS.DefaultPerm())
	if err != nil {
		f.Close()

		return failf("open second handle: %v", err)
	}
	defer other.Close()

	if err := f.Close(); err != nil {
		return failf("close: %v", err)
	}

	_, err = f.Write([]byte("x"))
	if err := expectKind(err, oserror.BadDescriptor, "write after close"); err != nil {
		return err
	}
	_, err = f.ReadN(1)
	if err := expectKind(err, oserror.BadDescriptor, "read after close"); err != nil {
		return err
	}
	if err := expectKind(f.Sync(), oserror.BadDescriptor, "sync after close"); err != nil {
		return err
	}
	if err := expectKind(f.Close(), oserror.BadDescriptor, "second close"); err != nil {
		return err
	}

	if _, err := other.WriteString("still fine"); err != nil {
		return failf("unrelated handle broke after close: %v", err)
	}

	return nil
}

func checkNotFound(_ context.Context, env *Env) error {
	missing := env.Path("missing")

	for _, flags := range []schema.OpenFlags{schema.O_RDONLY, schema.O_WRONLY, schema.O_RDWR} {
		_, err := env.FS.Open(missing, flags)
		if err := expectKind(err, oserror.NotFound, "open "+flags.String()); err != nil {
			return err
		}
	}

	_, err := env.FS.OpenFile(env.Path("no-parent", "file"), schema.O_WRONLY|schema.O_CREAT, env.FS.DefaultPerm())
	if err := expectKind(err, oserror.NotFound, "create below a missing parent"); err != nil {
		return err
	}

	return expectKind(env.FS.Rename(missing, env.Path("target")), oserror.NotFound, "rename a missing file")
}

func checkExclusiveCreate(_ context.Context, env *Env) error {
	path := env.Path("exclusive")
	if err := env.FS.WriteFile(path, []byte("original"), env.FS.DefaultPerm()); err != nil {
		return failf("write: %v", err)
	}

	_, err := env.FS.OpenFile(path, schema.O_WRONLY|schema.O_CREAT|schema.O_EXCL, env.FS.DefaultPerm())
	if err := expectKind(err, oserror.AlreadyExists, "exclusive create of an existing file"); err != nil {
		return err
	}

	data, err := env.FS.ReadFile(path)
	if err != nil {
		return failf("read back: %v", err)
	}

	return expectEqual(string(data), "original", "contents after a failed exclusive create")
}

// payload returns size bytes of a pattern that does not repeat at any
// power-of-two block size.
func payload(size int) []byte {
	p := make([]byte, size)
	for i := range p {
		p[i] = byte(i % 251) //nolint:mnd
	}

	return p
}

func checkWriteRead(_ context.Context, env *Env) error {
	want := payload(env.PayloadSize)

	f, err := env.FS.OpenFile(env.Path("write-read"), schema.O_RDWR|schema.O_CREAT|schema.O_TRUNC, env.FS.DefaultPerm())
	if err != nil {
		return failf("open: %v", err)
	}
	defer f.Close()

	n, err := f.Write(want)
	if err != nil {
		return failf("write: %v", err)
	}
	if err := expectEqual(n, len(want), "bytes written"); err != nil {
		return err
	}

	if err := f.Sync(); err != nil {
		return failf("sync: %v", err)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return failf("seek: %v", err)
	}

	got, err := f.ReadN(len(want) + 1)
	if err != nil {
		return failf("read: %v", err)
	}
	if !bytes.Equal(got, want) {
		return failf("read %d bytes that differ from the %d written", len(got), len(want))
	}

	eof, err := f.ReadN(1)
	if err != nil || len(eof) != 0 {
		return failf("read at end of file: got %d bytes, %v", len(eof), err)
	}

	slog.Debug("Round trip verified.", "size", humanize.IBytes(uint64(len(want))))

	return nil
}

func checkAppendRename(ctx context.Context, env *Env) error {
	first, second := env.Path("first"), env.Path("second")

	if err := env.FS.WriteFile(first, []byte("abc"), env.FS.DefaultPerm()); err != nil {
		return failf("write: %v", err)
	}

	created, err := env.FS.Stat(first, true)
	if err != nil {
		return failf("stat: %v", err)
	}

	if err := env.Sleep(ctx); err != nil {
		return err
	}

	f, err := env.FS.Open(first, schema.O_RDWR|schema.O_APPEND)
	if err != nil {
		return failf("open for append: %v", err)
	}

	if _, err := f.WriteString("d"); err != nil {
		f.Close()

		return failf("append: %v", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()

		return failf("seek: %v", err)
	}
	if _, err := f.ReadN(1); err != nil {
		f.Close()

		return failf("read: %v", err)
	}
	if _, err := f.WriteString("ef"); err != nil {
		f.Close()

		return failf("append after read: %v", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()

		return failf("sync: %v", err)
	}
	if err := f.Close(); err != nil {
		return failf("close: %v", err)
	}

	if err := env.FS.Rename(first, second); err != nil {
		return failf("rename: %v", err)
	}
	if env.Paths.Exists(first) || !env.Paths.Exists(second) {
		return failf("existence after rename: source %t, target %t", env.Paths.Exists(first), env.Paths.Exists(second))
	}

	data, err := env.FS.ReadFile(second)
	if err != nil {
		return failf("reopen: %v", err)
	}
	if err := expectEqual(string(data), "abcdef", "contents after append and rename"); err != nil {
		return err
	}

	md, err := env.FS.Stat(second, true)
	if err != nil {
		return failf("stat: %v", err)
	}
	if err := expectEqual(md.Size, int64(6), "size"); err != nil { //nolint:mnd
		return err
	}
	if !md.Mtime.After(created.Mtime) {
		return failf("mtime %v is not after %v", md.Mtime.Time(), created.Mtime.Time())
	}

	if err := env.FS.Rename(second, first); err != nil {
		return failf("rename back: %v", err)
	}
	if !env.Paths.Exists(first) || env.Paths.Exists(second) {
		return failf("existence after renaming back")
	}

	return nil
}

func checkScandir(_ context.Context, env *Env) error {
	if err := env.FS.WriteFile(env.Path("file"), []byte("content"), env.FS.DefaultPerm()); err != nil {
		return failf("write: %v", err)
	}
	if err := env.FS.Mkdir(env.Path("dir"), checkDirPerm); err != nil {
		return failf("mkdir: %v", err)
	}
	if err := symlinkOrSkip(env, env.Path("file"), env.Path("link-file")); err != nil {
		return err
	}
	if err := symlinkOrSkip(env, env.Path("dir"), env.Path("link-dir")); err != nil {
		return err
	}

	for i := range env.ScanEntries {
		if err := env.FS.WriteFile(env.Path(fmt.Sprintf("extra-%04d", i)), nil, env.FS.DefaultPerm()); err != nil {
			return failf("write: %v", err)
		}
	}

	scanner, err := env.FS.Scan(env.Dir)
	if err != nil {
		return failf("scan: %v", err)
	}

	type expectation struct {
		symlink, dirFollow, dirNoFollow, fileFollow, fileNoFollow bool
	}
	want := map[string]expectation{
		"file":      {false, false, false, true, true},
		"dir":       {false, true, true, false, false},
		"link-file": {true, false, false, true, false},
		"link-dir":  {true, true, false, false, false},
	}
	for i := range env.ScanEntries {
		name := fmt.Sprintf("extra-%04d", i)
		want[name] = want["file"]
	}

	var names []string
	for e, err := range scanner.All() {
		if err != nil {
			return failf("scan: %v", err)
		}
		names = append(names, e.Name())

		w, ok := want[e.Name()]
		if !ok {
			return failf("unexpected entry %q", e.Name())
		}
		if err := expectEqual(e.Path(), env.Path(e.Name()), "entry path"); err != nil {
			return err
		}

		got := expectation{symlink: e.IsSymlink()}
		for _, p := range []struct {
			dst    *bool
			fn     func(bool) (bool, error)
			follow bool
		}{
			{&got.dirFollow, e.IsDir, true},
			{&got.dirNoFollow, e.IsDir, false},
			{&got.fileFollow, e.IsFile, true},
			{&got.fileNoFollow, e.IsFile, false},
		} {
			if *p.dst, err = p.fn(p.follow); err != nil {
				return failf("type predicate of %q: %v", e.Name(), err)
			}
		}

		if got != w {
			return failf("predicates of %q: got %+v, expected %+v", e.Name(), got, w)
		}
	}

	if len(names) != len(want) {
		slices.Sort(names)

		return failf("scan produced %v", names)
	}

	return nil
}

func checkStatFields(_ context.Context, env *Env) error {
	path := env.Path("stat")
	if err := env.FS.WriteFile(path, []byte("hello"), env.FS.DefaultPerm()); err != nil {
		return failf("write: %v", err)
	}

	md, err := env.FS.Stat(path, true)
	if err != nil {
		return failf("stat: %v", err)
	}
	if !md.IsRegular() || md.IsDir() || md.IsSymlink() {
		return failf("type bits %o do not describe a regular file", md.Mode.Type())
	}
	if err := expectEqual(md.Size, int64(5), "size"); err != nil { //nolint:mnd
		return err
	}
	if md.Nlink == 0 {
		return failf("link count is zero")
	}
	if md.Mtime.Sec == 0 {
		return failf("modification time is not set")
	}

	dir, err := env.FS.Stat(env.Dir, true)
	if err != nil {
		return failf("stat directory: %v", err)
	}
	if !dir.IsDir() {
		return failf("type bits %o do not describe a directory", dir.Mode.Type())
	}

	f, err := env.FS.Open(path, schema.O_RDONLY)
	if err != nil {
		return failf("open: %v", err)
	}
	defer f.Close()

	fmd, err := f.Stat()
	if err != nil {
		return failf("fstat: %v", err)
	}
	if fmd.Inode != md.Inode || fmd.Size != md.Size {
		return failf("fstat disagrees with stat")
	}

	link := env.Path("link")
	if err := symlinkOrSkip(env, path, link); err != nil {
		return err
	}

	lmd, err := env.FS.Stat(link, false)
	if err != nil {
		return failf("lstat: %v", err)
	}
	if !lmd.IsSymlink() {
		return failf("stat without following does not report a symlink")
	}

	followed, err := env.FS.Stat(link, true)
	if err != nil {
		return failf("stat through link: %v", err)
	}
	if !followed.IsRegular() || followed.Size != md.Size {
		return failf("stat through link does not reach the target")
	}

	target, err := env.FS.Readlink(link)
	if err != nil {
		return failf("readlink: %v", err)
	}

	return expectEqual(target, path, "link target")
}

func checkTimestamps(ctx context.Context, env *Env) error {
	first, second := env.Path("first"), env.Path("second")

	if err := env.FS.WriteFile(first, nil, env.FS.DefaultPerm()); err != nil {
		return failf("write: %v", err)
	}
	if err := env.Sleep(ctx); err != nil {
		return err
	}
	if err := env.FS.WriteFile(second, nil, env.FS.DefaultPerm()); err != nil {
		return failf("write: %v", err)
	}

	a, err := env.FS.Stat(first, true)
	if err != nil {
		return failf("stat: %v", err)
	}
	b, err := env.FS.Stat(second, true)
	if err != nil {
		return failf("stat: %v", err)
	}
	if !b.Ctime.After(a.Ctime) {
		return failf("change time of the later file %v is not after %v", b.Ctime.Time(), a.Ctime.Time())
	}

	if err := env.Sleep(ctx); err != nil {
		return err
	}

	f, err := env.FS.Open(first, schema.O_RDWR)
	if err != nil {
		return failf("open: %v", err)
	}
	defer f.Close()

	if _, err := f.WriteString("data"); err != nil {
		return failf("write: %v", err)
	}
	if err := f.Sync(); err != nil {
		return failf("sync: %v", err)
	}

	written, err := env.FS.Stat(first, true)
	if err != nil {
		return failf("stat: %v", err)
	}
	if !written.Mtime.After(a.Mtime) {
		return failf("modification time %v is not after %v", written.Mtime.Time(), a.Mtime.Time())
	}

	if err := env.Sleep(ctx); err != nil {
		return err
	}

	if _, err := f.ReadAt(make([]byte, 4), 0); err != nil { //nolint:mnd
		return failf("read: %v", err)
	}
	if err := f.Sync(); err != nil {
		return failf("sync: %v", err)
	}

	read, err := env.FS.Stat(first, true)
	if err != nil {
		return failf("stat: %v", err)
	}
	if read.Mtime != written.Mtime {
		return failf("a read changed the modification time")
	}

	if !read.Atime.After(written.Atime) {
		slog.Debug("Access time not updated by a read (relatime or noatime mount).", "path", first)

		return nil
	}
	if read.Atime.Compare(read.Mtime) < 0 {
		return failf("access time %v is before modification time %v", read.Atime.Time(), read.Mtime.Time())
	}

	return nil
}

func checkPathPredicates(_ context.Context, env *Env) error {
	file, dir, missing := env.Path("file"), env.Path("dir"), env.Path("missing")

	if err := env.FS.WriteFile(file, nil, env.FS.DefaultPerm()); err != nil {
		return failf("write: %v", err)
	}
	if err := env.FS.Mkdir(dir, checkDirPerm); err != nil {
		return failf("mkdir: %v", err)
	}

	for _, tt := range []struct {
		path                           string
		exists, lexists, isFile, isDir bool
	}{
		{file, true, true, true, false},
		{dir, true, true, false, true},
		{missing, false, false, false, false},
	} {
		got := [4]bool{env.Paths.Exists(tt.path), env.Paths.Lexists(tt.path), env.Paths.IsFile(tt.path), env.Paths.IsDir(tt.path)}
		if want := [4]bool{tt.exists, tt.lexists, tt.isFile, tt.isDir}; got != want {
			return failf("predicates of %q: got %v, expected %v", pathing.Basename(tt.path), got, want)
		}
	}

	dangling := env.Path("dangling")
	if err := symlinkOrSkip(env, missing, dangling); err != nil {
		return err
	}
	if env.Paths.Exists(dangling) || !env.Paths.Lexists(dangling) {
		return failf("dangling link: exists %t, lexists %t", env.Paths.Exists(dangling), env.Paths.Lexists(dangling))
	}

	if err := expectEqual(pathing.Basename(file), "file", "basename"); err != nil {
		return err
	}
	if err := expectEqual(pathing.Dirname(file), env.Dir, "dirname"); err != nil {
		return err
	}

	if !pathing.IsAbs(env.Dir) {
		return nil
	}

	return expectEqual(pathing.Join("ignored", env.Dir, "file"), file, "join with an absolute segment")
}

func checkWorkingDirScope(_ context.Context, env *Env) error {
	before, err := env.FS.Getwd()
	if err != nil {
		return failf("getwd: %v", err)
	}

	inside := func() error {
		if !env.Paths.IsFile("marker") {
			return failf("relative path does not resolve inside the scoped directory")
		}

		return errScopeProbe
	}

	if err := env.FS.WriteFile(env.Path("marker"), nil, env.FS.DefaultPerm()); err != nil {
		return failf("write: %v", err)
	}

	err = scoped.WithWorkingDir(env.FS, env.Dir, inside)
	switch {
	case err == nil:
		return failf("callback error was lost")
	case !errors.Is(err, errScopeProbe):
		return err
	}

	after, err := env.FS.Getwd()
	if err != nil {
		return failf("getwd: %v", err)
	}

	return expectEqual(after, before, "working directory after a failing scope")
}

func checkChecksumCopy(ctx context.Context, env *Env) error {
	src, dst := env.Path("src"), env.Path("dst")

	if err := env.FS.WriteFile(src, payload(env.PayloadSize), env.FS.DefaultPerm()); err != nil {
		return failf("write: %v", err)
	}

	if err := env.FS.CopyFile(ctx, src, dst, env.FS.DefaultPerm()); err != nil {
		return failf("copy: %v", err)
	}

	want, err := env.FS.Checksum(src)
	if err != nil {
		return failf("checksum: %v", err)
	}
	got, err := env.FS.Checksum(dst)
	if err != nil {
		return failf("checksum: %v", err)
	}

	return expectEqual(got, want, "checksum of the copy")
}

func checkBillyAdapter(_ context.Context, env *Env) error {
	bfs := billyfs.New(env.FS, env.Dir)

	if err := util.WriteFile(bfs, "nested/data.txt", []byte("billy"), 0o644); err != nil { //nolint:mnd
		return failf("write through adapter: %v", err)
	}

	data, err := util.ReadFile(bfs, "nested/data.txt")
	if err != nil {
		return failf("read through adapter: %v", err)
	}
	if err := expectEqual(string(data), "billy", "adapter contents"); err != nil {
		return err
	}

	if !env.Paths.IsFile(env.Path("nested", "data.txt")) {
		return failf("adapter did not write below its root")
	}

	infos, err := bfs.ReadDir("nested")
	if err != nil {
		return failf("readdir through adapter: %v", err)
	}
	if len(infos) != 1 || infos[0].Name() != "data.txt" || infos[0].Size() != 5 { //nolint:mnd
		return failf("unexpected directory listing through adapter")
	}

	if _, err := bfs.Stat("missing"); !os.IsNotExist(err) {
		return failf("stat of a missing file through adapter: %v", err)
	}

	return util.RemoveAll(bfs, "nested")
}
