package probe

import (
	"context"
	"fmt"
	"os"

	"github.com/desertwitch/osbridge/internal/oserror"
	"github.com/desertwitch/osbridge/internal/pathing"
	"github.com/desertwitch/osbridge/internal/platform"
	"github.com/desertwitch/osbridge/internal/schema"
	"github.com/google/uuid"
)

// DefaultChecks returns the full conformance scenario in execution order.
func DefaultChecks() []Check {
	return []Check{
		{Name: "flag-constants", Run: checkFlagConstants},
		{Name: "markers", Run: checkMarkers},
		{Name: "fspath", Run: checkFSPath},
		{Name: "capabilities", Run: checkCapabilities},
		{Name: "environment", Run: checkEnvironment},
		{Name: "fd-lifecycle", Run: checkDescriptorLifecycle},
		{Name: "not-found", Run: checkNotFound},
		{Name: "exclusive-create", Run: checkExclusiveCreate},
		{Name: "write-read", Run: checkWriteRead},
		{Name: "append-rename", Run: checkAppendRename},
		{Name: "scandir", Run: checkScandir},
		{Name: "stat-fields", Run: checkStatFields},
		{Name: "timestamps", Run: checkTimestamps},
		{Name: "path-predicates", Run: checkPathPredicates},
		{Name: "cwd-scope", Run: checkWorkingDirScope},
		{Name: "checksum-copy", Run: checkChecksumCopy},
		{Name: "billy-adapter", Run: checkBillyAdapter},
	}
}

func failf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCheckFailed, fmt.Sprintf(format, args...))
}

// expectKind returns nil if err is a layer error of the given kind.
func expectKind(err error, kind oserror.Kind, what string) error {
	if err == nil {
		return failf("%s: succeeded, expected %s", what, kind)
	}

	if !oserror.Is(err, kind) {
		return failf("%s: got %q (%s), expected %s", what, err, oserror.KindOf(err), kind)
	}

	return nil
}

func expectEqual[T comparable](got, want T, what string) error {
	if got != want {
		return failf("%s: got %v, expected %v", what, got, want)
	}

	return nil
}

// symlinkOrSkip creates a symlink and turns a missing privilege into
// [ErrSkipped].
func symlinkOrSkip(env *Env, target, link string) error {
	err := env.FS.Symlink(target, link)
	if oserror.Is(err, oserror.PermissionDenied) {
		return fmt.Errorf("%w: creating symlinks is not permitted: %w", ErrSkipped, err)
	}

	return err
}

func checkFlagConstants(_ context.Context, _ *Env) error {
	access := []struct {
		flags schema.OpenFlags
		want  schema.Access
		value uint32
	}{
		{schema.O_RDONLY, schema.ReadOnly, 0},
		{schema.O_WRONLY, schema.WriteOnly, 1},
		{schema.O_RDWR, schema.ReadWrite, 2}, //nolint:mnd
	}

	for _, tt := range access {
		if err := expectEqual(uint32(tt.flags), tt.value, tt.want.String()+" value"); err != nil {
			return err
		}

		for _, mod := range []schema.OpenFlags{0, schema.O_CREAT, schema.O_CREAT | schema.O_EXCL, schema.O_APPEND, schema.O_TRUNC} {
			d, err := (tt.flags | mod).Decode()
			if err != nil {
				return failf("decode %s: %v", tt.flags|mod, err)
			}

			if err := expectEqual(d.Access, tt.want, "decoded access of "+(tt.flags|mod).String()); err != nil {
				return err
			}
		}
	}

	modifiers := []schema.OpenFlags{schema.O_CREAT, schema.O_EXCL, schema.O_APPEND, schema.O_TRUNC}
	var seen schema.OpenFlags
	for _, mod := range modifiers {
		if mod&schema.AccessMask != 0 || mod&seen != 0 {
			return failf("modifier %s overlaps other flag bits", mod)
		}
		seen |= mod
	}

	if _, err := schema.AccessMask.Decode(); err == nil || !oserror.Is(err, oserror.InvalidArgument) {
		return expectKind(err, oserror.InvalidArgument, "decode out-of-range access")
	}

	unknown := schema.OpenFlags(1) << 30 //nolint:mnd
	_, err := (schema.O_RDONLY | unknown).Decode()

	return expectKind(err, oserror.InvalidArgument, "decode unknown bit")
}

func checkMarkers(_ context.Context, _ *Env) error {
	m := pathing.Markers()

	if m.CurDir != "." || m.ParDir != ".." || m.ExtSep != "." {
		return failf("unexpected directory tokens %q %q %q", m.CurDir, m.ParDir, m.ExtSep)
	}

	want := pathing.MarkerSet{CurDir: ".", ParDir: "..", ExtSep: ".", Sep: "/", PathListSep: ":", LineSep: "\n"}
	if m.Sep == `\` {
		alt := "/"
		want.Sep, want.AltSep, want.PathListSep, want.LineSep = `\`, &alt, ";", "\r\n"
	}

	if err := expectEqual(m.Sep, want.Sep, "sep"); err != nil {
		return err
	}
	if err := expectEqual(m.PathListSep, want.PathListSep, "pathsep"); err != nil {
		return err
	}
	if err := expectEqual(m.LineSep, want.LineSep, "linesep"); err != nil {
		return err
	}

	switch {
	case want.AltSep == nil && m.AltSep != nil:
		return failf("altsep: got %q, expected none", *m.AltSep)
	case want.AltSep != nil && (m.AltSep == nil || *m.AltSep != *want.AltSep):
		return failf("altsep: expected %q", *want.AltSep)
	}

	return nil
}

type pathValue string

func (p pathValue) FSPath() string { return string(p) }

func checkFSPath(_ context.Context, env *Env) error {
	p := env.Path("fspath")

	got, err := pathing.FSPath(p)
	if err != nil {
		return failf("text path: %v", err)
	}
	if s, ok := got.(string); !ok || s != p {
		return failf("text path: got %#v", got)
	}

	got, err = pathing.FSPath(pathing.Encode(p))
	if err != nil {
		return failf("raw path: %v", err)
	}
	if b, ok := got.([]byte); !ok || string(b) != p {
		return failf("raw path: got %#v", got)
	}

	text, err := pathing.Text(pathValue(p))
	if err != nil {
		return failf("path-like value: %v", err)
	}
	if err := expectEqual(text, p, "path-like value"); err != nil {
		return err
	}

	decoded, err := pathing.Decode(pathing.Encode(p))
	if err != nil {
		return failf("decode: %v", err)
	}
	if err := expectEqual(decoded, p, "encode/decode round trip"); err != nil {
		return err
	}

	_, err = pathing.FSPath(struct{ Path string }{p})

	return expectKind(err, oserror.TypeMismatch, "fspath of a struct")
}

func checkCapabilities(_ context.Context, env *Env) error {
	caps := env.FS.Capabilities()
	if caps2 := platform.Caps(); caps2.SupportsFD.Len() != caps.SupportsFD.Len() {
		return failf("capability sets changed between queries")
	}

	if !caps.SupportsFollowSymlinks.Contains(platform.OpStat) {
		return failf("stat must accept the follow-symlinks toggle")
	}

	if !caps.SupportsDirFD.Contains(platform.OpOpen) {
		_, err := env.FS.OpenAt(nil, "x", schema.O_RDONLY, env.FS.DefaultPerm())

		return expectKind(err, oserror.InvalidArgument, "openat without support")
	}

	dir, err := env.FS.Open(env.Dir, schema.O_RDONLY)
	if err != nil {
		return failf("open directory: %v", err)
	}
	defer dir.Close()

	f, err := env.FS.OpenAt(dir, "child", schema.O_WRONLY|schema.O_CREAT, env.FS.DefaultPerm())
	if err != nil {
		return failf("openat: %v", err)
	}
	if err := f.Close(); err != nil {
		return failf("close: %v", err)
	}

	if caps.SupportsDirFD.Contains(platform.OpStat) {
		md, err := env.FS.StatAt(dir, "child", false)
		if err != nil {
			return failf("statat: %v", err)
		}
		if !md.IsRegular() {
			return failf("statat: %q is not a regular file", md.Path)
		}
	}

	if caps.SupportsDirFD.Contains(platform.OpMkdir) {
		if err := env.FS.MkdirAt(dir, "sub", checkDirPerm); err != nil {
			return failf("mkdirat: %v", err)
		}
		if !env.Paths.IsDir(env.Path("sub")) {
			return failf("mkdirat: directory not created")
		}
	}

	return nil
}

func checkEnvironment(_ context.Context, env *Env) error {
	name := "OSPROBE_" + uuid.New().String()[:8]
	store := env.Environ

	if err := expectEqual(store.Get(name, "fallback"), "fallback", "get of an unset variable"); err != nil {
		return err
	}
	if store.Contains(name) {
		return failf("%s is set before the test", name)
	}

	if err := store.Set(name, "value"); err != nil {
		return failf("set: %v", err)
	}
	defer store.Delete(name) //nolint:errcheck

	if !store.Contains(name) || store.Get(name, "") != "value" {
		return failf("set variable is not visible")
	}
	if native, ok := os.LookupEnv(name); !ok || native != "value" {
		return failf("set variable is not visible to the native primitive")
	}
	if v, ok := store.Mapping().Lookup(name); !ok || v != "value" {
		return failf("set variable is not visible in the mapping view")
	}

	if err := store.Delete(name); err != nil {
		return failf("delete: %v", err)
	}
	if store.Contains(name) || store.Get(name, "fallback") != "fallback" {
		return failf("deleted variable is still visible")
	}
	if _, ok := os.LookupEnv(name); ok {
		return failf("deleted variable is still visible to the native primitive")
	}
	if err := store.Delete(name); err != nil {
		return failf("deleting an absent variable: %v", err)
	}

	return expectKind(store.Set("", "x"), oserror.InvalidArgument, "set with an empty name")
}
