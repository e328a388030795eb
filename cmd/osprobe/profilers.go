package main

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/pprof"

	"github.com/desertwitch/osbridge/internal/filesystem"
	"github.com/desertwitch/osbridge/internal/schema"
)

const profilePerm = 0o644

type profileKind string

const (
	// cpuProfile samples from the start of the profiler until it is stopped.
	cpuProfile profileKind = "cpu"

	// allocProfile is written once, when the profiler is stopped.
	allocProfile profileKind = "allocs"
)

type profileCreator interface {
	OpenFile(path string, flags schema.OpenFlags, perm uint32) (*filesystem.File, error)
}

// Profiler writes a runtime profile through the filesystem layer. A
// profiler without a path does nothing.
//
//nolint:containedctx
type Profiler struct {
	kind     profileKind
	path     string
	fs       profileCreator
	ctx      context.Context
	cancel   context.CancelFunc
	doneChan chan struct{}
}

// NewProfiler starts a profiler of the given kind. It runs until ctx is done
// or [Profiler.Stop] is called.
func NewProfiler(ctx context.Context, fs profileCreator, kind profileKind, path *string) *Profiler {
	prof := &Profiler{
		kind:     kind,
		fs:       fs,
		doneChan: make(chan struct{}),
	}
	if path != nil {
		prof.path = *path
	}
	prof.ctx, prof.cancel = context.WithCancel(ctx)

	go prof.profile()

	return prof
}

func (prof *Profiler) profile() {
	defer close(prof.doneChan)

	if prof.path == "" {
		return
	}

	if prof.kind == allocProfile {
		<-prof.ctx.Done()
	}

	f, err := prof.fs.OpenFile(prof.path, schema.O_WRONLY|schema.O_CREAT|schema.O_TRUNC, profilePerm)
	if err != nil {
		slog.Error("Could not create profile.", "kind", prof.kind, "path", prof.path, "err", err)

		return
	}
	defer f.Close()

	if err := prof.write(f); err != nil {
		slog.Error("Could not write profile.", "kind", prof.kind, "path", prof.path, "err", err)
	}
}

func (prof *Profiler) write(f *filesystem.File) error {
	switch prof.kind {
	case cpuProfile:
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("(profiler) %w", err)
		}
		<-prof.ctx.Done()
		pprof.StopCPUProfile()

	case allocProfile:
		if err := pprof.Lookup(string(allocProfile)).WriteTo(f, 0); err != nil {
			return fmt.Errorf("(profiler) %w", err)
		}

	default:
		return fmt.Errorf("(profiler) unknown profile kind %q", prof.kind)
	}

	return f.Sync()
}

// Stop ends the profile and waits until it is written.
func (prof *Profiler) Stop() {
	prof.cancel()
	<-prof.doneChan
}
