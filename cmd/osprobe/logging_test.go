package main

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/desertwitch/osbridge/internal/filesystem"
	"github.com/desertwitch/osbridge/internal/oserror"
	"github.com/desertwitch/osbridge/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogManager(t *testing.T) {
	t.Parallel()

	var terminal, gui bytes.Buffer

	m := NewSlogManager()
	m.AddHandler("terminal", slog.NewTextHandler(&terminal, nil))

	logger := slog.New(m).With("run", 1).WithGroup("probe")
	logger.Info("Check passed.", "check", "markers")

	assert.Contains(t, terminal.String(), "run=1")
	assert.Contains(t, terminal.String(), "probe.check=markers")

	m.RemoveHandler("terminal")
	m.AddHandler("ui", slog.NewTextHandler(&gui, &slog.HandlerOptions{Level: slog.LevelWarn}))

	logger.Info("Hidden.")
	logger.Warn("Check skipped.", "check", "scandir")

	assert.NotContains(t, terminal.String(), "scandir", "removed handlers receive nothing")
	assert.NotContains(t, gui.String(), "Hidden.")
	assert.Contains(t, gui.String(), "probe.check=scandir", "derived loggers follow handler swaps")

	_, ok := m.GetHandler("ui")
	require.True(t, ok)
	assert.False(t, m.Enabled(t.Context(), slog.LevelDebug))
	assert.True(t, m.Enabled(t.Context(), slog.LevelError))
}

func TestMemoryObserver(t *testing.T) {
	t.Parallel()

	obs := newMemoryObserver(t.Context())
	obs.Stop()

	assert.Positive(t, obs.MaxAlloc(), "the first sample is taken immediately")
}

func TestProfiler(t *testing.T) {
	t.Parallel()

	fsHandler := filesystem.NewHandler(platform.Current(), 0o644)

	t.Run("Success_Disabled", func(t *testing.T) {
		t.Parallel()

		empty := ""
		NewProfiler(t.Context(), fsHandler, cpuProfile, &empty).Stop()
		NewProfiler(t.Context(), fsHandler, allocProfile, nil).Stop()
	})

	t.Run("Success_Allocs", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "allocs.pprof")
		NewProfiler(t.Context(), fsHandler, allocProfile, &path).Stop()

		data, err := fsHandler.ReadFile(path)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("Success_CPU", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "cpu.pprof")
		NewProfiler(t.Context(), fsHandler, cpuProfile, &path).Stop()

		data, err := fsHandler.ReadFile(path)
		require.NoError(t, err)
		assert.NotEmpty(t, data, "the profile header is written on stop")
	})

	t.Run("Fail_Create", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing", "allocs.pprof")
		NewProfiler(t.Context(), fsHandler, allocProfile, &path).Stop()

		_, err := fsHandler.Stat(path, true)
		require.ErrorIs(t, err, oserror.ErrNotFound)
	})
}
