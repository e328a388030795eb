//go:build linux || darwin

package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertwitch/osbridge/internal/configuration"
	"github.com/desertwitch/osbridge/internal/environ"
	"github.com/desertwitch/osbridge/internal/filesystem"
	"github.com/desertwitch/osbridge/internal/platform"
	"github.com/desertwitch/osbridge/internal/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, reportPath string, checks ...probe.Check) *App {
	t.Helper()

	config := &configuration.ProbeConfig{TempBase: t.TempDir(), CreateMode: 0o644, Settle: time.Millisecond}
	fsHandler := filesystem.NewHandler(platform.Current(), config.CreateMode)
	runner := probe.NewRunner(fsHandler, environ.NewStore(platform.Current()), config, nil).WithChecks(checks...)

	return NewApp(runner, fsHandler, nil, reportPath)
}

func TestApp_Launch(t *testing.T) {
	t.Parallel()

	pass := probe.Check{Name: "pass", Run: func(context.Context, *probe.Env) error { return nil }}
	fail := probe.Check{Name: "fail", Run: func(context.Context, *probe.Env) error { return probe.ErrCheckFailed }}

	t.Run("Success_Report", func(t *testing.T) {
		t.Parallel()

		reportPath := filepath.Join(t.TempDir(), "report.yaml")
		app := newTestApp(t, reportPath, pass)

		require.NoError(t, app.Launch(t.Context()))
		require.NotNil(t, app.report)

		f, err := os.Open(reportPath)
		require.NoError(t, err)
		defer f.Close()

		report, err := probe.ReadReport(f)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Passed)
		assert.Equal(t, "posix", report.Platform)
	})

	t.Run("Fail_Checks", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t, "", pass, fail)

		err := app.Launch(t.Context())
		require.ErrorIs(t, err, ErrChecksFailed)
		assert.Equal(t, 1, app.report.Failed)
	})

	t.Run("Fail_ReportPath", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t, filepath.Join(t.TempDir(), "missing", "report.yaml"), pass)

		require.Error(t, app.Launch(t.Context()))
	})
}
