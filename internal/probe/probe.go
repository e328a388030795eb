// Package probe runs a conformance scenario against the layer on the running
// platform and collects the outcome into a [Report].
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/desertwitch/osbridge/internal/configuration"
	"github.com/desertwitch/osbridge/internal/environ"
	"github.com/desertwitch/osbridge/internal/filesystem"
	"github.com/desertwitch/osbridge/internal/pathing"
	"github.com/desertwitch/osbridge/internal/platform"
	"github.com/desertwitch/osbridge/internal/scoped"
)

const (
	tempPrefix   = "osprobe-"
	checkDirPerm = 0o755
)

// Env is what a check works with. Dir is an empty directory owned by the
// check alone.
type Env struct {
	FS      *filesystem.Handler
	Paths   *pathing.Handler
	Environ *environ.Store
	Dir     string
	Settle  time.Duration

	// PayloadSize is the size of the data written by the round trip checks.
	PayloadSize int
	// ScanEntries is the number of extra files the scan check creates.
	ScanEntries int
}

// Path joins name onto the check's directory.
func (e *Env) Path(name ...string) string {
	return pathing.Join(e.Dir, name...)
}

// Sleep waits for the configured settle time so that timestamps taken
// before and after differ, or returns early when ctx is canceled.
func (e *Env) Sleep(ctx context.Context) error {
	timer := time.NewTimer(e.Settle)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Check is one named step of the scenario.
type Check struct {
	Name string
	Run  func(ctx context.Context, env *Env) error
}

// Status is the outcome of a single check.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Result records the outcome of a single check.
type Result struct {
	Name     string        `yaml:"name"`
	Status   Status        `yaml:"status"`
	Duration time.Duration `yaml:"duration"`
	Error    string        `yaml:"error,omitempty"`
}

// Observer is notified about the progress of a [Runner]. Its methods are
// called from the goroutine executing [Runner.Run].
type Observer interface {
	CheckStarted(index, total int, name string)
	CheckFinished(index, total int, result Result)
}

// Runner executes checks in order, each in its own directory below a
// temporary directory that is removed afterwards.
type Runner struct {
	fsHandler  *filesystem.Handler
	envHandler *environ.Store
	config     *configuration.ProbeConfig
	checks     []Check
	observer   Observer
}

// NewRunner returns a pointer to a new [Runner] with the default checks.
// The observer may be nil.
func NewRunner(fsHandler *filesystem.Handler, envHandler *environ.Store, config *configuration.ProbeConfig, observer Observer) *Runner {
	return &Runner{
		fsHandler:  fsHandler,
		envHandler: envHandler,
		config:     config,
		checks:     DefaultChecks(),
		observer:   observer,
	}
}

// WithChecks replaces the checks the runner executes.
func (r *Runner) WithChecks(checks ...Check) *Runner {
	r.checks = checks

	return r
}

// Checks returns the checks the runner executes.
func (r *Runner) Checks() []Check {
	return r.checks
}

// Run executes all checks and returns the report. A failing check does not
// stop the run; a canceled context does, and the remaining checks are
// reported as skipped. The returned error is only set when the run could
// not be set up or was canceled.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := newReport(r.fsHandler)

	tmp, err := scoped.NewTempDir(r.fsHandler, r.config.TempBase, tempPrefix)
	if err != nil {
		return nil, fmt.Errorf("(probe) %w", err)
	}
	report.TempDir = tmp.Path

	if r.config.KeepTemp {
		tmp.Keep()
	}
	defer func() {
		if err := tmp.Release(); err != nil {
			slog.Warn("Failed to remove probe directory",
				"path", tmp.Path,
				"err", err,
			)
		}
	}()

	slog.Info("Probing the platform...",
		"platform", r.fsHandler.Platform(),
		"checks", len(r.checks),
		"dir", tmp.Path,
	)

	total := len(r.checks)
	for i, check := range r.checks {
		if ctx.Err() != nil {
			report.add(Result{Name: check.Name, Status: StatusSkipped, Error: ctx.Err().Error()})

			continue
		}

		if r.observer != nil {
			r.observer.CheckStarted(i, total, check.Name)
		}

		result := r.runCheck(ctx, tmp.Path, check)
		report.add(result)

		if r.observer != nil {
			r.observer.CheckFinished(i, total, result)
		}
	}

	report.finish()

	slog.Info("Probe finished.",
		"passed", report.Passed,
		"failed", report.Failed,
		"skipped", report.Skipped,
		"elapsed", report.Duration().Round(time.Millisecond),
	)

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("(probe) %w", err)
	}

	return report, nil
}

func (r *Runner) runCheck(ctx context.Context, base string, check Check) (result Result) {
	start := time.Now()
	result = Result{Name: check.Name}

	defer func() {
		result.Duration = time.Since(start)

		if rec := recover(); rec != nil {
			buf := make([]byte, 4096) //nolint:mnd
			buf = buf[:runtime.Stack(buf, false)]
			result.Status = StatusFailed
			result.Error = fmt.Sprintf("panic: %v", rec)
			slog.Error("Check panicked.", "check", check.Name, "panic", rec, "stack", string(buf))
		}
	}()

	env := &Env{
		FS:      r.fsHandler,
		Paths:   pathing.NewHandler(r.fsHandler),
		Environ: r.envHandler,
		Dir:     pathing.Join(base, check.Name),
		Settle:  r.config.Settle,

		PayloadSize: int(r.config.PayloadSize), //nolint:gosec
		ScanEntries: r.config.ScanEntries,
	}
	if env.PayloadSize <= 0 {
		env.PayloadSize = int(configuration.DefaultPayloadSize)
	}

	if err := r.fsHandler.Mkdir(env.Dir, checkDirPerm); err != nil {
		result.Status = StatusFailed
		result.Error = err.Error()

		return result
	}

	err := check.Run(ctx, env)

	switch {
	case err == nil:
		result.Status = StatusPassed
		slog.Info("Check passed.", "check", check.Name, "took", time.Since(start).Round(time.Microsecond))
	case errors.Is(err, ErrSkipped):
		result.Status = StatusSkipped
		result.Error = err.Error()
		slog.Warn("Check skipped.", "check", check.Name, "reason", err)
	default:
		result.Status = StatusFailed
		result.Error = err.Error()
		slog.Error("Check failed.", "check", check.Name, "err", err)
	}

	return result
}

// capabilityReport lists the capability sets for the report.
type capabilityReport struct {
	SupportsFD             []platform.Op `yaml:"supports_fd"`
	SupportsDirFD          []platform.Op `yaml:"supports_dir_fd"`
	SupportsFollowSymlinks []platform.Op `yaml:"supports_follow_symlinks"`
}
