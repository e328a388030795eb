package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/desertwitch/osbridge/internal/filesystem"
	"github.com/desertwitch/osbridge/internal/probe"
	"github.com/desertwitch/osbridge/internal/ui"
	"github.com/dustin/go-humanize"
)

const reportPerm = 0o644

type App struct {
	runner     *probe.Runner
	fsHandler  *filesystem.Handler
	uiHandler  *ui.Handler
	reportPath string

	report *probe.Report
}

func NewApp(runner *probe.Runner,
	fsHandler *filesystem.Handler,
	uiHandler *ui.Handler,
	reportPath string,
) *App {
	return &App{
		runner:     runner,
		fsHandler:  fsHandler,
		uiHandler:  uiHandler,
		reportPath: reportPath,
	}
}

// Launch runs the probe and writes the report. A run with failing checks
// returns [ErrChecksFailed].
func (app *App) Launch(ctx context.Context) error {
	report, err := app.runner.Run(ctx)
	if report != nil {
		app.report = report
	}
	if err != nil {
		return fmt.Errorf("(app) %w", err)
	}

	if app.reportPath != "" {
		if err := app.writeReport(report); err != nil {
			return fmt.Errorf("(app) %w", err)
		}
	}

	if app.uiHandler != nil {
		// The summary is printed once the UI has left the alternate screen.
		app.uiHandler.Finish(report)
	} else {
		os.Stdout.WriteString(ui.SummaryTable(report)) //nolint:errcheck
	}

	if !report.Success() {
		return fmt.Errorf("(app) %w: %d of %d", ErrChecksFailed, report.Failed, len(report.Results))
	}

	return nil
}

func (app *App) writeReport(report *probe.Report) error {
	var buf strings.Builder
	if err := report.WriteYAML(&buf); err != nil {
		return err
	}

	if err := app.fsHandler.WriteFile(app.reportPath, []byte(buf.String()), reportPerm); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	slog.Info("Report written.",
		"path", app.reportPath,
		"size", humanize.Bytes(uint64(buf.Len())),
	)

	return nil
}

func (app *App) LaunchUI() error {
	if err := app.uiHandler.Launch(); err != nil {
		return fmt.Errorf("(app-ui) %w", err)
	}

	return nil
}
