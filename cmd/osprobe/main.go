package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/desertwitch/osbridge/internal/configuration"
	"github.com/desertwitch/osbridge/internal/environ"
	"github.com/desertwitch/osbridge/internal/filesystem"
	"github.com/desertwitch/osbridge/internal/platform"
	"github.com/desertwitch/osbridge/internal/probe"
	"github.com/desertwitch/osbridge/internal/ui"
	"github.com/lmittmann/tint"
	"golang.org/x/term"
)

const (
	stackTraceBufMax = 1 << 24

	terminalLogHandler = "terminal"
	uiLogHandler       = "ui"
)

// configFiles collects the repeatable -config flag.
type configFiles []string

func (c *configFiles) String() string {
	return strings.Join(*c, ",")
}

func (c *configFiles) Set(value string) error {
	*c = append(*c, value)

	return nil
}

//nolint:gochecknoglobals
var (
	ExitCode = 0
	Version  string

	uiEnabled  = flag.Bool("ui", term.IsTerminal(int(os.Stdout.Fd())), "enable the UI (default when stdout is a terminal)")
	reportPath = flag.String("report", "", "write the probe report as YAML to this file")
	keepTemp   = flag.Bool("keep", false, "keep the probe directory after the run")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile = flag.String("memprofile", "", "write memory profile to this file")

	configs configFiles

	logManager = NewSlogManager()
)

func terminalHandler() slog.Handler {
	return tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
	})
}

func setupLogging() {
	logManager.RemoveHandler(uiLogHandler)
	logManager.AddHandler(terminalLogHandler, terminalHandler())
	slog.SetDefault(slog.New(logManager))
}

// setupUILogging routes all logs into the UI for as long as it runs.
func setupUILogging(uiHandler *ui.Handler) {
	logManager.RemoveHandler(terminalLogHandler)
	logManager.AddHandler(uiLogHandler, tint.NewHandler(uiHandler.LogWriter, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
	}))
}

func startApp(ctx context.Context, wg *sync.WaitGroup, app *App) {
	defer wg.Done()

	if app.uiHandler != nil {
		slog.Info("Waiting for UI...")
		for !app.uiHandler.Ready.Load() && !app.uiHandler.Failed.Load() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Millisecond):
			}
		}
	}

	if err := app.Launch(ctx); err != nil {
		slog.Error("Probe did not complete successfully.", "err", err)
		ExitCode = 1
	}
}

func startUI(wg *sync.WaitGroup, app *App) {
	defer wg.Done()

	if app.uiHandler != nil {
		defer setupLogging()
		setupUILogging(app.uiHandler)

		if err := app.LaunchUI(); err != nil {
			slog.Error("UI failure: falling back to terminal.", "err", err)
		}
	}
}

func main() {
	defer func() {
		os.Exit(ExitCode)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	flag.Var(&configs, "config", "dotenv file with probe settings (repeatable, later files win)")
	flag.Parse()
	setupLogging()
	setupSignalHandlers(cancel)

	memObserver := newMemoryObserver(ctx)
	defer memObserver.Stop()

	native := platform.Current()
	envHandler := environ.NewStore(native)
	configHandler := configuration.NewHandler(&configuration.GodotenvProvider{})

	config, err := configHandler.LoadProbeConfig(envHandler, configs...)
	if err != nil {
		slog.Error("Failed to load the probe configuration.",
			"err", err,
		)
		ExitCode = 1

		return
	}

	if *keepTemp {
		config.KeepTemp = true
	}

	slog.Info("Starting osprobe.",
		"version", Version,
		"platform", native.Name(),
		"createMode", fmt.Sprintf("%#o", config.CreateMode),
		"settle", config.Settle,
	)

	fsHandler := filesystem.NewHandler(native, config.CreateMode)

	cpuProfiler := NewProfiler(ctx, fsHandler, cpuProfile, cpuprofile)
	defer cpuProfiler.Stop()

	allocProfiler := NewProfiler(ctx, fsHandler, allocProfile, memprofile)
	defer allocProfiler.Stop()
	checks := probe.DefaultChecks()

	var uiHandler *ui.Handler
	var observer probe.Observer
	if uiEnabled != nil && *uiEnabled {
		uiHandler = ui.NewHandler(ctx, cancel, len(checks))
		observer = uiHandler
	}

	runner := probe.NewRunner(fsHandler, envHandler, config, observer).WithChecks(checks...)

	var wg sync.WaitGroup
	app := NewApp(runner, fsHandler, uiHandler, *reportPath)

	wg.Add(1)
	go startUI(&wg, app)

	wg.Add(1)
	go startApp(ctx, &wg, app)

	wg.Wait()

	if app.report != nil && uiHandler != nil {
		os.Stdout.WriteString(ui.SummaryTable(app.report)) //nolint:errcheck
	}
}
