package ui

import (
	"bytes"
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertwitch/osbridge/internal/probe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProgram(ctx context.Context, cancel context.CancelFunc, total int, out *bytes.Buffer) *Handler {
	var in bytes.Buffer

	handler := &Handler{}
	model := NewTeaModel(handler, total, cancel)
	handler.program = tea.NewProgram(model, tea.WithInput(&in), tea.WithOutput(out), tea.WithAltScreen(), tea.WithContext(ctx))
	handler.LogWriter = NewTeaLogWriter(handler.program)

	return handler
}

func testReport() *probe.Report {
	now := time.Now()

	return &probe.Report{
		Platform:   "posix",
		GOOS:       "linux",
		GOARCH:     "amd64",
		StartedAt:  now.Add(-time.Second),
		FinishedAt: now,
		Passed:     1,
		Failed:     1,
		Skipped:    1,
		Results: []probe.Result{
			{Name: "markers", Status: probe.StatusPassed, Duration: time.Millisecond},
			{Name: "scandir", Status: probe.StatusSkipped, Error: "check skipped"},
			{Name: "timestamps", Status: probe.StatusFailed, Error: "check failed: mtime"},
		},
	}
}

// TestTeaUI is an integration test for the command-line user interface.
func TestTeaUI(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	handler := newTestProgram(ctx, cancel, 3, &buf)
	report := testReport()

	go func() {
		// Without a terminal the size has to be sent to make the model ready.
		handler.program.Send(tea.WindowSizeMsg{Width: 200, Height: 60})

		for !handler.Ready.Load() {
			time.Sleep(time.Millisecond)
		}

		handler.program.Send(LogMsg("log1"))
		_, _ = handler.LogWriter.Write([]byte("log2"))

		for i, r := range report.Results {
			handler.CheckStarted(i, len(report.Results), r.Name)
			time.Sleep(10 * time.Millisecond)
			handler.CheckFinished(i, len(report.Results), r)
		}

		for range 150 {
			_, _ = handler.LogWriter.Write([]byte("fast logs\n"))
		}

		handler.Finish(report)
		handler.program.Send(tea.WindowSizeMsg{Width: 200, Height: 80})

		time.Sleep(500 * time.Millisecond)
		handler.program.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	}()

	require.NoError(t, handler.Launch())
	require.NotZero(t, buf.Len(), "UI generated no output at all")

	out := buf.String()
	assert.Contains(t, out, "log1")
	assert.Contains(t, out, "log2")
	assert.Contains(t, out, "timestamps")
	assert.Contains(t, out, "Finished")
	require.NoError(t, ctx.Err(), "quitting the gui must not cancel the program")
}

// TestTeaUI_Ctrl_C verifies that a Ctrl+C keypress cancels the upstream
// context for application teardown.
func TestTeaUI_Ctrl_C(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Second)
	defer cancel()

	handler := newTestProgram(ctx, cancel, 1, &buf)

	go func() {
		handler.program.Send(tea.WindowSizeMsg{Width: 120, Height: 40})
		handler.program.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	}()

	// Quit and cancellation race, so the program may end either way.
	if err := handler.Launch(); err != nil {
		require.ErrorIs(t, err, context.Canceled)
	}
	require.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestTeaModel_Update(t *testing.T) {
	t.Parallel()

	cancelled := false
	handler := &Handler{}
	var model tea.Model = NewTeaModel(handler, 2, func() { cancelled = true })

	assert.Equal(t, "Loading the GUI...", model.View())

	model, _ = model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.True(t, handler.Ready.Load())

	model, _ = model.Update(CheckStartedMsg{Index: 0, Total: 2, Name: "markers"})
	assert.Contains(t, model.View(), "Running markers (1/2)")

	model, cmd := model.Update(CheckFinishedMsg{Index: 0, Total: 2, Result: probe.Result{Name: "markers", Status: probe.StatusPassed}})
	assert.NotNil(t, cmd)
	assert.Contains(t, model.View(), "PASS")

	for range maxLogLines + 10 {
		model, _ = model.Update(LogMsg("line\n"))
	}
	m, ok := model.(TeaModel)
	require.True(t, ok)
	assert.Len(t, m.logs, maxLogLines)

	model, _ = model.Update(ReportMsg{Report: testReport()})
	assert.Contains(t, model.View(), "Finished on posix")

	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.NotNil(t, cmd)
	assert.False(t, cancelled, "q only quits the gui")

	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, cancelled)
}

func TestSummaryTable(t *testing.T) {
	t.Parallel()

	out := SummaryTable(testReport())

	for _, want := range []string{"CHECK", "markers", "scandir", "timestamps", "check failed: mtime", "1 passed", "1 failed", "1 skipped", "posix (linux/amd64)"} {
		assert.Contains(t, out, want)
	}
}
