// Package ui implements a command-line user interface using [tea].
package ui

import (
	"context"
	"fmt"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertwitch/osbridge/internal/probe"
)

// Handler is the principal implementation of a user interface [Handler]. It
// receives the progress of a [probe.Runner] as a [probe.Observer].
type Handler struct {
	program *tea.Program

	LogWriter *TeaLogWriter

	Ready  atomic.Bool
	Failed atomic.Bool
}

// NewHandler returns a pointer to a new user interface [Handler] for a probe
// run of total checks.
func NewHandler(ctx context.Context, cancel context.CancelFunc, total int) *Handler {
	handler := &Handler{}

	model := NewTeaModel(handler, total, cancel)
	handler.program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	handler.LogWriter = NewTeaLogWriter(handler.program)

	return handler
}

// Launch starts the command-line user interface (the [tea.Program]).
func (uiHandler *Handler) Launch() error {
	defer uiHandler.LogWriter.Stop()

	if _, err := uiHandler.program.Run(); err != nil {
		uiHandler.Failed.Store(true)

		return fmt.Errorf("(ui) %w", err)
	}

	return nil
}

// CheckStarted implements [probe.Observer].
func (uiHandler *Handler) CheckStarted(index, total int, name string) {
	uiHandler.program.Send(CheckStartedMsg{Index: index, Total: total, Name: name})
}

// CheckFinished implements [probe.Observer].
func (uiHandler *Handler) CheckFinished(index, total int, result probe.Result) {
	uiHandler.program.Send(CheckFinishedMsg{Index: index, Total: total, Result: result})
}

// Finish hands the final report to the user interface, which then shows the
// summary until the user quits.
func (uiHandler *Handler) Finish(report *probe.Report) {
	uiHandler.program.Send(ReportMsg{Report: report})
}
