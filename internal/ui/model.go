package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertwitch/osbridge/internal/probe"
)

const maxLogLines = 100

//nolint:gochecknoglobals
var (
	// titleStyle defines the style for a panel's title.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	// borderStyle defines the style for a panel's borders.
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4"))

	// infoStyle defines the style for a panel's text.
	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA"))

	// helpStyle defines the style for the help panel's text.
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			Padding(0, 1)

	passedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4672"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F4C056"))
)

// CheckStartedMsg is a [tea.Msg] sent when a check begins.
type CheckStartedMsg struct {
	Index int
	Total int
	Name  string
}

// CheckFinishedMsg is a [tea.Msg] sent when a check has a result.
type CheckFinishedMsg struct {
	Index  int
	Total  int
	Result probe.Result
}

// ReportMsg is a [tea.Msg] carrying the final [probe.Report].
type ReportMsg struct {
	Report *probe.Report
}

// TeaModel is the principal [tea.Model] for the command-line user interface.
type TeaModel struct {
	width  int
	height int

	cancel context.CancelFunc

	uiHandler *Handler

	fullWidthWithBorders int
	halfWidthWithBorders int

	total   int
	current string
	results []probe.Result
	report  *probe.Report

	spinner      spinner.Model
	progress     progress.Model
	logsViewport viewport.Model
	logs         []string

	ready bool
}

// NewTeaModel returns an initial new [TeaModel].
//
//nolint:mnd
func NewTeaModel(uiHandler *Handler, total int, cancel context.CancelFunc) TeaModel {
	return TeaModel{
		uiHandler: uiHandler,
		total:     total,
		cancel:    cancel,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(80),
		),
		logsViewport: viewport.New(80, 20),
		logs:         make([]string, 0, maxLogLines),
		results:      make([]probe.Result, 0, total),
	}
}

// Init initializes the model within a [tea.Program].
func (m TeaModel) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		m.spinner.Tick,
	)
}

// Update is the principal message handling method of the model.
// It sets the internal state of the model, for later rendering.
//
//nolint:mnd,funlen,ireturn
func (m TeaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()

			return m, tea.Quit
		case "q":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.fullWidthWithBorders = m.width - 2
		m.halfWidthWithBorders = (m.width / 2) - 2

		m.progress.Width = m.halfWidthWithBorders

		// Upper panels take about 40% of the height, the logs the rest
		// minus borders and title.
		upperHeight := m.height * 2 / 5
		m.logsViewport.Width = m.fullWidthWithBorders
		m.logsViewport.Height = m.height - upperHeight - 3

		m.refreshLogs()

		if !m.ready {
			m.ready = true
			m.uiHandler.Ready.Store(true)
		}

	case CheckStartedMsg:
		m.current = msg.Name
		m.total = msg.Total

	case CheckFinishedMsg:
		m.current = ""
		m.total = msg.Total
		m.results = append(m.results, msg.Result)

		cmds = append(cmds, m.progress.SetPercent(float64(len(m.results))/float64(max(m.total, 1))))

	case ReportMsg:
		m.report = msg.Report
		m.current = ""

		cmds = append(cmds, m.progress.SetPercent(1))

	case LogMsg:
		if len(m.logs) >= maxLogLines {
			m.logs = m.logs[1:]
		}
		m.logs = append(m.logs, string(msg))

		m.refreshLogs()

	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case progress.FrameMsg:
		updated, cmd := m.progress.Update(msg)
		if progressModel, ok := updated.(progress.Model); ok {
			m.progress = progressModel
		}
		cmds = append(cmds, cmd)
	}

	m.logsViewport, cmd = m.logsViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *TeaModel) refreshLogs() {
	if len(m.logs) == 0 {
		return
	}

	logs := lipgloss.NewStyle().
		Width(m.logsViewport.Width).
		Render(strings.TrimSuffix(strings.Join(m.logs, ""), "\n"))

	m.logsViewport.SetContent(logs)
	m.logsViewport.GotoBottom()
}

// View is the principal rendering function of the model.
func (m TeaModel) View() string {
	if !m.ready {
		return "Loading the GUI..."
	}

	upperSection := lipgloss.JoinHorizontal(
		lipgloss.Top,
		borderStyle.Width(m.halfWidthWithBorders).Render(m.progressView()),
		borderStyle.Width(m.halfWidthWithBorders).Render(m.resultsView()),
	)

	logsSection := borderStyle.
		Width(m.fullWidthWithBorders).
		Render(
			lipgloss.JoinVertical(
				lipgloss.Left,
				titleStyle.Width(m.fullWidthWithBorders).Render("Probe Information"),
				lipgloss.NewStyle().Width(m.fullWidthWithBorders).Render(m.logsViewport.View()),
			),
		)

	helpSection := helpStyle.
		Width(m.fullWidthWithBorders).
		Render("q: quit gui • ctrl+c: quit program")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		upperSection,
		logsSection,
		helpSection,
	)
}

func (m TeaModel) progressView() string {
	var status string

	switch {
	case m.report != nil:
		status = fmt.Sprintf("Finished on %s in %v\n%s",
			m.report.Platform,
			m.report.Duration().Round(time.Millisecond),
			countsLine(m.report.Passed, m.report.Failed, m.report.Skipped),
		)
	case m.current != "":
		status = fmt.Sprintf("%s Running %s (%d/%d)", m.spinner.View(), m.current, len(m.results)+1, m.total)
	default:
		status = fmt.Sprintf("%s Waiting (%d/%d)", m.spinner.View(), len(m.results), m.total)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Width(m.halfWidthWithBorders).Render("Progress"),
		"",
		m.progress.View(),
		"",
		infoStyle.Width(m.halfWidthWithBorders).Render(status),
	)
}

func (m TeaModel) resultsView() string {
	var s strings.Builder

	for _, r := range m.results {
		fmt.Fprintf(&s, "%s %s (%v)\n", statusBadge(r.Status), r.Name, r.Duration.Round(time.Microsecond))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Width(m.halfWidthWithBorders).Render("Checks"),
		infoStyle.Width(m.halfWidthWithBorders).Render(strings.TrimSuffix(s.String(), "\n")),
	)
}

func countsLine(passed, failed, skipped int) string {
	return fmt.Sprintf("%s %s %s",
		passedStyle.Render(fmt.Sprintf("%d passed", passed)),
		failedStyle.Render(fmt.Sprintf("%d failed", failed)),
		skippedStyle.Render(fmt.Sprintf("%d skipped", skipped)),
	)
}

func statusBadge(status probe.Status) string {
	switch status {
	case probe.StatusPassed:
		return passedStyle.Render("PASS")
	case probe.StatusFailed:
		return failedStyle.Render("FAIL")
	case probe.StatusSkipped:
		return skippedStyle.Render("SKIP")
	}

	return string(status)
}
