package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertwitch/osbridge/internal/probe"
	"github.com/dustin/go-humanize"
)

// SummaryTable renders a report as a plain table for terminals without the
// interactive user interface.
func SummaryTable(report *probe.Report) string {
	rows := make([][]string, 0, len(report.Results))
	for _, r := range report.Results {
		rows = append(rows, []string{r.Name, statusBadge(r.Status), r.Duration.Round(time.Microsecond).String(), r.Error})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))).
		Headers("CHECK", "STATUS", "TOOK", "ERROR").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}

			return lipgloss.NewStyle().Padding(0, 1)
		})

	var s strings.Builder
	s.WriteString(t.String())
	s.WriteString("\n")
	s.WriteString(countsLine(report.Passed, report.Failed, report.Skipped))
	s.WriteString(" on " + report.Platform + " (" + report.GOOS + "/" + report.GOARCH + "), ")
	s.WriteString("started " + humanize.Time(report.StartedAt) + "\n")

	return s.String()
}
