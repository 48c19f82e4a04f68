package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sprite-ai/commitlint-core/internal/model"
)

// Color palette.
var (
	colorRed    = lipgloss.Color("#ff5555")
	colorGreen  = lipgloss.Color("#50fa7b")
	colorYellow = lipgloss.Color("#f1fa8c")
	colorBlue   = lipgloss.Color("#8be9fd")
	colorPurple = lipgloss.Color("#bd93f9")
	colorOrange = lipgloss.Color("#ffb86c")
	colorFg     = lipgloss.Color("#f8f8f2")
	colorBorder = lipgloss.Color("#44475a")
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(colorPurple).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Foreground(colorFg).Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(colorBorder)
)

// SeverityColor returns the palette color for a severity.
func SeverityColor(s model.Severity) lipgloss.Color {
	switch s {
	case model.SeverityCritical:
		return colorRed
	case model.SeverityHigh:
		return colorOrange
	case model.SeverityMedium:
		return colorYellow
	default:
		return colorBlue
	}
}

// StatusColor returns the palette color for a status.
func StatusColor(s model.Status) lipgloss.Color {
	switch s {
	case model.StatusFail:
		return colorRed
	case model.StatusWarn:
		return colorYellow
	default:
		return colorGreen
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

func formatTable(r Report) string {
	var b strings.Builder
	status := lipgloss.NewStyle().Foreground(StatusColor(r.Status)).Bold(true).Render(r.Status.String())
	fmt.Fprintf(&b, "Status: %s (%s)\n", status, r.Summary())

	if len(r.Findings) == 0 {
		return b.String()
	}

	findings := sorted(r.Findings)
	rows := make([][]string, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, []string{f.Severity.String(), f.Code, f.Location.String(), f.Message})
	}

	t := newTable("SEVERITY", "CODE", "LOCATION", "MESSAGE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 && row >= 0 && row < len(findings) {
				return cellStyle.Foreground(SeverityColor(findings[row].Severity)).Bold(true)
			}
			return cellStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	return b.String()
}
