package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	accentColor = lipgloss.Color("#8BC34A")
	mutedColor  = lipgloss.Color("#6B7280")
	errorColor  = lipgloss.Color("#E06C75")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	failStyle   = lipgloss.NewStyle().Foreground(errorColor).Padding(0, 1)
)

const (
	okMark   = "✓"
	failMark = "✗"
)

// renderTable draws rows under headers. Rows whose first cell starts with
// failMark are highlighted.
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(rows) && len(rows[row]) > 0 && strings.HasPrefix(rows[row][0], failMark) {
				return failStyle
			}
			return cellStyle
		})
	return t.String()
}

func title(s string) string { return titleStyle.Render(s) }
