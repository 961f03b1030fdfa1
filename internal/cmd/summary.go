package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/openhwlab/scopedump/internal/session"
)

var (
	summaryTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("12"))

	summaryLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("8"))

	summaryEmptyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("3"))
)

// renderSummary formats a finished capture for the terminal.
func renderSummary(s *session.Summary) string {
	if s == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(summaryTitleStyle.Render("CAPTURE SUMMARY"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", 50))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", summaryLabelStyle.Render("Output:"), s.Output)
	fmt.Fprintf(&b, "%s %d\n", summaryLabelStyle.Render("Cycles:"), s.Cycles)
	b.WriteString("\n")

	for _, tap := range s.Taps {
		line := fmt.Sprintf("tap %d  %-30s %d samples", tap.ID, tap.Path, tap.Samples)
		if tap.Samples == 0 {
			b.WriteString(summaryEmptyStyle.Render(line + " (empty)"))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	return b.String()
}
