package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vango-dev/elemkit/inspect"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	opStyle     = lipgloss.NewStyle().Width(14)
	markupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// renderReport formats a scenario snapshot: a title line, one line per
// step with its event log, and optionally the final markup.
func renderReport(snap *inspect.Snapshot, showMarkup bool) string {
	status := okStyle.Render("✓")
	if snap.Failed() {
		status = failStyle.Render("✗")
	}
	lines := []string{
		fmt.Sprintf("%s %s %s", status, titleStyle.Render(snap.Scenario),
			dimStyle.Render(fmt.Sprintf("%d steps, listeners %d/%d", len(snap.Steps), snap.Listeners, snap.DOMListeners))),
	}

	for _, st := range snap.Steps {
		mark := okStyle.Render("✓")
		if st.Error != "" {
			mark = failStyle.Render("✗")
		}
		target := st.ID
		if target == "" {
			target = "-"
		}
		lines = append(lines, fmt.Sprintf("  %s %3d %s %s", mark, st.Index, opStyle.Render(st.Op), target))
		for _, l := range st.Log {
			lines = append(lines, dimStyle.Render("        "+l))
		}
		if st.Error != "" {
			lines = append(lines, failStyle.Render("        "+st.Error))
		}
	}

	if showMarkup {
		lines = append(lines, markupStyle.Render(snap.Markup))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderLoadError(path string, err error) string {
	return fmt.Sprintf("%s %s\n%s", failStyle.Render("✗"), titleStyle.Render(path),
		failStyle.Render("    "+strings.TrimSpace(err.Error())))
}

func renderSummary(total, failed int) string {
	if failed == 0 {
		return okStyle.Render(fmt.Sprintf("%d scenarios passed", total))
	}
	return failStyle.Render(fmt.Sprintf("%d of %d scenarios failed", failed, total))
}
