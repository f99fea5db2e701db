// Package components provides the rendering pieces of the trimmer TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/vidtrim/tui/styles"
)

// RenderInfoBox renders contentLines inside a rounded box of the given width
// with the title set into the top border:
//
//	╭─ Title ──────╮
//	│ content      │
//	╰──────────────╯
func RenderInfoBox(title string, contentLines []string, width int) string {
	return renderBox(title, contentLines, width, styles.Current.Border)
}

// RenderAlertBox is RenderInfoBox with the border in the given colour.
func RenderAlertBox(title string, contentLines []string, width int, border lipgloss.Color) string {
	return renderBox(title, contentLines, width, border)
}

func renderBox(title string, contentLines []string, width int, border lipgloss.Color) string {
	if width < 4 {
		return ""
	}
	innerWidth := width - 2

	borderStyle := lipgloss.NewStyle().Foreground(border)
	headerText := styles.Header().Render(" " + title + " ")

	fill := innerWidth - 1 - lipgloss.Width(headerText)
	if fill < 0 {
		fill = 0
	}

	lines := make([]string, 0, len(contentLines)+2)
	lines = append(lines, borderStyle.Render("╭─")+headerText+borderStyle.Render(strings.Repeat("─", fill)+"╮"))
	for _, line := range contentLines {
		pad := innerWidth - lipgloss.Width(line)
		if pad < 0 {
			pad = 0
		}
		lines = append(lines, borderStyle.Render("│")+line+strings.Repeat(" ", pad)+borderStyle.Render("│"))
	}
	lines = append(lines, borderStyle.Render("╰"+strings.Repeat("─", innerWidth)+"╯"))

	return strings.Join(lines, "\n")
}
