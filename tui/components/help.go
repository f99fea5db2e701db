package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/vidtrim/tui/styles"
)

// HelpGroup is a titled set of key bindings.
type HelpGroup struct {
	Title    string
	Bindings []key.Binding
}

// HelpOverlay renders the key bindings grouped by function in a centred panel.
func HelpOverlay(groups []HelpGroup, width, height int) string {
	p := styles.Current
	titleStyle := lipgloss.NewStyle().Foreground(p.Accent).Bold(true).Padding(0, 1)
	groupHeaderStyle := lipgloss.NewStyle().Foreground(p.Title).Bold(true).MarginTop(1)
	keyStyle := lipgloss.NewStyle().Foreground(p.Muted).Bold(true).Width(12)
	descStyle := lipgloss.NewStyle().Foreground(p.Text)

	lines := []string{titleStyle.Render("Keybindings"), ""}
	for _, group := range groups {
		lines = append(lines, groupHeaderStyle.Render(group.Title))
		for _, b := range group.Bindings {
			if !b.Enabled() {
				continue
			}
			h := b.Help()
			lines = append(lines, "  "+keyStyle.Render(h.Key)+descStyle.Render(h.Desc))
		}
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(p.Muted).Italic(true).Render("Press any key to close"))

	panel := lipgloss.NewStyle().
		Background(p.Surface).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Focus).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, panel)
}
