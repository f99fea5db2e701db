package layout

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/vidtrim/tui/styles"
)

// Container fits content into an exact Width x Height box. When lines are
// cut off at the bottom, the last visible line says so.
type Container struct {
	Width  int
	Height int
}

// Render returns content as exactly Height lines of Width cells.
func (c Container) Render(content string) string {
	if c.Height <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) > c.Height {
		lines = lines[:c.Height]
		lines[c.Height-1] = lipgloss.NewStyle().Foreground(styles.Current.Muted).Render("↓ enlarge the terminal to see more")
	}
	lines = NormalizeLines(lines, c.Height)
	for i, line := range lines {
		lines[i] = PadToWidth(line, c.Width)
	}
	return strings.Join(lines, "\n")
}
