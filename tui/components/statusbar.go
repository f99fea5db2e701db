package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/vidtrim/tui/styles"
)

// StatusBarState holds what the top bar shows.
type StatusBarState struct {
	// StepSize is the slider step in seconds.
	StepSize float64
	// Mode is the trim mode, copy or reencode.
	Mode string
	// Theme is the active theme name.
	Theme string
	// Previewing is set while mpv is open.
	Previewing bool
}

// StatusBar renders the one-line bar at the top of the screen.
func StatusBar(state StatusBarState, width int) string {
	left := " ✂ vidtrim"

	right := fmt.Sprintf("Step: %s  Mode: %s  Theme: %s ", FormatStepSize(state.StepSize), state.Mode, state.Theme)
	if state.Previewing {
		right = "▶ mpv  " + right
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return lipgloss.NewStyle().
		Background(styles.Current.Surface).
		Foreground(styles.Current.Text).
		Bold(true).
		Width(width).
		Render(left + strings.Repeat(" ", padding) + right)
}

// FormatStepSize shows a decimal for steps under a second, otherwise whole seconds.
func FormatStepSize(stepSize float64) string {
	if stepSize < 1 {
		return fmt.Sprintf("%.1fs", stepSize)
	}
	return fmt.Sprintf("%.0fs", stepSize)
}
