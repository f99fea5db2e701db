package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/user/vidtrim/pkg/timeutil"
	"github.com/user/vidtrim/tui/styles"
)

// TrimProgressState holds the state for the progress box shown while ffmpeg runs.
type TrimProgressState struct {
	Active bool
	// Spinner is the rendered spinner frame.
	Spinner string
	Output  string
	// Written is how much of the clip ffmpeg has produced, in seconds.
	Written  float64
	Length   float64
	Fraction float64
	Speed    float64
}

// TrimProgress renders a box with a spinner, a progress bar, the written
// time against the clip length and the output file.
func TrimProgress(state TrimProgressState, bar progress.Model, width int) string {
	if !state.Active || width < 10 {
		return ""
	}

	textStyle := styles.PrimaryText()
	dimStyle := styles.SecondaryText()

	innerW := width - 4
	if innerW < 6 {
		innerW = 6
	}
	bar.Width = innerW

	header := fmt.Sprintf(" %s Trimming...  %s / %s", state.Spinner,
		timeutil.FormatTimestamp(state.Written), timeutil.FormatTimestamp(state.Length))
	if state.Speed > 0 {
		header += fmt.Sprintf("  %.1fx", state.Speed)
	}

	file := state.Output
	if lipgloss.Width(file) > innerW {
		file = ansi.TruncateLeft(file, lipgloss.Width(file)-innerW+1, "…")
	}

	lines := []string{
		textStyle.Render(header),
		" " + bar.ViewAs(state.Fraction),
		" " + dimStyle.Render(file),
		" " + dimStyle.Italic(true).Render("esc to cancel"),
	}
	return RenderInfoBox("Progress", lines, width)
}
