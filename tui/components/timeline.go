package components

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/vidtrim/pkg/timeutil"
	"github.com/user/vidtrim/tui/styles"
)

// TimelineState is the slider over [0, Duration].
type TimelineState struct {
	Cursor   float64
	Start    float64
	End      float64
	Duration float64
}

// SliderPosition maps a time to a column of a bar barWidth wide.
func SliderPosition(value, duration float64, barWidth int) int {
	if duration <= 0 || barWidth <= 1 {
		return 0
	}
	pos := int(math.Round(float64(barWidth-1) * value / duration))
	if pos < 0 {
		return 0
	}
	if pos > barWidth-1 {
		return barWidth - 1
	}
	return pos
}

// Timeline renders the slider in a box: the bar with the selected range
// between [ and ] markers, and a ▲ under the cursor.
func Timeline(state TimelineState, width int) string {
	if width < 20 {
		return ""
	}
	p := styles.Current

	timeDisplay := " " + timeutil.FormatTimestamp(state.Cursor) + " / " + timeutil.FormatTimestamp(state.Duration)
	// 2 border chars, 1 margin, 1 space before the time.
	barWidth := width - 4 - lipgloss.Width(timeDisplay)
	if barWidth < 10 {
		barWidth = 10
	}

	if state.Duration <= 0 {
		empty := lipgloss.NewStyle().Foreground(p.Muted).Italic(true).Render(" open a video to use the slider")
		return RenderInfoBox("Timeline", []string{"", empty, ""}, width)
	}

	startPos := SliderPosition(state.Start, state.Duration, barWidth)
	endPos := SliderPosition(state.End, state.Duration, barWidth)
	cursorPos := SliderPosition(state.Cursor, state.Duration, barWidth)

	inRange := lipgloss.NewStyle().Foreground(p.Marker)
	outRange := lipgloss.NewStyle().Foreground(p.Border)
	markerStyle := lipgloss.NewStyle().Foreground(p.Title).Bold(true)
	cursorStyle := lipgloss.NewStyle().Foreground(p.Accent).Bold(true)

	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		switch {
		case i == startPos:
			bar.WriteString(markerStyle.Render("["))
		case i == endPos:
			bar.WriteString(markerStyle.Render("]"))
		case i > startPos && i < endPos:
			bar.WriteString(inRange.Render("━"))
		default:
			bar.WriteString(outRange.Render("─"))
		}
	}

	indicator := " " + strings.Repeat(" ", cursorPos) + cursorStyle.Render("▲")
	barLine := " " + bar.String() + " " + styles.PrimaryText().Bold(true).Render(timeDisplay)

	return RenderInfoBox("Timeline", []string{"", barLine, indicator}, width)
}
