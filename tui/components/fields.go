package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/user/vidtrim/pkg/timeutil"
	"github.com/user/vidtrim/tui/styles"
)

// FieldsState is the form-like part of the panel.
type FieldsState struct {
	Input string
	// Output is the chosen output path; empty means DefaultOutput is used.
	Output        string
	DefaultOutput string
	Start         float64
	End           float64
	// Duration of the input, zero while unknown.
	Duration float64
	Probing  bool
}

// Fields renders the input/output paths, the start and end times and the
// duration line inside a box.
func Fields(state FieldsState, width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(styles.Current.Muted).Width(10)
	valueStyle := styles.PrimaryText()
	placeholderStyle := lipgloss.NewStyle().Foreground(styles.Current.Border).Italic(true)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Current.Accent)

	// 2 border chars, 1 leading space, label, key hint.
	valueWidth := width - 2 - 1 - 10 - 6
	if valueWidth < 8 {
		valueWidth = 8
	}
	fit := func(s string) string {
		if lipgloss.Width(s) > valueWidth {
			// Keep the end of long paths, the file name matters most.
			return ansi.TruncateLeft(s, lipgloss.Width(s)-valueWidth+1, "…")
		}
		return s
	}
	row := func(label, value, hint string) string {
		line := " " + labelStyle.Render(label) + value
		pad := width - 2 - lipgloss.Width(line) - lipgloss.Width(hint) - 1
		if pad < 1 {
			pad = 1
		}
		return line + fmt.Sprintf("%*s", pad, "") + keyStyle.Render(hint)
	}

	input := placeholderStyle.Render("no file selected")
	if state.Input != "" {
		input = valueStyle.Render(fit(state.Input))
	}

	output := placeholderStyle.Render(fit(state.DefaultOutput + " (default)"))
	switch {
	case state.Output != "":
		output = valueStyle.Render(fit(state.Output))
	case state.DefaultOutput == "":
		output = placeholderStyle.Render("-")
	}

	duration := placeholderStyle.Render("-")
	switch {
	case state.Probing:
		duration = placeholderStyle.Render("reading...")
	case state.Duration > 0:
		duration = valueStyle.Render(fmt.Sprintf("%s (%s)",
			timeutil.FormatTimestamp(state.Duration), timeutil.FormatDuration(state.Duration)))
	}

	length := state.End - state.Start
	lengthStr := placeholderStyle.Render("-")
	if length > 0 {
		lengthStr = valueStyle.Render(timeutil.FormatDuration(length))
	} else if state.Input != "" {
		lengthStr = styles.Warning().Render("end must be after start")
	}

	lines := []string{
		row("Input", input, "[o]"),
		row("Output", output, "[s]"),
		row("Start", valueStyle.Render(timeutil.FormatTimestamp(state.Start)), "[e]"),
		row("End", valueStyle.Render(timeutil.FormatTimestamp(state.End)), "[e]"),
		row("Length", lengthStr, ""),
		row("Duration", duration, ""),
	}
	return RenderInfoBox("Video Trimmer", lines, width)
}
