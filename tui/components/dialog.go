package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/user/vidtrim/tui/styles"
)

// DialogState is a modal message shown after a trim or on an error.
type DialogState struct {
	Title   string
	Lines   []string
	IsError bool
}

// maxDialogWidth keeps dialogs readable on wide terminals.
const maxDialogWidth = 72

// Dialog renders the dialog centred in a width x height area.
func Dialog(state DialogState, width, height int) string {
	boxWidth := width - 4
	if boxWidth > maxDialogWidth {
		boxWidth = maxDialogWidth
	}
	if boxWidth < 20 {
		boxWidth = 20
	}
	innerW := boxWidth - 4

	border := styles.Current.Success
	textStyle := styles.PrimaryText()
	if state.IsError {
		border = styles.Current.Error
	}

	var content []string
	content = append(content, "")
	for _, line := range state.Lines {
		// Long ffmpeg messages wrap instead of being cut off.
		wrapped := lipgloss.NewStyle().Width(innerW).Render(line)
		for _, l := range strings.Split(wrapped, "\n") {
			content = append(content, " "+textStyle.Render(l))
		}
	}
	content = append(content, "", " "+styles.SecondaryText().Italic(true).Render("Press any key to continue"))

	box := RenderAlertBox(state.Title, content, boxWidth, border)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
