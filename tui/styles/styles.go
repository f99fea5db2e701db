// Package styles provides Lipgloss colours and styles for the TUI, with a
// dark and a light palette.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette is one colour theme.
type Palette struct {
	// Background is the panel background.
	Background lipgloss.Color
	// Surface is a raised background for bars and overlays.
	Surface lipgloss.Color
	// Border is the dim accent used for box borders.
	Border lipgloss.Color
	// Focus highlights the focused element.
	Focus lipgloss.Color
	// Muted is secondary text.
	Muted lipgloss.Color
	// Text is primary text.
	Text lipgloss.Color
	// Title is used for box headers.
	Title lipgloss.Color
	// Accent marks interactive elements and the slider cursor.
	Accent lipgloss.Color
	// Marker marks the selected range on the slider.
	Marker lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
}

// Dark is the Ciapre palette from Gogh.
var Dark = Palette{
	Background: lipgloss.Color("#191C27"),
	Surface:    lipgloss.Color("#181818"),
	Border:     lipgloss.Color("#5C4F4B"),
	Focus:      lipgloss.Color("#724D7C"),
	Muted:      lipgloss.Color("#AEA47A"),
	Text:       lipgloss.Color("#F3DBB2"),
	Title:      lipgloss.Color("#D33061"),
	Accent:     lipgloss.Color("#3097C6"),
	Marker:     lipgloss.Color("#CC8B3F"),
	Error:      lipgloss.Color("#AC3835"),
	Success:    lipgloss.Color("#A6A75D"),
}

// Light is a paper-toned palette for light terminals.
var Light = Palette{
	Background: lipgloss.Color("#FAF6EE"),
	Surface:    lipgloss.Color("#EDE6D6"),
	Border:     lipgloss.Color("#B8AC94"),
	Focus:      lipgloss.Color("#8E5C9C"),
	Muted:      lipgloss.Color("#6E6650"),
	Text:       lipgloss.Color("#2B2418"),
	Title:      lipgloss.Color("#B0204D"),
	Accent:     lipgloss.Color("#1E6F99"),
	Marker:     lipgloss.Color("#A8631A"),
	Error:      lipgloss.Color("#A3201D"),
	Success:    lipgloss.Color("#4F7A1F"),
}

// Current is the active palette. Components read it at render time.
var Current = Dark

// SetTheme switches the active palette. Unknown names select Dark.
func SetTheme(name string) {
	if name == "light" {
		Current = Light
	} else {
		Current = Dark
	}
}

// PrimaryText is the style for primary text content.
func PrimaryText() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Current.Text)
}

// SecondaryText is the style for less prominent text.
func SecondaryText() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Current.Muted)
}

// Header is the style for box titles and labels.
func Header() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Current.Title).Bold(true)
}

// Highlight is the style for the focused or selected item.
func Highlight() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(Current.Focus).
		Foreground(Current.Text).
		Bold(true)
}

// Warning is the style for error messages.
func Warning() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Current.Error).Bold(true)
}

// Success is the style for success messages.
func Success() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Current.Success).Bold(true)
}
