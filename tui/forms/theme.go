package forms

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/vidtrim/tui/styles"
)

// Theme returns a huh theme built from the active TUI palette.
func Theme() *huh.Theme {
	p := styles.Current
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(p.Focus).
		PaddingLeft(1)
	t.Focused.Title = lipgloss.NewStyle().Foreground(p.Title).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(p.Muted)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(p.Error).Bold(true)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(p.Error)

	t.Focused.SelectSelector = lipgloss.NewStyle().SetString("▸ ").Foreground(p.Accent)
	t.Focused.Option = lipgloss.NewStyle().Foreground(p.Text)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(p.Accent)
	t.Focused.NextIndicator = lipgloss.NewStyle().Foreground(p.Muted)
	t.Focused.PrevIndicator = lipgloss.NewStyle().Foreground(p.Muted)

	// The file picker draws directories and files with these.
	t.Focused.Directory = lipgloss.NewStyle().Foreground(p.Accent)
	t.Focused.File = lipgloss.NewStyle().Foreground(p.Text)

	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(p.Accent)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(p.Border)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(p.Accent)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(p.Text)

	t.Focused.FocusedButton = lipgloss.NewStyle().
		Background(p.Focus).
		Foreground(p.Text).
		Bold(true).
		Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Background(p.Border).
		Foreground(p.Muted).
		Padding(0, 1)
	t.Focused.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)
	t.Focused.NoteTitle = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	t.Focused.Next = t.Focused.FocusedButton

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())
	t.Blurred.Title = lipgloss.NewStyle().Foreground(p.Muted)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(p.Border)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(p.Muted)
	t.Blurred.SelectSelector = lipgloss.NewStyle().SetString("  ")
	t.Blurred.NextIndicator = lipgloss.NewStyle()
	t.Blurred.PrevIndicator = lipgloss.NewStyle()

	return t
}
