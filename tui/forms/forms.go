// Package forms provides huh-based form components for the TUI.
package forms

import (
	"github.com/charmbracelet/huh"
)

// NewConfirmForm creates a yes/no form. The answer is bound to result.
func NewConfirmForm(title, description, yes, no string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative(yes).
				Negative(no).
				Value(result),
		),
	).WithTheme(Theme()).WithShowHelp(false)
}

// NewConfirmQuitForm asks whether to abandon a running trim.
func NewConfirmQuitForm(quit *bool) *huh.Form {
	return NewConfirmForm(
		"Quit while trimming?",
		"The trim in progress will be cancelled and its partial output removed.",
		"Yes, quit",
		"No, keep going",
		quit,
	)
}

// NewConfirmOverwriteForm asks whether an existing output file may be replaced.
func NewConfirmOverwriteForm(path string, overwrite *bool) *huh.Form {
	return NewConfirmForm(
		"Output file exists",
		path+" already exists. Replace it?",
		"Replace",
		"Cancel",
		overwrite,
	)
}
