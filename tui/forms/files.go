package forms

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/user/vidtrim/trim"
)

// NewOpenFileForm creates a file picker that starts in dir and only accepts
// files with one of the given extensions. The chosen path is bound to result.
func NewOpenFileForm(dir string, extensions []string, result *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewFilePicker().
				Title("Open video").
				Description("Enter opens a directory or picks a file, h goes up.").
				CurrentDirectory(dir).
				AllowedTypes(extensions).
				ShowSize(true).
				Height(12).
				Picking(true).
				Value(result),
		),
	).WithTheme(Theme()).WithShowHelp(true)
}

// NewSaveAsForm creates an input for the output path. An empty answer keeps
// the default output; a path without an extension gets ext appended when the
// form is read back with SaveAsPath.
func NewSaveAsForm(defaultPath, source string, result *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Save as").
				Description("Leave empty for "+defaultPath).
				Placeholder(defaultPath).
				Value(result).
				Validate(func(s string) error {
					return validateSaveAs(s, source)
				}),
		),
	).WithTheme(Theme()).WithShowHelp(false)
}

// validateSaveAs checks an answer the way SaveAsPath will resolve it.
func validateSaveAs(answer, source string) error {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil
	}
	if strings.HasSuffix(answer, string(filepath.Separator)) {
		return errors.New("enter a file name, not a directory")
	}
	if source != "" && sameFile(SaveAsPath(answer, source), source) {
		return trim.ErrSameFile
	}
	return nil
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// SaveAsPath turns the answer of a save-as form into an output path. Relative
// paths are taken relative to the source's directory.
func SaveAsPath(answer, source string) string {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return ""
	}
	if !filepath.IsAbs(answer) && source != "" {
		answer = filepath.Join(filepath.Dir(source), answer)
	}
	return trim.EnsureExtension(answer, trim.DefaultExtension)
}
