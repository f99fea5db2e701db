package forms

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/user/vidtrim/pkg/timeutil"
)

// TimesFormResult holds the text entered in the edit-times form.
type TimesFormResult struct {
	Start string
	End   string
}

// Parse converts the entered text to seconds.
func (r *TimesFormResult) Parse() (start, end float64, err error) {
	if start, err = timeutil.ParseTimestamp(r.Start); err != nil {
		return 0, 0, fmt.Errorf("start: %w", err)
	}
	if end, err = timeutil.ParseTimestamp(r.End); err != nil {
		return 0, 0, fmt.Errorf("end: %w", err)
	}
	return start, end, nil
}

// NewTimesForm creates a form to type the start and end times. Fields are
// pre-filled from result. duration, when known, bounds both times.
func NewTimesForm(duration float64, result *TimesFormResult) *huh.Form {
	validate := func(s string) error {
		v, err := timeutil.ParseTimestamp(s)
		if err != nil {
			return fmt.Errorf("use HH:MM:SS")
		}
		if duration > 0 && v > duration {
			return fmt.Errorf("past the end (%s)", timeutil.FormatTimestamp(duration))
		}
		return nil
	}

	desc := "HH:MM:SS"
	if duration > 0 {
		desc = fmt.Sprintf("HH:MM:SS, video is %s long", timeutil.FormatTimestamp(duration))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Start time").
				Description(desc).
				Placeholder("00:00:00").
				CharLimit(12).
				Value(&result.Start).
				Validate(validate),

			huh.NewInput().
				Title("End time").
				Description(desc).
				Placeholder("00:00:00").
				CharLimit(12).
				Value(&result.End).
				Validate(func(s string) error {
					if err := validate(s); err != nil {
						return err
					}
					end, _ := timeutil.ParseTimestamp(s)
					start, err := timeutil.ParseTimestamp(result.Start)
					if err == nil && end <= start {
						return fmt.Errorf("must be after start")
					}
					return nil
				}),
		),
	).WithTheme(Theme()).WithShowHelp(false)
}
