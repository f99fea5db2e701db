package timeutil

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidTimestamp is returned (wrapped) for any timestamp that cannot be parsed.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// FormatTimestamp formats seconds as HH:MM:SS (e.g. 00:01:30, 01:11:22).
// Fractional seconds are truncated and negative values clamp to zero.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	totalSeconds := int(seconds)
	hours := totalSeconds / 3600
	mins := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, mins, secs)
}

// FormatTimestampPrecise formats seconds as HH:MM:SS.mmm, the form passed to ffmpeg.
func FormatTimestampPrecise(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	totalMillis := int64(math.Round(seconds * 1000))
	hours := totalMillis / 3600000
	mins := (totalMillis % 3600000) / 60000
	secs := (totalMillis % 60000) / 1000
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, mins, secs, millis)
}

// FormatDuration formats a length of time for humans: 1h02m03s, 2m03s or 4.5s.
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	if seconds < 60 {
		return strconv.FormatFloat(math.Round(seconds*10)/10, 'f', -1, 64) + "s"
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

// ParseTimestamp parses a time string in HH:MM:SS, MM:SS, or raw seconds format.
// Uses colon count: 2 colons = H:M:S, 1 colon = M:S, 0 colons = raw seconds.
// The last field may carry a fraction (00:00:12.5). Minutes and seconds must be
// below 60 when a larger unit is present.
func ParseTimestamp(timeStr string) (float64, error) {
	s := strings.TrimSpace(timeStr)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidTimestamp)
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: expected HH:MM:SS, MM:SS, or seconds, got '%s'", ErrInvalidTimestamp, timeStr)
	}

	// Leading fields are whole numbers, the last may be fractional.
	var total float64
	for i, p := range parts {
		last := i == len(parts)-1
		v, err := parseField(p, last)
		if err != nil {
			return 0, fmt.Errorf("%w: expected HH:MM:SS, MM:SS, or seconds, got '%s'", ErrInvalidTimestamp, timeStr)
		}
		if i > 0 && v >= 60 {
			return 0, fmt.Errorf("%w: field %q out of range in '%s'", ErrInvalidTimestamp, p, timeStr)
		}
		total = total*60 + v
	}

	return total, nil
}

// parseField accepts digits, optionally followed by "." and more digits when
// allowFraction is set.
func parseField(p string, allowFraction bool) (float64, error) {
	whole, frac, hasFrac := strings.Cut(p, ".")
	if !isDigits(whole) || (hasFrac && (!allowFraction || !isDigits(frac))) {
		return 0, ErrInvalidTimestamp
	}
	v, err := strconv.ParseFloat(p, 64)
	if err != nil {
		return 0, ErrInvalidTimestamp
	}
	return v, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
