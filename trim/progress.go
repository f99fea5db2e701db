package trim

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Progress is one update parsed from ffmpeg's -progress output.
type Progress struct {
	// OutTime is the position written so far, in seconds of output.
	OutTime float64
	// Fraction is OutTime/total clamped to [0, 1]; zero when total is unknown.
	Fraction float64
	// Speed as reported by ffmpeg, e.g. 12.3 for "12.3x".
	Speed float64
	Done  bool
}

// ParseProgress reads ffmpeg "-progress" key=value blocks from r and calls fn
// at the end of every block. total is the expected output length in seconds.
func ParseProgress(r io.Reader, total float64, fn func(Progress)) error {
	scanner := bufio.NewScanner(r)
	var p Progress
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		switch key {
		case "out_time_us", "out_time_ms":
			// Both keys carry microseconds.
			if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
				p.OutTime = float64(us) / 1e6
			}
		case "speed":
			if v, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(value), "x"), 64); err == nil {
				p.Speed = v
			}
		case "progress":
			p.Done = value == "end"
			if total > 0 {
				p.Fraction = p.OutTime / total
				if p.Fraction > 1 {
					p.Fraction = 1
				}
			}
			if p.Done {
				p.Fraction = 1
			}
			if fn != nil {
				fn(p)
			}
		}
	}
	return scanner.Err()
}
