// Package trim cuts a time range out of a video by delegating to ffmpeg.
package trim

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/user/vidtrim/pkg/timeutil"
)

// DefaultOutputPrefix is prepended to the source basename to form the default output path.
const DefaultOutputPrefix = "trimmed_"

// DefaultExtension is appended by EnsureExtension when the output has none.
const DefaultExtension = ".mp4"

var (
	// ErrInvalidRange is returned when the start/end pair cannot describe a clip.
	ErrInvalidRange = errors.New("invalid time range")
	// ErrNoSource is returned when no input file was chosen.
	ErrNoSource = errors.New("no input file selected")
	// ErrSameFile is returned when the output would overwrite the source.
	ErrSameFile = errors.New("output path is the same as the input path")
)

// Mode selects how ffmpeg writes the clip.
type Mode string

const (
	// ModeCopy copies the streams without re-encoding. Cuts snap to keyframes.
	ModeCopy Mode = "copy"
	// ModeReencode re-encodes to H.264/AAC for frame-accurate cuts.
	ModeReencode Mode = "reencode"
)

// ParseMode converts a flag or config value into a Mode. Empty means ModeCopy.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeCopy:
		return ModeCopy, nil
	case ModeReencode:
		return ModeReencode, nil
	}
	return "", fmt.Errorf("unknown trim mode %q (want copy or reencode)", s)
}

// Request describes one trim.
type Request struct {
	Source string
	Output string
	// Start and End are offsets into Source in seconds.
	Start float64
	End   float64
	Mode  Mode
	// Duration of Source in seconds, zero when unknown.
	Duration float64
}

// Length is the length of the resulting clip in seconds.
func (r *Request) Length() float64 {
	return r.End - r.Start
}

// Validate checks that the request describes a clip that can be cut.
// Callers that accept an overshooting end call ClampEnd first.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.Source) == "" {
		return ErrNoSource
	}
	if strings.TrimSpace(r.Output) == "" {
		return fmt.Errorf("output path is required")
	}
	if samePath(r.Source, r.Output) {
		return ErrSameFile
	}
	if r.Start < 0 {
		return fmt.Errorf("%w: start %s is negative", ErrInvalidRange, timeutil.FormatTimestamp(r.Start))
	}
	if r.End <= r.Start {
		return fmt.Errorf("%w: end time %s must be after start time %s",
			ErrInvalidRange, timeutil.FormatTimestamp(r.End), timeutil.FormatTimestamp(r.Start))
	}
	if r.Duration > 0 && r.Start >= r.Duration {
		return fmt.Errorf("%w: start %s is past the end of the video (%s)",
			ErrInvalidRange, timeutil.FormatTimestamp(r.Start), timeutil.FormatTimestamp(r.Duration))
	}
	if r.Duration > 0 && r.End > r.Duration {
		return fmt.Errorf("%w: end %s is past the end of the video (%s)",
			ErrInvalidRange, timeutil.FormatTimestamp(r.End), timeutil.FormatTimestamp(r.Duration))
	}
	switch r.Mode {
	case "", ModeCopy, ModeReencode:
	default:
		return fmt.Errorf("unknown trim mode %q", r.Mode)
	}
	return nil
}

// ClampEnd pulls End back to Duration when it overshoots the video.
func (r *Request) ClampEnd() {
	if r.Duration > 0 && r.End > r.Duration {
		r.End = r.Duration
	}
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// DefaultOutputPath returns <dir of source>/<prefix><basename of source>.
// An empty prefix falls back to DefaultOutputPrefix.
func DefaultOutputPath(source, prefix string) string {
	if source == "" {
		return ""
	}
	if prefix == "" {
		prefix = DefaultOutputPrefix
	}
	return filepath.Join(filepath.Dir(source), prefix+filepath.Base(source))
}

// EnsureExtension appends ext when path has no extension.
func EnsureExtension(path, ext string) string {
	if path == "" || filepath.Ext(path) != "" {
		return path
	}
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path + ext
}

// ResolveOutput returns output when set, otherwise the default output path for source.
func ResolveOutput(source, output, prefix string) string {
	if strings.TrimSpace(output) == "" {
		return DefaultOutputPath(source, prefix)
	}
	return EnsureExtension(output, filepath.Ext(source))
}
