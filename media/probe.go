// Package media reads container metadata from video files using ffprobe.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoDuration is returned when ffprobe cannot report a duration (e.g. "N/A").
var ErrNoDuration = errors.New("media: duration not available")

// Runner runs an external command and returns its stdout.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner is the production Runner using os/exec.
type ExecRunner struct{}

// Output runs the command, folding stderr into the returned error.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// Info is the subset of ffprobe output vidtrim displays.
type Info struct {
	Path       string
	Duration   float64
	Format     string
	Size       int64
	VideoCodec string
	AudioCodec string
	Width      int
	Height     int
}

// Prober wraps the ffprobe executable.
type Prober struct {
	ffprobePath string
	runner      Runner
}

// Option configures a Prober.
type Option func(*Prober)

// WithFfprobePath sets a custom ffprobe executable path.
func WithFfprobePath(path string) Option {
	return func(p *Prober) {
		p.ffprobePath = path
	}
}

// WithRunner sets a custom command runner (for testing).
func WithRunner(r Runner) Option {
	return func(p *Prober) {
		p.runner = r
	}
}

// NewProber creates a Prober that runs "ffprobe" from PATH by default.
func NewProber(opts ...Option) *Prober {
	p := &Prober{
		ffprobePath: "ffprobe",
		runner:      ExecRunner{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type probeOutput struct {
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
	Format struct {
		Duration   string `json:"duration"`
		FormatName string `json:"format_name"`
		Size       string `json:"size"`
	} `json:"format"`
}

// Probe returns the duration, container and stream codecs of the file at path.
func (p *Prober) Probe(ctx context.Context, path string) (*Info, error) {
	out, err := p.runner.Output(ctx, p.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration,format_name,size",
		"-show_entries", "stream=codec_type,codec_name,width,height",
		"-of", "json",
		path,
	)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}
	return parseProbeOutput(path, out)
}

// Duration returns only the duration of the file at path, in seconds.
func (p *Prober) Duration(ctx context.Context, path string) (float64, error) {
	info, err := p.Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	return info.Duration, nil
}

func parseProbeOutput(path string, data []byte) (*Info, error) {
	var po probeOutput
	if err := json.Unmarshal(data, &po); err != nil {
		return nil, fmt.Errorf("parse ffprobe output: %w", err)
	}

	info := &Info{
		Path:   path,
		Format: po.Format.FormatName,
	}

	d := strings.TrimSpace(po.Format.Duration)
	if d == "" || d == "N/A" {
		return nil, fmt.Errorf("%s: %w", path, ErrNoDuration)
	}
	duration, err := strconv.ParseFloat(d, 64)
	if err != nil || duration <= 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoDuration)
	}
	info.Duration = duration

	if po.Format.Size != "" {
		if size, err := strconv.ParseInt(po.Format.Size, 10, 64); err == nil {
			info.Size = size
		}
	}

	for _, s := range po.Streams {
		switch s.CodecType {
		case "video":
			if info.VideoCodec == "" {
				info.VideoCodec = s.CodecName
				info.Width = s.Width
				info.Height = s.Height
			}
		case "audio":
			if info.AudioCodec == "" {
				info.AudioCodec = s.CodecName
			}
		}
	}

	return info, nil
}
