package trim

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/user/vidtrim/logging"
	"github.com/user/vidtrim/pkg/timeutil"
	"go.uber.org/zap"
)

// stderrTailLines is how much of ffmpeg's stderr is kept in an FFmpegError.
const stderrTailLines = 12

// Runner runs an external command with the given stdout/stderr writers.
type Runner interface {
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

// ExecRunner is the production Runner using os/exec.
type ExecRunner struct{}

// Run executes the command and waits for it to finish.
func (ExecRunner) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// FFmpegError is returned when ffmpeg exits unsuccessfully.
type FFmpegError struct {
	Err error
	// Log is the tail of ffmpeg's stderr.
	Log string
}

func (e *FFmpegError) Error() string {
	if e.Log == "" {
		return fmt.Sprintf("ffmpeg failed: %v", e.Err)
	}
	return fmt.Sprintf("ffmpeg failed: %v\n%s", e.Err, e.Log)
}

func (e *FFmpegError) Unwrap() error { return e.Err }

// Result describes a finished trim.
type Result struct {
	Output string
	Size   int64
}

// Trimmer cuts clips using ffmpeg.
type Trimmer struct {
	ffmpegPath string
	runner     Runner
	logger     *zap.Logger
}

// TrimmerOption is a functional option for configuring Trimmer
type TrimmerOption func(*Trimmer)

// WithFFmpegPath sets a custom ffmpeg executable path
func WithFFmpegPath(path string) TrimmerOption {
	return func(t *Trimmer) {
		t.ffmpegPath = path
	}
}

// WithRunner sets a custom command runner (for testing)
func WithRunner(runner Runner) TrimmerOption {
	return func(t *Trimmer) {
		t.runner = runner
	}
}

// WithLogger sets the logger used for command tracing.
func WithLogger(logger *zap.Logger) TrimmerOption {
	return func(t *Trimmer) {
		t.logger = logger
	}
}

// NewTrimmer creates a new ffmpeg-based trimmer
func NewTrimmer(opts ...TrimmerOption) *Trimmer {
	t := &Trimmer{
		ffmpegPath: "ffmpeg",
		runner:     ExecRunner{},
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// BuildArgs returns the ffmpeg argument list that writes req to outputPath.
// Seeking before -i makes ffmpeg jump to the nearest keyframe quickly; with
// re-encoding the cut is still frame accurate.
func BuildArgs(req *Request, outputPath string) []string {
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-ss", timeutil.FormatTimestampPrecise(req.Start),
		"-i", req.Source,
		"-t", timeutil.FormatTimestampPrecise(req.Length()),
	}

	switch req.Mode {
	case ModeReencode:
		args = append(args,
			"-c:v", "libx264",
			"-c:a", "aac",
			"-preset", "fast",
		)
	default:
		args = append(args,
			"-map", "0",
			"-c", "copy",
			"-avoid_negative_ts", "make_zero",
		)
	}

	args = append(args,
		"-progress", "pipe:1",
		"-nostats",
		outputPath,
	)
	return args
}

// partPath returns a hidden temporary file next to output that keeps output's
// extension so ffmpeg still picks the right muxer.
func partPath(output string) string {
	dir := filepath.Dir(output)
	ext := filepath.Ext(output)
	base := strings.TrimSuffix(filepath.Base(output), ext)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.part%s", base, uuid.NewString()[:8], ext))
}

// Trim cuts req.Start..req.End out of req.Source into req.Output.
// onProgress may be nil. The output only appears once ffmpeg succeeded.
func (t *Trimmer) Trim(ctx context.Context, req *Request, onProgress func(Progress)) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(req.Output), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp := partPath(req.Output)
	args := BuildArgs(req, tmp)

	t.logger.Debug("running ffmpeg",
		zap.String("ffmpeg", t.ffmpegPath),
		zap.Strings("args", args),
	)

	pr, pw := io.Pipe()
	parsed := make(chan error, 1)
	go func() {
		err := ParseProgress(pr, req.Length(), onProgress)
		// Keep draining so ffmpeg never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, pr)
		parsed <- err
	}()

	var stderr bytes.Buffer
	runErr := t.runner.Run(ctx, t.ffmpegPath, args, pw, &stderr)
	pw.Close()
	if err := <-parsed; err != nil {
		t.logger.Debug("progress parse failed", zap.Error(err))
	}

	if runErr != nil {
		_ = os.Remove(tmp)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("trim cancelled: %w", ctxErr)
		}
		return nil, &FFmpegError{Err: runErr, Log: tail(stderr.String(), stderrTailLines)}
	}

	info, err := os.Stat(tmp)
	if err != nil {
		return nil, fmt.Errorf("stat output: %w", err)
	}
	if err := os.Rename(tmp, req.Output); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("move output into place: %w", err)
	}

	t.logger.Info("trim complete",
		zap.String("source", req.Source),
		zap.String("output", req.Output),
		zap.Float64("start", req.Start),
		zap.Float64("end", req.End),
		zap.Int64("size", info.Size()),
	)

	return &Result{Output: req.Output, Size: info.Size()}, nil
}

func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
