package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/user/vidtrim/db"
	"github.com/user/vidtrim/deps"
	"github.com/user/vidtrim/jobs"
	"github.com/user/vidtrim/media"
	"github.com/user/vidtrim/pkg/timeutil"
	"github.com/user/vidtrim/trim"
	"go.uber.org/zap"
)

// rangeFlags are shared by "trim" and "queue add".
type rangeFlags struct {
	start  string
	end    string
	output string
	mode   string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.start, "start", "s", "", "start time (HH:MM:SS, MM:SS or seconds)")
	cmd.Flags().StringVarP(&f.end, "end", "e", "", "end time (HH:MM:SS, MM:SS or seconds)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default <dir>/<prefix><name>)")
	cmd.Flags().StringVar(&f.mode, "mode", "", "copy (fast, keyframe aligned) or reencode (frame accurate)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
}

// buildRequest turns an input path and range flags into a validated request.
// The source duration comes from ffprobe when it is installed.
func buildRequest(ctx context.Context, input string, f rangeFlags) (*trim.Request, error) {
	source, err := resolveInput(input)
	if err != nil {
		return nil, err
	}

	start, err := timeutil.ParseTimestamp(f.start)
	if err != nil {
		return nil, fmt.Errorf("invalid start time: %w", err)
	}
	end, err := timeutil.ParseTimestamp(f.end)
	if err != nil {
		return nil, fmt.Errorf("invalid end time: %w", err)
	}

	modeValue := f.mode
	if modeValue == "" {
		modeValue = cfg.Mode
	}
	mode, err := trim.ParseMode(modeValue)
	if err != nil {
		return nil, err
	}

	req := &trim.Request{
		Source: source,
		Output: trim.ResolveOutput(source, f.output, cfg.OutputPrefix),
		Start:  start,
		End:    end,
		Mode:   mode,
	}

	if err := deps.CheckFfprobe(); err != nil {
		logger.Warn("ffprobe not found, skipping duration check", zap.Error(err))
	} else if d, err := media.NewProber().Duration(ctx, source); err != nil {
		logger.Warn("could not read duration", zap.String("source", source), zap.Error(err))
	} else {
		req.Duration = d
		if req.End > d {
			logger.Info("end time past end of video, clamping",
				zap.String("end", timeutil.FormatTimestamp(req.End)),
				zap.String("duration", timeutil.FormatTimestamp(d)))
			req.ClampEnd()
		}
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func newJob(req *trim.Request) db.NewJob {
	return db.NewJob{
		Source:         req.Source,
		Output:         req.Output,
		Start:          req.Start,
		End:            req.End,
		Mode:           string(req.Mode),
		SourceDuration: req.Duration,
	}
}

var (
	trimOpts  rangeFlags
	trimForce bool
)

var trimCmd = &cobra.Command{
	Use:   "trim <video-file>",
	Short: "Cut a time range out of a video",
	Long: `Cut the range between --start and --end out of a video with ffmpeg.

By default streams are copied without re-encoding, so cuts land on the
nearest keyframe. Use --mode reencode for frame accurate cuts.`,
	Example: `  vidtrim trim match.mp4 --start 00:01:30 --end 00:02:00
  vidtrim trim match.mp4 -s 90 -e 120 -o try.mp4 --mode reencode`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		req, err := buildRequest(ctx, args[0], trimOpts)
		if err != nil {
			return err
		}
		if _, err := os.Stat(req.Output); err == nil && !trimForce {
			return fmt.Errorf("output file already exists: %s (use --force to overwrite)", req.Output)
		}
		if err := deps.CheckFfmpeg(); err != nil {
			return err
		}

		database, err := openDB()
		if err != nil {
			// History is optional for a one-off trim.
			logger.Warn("trim history disabled", zap.Error(err))
		} else {
			defer database.Close()
		}

		out := cmd.ErrOrStderr()
		fmt.Fprintf(out, "Trimming %s (%s - %s, %s)...\n",
			req.Source, timeutil.FormatTimestamp(req.Start), timeutil.FormatTimestamp(req.End),
			timeutil.FormatDuration(req.Length()))

		res, err := runTrim(ctx, database, req, out)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Trim Complete: %s (%s)\n", res.Output, humanize.Bytes(uint64(res.Size)))
		return nil
	},
}

// runTrim runs one trim in the foreground, drawing a progress bar to w and
// recording the outcome in the history database when one is open.
func runTrim(ctx context.Context, database *sql.DB, req *trim.Request, w io.Writer) (*trim.Result, error) {
	var tracked *jobs.Tracked
	if database != nil {
		var err error
		if tracked, err = jobs.Track(database, newJob(req), logger); err != nil {
			logger.Warn("record trim", zap.Error(err))
		}
	}

	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	trimmer := trim.NewTrimmer(trim.WithLogger(logger))
	res, err := trimmer.Trim(ctx, req, func(p trim.Progress) {
		fmt.Fprintf(w, "\r%s %s", bar.ViewAs(p.Fraction), timeutil.FormatTimestamp(p.OutTime))
	})
	fmt.Fprintln(w)

	if tracked != nil {
		if markErr := tracked.Finish(res, err); markErr != nil {
			logger.Warn("record trim result", zap.Error(markErr))
		}
	}
	return res, err
}

func init() {
	trimOpts.register(trimCmd)
	trimCmd.Flags().BoolVarP(&trimForce, "force", "f", false, "overwrite the output file if it exists")
	rootCmd.AddCommand(trimCmd)
}
