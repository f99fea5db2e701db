package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/vidtrim/mpv"
	"github.com/user/vidtrim/pkg/timeutil"
	"go.uber.org/zap"
)

var (
	previewStart string
	previewEnd   string
)

var previewCmd = &cobra.Command{
	Use:   "preview <video-file>",
	Short: "Play a range of a video in mpv",
	Long:  `Open a video in mpv at --start and loop until --end, to check a range before trimming it.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := resolveInput(args[0])
		if err != nil {
			return err
		}

		var start, end float64
		if previewStart != "" {
			if start, err = timeutil.ParseTimestamp(previewStart); err != nil {
				return fmt.Errorf("invalid start time: %w", err)
			}
		}
		if previewEnd != "" {
			if end, err = timeutil.ParseTimestamp(previewEnd); err != nil {
				return fmt.Errorf("invalid end time: %w", err)
			}
			if end <= start {
				return fmt.Errorf("end time must be after start time")
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Opening video: %s\n", filepath.Base(source))
		process, err := mpv.LaunchPreview(source, start, end, "")
		if err != nil {
			return fmt.Errorf("failed to launch mpv: %w", err)
		}

		client := mpv.NewClient("")
		if err := mpv.ConnectWithRetry(client, 50, 100*time.Millisecond); err != nil {
			logger.Debug("mpv IPC unavailable", zap.Error(err))
		} else {
			defer client.Close()
			if d, err := client.GetDuration(); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Duration: %s\n", timeutil.FormatTimestamp(d))
			}
		}

		return process.Wait()
	},
}

func init() {
	previewCmd.Flags().StringVarP(&previewStart, "start", "s", "", "start of the range")
	previewCmd.Flags().StringVarP(&previewEnd, "end", "e", "", "end of the range (default: play to the end)")
	rootCmd.AddCommand(previewCmd)
}
