package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/user/vidtrim/deps"
	"github.com/user/vidtrim/media"
	"github.com/user/vidtrim/pkg/timeutil"
)

var probeCmd = &cobra.Command{
	Use:   "probe <video-file>",
	Short: "Show the duration and codecs of a video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := resolveInput(args[0])
		if err != nil {
			return err
		}
		if err := deps.CheckFfprobe(); err != nil {
			return err
		}

		info, err := media.NewProber().Probe(cmd.Context(), source)
		if err != nil {
			return err
		}
		printInfo(cmd.OutOrStdout(), info)
		return nil
	},
}

func printInfo(out io.Writer, info *media.Info) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "File:\t%s\n", info.Path)
	fmt.Fprintf(w, "Duration:\t%s (%s)\n", timeutil.FormatTimestamp(info.Duration), timeutil.FormatDuration(info.Duration))
	if info.Format != "" {
		fmt.Fprintf(w, "Format:\t%s\n", info.Format)
	}
	if info.Size > 0 {
		fmt.Fprintf(w, "Size:\t%s\n", humanize.Bytes(uint64(info.Size)))
	}
	if info.VideoCodec != "" {
		fmt.Fprintf(w, "Video:\t%s %dx%d\n", info.VideoCodec, info.Width, info.Height)
	}
	if info.AudioCodec != "" {
		fmt.Fprintf(w, "Audio:\t%s\n", info.AudioCodec)
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(probeCmd)
}
