package cmd

import (
	"database/sql"

	"github.com/spf13/cobra"
	"github.com/user/vidtrim/media"
	"github.com/user/vidtrim/trim"
	"github.com/user/vidtrim/tui"
	"go.uber.org/zap"
)

var uiNoHistory bool

var uiCmd = &cobra.Command{
	Use:   "ui [video-file]",
	Short: "Open the interactive trimmer",
	Long: `Open the terminal trimmer. Pick a video, mark the start and end on the
slider or type them, preview the range in mpv and trim it with ffmpeg.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var input string
		if len(args) == 1 {
			var err error
			if input, err = resolveInput(args[0]); err != nil {
				return err
			}
		}

		var database *sql.DB
		if !uiNoHistory {
			d, err := openDB()
			if err != nil {
				// History is optional in the UI.
				logger.Warn("history disabled", zap.Error(err))
			} else {
				database = d
				defer database.Close()
			}
		}

		return tui.Run(tui.Options{
			Config:  cfg,
			DB:      database,
			Logger:  logger,
			Input:   input,
			Prober:  media.NewProber(),
			Trimmer: trim.NewTrimmer(trim.WithLogger(logger)),
		})
	},
}

func init() {
	uiCmd.Flags().BoolVar(&uiNoHistory, "no-history", false, "do not record trims in the history database")
	rootCmd.AddCommand(uiCmd)

	// A bare "vidtrim [video-file]" opens the trimmer too.
	rootCmd.Args = cobra.MaximumNArgs(1)
	rootCmd.RunE = uiCmd.RunE
}
