package cmd

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/user/vidtrim/config"
	"github.com/user/vidtrim/db"
	"github.com/user/vidtrim/deps"
	"github.com/user/vidtrim/logging"
	"go.uber.org/zap"
)

var Version = "0.1.0"

var (
	verbose    bool
	configPath string

	cfg    *config.Config
	logger = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "vidtrim",
	Short: "Cut a time range out of a video with ffmpeg",
	Long: `vidtrim trims video files by delegating the cut to ffmpeg.

Features:
  - Trim from the command line or the terminal UI
  - Preview the selected range in mpv
  - Queue trims and work through them in the background
  - Keep a history of every trim`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		opts := logging.Options{Verbose: verbose}
		// The terminal UI owns the screen, so it logs to a file.
		if cmd.Name() == "ui" || cmd == cmd.Root() {
			if opts.File, err = cfg.ResolveLogFile(); err != nil {
				return fmt.Errorf("resolve log file: %w", err)
			}
		}
		logger, err = logging.New(opts)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debug("config loaded", zap.String("path", cfg.Path()))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vidtrim version %s\n", Version)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  `Check that ffmpeg and ffprobe are installed, and whether mpv is available for previews.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Checking dependencies...")
		fmt.Fprintln(out)

		results := deps.CheckAll()
		for _, r := range results {
			switch {
			case r.Err == nil:
				fmt.Fprintf(out, "✓ %s: OK\n", r.Name)
			case r.Optional:
				fmt.Fprintf(out, "- %s: not found (optional, needed for previews)\n", r.Name)
				fmt.Fprintf(out, "  Install from: %s\n", r.InstallURL)
			default:
				fmt.Fprintf(out, "✗ %s: NOT FOUND\n", r.Name)
				fmt.Fprintf(out, "  Install from: %s\n", r.InstallURL)
			}
		}

		fmt.Fprintln(out)
		if deps.MissingRequired(results) {
			return errors.New("required dependencies are missing")
		}
		fmt.Fprintln(out, "All required dependencies are installed!")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is <user config dir>/vidtrim/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(doctorCmd)
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openDB opens the history database configured in cfg.
func openDB() (*sql.DB, error) {
	path, err := cfg.ResolveDatabasePath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// resolveInput returns the absolute path of an existing, regular video file.
func resolveInput(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	info, err := os.Stat(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("video file not found: %s", absPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to access video file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a video file: %s", absPath)
	}
	if !cfg.IsVideoFile(absPath) {
		return "", fmt.Errorf("not a video file: %s (extensions: %s)", absPath, strings.Join(cfg.VideoExtensions, ", "))
	}
	return absPath, nil
}
