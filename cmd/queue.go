package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/user/vidtrim/db"
	"github.com/user/vidtrim/jobs"
	"github.com/user/vidtrim/pkg/timeutil"
	"github.com/user/vidtrim/trim"
	"go.uber.org/zap"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Queue trims and run them in the background",
	Long:  `Add trims to a queue stored in the history database and work through them with one or more workers.`,
}

var queueAddOpts rangeFlags

var queueAddCmd = &cobra.Command{
	Use:   "add <video-file>",
	Short: "Queue a trim",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildRequest(cmd.Context(), args[0], queueAddOpts)
		if err != nil {
			return err
		}

		database, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close()

		id, err := db.InsertJob(database, newJob(req))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Queued job %d: %s (%s - %s) -> %s\n", id, req.Source,
			timeutil.FormatTimestamp(req.Start), timeutil.FormatTimestamp(req.End), req.Output)
		return nil
	},
}

var (
	queueListStatus string
	queueListLimit  int
)

var queueListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List queued and finished trims",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch queueListStatus {
		case "", db.StatusPending, db.StatusProcessing, db.StatusComplete, db.StatusError:
		default:
			return fmt.Errorf("unknown status %q", queueListStatus)
		}

		database, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close()

		list, err := db.SelectJobs(database, queueListStatus, queueListLimit)
		if err != nil {
			return err
		}
		counts, err := db.CountJobsByStatus(database)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printJobs(out, list)
		printStatusCounts(out, counts)
		return nil
	},
}

func printJobs(out io.Writer, list []db.Job) {
	if len(list) == 0 {
		fmt.Fprintln(out, "No jobs found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tStatus\tStart\tEnd\tLength\tMode\tOutput")
	fmt.Fprintln(w, "--\t------\t-----\t---\t------\t----\t------")
	for _, j := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", j.ID, j.Status,
			timeutil.FormatTimestamp(j.Start), timeutil.FormatTimestamp(j.End),
			timeutil.FormatDuration(j.End-j.Start), j.Mode, j.Output)
	}
	w.Flush()
	fmt.Fprintf(out, "\n%d job(s) found.\n", len(list))
}

// printStatusCounts prints one line with the number of jobs in each status.
func printStatusCounts(out io.Writer, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	var parts []string
	for _, s := range []string{db.StatusPending, db.StatusProcessing, db.StatusComplete, db.StatusError} {
		if n := counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, s))
		}
	}
	fmt.Fprintf(out, "Queue: %s\n", strings.Join(parts, ", "))
}

var (
	queueWorkDrain       bool
	queueWorkConcurrency int
	queueWorkPoll        time.Duration
)

var queueWorkCmd = &cobra.Command{
	Use:   "work",
	Short: "Run queued trims",
	Long: `Run pending trims. Without --drain the workers keep polling for new
jobs until interrupted; with --drain they stop once the queue is empty.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		database, err := openDB()
		if err != nil {
			return err
		}
		defer database.Close()

		out := cmd.OutOrStdout()
		p := &jobs.Processor{
			DB:           database,
			Trimmer:      trim.NewTrimmer(trim.WithLogger(logger)),
			Logger:       logger,
			Concurrency:  queueWorkConcurrency,
			PollInterval: queueWorkPoll,
			OnEvent: func(e jobs.Event) {
				switch e.Status {
				case db.StatusComplete:
					fmt.Fprintf(out, "job %d: Trim Complete: %s\n", e.JobID, e.Output)
				case db.StatusError:
					fmt.Fprintf(out, "job %d: failed: %v\n", e.JobID, e.Err)
				}
			},
		}

		if queueWorkDrain {
			return p.Drain(ctx)
		}
		logger.Info("queue worker started", zap.Int("concurrency", queueWorkConcurrency))
		fmt.Fprintln(out, "Waiting for jobs (Ctrl+C to stop)...")
		return p.Run(ctx)
	},
}

var queueRetryCmd = &cobra.Command{
	Use:   "retry <job-id>",
	Short: "Put a finished or failed job back in the queue",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid job ID %q", args[0])
		}
		return withDB(func(database *sql.DB) error {
			if err := db.RequeueJob(database, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job %d queued again.\n", id)
			return nil
		})
	},
}

var queueClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete finished and failed jobs from the history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(database *sql.DB) error {
			n, err := db.DeleteFinishedJobs(database)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d job(s).\n", n)
			return nil
		})
	},
}

func withDB(fn func(*sql.DB) error) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()
	return fn(database)
}

func init() {
	queueAddOpts.register(queueAddCmd)

	queueListCmd.Flags().StringVar(&queueListStatus, "status", "", "only show jobs with this status (pending, processing, complete, error)")
	queueListCmd.Flags().IntVarP(&queueListLimit, "limit", "n", 50, "maximum number of jobs to show (0 for all)")

	queueWorkCmd.Flags().BoolVar(&queueWorkDrain, "drain", false, "exit once the queue is empty")
	queueWorkCmd.Flags().IntVarP(&queueWorkConcurrency, "concurrency", "c", 1, "number of trims to run at once")
	queueWorkCmd.Flags().DurationVar(&queueWorkPoll, "poll", jobs.DefaultPollInterval, "how often idle workers check for new jobs")

	queueCmd.AddCommand(queueAddCmd, queueListCmd, queueWorkCmd, queueRetryCmd, queueClearCmd)
	rootCmd.AddCommand(queueCmd)
}
