// Package jobs runs queued trim jobs from the history database.
package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/user/vidtrim/db"
	"github.com/user/vidtrim/deps"
	"github.com/user/vidtrim/logging"
	"github.com/user/vidtrim/trim"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultPollInterval is how long an idle worker waits before polling again.
const DefaultPollInterval = 2 * time.Second

// Trimmer is the part of trim.Trimmer the processor needs.
type Trimmer interface {
	Trim(ctx context.Context, req *trim.Request, onProgress func(trim.Progress)) (*trim.Result, error)
}

// Event reports a job state change or progress update.
type Event struct {
	JobID    int64
	Status   string
	Progress trim.Progress
	Output   string
	Size     int64
	Err      error
}

// Processor manages the background trim workers.
type Processor struct {
	DB      *sql.DB
	Trimmer Trimmer
	Logger  *zap.Logger
	// Concurrency is the number of jobs run at once; values below 1 mean 1.
	Concurrency  int
	PollInterval time.Duration
	// CheckFfmpeg defaults to deps.CheckFfmpeg.
	CheckFfmpeg func() error
	// OnEvent, when set, is called from worker goroutines.
	OnEvent func(Event)
	// HeartbeatInterval defaults to DefaultHeartbeatInterval. A processing
	// row whose heartbeat is several intervals old is requeued.
	HeartbeatInterval time.Duration

	// owner identifies this processor's claims; set by run.
	owner string
}

func (p *Processor) logger() *zap.Logger {
	if p.Logger == nil {
		return logging.Nop()
	}
	return p.Logger
}

func (p *Processor) emit(e Event) {
	if p.OnEvent != nil {
		p.OnEvent(e)
	}
}

// Run processes pending jobs until ctx is cancelled, polling when the queue is empty.
func (p *Processor) Run(ctx context.Context) error {
	return p.run(ctx, false)
}

// Drain processes pending jobs until none are left, then returns.
func (p *Processor) Drain(ctx context.Context) error {
	return p.run(ctx, true)
}

func (p *Processor) run(ctx context.Context, drain bool) error {
	if p.DB == nil || p.Trimmer == nil {
		return errors.New("processor needs a database and a trimmer")
	}

	p.owner = NewOwner()
	if _, err := p.requeueStale(); err != nil {
		return err
	}

	workers := p.Concurrency
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		worker := i
		g.Go(func() error {
			return p.workerLoop(gctx, worker, drain)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (p *Processor) heartbeatInterval() time.Duration {
	if p.HeartbeatInterval <= 0 {
		return DefaultHeartbeatInterval
	}
	return p.HeartbeatInterval
}

// requeueStale puts jobs whose owner stopped heartbeating back to pending.
// Trims that are still running, in this or another process, are left alone.
func (p *Processor) requeueStale() (int64, error) {
	cutoff := time.Now().Add(-staleHeartbeats * p.heartbeatInterval())
	n, err := db.ResetStaleProcessing(p.DB, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		p.logger().Warn("requeued stale jobs", zap.Int64("count", n))
	}
	return n, nil
}

func (p *Processor) workerLoop(ctx context.Context, worker int, drain bool) error {
	interval := p.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	log := p.logger().With(zap.Int("worker", worker))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		job, err := db.SelectNextPendingJob(p.DB)
		if err != nil {
			log.Warn("poll failed", zap.Error(err))
		}
		if job == nil {
			if err == nil {
				// A job whose owner died while this worker ran is picked up too.
				if n, staleErr := p.requeueStale(); staleErr != nil {
					log.Warn("requeue stale jobs", zap.Error(staleErr))
				} else if n > 0 {
					continue
				}
			}
			if drain && err == nil {
				return nil
			}
			// Nothing to do (or DB error); sleep and retry
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
			continue
		}

		claimed, err := db.ClaimJob(p.DB, job.ID, p.owner, time.Now())
		if err != nil {
			log.Warn("claim failed", zap.Int64("job", job.ID), zap.Error(err))
			continue
		}
		if !claimed {
			// Another worker got there first.
			continue
		}

		p.processJob(ctx, log, job)
	}
}

// processJob handles the full lifecycle of a single claimed job.
func (p *Processor) processJob(ctx context.Context, log *zap.Logger, j *db.Job) {
	log = log.With(zap.Int64("job", j.ID), zap.String("source", j.Source))
	p.emit(Event{JobID: j.ID, Status: db.StatusProcessing})

	stop := startHeartbeat(p.DB, j.ID, p.owner, p.heartbeatInterval(), log)
	defer stop()

	check := p.CheckFfmpeg
	if check == nil {
		check = deps.CheckFfmpeg
	}
	if err := check(); err != nil {
		p.fail(log, j, err)
		return
	}

	if _, err := os.Stat(j.Source); err != nil {
		p.fail(log, j, fmt.Errorf("source: %w", err))
		return
	}

	mode, err := trim.ParseMode(j.Mode)
	if err != nil {
		p.fail(log, j, err)
		return
	}

	req := &trim.Request{
		Source:   j.Source,
		Output:   j.Output,
		Start:    j.Start,
		End:      j.End,
		Mode:     mode,
		Duration: j.SourceDuration,
	}
	req.ClampEnd()

	res, err := p.Trimmer.Trim(ctx, req, func(pr trim.Progress) {
		p.emit(Event{JobID: j.ID, Status: db.StatusProcessing, Progress: pr})
	})
	stop()
	if err != nil {
		if ctx.Err() != nil {
			// Interrupted, not failed: leave it for the next worker.
			if relErr := db.ReleaseJob(p.DB, j.ID); relErr != nil {
				log.Warn("release job", zap.Error(relErr))
			}
			log.Info("job interrupted")
			return
		}
		p.fail(log, j, err)
		return
	}

	if err := Finish(p.DB, j.ID, res, nil); err != nil {
		log.Error("mark complete", zap.Error(err))
	}
	log.Info("job complete", zap.String("output", res.Output), zap.Int64("size", res.Size))
	p.emit(Event{JobID: j.ID, Status: db.StatusComplete, Output: res.Output, Size: res.Size})
}

func (p *Processor) fail(log *zap.Logger, j *db.Job, err error) {
	if markErr := Finish(p.DB, j.ID, nil, err); markErr != nil {
		log.Error("mark error", zap.Error(markErr))
	}
	log.Warn("job failed", zap.Error(err))
	p.emit(Event{JobID: j.ID, Status: db.StatusError, Err: err})
}

// FailureLog returns the text stored in a job's log for a failed trim:
// ffmpeg's stderr tail when there is one, otherwise the error message.
func FailureLog(err error) string {
	var ffErr *trim.FFmpegError
	if errors.As(err, &ffErr) && ffErr.Log != "" {
		return ffErr.Log
	}
	return err.Error()
}

// Finish records the outcome of a trim for job id: complete with the output
// size when trimErr is nil, error otherwise.
func Finish(database *sql.DB, id int64, res *trim.Result, trimErr error) error {
	if trimErr != nil {
		return db.MarkJobError(database, id, time.Now(), FailureLog(trimErr))
	}
	return db.MarkJobComplete(database, id, time.Now(), res.Size)
}
