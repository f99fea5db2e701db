package jobs

import (
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/user/vidtrim/db"
	"github.com/user/vidtrim/logging"
	"github.com/user/vidtrim/trim"
	"go.uber.org/zap"
)

const (
	// DefaultHeartbeatInterval is how often a running trim refreshes its row.
	DefaultHeartbeatInterval = 15 * time.Second
	// staleHeartbeats is how many missed heartbeats make a processing row stale.
	staleHeartbeats = 4
)

// NewOwner returns a fresh owner id for job rows.
func NewOwner() string {
	return uuid.NewString()
}

// startHeartbeat refreshes job id every interval until the returned stop
// func is called. stop waits for the goroutine and may be called more than once.
func startHeartbeat(database *sql.DB, id int64, owner string, interval time.Duration, log *zap.Logger) func() {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				ok, err := db.TouchJob(database, id, owner, now)
				if err != nil {
					log.Warn("heartbeat", zap.Int64("job", id), zap.Error(err))
				} else if !ok {
					log.Warn("job no longer owned", zap.Int64("job", id))
					return
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}

// Tracked is a trim run outside the queue, recorded in the history database
// as processing while it runs.
type Tracked struct {
	ID   int64
	db   *sql.DB
	stop func()
}

// Track records j as processing under a new owner and keeps its heartbeat
// fresh so queue workers do not mistake it for a crashed job.
func Track(database *sql.DB, j db.NewJob, logger *zap.Logger) (*Tracked, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	owner := NewOwner()
	id, err := db.InsertProcessingJob(database, j, owner, time.Now())
	if err != nil {
		return nil, err
	}
	return &Tracked{
		ID:   id,
		db:   database,
		stop: startHeartbeat(database, id, owner, DefaultHeartbeatInterval, logger),
	}, nil
}

// Finish stops the heartbeat and records the outcome of the trim.
func (t *Tracked) Finish(res *trim.Result, trimErr error) error {
	t.stop()
	return Finish(t.db, t.ID, res, trimErr)
}
