package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrJobNotFound is returned when no trim_jobs row has the requested ID.
var ErrJobNotFound = errors.New("job not found")

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(s rowScanner) (*Job, error) {
	var j Job
	var created, started, finished, errored sql.NullTime
	err := s.Scan(&j.ID, &j.Source, &j.Output, &j.Start, &j.End, &j.Mode, &j.Status, &j.SourceDuration,
		&created, &started, &finished, &errored, &j.Log, &j.Filesize)
	if err != nil {
		return nil, err
	}
	if created.Valid {
		j.CreatedAt = created.Time
	}
	j.StartedAt = nullTimePtr(started)
	j.FinishedAt = nullTimePtr(finished)
	j.ErrorAt = nullTimePtr(errored)
	return &j, nil
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// InsertJob inserts a pending trim job and returns its ID.
func InsertJob(db *sql.DB, j NewJob) (int64, error) {
	return insertJob(db, j, StatusPending)
}

// InsertProcessingJob records a trim that owner is running right now, outside
// the queue.
func InsertProcessingJob(db *sql.DB, j NewJob, owner string, startedAt time.Time) (int64, error) {
	id, err := insertJob(db, j, StatusPending)
	if err != nil {
		return 0, err
	}
	if _, err := ClaimJob(db, id, owner, startedAt); err != nil {
		return 0, err
	}
	return id, nil
}

func insertJob(db *sql.DB, j NewJob, status string) (int64, error) {
	mode := j.Mode
	if mode == "" {
		mode = "copy"
	}
	result, err := db.Exec(InsertJobSQL, j.Source, j.Output, j.Start, j.End, mode, status, j.SourceDuration)
	if err != nil {
		return 0, fmt.Errorf("insert job: %w", err)
	}
	return result.LastInsertId()
}

// SelectJobByID returns a single trim_jobs row by ID.
func SelectJobByID(db *sql.DB, id int64) (*Job, error) {
	j, err := scanJob(db.QueryRow(SelectJobByIDSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: ID %d", ErrJobNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("select job: %w", err)
	}
	return j, nil
}

// SelectJobs returns up to limit jobs, newest first. An empty status returns all.
func SelectJobs(db *sql.DB, status string, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.Query(SelectJobsSQL, status, status, limit)
	if err != nil {
		return nil, fmt.Errorf("select jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

// SelectNextPendingJob returns the oldest pending job, or nil when the queue is empty.
func SelectNextPendingJob(db *sql.DB) (*Job, error) {
	j, err := scanJob(db.QueryRow(SelectNextPendingJobSQL))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select next pending job: %w", err)
	}
	return j, nil
}

// ClaimJob moves a pending job to processing under owner, with its heartbeat
// set to startedAt. It returns false when another worker already claimed it.
func ClaimJob(db *sql.DB, id int64, owner string, startedAt time.Time) (bool, error) {
	result, err := db.Exec(ClaimJobSQL, startedAt, owner, startedAt.Unix(), id)
	if err != nil {
		return false, fmt.Errorf("claim job: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim job: %w", err)
	}
	return n == 1, nil
}

// TouchJob refreshes the heartbeat of a processing job held by owner. It
// returns false when the job is no longer processing under owner.
func TouchJob(db *sql.DB, id int64, owner string, now time.Time) (bool, error) {
	result, err := db.Exec(TouchJobSQL, now.Unix(), id, owner)
	if err != nil {
		return false, fmt.Errorf("touch job: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("touch job: %w", err)
	}
	return n == 1, nil
}

// MarkJobComplete updates a trim_jobs row to complete status with the given finish time and filesize.
func MarkJobComplete(db *sql.DB, id int64, finishedAt time.Time, filesize int64) error {
	if _, err := db.Exec(MarkJobCompleteSQL, finishedAt, filesize, id); err != nil {
		return fmt.Errorf("mark job complete: %w", err)
	}
	return nil
}

// MarkJobError updates a trim_jobs row to error status with the given error time and log message.
func MarkJobError(db *sql.DB, id int64, errorAt time.Time, logMsg string) error {
	if _, err := db.Exec(MarkJobErrorSQL, errorAt, logMsg, id); err != nil {
		return fmt.Errorf("mark job error: %w", err)
	}
	return nil
}

// RequeueJob resets a finished (complete or error) job to pending.
func RequeueJob(db *sql.DB, id int64) error {
	result, err := db.Exec(RequeueJobSQL, id)
	if err != nil {
		return fmt.Errorf("requeue job: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("requeue job: %w", err)
	}
	if n == 0 {
		if _, err := SelectJobByID(db, id); err != nil {
			return err
		}
		return fmt.Errorf("job %d is not finished", id)
	}
	return nil
}

// ReleaseJob returns a processing job to pending, e.g. when its worker was interrupted.
func ReleaseJob(db *sql.DB, id int64) error {
	if _, err := db.Exec(ReleaseJobSQL, id); err != nil {
		return fmt.Errorf("release job: %w", err)
	}
	return nil
}

// ResetStaleProcessing puts processing jobs whose heartbeat is older than
// cutoff back to pending. Those were left by a process that died; live
// trims keep their heartbeat fresh. It returns how many rows were reset.
func ResetStaleProcessing(db *sql.DB, cutoff time.Time) (int64, error) {
	result, err := db.Exec(ResetStaleProcessingSQL, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("reset stale jobs: %w", err)
	}
	return result.RowsAffected()
}

// DeleteFinishedJobs removes complete and errored jobs and returns how many were removed.
func DeleteFinishedJobs(db *sql.DB) (int64, error) {
	result, err := db.Exec(DeleteFinishedJobsSQL)
	if err != nil {
		return 0, fmt.Errorf("delete finished jobs: %w", err)
	}
	return result.RowsAffected()
}

// CountJobsByStatus returns the number of jobs per status.
func CountJobsByStatus(db *sql.DB) (map[string]int, error) {
	rows, err := db.Query(CountJobsByStatusSQL)
	if err != nil {
		return nil, fmt.Errorf("count jobs: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan job count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
