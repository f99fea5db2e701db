package db

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "nested", "data.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func sampleJob(output string) NewJob {
	return NewJob{
		Source:         "/videos/match.mp4",
		Output:         output,
		Start:          90,
		End:            120,
		Mode:           "copy",
		SourceDuration: 5400,
	}
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")

	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	var versions int
	require.NoError(t, second.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&versions))
	assert.Equal(t, 3, versions)
}

func TestInsertAndSelectJob(t *testing.T) {
	database := openTestDB(t)

	id, err := InsertJob(database, sampleJob("/videos/trimmed_match.mp4"))
	require.NoError(t, err)

	job, err := SelectJobByID(database, id)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, job.Status)
	assert.Equal(t, "/videos/trimmed_match.mp4", job.Output)
	assert.Equal(t, 90.0, job.Start)
	assert.Equal(t, 120.0, job.End)
	assert.Equal(t, 5400.0, job.SourceDuration)
	assert.Nil(t, job.StartedAt)
	assert.False(t, job.CreatedAt.IsZero())

	_, err = SelectJobByID(database, id+100)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobLifecycle(t *testing.T) {
	database := openTestDB(t)
	now := time.Now()

	id, err := InsertJob(database, sampleJob("/out/a.mp4"))
	require.NoError(t, err)

	next, err := SelectNextPendingJob(database)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, id, next.ID)

	claimed, err := ClaimJob(database, id, "worker-a", now)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = ClaimJob(database, id, "worker-b", now)
	require.NoError(t, err)
	assert.False(t, claimed, "a job can only be claimed once")

	next, err = SelectNextPendingJob(database)
	require.NoError(t, err)
	assert.Nil(t, next)

	require.NoError(t, MarkJobComplete(database, id, now.Add(time.Second), 4096))
	job, err := SelectJobByID(database, id)
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, job.Status)
	assert.Equal(t, int64(4096), job.Filesize)
	require.NotNil(t, job.StartedAt)
	require.NotNil(t, job.FinishedAt)

	require.NoError(t, RequeueJob(database, id))
	job, err = SelectJobByID(database, id)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, job.Status)
	assert.Equal(t, int64(0), job.Filesize)
	assert.Nil(t, job.FinishedAt)
}

func TestMarkJobError(t *testing.T) {
	database := openTestDB(t)

	id, err := InsertProcessingJob(database, sampleJob("/out/b.mp4"), "ui", time.Now())
	require.NoError(t, err)

	require.NoError(t, MarkJobError(database, id, time.Now(), "Invalid data found when processing input"))

	job, err := SelectJobByID(database, id)
	require.NoError(t, err)
	assert.Equal(t, StatusError, job.Status)
	assert.Contains(t, job.Log, "Invalid data")
	assert.NotNil(t, job.ErrorAt)
}

func TestRequeueJob_Errors(t *testing.T) {
	database := openTestDB(t)

	assert.ErrorIs(t, RequeueJob(database, 42), ErrJobNotFound)

	id, err := InsertJob(database, sampleJob("/out/c.mp4"))
	require.NoError(t, err)
	assert.ErrorContains(t, RequeueJob(database, id), "not finished")
}

func TestSelectJobs_FilterAndLimit(t *testing.T) {
	database := openTestDB(t)

	var ids []int64
	for _, out := range []string{"/o/1.mp4", "/o/2.mp4", "/o/3.mp4"} {
		id, err := InsertJob(database, sampleJob(out))
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.NoError(t, MarkJobError(database, ids[0], time.Now(), "boom"))

	all, err := SelectJobs(database, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID, "newest first")

	pending, err := SelectJobs(database, StatusPending, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	limited, err := SelectJobs(database, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	counts, err := CountJobsByStatus(database)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{StatusPending: 2, StatusError: 1}, counts)

	n, err := DeleteFinishedJobs(database)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestResetStaleProcessing_OnlyOldHeartbeats(t *testing.T) {
	database := openTestDB(t)
	now := time.Now()

	live, err := InsertProcessingJob(database, sampleJob("/o/live.mp4"), "ui", now)
	require.NoError(t, err)
	dead, err := InsertProcessingJob(database, sampleJob("/o/dead.mp4"), "crashed", now.Add(-time.Hour))
	require.NoError(t, err)

	n, err := ResetStaleProcessing(database, now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	job, err := SelectJobByID(database, live)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, job.Status, "a trim with a fresh heartbeat is left alone")

	job, err = SelectJobByID(database, dead)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, job.Status)
	assert.Nil(t, job.StartedAt)
}

func TestTouchJob(t *testing.T) {
	database := openTestDB(t)
	start := time.Now().Add(-time.Hour)

	id, err := InsertProcessingJob(database, sampleJob("/o/x.mp4"), "worker-a", start)
	require.NoError(t, err)

	ok, err := TouchJob(database, id, "worker-b", time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "only the owner refreshes the heartbeat")

	ok, err = TouchJob(database, id, "worker-a", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := ResetStaleProcessing(database, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, ReleaseJob(database, id))
	ok, err = TouchJob(database, id, "worker-a", time.Now())
	require.NoError(t, err)
	assert.False(t, ok, "a released job has no owner")
}
