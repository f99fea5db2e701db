package jobs

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/user/vidtrim/db"
	"github.com/user/vidtrim/trim"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type MockTrimmer struct {
	mock.Mock
}

func (m *MockTrimmer) Trim(ctx context.Context, req *trim.Request, onProgress func(trim.Progress)) (*trim.Result, error) {
	args := m.Called(ctx, req, onProgress)
	res, _ := args.Get(0).(*trim.Result)
	return res, args.Error(1)
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func writeSource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "match.mp4")
	require.NoError(t, os.WriteFile(path, []byte("fake video"), 0o644))
	return path
}

func queue(t *testing.T, database *sql.DB, source string, output string) int64 {
	t.Helper()
	id, err := db.InsertJob(database, db.NewJob{
		Source: source,
		Output: output,
		Start:  10,
		End:    25,
		Mode:   "copy",
	})
	require.NoError(t, err)
	return id
}

func newProcessor(database *sql.DB, trimmer Trimmer) *Processor {
	return &Processor{
		DB:           database,
		Trimmer:      trimmer,
		Logger:       zap.NewNop(),
		PollInterval: 10 * time.Millisecond,
		CheckFfmpeg:  func() error { return nil },
	}
}

func TestDrain_CompletesPendingJobs(t *testing.T) {
	database := openTestDB(t)
	source := writeSource(t)
	first := queue(t, database, source, "/out/a.mp4")
	second := queue(t, database, source, "/out/b.mp4")

	trimmer := new(MockTrimmer)
	trimmer.On("Trim", mock.Anything, mock.MatchedBy(func(r *trim.Request) bool {
		return r.Source == source && r.Start == 10 && r.End == 25 && r.Mode == trim.ModeCopy
	}), mock.Anything).
		Run(func(args mock.Arguments) {
			onProgress := args.Get(2).(func(trim.Progress))
			onProgress(trim.Progress{Fraction: 1, Done: true})
		}).
		Return(&trim.Result{Output: "/out/x.mp4", Size: 2048}, nil)

	var mu sync.Mutex
	var completed []int64
	p := newProcessor(database, trimmer)
	p.OnEvent = func(e Event) {
		if e.Status == db.StatusComplete {
			mu.Lock()
			completed = append(completed, e.JobID)
			mu.Unlock()
		}
	}

	require.NoError(t, p.Drain(context.Background()))

	assert.ElementsMatch(t, []int64{first, second}, completed)
	trimmer.AssertNumberOfCalls(t, "Trim", 2)

	for _, id := range []int64{first, second} {
		job, err := db.SelectJobByID(database, id)
		require.NoError(t, err)
		assert.Equal(t, db.StatusComplete, job.Status)
		assert.Equal(t, int64(2048), job.Filesize)
	}
}

func TestDrain_RecordsFfmpegLog(t *testing.T) {
	database := openTestDB(t)
	id := queue(t, database, writeSource(t), "/out/a.mp4")

	trimmer := new(MockTrimmer)
	trimmer.On("Trim", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &trim.FFmpegError{Err: errors.New("exit status 1"), Log: "moov atom not found"})

	require.NoError(t, newProcessor(database, trimmer).Drain(context.Background()))

	job, err := db.SelectJobByID(database, id)
	require.NoError(t, err)
	assert.Equal(t, db.StatusError, job.Status)
	assert.Equal(t, "moov atom not found", job.Log)
}

func TestDrain_MissingFfmpeg(t *testing.T) {
	database := openTestDB(t)
	id := queue(t, database, writeSource(t), "/out/a.mp4")

	trimmer := new(MockTrimmer)
	p := newProcessor(database, trimmer)
	p.CheckFfmpeg = func() error { return errors.New("ffmpeg not found") }

	require.NoError(t, p.Drain(context.Background()))

	trimmer.AssertNotCalled(t, "Trim", mock.Anything, mock.Anything, mock.Anything)
	job, err := db.SelectJobByID(database, id)
	require.NoError(t, err)
	assert.Equal(t, db.StatusError, job.Status)
	assert.Contains(t, job.Log, "ffmpeg not found")
}

func TestDrain_MissingSource(t *testing.T) {
	database := openTestDB(t)
	id := queue(t, database, filepath.Join(t.TempDir(), "gone.mp4"), "/out/a.mp4")

	trimmer := new(MockTrimmer)
	require.NoError(t, newProcessor(database, trimmer).Drain(context.Background()))

	trimmer.AssertNotCalled(t, "Trim", mock.Anything, mock.Anything, mock.Anything)
	job, err := db.SelectJobByID(database, id)
	require.NoError(t, err)
	assert.Equal(t, db.StatusError, job.Status)
	assert.Contains(t, job.Log, "source")
}

func TestDrain_Concurrent(t *testing.T) {
	database := openTestDB(t)
	source := writeSource(t)
	for i := 0; i < 6; i++ {
		queue(t, database, source, filepath.Join("/out", string(rune('a'+i))+".mp4"))
	}

	trimmer := new(MockTrimmer)
	trimmer.On("Trim", mock.Anything, mock.Anything, mock.Anything).
		Return(&trim.Result{Size: 1}, nil)

	p := newProcessor(database, trimmer)
	p.Concurrency = 3
	require.NoError(t, p.Drain(context.Background()))

	trimmer.AssertNumberOfCalls(t, "Trim", 6)
	counts, err := db.CountJobsByStatus(database)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{db.StatusComplete: 6}, counts)
}

func TestRun_StopsOnCancel(t *testing.T) {
	database := openTestDB(t)
	trimmer := new(MockTrimmer)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newProcessor(database, trimmer).Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("processor did not stop after cancel")
	}
	trimmer.AssertNotCalled(t, "Trim", mock.Anything, mock.Anything, mock.Anything)
}

func TestDrain_LeavesRunningForegroundTrimAlone(t *testing.T) {
	database := openTestDB(t)
	source := writeSource(t)

	tracked, err := Track(database, db.NewJob{Source: source, Output: "/out/a.mp4", Start: 1, End: 2, Mode: "copy"}, zap.NewNop())
	require.NoError(t, err)

	trimmer := new(MockTrimmer)
	require.NoError(t, newProcessor(database, trimmer).Drain(context.Background()))

	trimmer.AssertNotCalled(t, "Trim", mock.Anything, mock.Anything, mock.Anything)
	job, err := db.SelectJobByID(database, tracked.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusProcessing, job.Status)

	require.NoError(t, tracked.Finish(&trim.Result{Output: "/out/a.mp4", Size: 10}, nil))
	job, err = db.SelectJobByID(database, tracked.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusComplete, job.Status)
	assert.Equal(t, int64(10), job.Filesize)
}

func TestDrain_RerunsJobOfDeadOwner(t *testing.T) {
	database := openTestDB(t)
	id, err := db.InsertProcessingJob(database, db.NewJob{
		Source: writeSource(t),
		Output: "/out/a.mp4",
		Start:  1,
		End:    2,
		Mode:   "copy",
	}, "crashed-worker", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	trimmer := new(MockTrimmer)
	trimmer.On("Trim", mock.Anything, mock.Anything, mock.Anything).
		Return(&trim.Result{Size: 1}, nil)

	require.NoError(t, newProcessor(database, trimmer).Drain(context.Background()))

	trimmer.AssertNumberOfCalls(t, "Trim", 1)
	job, err := db.SelectJobByID(database, id)
	require.NoError(t, err)
	assert.Equal(t, db.StatusComplete, job.Status)
}

func TestDrain_HeartbeatKeepsLongTrimOwned(t *testing.T) {
	database := openTestDB(t)
	id := queue(t, database, writeSource(t), "/out/a.mp4")

	var rival *Processor
	trimmer := new(MockTrimmer)
	trimmer.On("Trim", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			// Outlast the stale cutoff, then start a second worker.
			time.Sleep(staleHeartbeats * 3 * 10 * time.Millisecond)
			rival = newProcessor(database, trimmer)
			rival.HeartbeatInterval = 10 * time.Millisecond
			assert.NoError(t, rival.Drain(context.Background()))
		}).
		Return(&trim.Result{Size: 1}, nil).Once()

	p := newProcessor(database, trimmer)
	p.HeartbeatInterval = 10 * time.Millisecond
	require.NoError(t, p.Drain(context.Background()))

	trimmer.AssertNumberOfCalls(t, "Trim", 1)
	job, err := db.SelectJobByID(database, id)
	require.NoError(t, err)
	assert.Equal(t, db.StatusComplete, job.Status)
}

func TestRun_ReleasesInterruptedJob(t *testing.T) {
	database := openTestDB(t)
	id := queue(t, database, writeSource(t), "/out/a.mp4")

	ctx, cancel := context.WithCancel(context.Background())
	trimmer := new(MockTrimmer)
	trimmer.On("Trim", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			cancel()
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.Canceled)

	require.NoError(t, newProcessor(database, trimmer).Run(ctx))

	job, err := db.SelectJobByID(database, id)
	require.NoError(t, err)
	assert.Equal(t, db.StatusPending, job.Status)
}

func TestRun_RequiresDependencies(t *testing.T) {
	err := (&Processor{}).Run(context.Background())
	assert.Error(t, err)
}
