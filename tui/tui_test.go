package tui

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/user/vidtrim/config"
	"github.com/user/vidtrim/db"
	"github.com/user/vidtrim/trim"
	"github.com/user/vidtrim/tui/styles"
)

type MockTrimmer struct {
	mock.Mock
}

func (m *MockTrimmer) Trim(ctx context.Context, req *trim.Request, onProgress func(trim.Progress)) (*trim.Result, error) {
	args := m.Called(ctx, req, onProgress)
	res, _ := args.Get(0).(*trim.Result)
	return res, args.Error(1)
}

type fakeProber struct {
	duration float64
	err      error
}

func (p fakeProber) Duration(ctx context.Context, path string) (float64, error) {
	return p.duration, p.err
}

type fakePlayer struct {
	pos          float64
	seeks        []float64
	loops        [][2]float64
	cleared      int
	disconnected bool
	closed       bool
}

func (p *fakePlayer) GetTimePos() (float64, error) {
	if p.disconnected {
		return 0, errors.New("mpv: not connected")
	}
	return p.pos, nil
}

func (p *fakePlayer) IsConnected() bool { return !p.disconnected }

func (p *fakePlayer) ClearABLoop() error {
	p.cleared++
	return nil
}

func (p *fakePlayer) Seek(seconds float64) error {
	p.seeks = append(p.seeks, seconds)
	p.pos = seconds
	return nil
}

func (p *fakePlayer) SetABLoop(a, b float64) error {
	p.loops = append(p.loops, [2]float64{a, b})
	return nil
}

func (p *fakePlayer) Close() error {
	p.closed = true
	return nil
}

func writeVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "match.mp4")
	require.NoError(t, os.WriteFile(path, []byte("fake video"), 0o644))
	return path
}

func newTestModel(t *testing.T, input string, trimmer *MockTrimmer, database *sql.DB) *Model {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	t.Cleanup(func() { styles.SetTheme(config.ThemeDark) })

	m := NewModel(Options{
		Config:  cfg,
		DB:      database,
		Input:   input,
		Prober:  fakeProber{duration: 120},
		Trimmer: trimmer,
	})
	m.checkFfmpeg = func() error { return nil }
	return m
}

// loaded returns a model with input already probed.
func loaded(t *testing.T, trimmer *MockTrimmer, database *sql.DB) *Model {
	t.Helper()
	m := newTestModel(t, writeVideo(t), trimmer, database)
	cmd := m.Init()
	require.NotNil(t, cmd)
	m.Update(cmd())
	require.Equal(t, 120.0, m.duration)
	return m
}

func press(m *Model, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

// drainTrim feeds every message of the running trim back into the model.
func drainTrim(m *Model) {
	for msg := range m.trimCh {
		m.Update(msg)
	}
}

func TestInit_ProbesInput(t *testing.T) {
	m := loaded(t, nil, nil)

	assert.False(t, m.probing)
	assert.Equal(t, 0.0, m.start)
	assert.Equal(t, 120.0, m.end)
	assert.Equal(t, 0.0, m.cursor)
	assert.False(t, m.statusIsError)
}

func TestInit_NoInput(t *testing.T) {
	m := newTestModel(t, "", nil, nil)
	assert.Nil(t, m.Init())
}

func TestDuration_IgnoresStaleProbe(t *testing.T) {
	m := loaded(t, nil, nil)
	m.Update(durationMsg{path: "/other.mp4", duration: 5})
	assert.Equal(t, 120.0, m.duration)
}

func TestDuration_ProbeError(t *testing.T) {
	m := newTestModel(t, writeVideo(t), nil, nil)
	m.Update(durationMsg{path: m.input, err: errors.New("invalid data")})

	assert.False(t, m.probing)
	assert.True(t, m.statusIsError)
	assert.Contains(t, m.status, "invalid data")
	assert.Equal(t, 0.0, m.duration)
}

func TestCursorAndStepSize(t *testing.T) {
	m := loaded(t, nil, nil)
	require.Equal(t, 1.0, m.stepSizes[m.stepIndex])

	press(m, "l")
	press(m, "l")
	press(m, "l")
	assert.Equal(t, 3.0, m.cursor)

	press(m, ">")
	assert.Equal(t, 5.0, m.stepSizes[m.stepIndex])
	press(m, "l")
	assert.Equal(t, 8.0, m.cursor)

	for i := 0; i < 5; i++ {
		press(m, "h")
	}
	assert.Equal(t, 0.0, m.cursor, "cursor stops at the beginning")

	press(m, "G")
	assert.Equal(t, 120.0, m.cursor)
	press(m, "l")
	assert.Equal(t, 120.0, m.cursor, "cursor stops at the end")

	for i := 0; i < 20; i++ {
		press(m, "<")
	}
	assert.Equal(t, 0, m.stepIndex)
	for i := 0; i < 20; i++ {
		press(m, ">")
	}
	assert.Equal(t, len(m.stepSizes)-1, m.stepIndex)
}

func TestMarkers_StartNeverPassesEnd(t *testing.T) {
	m := loaded(t, nil, nil)

	m.cursor = 30
	press(m, "[")
	assert.Equal(t, 30.0, m.start)

	press(m, "g")
	press(m, "]")
	assert.Equal(t, 30.0, m.end, "end is clamped to start")

	press(m, "G")
	press(m, "]")
	assert.Equal(t, 120.0, m.end)

	m.cursor = 100
	press(m, "[")
	assert.Equal(t, 100.0, m.start)
	assert.LessOrEqual(t, m.start, m.end)

	press(m, "g")
	press(m, "{")
	assert.Equal(t, 100.0, m.cursor)
	press(m, "}")
	assert.Equal(t, 120.0, m.cursor)
}

func TestMarkers_FollowPlayer(t *testing.T) {
	m := loaded(t, nil, nil)
	player := &fakePlayer{pos: 42}
	m.player = player

	press(m, "[")
	assert.Equal(t, 42.0, m.start)
	assert.Equal(t, 42.0, m.cursor)
	assert.Equal(t, [][2]float64{{42, 120}}, player.loops)

	player.pos = 50
	_, cmd := m.Update(tickMsg{})
	assert.NotNil(t, cmd, "polling continues while the player is open")
	assert.Equal(t, 50.0, m.cursor)

	press(m, "l")
	assert.Equal(t, []float64{51}, player.seeks)
}

func TestMarkers_EmptyRangeClearsLoop(t *testing.T) {
	m := loaded(t, nil, nil)
	player := &fakePlayer{pos: 30}
	m.player = player

	press(m, "[")
	require.Equal(t, [][2]float64{{30, 120}}, player.loops)
	assert.Zero(t, player.cleared)

	player.pos = 0
	press(m, "]")
	assert.Equal(t, 30.0, m.end)
	assert.Equal(t, 1, player.cleared, "start == end turns the loop off")
	assert.Len(t, player.loops, 1)
}

func TestTick_StopsWhenPlayerDisconnects(t *testing.T) {
	m := loaded(t, nil, nil)
	player := &fakePlayer{pos: 12}
	m.player = player

	_, cmd := m.Update(tickMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, 12.0, m.cursor)

	player.disconnected = true
	_, cmd = m.Update(tickMsg{})
	assert.Nil(t, cmd)
	assert.Equal(t, 12.0, m.cursor)
}

func TestPreview_Exited(t *testing.T) {
	m := loaded(t, nil, nil)
	player := &fakePlayer{}
	m.Update(previewStartedMsg{player: player})
	assert.NotNil(t, m.player)

	m.Update(previewExitedMsg{})
	assert.Nil(t, m.player)
	assert.True(t, player.closed)

	_, cmd := m.Update(tickMsg{})
	assert.Nil(t, cmd)
}

func TestPreview_RequiresInput(t *testing.T) {
	m := newTestModel(t, "", nil, nil)
	cmd := press(m, "p")
	assert.Nil(t, cmd)
	assert.True(t, m.statusIsError)
}

func TestTrim_WithoutInputShowsError(t *testing.T) {
	trimmer := &MockTrimmer{}
	m := newTestModel(t, "", trimmer, nil)

	press(m, "t")
	require.NotNil(t, m.dialog)
	assert.True(t, m.dialog.IsError)
	assert.False(t, m.trimming)

	press(m, "x")
	assert.Nil(t, m.dialog, "any key dismisses the dialog")
	trimmer.AssertNotCalled(t, "Trim", mock.Anything, mock.Anything, mock.Anything)
}

func TestTrim_MissingFfmpeg(t *testing.T) {
	m := loaded(t, &MockTrimmer{}, nil)
	m.checkFfmpeg = func() error { return errors.New("ffmpeg not found in PATH") }

	press(m, "t")
	require.NotNil(t, m.dialog)
	assert.Equal(t, []string{"ffmpeg not found in PATH"}, m.dialog.Lines)
	assert.False(t, m.trimming)
}

func TestTrim_CompletesAndRecordsHistory(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	defer database.Close()

	trimmer := &MockTrimmer{}
	m := loaded(t, trimmer, database)
	m.setStart(10)
	m.setEnd(40)
	output := m.defaultOutput()

	trimmer.On("Trim", mock.Anything, mock.MatchedBy(func(r *trim.Request) bool {
		return r.Start == 10 && r.End == 40 && r.Output == output && r.Mode == trim.ModeCopy
	}), mock.Anything).
		Run(func(args mock.Arguments) {
			onProgress := args.Get(2).(func(trim.Progress))
			onProgress(trim.Progress{OutTime: 15, Fraction: 0.5})
		}).
		Return(&trim.Result{Output: output, Size: 4096}, nil)

	cmd := press(m, "t")
	assert.NotNil(t, cmd)
	assert.True(t, m.trimming)

	press(m, "l")
	assert.Equal(t, 0.0, m.cursor, "slider is locked while trimming")

	drainTrim(m)
	trimmer.AssertExpectations(t)

	assert.False(t, m.trimming)
	assert.Equal(t, "Trim Complete", m.status)
	require.NotNil(t, m.dialog)
	assert.False(t, m.dialog.IsError)
	assert.Contains(t, m.dialog.Lines, "Saved to "+output)
	assert.Contains(t, m.dialog.Lines, "Size: 4.1 kB")

	jobs, err := db.SelectJobs(database, "", 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, db.StatusComplete, jobs[0].Status)
	assert.Equal(t, int64(4096), jobs[0].Filesize)
}

func TestTrim_FailureShowsFfmpegLog(t *testing.T) {
	trimmer := &MockTrimmer{}
	m := loaded(t, trimmer, nil)
	trimmer.On("Trim", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &trim.FFmpegError{Err: errors.New("exit status 1"), Log: "moov atom not found"})

	press(m, "t")
	drainTrim(m)

	require.NotNil(t, m.dialog)
	assert.True(t, m.dialog.IsError)
	assert.Contains(t, m.dialog.Lines[0], "moov atom not found")
	assert.True(t, m.statusIsError)
}

func TestTrim_EscCancels(t *testing.T) {
	trimmer := &MockTrimmer{}
	m := loaded(t, trimmer, nil)
	trimmer.On("Trim", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.Canceled)

	press(m, "t")
	require.True(t, m.trimming)
	press(m, "esc")
	drainTrim(m)

	assert.False(t, m.trimming)
	assert.Equal(t, "Trim cancelled", m.status)
	assert.Nil(t, m.dialog)
}

func TestTrim_ExistingOutputAsksFirst(t *testing.T) {
	trimmer := &MockTrimmer{}
	m := loaded(t, trimmer, nil)
	require.NoError(t, os.WriteFile(m.defaultOutput(), []byte("old"), 0o644))

	press(m, "t")
	assert.Equal(t, formOverwrite, m.formKind)
	require.NotNil(t, m.form)
	require.NotNil(t, m.pendingTrim)

	press(m, "esc")
	assert.Nil(t, m.form)
	assert.False(t, m.trimming)
	trimmer.AssertNotCalled(t, "Trim", mock.Anything, mock.Anything, mock.Anything)
}

func TestTrim_OverwriteConfirmed(t *testing.T) {
	trimmer := &MockTrimmer{}
	m := loaded(t, trimmer, nil)
	require.NoError(t, os.WriteFile(m.defaultOutput(), []byte("old"), 0o644))
	trimmer.On("Trim", mock.Anything, mock.Anything, mock.Anything).
		Return(&trim.Result{Output: m.defaultOutput(), Size: 10}, nil)

	press(m, "t")
	m.confirmResult = true
	m.closeForm()
	m.formCompleted(formOverwrite)
	assert.True(t, m.trimming)

	drainTrim(m)
	trimmer.AssertExpectations(t)
	assert.Equal(t, "Trim Complete", m.status)
}

func TestQuit(t *testing.T) {
	m := loaded(t, nil, nil)
	player := &fakePlayer{}
	m.player = player

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
	assert.True(t, player.closed)
	assert.Equal(t, "Goodbye!\n", m.View())
}

func TestQuit_AsksWhileTrimming(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	defer database.Close()

	trimmer := &MockTrimmer{}
	m := loaded(t, trimmer, database)
	trimmer.On("Trim", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.Canceled)

	press(m, "t")
	press(m, "q")
	assert.Equal(t, formQuit, m.formKind)
	assert.False(t, m.quitting)

	m.confirmResult = true
	m.closeForm()
	_, cmd := m.formCompleted(formQuit)
	assert.Nil(t, cmd, "quit waits for the trim to stop")
	assert.False(t, m.quitting)
	assert.True(t, m.trimming)

	var last tea.Cmd
	for msg := range m.trimCh {
		_, last = m.Update(msg)
	}
	require.NotNil(t, last)
	assert.IsType(t, tea.QuitMsg{}, last())
	assert.True(t, m.quitting)
	assert.False(t, m.trimming)

	jobs, err := db.SelectJobs(database, "", 10)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, db.StatusError, jobs[0].Status, "history is final before quitting")
}

func TestThemeToggle_IsSaved(t *testing.T) {
	m := loaded(t, nil, nil)

	press(m, "T")
	assert.Equal(t, config.ThemeLight, m.cfg.Theme)
	assert.Equal(t, styles.Light, styles.Current)

	reloaded, err := config.Load(m.cfg.Path())
	require.NoError(t, err)
	assert.Equal(t, config.ThemeLight, reloaded.Theme)

	press(m, "T")
	assert.Equal(t, styles.Dark, styles.Current)
}

func TestModeToggle(t *testing.T) {
	m := loaded(t, nil, nil)
	require.Equal(t, trim.ModeCopy, m.mode)

	press(m, "m")
	assert.Equal(t, trim.ModeReencode, m.mode)
	assert.Equal(t, "reencode", m.cfg.Mode)

	press(m, "m")
	assert.Equal(t, trim.ModeCopy, m.mode)
}

func TestEditTimes(t *testing.T) {
	m := loaded(t, nil, nil)

	press(m, "e")
	require.Equal(t, formTimes, m.formKind)
	assert.Equal(t, "00:00:00", m.timesResult.Start)
	assert.Equal(t, "00:02:00", m.timesResult.End)

	press(m, "esc")
	assert.Nil(t, m.form)

	m.timesResult.Start = "00:00:10"
	m.timesResult.End = "00:00:20"
	m.formCompleted(formTimes)
	assert.Equal(t, 10.0, m.start)
	assert.Equal(t, 20.0, m.end)

	m.timesResult.Start = "00:00:30"
	m.timesResult.End = "00:00:20"
	m.formCompleted(formTimes)
	assert.True(t, m.statusIsError)
	assert.Equal(t, 10.0, m.start, "invalid range is not applied")
}

func TestSaveAs(t *testing.T) {
	m := loaded(t, nil, nil)

	press(m, "s")
	require.Equal(t, formSaveAs, m.formKind)
	m.closeForm()

	m.saveResult = "clip"
	m.formCompleted(formSaveAs)
	assert.Equal(t, filepath.Join(filepath.Dir(m.input), "clip.mp4"), m.output)
	assert.Equal(t, m.output, m.outputPath())

	m.saveResult = ""
	m.formCompleted(formSaveAs)
	assert.Equal(t, m.defaultOutput(), m.outputPath())
}

func TestOpen_SetsInputAndLastDir(t *testing.T) {
	m := loaded(t, nil, nil)
	other := writeVideo(t)

	press(m, "o")
	require.Equal(t, formOpen, m.formKind)
	m.closeForm()

	m.openResult = other
	_, cmd := m.formCompleted(formOpen)
	require.NotNil(t, cmd)
	assert.Equal(t, other, m.input)
	assert.True(t, m.probing)
	assert.Equal(t, 0.0, m.duration)
	assert.Equal(t, filepath.Dir(other), m.cfg.LastDir)

	m.Update(cmd())
	assert.Equal(t, 120.0, m.end)
}

func TestView(t *testing.T) {
	m := loaded(t, nil, nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, "Video Trimmer")
	assert.Contains(t, view, "match.mp4")
	assert.Contains(t, view, "vidtrim")

	lines := strings.Split(ansi.Strip(view), "\n")
	status := -1
	for i, line := range lines {
		if strings.Contains(line, "Status") {
			status = i
		}
	}
	require.GreaterOrEqual(t, status, 0)
	require.Less(t, status+2, len(lines))
	assert.Empty(t, strings.TrimSpace(lines[status+1]), "a blank line separates status and help")
	assert.NotEmpty(t, strings.TrimSpace(lines[status+2]))

	press(m, "?")
	assert.Contains(t, m.View(), "Keybindings")
	press(m, "x")
	assert.False(t, m.showHelp)
}
