// Package tui is the interactive trimmer: pick a video, choose a range on a
// slider or by typing times, preview it in mpv and trim it with ffmpeg.
package tui

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/user/vidtrim/config"
	"github.com/user/vidtrim/deps"
	"github.com/user/vidtrim/jobs"
	"github.com/user/vidtrim/logging"
	"github.com/user/vidtrim/media"
	"github.com/user/vidtrim/pkg/timeutil"
	"github.com/user/vidtrim/trim"
	"github.com/user/vidtrim/tui/components"
	"github.com/user/vidtrim/tui/forms"
	"github.com/user/vidtrim/tui/layout"
	"github.com/user/vidtrim/tui/styles"
	"go.uber.org/zap"
)

const (
	// tickInterval is how often mpv is polled while a preview is open.
	tickInterval = 250 * time.Millisecond
	// defaultStepSize is the slider step selected at start.
	defaultStepSize = 1.0
	// probeTimeout bounds the ffprobe call made when a file is opened.
	probeTimeout = 15 * time.Second
	// maxFormWidth keeps forms from stretching across wide terminals.
	maxFormWidth = 80
)

// Prober reads the duration of a video.
type Prober interface {
	Duration(ctx context.Context, path string) (float64, error)
}

// Player is the part of the mpv client the UI drives.
type Player interface {
	GetTimePos() (float64, error)
	Seek(seconds float64) error
	SetABLoop(a, b float64) error
	ClearABLoop() error
	IsConnected() bool
	Close() error
}

// Options configures the UI. Only Config is required.
type Options struct {
	Config *config.Config
	// DB, when set, receives a history row for every trim.
	DB     *sql.DB
	Logger *zap.Logger
	// Input is opened on start when set.
	Input   string
	Prober  Prober
	Trimmer jobs.Trimmer
}

type formKind int

const (
	formNone formKind = iota
	formOpen
	formSaveAs
	formTimes
	formOverwrite
	formQuit
)

// tickMsg is sent every tickInterval while a preview is open.
type tickMsg time.Time

// durationMsg carries the result of probing path.
type durationMsg struct {
	path     string
	duration float64
	err      error
}

// previewStartedMsg is sent once mpv is running. player is nil when the IPC
// socket could not be reached.
type previewStartedMsg struct {
	cmd    *exec.Cmd
	player Player
}

type previewExitedMsg struct{ err error }

type previewErrorMsg struct{ err error }

// Model is the Bubbletea model for the trimmer.
type Model struct {
	cfg         *config.Config
	db          *sql.DB
	logger      *zap.Logger
	prober      Prober
	trimmer     jobs.Trimmer
	checkFfmpeg func() error

	// input is the selected video; output is the chosen output path, empty
	// for the default.
	input    string
	output   string
	start    float64
	end      float64
	duration float64
	probing  bool

	// cursor is the slider position in seconds.
	cursor    float64
	stepSizes []float64
	stepIndex int
	mode      trim.Mode

	status        string
	statusIsError bool

	form          *huh.Form
	formKind      formKind
	openResult    string
	saveResult    string
	timesResult   forms.TimesFormResult
	confirmResult bool
	pendingTrim   *trim.Request

	trimming bool
	// quitAfterTrim is set when quit was confirmed during a trim; the
	// program exits once the trim goroutine has recorded its result.
	quitAfterTrim bool
	cancelTrim    context.CancelFunc
	trimCh        <-chan tea.Msg
	trimReq       *trim.Request
	progress      trim.Progress
	spinner       spinner.Model
	bar           progress.Model
	help          help.Model

	dialog   *components.DialogState
	showHelp bool

	preview *exec.Cmd
	player  Player

	width    int
	height   int
	quitting bool
}

// NewModel creates the model. When opts.Input is set, Init starts probing it.
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	prober := opts.Prober
	if prober == nil {
		prober = media.NewProber()
	}
	trimmer := opts.Trimmer
	if trimmer == nil {
		trimmer = trim.NewTrimmer(trim.WithLogger(logger))
	}

	styles.SetTheme(cfg.Theme)

	m := &Model{
		cfg:         cfg,
		db:          opts.DB,
		logger:      logger,
		prober:      prober,
		trimmer:     trimmer,
		checkFfmpeg: deps.CheckFfmpeg,
		stepSizes:   cfg.StepSizes,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:         progress.New(progress.WithDefaultGradient()),
		help:        help.New(),
		status:      "Press o to open a video, ? for help",
	}
	if len(m.stepSizes) == 0 {
		m.stepSizes = config.DefaultConfig().StepSizes
	}
	m.stepIndex = closestStep(m.stepSizes, defaultStepSize)

	if mode, err := trim.ParseMode(cfg.Mode); err == nil {
		m.mode = mode
	} else {
		m.mode = trim.ModeCopy
	}

	if opts.Input != "" {
		path, err := filepath.Abs(opts.Input)
		if err != nil {
			path = opts.Input
		}
		m.setInput(path)
	}
	return m
}

// Init probes the initial input, if any.
func (m *Model) Init() tea.Cmd {
	if m.input != "" {
		return probeCmd(m.prober, m.input)
	}
	return nil
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func probeCmd(prober Prober, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		d, err := prober.Duration(ctx, path)
		return durationMsg{path: path, duration: d, err: err}
	}
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.form != nil {
			m.form = m.form.WithWidth(formWidth(m.width))
		}
		return m, nil

	case durationMsg:
		return m.handleDuration(msg), nil

	case trimProgressMsg:
		m.progress = trim.Progress(msg)
		return m, waitForTrimMsg(m.trimCh)

	case trimDoneMsg:
		return m.finishTrim(msg)

	case spinner.TickMsg:
		if !m.trimming {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		if m.player == nil {
			return m, nil
		}
		if pos, err := m.player.GetTimePos(); err == nil {
			m.cursor = m.clampToVideo(pos)
		} else if !m.player.IsConnected() {
			// The socket dropped; mpv may still be open but cannot be followed.
			m.logger.Debug("mpv disconnected", zap.Error(err))
			return m, nil
		}
		return m, tickCmd()

	case previewStartedMsg:
		m.preview = msg.cmd
		m.player = msg.player
		m.setStatus("Previewing in mpv, [ and ] mark the player position", false)
		cmds := []tea.Cmd{waitForPreview(msg.cmd)}
		if m.player != nil {
			cmds = append(cmds, tickCmd())
		}
		return m, tea.Batch(cmds...)

	case previewExitedMsg:
		m.closePreview()
		if msg.err != nil {
			m.logger.Debug("mpv exited", zap.Error(msg.err))
		}
		m.setStatus("Preview closed", false)
		return m, nil

	case previewErrorMsg:
		m.setStatus(msg.err.Error(), true)
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleDuration(msg durationMsg) *Model {
	if msg.path != m.input {
		// A different file was opened while this one was being probed.
		return m
	}
	m.probing = false
	if msg.err != nil {
		m.logger.Warn("probe failed", zap.String("path", msg.path), zap.Error(msg.err))
		m.setStatus("Could not read duration: "+msg.err.Error(), true)
		return m
	}
	m.duration = msg.duration
	m.start = 0
	m.end = msg.duration
	m.cursor = 0
	m.setStatus(fmt.Sprintf("Loaded %s (%s)", filepath.Base(msg.path), timeutil.FormatTimestamp(msg.duration)), false)
	return m
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key dismisses a dialog or the help overlay.
	if m.dialog != nil {
		m.dialog = nil
		return m, nil
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		if m.quitAfterTrim {
			return m, nil
		}
		if m.trimming {
			m.confirmResult = false
			return m, m.openForm(formQuit, forms.NewConfirmQuitForm(&m.confirmResult))
		}
		m.quitting = true
		m.closePreview()
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, keys.Theme):
		m.toggleTheme()
		return m, nil

	case key.Matches(msg, keys.Cancel):
		if m.trimming && m.cancelTrim != nil {
			m.cancelTrim()
			m.setStatus("Cancelling...", false)
		}
		return m, nil
	}

	if m.trimming {
		m.setStatus("Trim in progress, esc cancels it", false)
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Open):
		m.openResult = ""
		dir := m.cfg.LastDir
		if m.input != "" {
			dir = filepath.Dir(m.input)
		}
		if dir == "" {
			dir, _ = os.Getwd()
		}
		return m, m.openForm(formOpen, forms.NewOpenFileForm(dir, m.cfg.VideoExtensions, &m.openResult))

	case key.Matches(msg, keys.SaveAs):
		m.saveResult = m.output
		return m, m.openForm(formSaveAs, forms.NewSaveAsForm(m.defaultOutput(), m.input, &m.saveResult))

	case key.Matches(msg, keys.EditTimes):
		m.timesResult = forms.TimesFormResult{
			Start: timeutil.FormatTimestamp(m.start),
			End:   timeutil.FormatTimestamp(m.end),
		}
		return m, m.openForm(formTimes, forms.NewTimesForm(m.duration, &m.timesResult))

	case key.Matches(msg, keys.Trim):
		return m.requestTrim()

	case key.Matches(msg, keys.Preview):
		return m.startPreview()

	case key.Matches(msg, keys.ToggleMode):
		m.toggleMode()

	case key.Matches(msg, keys.Back):
		m.moveCursor(-m.stepSizes[m.stepIndex])
	case key.Matches(msg, keys.Forward):
		m.moveCursor(m.stepSizes[m.stepIndex])
	case key.Matches(msg, keys.StepDown):
		if m.stepIndex > 0 {
			m.stepIndex--
		}
	case key.Matches(msg, keys.StepUp):
		if m.stepIndex < len(m.stepSizes)-1 {
			m.stepIndex++
		}
	case key.Matches(msg, keys.Home):
		m.seekCursor(0)
	case key.Matches(msg, keys.End):
		m.seekCursor(m.duration)
	case key.Matches(msg, keys.JumpStart):
		m.seekCursor(m.start)
	case key.Matches(msg, keys.JumpEnd):
		m.seekCursor(m.end)

	case key.Matches(msg, keys.SetStart):
		m.setStart(m.markerPosition())
		m.setStatus("Start set to "+timeutil.FormatTimestamp(m.start), false)
	case key.Matches(msg, keys.SetEnd):
		m.setEnd(m.markerPosition())
		m.setStatus("End set to "+timeutil.FormatTimestamp(m.end), false)
	}
	return m, nil
}

// openForm shows form until it is completed or aborted.
func (m *Model) openForm(kind formKind, form *huh.Form) tea.Cmd {
	m.formKind = kind
	m.form = form.WithWidth(formWidth(m.width))
	return m.form.Init()
}

func (m *Model) closeForm() {
	m.form = nil
	m.formKind = formNone
}

func formWidth(termWidth int) int {
	if termWidth <= 0 || termWidth-4 > maxFormWidth {
		return maxFormWidth
	}
	return termWidth - 4
}

func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker uses esc to leave a directory, so only ctrl+c aborts it.
	if k, ok := msg.(tea.KeyMsg); ok && m.formKind != formOpen && key.Matches(k, keys.Cancel) {
		m.closeForm()
		m.setStatus("Cancelled", false)
		return m, nil
	}

	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		kind := m.formKind
		m.closeForm()
		return m.formCompleted(kind)
	case huh.StateAborted:
		kind := m.formKind
		m.closeForm()
		if kind == formQuit {
			return m, nil
		}
		m.setStatus("Cancelled", false)
		return m, nil
	}
	return m, cmd
}

func (m *Model) formCompleted(kind formKind) (tea.Model, tea.Cmd) {
	switch kind {
	case formOpen:
		if m.openResult == "" {
			return m, nil
		}
		m.setInput(m.openResult)
		m.cfg.LastDir = filepath.Dir(m.openResult)
		if err := m.cfg.Save(); err != nil {
			m.logger.Warn("save last directory", zap.Error(err))
		}
		return m, probeCmd(m.prober, m.input)

	case formSaveAs:
		m.output = forms.SaveAsPath(m.saveResult, m.input)
		if m.output == "" {
			m.setStatus("Using the default output path", false)
		} else {
			m.setStatus("Output: "+m.output, false)
		}

	case formTimes:
		start, end, err := m.timesResult.Parse()
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		if end <= start {
			m.setStatus("End time must be after start time", true)
			return m, nil
		}
		m.start = m.clampToVideo(start)
		m.end = m.clampToVideo(end)
		m.syncLoop()
		m.setStatus(fmt.Sprintf("Range %s - %s", timeutil.FormatTimestamp(m.start), timeutil.FormatTimestamp(m.end)), false)

	case formOverwrite:
		req := m.pendingTrim
		m.pendingTrim = nil
		if !m.confirmResult || req == nil {
			m.setStatus("Trim cancelled", false)
			return m, nil
		}
		return m, m.startTrim(req)

	case formQuit:
		if !m.confirmResult {
			return m, nil
		}
		if m.trimming {
			m.quitAfterTrim = true
			if m.cancelTrim != nil {
				m.cancelTrim()
			}
			m.setStatus("Stopping trim...", false)
			return m, nil
		}
		m.quitting = true
		m.closePreview()
		return m, tea.Quit
	}
	return m, nil
}

// setInput selects a new video and resets everything derived from the old one.
func (m *Model) setInput(path string) {
	m.input = path
	m.output = ""
	m.start, m.end, m.duration, m.cursor = 0, 0, 0, 0
	m.probing = true
	m.setStatus("Reading "+filepath.Base(path)+"...", false)
}

func (m *Model) defaultOutput() string {
	return trim.DefaultOutputPath(m.input, m.cfg.OutputPrefix)
}

func (m *Model) outputPath() string {
	if m.output != "" {
		return m.output
	}
	return m.defaultOutput()
}

func (m *Model) setStatus(s string, isError bool) {
	m.status = s
	m.statusIsError = isError
}

func (m *Model) showError(title string, err error) {
	m.setStatus(title, true)
	m.dialog = &components.DialogState{Title: title, Lines: []string{err.Error()}, IsError: true}
}

// clampToVideo keeps v inside [0, duration]; without a duration only the
// lower bound applies.
func (m *Model) clampToVideo(v float64) float64 {
	upper := m.duration
	if upper <= 0 {
		upper = math.MaxFloat64
	}
	return timeutil.Clamp(v, 0, upper)
}

func (m *Model) moveCursor(delta float64) {
	m.seekCursor(m.cursor + delta)
}

// seekCursor moves the slider cursor and, during a preview, the player.
func (m *Model) seekCursor(v float64) {
	m.cursor = m.clampToVideo(v)
	if m.player != nil {
		if err := m.player.Seek(m.cursor); err != nil {
			m.logger.Debug("mpv seek", zap.Error(err))
		}
	}
}

// markerPosition is where [ and ] put a marker: the player position while a
// preview is open, the slider cursor otherwise.
func (m *Model) markerPosition() float64 {
	if m.player != nil {
		if pos, err := m.player.GetTimePos(); err == nil {
			m.cursor = m.clampToVideo(pos)
		}
	}
	return m.cursor
}

// setStart moves the start marker, never past the end marker.
func (m *Model) setStart(v float64) {
	v = m.clampToVideo(v)
	if m.end > 0 && v > m.end {
		v = m.end
	}
	m.start = v
	m.syncLoop()
}

// setEnd moves the end marker, never before the start marker.
func (m *Model) setEnd(v float64) {
	v = m.clampToVideo(v)
	if v < m.start {
		v = m.start
	}
	m.end = v
	m.syncLoop()
}

// syncLoop makes a running preview loop over the current range.
// An empty range turns looping off.
func (m *Model) syncLoop() {
	if m.player == nil {
		return
	}
	var err error
	if m.end <= m.start {
		err = m.player.ClearABLoop()
	} else {
		err = m.player.SetABLoop(m.start, m.end)
	}
	if err != nil {
		m.logger.Debug("mpv ab-loop", zap.Error(err))
	}
}

func (m *Model) toggleTheme() {
	theme := m.cfg.ToggleTheme()
	styles.SetTheme(theme)
	if err := m.cfg.Save(); err != nil {
		m.setStatus("Theme changed but not saved: "+err.Error(), true)
		return
	}
	m.setStatus("Theme: "+theme, false)
}

func (m *Model) toggleMode() {
	if m.mode == trim.ModeCopy {
		m.mode = trim.ModeReencode
	} else {
		m.mode = trim.ModeCopy
	}
	m.cfg.Mode = string(m.mode)
	if err := m.cfg.Save(); err != nil {
		m.logger.Warn("save mode", zap.Error(err))
	}
	m.setStatus("Mode: "+string(m.mode), false)
}

// requestTrim validates the current selection and starts the trim, asking
// first when the output file already exists.
func (m *Model) requestTrim() (tea.Model, tea.Cmd) {
	req := &trim.Request{
		Source:   m.input,
		Output:   m.outputPath(),
		Start:    m.start,
		End:      m.end,
		Mode:     m.mode,
		Duration: m.duration,
	}
	req.ClampEnd()
	if err := req.Validate(); err != nil {
		m.showError("Cannot trim", err)
		return m, nil
	}
	if err := m.checkFfmpeg(); err != nil {
		m.showError("ffmpeg not found", err)
		return m, nil
	}

	if _, err := os.Stat(req.Output); err == nil {
		m.pendingTrim = req
		m.confirmResult = false
		return m, m.openForm(formOverwrite, forms.NewConfirmOverwriteForm(req.Output, &m.confirmResult))
	}
	return m, m.startTrim(req)
}

func (m *Model) startTrim(req *trim.Request) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelTrim = cancel
	m.trimming = true
	m.trimReq = req
	m.progress = trim.Progress{}
	m.setStatus("Trimming...", false)
	m.logger.Info("trim started",
		zap.String("source", req.Source),
		zap.String("output", req.Output),
		zap.Float64("start", req.Start),
		zap.Float64("end", req.End))

	m.trimCh = startTrimGoroutine(ctx, m.trimmer, m.db, m.logger, req)
	return tea.Batch(waitForTrimMsg(m.trimCh), m.spinner.Tick)
}

func (m *Model) finishTrim(msg trimDoneMsg) (tea.Model, tea.Cmd) {
	m.trimming = false
	if m.cancelTrim != nil {
		m.cancelTrim()
		m.cancelTrim = nil
	}
	if m.quitAfterTrim {
		m.quitting = true
		m.closePreview()
		return m, tea.Quit
	}

	switch {
	case msg.err == nil:
		m.setStatus("Trim Complete", false)
		lines := []string{"Trimming Complete", "", "Saved to " + msg.result.Output}
		if msg.result.Size > 0 {
			lines = append(lines, "Size: "+humanize.Bytes(uint64(msg.result.Size)))
		}
		if m.trimReq != nil {
			lines = append(lines, "Length: "+timeutil.FormatDuration(m.trimReq.Length()))
		}
		m.dialog = &components.DialogState{Title: "Trim complete", Lines: lines}
	case errors.Is(msg.err, context.Canceled):
		m.setStatus("Trim cancelled", false)
	default:
		m.logger.Warn("trim failed", zap.Error(msg.err))
		m.showError("Trim failed", msg.err)
	}
	m.trimReq = nil
	return m, nil
}

func (m *Model) startPreview() (tea.Model, tea.Cmd) {
	if m.input == "" {
		m.setStatus("Open a video first", true)
		return m, nil
	}
	if m.preview != nil {
		// Already open: loop the current range from its start.
		m.syncLoop()
		m.seekCursor(m.start)
		return m, nil
	}
	m.setStatus("Starting mpv...", false)
	return m, launchPreviewCmd(m.input, m.start, m.end)
}

func (m *Model) closePreview() {
	if m.player != nil {
		_ = m.player.Close()
		m.player = nil
	}
	if m.preview != nil && m.preview.Process != nil && m.quitting {
		_ = m.preview.Process.Kill()
	}
	m.preview = nil
}

func closestStep(sizes []float64, want float64) int {
	best := 0
	for i, s := range sizes {
		if math.Abs(s-want) < math.Abs(sizes[best]-want) {
			best = i
		}
	}
	return best
}

// View renders the current state of the model as a string.
func (m *Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	width, height := m.width, m.height
	if width == 0 {
		width = 80
	}

	statusBar := components.StatusBar(components.StatusBarState{
		StepSize:   m.stepSizes[m.stepIndex],
		Mode:       string(m.mode),
		Theme:      m.cfg.Theme,
		Previewing: m.preview != nil,
	}, width)

	if m.showHelp {
		return statusBar + "\n" + components.HelpOverlay(helpGroups(), width, max(height-1, 0))
	}
	if m.dialog != nil {
		return statusBar + "\n" + components.Dialog(*m.dialog, width, max(height-1, 0))
	}
	if m.form != nil {
		return statusBar + "\n\n" + lipgloss.NewStyle().PaddingLeft(2).Render(m.form.View())
	}

	fields := components.Fields(components.FieldsState{
		Input:         m.input,
		Output:        m.output,
		DefaultOutput: m.defaultOutput(),
		Start:         m.start,
		End:           m.end,
		Duration:      m.duration,
		Probing:       m.probing,
	}, width)

	timeline := components.Timeline(components.TimelineState{
		Cursor:   m.cursor,
		Start:    m.start,
		End:      m.end,
		Duration: m.duration,
	}, width)

	var progressBox string
	if m.trimming && m.trimReq != nil {
		progressBox = components.TrimProgress(components.TrimProgressState{
			Active:   true,
			Spinner:  m.spinner.View(),
			Output:   m.trimReq.Output,
			Written:  m.progress.OutTime,
			Length:   m.trimReq.Length(),
			Fraction: m.progress.Fraction,
			Speed:    m.progress.Speed,
		}, m.bar, width)
	}

	statusStyle := styles.PrimaryText()
	if m.statusIsError {
		statusStyle = styles.Warning()
	}
	statusLine := " " + styles.Header().Render("Status ") + statusStyle.Render(m.status)

	m.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(styles.Current.Accent)
	m.help.Styles.ShortDesc = styles.SecondaryText()
	m.help.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(styles.Current.Border)
	m.help.Width = width
	helpLine := " " + m.help.ShortHelpView(keys.ShortHelp())

	view := layout.Stack(statusBar, fields, timeline, progressBox, statusLine, layout.Blank, helpLine)
	if height > 0 {
		return layout.Container{Width: width, Height: height}.Render(view)
	}
	return view
}

// Run starts the Bubbletea program.
func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
