package tui

import (
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/user/vidtrim/mpv"
)

const (
	connectAttempts = 30
	connectWait     = 100 * time.Millisecond
)

// launchPreviewCmd starts mpv on path looping start-end and connects to its
// IPC socket. A player that cannot be reached still plays; the UI just
// cannot follow its position.
func launchPreviewCmd(path string, start, end float64) tea.Cmd {
	return func() tea.Msg {
		cmd, err := mpv.LaunchPreview(path, start, end, "")
		if err != nil {
			return previewErrorMsg{err: err}
		}
		client := mpv.NewClient("")
		if err := mpv.ConnectWithRetry(client, connectAttempts, connectWait); err != nil {
			return previewStartedMsg{cmd: cmd}
		}
		return previewStartedMsg{cmd: cmd, player: client}
	}
}

// waitForPreview reports when the mpv window is closed.
func waitForPreview(cmd *exec.Cmd) tea.Cmd {
	return func() tea.Msg {
		return previewExitedMsg{err: cmd.Wait()}
	}
}
