package mpv

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/user/vidtrim/deps"
	"github.com/user/vidtrim/pkg/timeutil"
)

// PreviewArgs returns the mpv arguments that open path at start and loop
// between start and end. A zero end plays to the end of the file.
func PreviewArgs(path string, start, end float64, socketPath string) []string {
	args := []string{
		"--force-window=yes",
		"--keep-open=yes",
		fmt.Sprintf("--start=%s", timeutil.FormatTimestampPrecise(start)),
	}
	if end > start {
		args = append(args,
			fmt.Sprintf("--ab-loop-a=%s", timeutil.FormatTimestampPrecise(start)),
			fmt.Sprintf("--ab-loop-b=%s", timeutil.FormatTimestampPrecise(end)),
		)
	}
	if socketPath != "" {
		args = append(args, "--input-ipc-server="+socketPath)
	}
	return append(args, "--", path)
}

// LaunchPreview starts mpv on path looping the start/end range with the IPC
// socket enabled. It returns the running process for cleanup.
func LaunchPreview(path string, start, end float64, socketPath string) (*exec.Cmd, error) {
	if err := deps.CheckMpv(); err != nil {
		return nil, err
	}
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	// A socket left by a previous player would make Connect talk to nothing.
	_ = os.Remove(socketPath)

	cmd := exec.Command("mpv", PreviewArgs(path, start, end, socketPath)...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting mpv: %w", err)
	}
	return cmd, nil
}

// ConnectWithRetry dials the socket of a freshly launched player, which only
// appears once mpv has finished starting.
func ConnectWithRetry(c *Client, attempts int, wait time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = c.Connect(); err == nil {
			return nil
		}
		time.Sleep(wait)
	}
	return err
}
