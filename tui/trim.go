package tui

import (
	"context"
	"database/sql"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/user/vidtrim/db"
	"github.com/user/vidtrim/jobs"
	"github.com/user/vidtrim/trim"
	"go.uber.org/zap"
)

// trimProgressMsg carries progress updates from the trim goroutine.
type trimProgressMsg trim.Progress

// trimDoneMsg is sent when the trim finished, successfully or not.
type trimDoneMsg struct {
	result *trim.Result
	err    error
}

// waitForTrimMsg returns a tea.Cmd that waits for the next message on the channel.
func waitForTrimMsg(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// startTrimGoroutine runs req in the background and records it in the
// history database when one is open. Progress and the final trimDoneMsg are
// sent to the returned channel, which is closed afterwards.
func startTrimGoroutine(ctx context.Context, trimmer jobs.Trimmer, database *sql.DB, logger *zap.Logger, req *trim.Request) <-chan tea.Msg {
	ch := make(chan tea.Msg)

	send := func(msg tea.Msg) {
		select {
		case ch <- msg:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(ch)

		var tracked *jobs.Tracked
		if database != nil {
			var err error
			tracked, err = jobs.Track(database, db.NewJob{
				Source:         req.Source,
				Output:         req.Output,
				Start:          req.Start,
				End:            req.End,
				Mode:           string(req.Mode),
				SourceDuration: req.Duration,
			}, logger)
			if err != nil {
				logger.Warn("record trim", zap.Error(err))
			}
		}

		res, err := trimmer.Trim(ctx, req, func(p trim.Progress) {
			send(trimProgressMsg(p))
		})

		if tracked != nil {
			if markErr := tracked.Finish(res, err); markErr != nil {
				logger.Warn("record trim result", zap.Error(markErr))
			}
		}

		// The final message must arrive even after a cancel, so it does not
		// go through send.
		ch <- trimDoneMsg{result: res, err: err}
	}()

	return ch
}
