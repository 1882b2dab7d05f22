// Package shared holds the plumbing every study screen uses to talk to the
// model off the update loop and to record usage events.
package shared

import (
	"context"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studytutor/internal/mode"
	"github.com/abhisek/studytutor/internal/store"
)

// ReplyMsg carries the outcome of an Exchange back to the screen that
// started it.
type ReplyMsg struct {
	Exchange *mode.Exchange
	Reply    string
	Err      error
}

// RunExchange calls the model for ex in a command goroutine. The session is
// not touched until the screen commits the reply.
func RunExchange(ex *mode.Exchange) tea.Cmd {
	return func() tea.Msg {
		reply, err := ex.Generate(context.Background())
		return ReplyMsg{Exchange: ex, Reply: reply, Err: err}
	}
}

// SpinnerTickMsg advances the busy indicator.
type SpinnerTickMsg time.Time

const spinnerInterval = 120 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// SpinnerTick schedules the next spinner frame.
func SpinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(t time.Time) tea.Msg {
		return SpinnerTickMsg(t)
	})
}

// SpinnerFrame returns the glyph for tick n.
func SpinnerFrame(n int) string {
	return spinnerFrames[n%len(spinnerFrames)]
}

// RecordSession appends a session event in the background. A nil repo
// records nothing. Failures are logged and otherwise ignored.
func RecordSession(repo store.EventRepo, data store.SessionEventData) tea.Cmd {
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		if err := repo.AppendSessionEvent(context.Background(), data); err != nil {
			slog.Warn("failed to record session event", "action", data.Action, "error", err)
		}
		return nil
	}
}
