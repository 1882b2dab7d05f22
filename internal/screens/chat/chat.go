// Package chat is the free conversation screen.
package chat

import (
	"errors"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studytutor/internal/mode"
	"github.com/abhisek/studytutor/internal/screen"
	"github.com/abhisek/studytutor/internal/screens/shared"
	"github.com/abhisek/studytutor/internal/session"
	"github.com/abhisek/studytutor/internal/ui/components"
	"github.com/abhisek/studytutor/internal/ui/layout"
	"github.com/abhisek/studytutor/internal/ui/theme"
)

// ChatScreen hosts an open-ended conversation.
type ChatScreen struct {
	sess    *session.AppSession
	ctrl    *mode.Chat
	input   components.TextInput
	pending *mode.Exchange
	spin    int
	errMsg  string
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)
var _ screen.Busy = (*ChatScreen)(nil)

// New creates a ChatScreen over the session's chat history.
func New(sess *session.AppSession) *ChatScreen {
	c := &ChatScreen{
		sess:  sess,
		ctrl:  mode.NewChat(sess),
		input: components.NewTextInput("Type your message", 0),
	}
	c.input.Focus()
	return c
}

func (c *ChatScreen) Title() string {
	return session.ModeChat.String()
}

func (c *ChatScreen) Init() tea.Cmd {
	return nil
}

func (c *ChatScreen) Busy() bool {
	return c.pending != nil
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	if c.Busy() {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Ctrl+L", Description: "Clear Chat"},
		{Key: "Esc", Description: "Back"},
	}
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case shared.ReplyMsg:
		c.handleReply(msg)
		return c, nil

	case shared.SpinnerTickMsg:
		if c.pending == nil {
			return c, nil
		}
		c.spin++
		return c, shared.SpinnerTick()

	case tea.KeyMsg:
		if c.pending != nil || !c.sess.ModelReady() {
			return c, nil
		}
		switch msg.String() {
		case "enter":
			return c, c.send()
		case "ctrl+l":
			c.ctrl.Clear()
			c.errMsg = ""
			return c, nil
		}
	}

	if c.pending != nil {
		return c, nil
	}
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *ChatScreen) send() tea.Cmd {
	ex, err := c.ctrl.PrepareSend(c.input.Value())
	if err != nil {
		if errors.Is(err, mode.ErrEmptyMessage) {
			return nil
		}
		c.errMsg = mode.UserMessage(err)
		return nil
	}

	c.errMsg = ""
	c.pending = ex
	return tea.Batch(shared.RunExchange(ex), shared.SpinnerTick())
}

func (c *ChatScreen) handleReply(msg shared.ReplyMsg) {
	if msg.Exchange != c.pending {
		return
	}
	c.pending = nil

	if msg.Err != nil {
		slog.Error("chat generation failed", "error", msg.Err)
		c.errMsg = mode.UserMessage(msg.Err)
		return
	}
	if _, err := msg.Exchange.Commit(msg.Reply); err != nil {
		if !errors.Is(err, mode.ErrStaleReply) {
			c.errMsg = mode.UserMessage(err)
		}
		return
	}
	c.input.Reset()
}

func (c *ChatScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	c.input.SetWidth(cw - 8)

	header := theme.Title.Render("Free Chat") + "\n\n" +
		theme.Subtitle.Render("Ask any question or discuss any topic with the AI.")

	if !c.sess.ModelReady() {
		body := header + "\n\n" + components.Notice(mode.UserMessage(mode.ErrModelNotReady), "", true)
		return components.Centered(body, width, height)
	}

	var bottom []string
	if c.pending != nil {
		bottom = append(bottom, theme.Hint.Render(shared.SpinnerFrame(c.spin)+" Thinking..."))
	} else if c.errMsg != "" {
		bottom = append(bottom, components.Notice(c.errMsg, "", true))
	}
	bottom = append(bottom, components.Card(c.input.View(), cw))
	footer := strings.Join(bottom, "\n\n")

	avail := height - lipgloss.Height(header) - lipgloss.Height(footer) - 4
	transcript := components.Transcript{
		Messages:       c.sess.ChatHistory(),
		AssistantLabel: "AI",
		UserLabel:      "You",
	}.View(cw, max(avail, 3))

	parts := []string{header}
	if transcript != "" {
		parts = append(parts, transcript)
	}
	parts = append(parts, footer)
	return components.Centered(strings.Join(parts, "\n\n"), width, height)
}
