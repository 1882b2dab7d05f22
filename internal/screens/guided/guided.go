// Package guided is the Socratic tutoring screen: pick a topic, then answer
// the tutor's questions one turn at a time.
package guided

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

type focus int

const (
	focusTopic focus = iota
	focusAnswer
)

// GuidedScreen hosts a guided learning conversation.
type GuidedScreen struct {
	sess    *session.AppSession
	ctrl    *mode.Guided
	topic   components.TextInput
	answer  components.TextInput
	focus   focus
	pending *mode.Exchange
	spin    int
	errMsg  string
}

var _ screen.Screen = (*GuidedScreen)(nil)
var _ screen.KeyHintProvider = (*GuidedScreen)(nil)
var _ screen.Busy = (*GuidedScreen)(nil)

// New creates a GuidedScreen. The topic field is prefilled from the
// session so returning to the mode resumes where the learner left off.
func New(sess *session.AppSession) *GuidedScreen {
	g := &GuidedScreen{
		sess:   sess,
		ctrl:   mode.NewGuided(sess),
		topic:  components.NewTextInput("Enter a topic you want to learn", 0),
		answer: components.NewTextInput("Your response", 0),
	}
	g.topic.SetValue(sess.Guided().Topic)
	if g.ctrl.Phase() == mode.GuidedConversing {
		g.setFocus(focusAnswer)
	} else {
		g.setFocus(focusTopic)
	}
	return g
}

func (g *GuidedScreen) Title() string {
	return session.ModeGuided.String()
}

func (g *GuidedScreen) Init() tea.Cmd {
	return nil
}

func (g *GuidedScreen) Busy() bool {
	return g.pending != nil
}

func (g *GuidedScreen) KeyHints() []layout.KeyHint {
	if g.Busy() {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	hints := []layout.KeyHint{}
	if g.focus == focusTopic {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Start Learning"})
	} else {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Send Response"})
	}
	if g.ctrl.Phase() == mode.GuidedConversing {
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Switch Field"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (g *GuidedScreen) setFocus(f focus) {
	g.focus = f
	if f == focusTopic {
		g.answer.Blur()
		g.topic.Focus()
	} else {
		g.topic.Blur()
		g.answer.Focus()
	}
}

func (g *GuidedScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case shared.ReplyMsg:
		g.handleReply(msg)
		return g, nil

	case shared.SpinnerTickMsg:
		if g.pending == nil {
			return g, nil
		}
		g.spin++
		return g, shared.SpinnerTick()

	case tea.KeyMsg:
		if g.pending != nil || !g.sess.ModelReady() {
			return g, nil
		}
		switch msg.String() {
		case "enter":
			return g, g.submit()
		case "tab":
			if g.ctrl.Phase() == mode.GuidedConversing {
				if g.focus == focusTopic {
					g.setFocus(focusAnswer)
				} else {
					g.setFocus(focusTopic)
				}
			}
			return g, nil
		}
	}

	if g.pending != nil {
		return g, nil
	}
	var cmd tea.Cmd
	if g.focus == focusTopic {
		g.topic, cmd = g.topic.Update(msg)
	} else {
		g.answer, cmd = g.answer.Update(msg)
	}
	return g, cmd
}

func (g *GuidedScreen) submit() tea.Cmd {
	var (
		ex  *mode.Exchange
		err error
	)
	if g.focus == focusTopic {
		ex, err = g.ctrl.PrepareIntro(g.topic.Value())
	} else {
		ex, err = g.ctrl.PrepareReply(g.answer.Value())
	}
	if err != nil {
		// Empty input is a no-op, like an unclicked button.
		if errors.Is(err, mode.ErrEmptyTopic) || errors.Is(err, mode.ErrEmptyMessage) {
			return nil
		}
		g.errMsg = mode.UserMessage(err)
		return nil
	}

	g.errMsg = ""
	g.pending = ex
	return tea.Batch(shared.RunExchange(ex), shared.SpinnerTick())
}

func (g *GuidedScreen) handleReply(msg shared.ReplyMsg) {
	if msg.Exchange != g.pending {
		return
	}
	g.pending = nil

	if msg.Err != nil {
		slog.Error("guided generation failed", "error", msg.Err)
		g.errMsg = mode.UserMessage(msg.Err)
		return
	}
	if _, err := msg.Exchange.Commit(msg.Reply); err != nil {
		if !errors.Is(err, mode.ErrStaleReply) {
			g.errMsg = mode.UserMessage(err)
		}
		return
	}

	g.answer.Reset()
	g.setFocus(focusAnswer)
}

func (g *GuidedScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	g.topic.SetWidth(cw - 8)
	g.answer.SetWidth(cw - 8)

	var top []string
	top = append(top, theme.Title.Render("Guided Learning"))
	top = append(top, theme.Subtitle.Render("Learn any topic step-by-step with a Socratic tutor approach."))

	if !g.sess.ModelReady() {
		top = append(top, components.Notice(mode.UserMessage(mode.ErrModelNotReady), "", true))
		return components.Centered(strings.Join(top, "\n\n"), width, height)
	}

	top = append(top, components.Card(g.topic.View(), cw))
	header := strings.Join(top, "\n\n")

	var bottom []string
	if g.pending != nil {
		bottom = append(bottom, theme.Hint.Render(shared.SpinnerFrame(g.spin)+" Tutor is thinking..."))
	} else if g.errMsg != "" {
		bottom = append(bottom, components.Notice(g.errMsg, "", true))
	}
	if g.ctrl.Phase() == mode.GuidedConversing {
		bottom = append(bottom, components.Card(g.answer.View(), cw))
	}
	footer := strings.Join(bottom, "\n\n")

	// Whatever height remains goes to the conversation.
	avail := height - lipgloss.Height(header) - lipgloss.Height(footer) - 4
	transcript := components.Transcript{
		Messages:       g.sess.Guided().History,
		AssistantLabel: "Tutor",
		UserLabel:      "You",
	}.View(cw, max(avail, 3))

	parts := []string{header}
	if transcript != "" {
		parts = append(parts, transcript)
	}
	if footer != "" {
		parts = append(parts, footer)
	}
	return components.Centered(strings.Join(parts, "\n\n"), width, height)
}
