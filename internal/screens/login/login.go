package login

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studytutor/internal/auth"
	"github.com/abhisek/studytutor/internal/router"
	"github.com/abhisek/studytutor/internal/screen"
	"github.com/abhisek/studytutor/internal/screens/shared"
	"github.com/abhisek/studytutor/internal/session"
	"github.com/abhisek/studytutor/internal/store"
	"github.com/abhisek/studytutor/internal/ui/components"
	"github.com/abhisek/studytutor/internal/ui/layout"
	"github.com/abhisek/studytutor/internal/ui/theme"
)

// LoginScreen asks for the shared password before anything else is shown.
type LoginScreen struct {
	gate      *auth.Gate
	sess      *session.AppSession
	eventRepo store.EventRepo
	next      func() screen.Screen
	input     components.TextInput
	errMsg    string
	done      bool
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates a LoginScreen that replaces itself with the screen produced by
// next once the password is accepted.
func New(gate *auth.Gate, sess *session.AppSession, eventRepo store.EventRepo, next func() screen.Screen) *LoginScreen {
	l := &LoginScreen{
		gate:      gate,
		sess:      sess,
		eventRepo: eventRepo,
		next:      next,
		input:     components.NewSecretInput("Password"),
	}
	if !gate.Configured() {
		l.errMsg = auth.Message(auth.ErrNotConfigured)
	}
	return l
}

func (l *LoginScreen) Title() string {
	return "Login"
}

func (l *LoginScreen) Init() tea.Cmd {
	return l.input.Init()
}

func (l *LoginScreen) KeyHints() []layout.KeyHint {
	if !l.gate.Configured() {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Login"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (l *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	// Nothing to type into until an operator sets the password.
	if !l.gate.Configured() || l.done {
		return l, nil
	}

	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" {
		return l, l.submit()
	}

	var cmd tea.Cmd
	l.input, cmd = l.input.Update(msg)
	return l, cmd
}

func (l *LoginScreen) submit() tea.Cmd {
	if err := l.gate.Login(l.input.Value()); err != nil {
		l.errMsg = auth.Message(err)
		l.input.Reset()
		return nil
	}

	l.done = true
	l.errMsg = ""
	l.sess.Authenticate()
	next := l.next()
	return tea.Batch(
		shared.RecordSession(l.eventRepo, store.SessionEventData{
			SessionID: l.sess.ID(),
			Action:    store.ActionLogin,
		}),
		func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
	)
}

func (l *LoginScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, RenderBanner(width))
	sections = append(sections, theme.Subtitle.Render("Please enter the password to access the AI Tutor."))

	if l.gate.Configured() {
		cw := components.ContentWidth(width)
		l.input.SetWidth(cw - 8)
		sections = append(sections, components.Card(l.input.View(), cw))
	}

	if l.errMsg != "" {
		sections = append(sections, theme.ErrorText.Render(l.errMsg))
	}

	return components.Centered(strings.Join(sections, "\n\n"), width, height)
}
