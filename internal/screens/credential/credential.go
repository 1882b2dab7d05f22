package credential

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studytutor/internal/router"
	"github.com/abhisek/studytutor/internal/screen"
	"github.com/abhisek/studytutor/internal/screens/shared"
	"github.com/abhisek/studytutor/internal/session"
	"github.com/abhisek/studytutor/internal/store"
	"github.com/abhisek/studytutor/internal/ui/components"
	"github.com/abhisek/studytutor/internal/ui/layout"
	"github.com/abhisek/studytutor/internal/ui/theme"
)

// connectedMsg is sent when a connect attempt finishes.
type connectedMsg struct {
	epoch  uint64
	secret string
	model  session.Model
	err    error
}

// CredentialScreen collects the API key and connects the model client.
type CredentialScreen struct {
	sess         *session.AppSession
	connect      session.Connector
	providerName string
	eventRepo    store.EventRepo
	next         func() screen.Screen
	input        components.TextInput
	busy         bool
	spin         int
	errMsg       string
	errDetails   string
}

var _ screen.Screen = (*CredentialScreen)(nil)
var _ screen.KeyHintProvider = (*CredentialScreen)(nil)
var _ screen.Busy = (*CredentialScreen)(nil)

// New creates a CredentialScreen. providerName is shown in the prompt, e.g.
// "Gemini". next builds the screen shown once the key is accepted.
func New(sess *session.AppSession, connect session.Connector, providerName string, eventRepo store.EventRepo, next func() screen.Screen) *CredentialScreen {
	return &CredentialScreen{
		sess:         sess,
		connect:      connect,
		providerName: providerName,
		eventRepo:    eventRepo,
		next:         next,
		input:        components.NewSecretInput("Enter your " + providerName + " API key"),
	}
}

func (c *CredentialScreen) Title() string {
	return "API Key"
}

func (c *CredentialScreen) Init() tea.Cmd {
	return c.input.Init()
}

func (c *CredentialScreen) Busy() bool {
	return c.busy
}

func (c *CredentialScreen) KeyHints() []layout.KeyHint {
	if c.busy {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Save API Key"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (c *CredentialScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case connectedMsg:
		return c, c.handleConnected(msg)

	case shared.SpinnerTickMsg:
		if !c.busy {
			return c, nil
		}
		c.spin++
		return c, shared.SpinnerTick()

	case tea.KeyMsg:
		if c.busy {
			return c, nil
		}
		if msg.String() == "enter" {
			return c, c.submit()
		}
	}

	if c.busy {
		return c, nil
	}
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *CredentialScreen) submit() tea.Cmd {
	secret := strings.TrimSpace(c.input.Value())
	if secret == "" {
		return nil
	}

	c.busy = true
	c.errMsg, c.errDetails = "", ""
	epoch := c.sess.Epoch()
	connect := c.connect

	return tea.Batch(
		func() tea.Msg {
			m, err := connect(context.Background(), secret)
			return connectedMsg{epoch: epoch, secret: secret, model: m, err: err}
		},
		shared.SpinnerTick(),
	)
}

func (c *CredentialScreen) handleConnected(msg connectedMsg) tea.Cmd {
	c.busy = false

	err := c.sess.CommitCredential(msg.epoch, msg.secret, msg.model, msg.err)
	if err != nil {
		c.input.Reset()
		c.errMsg = "Failed to initialize the model. Please re-enter a valid API key."
		var invalid *session.InvalidCredentialError
		if errors.As(err, &invalid) {
			c.errDetails = "Initialization details: " + invalid.Err.Error()
		}
		return nil
	}
	if !c.sess.ModelReady() {
		// Session was torn down while connecting.
		return nil
	}

	next := c.next()
	return tea.Batch(
		shared.RecordSession(c.eventRepo, store.SessionEventData{
			SessionID: c.sess.ID(),
			Action:    store.ActionCredentialSet,
			Detail:    c.providerName,
		}),
		func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
	)
}

func (c *CredentialScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	c.input.SetWidth(cw - 8)

	var sections []string
	sections = append(sections, theme.Title.Render("Enter your "+c.providerName+" API Key"))
	sections = append(sections, components.Card(c.input.View(), cw))

	if c.busy {
		sections = append(sections, theme.Hint.Render(shared.SpinnerFrame(c.spin)+" Checking your key..."))
	} else if c.errMsg != "" {
		sections = append(sections, components.Notice(c.errMsg, c.errDetails, true))
	}

	sections = append(sections, theme.Caption.Render("Your API key is only kept in this session and not stored."))

	return components.Centered(strings.Join(sections, "\n\n"), width, height)
}
