package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studytutor/internal/router"
	"github.com/abhisek/studytutor/internal/screen"
	"github.com/abhisek/studytutor/internal/screens/shared"
	"github.com/abhisek/studytutor/internal/session"
	"github.com/abhisek/studytutor/internal/store"
	"github.com/abhisek/studytutor/internal/ui/components"
	"github.com/abhisek/studytutor/internal/ui/layout"
)

// Screens builds the screens reachable from home. Factories keep this
// package free of imports on the screens that lead back here.
type Screens struct {
	Guided     func() screen.Screen
	Practice   func() screen.Screen
	Chat       func() screen.Screen
	Usage      func() screen.Screen
	Credential func() screen.Screen
	Login      func() screen.Screen
}

// HomeScreen is the mode picker shown after login.
type HomeScreen struct {
	sess         *session.AppSession
	eventRepo    store.EventRepo
	menu         components.Menu
	labels       []string
	descriptions []string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

var modeDescriptions = map[session.Mode]string{
	session.ModeGuided:   "Learn any topic step-by-step with a Socratic tutor approach.",
	session.ModePractice: "Generate quizzes to test your knowledge on any topic.",
	session.ModeChat:     "Ask any question or discuss any topic with the AI.",
}

// New creates a HomeScreen.
func New(sess *session.AppSession, eventRepo store.EventRepo, screens Screens) *HomeScreen {
	h := &HomeScreen{sess: sess, eventRepo: eventRepo}

	modeScreens := map[session.Mode]func() screen.Screen{
		session.ModeGuided:   screens.Guided,
		session.ModePractice: screens.Practice,
		session.ModeChat:     screens.Chat,
	}

	var items []components.MenuItem
	for _, m := range session.Modes {
		build := modeScreens[m]
		if build == nil {
			continue
		}
		items = append(items, components.MenuItem{Label: m.String(), Action: func() tea.Cmd {
			h.sess.SetMode(m)
			return push(build)
		}})
		h.descriptions = append(h.descriptions, modeDescriptions[m])
	}

	if screens.Usage != nil {
		items = append(items, components.MenuItem{Label: "Usage", Action: func() tea.Cmd {
			return push(screens.Usage)
		}})
		h.descriptions = append(h.descriptions, "Review model calls and token usage.")
	}
	if screens.Credential != nil {
		items = append(items, components.MenuItem{Label: "Change API Key", Action: func() tea.Cmd {
			return h.changeKey(screens.Credential)
		}})
		h.descriptions = append(h.descriptions, "Disconnect the model and enter a new key.")
	}
	if screens.Login != nil {
		items = append(items, components.MenuItem{Label: "Logout", Action: func() tea.Cmd {
			return h.logout(screens.Login)
		}})
		h.descriptions = append(h.descriptions, "Clear this session and return to login.")
	}
	items = append(items, components.MenuItem{Label: "Quit", Action: func() tea.Cmd {
		return tea.Quit
	}})
	h.descriptions = append(h.descriptions, "")

	for _, it := range items {
		h.labels = append(h.labels, it.Label)
	}
	h.menu = components.NewMenu(items)
	return h
}

func push(build func() screen.Screen) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: build()}
	}
}

func (h *HomeScreen) changeKey(credential func() screen.Screen) tea.Cmd {
	h.sess.ClearCredential()
	next := credential()
	return tea.Batch(
		shared.RecordSession(h.eventRepo, store.SessionEventData{
			SessionID: h.sess.ID(),
			Action:    store.ActionCredentialCleared,
		}),
		func() tea.Msg { return router.ResetScreenMsg{Screen: next} },
	)
}

func (h *HomeScreen) logout(login func() screen.Screen) tea.Cmd {
	record := shared.RecordSession(h.eventRepo, store.SessionEventData{
		SessionID: h.sess.ID(),
		Action:    store.ActionLogout,
	})
	h.sess.Logout()
	next := login()
	return tea.Batch(record, func() tea.Msg { return router.ResetScreenMsg{Screen: next} })
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := height < 24 || width < 60
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !h.sess.ModelReady() {
		sections = append(sections, renderKeyWarning(cw))
	}
	if compact {
		sections = append(sections, renderMenuCompact(h.labels, h.menu.Selected, cw))
	} else {
		sections = append(sections, renderMenu(h.labels, h.menu.Selected, cw))
	}
	if d := h.descriptions[h.menu.Selected]; d != "" {
		sections = append(sections, renderDescription(d, cw))
	}

	return renderFrame(strings.Join(sections, "\n\n"), width, height)
}
