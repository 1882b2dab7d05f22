package home

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studytutor/internal/llm"
	"github.com/abhisek/studytutor/internal/router"
	"github.com/abhisek/studytutor/internal/screen"
	"github.com/abhisek/studytutor/internal/session"
)

type stubScreen struct{ title string }

func (stubScreen) Init() tea.Cmd                             { return nil }
func (s stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (stubScreen) View(int, int) string                      { return "" }
func (s stubScreen) Title() string                           { return s.title }

func stub(title string) func() screen.Screen {
	return func() screen.Screen { return stubScreen{title: title} }
}

func testScreens() Screens {
	return Screens{
		Guided:     stub("guided"),
		Practice:   stub("practice"),
		Chat:       stub("chat"),
		Usage:      stub("usage"),
		Credential: stub("credential"),
		Login:      stub("login"),
	}
}

func readySession(t *testing.T) *session.AppSession {
	t.Helper()
	s := session.New()
	s.Authenticate()
	err := s.SetCredential(context.Background(), "key", func(context.Context, string) (session.Model, error) {
		return llm.NewClient(llm.NewMockProvider(), llm.DefaultConfig()), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func down() tea.KeyPressMsg  { return tea.KeyPressMsg{Code: tea.KeyDown} }
func enter() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyEnter} }

// selectItem moves down n items and presses Enter.
func selectItem(h *HomeScreen, n int) tea.Cmd {
	for range n {
		h.Update(down())
	}
	_, cmd := h.Update(enter())
	return cmd
}

func TestHomeScreen_MenuLabels(t *testing.T) {
	h := New(readySession(t), nil, testScreens())
	want := []string{"Guided Learning", "Practice Tests", "Free Chat", "Usage", "Change API Key", "Logout", "Quit"}
	if len(h.labels) != len(want) {
		t.Fatalf("labels = %v, want %v", h.labels, want)
	}
	for i := range want {
		if h.labels[i] != want[i] {
			t.Errorf("label[%d] = %q, want %q", i, h.labels[i], want[i])
		}
	}
}

func TestHomeScreen_UsageHiddenWithoutFactory(t *testing.T) {
	screens := testScreens()
	screens.Usage = nil
	h := New(readySession(t), nil, screens)
	for _, l := range h.labels {
		if l == "Usage" {
			t.Error("Usage should be hidden without a factory")
		}
	}
}

func TestHomeScreen_SelectModeSetsMode(t *testing.T) {
	sess := readySession(t)
	h := New(sess, nil, testScreens())

	cmd := selectItem(h, 1)
	if sess.Mode() != session.ModePractice {
		t.Errorf("Mode = %v, want Practice Tests", sess.Mode())
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if msg.Screen.Title() != "practice" {
		t.Errorf("pushed %q, want practice", msg.Screen.Title())
	}
}

func TestHomeScreen_ChangeKeyClearsCredential(t *testing.T) {
	sess := readySession(t)
	h := New(sess, nil, testScreens())

	cmd := selectItem(h, 4)
	if sess.ModelReady() || sess.HasCredential() {
		t.Error("Change API Key should clear the credential")
	}
	if !sess.Authenticated() {
		t.Error("Change API Key should keep the login")
	}
	msg, ok := cmd().(router.ResetScreenMsg)
	if !ok {
		t.Fatal("expected ResetScreenMsg")
	}
	if msg.Screen.Title() != "credential" {
		t.Errorf("reset to %q, want credential", msg.Screen.Title())
	}
}

func TestHomeScreen_LogoutResetsSession(t *testing.T) {
	sess := readySession(t)
	sess.AppendChatTurn(session.RoleUser, "hi")
	oldID := sess.ID()
	h := New(sess, nil, testScreens())

	cmd := selectItem(h, 5)
	if sess.Authenticated() || sess.ModelReady() {
		t.Error("Logout should clear login and model")
	}
	if len(sess.ChatHistory()) != 0 {
		t.Error("Logout should clear histories")
	}
	if sess.ID() == oldID {
		t.Error("Logout should start a new session ID")
	}
	msg, ok := cmd().(router.ResetScreenMsg)
	if !ok {
		t.Fatal("expected ResetScreenMsg")
	}
	if msg.Screen.Title() != "login" {
		t.Errorf("reset to %q, want login", msg.Screen.Title())
	}
}

func TestHomeScreen_View(t *testing.T) {
	h := New(session.New(), nil, testScreens())
	if h.View(100, 40) == "" {
		t.Error("expected non-empty view")
	}
	if h.View(50, 20) == "" {
		t.Error("expected non-empty compact view")
	}
}
