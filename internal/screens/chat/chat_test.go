package chat

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studytutor/internal/llm"
	"github.com/abhisek/studytutor/internal/screens/shared"
	"github.com/abhisek/studytutor/internal/session"
)

func readySession(t *testing.T, responses ...llm.MockResponse) (*session.AppSession, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	s := session.New()
	s.Authenticate()
	err := s.SetCredential(context.Background(), "key", func(context.Context, string) (session.Model, error) {
		return llm.NewClient(mock, llm.DefaultConfig()), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return s, mock
}

func enter() tea.KeyPressMsg { return tea.KeyPressMsg{Code: tea.KeyEnter} }

func finish(t *testing.T, c *ChatScreen) {
	t.Helper()
	if c.pending == nil {
		t.Fatal("expected a pending exchange")
	}
	ex := c.pending
	reply, err := ex.Generate(context.Background())
	c.Update(shared.ReplyMsg{Exchange: ex, Reply: reply, Err: err})
}

func TestChatScreen_SendAndClear(t *testing.T) {
	sess, mock := readySession(t, llm.MockResponse{Content: "Hello there!"})
	c := New(sess)

	c.input.SetValue("hi")
	_, cmd := c.Update(enter())
	if cmd == nil || !c.Busy() {
		t.Fatal("expected busy with a command after Enter")
	}
	finish(t, c)

	hist := sess.ChatHistory()
	if len(hist) != 2 || hist[0].Content != "hi" || hist[1].Content != "Hello there!" {
		t.Fatalf("history = %+v", hist)
	}
	if !strings.HasSuffix(mock.LastPrompt(), "User: hi\n\nAssistant:") {
		t.Errorf("prompt = %q", mock.LastPrompt())
	}
	if c.input.Value() != "" {
		t.Error("input should clear after a reply")
	}
	if !strings.Contains(c.View(100, 40), "Hello there!") {
		t.Error("expected reply in view")
	}

	c.Update(tea.KeyPressMsg{Code: 'l', Mod: tea.ModCtrl})
	if len(sess.ChatHistory()) != 0 {
		t.Error("Ctrl+L should clear the chat")
	}
}

func TestChatScreen_EmptyMessageIgnored(t *testing.T) {
	sess, mock := readySession(t)
	c := New(sess)

	c.input.SetValue("   ")
	_, cmd := c.Update(enter())
	if cmd != nil || c.Busy() {
		t.Error("empty message should do nothing")
	}
	if mock.CallCount() != 0 {
		t.Error("model should not be called")
	}
}

func TestChatScreen_FailureKeepsInput(t *testing.T) {
	sess, _ := readySession(t)
	c := New(sess)

	c.input.SetValue("hi")
	c.Update(enter())
	finish(t, c)

	if !strings.HasPrefix(c.errMsg, "Error generating response:") {
		t.Errorf("errMsg = %q", c.errMsg)
	}
	if c.input.Value() != "hi" {
		t.Error("input should be kept so the user can retry")
	}
	if len(sess.ChatHistory()) != 0 {
		t.Error("failed call must not append turns")
	}
}

func TestChatScreen_ModelNotReady(t *testing.T) {
	c := New(session.New())
	if !strings.Contains(c.View(100, 40), "Model is not initialized") {
		t.Error("expected model-not-ready message")
	}
}
