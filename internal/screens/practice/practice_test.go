package practice

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studytutor/internal/llm"
	"github.com/abhisek/studytutor/internal/router"
	"github.com/abhisek/studytutor/internal/screens/shared"
	"github.com/abhisek/studytutor/internal/session"
	"github.com/abhisek/studytutor/internal/store"
)

type recordingRepo struct {
	store.EventRepo
	sessionEvents []store.SessionEventData
}

func (r *recordingRepo) AppendSessionEvent(_ context.Context, data store.SessionEventData) error {
	r.sessionEvents = append(r.sessionEvents, data)
	return nil
}

func readySession(t *testing.T, responses ...llm.MockResponse) *session.AppSession {
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
	return s
}

func quizReply(correct ...string) string {
	var blocks []string
	for i, c := range correct {
		blocks = append(blocks, fmt.Sprintf("Q%d: Question %d?\nA) a\nB) b\nC) c\nD) d\nCorrect: %s\nExplanation: e%d", i+1, i+1, c, i+1))
	}
	return strings.Join(blocks, "\n\n")
}

func keyPress(r rune) tea.KeyPressMsg      { return tea.KeyPressMsg{Code: r, Text: string(r)} }
func specialKey(code rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: code} }

func finish(t *testing.T, p *PracticeScreen) {
	t.Helper()
	if p.pending == nil {
		t.Fatal("expected a pending exchange")
	}
	ex := p.pending
	reply, err := ex.Generate(context.Background())
	p.Update(shared.ReplyMsg{Exchange: ex, Reply: reply, Err: err})
}

// runCmds executes cmd and any batched commands, returning their messages.
func runCmds(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmds(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func generated(t *testing.T, reply string) (*PracticeScreen, *session.AppSession, *recordingRepo) {
	t.Helper()
	sess := readySession(t, llm.MockResponse{Content: reply})
	repo := &recordingRepo{}
	p := New(sess, repo)
	p.topic.SetValue("fractions")
	p.Update(specialKey(tea.KeyEnter))
	finish(t, p)
	return p, sess, repo
}

func TestPracticeScreen_GenerateQuiz(t *testing.T) {
	p, sess, _ := generated(t, quizReply("A", "B", "C", "D", "A"))

	if len(sess.Quiz().Questions) != 5 {
		t.Fatalf("questions = %d, want 5", len(sess.Quiz().Questions))
	}
	if p.focus != focusQuiz {
		t.Error("focus should move to the quiz")
	}
	if !strings.Contains(p.View(100, 50), "Question 1 of 5") {
		t.Error("expected first question in view")
	}
}

func TestPracticeScreen_NoQuestions(t *testing.T) {
	p, sess, _ := generated(t, "Sorry, I can't help with that.")

	if len(sess.Quiz().Questions) != 0 {
		t.Error("expected an empty quiz")
	}
	if p.errMsg != noQuestionsMsg {
		t.Errorf("errMsg = %q", p.errMsg)
	}
	if p.focus != focusTopic {
		t.Error("focus should stay on the topic")
	}
}

func TestPracticeScreen_AnswerAndSubmit(t *testing.T) {
	p, sess, repo := generated(t, quizReply("A", "B", "C", "D", "A"))

	// Q1 correct, Q2 wrong, rest unanswered.
	p.Update(keyPress('a'))
	p.Update(specialKey(tea.KeyRight))
	p.Update(keyPress('c'))

	answers := sess.Quiz().Answers
	if answers[0] != "A) a" || answers[1] != "C) c" {
		t.Fatalf("answers = %v", answers)
	}

	_, cmd := p.Update(keyPress('s'))
	if !sess.Quiz().Submitted {
		t.Fatal("expected quiz to be submitted")
	}

	var pushed bool
	for _, msg := range runCmds(cmd) {
		if push, ok := msg.(router.PushScreenMsg); ok {
			pushed = true
			if push.Screen.Title() != "Results" {
				t.Errorf("pushed %q, want Results", push.Screen.Title())
			}
		}
	}
	if !pushed {
		t.Error("expected results screen to be pushed")
	}

	if len(repo.sessionEvents) != 1 {
		t.Fatalf("session events = %d, want 1", len(repo.sessionEvents))
	}
	ev := repo.sessionEvents[0]
	if ev.Action != store.ActionQuizGraded || ev.Score != 1 || ev.Total != 5 || ev.Detail != "fractions" {
		t.Errorf("event = %+v", ev)
	}

	// Answers are frozen after submit.
	p.Update(specialKey(tea.KeyLeft))
	p.Update(keyPress('b'))
	if sess.Quiz().Answers[0] != "A) a" {
		t.Error("answers must not change after submit")
	}
}

func TestPracticeScreen_SubmitButton(t *testing.T) {
	p, sess, _ := generated(t, quizReply("A", "B"))

	p.Update(specialKey(tea.KeyRight))
	p.Update(specialKey(tea.KeyRight))
	if p.current != len(p.choices) {
		t.Fatalf("current = %d, want submit page", p.current)
	}
	if !strings.Contains(p.View(100, 50), "Submit Answers") {
		t.Error("expected submit button")
	}

	p.Update(specialKey(tea.KeyEnter))
	if !sess.Quiz().Submitted {
		t.Error("Enter on the submit page should grade the quiz")
	}
}

func TestPracticeScreen_TabTogglesFocus(t *testing.T) {
	p, _, _ := generated(t, quizReply("A"))

	p.Update(specialKey(tea.KeyTab))
	if p.focus != focusTopic {
		t.Error("Tab should focus the topic")
	}
	p.Update(specialKey(tea.KeyTab))
	if p.focus != focusQuiz {
		t.Error("Tab should return to the quiz")
	}
}

func TestPracticeScreen_ProviderError(t *testing.T) {
	sess := readySession(t, llm.MockResponse{Err: fmt.Errorf("boom")})
	p := New(sess, nil)
	p.topic.SetValue("fractions")
	p.Update(specialKey(tea.KeyEnter))
	finish(t, p)

	if !strings.HasPrefix(p.errMsg, "Error generating quiz:") {
		t.Errorf("errMsg = %q", p.errMsg)
	}
}
