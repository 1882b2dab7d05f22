package usage

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studytutor/internal/store"
)

func testRepo(t *testing.T) store.EventRepo {
	t.Helper()
	st, err := store.Open(store.MemoryDSN)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st.EventRepo()
}

func load(t *testing.T, s *UsageScreen) {
	t.Helper()
	msg := s.Init()()
	s.Update(msg)
	if s.errMsg != "" {
		t.Fatalf("load failed: %s", s.errMsg)
	}
}

func TestUsageScreen_Empty(t *testing.T) {
	s := New(testRepo(t), "sess-1")
	if !strings.Contains(s.View(100, 30), "Loading usage") {
		t.Error("expected loading text before Init completes")
	}
	load(t, s)
	if !strings.Contains(s.View(100, 30), "No model calls yet") {
		t.Error("expected empty-state text")
	}
}

func TestUsageScreen_ShowsCallsAndScores(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	for _, e := range []store.LLMRequestEventData{
		{SessionID: "sess-1", Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "quiz", InputTokens: 100, OutputTokens: 400, LatencyMs: 900, Success: true},
		{SessionID: "sess-1", Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "chat", LatencyMs: 50, ErrorMessage: "rate limited"},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []store.SessionEventData{
		{SessionID: "sess-1", Action: store.ActionQuizGraded, Mode: "practice", Detail: "fractions", Score: 4, Total: 5},
		{SessionID: "sess-2", Action: store.ActionQuizGraded, Mode: "practice", Detail: "other session", Score: 1, Total: 5},
		{SessionID: "sess-1", Action: store.ActionLogin},
	} {
		if err := repo.AppendSessionEvent(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	s := New(repo, "sess-1")
	load(t, s)

	if len(s.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(s.calls))
	}
	if len(s.quizzes) != 1 {
		t.Fatalf("quizzes = %d, want 1", len(s.quizzes))
	}

	view := s.View(120, 40)
	for _, want := range []string{"gemini-2.5-flash", "fractions", "4/5", "failed", "Estimated cost"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "other session") {
		t.Error("scores from other sessions should be hidden")
	}

	// Newest first: the failed chat call is selected; expand it.
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(120, 40), "rate limited") {
		t.Error("expected error detail when expanded")
	}
}

func TestUsageScreen_Navigation(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	for range 3 {
		_ = repo.AppendLLMRequest(ctx, store.LLMRequestEventData{Model: "mock", Purpose: "chat", Success: true})
	}
	s := New(repo, "")
	load(t, s)

	for range 5 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	if s.selected != 2 {
		t.Errorf("selected = %d, want 2", s.selected)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Errorf("truncate = %q", got)
	}
}
