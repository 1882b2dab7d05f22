package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryDSN)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
	if s.EventRepo() == nil {
		t.Fatal("expected non-nil event repo")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	var got string
	if err := s.DB().QueryRow("PRAGMA synchronous").Scan(&got); err != nil {
		t.Fatalf("PRAGMA synchronous: %v", err)
	}
	// WAL mode falls back to "memory" for in-memory databases, so only
	// synchronous is checked here.
	if got != "1" { // NORMAL = 1
		t.Errorf("PRAGMA synchronous = %q, want %q", got, "1")
	}
}

func TestMemoryStoresAreIsolated(t *testing.T) {
	ctx := context.Background()
	a := openTestStore(t)
	b := openTestStore(t)

	if err := a.EventRepo().AppendSessionEvent(ctx, SessionEventData{SessionID: "s", Action: ActionLogin}); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := b.EventRepo().QuerySessionEvents(ctx, "", QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("second store sees %d events, want 0", len(events))
	}
}

func TestFileStorePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "usage.db")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "chat", Success: true}); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	events, err := s.EventRepo().QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events after reopen, want 1", len(events))
	}

	// The sequence counter survives the reopen.
	if err := s.EventRepo().AppendSessionEvent(ctx, SessionEventData{SessionID: "x", Action: ActionLogin}); err != nil {
		t.Fatalf("append session: %v", err)
	}
	sess, _ := s.EventRepo().QuerySessionEvents(ctx, "x", QueryOpts{})
	if len(sess) != 1 || sess[0].Sequence <= events[0].Sequence {
		t.Errorf("session event sequence = %v, want > %d", sess, events[0].Sequence)
	}
}

func TestLLMEventRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	in := LLMRequestEventData{
		SessionID:    "sess-1",
		Provider:     "gemini",
		Model:        "gemini-2.5-flash",
		Purpose:      "quiz",
		InputTokens:  120,
		OutputTokens: 340,
		LatencyMs:    900,
		Success:      false,
		ErrorMessage: "rate limited",
		RequestBody:  "[user]\nmake a quiz",
		ResponseBody: "",
	}
	if err := repo.AppendLLMRequest(ctx, in); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	got, err := repo.GetLLMEvent(ctx, events[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LLMRequestEventData != in {
		t.Errorf("event = %+v, want %+v", got.LLMRequestEventData, in)
	}
	if got.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestGetLLMEventNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.EventRepo().GetLLMEvent(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestQueryLLMEventsOrderingAndLimit(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, purpose := range []string{"guided", "quiz", "chat"} {
		if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: purpose, Success: true}); err != nil {
			t.Fatalf("append %s: %v", purpose, err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Purpose != "chat" || events[1].Purpose != "quiz" {
		t.Errorf("order = %s, %s; want chat, quiz", events[0].Purpose, events[1].Purpose)
	}

	older, err := repo.QueryLLMEvents(ctx, QueryOpts{Before: events[1].Sequence})
	if err != nil {
		t.Fatalf("query before: %v", err)
	}
	if len(older) != 1 || older[0].Purpose != "guided" {
		t.Errorf("before filter returned %+v", older)
	}
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	calls := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "chat", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "chat", InputTokens: 30, OutputTokens: 40, LatencyMs: 300, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "quiz", InputTokens: 5, OutputTokens: 500, LatencyMs: 1000, Success: true},
	}
	for _, c := range calls {
		if err := repo.AppendLLMRequest(ctx, c); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	chat := byPurpose[0]
	if chat.Purpose != "chat" || chat.Calls != 2 || chat.InputTokens != 40 || chat.OutputTokens != 60 || chat.AvgLatencyMs != 200 {
		t.Errorf("chat usage = %+v", chat)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("by model: %v", err)
	}
	if len(byModel) != 2 || byModel[1].Model != "gpt-4o-mini" || byModel[1].OutputTokens != 500 {
		t.Errorf("model usage = %+v", byModel)
	}
}

func TestSessionEventsFilterBySession(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []SessionEventData{
		{SessionID: "a", Action: ActionLogin},
		{SessionID: "a", Action: ActionCredentialSet, Detail: "gemini"},
		{SessionID: "b", Action: ActionLogin},
		{SessionID: "a", Action: ActionQuizGraded, Mode: "practice", Score: 4, Total: 5},
	}
	for _, e := range events {
		if err := repo.AppendSessionEvent(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QuerySessionEvents(ctx, "a", QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d events for a, want 3", len(got))
	}
	if got[0].Action != ActionQuizGraded || got[0].Score != 4 || got[0].Total != 5 {
		t.Errorf("newest event = %+v", got[0])
	}
	for i := 1; i < len(got); i++ {
		if got[i].Sequence >= got[i-1].Sequence {
			t.Errorf("events not newest-first at %d", i)
		}
	}

	all, err := repo.QuerySessionEvents(ctx, "", QueryOpts{})
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("got %d events total, want 4", len(all))
	}
}
