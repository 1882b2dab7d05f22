package mode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studytutor/internal/llm"
	"github.com/abhisek/studytutor/internal/session"
)

// readySession returns a session connected to a mock model.
func readySession(t *testing.T, responses ...llm.MockResponse) (*session.AppSession, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	s := session.New()
	s.Authenticate()
	err := s.SetCredential(context.Background(), "test-key", func(context.Context, string) (session.Model, error) {
		return llm.NewClient(mock, llm.DefaultConfig()), nil
	})
	require.NoError(t, err)
	return s, mock
}

func quizReply(correct ...string) string {
	var blocks []string
	for i, c := range correct {
		blocks = append(blocks, fmt.Sprintf("Q%d: Question %d?\nA) a\nB) b\nC) c\nD) d\nCorrect: %s\nExplanation: e%d", i+1, i+1, c, i+1))
	}
	return strings.Join(blocks, "\n\n")
}

func providerFailure() llm.MockResponse {
	return llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("503")}}
}

func TestModelNotReady(t *testing.T) {
	s := session.New()
	ctx := context.Background()

	_, err := NewGuided(s).Start(ctx, "gravity")
	assert.ErrorIs(t, err, ErrModelNotReady)

	_, err = NewPractice(s).Generate(ctx, "gravity")
	assert.ErrorIs(t, err, ErrModelNotReady)

	_, err = NewChat(s).Send(ctx, "hi")
	assert.ErrorIs(t, err, ErrModelNotReady)

	assert.Contains(t, UserMessage(err), "Please enter a valid API key")
}

func TestGuided_StartAndReply(t *testing.T) {
	s, mock := readySession(t,
		llm.MockResponse{Content: "Gravity pulls. What falls faster?"},
		llm.MockResponse{Content: "Correct! Next question..."},
	)
	g := NewGuided(s)
	ctx := context.Background()

	assert.Equal(t, GuidedIdle, g.Phase())

	res, err := g.Start(ctx, "  gravity ")
	require.NoError(t, err)
	assert.Equal(t, HintConversation, res.Hint)
	assert.Equal(t, GuidedConversing, g.Phase())
	assert.Contains(t, mock.LastPrompt(), "The student wants to learn about: gravity")

	_, err = g.Reply(ctx, "Neither, same rate")
	require.NoError(t, err)

	hist := s.Guided().History
	require.Len(t, hist, 3)
	assert.Equal(t, session.RoleUser, hist[1].Role)
	assert.Equal(t, "Neither, same rate", hist[1].Content)
	assert.Equal(t, "Correct! Next question...", hist[2].Content)
	assert.Contains(t, mock.LastPrompt(), "Student: Neither, same rate")
	assert.Contains(t, mock.LastPrompt(), "Tutor: Gravity pulls. What falls faster?")
}

func TestGuided_FailedStartStaysAwaiting(t *testing.T) {
	s, _ := readySession(t, providerFailure(), llm.MockResponse{Content: "intro"})
	g := NewGuided(s)
	ctx := context.Background()

	_, err := g.Start(ctx, "optics")
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, GuidedAwaitingFirstResponse, g.Phase())
	assert.Contains(t, UserMessage(err), "Error generating response")

	_, err = g.Start(ctx, "optics")
	require.NoError(t, err)
	assert.Equal(t, GuidedConversing, g.Phase())
}

func TestGuided_FailedReplyDoesNotAppend(t *testing.T) {
	s, _ := readySession(t, llm.MockResponse{Content: "intro"}, providerFailure())
	g := NewGuided(s)
	ctx := context.Background()

	_, err := g.Start(ctx, "optics")
	require.NoError(t, err)

	_, err = g.Reply(ctx, "light bends")
	require.Error(t, err)
	assert.Len(t, s.Guided().History, 1)
}

func TestGuided_ReplyRequiresConversation(t *testing.T) {
	s, _ := readySession(t)
	g := NewGuided(s)

	_, err := g.Reply(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotConversing)

	_, err = g.Start(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyTopic)
}

func TestGuided_RestartResetsHistory(t *testing.T) {
	s, _ := readySession(t,
		llm.MockResponse{Content: "intro 1"},
		llm.MockResponse{Content: "follow up"},
		llm.MockResponse{Content: "intro 2"},
	)
	g := NewGuided(s)
	ctx := context.Background()

	_, _ = g.Start(ctx, "cells")
	_, _ = g.Reply(ctx, "mitochondria")
	require.Len(t, s.Guided().History, 3)

	_, err := g.Start(ctx, "cells")
	require.NoError(t, err)
	hist := s.Guided().History
	require.Len(t, hist, 1)
	assert.Equal(t, "intro 2", hist[0].Content)
}

func TestPractice_GenerateSubmitRegenerate(t *testing.T) {
	s, mock := readySession(t,
		llm.MockResponse{Content: quizReply("B", "A", "C", "D", "A")},
		llm.MockResponse{Content: quizReply("A", "A")},
	)
	p := NewPractice(s)
	ctx := context.Background()

	assert.Equal(t, PracticeNoQuiz, p.Phase())

	res, err := p.Generate(ctx, "rivers")
	require.NoError(t, err)
	assert.Equal(t, HintQuiz, res.Hint)
	assert.Equal(t, PracticePresented, p.Phase())
	assert.Contains(t, mock.LastPrompt(), "Generate exactly 5 multiple-choice questions about: rivers")

	p.Answer(0, "B) b")
	p.Answer(1, "C) c")
	p.Answer(2, "C) c")

	res, err = p.Submit()
	require.NoError(t, err)
	require.NotNil(t, res.Grade)
	assert.Equal(t, PracticeGraded, p.Phase())
	assert.Equal(t, 2, res.Grade.Score)
	assert.Equal(t, 5, res.Grade.Total)
	assert.True(t, res.Grade.Items[0].Correct)
	assert.False(t, res.Grade.Items[1].Correct)
	assert.False(t, res.Grade.Items[4].Correct)
	assert.Contains(t, res.Grade.Verdict, "Keep studying")

	// Answers are frozen after grading.
	p.Answer(1, "A) a")
	g, ok := p.Grade()
	require.True(t, ok)
	assert.Equal(t, 2, g.Score)

	_, err = p.Generate(ctx, "lakes")
	require.NoError(t, err)
	assert.Equal(t, PracticePresented, p.Phase())
	q := s.Quiz()
	assert.Len(t, q.Questions, 2)
	assert.Empty(t, q.Answers)
	assert.False(t, q.Submitted)
}

func TestPractice_UnparsableReply(t *testing.T) {
	s, _ := readySession(t,
		llm.MockResponse{Content: quizReply("A")},
		llm.MockResponse{Content: "I cannot make a quiz about that."},
	)
	p := NewPractice(s)
	ctx := context.Background()

	_, err := p.Generate(ctx, "x")
	require.NoError(t, err)

	res, err := p.Generate(ctx, "y")
	require.NoError(t, err)
	assert.Equal(t, HintNoQuestions, res.Hint)
	assert.Equal(t, PracticeNoQuiz, p.Phase())
}

func TestPractice_FailureKeepsPreviousQuiz(t *testing.T) {
	s, _ := readySession(t, llm.MockResponse{Content: quizReply("A", "B")}, providerFailure())
	p := NewPractice(s)
	ctx := context.Background()

	_, err := p.Generate(ctx, "x")
	require.NoError(t, err)

	_, err = p.Generate(ctx, "y")
	require.Error(t, err)
	assert.Contains(t, UserMessage(err), "Error generating quiz")
	assert.Len(t, s.Quiz().Questions, 2)
}

func TestPractice_SubmitWithoutQuiz(t *testing.T) {
	s, _ := readySession(t)
	_, err := NewPractice(s).Submit()
	assert.ErrorIs(t, err, ErrNoQuiz)
}

func TestChat_SendAndClear(t *testing.T) {
	s, mock := readySession(t, llm.MockResponse{Content: "Hello!"}, providerFailure())
	c := NewChat(s)
	ctx := context.Background()

	res, err := c.Send(ctx, "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello!", res.Reply)
	assert.True(t, strings.HasSuffix(mock.LastPrompt(), "User: hi\n\nAssistant:"))

	_, err = c.Send(ctx, "again")
	require.Error(t, err)
	assert.Len(t, s.ChatHistory(), 2)

	assert.Equal(t, HintCleared, c.Clear().Hint)
	assert.Empty(t, s.ChatHistory())
}

func TestExchange_StaleAfterLogout(t *testing.T) {
	s, _ := readySession(t, llm.MockResponse{Content: "late reply"})
	c := NewChat(s)
	ctx := context.Background()

	ex, err := c.PrepareSend("hi")
	require.NoError(t, err)
	reply, err := ex.Generate(ctx)
	require.NoError(t, err)

	s.Logout()

	_, err = ex.Commit(reply)
	assert.ErrorIs(t, err, ErrStaleReply)
	assert.Empty(t, s.ChatHistory())
}

func TestExchange_TagsPurposeAndSession(t *testing.T) {
	var gotPurpose, gotSession string
	s := session.New()
	require.NoError(t, s.SetCredential(context.Background(), "k", func(context.Context, string) (session.Model, error) {
		return modelFunc(func(ctx context.Context, _ string) (string, error) {
			gotPurpose = llm.PurposeFrom(ctx)
			gotSession = llm.SessionIDFrom(ctx)
			return "ok", nil
		}), nil
	}))

	_, err := NewChat(s).Send(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, llm.PurposeChat, gotPurpose)
	assert.Equal(t, s.ID(), gotSession)
}

type modelFunc func(ctx context.Context, prompt string) (string, error)

func (f modelFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
