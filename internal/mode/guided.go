package mode

import (
	"context"
	"strings"

	"github.com/abhisek/studytutor/internal/conversation"
	"github.com/abhisek/studytutor/internal/llm"
	"github.com/abhisek/studytutor/internal/session"
)

// GuidedPhase is the state of a guided learning session.
type GuidedPhase int

const (
	GuidedIdle                  GuidedPhase = iota // no topic
	GuidedAwaitingFirstResponse                    // topic set, tutor has not spoken
	GuidedConversing                               // tutor has spoken at least once
)

// Guided drives Socratic tutoring on a topic.
type Guided struct {
	s *session.AppSession
}

// NewGuided returns a guided learning controller for s.
func NewGuided(s *session.AppSession) *Guided {
	return &Guided{s: s}
}

// Phase derives the current phase from the session.
func (g *Guided) Phase() GuidedPhase {
	st := g.s.Guided()
	switch {
	case st.Topic == "":
		return GuidedIdle
	case len(st.History) == 0:
		return GuidedAwaitingFirstResponse
	default:
		return GuidedConversing
	}
}

// SetTopic stores the topic being typed. A different topic discards the
// conversation.
func (g *Guided) SetTopic(topic string) {
	g.s.SetGuidedTopic(strings.TrimSpace(topic))
}

// PrepareIntro starts over on topic and builds the introduction request.
func (g *Guided) PrepareIntro(topic string) (*Exchange, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if !g.s.ModelReady() {
		return nil, ErrModelNotReady
	}

	g.s.SetGuidedTopic(topic)
	g.s.ResetGuidedHistory()

	prompt := conversation.BuildGuidedPrompt(topic, nil)
	return newExchange(g.s, llm.PurposeGuided, prompt, func(reply string) Result {
		g.s.AppendGuidedTurn(session.RoleAssistant, reply)
		return Result{Hint: HintConversation, Reply: reply}
	})
}

// PrepareReply builds the continuation request for the student's answer.
// Both turns are appended only when the model replies.
func (g *Guided) PrepareReply(answer string) (*Exchange, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, ErrEmptyMessage
	}
	if !g.s.ModelReady() {
		return nil, ErrModelNotReady
	}
	if g.Phase() != GuidedConversing {
		return nil, ErrNotConversing
	}

	st := g.s.Guided()
	history := append(st.History, session.Message{Role: session.RoleUser, Content: answer})
	prompt := conversation.BuildGuidedPrompt(st.Topic, history)

	return newExchange(g.s, llm.PurposeGuided, prompt, func(reply string) Result {
		g.s.AppendGuidedTurn(session.RoleUser, answer)
		g.s.AppendGuidedTurn(session.RoleAssistant, reply)
		return Result{Hint: HintConversation, Reply: reply}
	})
}

// Start requests the introduction for topic and waits for it.
func (g *Guided) Start(ctx context.Context, topic string) (Result, error) {
	ex, err := g.PrepareIntro(topic)
	return prepareAndRun(ctx, ex, err)
}

// Reply sends the student's answer and waits for the tutor.
func (g *Guided) Reply(ctx context.Context, answer string) (Result, error) {
	ex, err := g.PrepareReply(answer)
	return prepareAndRun(ctx, ex, err)
}
