package session

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/studytutor/internal/quiz"
)

// AppSession is the whole state of one user's session. It is not safe for
// concurrent use; the UI mutates it from a single goroutine.
type AppSession struct {
	id    string
	epoch uint64

	authenticated bool
	credential    string
	model         Model

	mode   Mode
	guided Guided
	quiz   Quiz
	chat   []Message
}

// New returns a freshly initialized session.
func New() *AppSession {
	return &AppSession{id: uuid.NewString()}
}

// ID identifies the session in the usage log. Logout issues a new one.
func (s *AppSession) ID() string { return s.id }

// Epoch changes whenever the model client is torn down. A reply computed
// under an older epoch must be dropped.
func (s *AppSession) Epoch() uint64 { return s.epoch }

func (s *AppSession) Authenticated() bool { return s.authenticated }

// Authenticate marks the session as past the login gate.
func (s *AppSession) Authenticate() { s.authenticated = true }

// HasCredential reports whether an API key has been accepted.
func (s *AppSession) HasCredential() bool { return s.credential != "" }

// ModelReady reports whether a model client is connected.
func (s *AppSession) ModelReady() bool { return s.model != nil }

// Model returns the connected model client, or nil.
func (s *AppSession) Model() Model { return s.model }

func (s *AppSession) Mode() Mode { return s.mode }

// SetMode switches the active mode. Other modes keep their state.
func (s *AppSession) SetMode(m Mode) { s.mode = m }

// SetCredential connects a model client with secret. Surrounding whitespace
// is ignored. On failure the credential and model client are both cleared.
func (s *AppSession) SetCredential(ctx context.Context, secret string, connect Connector) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ErrInvalidCredential
	}
	epoch := s.epoch
	m, err := connect(ctx, secret)
	return s.CommitCredential(epoch, secret, m, err)
}

// CommitCredential applies the outcome of a connect attempt started under
// epoch. It is the second half of SetCredential for callers that connect off
// the UI goroutine. A stale epoch leaves the session untouched.
func (s *AppSession) CommitCredential(epoch uint64, secret string, m Model, connectErr error) error {
	if epoch != s.epoch {
		return nil
	}
	secret = strings.TrimSpace(secret)
	if connectErr == nil && (secret == "" || m == nil) {
		connectErr = ErrInvalidCredential
	}
	if connectErr != nil {
		s.ClearCredential()
		if connectErr == ErrInvalidCredential {
			return ErrInvalidCredential
		}
		return &InvalidCredentialError{Err: connectErr}
	}
	s.credential = secret
	s.model = m
	return nil
}

// ClearCredential drops the API key and the model client together.
func (s *AppSession) ClearCredential() {
	s.credential = ""
	s.model = nil
	s.epoch++
}

// Guided returns a copy of the guided learning state.
func (s *AppSession) Guided() Guided {
	return Guided{Topic: s.guided.Topic, History: cloneMessages(s.guided.History)}
}

// SetGuidedTopic stores topic, discarding the history if the topic changed.
func (s *AppSession) SetGuidedTopic(topic string) {
	if topic != s.guided.Topic {
		s.guided.History = nil
	}
	s.guided.Topic = topic
}

// ResetGuidedHistory empties the guided history while keeping the topic.
func (s *AppSession) ResetGuidedHistory() {
	s.guided.History = nil
}

// AppendGuidedTurn adds a turn to the guided history.
func (s *AppSession) AppendGuidedTurn(role Role, content string) {
	s.guided.History = append(s.guided.History, Message{Role: role, Content: content})
}

// Quiz returns a copy of the practice test state.
func (s *AppSession) Quiz() Quiz {
	return cloneQuiz(s.quiz)
}

// RegenerateQuiz replaces the quiz and clears answers and submission.
func (s *AppSession) RegenerateQuiz(questions []quiz.Question) {
	s.quiz = Quiz{
		Questions: append([]quiz.Question(nil), questions...),
		Answers:   map[int]string{},
	}
}

// RecordAnswer stores the selected option for question index. It is ignored
// once the quiz is submitted or when index is out of range.
func (s *AppSession) RecordAnswer(index int, option string) {
	if s.quiz.Submitted || index < 0 || index >= len(s.quiz.Questions) {
		return
	}
	if s.quiz.Answers == nil {
		s.quiz.Answers = map[int]string{}
	}
	s.quiz.Answers[index] = option
}

// SubmitQuiz marks the quiz as submitted. Calling it again has no effect.
func (s *AppSession) SubmitQuiz() {
	s.quiz.Submitted = true
}

// ChatHistory returns a copy of the free chat history.
func (s *AppSession) ChatHistory() []Message {
	return cloneMessages(s.chat)
}

// AppendChatTurn adds a turn to the free chat history.
func (s *AppSession) AppendChatTurn(role Role, content string) {
	s.chat = append(s.chat, Message{Role: role, Content: content})
}

// ClearChat empties the free chat history.
func (s *AppSession) ClearChat() {
	s.chat = nil
}

// Logout returns the session to its freshly initialized state under a new
// ID. The epoch advances so in-flight replies are discarded.
func (s *AppSession) Logout() {
	*s = AppSession{
		id:    uuid.NewString(),
		epoch: s.epoch + 1,
	}
}
