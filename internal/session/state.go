// Package session holds the state of one study session: login, the API
// credential and its model client, the active mode, and what each mode
// remembers between model calls.
package session

import (
	"context"
	"maps"
	"slices"

	"github.com/abhisek/studytutor/internal/quiz"
)

// Role identifies who authored a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role
	Content string
}

// Mode is one of the three study modes.
type Mode int

const (
	ModeGuided Mode = iota
	ModePractice
	ModeChat
)

// Modes lists the modes in menu order.
var Modes = []Mode{ModeGuided, ModePractice, ModeChat}

// String returns the display name.
func (m Mode) String() string {
	switch m {
	case ModeGuided:
		return "Guided Learning"
	case ModePractice:
		return "Practice Tests"
	case ModeChat:
		return "Free Chat"
	default:
		return "Unknown"
	}
}

// Slug returns the short identifier used in logs and the usage log.
func (m Mode) Slug() string {
	switch m {
	case ModeGuided:
		return "guided"
	case ModePractice:
		return "practice"
	case ModeChat:
		return "chat"
	default:
		return "unknown"
	}
}

// Guided is the Socratic tutoring state. Changing Topic resets History.
type Guided struct {
	Topic   string
	History []Message
}

// Quiz is the practice test state. Answers maps question index to the
// selected option text, e.g. "B) Paris".
type Quiz struct {
	Questions []quiz.Question
	Answers   map[int]string
	Submitted bool
}

// Model is the text generator a session talks to once a credential has been
// accepted.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Connector initializes a Model from a credential. An error means the
// credential was not accepted.
type Connector func(ctx context.Context, secret string) (Model, error)

func cloneMessages(msgs []Message) []Message {
	return slices.Clone(msgs)
}

func cloneQuiz(q Quiz) Quiz {
	return Quiz{
		Questions: slices.Clone(q.Questions),
		Answers:   maps.Clone(q.Answers),
		Submitted: q.Submitted,
	}
}
