package mode

import (
	"errors"
	"fmt"

	"github.com/abhisek/studytutor/internal/llm"
)

var (
	// ErrModelNotReady is returned when no model client is connected.
	ErrModelNotReady = errors.New("model is not initialized")

	// ErrStaleReply is returned when a reply arrives after the model client
	// it was requested from has been torn down.
	ErrStaleReply = errors.New("reply belongs to a previous session")

	ErrEmptyTopic   = errors.New("topic is empty")
	ErrEmptyMessage = errors.New("message is empty")

	// ErrNotConversing is returned for a guided reply before the tutor has
	// spoken.
	ErrNotConversing = errors.New("guided session has not started")

	// ErrNoQuiz is returned when submitting without a quiz.
	ErrNoQuiz = errors.New("no quiz to submit")
)

// ProviderError wraps a failure from the model client. The action that
// caused it did not change the session.
type ProviderError struct {
	Purpose string
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Purpose, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// UserMessage renders err as the inline text shown to the user.
func UserMessage(err error) string {
	var pe *ProviderError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrModelNotReady):
		return "Model is not initialized. Please enter a valid API key to continue."
	case errors.As(err, &pe):
		if pe.Purpose == llm.PurposeQuiz {
			return fmt.Sprintf("Error generating quiz: %v", pe.Err)
		}
		return fmt.Sprintf("Error generating response: %v", pe.Err)
	case errors.Is(err, ErrEmptyTopic):
		return "Enter a topic first."
	case errors.Is(err, ErrEmptyMessage):
		return "Type a message first."
	case errors.Is(err, ErrNotConversing):
		return "Start a topic before replying."
	case errors.Is(err, ErrNoQuiz):
		return "Generate a quiz first."
	default:
		return err.Error()
	}
}
