package mode

import (
	"context"
	"strings"

	"github.com/abhisek/studytutor/internal/conversation"
	"github.com/abhisek/studytutor/internal/llm"
	"github.com/abhisek/studytutor/internal/session"
)

// Chat drives open-ended conversation.
type Chat struct {
	s      *session.AppSession
	window int
}

// NewChat returns a free chat controller for s using the default context
// window.
func NewChat(s *session.AppSession) *Chat {
	return &Chat{s: s, window: conversation.DefaultWindow}
}

// PrepareSend builds the request for a new user message. Both turns are
// appended only when the model replies.
func (c *Chat) PrepareSend(text string) (*Exchange, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	history := append(c.s.ChatHistory(), session.Message{Role: session.RoleUser, Content: text})
	prompt := conversation.BuildChatPrompt(history, c.window)

	return newExchange(c.s, llm.PurposeChat, prompt, func(reply string) Result {
		c.s.AppendChatTurn(session.RoleUser, text)
		c.s.AppendChatTurn(session.RoleAssistant, reply)
		return Result{Hint: HintConversation, Reply: reply}
	})
}

// Send posts text and waits for the reply.
func (c *Chat) Send(ctx context.Context, text string) (Result, error) {
	ex, err := c.PrepareSend(text)
	return prepareAndRun(ctx, ex, err)
}

// Clear empties the chat history.
func (c *Chat) Clear() Result {
	c.s.ClearChat()
	return Result{Hint: HintCleared}
}
