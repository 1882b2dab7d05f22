// Package conversation renders session history into model prompts.
package conversation

import (
	"fmt"
	"strings"

	"github.com/abhisek/studytutor/internal/session"
)

// DefaultWindow is how many recent chat messages are sent with each prompt.
const DefaultWindow = 10

const guidedIntro = `You are a Socratic tutor. The student wants to learn about: %s

Your task is to:
1. Explain the topic in small, digestible steps
2. After each explanation, ask the student a question to verify their understanding
3. Wait for their response before moving to the next concept
4. If they answer incorrectly, gently guide them to the correct understanding
5. Be encouraging and supportive

Start by introducing the topic and explaining the first concept, then ask a question.`

const guidedContinuation = `Continue as a Socratic tutor. Based on the student's response:
- If correct, praise them and move to the next concept with a new question
- If incorrect, gently guide them toward understanding
- Keep explanations concise and ask questions to verify understanding`

const chatPreamble = "You are a helpful AI assistant. Continue the conversation naturally."

// BuildGuidedPrompt returns the introduction prompt for topic when history is
// empty, otherwise the full transcript followed by the continuation
// instructions.
func BuildGuidedPrompt(topic string, history []session.Message) string {
	if len(history) == 0 {
		return fmt.Sprintf(guidedIntro, topic)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n\n", topic)
	for _, m := range history {
		speaker := "Student"
		if m.Role == session.RoleAssistant {
			speaker = "Tutor"
		}
		fmt.Fprintf(&b, "%s: %s\n\n", speaker, m.Content)
	}
	b.WriteString("\n")
	b.WriteString(guidedContinuation)
	return b.String()
}

// BuildChatPrompt serializes the last window messages of history and ends
// with an "Assistant:" cue. A non-positive window means DefaultWindow.
func BuildChatPrompt(history []session.Message, window int) string {
	if window <= 0 {
		window = DefaultWindow
	}
	if len(history) > window {
		history = history[len(history)-window:]
	}

	var b strings.Builder
	b.WriteString(chatPreamble)
	b.WriteString("\n\n")
	for _, m := range history {
		speaker := "User"
		if m.Role == session.RoleAssistant {
			speaker = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n\n", speaker, m.Content)
	}
	b.WriteString("Assistant:")
	return b.String()
}
