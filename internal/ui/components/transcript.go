package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studytutor/internal/session"
	"github.com/abhisek/studytutor/internal/ui/theme"
)

// Transcript renders a conversation with speaker labels, keeping only the
// newest lines that fit in height.
type Transcript struct {
	Messages       []session.Message
	AssistantLabel string
	UserLabel      string
}

// View renders the transcript wrapped to width. A non-positive height
// renders everything.
func (t Transcript) View(width, height int) string {
	if width < 10 {
		width = 10
	}
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(width)

	var lines []string
	for _, m := range t.Messages {
		label := theme.Learner.Render(t.UserLabel + ":")
		if m.Role == session.RoleAssistant {
			label = theme.Tutor.Render(t.AssistantLabel + ":")
		}
		lines = append(lines, label)
		lines = append(lines, strings.Split(body.Render(strings.TrimSpace(m.Content)), "\n")...)
		lines = append(lines, "")
	}

	if height > 0 && len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	if len(lines) == 0 {
		return ""
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}
