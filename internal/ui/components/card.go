package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studytutor/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for centered sections.
func ContentWidth(frameWidth int) int {
	// Leave room for border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Padding(1, 2).
		Render(content)
}

// Centered places content in the middle of the given area.
func Centered(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Notice renders an inline message: errors in red, the optional details
// line dimmed underneath.
func Notice(msg, details string, isErr bool) string {
	if msg == "" {
		return ""
	}
	style := theme.Body
	if isErr {
		style = theme.ErrorText
	}
	out := style.Render(msg)
	if details != "" {
		out += "\n" + theme.Caption.Render(details)
	}
	return out
}
