// Package results shows a graded practice test.
package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studytutor/internal/mode"
	"github.com/abhisek/studytutor/internal/router"
	"github.com/abhisek/studytutor/internal/screen"
	"github.com/abhisek/studytutor/internal/ui/components"
	"github.com/abhisek/studytutor/internal/ui/layout"
	"github.com/abhisek/studytutor/internal/ui/theme"
)

// ResultsScreen lists each question with its verdict and explanation.
type ResultsScreen struct {
	grade  mode.Grade
	offset int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a ResultsScreen for g.
func New(g mode.Grade) *ResultsScreen {
	return &ResultsScreen{grade: g}
}

func (r *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (r *ResultsScreen) Title() string {
	return "Results"
}

func (r *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (r *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter":
			return r, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if r.offset > 0 {
				r.offset--
			}
		case "down", "j":
			r.offset++
		case "home", "g":
			r.offset = 0
		}
	}
	return r, nil
}

func (r *ResultsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	g := r.grade

	var b strings.Builder
	b.WriteString(theme.Title.Render("Results"))
	b.WriteString("\n\n")

	for i, item := range g.Items {
		q := item.Question
		if item.Correct {
			b.WriteString(theme.Correct.Render(fmt.Sprintf("Q%d: ✓ Correct!", i+1)))
		} else {
			b.WriteString(theme.Incorrect.Render(fmt.Sprintf("Q%d: ✗ Incorrect. The correct answer is %s)", i+1, q.Correct)))
		}
		b.WriteString("\n")
		b.WriteString(theme.Body.Width(cw).Render(q.Text))
		b.WriteString("\n")
		answer := item.Answer
		if answer == "" {
			answer = "(no answer)"
		}
		b.WriteString(theme.Caption.Render("Your answer: " + answer))
		b.WriteString("\n")
		b.WriteString(theme.Hint.Width(cw).Render("Explanation: " + q.Explanation))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Final Score: %d/%d", g.Score, g.Total)))
	b.WriteString("\n")
	b.WriteString(verdictStyle(g).Render(g.Verdict))

	lines := strings.Split(b.String(), "\n")
	r.offset = clampOffset(r.offset, len(lines), height)
	visible := lines[r.offset:]
	if height > 0 && len(visible) > height {
		visible = visible[:height]
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(cw).Render(strings.Join(visible, "\n")))
}

// verdictStyle colors the verdict: green for a passing score, amber below.
func verdictStyle(g mode.Grade) lipgloss.Style {
	if g.Score >= 3 {
		return lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
}

func clampOffset(offset, lines, height int) int {
	maxOffset := lines - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if offset > maxOffset {
		return maxOffset
	}
	if offset < 0 {
		return 0
	}
	return offset
}
