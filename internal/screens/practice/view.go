package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/studytutor/internal/mode"
	"github.com/abhisek/studytutor/internal/screens/shared"
	"github.com/abhisek/studytutor/internal/ui/components"
	"github.com/abhisek/studytutor/internal/ui/theme"
)

func (p *PracticeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	p.topic.SetWidth(cw - 8)

	var sections []string
	sections = append(sections, theme.Title.Render("Practice Tests"))
	sections = append(sections, theme.Subtitle.Render("Generate quizzes to test your knowledge on any topic."))

	if !p.sess.ModelReady() {
		sections = append(sections, components.Notice(mode.UserMessage(mode.ErrModelNotReady), "", true))
		return components.Centered(strings.Join(sections, "\n\n"), width, height)
	}

	sections = append(sections, components.Card(p.topic.View(), cw))

	if p.pending != nil {
		sections = append(sections, theme.Hint.Render(shared.SpinnerFrame(p.spin)+" Generating quiz..."))
	} else if p.errMsg != "" {
		sections = append(sections, components.Notice(p.errMsg, "", true))
	}

	if len(p.choices) > 0 {
		sections = append(sections, p.renderProgress(cw))
		sections = append(sections, p.renderPage(cw))
	}

	return components.Centered(strings.Join(sections, "\n\n"), width, height)
}

func (p *PracticeScreen) renderProgress(cw int) string {
	q := p.sess.Quiz()
	answered := len(q.Answers)
	label := fmt.Sprintf("Answered %d/%d", answered, len(q.Questions))
	bar := components.NewProgressBar(label, float64(answered)/float64(len(q.Questions)), false, cw)
	return bar.View()
}

func (p *PracticeScreen) renderPage(cw int) string {
	focused := p.focus == focusQuiz

	if p.current == len(p.choices) {
		var b strings.Builder
		if p.ctrl.Phase() == mode.PracticeGraded {
			g, _ := p.ctrl.Grade()
			b.WriteString(theme.Body.Render(fmt.Sprintf("Final Score: %d/%d", g.Score, g.Total)))
			b.WriteString("\n\n")
			b.WriteString(theme.Hint.Render("Press R to review the results."))
		} else {
			unanswered := len(p.choices) - len(p.sess.Quiz().Answers)
			if unanswered > 0 {
				b.WriteString(theme.Hint.Render(fmt.Sprintf("%d unanswered. Unanswered questions count as incorrect.", unanswered)))
				b.WriteString("\n\n")
			}
			b.WriteString(p.submit.View())
		}
		return components.Card(b.String(), cw)
	}

	heading := theme.Caption.Render(fmt.Sprintf("Question %d of %d", p.current+1, len(p.choices)))
	mc := p.choices[p.current]
	body := lipgloss.NewStyle().Width(cw - 8).Render(mc.View(focused))
	return components.Card(heading+"\n\n"+strings.TrimRight(body, "\n"), cw)
}
