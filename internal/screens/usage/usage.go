// Package usage shows model calls and quiz scores from the usage log.
package usage

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/studytutor/internal/llm"
	"github.com/abhisek/studytutor/internal/screen"
	"github.com/abhisek/studytutor/internal/store"
	"github.com/abhisek/studytutor/internal/ui/layout"
	"github.com/abhisek/studytutor/internal/ui/theme"
)

const recentLimit = 30

type usageLoadedMsg struct {
	ByModel []store.UsageByModel
	Calls   []store.LLMEventRecord
	Quizzes []store.SessionEventRecord
	Err     error
}

// UsageScreen displays token usage per model and the most recent calls.
type UsageScreen struct {
	eventRepo store.EventRepo
	sessionID string
	byModel   []store.UsageByModel
	calls     []store.LLMEventRecord
	quizzes   []store.SessionEventRecord
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*UsageScreen)(nil)
var _ screen.KeyHintProvider = (*UsageScreen)(nil)

// New creates a UsageScreen. Quiz scores are limited to sessionID.
func New(eventRepo store.EventRepo, sessionID string) *UsageScreen {
	return &UsageScreen{
		eventRepo: eventRepo,
		sessionID: sessionID,
		expanded:  make(map[int]bool),
	}
}

func (s *UsageScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		byModel, err := s.eventRepo.LLMUsageByModel(ctx)
		if err != nil {
			return usageLoadedMsg{Err: err}
		}
		calls, err := s.eventRepo.QueryLLMEvents(ctx, store.QueryOpts{Limit: recentLimit})
		if err != nil {
			return usageLoadedMsg{Err: err}
		}

		// Scores are a nicety; show calls even if they fail to load.
		events, _ := s.eventRepo.QuerySessionEvents(ctx, s.sessionID, store.QueryOpts{})
		var quizzes []store.SessionEventRecord
		for _, e := range events {
			if e.Action == store.ActionQuizGraded {
				quizzes = append(quizzes, e)
			}
		}

		return usageLoadedMsg{ByModel: byModel, Calls: calls, Quizzes: quizzes}
	}
}

func (s *UsageScreen) Title() string {
	return "Usage"
}

func (s *UsageScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *UsageScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case usageLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.byModel = msg.ByModel
			s.calls = msg.Calls
			s.quizzes = msg.Quizzes
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.calls)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *UsageScreen) View(width, height int) string {
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	if s.errMsg != "" {
		return center(theme.ErrorText.Render(fmt.Sprintf("\n\nError: %s", s.errMsg)))
	}
	if !s.loaded {
		return center(theme.Caption.Render("\n\n  Loading usage..."))
	}
	if len(s.calls) == 0 && len(s.quizzes) == 0 {
		return center(theme.Hint.Render("\n\n  No model calls yet. Pick a study mode to get started!"))
	}

	var b strings.Builder
	b.WriteString("\n")

	if len(s.byModel) > 0 {
		b.WriteString(center(theme.Subtitle.Render("By model")))
		b.WriteString("\n")
		var total float64
		for _, u := range s.byModel {
			costStr := "      -"
			if c := llm.LookupCost(u.Model); c != nil {
				cost := c.Cost(u.InputTokens, u.OutputTokens)
				total += cost
				costStr = fmt.Sprintf("$%.4f", cost)
			}
			line := fmt.Sprintf("%-28s %4d calls  %7d in  %7d out  %s",
				u.Model, u.Calls, u.InputTokens, u.OutputTokens, costStr)
			b.WriteString(center(theme.Body.Render(line)))
			b.WriteString("\n")
		}
		if total > 0 {
			b.WriteString(center(theme.Caption.Render(fmt.Sprintf("Estimated cost: $%.4f", total))))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(s.quizzes) > 0 {
		b.WriteString(center(theme.Subtitle.Render("Quiz scores this session")))
		b.WriteString("\n")
		for _, q := range s.quizzes {
			topic := q.Detail
			if topic == "" {
				topic = "(untitled)"
			}
			line := fmt.Sprintf("%s  %-30s %d/%d", q.Timestamp.Format("15:04"), truncate(topic, 30), q.Score, q.Total)
			b.WriteString(center(theme.Body.Render(line)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(s.calls) > 0 {
		b.WriteString(center(theme.Subtitle.Render("Recent calls")))
		b.WriteString("\n")
	}
	for i, e := range s.calls {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		status := "ok"
		if !e.Success {
			status = "failed"
		}
		line := fmt.Sprintf("%s%s  %-8s %-24s %6dms  %s",
			prefix, e.Timestamp.Format("Jan 02 15:04"), e.Purpose, truncate(e.Model, 24), e.LatencyMs, status)

		style := theme.Body
		switch {
		case i == s.selected:
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		case !e.Success:
			style = lipgloss.NewStyle().Foreground(theme.Error)
		}
		b.WriteString(center(style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    provider %s  tokens %d in / %d out", e.Provider, e.InputTokens, e.OutputTokens)
			if e.ErrorMessage != "" {
				detail += "\n    error: " + truncate(e.ErrorMessage, 60)
			}
			b.WriteString(center(theme.Hint.Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
