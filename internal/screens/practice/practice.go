// Package practice is the quiz screen: generate five multiple-choice
// questions on a topic, answer them, and submit for grading.
package practice

import (
	"errors"
	"log/slog"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studytutor/internal/mode"
	"github.com/abhisek/studytutor/internal/quiz"
	"github.com/abhisek/studytutor/internal/router"
	"github.com/abhisek/studytutor/internal/screen"
	"github.com/abhisek/studytutor/internal/screens/results"
	"github.com/abhisek/studytutor/internal/screens/shared"
	"github.com/abhisek/studytutor/internal/session"
	"github.com/abhisek/studytutor/internal/store"
	"github.com/abhisek/studytutor/internal/ui/components"
	"github.com/abhisek/studytutor/internal/ui/layout"
)

const noQuestionsMsg = "The model did not return any usable questions. Try generating again."

type focus int

const (
	focusTopic focus = iota
	focusQuiz
)

// PracticeScreen hosts a practice test.
type PracticeScreen struct {
	sess      *session.AppSession
	ctrl      *mode.Practice
	eventRepo store.EventRepo

	topic   components.TextInput
	choices []components.MultiChoice
	submit  components.Button
	current int // len(choices) is the submit page
	focus   focus

	// quizTopic is the topic the current quiz was generated for.
	quizTopic    string
	pendingTopic string

	pending *mode.Exchange
	spin    int
	errMsg  string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.Busy = (*PracticeScreen)(nil)

// New creates a PracticeScreen showing any quiz already in the session.
func New(sess *session.AppSession, eventRepo store.EventRepo) *PracticeScreen {
	p := &PracticeScreen{
		sess:      sess,
		ctrl:      mode.NewPractice(sess),
		eventRepo: eventRepo,
		topic:     components.NewTextInput("Enter a topic for the quiz", 0),
	}
	p.submit = components.NewButton("Submit Answers", true, p.submitQuiz)
	p.loadQuiz()
	if len(p.choices) > 0 {
		p.setFocus(focusQuiz)
	} else {
		p.setFocus(focusTopic)
	}
	return p
}

// loadQuiz rebuilds the question widgets from the session.
func (p *PracticeScreen) loadQuiz() {
	q := p.sess.Quiz()
	p.choices = make([]components.MultiChoice, len(q.Questions))
	for i, question := range q.Questions {
		opts := quiz.Options(question)
		mc := components.NewMultiChoice(question.Text, opts)
		for j, opt := range opts {
			if opt == q.Answers[i] {
				mc.Selected = j
				mc.ChosenIndex = j
			}
		}
		mc.Locked = q.Submitted
		p.choices[i] = mc
	}
	p.current = 0
	p.submit.Active = !q.Submitted
}

func (p *PracticeScreen) setFocus(f focus) {
	p.focus = f
	if f == focusTopic {
		p.topic.Focus()
	} else {
		p.topic.Blur()
	}
}

func (p *PracticeScreen) Title() string {
	return session.ModePractice.String()
}

func (p *PracticeScreen) Init() tea.Cmd {
	return nil
}

func (p *PracticeScreen) Busy() bool {
	return p.pending != nil
}

func (p *PracticeScreen) KeyHints() []layout.KeyHint {
	if p.Busy() {
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	}
	if p.focus == focusTopic {
		hints := []layout.KeyHint{{Key: "Enter", Description: "Generate Quiz"}}
		if len(p.choices) > 0 {
			hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Questions"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}

	hints := []layout.KeyHint{{Key: "←→", Description: "Question"}}
	if p.ctrl.Phase() == mode.PracticeGraded {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Results"})
	} else {
		hints = append(hints,
			layout.KeyHint{Key: "A-D", Description: "Answer"},
			layout.KeyHint{Key: "S", Description: "Submit"},
		)
	}
	return append(hints,
		layout.KeyHint{Key: "Tab", Description: "Topic"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

func (p *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case shared.ReplyMsg:
		p.handleReply(msg)
		return p, nil

	case shared.SpinnerTickMsg:
		if p.pending == nil {
			return p, nil
		}
		p.spin++
		return p, shared.SpinnerTick()

	case tea.KeyMsg:
		if p.pending != nil || !p.sess.ModelReady() {
			return p, nil
		}
		if msg.String() == "tab" {
			if len(p.choices) > 0 {
				if p.focus == focusTopic {
					p.setFocus(focusQuiz)
				} else {
					p.setFocus(focusTopic)
				}
			}
			return p, nil
		}
		if p.focus == focusQuiz {
			return p, p.handleQuizKey(msg)
		}
		if msg.String() == "enter" {
			return p, p.generate()
		}
	}

	if p.pending != nil || p.focus != focusTopic {
		return p, nil
	}
	var cmd tea.Cmd
	p.topic, cmd = p.topic.Update(msg)
	return p, cmd
}

func (p *PracticeScreen) handleQuizKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "left", "h":
		if p.current > 0 {
			p.current--
		}
		return nil
	case "right", "l":
		if p.current < len(p.choices) {
			p.current++
		}
		return nil
	case "s":
		if p.ctrl.Phase() == mode.PracticePresented {
			return p.submitQuiz()
		}
		return nil
	case "r":
		if p.ctrl.Phase() == mode.PracticeGraded {
			return p.showResults()
		}
		return nil
	}

	if p.current == len(p.choices) {
		var cmd tea.Cmd
		p.submit, cmd = p.submit.Update(msg)
		return cmd
	}

	mc, _ := p.choices[p.current].Update(msg)
	p.choices[p.current] = mc
	if chosen := mc.Chosen(); chosen != "" {
		p.ctrl.Answer(p.current, chosen)
	}
	return nil
}

func (p *PracticeScreen) generate() tea.Cmd {
	ex, err := p.ctrl.PrepareQuiz(p.topic.Value())
	if err != nil {
		if errors.Is(err, mode.ErrEmptyTopic) {
			return nil
		}
		p.errMsg = mode.UserMessage(err)
		return nil
	}

	p.errMsg = ""
	p.pending = ex
	p.pendingTopic = strings.TrimSpace(p.topic.Value())
	return tea.Batch(shared.RunExchange(ex), shared.SpinnerTick())
}

func (p *PracticeScreen) handleReply(msg shared.ReplyMsg) {
	if msg.Exchange != p.pending {
		return
	}
	p.pending = nil

	if msg.Err != nil {
		slog.Error("quiz generation failed", "error", msg.Err)
		p.errMsg = mode.UserMessage(msg.Err)
		return
	}
	res, err := msg.Exchange.Commit(msg.Reply)
	if err != nil {
		if !errors.Is(err, mode.ErrStaleReply) {
			p.errMsg = mode.UserMessage(err)
		}
		return
	}

	p.loadQuiz()
	p.quizTopic = p.pendingTopic
	if res.Hint == mode.HintNoQuestions {
		slog.Warn("quiz reply had no usable questions", "reply_len", len(msg.Reply))
		p.errMsg = noQuestionsMsg
		p.setFocus(focusTopic)
		return
	}
	p.setFocus(focusQuiz)
}

func (p *PracticeScreen) submitQuiz() tea.Cmd {
	res, err := p.ctrl.Submit()
	if err != nil {
		p.errMsg = mode.UserMessage(err)
		return nil
	}
	p.loadQuiz()
	p.current = len(p.choices)

	g := res.Grade
	return tea.Batch(
		shared.RecordSession(p.eventRepo, store.SessionEventData{
			SessionID: p.sess.ID(),
			Action:    store.ActionQuizGraded,
			Mode:      session.ModePractice.Slug(),
			Detail:    p.quizTopic,
			Score:     g.Score,
			Total:     g.Total,
		}),
		p.showResults(),
	)
}

func (p *PracticeScreen) showResults() tea.Cmd {
	g, ok := p.ctrl.Grade()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: results.New(g)}
	}
}
