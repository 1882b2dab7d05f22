package mode

import (
	"context"
	"strings"

	"github.com/abhisek/studytutor/internal/llm"
	"github.com/abhisek/studytutor/internal/quiz"
	"github.com/abhisek/studytutor/internal/session"
)

// PracticePhase is the state of a practice test.
type PracticePhase int

const (
	PracticeNoQuiz PracticePhase = iota
	PracticePresented
	PracticeGraded
)

// GradedQuestion is one question with the learner's answer.
type GradedQuestion struct {
	Question quiz.Question
	Answer   string
	Correct  bool
}

// Grade is the result of a submitted quiz.
type Grade struct {
	Score   int
	Total   int
	Verdict string
	Items   []GradedQuestion
}

// Practice drives quiz generation and grading.
type Practice struct {
	s *session.AppSession
}

// NewPractice returns a practice test controller for s.
func NewPractice(s *session.AppSession) *Practice {
	return &Practice{s: s}
}

// Phase derives the current phase from the session.
func (p *Practice) Phase() PracticePhase {
	q := p.s.Quiz()
	switch {
	case len(q.Questions) == 0:
		return PracticeNoQuiz
	case q.Submitted:
		return PracticeGraded
	default:
		return PracticePresented
	}
}

// PrepareQuiz builds the generation request for topic. The reply replaces
// any previous quiz.
func (p *Practice) PrepareQuiz(topic string) (*Exchange, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	return newExchange(p.s, llm.PurposeQuiz, quiz.BuildPrompt(topic), func(reply string) Result {
		questions := quiz.Parse(reply)
		p.s.RegenerateQuiz(questions)
		if len(questions) == 0 {
			return Result{Hint: HintNoQuestions, Reply: reply}
		}
		return Result{Hint: HintQuiz, Reply: reply}
	})
}

// Generate requests a quiz on topic and waits for it.
func (p *Practice) Generate(ctx context.Context, topic string) (Result, error) {
	ex, err := p.PrepareQuiz(topic)
	return prepareAndRun(ctx, ex, err)
}

// Answer records the selected option for question index.
func (p *Practice) Answer(index int, option string) {
	p.s.RecordAnswer(index, option)
}

// Submit grades the quiz. Submitting again returns the same grade.
func (p *Practice) Submit() (Result, error) {
	if p.Phase() == PracticeNoQuiz {
		return Result{}, ErrNoQuiz
	}
	p.s.SubmitQuiz()

	g, _ := p.Grade()
	return Result{Hint: HintResults, Grade: &g}, nil
}

// Grade returns the grade of a submitted quiz.
func (p *Practice) Grade() (Grade, bool) {
	q := p.s.Quiz()
	if !q.Submitted || len(q.Questions) == 0 {
		return Grade{}, false
	}

	g := Grade{
		Score: quiz.Score(q.Questions, q.Answers),
		Total: len(q.Questions),
		Items: make([]GradedQuestion, len(q.Questions)),
	}
	for i, question := range q.Questions {
		g.Items[i] = GradedQuestion{
			Question: question,
			Answer:   q.Answers[i],
			Correct:  quiz.IsCorrect(question, q.Answers[i]),
		}
	}
	g.Verdict = quiz.Verdict(g.Score, g.Total)
	return g, true
}
