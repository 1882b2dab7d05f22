// Package mode implements the three study modes as controllers over a
// session.AppSession. Each model round-trip is an Exchange: Prepare builds
// the prompt, Generate calls the model, Commit applies the reply.
package mode

import (
	"context"

	"github.com/abhisek/studytutor/internal/llm"
	"github.com/abhisek/studytutor/internal/session"
)

// Hint tells the presentation layer what changed.
type Hint int

const (
	HintNone         Hint = iota
	HintConversation      // a history gained turns
	HintQuiz              // a new quiz is ready to answer
	HintNoQuestions       // the reply held no usable questions
	HintResults           // the quiz was graded
	HintCleared           // a history was emptied
)

// Result is the outcome of a controller action.
type Result struct {
	Hint  Hint
	Reply string
	Grade *Grade
}

// Exchange is one prepared model call. Generate may run on any goroutine;
// Commit must run where the session is owned.
type Exchange struct {
	Purpose string
	Prompt  string

	sess      *session.AppSession
	sessionID string
	epoch     uint64
	model     session.Model
	commit    func(reply string) Result
}

func newExchange(s *session.AppSession, purpose, prompt string, commit func(string) Result) (*Exchange, error) {
	if !s.ModelReady() {
		return nil, ErrModelNotReady
	}
	return &Exchange{
		Purpose:   purpose,
		Prompt:    prompt,
		sess:      s,
		sessionID: s.ID(),
		epoch:     s.Epoch(),
		model:     s.Model(),
		commit:    commit,
	}, nil
}

// Generate sends the prompt to the model captured at prepare time. Failures
// are returned as *ProviderError.
func (e *Exchange) Generate(ctx context.Context) (string, error) {
	ctx = llm.WithPurpose(ctx, e.Purpose)
	ctx = llm.WithSessionID(ctx, e.sessionID)

	reply, err := e.model.Generate(ctx, e.Prompt)
	if err != nil {
		return "", &ProviderError{Purpose: e.Purpose, Err: err}
	}
	return reply, nil
}

// Commit applies reply to the session. It returns ErrStaleReply, leaving the
// session untouched, if the model client was torn down since Prepare.
func (e *Exchange) Commit(reply string) (Result, error) {
	if e.sess.Epoch() != e.epoch {
		return Result{}, ErrStaleReply
	}
	return e.commit(reply), nil
}

// Run performs a prepared exchange synchronously.
func Run(ctx context.Context, e *Exchange) (Result, error) {
	reply, err := e.Generate(ctx)
	if err != nil {
		return Result{}, err
	}
	return e.Commit(reply)
}

// prepareAndRun is the synchronous path shared by the controllers.
func prepareAndRun(ctx context.Context, e *Exchange, err error) (Result, error) {
	if err != nil {
		return Result{}, err
	}
	return Run(ctx, e)
}
