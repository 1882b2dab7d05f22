package app

import (
	"context"

	"github.com/abhisek/studytutor/internal/auth"
	"github.com/abhisek/studytutor/internal/llm"
	"github.com/abhisek/studytutor/internal/session"
	"github.com/abhisek/studytutor/internal/store"
)

// Options holds the dependencies the TUI needs.
type Options struct {
	Gate *auth.Gate

	// LLM selects the provider the entered API key is for.
	LLM llm.Config

	// EventRepo receives the usage log. Nil disables logging and the
	// Usage screen.
	EventRepo store.EventRepo

	// Connect overrides how a key becomes a model client. Nil uses
	// llm.Connect with LLM and EventRepo.
	Connect session.Connector
}

func (o Options) connector() session.Connector {
	if o.Connect != nil {
		return o.Connect
	}
	cfg, repo := o.LLM, o.EventRepo
	return func(ctx context.Context, secret string) (session.Model, error) {
		c, err := llm.Connect(ctx, cfg, secret, repo)
		if err != nil {
			// Keep a nil *Client out of the interface.
			return nil, err
		}
		return c, nil
	}
}
