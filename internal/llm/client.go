package llm

import (
	"context"
	"strings"
)

// Client turns a Provider into the prompt-in, text-out collaborator the
// study modes talk to.
type Client struct {
	provider    Provider
	maxTokens   int
	temperature float64
}

// NewClient wraps p with the generation settings from cfg.
func NewClient(p Provider, cfg Config) *Client {
	return &Client{
		provider:    p,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// Generate sends prompt as a single user message and returns the reply text.
// It makes exactly one attempt.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.provider.Generate(ctx, Request{
		Messages:    []Message{{Role: RoleUser, Content: prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", &ErrEmptyResponse{Model: resp.Model}
	}
	return resp.Content, nil
}

// ModelID returns the model the client talks to.
func (c *Client) ModelID() string {
	return c.provider.ModelID()
}
