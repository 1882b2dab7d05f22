package llm

import (
	"context"
	"time"
)

// TimeoutProvider is a decorator that bounds every call with a deadline.
// Calls are attempted exactly once; a timeout surfaces as the context error.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a Provider with a per-call deadline. A non-positive
// timeout returns p unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: timeout}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) Verify(ctx context.Context) error {
	v, ok := t.inner.(Verifier)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return v.Verify(ctx)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
