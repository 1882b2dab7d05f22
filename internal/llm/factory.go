package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/studytutor/internal/store"
)

// NewProvider creates the bare Provider selected by cfg, authenticated with
// apiKey.
func NewProvider(ctx context.Context, cfg Config, apiKey string) (Provider, error) {
	model := cfg.ModelName()

	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiProvider(ctx, apiKey, model)
	case ProviderOpenAI:
		return NewOpenAIProvider(apiKey, model, cfg.BaseURL)
	case ProviderAnthropic:
		return NewAnthropicProvider(apiKey, model)
	case ProviderOpenRouter:
		return NewOpenRouterProvider(apiKey, model, cfg.BaseURL)
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}

// Connect initializes the configured provider with apiKey and confirms the
// key is accepted. Any failure to do so is reported as *ErrAuth so callers
// can tell "initialization failed" apart from later generation failures.
//
// The returned client is wrapped as caller → timeout → logging → base.
func Connect(ctx context.Context, cfg Config, apiKey string, eventRepo store.EventRepo) (*Client, error) {
	base, err := NewProvider(ctx, cfg, apiKey)
	if err != nil {
		return nil, &ErrAuth{Provider: cfg.Provider, Err: err}
	}
	return connectProvider(ctx, cfg, base, eventRepo)
}

func connectProvider(ctx context.Context, cfg Config, base Provider, eventRepo store.EventRepo) (*Client, error) {
	logged := WithLogging(base, cfg.Provider, eventRepo)
	bounded := WithTimeout(logged, cfg.Timeout)

	if v, ok := bounded.(Verifier); ok {
		if err := v.Verify(ctx); err != nil {
			var authErr *ErrAuth
			if errors.As(err, &authErr) {
				return nil, authErr
			}
			return nil, &ErrAuth{Provider: cfg.Provider, Err: err}
		}
	}

	return NewClient(bounded, cfg), nil
}
