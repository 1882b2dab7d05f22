package llm

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderAnthropic  = "anthropic"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds LLM provider configuration. The API key is deliberately not
// part of it: keys are entered per session and never leave the session.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "openai", "anthropic", "openrouter", "mock"
	Provider string

	// Model is a friendly name or a provider model ID. Empty selects the
	// provider default.
	Model string

	// BaseURL overrides the API endpoint (OpenAI-compatible providers only).
	BaseURL string

	MaxTokens   int
	Temperature float64

	// Timeout bounds a single generate call. Zero disables the bound.
	Timeout time.Duration
}

// defaultModels holds the model used when Config.Model is empty.
var defaultModels = map[string]string{
	ProviderGemini:     "gemini-flash",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenRouter: "google/gemini-2.5-flash",
	ProviderMock:       "mock",
}

var displayNames = map[string]string{
	ProviderGemini:     "Gemini",
	ProviderOpenAI:     "OpenAI",
	ProviderAnthropic:  "Anthropic",
	ProviderOpenRouter: "OpenRouter",
	ProviderMock:       "Mock",
}

// DisplayName returns the provider name shown to users.
func (c Config) DisplayName() string {
	if n, ok := displayNames[c.Provider]; ok {
		return n
	}
	return c.Provider
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:    ProviderGemini,
		MaxTokens:   2048,
		Temperature: 0.7,
		Timeout:     60 * time.Second,
	}
}

// ModelName returns the configured model or the provider default.
func (c Config) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	return defaultModels[c.Provider]
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset or unparsable values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("STUDYTUTOR_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	if m := os.Getenv("STUDYTUTOR_LLM_MODEL"); m != "" {
		cfg.Model = m
	}
	if u := os.Getenv("STUDYTUTOR_LLM_BASE_URL"); u != "" {
		cfg.BaseURL = u
	}
	if v := os.Getenv("STUDYTUTOR_LLM_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("STUDYTUTOR_LLM_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxTokens = n
		}
	}
	if v := os.Getenv("STUDYTUTOR_LLM_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Temperature = f
		}
	}

	return cfg
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found, along with the key. It serves the
// stateless CLI tools; the interactive app always asks for the key.
func DiscoverConfig() (Config, string, bool) {
	cfg := ConfigFromEnv()

	probes := []struct {
		env      string
		provider string
	}{
		{"GEMINI_API_KEY", ProviderGemini},
		{"GOOGLE_API_KEY", ProviderGemini},
		{"OPENAI_API_KEY", ProviderOpenAI},
		{"ANTHROPIC_API_KEY", ProviderAnthropic},
		{"OPENROUTER_API_KEY", ProviderOpenRouter},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			if cfg.Provider != p.provider {
				cfg.Provider = p.provider
				cfg.Model = ""
			}
			return cfg, k, true
		}
	}

	return Config{}, "", false
}

// Validate checks that the provider is known and the limits are sane.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter, ProviderMock:
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be within [0, 2], got %g", c.Temperature)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}
