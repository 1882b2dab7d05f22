package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveModel(t *testing.T) {
	tests := []struct {
		input    string
		models   map[string]string
		expected string
	}{
		{"gemini-flash", geminiModels, "gemini-2.5-flash"},
		{"gemini-2.0-flash", geminiModels, "gemini-2.0-flash"}, // pass-through
		{"gpt-4o-mini", openaiModels, "gpt-4o-mini"},
		{"claude-haiku", anthropicModels, "claude-haiku-4-5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, resolveModel(tt.input, tt.models), "resolveModel(%q)", tt.input)
	}
}

func TestConfig_ModelNameDefaultsPerProvider(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "gemini-flash", cfg.ModelName())

	cfg.Provider = ProviderAnthropic
	assert.Equal(t, "claude-haiku", cfg.ModelName())

	cfg.Model = "claude-sonnet"
	assert.Equal(t, "claude-sonnet", cfg.ModelName())
}

func TestConfig_DisplayName(t *testing.T) {
	assert.Equal(t, "Gemini", DefaultConfig().DisplayName())
	assert.Equal(t, "OpenRouter", Config{Provider: ProviderOpenRouter}.DisplayName())
	assert.Equal(t, "custom", Config{Provider: "custom"}.DisplayName())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("STUDYTUTOR_LLM_PROVIDER", "openai")
	t.Setenv("STUDYTUTOR_LLM_MODEL", "gpt-4o")
	t.Setenv("STUDYTUTOR_LLM_TIMEOUT", "15s")
	t.Setenv("STUDYTUTOR_LLM_MAX_TOKENS", "512")
	t.Setenv("STUDYTUTOR_LLM_TEMPERATURE", "not-a-number")

	cfg := ConfigFromEnv()
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Equal(t, 512, cfg.MaxTokens)
	assert.Equal(t, DefaultConfig().Temperature, cfg.Temperature)
}

func TestDiscoverConfig(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY", "STUDYTUTOR_LLM_PROVIDER", "STUDYTUTOR_LLM_MODEL"} {
		t.Setenv(k, "")
	}

	_, _, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	cfg, key, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "sk-ant", key)

	t.Setenv("GEMINI_API_KEY", "gm-key")
	cfg, key, ok = DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, "gm-key", key)
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.Provider = "palm"
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.MaxTokens = 0
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Temperature = 3
	assert.Error(t, bad.Validate())
}

func TestNewOpenRouterProvider(t *testing.T) {
	p, err := NewOpenRouterProvider("sk-or-test", "google/gemini-2.5-flash", "")
	require.NoError(t, err)
	assert.Equal(t, "google/gemini-2.5-flash", p.ModelID())

	_, err = NewOpenRouterProvider("", "google/gemini-2.5-flash", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewOpenAIProvider(t *testing.T) {
	p, err := NewOpenAIProvider("sk-test", "gpt-4o-mini", "")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", p.ModelID())

	_, err = NewOpenAIProvider("", "gpt-4o-mini", "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewAnthropicProvider(t *testing.T) {
	p, err := NewAnthropicProvider("sk-ant", "claude-haiku")
	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4-5", p.ModelID())

	_, err = NewAnthropicProvider("", "claude-haiku")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.15+0.6, c.Cost(1_000_000, 1_000_000), 1e-9)
	assert.Nil(t, LookupCost("no-such-model"))
}
