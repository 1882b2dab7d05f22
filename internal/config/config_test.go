package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studytutor/internal/auth"
	"github.com/abhisek/studytutor/internal/llm"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_PASSWORD", "STUDYTUTOR_PASSWORD_HASH", "STUDYTUTOR_DB", "STUDYTUTOR_LOG_FILE",
		"STUDYTUTOR_LLM_PROVIDER", "STUDYTUTOR_LLM_MODEL", "STUDYTUTOR_LLM_BASE_URL",
		"STUDYTUTOR_LLM_TIMEOUT", "STUDYTUTOR_LLM_MAX_TOKENS", "STUDYTUTOR_LLM_TEMPERATURE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.PasswordConfigured())
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Empty(t, cfg.DBPath)
	assert.ErrorIs(t, cfg.Gate().Login("x"), auth.ErrNotConfigured)
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PASSWORD", "letmein")
	t.Setenv("STUDYTUTOR_LLM_PROVIDER", "anthropic")
	t.Setenv("STUDYTUTOR_DB", "/tmp/usage.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.PasswordConfigured())
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "/tmp/usage.db", cfg.DBPath)
	assert.NoError(t, cfg.Gate().Login("letmein"))
}

func TestLoad_UnknownProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("STUDYTUTOR_LLM_PROVIDER", "palm")

	_, err := Load()
	assert.Error(t, err)
}
