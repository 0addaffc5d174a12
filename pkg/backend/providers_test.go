package backend

import (
	"testing"

	"github.com/kcaldas/star-shell/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"openai", "gemini", "anthropic"}, Names())
}

func TestImplementations(t *testing.T) {
	assert.Equal(t, []string{"OpenAIGenie", "GeminiGenie", "ClaudeGenie"}, Implementations())
}

func TestResolveName(t *testing.T) {
	cfg := testConfig(t)

	assert.Equal(t, config.DefaultBackend, ResolveName("", cfg))
	assert.Equal(t, Anthropic, ResolveName("Claude", cfg))
	assert.Equal(t, Gemini, ResolveName("vertex", cfg))
	assert.Equal(t, OpenAI, ResolveName(" OPENAI ", cfg))

	t.Setenv(config.KeyBackend, "gemini")
	assert.Equal(t, Gemini, ResolveName("", cfg))
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)
	t.Setenv(config.KeyShell, "/bin/zsh")

	tests := []struct {
		name     string
		expected any
	}{
		{OpenAI, &OpenAIGenie{}},
		{Gemini, &GeminiGenie{}},
		{Anthropic, &ClaudeGenie{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			genie, err := New(tt.name, cfg)
			require.NoError(t, err)
			assert.IsType(t, tt.expected, genie)
			assert.NotNil(t, genie.Status())
		})
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New("llama", testConfig(t))
	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.ErrorContains(t, err, "llama")
}

func TestDetectEnvironment(t *testing.T) {
	cfg := testConfig(t)
	t.Setenv(config.KeyShell, "/usr/bin/fish")

	env := DetectEnvironment(cfg)
	assert.Equal(t, "/usr/bin/fish", env.Shell)
	assert.NotEmpty(t, env.OS)
}

func TestAPIKeyEnv(t *testing.T) {
	assert.Equal(t, "OPENAI_API_KEY", APIKeyEnv(OpenAI))
	assert.Equal(t, "GEMINI_API_KEY", APIKeyEnv(Gemini))
	assert.Equal(t, "ANTHROPIC_API_KEY", APIKeyEnv(Anthropic))
	assert.Empty(t, APIKeyEnv("llama"))
}
