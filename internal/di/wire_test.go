package di

import (
	"testing"

	"github.com/kcaldas/star-shell/pkg/backend"
	"github.com/kcaldas/star-shell/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeGenie(t *testing.T) {
	t.Setenv(config.KeyHome, t.TempDir())
	t.Setenv(config.KeyBackend, "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	genie, err := InitializeGenie("claude")
	require.NoError(t, err)
	assert.IsType(t, &backend.ClaudeGenie{}, genie)

	status := genie.Status()
	assert.Equal(t, backend.Anthropic, status.Backend)
	assert.False(t, status.Connected)
}

func TestInitializeGenie_DefaultsToOpenAI(t *testing.T) {
	t.Setenv(config.KeyHome, t.TempDir())
	t.Setenv(config.KeyBackend, "")

	genie, err := InitializeGenie("")
	require.NoError(t, err)
	assert.IsType(t, &backend.OpenAIGenie{}, genie)
}

func TestInitializeGenie_Unknown(t *testing.T) {
	t.Setenv(config.KeyHome, t.TempDir())

	_, err := InitializeGenie("cohere")
	assert.ErrorIs(t, err, backend.ErrUnknownBackend)
}
