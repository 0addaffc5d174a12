package genai

import (
	"context"
	"errors"
	"testing"

	"github.com/kcaldas/star-shell/pkg/ai"
	"github.com/kcaldas/star-shell/pkg/config"
	"github.com/kcaldas/star-shell/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func clearGenAIEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"GEMINI_API_KEY", "GOOGLE_CLOUD_PROJECT", "GOOGLE_CLOUD_LOCATION", "GENAI_BACKEND", config.KeyModel} {
		t.Setenv(key, "")
	}
}

func newTestClient(t *testing.T, fn generateContentFn) *Client {
	t.Helper()
	clearGenAIEnv(t)
	client := NewClient(config.NewManagerWithSettings(config.Settings{}))
	client.Logger = logging.NewDisabledLogger()
	client.callGenerateContentFn = fn
	return client
}

func textResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromParts(parts, genai.RoleModel)},
		},
	}
}

func TestClient_GenerateContent(t *testing.T) {
	var (
		capturedModel    string
		capturedContents []*genai.Content
		capturedConfig   *genai.GenerateContentConfig
	)
	client := newTestClient(t, func(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		capturedModel = model
		capturedContents = contents
		capturedConfig = cfg
		return textResponse(genai.NewPartFromText("Command: "), genai.NewPartFromText("df -h")), nil
	})

	prompt := ai.Prompt{
		Instruction: "You run on {{.os}}.",
		Text:        "Wish: {{.wish}}",
		MaxTokens:   128,
		Temperature: 0.4,
	}
	response, err := client.GenerateContent(t.Context(), prompt, []ai.Attr{
		{Key: "os", Value: "MacOS"},
		{Key: "wish", Value: "disk usage"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Command: df -h", response)

	assert.Equal(t, defaultModel, capturedModel)
	require.Len(t, capturedContents, 1)
	assert.Equal(t, "Wish: disk usage", capturedContents[0].Parts[0].Text)

	require.NotNil(t, capturedConfig)
	require.NotNil(t, capturedConfig.SystemInstruction)
	assert.Equal(t, "You run on MacOS.", capturedConfig.SystemInstruction.Parts[0].Text)
	assert.Equal(t, int32(128), capturedConfig.MaxOutputTokens)
	require.NotNil(t, capturedConfig.Temperature)
	assert.InDelta(t, 0.4, *capturedConfig.Temperature, 1e-6)
	assert.Equal(t, int32(1), capturedConfig.CandidateCount)
}

func TestClient_GenerateContent_PromptModelWins(t *testing.T) {
	var capturedModel string
	client := newTestClient(t, func(ctx context.Context, model string, _ []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		capturedModel = model
		return textResponse(genai.NewPartFromText("ok")), nil
	})
	t.Setenv(config.KeyModel, "gemini-from-config")

	_, err := client.GenerateContent(t.Context(), ai.Prompt{Text: "x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "gemini-from-config", capturedModel)

	_, err = client.GenerateContent(t.Context(), ai.Prompt{Text: "x", ModelName: "gemini-2.5-pro"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-pro", capturedModel)
}

func TestClient_GenerateContent_Errors(t *testing.T) {
	tests := []struct {
		name     string
		response *genai.GenerateContentResponse
		err      error
		expected string
	}{
		{name: "api error", err: errors.New("quota"), expected: "error generating content: quota"},
		{name: "no candidates", response: &genai.GenerateContentResponse{}, expected: "no response candidates"},
		{name: "nil content", response: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, expected: "no content in response candidate"},
		{name: "empty text", response: textResponse(), expected: "no usable content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(context.Context, string, []*genai.Content, *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return tt.response, tt.err
			})
			_, err := client.GenerateContent(t.Context(), ai.Prompt{Text: "x"}, nil)
			assert.ErrorContains(t, err, tt.expected)
		})
	}
}

func TestClient_NotConfigured(t *testing.T) {
	client := newTestClient(t, nil)

	_, err := client.GenerateContent(context.Background(), ai.Prompt{Text: "x"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errNotConfigured)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
	assert.Contains(t, err.Error(), "GOOGLE_CLOUD_PROJECT")

	// the failure is cached
	_, err2 := client.GenerateContent(context.Background(), ai.Prompt{Text: "x"}, nil)
	assert.Equal(t, err, err2)
}

func TestJoinContentParts(t *testing.T) {
	t.Run("text wins over thoughts", func(t *testing.T) {
		content := genai.NewContentFromParts([]*genai.Part{
			{Text: "thinking...", Thought: true},
			genai.NewPartFromText("ls"),
		}, genai.RoleModel)
		assert.Equal(t, "ls", joinContentParts(content))
	})

	t.Run("only thoughts", func(t *testing.T) {
		content := genai.NewContentFromParts([]*genai.Part{
			{Text: "first", Thought: true},
			{Text: "last", Thought: true},
		}, genai.RoleModel)
		assert.Equal(t, "last", joinContentParts(content))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", joinContentParts(&genai.Content{}))
	})
}

func TestClient_GetStatus(t *testing.T) {
	client := newTestClient(t, nil)

	status := client.GetStatus()
	assert.Equal(t, "gemini", status.Backend)
	assert.False(t, status.Connected)
	assert.Contains(t, status.Model, defaultModel)

	t.Setenv("GEMINI_API_KEY", "key")
	assert.True(t, client.GetStatus().Connected)

	client.Backend = BackendVertexAI
	status = client.GetStatus()
	assert.Equal(t, "vertex", status.Backend)
	assert.False(t, status.Connected)

	t.Setenv("GOOGLE_CLOUD_PROJECT", "my-project")
	status = client.GetStatus()
	assert.True(t, status.Connected)
	assert.Contains(t, status.Message, "my-project")
	assert.Contains(t, status.Message, defaultLocation)
}

func TestNewClient_BackendPreference(t *testing.T) {
	clearGenAIEnv(t)
	t.Setenv("GENAI_BACKEND", "vertex")
	client := NewClient(config.NewManagerWithSettings(config.Settings{}))
	assert.Equal(t, BackendVertexAI, client.Backend)
}
