package openai

import (
	"context"
	"errors"
	"sync"
	"testing"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcaldas/star-shell/pkg/ai"
	"github.com/kcaldas/star-shell/pkg/config"
	"github.com/kcaldas/star-shell/pkg/logging"
)

type mockChatCompletions struct {
	t         *testing.T
	mu        sync.Mutex
	requests  []openai.ChatCompletionNewParams
	responses []*openai.ChatCompletion
	err       error
}

func (m *mockChatCompletions) New(ctx context.Context, params openai.ChatCompletionNewParams, _ ...option.RequestOption) (*openai.ChatCompletion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, params)

	if m.err != nil {
		return nil, m.err
	}

	if len(m.responses) == 0 {
		require.FailNow(m.t, "mock chat completions received more calls than configured responses")
	}

	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func newChatCompletion(content string, usage openai.CompletionUsage) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		ID:     "test",
		Object: constant.ChatCompletion(""),
		Model:  string(shared.ChatModelGPT4oMini),
		Choices: []openai.ChatCompletionChoice{{
			Index:        0,
			FinishReason: "stop",
			Message: openai.ChatCompletionMessage{
				Role:    constant.Assistant(""),
				Content: content,
			},
		}},
		Usage: usage,
	}
}

func newTestClient(t *testing.T, chat chatCompletionClient) *Client {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OPENAI_BASE_URL", "")
	t.Setenv(config.KeyModel, "")
	opts := []Option{
		WithConfigManager(config.NewManagerWithSettings(config.Settings{})),
		WithLogger(logging.NewDisabledLogger()),
	}
	if chat != nil {
		opts = append(opts, WithChatClient(chat))
	}
	return NewClient(opts...)
}

func TestClient_GenerateContent_SimpleResponse(t *testing.T) {
	mockAPI := &mockChatCompletions{
		t:         t,
		responses: []*openai.ChatCompletion{newChatCompletion("Command: ls -la", openai.CompletionUsage{TotalTokens: 10})},
	}
	client := newTestClient(t, mockAPI)

	prompt := ai.Prompt{
		Name:        "command",
		Instruction: "You are a shell assistant on {{.os}}.",
		Text:        "Wish: {{.wish}}",
	}

	resp, err := client.GenerateContent(context.Background(), prompt, []ai.Attr{
		{Key: "os", Value: "Linux"},
		{Key: "wish", Value: "list files"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Command: ls -la", resp)

	mockAPI.mu.Lock()
	defer mockAPI.mu.Unlock()
	require.Len(t, mockAPI.requests, 1)
	request := mockAPI.requests[0]
	assert.Equal(t, shared.ChatModelGPT4oMini, request.Model)
	require.Len(t, request.Messages, 2)
	require.NotNil(t, request.Messages[0].OfSystem)
	assert.Equal(t, "You are a shell assistant on Linux.", request.Messages[0].OfSystem.Content.OfString.Value)
	require.NotNil(t, request.Messages[1].OfUser)
	assert.Equal(t, "Wish: list files", request.Messages[1].OfUser.Content.OfString.Value)
}

func TestClient_GenerateContent_NoInstruction(t *testing.T) {
	mockAPI := &mockChatCompletions{t: t, responses: []*openai.ChatCompletion{newChatCompletion("ok", openai.CompletionUsage{})}}
	client := newTestClient(t, mockAPI)

	_, err := client.GenerateContent(context.Background(), ai.Prompt{Text: "hi"}, nil)
	require.NoError(t, err)

	require.Len(t, mockAPI.requests[0].Messages, 1)
	assert.NotNil(t, mockAPI.requests[0].Messages[0].OfUser)
}

func TestClient_GenerateContent_GenerationConfig(t *testing.T) {
	mockAPI := &mockChatCompletions{t: t, responses: []*openai.ChatCompletion{newChatCompletion("ok", openai.CompletionUsage{})}}
	client := newTestClient(t, mockAPI)

	prompt := ai.Prompt{
		Text:        "hi",
		ModelName:   "gpt-4o",
		MaxTokens:   64,
		Temperature: 0.5,
		TopP:        0.9,
	}
	_, err := client.GenerateContent(context.Background(), prompt, nil)
	require.NoError(t, err)

	request := mockAPI.requests[0]
	assert.Equal(t, shared.ChatModel("gpt-4o"), request.Model)
	assert.Equal(t, int64(64), request.MaxCompletionTokens.Value)
	assert.InDelta(t, 0.5, request.Temperature.Value, 1e-6)
	assert.InDelta(t, 0.9, request.TopP.Value, 1e-6)
}

func TestClient_GenerateContent_ReasoningModelSkipsSampling(t *testing.T) {
	mockAPI := &mockChatCompletions{t: t, responses: []*openai.ChatCompletion{newChatCompletion("ok", openai.CompletionUsage{})}}
	client := newTestClient(t, mockAPI)

	_, err := client.GenerateContent(context.Background(), ai.Prompt{Text: "hi", ModelName: "o3-mini", Temperature: 0.5}, nil)
	require.NoError(t, err)

	request := mockAPI.requests[0]
	assert.False(t, request.Temperature.Valid())
	assert.False(t, request.TopP.Valid())
}

func TestClient_GenerateContent_EmptyResponse(t *testing.T) {
	mockAPI := &mockChatCompletions{t: t, responses: []*openai.ChatCompletion{newChatCompletion("   ", openai.CompletionUsage{})}}
	client := newTestClient(t, mockAPI)

	_, err := client.GenerateContent(context.Background(), ai.Prompt{Text: "hi"}, nil)
	assert.ErrorContains(t, err, "empty response")
}

func TestClient_GenerateContent_NoChoices(t *testing.T) {
	mockAPI := &mockChatCompletions{t: t, responses: []*openai.ChatCompletion{{ID: "x"}}}
	client := newTestClient(t, mockAPI)

	_, err := client.GenerateContent(context.Background(), ai.Prompt{Text: "hi"}, nil)
	assert.ErrorContains(t, err, "no choices")
}

func TestClient_GenerateContent_APIError(t *testing.T) {
	mockAPI := &mockChatCompletions{t: t, err: errors.New("rate limited")}
	client := newTestClient(t, mockAPI)

	_, err := client.GenerateContent(context.Background(), ai.Prompt{Text: "hi"}, nil)
	assert.ErrorContains(t, err, "openai chat completion: rate limited")
}

func TestClient_GenerateContent_MissingAPIKey(t *testing.T) {
	client := newTestClient(t, nil)

	_, err := client.GenerateContent(context.Background(), ai.Prompt{Text: "Hello?"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissingAPIKey)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestClient_GetStatus(t *testing.T) {
	client := newTestClient(t, nil)

	status := client.GetStatus()
	assert.Equal(t, "openai", status.Backend)
	assert.False(t, status.Connected)
	assert.Contains(t, status.Model, string(shared.ChatModelGPT4oMini))

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:1234/v1")
	status = client.GetStatus()
	assert.True(t, status.Connected)
	assert.Contains(t, status.Message, "http://localhost:1234/v1")
}

func TestModelCapabilities(t *testing.T) {
	tests := []struct {
		model    string
		sampling bool
		topP     bool
	}{
		{"gpt-4o-mini", true, true},
		{"gpt-4.1", true, false},
		{"o1-preview", false, false},
		{"o4-mini", false, false},
		{"gpt-3.5-turbo", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.sampling, allowsSamplingParams(tt.model))
			assert.Equal(t, tt.topP, supportsTopP(tt.model))
		})
	}
}

func TestTokensPerMessageForModel(t *testing.T) {
	perMessage, perName := tokensPerMessageForModel("gpt-3.5-turbo-0301")
	assert.Equal(t, 4, perMessage)
	assert.Equal(t, -1, perName)

	perMessage, perName = tokensPerMessageForModel("gpt-4o")
	assert.Equal(t, 3, perMessage)
	assert.Equal(t, 1, perName)
}
