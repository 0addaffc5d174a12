package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/kcaldas/star-shell/pkg/ai"
	"github.com/kcaldas/star-shell/pkg/config"
	"github.com/kcaldas/star-shell/pkg/logging"
)

const backendName = "openai"

var (
	errMissingAPIKey        = errors.New("openai backend not configured")
	_                ai.Gen = (*Client)(nil)
)

type chatCompletionClient interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Option configures the OpenAI client.
type Option func(*Client)

// WithConfigManager injects a custom configuration manager (useful for tests).
func WithConfigManager(manager config.Manager) Option {
	return func(c *Client) {
		if manager != nil {
			c.config = manager
		}
	}
}

// WithLogger injects a custom logger implementation.
func WithLogger(logger logging.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithChatClient injects a custom Chat Completions client (primarily for tests).
func WithChatClient(chat chatCompletionClient) Option {
	return func(c *Client) {
		if chat != nil {
			c.chatCompletions = chat
		}
	}
}

// Client provides an ai.Gen implementation backed by OpenAI Chat Completions.
type Client struct {
	mu sync.Mutex

	config config.Manager
	logger logging.Logger

	chatCompletions chatCompletionClient

	initialized bool
	initErr     error
}

// NewClient builds a new OpenAI-backed ai.Gen implementation.
func NewClient(opts ...Option) *Client {
	client := &Client{
		logger: logging.NewAPILogger(backendName),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.config == nil {
		client.config = config.NewConfigManager()
	}
	if client.logger == nil {
		client.logger = logging.NewAPILogger(backendName)
	}

	return client
}

// GenerateContent renders the prompt using structured attributes and executes it.
func (c *Client) GenerateContent(ctx context.Context, prompt ai.Prompt, attrs []ai.Attr) (string, error) {
	if err := c.ensureInitialized(); err != nil {
		return "", err
	}

	rendered, err := ai.RenderPrompt(prompt, ai.AttrsToMap(attrs))
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	return c.generateWithPrompt(ctx, rendered)
}

// GetStatus reports whether mandatory configuration is available and which model is configured.
func (c *Client) GetStatus() *ai.Status {
	model := c.config.GetModelConfig()
	modelStr := fmt.Sprintf("%s, Temperature: %.2f, Max Tokens: %d", c.resolveModelName(""), model.Temperature, model.MaxTokens)

	apiKey := strings.TrimSpace(c.config.GetStringWithDefault("OPENAI_API_KEY", ""))
	if apiKey == "" {
		return &ai.Status{
			Model:     modelStr,
			Backend:   backendName,
			Connected: false,
			Message:   "OPENAI_API_KEY not configured",
		}
	}

	message := "OpenAI configured"
	if baseURL := strings.TrimSpace(c.config.GetStringWithDefault("OPENAI_BASE_URL", "")); baseURL != "" {
		message = fmt.Sprintf("OpenAI configured (custom endpoint: %s)", baseURL)
	}

	return &ai.Status{
		Model:     modelStr,
		Backend:   backendName,
		Connected: true,
		Message:   message,
	}
}

func (c *Client) ensureInitialized() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return c.initErr
	}

	if c.chatCompletions != nil {
		c.initialized = true
		return nil
	}

	apiKey := strings.TrimSpace(c.config.GetStringWithDefault("OPENAI_API_KEY", ""))
	if apiKey == "" {
		c.initErr = fmt.Errorf("%w: please export OPENAI_API_KEY (and optionally OPENAI_BASE_URL or OPENAI_ORG_ID)", errMissingAPIKey)
		return c.initErr
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL := strings.TrimSpace(c.config.GetStringWithDefault("OPENAI_BASE_URL", "")); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if orgID := strings.TrimSpace(c.config.GetStringWithDefault("OPENAI_ORG_ID", "")); orgID != "" {
		opts = append(opts, option.WithOrganization(orgID))
	}
	opts = append(opts, option.WithHeaderAdd(ai.ClientHeaderName, ai.ClientHeaderValue))

	client := openai.NewClient(opts...)
	service := client.Chat.Completions

	c.chatCompletions = &service
	c.initialized = true
	c.initErr = nil
	return nil
}

func (c *Client) generateWithPrompt(ctx context.Context, prompt ai.Prompt) (string, error) {
	modelName := c.resolveModelName(prompt.ModelName)
	messages, tokenMessages := buildMessages(prompt)

	if c.config.GetBoolWithDefault(config.KeyTokenDebug, false) {
		total, err := countTokensForMessages(tokenMessages, modelName)
		if err != nil {
			c.logger.Debug("token estimate failed", "model", modelName, "error", err)
		} else {
			c.logger.Info("estimated prompt tokens", "model", modelName, "prompt", prompt.Name, "tokens", total)
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(modelName),
		Messages: messages,
	}
	c.applyGenerationConfig(&params, prompt)

	resp, err := c.chatCompletions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}

	if resp.Usage.TotalTokens > 0 {
		c.logger.Debug("chat completion usage",
			"prompt_tokens", resp.Usage.PromptTokens,
			"completion_tokens", resp.Usage.CompletionTokens,
			"total_tokens", resp.Usage.TotalTokens)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai chat completion returned no choices")
	}

	response := strings.TrimSpace(resp.Choices[0].Message.Content)
	if response == "" {
		return "", errors.New("openai returned an empty response")
	}
	return response, nil
}

func (c *Client) resolveModelName(promptModel string) string {
	if strings.TrimSpace(promptModel) != "" {
		return promptModel
	}

	model := c.config.GetModelConfig()
	if strings.TrimSpace(model.ModelName) != "" {
		return model.ModelName
	}

	return string(shared.ChatModelGPT4oMini)
}

func buildMessages(prompt ai.Prompt) ([]openai.ChatCompletionMessageParamUnion, []tokenMessage) {
	var messages []openai.ChatCompletionMessageParamUnion
	var tokenMessages []tokenMessage

	if instruction := strings.TrimSpace(prompt.Instruction); instruction != "" {
		messages = append(messages, openai.SystemMessage(instruction))
		tokenMessages = append(tokenMessages, tokenMessage{Role: "system", Content: instruction})
	}

	text := strings.TrimSpace(prompt.Text)
	messages = append(messages, openai.UserMessage(text))
	tokenMessages = append(tokenMessages, tokenMessage{Role: "user", Content: text})

	return messages, tokenMessages
}

func (c *Client) applyGenerationConfig(params *openai.ChatCompletionNewParams, prompt ai.Prompt) {
	modelCfg := c.config.GetModelConfig()
	targetModel := string(params.Model)

	maxTokens := prompt.MaxTokens
	if maxTokens <= 0 {
		maxTokens = modelCfg.MaxTokens
	}
	if maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(maxTokens))
	}

	if !allowsSamplingParams(targetModel) {
		if prompt.Temperature > 0 && prompt.Temperature != 1.0 {
			c.logger.Debug("temperature not supported for model; using default", "model", targetModel)
		}
		return
	}

	temperature := prompt.Temperature
	if temperature <= 0 {
		temperature = modelCfg.Temperature
	}
	if temperature <= 0 {
		return
	}
	params.Temperature = openai.Float(float64(temperature))

	topP := prompt.TopP
	if topP <= 0 {
		topP = modelCfg.TopP
	}
	if topP > 0 && math.Abs(float64(topP)-1.0) > 1e-6 {
		if supportsTopP(targetModel) {
			params.TopP = openai.Float(float64(topP))
		} else {
			c.logger.Debug("top_p not supported for model; using default", "model", targetModel)
		}
	}
}

type tokenMessage struct {
	Role    string
	Content string
	Name    string
}

func allowsSamplingParams(model string) bool {
	model = strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(model, "o1"),
		strings.HasPrefix(model, "o3"),
		strings.HasPrefix(model, "o4"):
		return false
	default:
		return true
	}
}

func supportsTopP(model string) bool {
	model = strings.ToLower(strings.TrimSpace(model))
	switch {
	case strings.HasPrefix(model, "gpt-4o"),
		strings.HasPrefix(model, "gpt-4-turbo"),
		strings.HasPrefix(model, "gpt-4-"),
		strings.HasPrefix(model, "gpt-3.5"):
		return true
	default:
		return false
	}
}
