package anthropic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	anthropic_sdk "github.com/anthropics/anthropic-sdk-go"
	anthropic_option "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/kcaldas/star-shell/pkg/ai"
	"github.com/kcaldas/star-shell/pkg/config"
	"github.com/kcaldas/star-shell/pkg/logging"
)

const (
	backendName        = "anthropic"
	defaultClaudeModel = "claude-3-5-sonnet-20241022"
	defaultMaxTokens   = 1024
)

var (
	errMissingAPIKey        = errors.New("anthropic backend not configured")
	_                ai.Gen = (*Client)(nil)
)

type messageClient interface {
	New(ctx context.Context, body anthropic_sdk.MessageNewParams, opts ...anthropic_option.RequestOption) (*anthropic_sdk.Message, error)
}

// Option configures the Anthropic client.
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

// WithMessageClient injects a pre-built message client (primarily for tests).
func WithMessageClient(client messageClient) Option {
	return func(c *Client) {
		if client != nil {
			c.messages = client
		}
	}
}

// Client provides an ai.Gen implementation backed by Anthropic Messages API.
type Client struct {
	mu sync.Mutex

	config config.Manager
	logger logging.Logger

	messages messageClient

	initialized bool
	initErr     error
}

// NewClient builds a new Anthropic-backed ai.Gen implementation.
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
		return "", fmt.Errorf("rendering template: %w", err)
	}

	return c.generateWithPrompt(ctx, rendered)
}

// GetStatus reports whether mandatory configuration is available and which model is configured.
func (c *Client) GetStatus() *ai.Status {
	model := c.config.GetModelConfig()
	modelStr := fmt.Sprintf("%s, Temperature: %.2f, Max Tokens: %d", c.resolveModelName(""), model.Temperature, model.MaxTokens)

	apiKey := strings.TrimSpace(c.config.GetStringWithDefault("ANTHROPIC_API_KEY", ""))
	if apiKey == "" {
		return &ai.Status{
			Model:     modelStr,
			Backend:   backendName,
			Connected: false,
			Message:   "ANTHROPIC_API_KEY not configured",
		}
	}

	message := "Anthropic configured"
	if baseURL := strings.TrimSpace(c.config.GetStringWithDefault("ANTHROPIC_BASE_URL", "")); baseURL != "" {
		message = fmt.Sprintf("Anthropic configured (custom endpoint: %s)", baseURL)
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

	if c.messages != nil {
		c.initialized = true
		c.initErr = nil
		return nil
	}

	apiKey := strings.TrimSpace(c.config.GetStringWithDefault("ANTHROPIC_API_KEY", ""))
	if apiKey == "" {
		c.initErr = fmt.Errorf("%w: please export ANTHROPIC_API_KEY (and optionally ANTHROPIC_BASE_URL)", errMissingAPIKey)
		return c.initErr
	}

	opts := []anthropic_option.RequestOption{
		anthropic_option.WithAPIKey(apiKey),
		anthropic_option.WithHeaderAdd(ai.ClientHeaderName, ai.ClientHeaderValue),
	}
	if baseURL := strings.TrimSpace(c.config.GetStringWithDefault("ANTHROPIC_BASE_URL", "")); baseURL != "" {
		opts = append(opts, anthropic_option.WithBaseURL(baseURL))
	}

	client := anthropic_sdk.NewClient(opts...)
	service := client.Messages

	c.messages = &service
	c.initialized = true
	c.initErr = nil
	return nil
}

func (c *Client) generateWithPrompt(ctx context.Context, prompt ai.Prompt) (string, error) {
	modelName := c.resolveModelName(prompt.ModelName)
	maxTokens := prompt.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.config.GetModelConfig().MaxTokens
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic_sdk.MessageNewParams{
		Model:     anthropic_sdk.Model(modelName),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic_sdk.MessageParam{
			anthropic_sdk.NewUserMessage(anthropic_sdk.NewTextBlock(strings.TrimSpace(prompt.Text))),
		},
	}
	if instruction := strings.TrimSpace(prompt.Instruction); instruction != "" {
		params.System = []anthropic_sdk.TextBlockParam{{Text: instruction}}
	}
	c.applyGenerationConfig(&params, prompt)

	resp, err := c.messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}

	c.logger.Debug("messages usage",
		"model", modelName,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens)

	response := strings.TrimSpace(responseText(resp))
	if response == "" {
		return "", errors.New("anthropic returned an empty response")
	}
	return response, nil
}

func responseText(resp *anthropic_sdk.Message) string {
	var textBuilder strings.Builder
	for _, block := range resp.Content {
		if block.Type != "text" || strings.TrimSpace(block.Text) == "" {
			continue
		}
		if textBuilder.Len() > 0 {
			textBuilder.WriteString("\n")
		}
		textBuilder.WriteString(block.Text)
	}
	return textBuilder.String()
}

// applyGenerationConfig sets temperature, and top_p only when it differs
// from the neutral 1.0.
func (c *Client) applyGenerationConfig(params *anthropic_sdk.MessageNewParams, prompt ai.Prompt) {
	modelCfg := c.config.GetModelConfig()

	if prompt.Temperature > 0 {
		params.Temperature = anthropic_sdk.Float(float64(prompt.Temperature))
	} else if modelCfg.Temperature > 0 {
		params.Temperature = anthropic_sdk.Float(float64(modelCfg.Temperature))
	}

	topP := prompt.TopP
	if topP <= 0 {
		topP = modelCfg.TopP
	}
	if topP > 0 && math.Abs(float64(topP)-1.0) > 1e-6 {
		params.TopP = anthropic_sdk.Float(float64(topP))
	}
}

func (c *Client) resolveModelName(promptModel string) string {
	if strings.TrimSpace(promptModel) != "" {
		return promptModel
	}

	model := c.config.GetModelConfig()
	if strings.TrimSpace(model.ModelName) != "" {
		return model.ModelName
	}

	return defaultClaudeModel
}
