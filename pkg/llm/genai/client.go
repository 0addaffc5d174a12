package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kcaldas/star-shell/pkg/ai"
	"github.com/kcaldas/star-shell/pkg/config"
	"github.com/kcaldas/star-shell/pkg/logging"
	"google.golang.org/genai"
)

// Backend represents the GenAI backend to use
type Backend string

const (
	BackendVertexAI  Backend = "vertex"
	BackendGeminiAPI Backend = "gemini"
)

const (
	defaultModel    = "gemini-2.0-flash"
	defaultLocation = "us-central1"
)

var errNotConfigured = errors.New("gemini backend not configured")

type generateContentFn func(ctx context.Context, modelName string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// Client implements the ai.Gen interface using Google's unified GenAI package
// Supports both Vertex AI and Gemini API backends
type Client struct {
	Client  *genai.Client
	Config  config.Manager
	Backend Backend
	Logger  logging.Logger
	// Allows tests to intercept generate content calls.
	callGenerateContentFn generateContentFn

	// Lazy initialization
	mu          sync.Mutex
	initialized bool
	initError   error
}

var _ ai.Gen = &Client{}

// NewClient creates a new unified GenAI client that will initialize lazily.
// The preferred backend comes from GENAI_BACKEND; the other one is tried
// when the preferred one is not configured.
func NewClient(configManager config.Manager) *Client {
	if configManager == nil {
		configManager = config.NewConfigManager()
	}
	return &Client{
		Config:  configManager,
		Backend: Backend(configManager.GetStringWithDefault("GENAI_BACKEND", string(BackendGeminiAPI))),
		Logger:  logging.NewAPILogger("genai"),
	}
}

// ensureInitialized initializes the GenAI client (idempotent, safe to call multiple times)
func (g *Client) ensureInitialized(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.initialized {
		return g.initError
	}
	g.initialized = true

	if g.callGenerateContentFn != nil {
		return nil
	}

	client, actualBackend, err := createClientWithBackend(ctx, g.Config, g.Backend)
	if err != nil {
		fallbackBackend := BackendGeminiAPI
		if g.Backend == BackendGeminiAPI {
			fallbackBackend = BackendVertexAI
		}

		client, actualBackend, err = createClientWithBackend(ctx, g.Config, fallbackBackend)
		if err != nil {
			g.initError = fmt.Errorf("%w. Please set up one of the following:\n\n"+
				"Option 1 - Gemini API (recommended):\n"+
				"  export GEMINI_API_KEY=your-api-key\n"+
				"  Get your API key from: https://aistudio.google.com/apikey\n\n"+
				"Option 2 - Vertex AI:\n"+
				"  export GOOGLE_CLOUD_PROJECT=your-project-id\n"+
				"  Requires Google Cloud setup and authentication", errNotConfigured)
			return g.initError
		}
	}

	g.Client = client
	g.Backend = actualBackend
	g.initError = nil
	return nil
}

// createClientWithBackend attempts to create a client with the specified backend
func createClientWithBackend(ctx context.Context, configManager config.Manager, backend Backend) (*genai.Client, Backend, error) {
	switch backend {
	case BackendGeminiAPI:
		apiKey := configManager.GetStringWithDefault("GEMINI_API_KEY", "")
		if apiKey == "" {
			return nil, "", fmt.Errorf("GEMINI_API_KEY not configured")
		}

		cfg := &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		}
		cfg.HTTPOptions.Headers = ai.DefaultHTTPHeaders()

		client, err := genai.NewClient(ctx, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("error creating Gemini API client: %w", err)
		}
		return client, BackendGeminiAPI, nil

	case BackendVertexAI:
		projectID, err := configManager.GetString("GOOGLE_CLOUD_PROJECT")
		if err != nil {
			return nil, "", fmt.Errorf("GOOGLE_CLOUD_PROJECT not configured")
		}

		cfg := &genai.ClientConfig{
			Project:  projectID,
			Location: configManager.GetStringWithDefault("GOOGLE_CLOUD_LOCATION", defaultLocation),
			Backend:  genai.BackendVertexAI,
		}
		cfg.HTTPOptions.Headers = ai.DefaultHTTPHeaders()

		client, err := genai.NewClient(ctx, cfg)
		if err != nil {
			return nil, "", fmt.Errorf("error creating Vertex AI client: %w", err)
		}
		return client, BackendVertexAI, nil

	default:
		return nil, "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// GenerateContent renders the prompt with attrs and asks Gemini for a reply.
func (g *Client) GenerateContent(ctx context.Context, prompt ai.Prompt, attrs []ai.Attr) (string, error) {
	if err := g.ensureInitialized(ctx); err != nil {
		return "", err
	}

	p, err := ai.RenderPrompt(prompt, ai.AttrsToMap(attrs))
	if err != nil {
		return "", fmt.Errorf("error rendering prompt: %w", err)
	}

	return g.generateContentWithPrompt(ctx, p)
}

// GetStatus returns the connection status and backend information
func (g *Client) GetStatus() *ai.Status {
	model := g.Config.GetModelConfig()
	modelStr := fmt.Sprintf("%s, Temperature: %.2f, Max Tokens: %d", g.resolveModelName(""), model.Temperature, model.MaxTokens)

	switch g.Backend {
	case BackendGeminiAPI:
		if g.Config.GetStringWithDefault("GEMINI_API_KEY", "") == "" {
			return &ai.Status{Model: modelStr, Connected: false, Backend: "gemini", Message: "GEMINI_API_KEY not configured"}
		}
		return &ai.Status{Model: modelStr, Connected: true, Backend: "gemini", Message: "Gemini API configured"}

	case BackendVertexAI:
		projectID := g.Config.GetStringWithDefault("GOOGLE_CLOUD_PROJECT", "")
		if projectID == "" {
			return &ai.Status{Model: modelStr, Connected: false, Backend: "vertex", Message: "GOOGLE_CLOUD_PROJECT not configured"}
		}
		location := g.Config.GetStringWithDefault("GOOGLE_CLOUD_LOCATION", defaultLocation)
		return &ai.Status{Model: modelStr, Connected: true, Backend: "vertex", Message: fmt.Sprintf("Vertex AI configured (project: %s, location: %s)", projectID, location)}

	default:
		return &ai.Status{Model: modelStr, Connected: false, Backend: "unknown", Message: fmt.Sprintf("Unknown backend: %s", g.Backend)}
	}
}

func (g *Client) resolveModelName(promptModel string) string {
	if strings.TrimSpace(promptModel) != "" {
		return promptModel
	}
	if model := strings.TrimSpace(g.Config.GetModelConfig().ModelName); model != "" {
		return model
	}
	return defaultModel
}

func (g *Client) generateContentWithPrompt(ctx context.Context, p ai.Prompt) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(p.Text)}, genai.RoleUser),
	}
	cfg := g.buildGenerateConfig(p)
	modelName := g.resolveModelName(p.ModelName)

	result, err := g.invokeGenerateContent(ctx, modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("error generating content: %w", err)
	}

	if usage := result.UsageMetadata; usage != nil {
		g.Logger.Debug("generate content usage",
			"model", modelName,
			"prompt_tokens", usage.PromptTokenCount,
			"total_tokens", usage.TotalTokenCount)
	}

	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("no response candidates")
	}

	candidate := result.Candidates[0]
	if candidate.Content == nil {
		return "", fmt.Errorf("no content in response candidate")
	}

	response := joinContentParts(candidate.Content)
	if response == "" {
		g.Logger.Debug("empty response received despite having candidates",
			"candidates", len(result.Candidates),
			"content_parts", len(candidate.Content.Parts))
		return "", fmt.Errorf("no usable content in response candidates")
	}

	return response, nil
}

func (g *Client) buildGenerateConfig(p ai.Prompt) *genai.GenerateContentConfig {
	modelCfg := g.Config.GetModelConfig()
	cfg := &genai.GenerateContentConfig{CandidateCount: 1}

	if strings.TrimSpace(p.Instruction) != "" {
		systemParts := []*genai.Part{genai.NewPartFromText(p.Instruction)}
		cfg.SystemInstruction = genai.NewContentFromParts(systemParts, genai.RoleUser)
	}

	maxTokens := p.MaxTokens
	if maxTokens <= 0 {
		maxTokens = modelCfg.MaxTokens
	}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = maxTokens
	}

	temperature := p.Temperature
	if temperature <= 0 {
		temperature = modelCfg.Temperature
	}
	if temperature > 0 {
		cfg.Temperature = &temperature
	}

	topP := p.TopP
	if topP <= 0 {
		topP = modelCfg.TopP
	}
	if topP > 0 {
		cfg.TopP = &topP
	}

	return cfg
}

// joinContentParts concatenates text parts, ignoring thoughts unless they
// are all the model returned.
func joinContentParts(content *genai.Content) string {
	var textParts, thoughtParts []string

	for _, part := range content.Parts {
		if part == nil || part.Text == "" {
			continue
		}
		if part.Thought {
			thoughtParts = append(thoughtParts, part.Text)
		} else {
			textParts = append(textParts, part.Text)
		}
	}

	if len(textParts) > 0 {
		return strings.Join(textParts, "")
	}
	if len(thoughtParts) > 0 {
		return thoughtParts[len(thoughtParts)-1]
	}
	return ""
}

func (g *Client) invokeGenerateContent(ctx context.Context, modelName string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	if g.callGenerateContentFn != nil {
		return g.callGenerateContentFn(ctx, modelName, contents, config)
	}
	return g.Client.Models.GenerateContent(ctx, modelName, contents, config)
}
