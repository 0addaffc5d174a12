package backend

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/kcaldas/star-shell/pkg/ai"
	"github.com/kcaldas/star-shell/pkg/config"
	"github.com/kcaldas/star-shell/pkg/llm/anthropic"
	"github.com/kcaldas/star-shell/pkg/llm/genai"
	"github.com/kcaldas/star-shell/pkg/llm/openai"
	"github.com/kcaldas/star-shell/pkg/osinfo"
)

// Backend names accepted by New.
const (
	OpenAI    = "openai"
	Gemini    = "gemini"
	Anthropic = "anthropic"
)

// ErrUnknownBackend is returned by New for names not listed in Names.
var ErrUnknownBackend = errors.New("unknown backend")

var (
	_ Genie = (*OpenAIGenie)(nil)
	_ Genie = (*GeminiGenie)(nil)
	_ Genie = (*ClaudeGenie)(nil)
)

// OpenAIGenie suggests commands using OpenAI chat completions.
type OpenAIGenie struct{ core }

// GeminiGenie suggests commands using Gemini or Vertex AI.
type GeminiGenie struct{ core }

// ClaudeGenie suggests commands using the Anthropic Messages API.
type ClaudeGenie struct{ core }

func NewOpenAIGenie(gen ai.Gen, env Environment, cfg config.Manager) *OpenAIGenie {
	return &OpenAIGenie{newCore(OpenAI, gen, env, cfg)}
}

func NewGeminiGenie(gen ai.Gen, env Environment, cfg config.Manager) *GeminiGenie {
	return &GeminiGenie{newCore(Gemini, gen, env, cfg)}
}

func NewClaudeGenie(gen ai.Gen, env Environment, cfg config.Manager) *ClaudeGenie {
	return &ClaudeGenie{newCore(Anthropic, gen, env, cfg)}
}

// Names lists the supported backend names.
func Names() []string {
	return []string{OpenAI, Gemini, Anthropic}
}

// Implementations returns the type names of the Genie implementations.
func Implementations() []string {
	return []string{
		reflect.TypeOf(OpenAIGenie{}).Name(),
		reflect.TypeOf(GeminiGenie{}).Name(),
		reflect.TypeOf(ClaudeGenie{}).Name(),
	}
}

// ResolveName returns name, or the configured default when it is empty.
func ResolveName(name string, cfg config.Manager) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = strings.ToLower(cfg.GetStringWithDefault(config.KeyBackend, config.DefaultBackend))
	}
	switch name {
	case "claude":
		return Anthropic
	case "google", "vertex":
		return Gemini
	}
	return name
}

// New builds the Genie for name, falling back to the configured backend
// when name is empty.
func New(name string, cfg config.Manager) (Genie, error) {
	name = ResolveName(name, cfg)
	env := DetectEnvironment(cfg)

	switch name {
	case OpenAI:
		return NewOpenAIGenie(openai.NewClient(openai.WithConfigManager(cfg)), env, cfg), nil
	case Gemini:
		return NewGeminiGenie(genai.NewClient(cfg), env, cfg), nil
	case Anthropic:
		return NewClaudeGenie(anthropic.NewClient(anthropic.WithConfigManager(cfg)), env, cfg), nil
	default:
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownBackend, name, strings.Join(Names(), ", "))
	}
}

// APIKeyEnv returns the variable holding the API key for a backend name.
func APIKeyEnv(name string) string {
	switch name {
	case OpenAI:
		return "OPENAI_API_KEY"
	case Gemini:
		return "GEMINI_API_KEY"
	case Anthropic:
		return "ANTHROPIC_API_KEY"
	}
	return ""
}

// ShellFor returns the configured STAR_SHELL_SHELL or the detected shell.
func ShellFor(cfg config.Manager) string {
	if shell := cfg.GetStringWithDefault(config.KeyShell, ""); shell != "" {
		return shell
	}
	return osinfo.Shell()
}

// DetectEnvironment reads the OS name and the shell.
func DetectEnvironment(cfg config.Manager) Environment {
	_, fullName := osinfo.GetOSInfo()
	return Environment{OS: fullName, Shell: ShellFor(cfg)}
}
