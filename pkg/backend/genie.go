// Package backend turns natural-language wishes into shell commands using
// one of the supported LLM providers.
package backend

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kcaldas/star-shell/pkg/ai"
	"github.com/kcaldas/star-shell/pkg/config"
	"github.com/kcaldas/star-shell/pkg/logging"
	"github.com/kcaldas/star-shell/pkg/prompts"
)

const (
	commandPrompt = "command"
	explainPrompt = "explain"
)

// Genie suggests and explains shell commands.
type Genie interface {
	Ask(ctx context.Context, wish string, explain bool, opts ...AskOption) (Suggestion, error)
	Explain(ctx context.Context, command string) (string, error)
	Status() *ai.Status
}

// Suggestion is a command proposed for a wish.
type Suggestion struct {
	Command     string
	Description string
}

// Environment describes where the suggested command will run.
type Environment struct {
	OS    string
	Shell string
}

type askOptions struct {
	context string
}

// AskOption customises a single Ask call.
type AskOption func(*askOptions)

// WithContext attaches extra input, usually piped stdin, to the request.
func WithContext(text string) AskOption {
	return func(o *askOptions) {
		o.context = text
	}
}

// core holds the prompt and parsing logic shared by every provider.
type core struct {
	backend  string
	gen      ai.Gen
	executor prompts.Executor
	env      Environment
	logger   logging.Logger
}

func newCore(backend string, gen ai.Gen, env Environment, cfg config.Manager) core {
	executor := prompts.NewExecutor(gen)
	if cfg != nil {
		executor.Overrides = modelOverrides(cfg)
	}
	return core{
		backend:  backend,
		gen:      gen,
		executor: executor,
		env:      env,
		logger:   logging.NewComponentLogger("backend." + backend),
	}
}

// modelOverrides applies explicitly configured model settings on top of the
// prompt defaults.
func modelOverrides(cfg config.Manager) func(*ai.Prompt) {
	return func(p *ai.Prompt) {
		if model := strings.TrimSpace(cfg.GetStringWithDefault(config.KeyModel, "")); model != "" {
			p.ModelName = model
		}
		if maxTokens, err := cfg.GetInt(config.KeyMaxTokens); err == nil && maxTokens > 0 {
			p.MaxTokens = int32(maxTokens)
		}
		if raw := cfg.GetStringWithDefault(config.KeyTemperature, ""); raw != "" {
			if temperature, err := strconv.ParseFloat(raw, 32); err == nil && temperature > 0 {
				p.Temperature = float32(temperature)
			}
		}
	}
}

// Ask asks the model for a command fulfilling wish.
func (c core) Ask(ctx context.Context, wish string, explain bool, opts ...AskOption) (Suggestion, error) {
	wish = strings.TrimSpace(wish)
	if wish == "" {
		return Suggestion{}, errors.New("wish must not be empty")
	}

	var options askOptions
	for _, opt := range opts {
		opt(&options)
	}

	c.logger.Debug("asking for command", "wish", wish, "explain", explain, "context_bytes", len(options.context))

	reply, err := c.executor.Execute(ctx, commandPrompt,
		ai.Attr{Key: "wish", Value: wish},
		ai.Attr{Key: "os", Value: c.env.OS},
		ai.Attr{Key: "shell", Value: c.env.Shell},
		ai.Attr{Key: "explain", Value: boolAttr(explain)},
		ai.Attr{Key: "context", Value: strings.TrimSpace(options.context)},
	)
	if err != nil {
		return Suggestion{}, fmt.Errorf("%s: %w", c.backend, err)
	}

	suggestion, err := ParseSuggestion(reply)
	if err != nil {
		c.logger.Debug("unparseable reply", "reply", reply)
		return Suggestion{}, err
	}
	if !explain {
		suggestion.Description = ""
	}
	return suggestion, nil
}

// Explain asks the model to describe command in markdown.
func (c core) Explain(ctx context.Context, command string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", errors.New("command must not be empty")
	}

	reply, err := c.executor.Execute(ctx, explainPrompt,
		ai.Attr{Key: "command", Value: command},
		ai.Attr{Key: "os", Value: c.env.OS},
		ai.Attr{Key: "shell", Value: c.env.Shell},
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", c.backend, err)
	}
	return reply, nil
}

// Status reports the provider's configuration state.
func (c core) Status() *ai.Status {
	return c.gen.GetStatus()
}

func boolAttr(b bool) string {
	if b {
		return "true"
	}
	return ""
}
