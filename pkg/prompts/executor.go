package prompts

import (
	"context"
	"fmt"
	"sync"

	"github.com/kcaldas/star-shell/pkg/ai"
)

// Executor runs a named prompt against a generation backend.
type Executor interface {
	Execute(ctx context.Context, promptName string, promptData ...ai.Attr) (string, error)
	CacheSize() int // For testing purposes
}

// DefaultExecutor caches loaded prompts and strips markdown fences from replies.
type DefaultExecutor struct {
	Gen         ai.Gen
	Loader      Loader
	Overrides   func(*ai.Prompt)
	promptCache map[string]ai.Prompt
	cacheMutex  sync.RWMutex
}

// NewExecutor creates a new DefaultExecutor with embedded prompts
func NewExecutor(gen ai.Gen) *DefaultExecutor {
	return NewWithLoader(gen, NewPromptLoader())
}

// NewWithLoader creates a DefaultExecutor with a custom loader (useful for testing)
func NewWithLoader(gen ai.Gen, loader Loader) *DefaultExecutor {
	return &DefaultExecutor{
		Gen:         gen,
		Loader:      loader,
		promptCache: make(map[string]ai.Prompt),
	}
}

// CacheSize returns the number of prompts in the cache
func (s *DefaultExecutor) CacheSize() int {
	s.cacheMutex.RLock()
	defer s.cacheMutex.RUnlock()
	return len(s.promptCache)
}

func (s *DefaultExecutor) getPrompt(promptName string) (ai.Prompt, error) {
	s.cacheMutex.RLock()
	prompt, exists := s.promptCache[promptName]
	s.cacheMutex.RUnlock()
	if exists {
		return prompt, nil
	}

	newPrompt, err := s.Loader.LoadPrompt(promptName)
	if err != nil {
		return ai.Prompt{}, err
	}

	s.cacheMutex.Lock()
	s.promptCache[promptName] = newPrompt
	s.cacheMutex.Unlock()

	return newPrompt, nil
}

// Execute loads promptName, applies model overrides and generates a reply.
func (s *DefaultExecutor) Execute(ctx context.Context, promptName string, promptData ...ai.Attr) (string, error) {
	prompt, err := s.getPrompt(promptName)
	if err != nil {
		return "", err
	}
	if s.Overrides != nil {
		s.Overrides(&prompt)
	}

	result, err := s.Gen.GenerateContent(ctx, prompt, promptData)
	if err != nil {
		return "", fmt.Errorf("error generating content: %w", err)
	}
	return ai.RemoveSurroundingMarkdown(result), nil
}
