package ai

import (
	"context"
)

// Gen is a text generation backend.
type Gen interface {
	// GenerateContent renders prompt with attrs and returns the model's text reply.
	GenerateContent(ctx context.Context, prompt Prompt, attrs []Attr) (string, error)
	// GetStatus reports whether the backend is configured, without network calls.
	GetStatus() *Status
}

// An Attr is a key-value pair.
type Attr struct {
	Key   string
	Value string
}

type Prompt struct {
	Name        string  `yaml:"name"`
	Instruction string  `yaml:"instruction"`
	Text        string  `yaml:"text"`
	ModelName   string  `yaml:"model_name"`
	MaxTokens   int32   `yaml:"max_tokens"`
	Temperature float32 `yaml:"temperature"`
	TopP        float32 `yaml:"top_p"`
}

// Status describes a backend's configuration state.
type Status struct {
	Backend   string
	Model     string
	Connected bool
	Message   string
}
