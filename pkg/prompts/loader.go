package prompts

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kcaldas/star-shell/pkg/ai"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/*
var promptsFS embed.FS

// Loader defines how prompts are loaded
type Loader interface {
	LoadPrompt(promptName string) (ai.Prompt, error)
}

// DefaultLoader loads prompts from the embedded file system
type DefaultLoader struct{}

// NewPromptLoader returns the embedded prompt loader.
func NewPromptLoader() Loader {
	return &DefaultLoader{}
}

// LoadPrompt loads a prompt from the embedded file system
func (l *DefaultLoader) LoadPrompt(promptName string) (ai.Prompt, error) {
	data, err := promptsFS.ReadFile("prompts/" + promptName + ".yaml")
	if err != nil {
		return ai.Prompt{}, fmt.Errorf("error reading embedded prompt %q: %w", promptName, err)
	}
	return decodePrompt(promptName, data)
}

// Names lists the embedded prompt names in sorted order.
func Names() []string {
	entries, err := promptsFS.ReadDir("prompts")
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// FileLoader reads prompts from a directory, falling back to the embedded
// set when a file is absent. Used for local prompt overrides.
type FileLoader struct {
	PromptsPath string
	Fallback    Loader
}

// LoadPrompt loads a prompt from disk
func (l *FileLoader) LoadPrompt(promptName string) (ai.Prompt, error) {
	data, err := os.ReadFile(filepath.Join(l.PromptsPath, promptName+".yaml"))
	if err != nil {
		if os.IsNotExist(err) && l.Fallback != nil {
			return l.Fallback.LoadPrompt(promptName)
		}
		return ai.Prompt{}, fmt.Errorf("error reading prompt file: %w", err)
	}
	return decodePrompt(promptName, data)
}

func decodePrompt(promptName string, data []byte) (ai.Prompt, error) {
	var prompt ai.Prompt
	if err := yaml.Unmarshal(data, &prompt); err != nil {
		return ai.Prompt{}, fmt.Errorf("error unmarshaling prompt: %w", err)
	}
	if prompt.Name == "" {
		prompt.Name = promptName
	}
	if strings.TrimSpace(prompt.Text) == "" {
		return ai.Prompt{}, fmt.Errorf("prompt %q has no text", promptName)
	}
	return prompt, nil
}
