package prompts

import (
	"errors"
	"testing"

	"github.com/kcaldas/star-shell/pkg/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLoader implements Loader for testing
type MockLoader struct {
	MockPrompts map[string]ai.Prompt
	LoadCount   int
}

func (mpl *MockLoader) LoadPrompt(promptName string) (ai.Prompt, error) {
	mpl.LoadCount++
	prompt, exists := mpl.MockPrompts[promptName]
	if !exists {
		return ai.Prompt{}, errors.New("prompt not found")
	}
	return prompt, nil
}

func TestExecutor_CachesPrompts(t *testing.T) {
	loader := &MockLoader{MockPrompts: map[string]ai.Prompt{
		"test-prompt": {Text: "Test prompt", Instruction: "Test instruction"},
	}}
	gen := ai.NewMockGen("first", "second")
	executor := NewWithLoader(gen, loader)

	result, err := executor.Execute(t.Context(), "test-prompt")
	require.NoError(t, err)
	assert.Equal(t, "first", result)

	result, err = executor.Execute(t.Context(), "test-prompt")
	require.NoError(t, err)
	assert.Equal(t, "second", result)

	assert.Equal(t, 1, loader.LoadCount)
	assert.Equal(t, 1, executor.CacheSize())
	assert.Equal(t, 2, gen.Calls())
}

func TestExecutor_PassesAttrs(t *testing.T) {
	loader := &MockLoader{MockPrompts: map[string]ai.Prompt{"p": {Text: "{{.wish}}"}}}
	gen := ai.NewMockGen("ok")
	executor := NewWithLoader(gen, loader)

	_, err := executor.Execute(t.Context(), "p", ai.Attr{Key: "wish", Value: "list"})
	require.NoError(t, err)

	require.Len(t, gen.Attrs, 1)
	assert.Equal(t, []ai.Attr{{Key: "wish", Value: "list"}}, gen.Attrs[0])
}

func TestExecutor_StripsMarkdown(t *testing.T) {
	loader := &MockLoader{MockPrompts: map[string]ai.Prompt{"p": {Text: "x"}}}
	executor := NewWithLoader(ai.NewMockGen("```bash\nls -la\n```"), loader)

	result, err := executor.Execute(t.Context(), "p")
	require.NoError(t, err)
	assert.Equal(t, "ls -la", result)
}

func TestExecutor_AppliesOverrides(t *testing.T) {
	loader := &MockLoader{MockPrompts: map[string]ai.Prompt{"p": {Text: "x", MaxTokens: 10}}}
	gen := ai.NewMockGen("ok")
	executor := NewWithLoader(gen, loader)
	executor.Overrides = func(p *ai.Prompt) {
		p.ModelName = "gpt-test"
		p.MaxTokens = 99
	}

	_, err := executor.Execute(t.Context(), "p")
	require.NoError(t, err)

	require.Len(t, gen.Prompts, 1)
	assert.Equal(t, "gpt-test", gen.Prompts[0].ModelName)
	assert.Equal(t, int32(99), gen.Prompts[0].MaxTokens)

	// cached copy is untouched
	cached, _ := executor.getPrompt("p")
	assert.Equal(t, int32(10), cached.MaxTokens)
}

func TestExecutor_Errors(t *testing.T) {
	loader := &MockLoader{MockPrompts: map[string]ai.Prompt{"p": {Text: "x"}}}

	t.Run("unknown prompt", func(t *testing.T) {
		executor := NewWithLoader(ai.NewMockGen(), loader)
		_, err := executor.Execute(t.Context(), "missing")
		assert.EqualError(t, err, "prompt not found")
		assert.Equal(t, 0, executor.CacheSize())
	})

	t.Run("generation failure", func(t *testing.T) {
		gen := ai.NewMockGen()
		gen.Err = errors.New("boom")
		executor := NewWithLoader(gen, loader)
		_, err := executor.Execute(t.Context(), "p")
		assert.ErrorContains(t, err, "error generating content: boom")
	})
}
