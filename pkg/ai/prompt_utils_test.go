package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPrompt(t *testing.T) {
	base := Prompt{
		Name:        "command",
		Instruction: "You write commands for {{.os}}.",
		Text:        "Request: {{.wish}}\n{{if .explain}}Explain it.{{end}}\n",
		MaxTokens:   128,
	}

	rendered, err := RenderPrompt(base, map[string]string{"os": "Linux", "wish": "list files"})
	require.NoError(t, err)

	assert.Equal(t, "You write commands for Linux.", rendered.Instruction)
	assert.Equal(t, "Request: list files", rendered.Text)
	assert.Equal(t, int32(128), rendered.MaxTokens)
	assert.Equal(t, "Request: {{.wish}}\n{{if .explain}}Explain it.{{end}}\n", base.Text, "base prompt must not change")
}

func TestRenderPrompt_InvalidTemplate(t *testing.T) {
	_, err := RenderPrompt(Prompt{Text: "{{.wish"}, nil)
	assert.Error(t, err)
}

func TestAttrsToMap(t *testing.T) {
	m := AttrsToMap([]Attr{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}, {Key: "a", Value: "3"}})
	assert.Equal(t, map[string]string{"a": "3", "b": "2"}, m)
}

func Test_removeSurroundingMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "no markdown", input: "hello world", expected: "hello world"},
		{name: "fenced block", input: "```bash\nls -la\n```", expected: "ls -la"},
		{name: "blank lines around fence", input: "\n\n```\necho hi\n```\n\n", expected: "echo hi"},
		{name: "only fences", input: "```\n```", expected: ""},
		{name: "unterminated fence", input: "```sh\ndf -h", expected: "df -h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RemoveSurroundingMarkdown(tt.input))
		})
	}
}

func TestMockGen(t *testing.T) {
	mock := NewMockGen("first", "second")

	got, err := mock.GenerateContent(t.Context(), Prompt{Name: "a"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "first", got)

	got, _ = mock.GenerateContent(t.Context(), Prompt{Name: "b"}, nil)
	assert.Equal(t, "second", got)
	got, _ = mock.GenerateContent(t.Context(), Prompt{Name: "c"}, nil)
	assert.Equal(t, "second", got)

	assert.Equal(t, 3, mock.Calls())
	assert.True(t, mock.GetStatus().Connected)
}
