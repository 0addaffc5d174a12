package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuggestion(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Suggestion
	}{
		{
			name:     "command only",
			input:    "Command: ls -la",
			expected: Suggestion{Command: "ls -la"},
		},
		{
			name:     "command and description",
			input:    "Command: du -sh *\nDescription: Shows the size of each entry.",
			expected: Suggestion{Command: "du -sh *", Description: "Shows the size of each entry."},
		},
		{
			name:     "case insensitive prefixes",
			input:    "COMMAND: pwd\ndescription: prints the working directory",
			expected: Suggestion{Command: "pwd", Description: "prints the working directory"},
		},
		{
			name:     "backticks stripped",
			input:    "Command: `git status`",
			expected: Suggestion{Command: "git status"},
		},
		{
			name:     "fenced reply",
			input:    "```bash\nCommand: echo hi\n```",
			expected: Suggestion{Command: "echo hi"},
		},
		{
			name:     "multi-line description",
			input:    "Command: top\nDescription: Shows processes.\nPress q to quit.",
			expected: Suggestion{Command: "top", Description: "Shows processes. Press q to quit."},
		},
		{
			name:     "fallback to first line",
			input:    "\n\n$ find . -name '*.go'\nthis finds go files",
			expected: Suggestion{Command: "find . -name '*.go'"},
		},
		{
			name:     "description before command",
			input:    "Description: lists files\nCommand: ls",
			expected: Suggestion{Command: "ls", Description: "lists files"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSuggestion(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseSuggestion_NoCommand(t *testing.T) {
	for _, input := range []string{"", "   \n\n", "```\n```", "Command: ``", "Description: only words"} {
		_, err := ParseSuggestion(input)
		assert.ErrorIs(t, err, ErrNoCommand, "input %q", input)
	}
}
