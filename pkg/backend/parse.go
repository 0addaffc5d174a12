package backend

import (
	"errors"
	"strings"

	"github.com/kcaldas/star-shell/pkg/ai"
)

// ErrNoCommand is returned when a model reply contains no command.
var ErrNoCommand = errors.New("no command in model response")

const (
	commandPrefix     = "command:"
	descriptionPrefix = "description:"
)

// ParseSuggestion extracts the command and description from a model reply
// of the form "Command: ..." / "Description: ...". Replies without a
// Command line use their first non-empty line as the command.
func ParseSuggestion(text string) (Suggestion, error) {
	var (
		suggestion  Suggestion
		firstLine   string
		description []string
		inDesc      bool
	)

	for _, raw := range strings.Split(ai.RemoveSurroundingMarkdown(text), "\n") {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "```") {
			continue
		}
		lower := strings.ToLower(line)

		switch {
		case strings.HasPrefix(lower, commandPrefix):
			if suggestion.Command == "" {
				suggestion.Command = cleanCommand(line[len(commandPrefix):])
			}
			inDesc = false
		case strings.HasPrefix(lower, descriptionPrefix):
			description = append(description, strings.TrimSpace(line[len(descriptionPrefix):]))
			inDesc = true
		case inDesc:
			if line != "" {
				description = append(description, line)
			}
		case firstLine == "" && line != "":
			firstLine = line
		}
	}

	if suggestion.Command == "" {
		suggestion.Command = cleanCommand(firstLine)
	}
	if suggestion.Command == "" {
		return Suggestion{}, ErrNoCommand
	}
	suggestion.Description = strings.TrimSpace(strings.Join(description, " "))
	return suggestion, nil
}

func cleanCommand(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "`")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$ ")
	return strings.TrimSpace(s)
}
