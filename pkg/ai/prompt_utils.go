package ai

import (
	"strings"

	"github.com/kcaldas/star-shell/pkg/template"
)

// RenderPrompt takes a base prompt and renders its text and instruction with the given data.
func RenderPrompt(base Prompt, data map[string]string) (Prompt, error) {
	engine := template.NewEngine()

	renderedText, err := engine.RenderString(base.Text, data)
	if err != nil {
		return Prompt{}, err
	}
	renderedInstruction, err := engine.RenderString(base.Instruction, data)
	if err != nil {
		return Prompt{}, err
	}

	newPrompt := base
	newPrompt.Text = strings.TrimSpace(renderedText)
	newPrompt.Instruction = strings.TrimSpace(renderedInstruction)
	return newPrompt, nil
}

// AttrsToMap converts attributes to template data. Later keys win.
func AttrsToMap(attrs []Attr) map[string]string {
	result := make(map[string]string, len(attrs))
	for _, attr := range attrs {
		result[attr.Key] = attr.Value
	}
	return result
}

// RemoveSurroundingMarkdown removes first and last lines if they start with ``` and removes empty lines at the beginning and end
func RemoveSurroundingMarkdown(content string) string {
	lines := strings.Split(content, "\n")
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	if start < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[start]), "```") {
		start++
	}
	end := len(lines) - 1
	for end >= start && strings.TrimSpace(lines[end]) == "" {
		end--
	}
	if end >= start && strings.HasPrefix(strings.TrimSpace(lines[end]), "```") {
		end--
	}
	if end < start {
		return ""
	}
	return strings.Join(lines[start:end+1], "\n")
}
