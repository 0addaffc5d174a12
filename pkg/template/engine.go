package template

import (
	"bytes"
	"strings"
	"text/template"
)

// Engine provides template rendering functionality
type Engine interface {
	RenderString(templateContent string, data map[string]string) (string, error)
}

// DefaultEngine implements the Engine interface
type DefaultEngine struct {
}

// NewEngine creates a new default template engine
func NewEngine() Engine {
	return &DefaultEngine{}
}

var funcs = template.FuncMap{
	"indent":  indent,
	"default": defaultValue,
}

// RenderString renders a template string with the provided data. Missing
// keys render as empty strings.
func (e *DefaultEngine) RenderString(templateContent string, data map[string]string) (string, error) {
	tmpl, err := template.New("template").
		Option("missingkey=zero").
		Funcs(funcs).
		Parse(templateContent)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// indent adds the specified number of spaces to the beginning of each line
func indent(spaces int, text string) string {
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func defaultValue(fallback, value string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
