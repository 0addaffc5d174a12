package ai

import (
	"context"
	"sync"
)

var _ Gen = (*MockGen)(nil)

// MockGen implements the Gen interface for testing. Responses are returned
// in order; once exhausted the last one repeats.
type MockGen struct {
	mu sync.Mutex

	Responses []string
	Err       error
	Status    *Status

	Prompts []Prompt
	Attrs   [][]Attr
}

// NewMockGen returns a mock that answers with the given responses.
func NewMockGen(responses ...string) *MockGen {
	return &MockGen{Responses: responses}
}

// GenerateContent records the call and returns the next queued response.
func (m *MockGen) GenerateContent(ctx context.Context, prompt Prompt, attrs []Attr) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)
	m.Attrs = append(m.Attrs, attrs)

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "mock response", nil
	}

	response := m.Responses[0]
	if len(m.Responses) > 1 {
		m.Responses = m.Responses[1:]
	}
	return response, nil
}

// GetStatus returns the configured status or a connected mock status.
func (m *MockGen) GetStatus() *Status {
	if m.Status != nil {
		return m.Status
	}
	return &Status{Backend: "mock", Model: "mock-model", Connected: true, Message: "mock backend"}
}

// Calls returns the number of GenerateContent calls so far.
func (m *MockGen) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
