package services

import (
	"context"
	"sync"
)

// MockLLM is a mock implementation of LLMService for testing.
type MockLLM struct {
	InitModelFunc    func(ctx context.Context, modelName string) error
	GenerateTextFunc func(ctx context.Context, prompt string) (string, error)

	// Track calls for testing
	InitModelCalls    []string
	GenerateTextCalls []string

	mu sync.Mutex // protects all fields above
}

// NewMockLLM creates a new mock LLM service.
func NewMockLLM() *MockLLM {
	return &MockLLM{
		InitModelCalls:    make([]string, 0),
		GenerateTextCalls: make([]string, 0),
	}
}

func (m *MockLLM) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.InitModelCalls = append(m.InitModelCalls, modelName)
	if m.InitModelFunc != nil {
		return m.InitModelFunc(ctx, modelName)
	}
	return nil
}

func (m *MockLLM) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GenerateTextCalls = append(m.GenerateTextCalls, prompt)
	if m.GenerateTextFunc != nil {
		return m.GenerateTextFunc(ctx, prompt)
	}

	// Default: a well-formed narrator reply
	return "The corridor stretches into darkness ahead of you.\n\nWhat do you choose?\n1. Press onward into the dark\n2. Light a torch\n3. Turn back toward your cell", nil
}

func (m *MockLLM) Close() error {
	return nil
}
