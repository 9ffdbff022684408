package mock

import (
	"context"
	"sync"
)

// MockGenerator is a test double for ai.TextGenerator.
// It allows custom behavior injection via function fields and is safe for
// concurrent use.
type MockGenerator struct {
	// GenerateTextFunc is called by GenerateText if set.
	// If nil, GenerateText returns Response.
	GenerateTextFunc func(ctx context.Context, parts ...string) (string, error)

	// Response is returned when GenerateTextFunc is nil.
	Response string

	mu        sync.Mutex
	callCount int
	lastParts []string
}

// NewMockGenerator creates a mock generator that always returns response.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator(response string) *MockGenerator {
	return &MockGenerator{Response: response}
}

// WithGenerateTextFunc sets custom behavior for GenerateText.
func (m *MockGenerator) WithGenerateTextFunc(fn func(ctx context.Context, parts ...string) (string, error)) *MockGenerator {
	m.GenerateTextFunc = fn
	return m
}

// GenerateText records the call and returns the configured response.
func (m *MockGenerator) GenerateText(ctx context.Context, parts ...string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastParts = append([]string(nil), parts...)
	fn := m.GenerateTextFunc
	response := m.Response
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, parts...)
	}
	return response, nil
}

// CallCount returns the number of times GenerateText was called.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastParts returns the prompt parts of the most recent call.
func (m *MockGenerator) LastParts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastParts
}

// Reset clears the call history and custom function.
func (m *MockGenerator) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastParts = nil
	m.GenerateTextFunc = nil
}
