package report

import (
	"context"
	"sync"
)

// MockCall records one Generate invocation.
type MockCall struct {
	Kind   Kind
	Prompt string
}

// MockGenerator is a deterministic Generator for tests. Responses are keyed
// by kind; a missing or nil entry fails the call.
type MockGenerator struct {
	mu        sync.Mutex
	responses map[Kind]string
	failures  map[Kind]error
	Calls     []MockCall
}

func NewMockGenerator() *MockGenerator {
	return &MockGenerator{
		responses: make(map[Kind]string),
		failures:  make(map[Kind]error),
	}
}

// Respond sets the canned response for a kind.
func (m *MockGenerator) Respond(kind Kind, body string) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[kind] = body
	delete(m.failures, kind)
	return m
}

// Fail makes calls of the given kind return err.
func (m *MockGenerator) Fail(kind Kind, err error) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[kind] = err
	delete(m.responses, kind)
	return m
}

func (m *MockGenerator) Generate(_ context.Context, kind Kind, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, MockCall{Kind: kind, Prompt: prompt})
	if err, ok := m.failures[kind]; ok {
		return "", err
	}
	if body, ok := m.responses[kind]; ok {
		return body, nil
	}
	return "", ErrUnavailable
}
