package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockClient implements Client for testing. Responses are returned in order;
// the last one repeats once the script runs out.
type MockClient struct {
	ModelName string
	Responses []string
	Err       error

	mu       sync.Mutex
	Requests []CompletionRequest
}

func (m *MockClient) Model() string {
	if m.ModelName == "" {
		return "mock"
	}
	return m.ModelName
}

func (m *MockClient) Complete(_ context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Responses) == 0 {
		return nil, fmt.Errorf("mock client has no scripted responses")
	}
	idx := len(m.Requests) - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return &CompletionResponse{
		Content: m.Responses[idx],
		Model:   m.Model(),
		Usage:   Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150},
	}, nil
}

// CallCount reports how many completions have been requested.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
