// Package llm provides the client used to reach the scoring oracle: an
// OpenAI-compatible chat completion endpoint. The quality engine only needs
// single-shot completions, so the surface here is deliberately small.
package llm

import "context"

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest describes one completion call.
type CompletionRequest struct {
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// Usage reports token consumption for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionResponse is the assistant's reply.
type CompletionResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Client is the contract for an LLM completion backend.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	Model() string
}

// Config holds connection settings for an HTTP-based client.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	// Timeout is the per-request timeout in seconds; 0 means the default.
	Timeout int
	Headers map[string]string
}
