// Package llm provides provider-agnostic language model clients.
package llm

import (
	"context"
)

// Client defines the interface for language model completions.
// Use this interface for dependency injection to enable mocking in tests.
type Client interface {
	// GenerateResponse generates a chat completion for the prompt.
	GenerateResponse(ctx context.Context, prompt string, systemMessage string, temperature float64) (string, error)

	// GetModel returns the configured model name.
	GetModel() string

	// GetProvider returns the provider name ("anthropic", "openai").
	GetProvider() string
}

// Ensure both providers implement Client at compile time.
var (
	_ Client = (*OpenAIClient)(nil)
	_ Client = (*AnthropicClient)(nil)
)
