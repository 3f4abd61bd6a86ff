// Package llm provides hosted-model access for claim analysis, semantic
// duplicate checks, and fraud assessment. Providers are optional: the
// pipeline degrades to rule-only behavior when none is configured.
package llm

import (
	"context"
	"time"
)

// Provider defines the interface for hosted model backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a prompt and returns the raw model output
	Complete(ctx context.Context, req Request) (*Response, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Request contains the input for one model completion
type Request struct {
	// System sets the role framing (e.g. "senior marine claims analyst")
	System string

	// Prompt is the user-turn content
	Prompt string

	// Model overrides the configured model (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// Response contains the model output
type Response struct {
	// Content is the raw completion text, usually fenced JSON
	Content string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted backends
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// RequestsPerSecond throttles outbound calls; 0 disables throttling
	RequestsPerSecond float64

	// MaxTokens for response generation
	MaxTokens int
}
