package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/clearhull/claimwatch/internal/config"
)

// NewProvider creates a provider based on configuration. An empty provider
// name disables the hosted model: callers get (nil, nil) and must handle a
// nil provider by degrading.
func NewProvider(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIProvider(cfg)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", cfg.Provider)
	}
}

// ConfigFrom converts the application config section to llm.Config
func ConfigFrom(c config.LLMConfig) Config {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return Config{
		Provider:          c.Provider,
		Model:             c.Model,
		APIKey:            c.APIKey,
		BaseURL:           c.BaseURL,
		Timeout:           timeout,
		RequestsPerSecond: c.RequestsPerSecond,
		MaxTokens:         c.MaxTokens,
	}
}
