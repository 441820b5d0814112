package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/watershed-hr/comp-engine/pkg/config"
)

// NewFromConfig builds a Client for the configured provider.
// Returns (nil, nil) when no provider is configured; callers treat a nil
// client as "LLM disabled" and use their deterministic fallbacks.
func NewFromConfig(cfg *config.LLMConfig, logger *zap.Logger) (Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicClient(&AnthropicConfig{
			APIKey:     cfg.APIKey,
			Model:      cfg.Model,
			MaxTokens:  cfg.MaxTokens,
			TimeoutSec: cfg.TimeoutSec,
		}, logger)
	case "openai":
		return NewOpenAIClient(&OpenAIConfig{
			Endpoint:   cfg.Endpoint,
			Model:      cfg.Model,
			APIKey:     cfg.APIKey,
			MaxTokens:  cfg.MaxTokens,
			TimeoutSec: cfg.TimeoutSec,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
