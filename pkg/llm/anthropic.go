package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	anthropic "github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/watershed-hr/comp-engine/pkg/logging"
	"github.com/watershed-hr/comp-engine/pkg/retry"
)

// AnthropicClient talks to the Anthropic Messages API.
type AnthropicClient struct {
	client    *anthropic.Client
	model     string
	maxTokens int
	timeout   time.Duration
	retries   *retry.Config
	logger    *zap.Logger
}

// AnthropicConfig holds configuration for creating an Anthropic client.
type AnthropicConfig struct {
	APIKey     string
	Model      string // e.g., "claude-sonnet-4-20250514"
	MaxTokens  int
	TimeoutSec int // Per-attempt request timeout; zero means no deadline
}

// NewAnthropicClient creates a new Anthropic Messages API client.
func NewAnthropicClient(cfg *AnthropicConfig, logger *zap.Logger) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	return &AnthropicClient{
		client:    anthropic.NewClient(cfg.APIKey),
		model:     cfg.Model,
		maxTokens: maxTokens,
		timeout:   time.Duration(cfg.TimeoutSec) * time.Second,
		retries:   retry.DefaultConfig(),
		logger:    logger.Named("llm"),
	}, nil
}

// GenerateResponse generates a completion via the Messages API.
func (c *AnthropicClient) GenerateResponse(
	ctx context.Context,
	prompt string,
	systemMessage string,
	temperature float64,
) (string, error) {
	c.logger.Debug("LLM request",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)),
		zap.Float64("temperature", temperature))

	start := time.Now()
	temp := float32(temperature)

	// Transient failures are retried with the per-attempt deadline applied
	// inside each attempt; auth and config errors fail immediately.
	resp, err := retry.DoIfRetryableWithResult(ctx, c.retries, func() (anthropic.MessagesResponse, error) {
		attemptCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		r, err := c.client.CreateMessages(attemptCtx, anthropic.MessagesRequest{
			Model:       anthropic.Model(c.model),
			MaxTokens:   c.maxTokens,
			System:      systemMessage,
			Temperature: &temp,
			Messages: []anthropic.Message{
				{
					Role: anthropic.RoleUser,
					Content: []anthropic.MessageContent{
						{Type: anthropic.MessagesContentTypeText, Text: &prompt},
					},
				},
			},
		})
		if err != nil {
			return r, ClassifyError(err)
		}
		return r, nil
	})
	if err != nil {
		c.logger.Error("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.String("error", logging.SanitizeError(err)))
		return "", ClassifyError(err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			sb.WriteString(*block.Text)
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in response")
	}

	c.logger.Debug("LLM request completed",
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)))

	return sb.String(), nil
}

// GetModel returns the configured model name.
func (c *AnthropicClient) GetModel() string {
	return c.model
}

// GetProvider returns "anthropic".
func (c *AnthropicClient) GetProvider() string {
	return "anthropic"
}
