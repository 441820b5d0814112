package apperrors

import (
	"context"
	"errors"
	"strings"
)

// Category groups a failure by the subsystem it came from.
type Category string

const (
	CategoryDatabase  Category = "database"
	CategoryAPI       Category = "api"
	CategoryRender    Category = "render"
	CategoryExport    Category = "export"
	CategoryChart     Category = "chart"
	CategoryInput     Category = "input"
	CategoryUnknown   Category = "unknown"
	CategoryCancelled Category = "cancelled"
)

// RecoveryAction tells the pipeline how to proceed after a failure.
type RecoveryAction string

const (
	ActionRetry          RecoveryAction = "retry"
	ActionRetryWithDelay RecoveryAction = "retry_with_delay"
	ActionFallback       RecoveryAction = "fallback"
	ActionSkipChart      RecoveryAction = "skip_visualization"
	ActionNone           RecoveryAction = "none"
)

// Classified carries a category, its recovery action, and a message safe
// to show the user.
type Classified struct {
	Category    Category
	Action      RecoveryAction
	UserMessage string
	Cause       error
}

func (c *Classified) Error() string {
	if c.Cause != nil {
		return string(c.Category) + ": " + c.Cause.Error()
	}
	return string(c.Category) + ": " + c.UserMessage
}

func (c *Classified) Unwrap() error { return c.Cause }

// actionFor maps a category to its recovery action. The mapping is fixed:
// the same category always yields the same action.
func actionFor(cat Category) RecoveryAction {
	switch cat {
	case CategoryDatabase:
		return ActionRetry
	case CategoryAPI:
		return ActionRetryWithDelay
	case CategoryRender:
		return ActionFallback
	case CategoryChart:
		return ActionSkipChart
	case CategoryExport, CategoryInput, CategoryCancelled:
		return ActionNone
	default:
		return ActionNone
	}
}

func messageFor(cat Category) string {
	switch cat {
	case CategoryDatabase:
		return "I had trouble reading the compensation data. Please try again."
	case CategoryAPI:
		return "The language model is unavailable right now. I answered using built-in analysis instead."
	case CategoryRender:
		return "I could not format the full response, so here is a simplified version."
	case CategoryChart:
		return "I skipped the chart for this answer."
	case CategoryExport:
		return "The export could not be written."
	case CategoryInput:
		return "I could not interpret that question. Try naming a job function, like Engineering or Finance."
	case CategoryCancelled:
		return "The request was cancelled."
	default:
		return "Something went wrong while answering. Please try rephrasing the question."
	}
}

// Classify inspects err and returns its category, recovery action, and a
// user-facing message. Classification is by provenance first (wrapped
// sentinel or Classified), then by message patterns.
func Classify(err error) *Classified {
	if err == nil {
		return nil
	}

	var already *Classified
	if errors.As(err, &already) {
		return already
	}

	cat := categorize(err)
	return &Classified{
		Category:    cat,
		Action:      actionFor(cat),
		UserMessage: messageFor(cat),
		Cause:       err,
	}
}

// New builds a Classified for a known category.
func New(cat Category, cause error) *Classified {
	return &Classified{
		Category:    cat,
		Action:      actionFor(cat),
		UserMessage: messageFor(cat),
		Cause:       cause,
	}
}

func categorize(err error) Category {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CategoryCancelled
	}
	if errors.Is(err, ErrNoDatabase) || errors.Is(err, ErrInjectionDetected) {
		return CategoryDatabase
	}
	if errors.Is(err, ErrUnknownPercentile) || errors.Is(err, ErrUnknownMetric) {
		return CategoryInput
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "sqlite") || strings.Contains(msg, "sql") ||
		strings.Contains(msg, "database") || strings.Contains(msg, "no such table"):
		return CategoryDatabase
	case strings.Contains(msg, "api") || strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "401") || strings.Contains(msg, "429") ||
		strings.Contains(msg, "llm") || strings.Contains(msg, "connection refused"):
		return CategoryAPI
	case strings.Contains(msg, "chart") || strings.Contains(msg, "render png"):
		return CategoryChart
	case strings.Contains(msg, "format") || strings.Contains(msg, "template"):
		return CategoryRender
	case strings.Contains(msg, "export") || strings.Contains(msg, "write file"):
		return CategoryExport
	default:
		return CategoryUnknown
	}
}
