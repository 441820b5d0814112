// Package logging holds helpers for keeping secrets and oversized payloads
// out of log output.
package logging

import (
	"regexp"
	"strings"
)

const (
	// MaxQueryLogLength caps SQL text in log lines.
	MaxQueryLogLength = 200
	// RedactedText replaces sensitive data.
	RedactedText = "[REDACTED]"
)

var (
	// Bearer tokens as echoed back by provider error bodies.
	bearerPattern = regexp.MustCompile(`Bearer\s+[A-Za-z0-9-_.]+`)

	// API keys in query strings or headers: api_key=..., apikey: ...
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|x-api-key)[=:\s]+[A-Za-z0-9-_]{8,}`)

	// Provider secret key shapes (sk-..., sk-ant-...).
	secretKeyPattern = regexp.MustCompile(`\bsk-[A-Za-z0-9-_]{8,}`)

	whitespacePattern = regexp.MustCompile(`\s+`)
)

// SanitizeError strips credentials from an error message before logging.
// Provider errors can echo request headers back, API key included.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	sanitized := bearerPattern.ReplaceAllString(err.Error(), "Bearer "+RedactedText)
	sanitized = apiKeyPattern.ReplaceAllString(sanitized, "${1}="+RedactedText)
	sanitized = secretKeyPattern.ReplaceAllString(sanitized, RedactedText)
	return sanitized
}

// SanitizeQuery collapses whitespace and truncates SQL text for logging.
func SanitizeQuery(query string) string {
	if query == "" {
		return ""
	}
	sanitized := strings.TrimSpace(whitespacePattern.ReplaceAllString(query, " "))
	return TruncateString(sanitized, MaxQueryLogLength)
}

// TruncateString shortens s to maxLen bytes plus an ellipsis.
func TruncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
