package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Model replies rarely arrive as bare JSON. The planner and the chart
// advisor get fenced code blocks, leading prose, trailing sign-offs, or a
// mix of all three. ExtractJSON digs the first complete JSON value out of
// whatever shape came back.

// fencePattern matches a markdown code block, with or without a language tag.
var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// ExtractJSON returns the first valid JSON object or array in response.
// A fenced block wins over surrounding text.
func ExtractJSON(response string) (string, error) {
	candidates := []string{response}
	if m := fencePattern.FindStringSubmatch(response); m != nil {
		candidates = []string{m[1], response}
	}

	for _, candidate := range candidates {
		if v, ok := firstJSONValue(candidate); ok {
			return v, nil
		}
	}
	return "", fmt.Errorf("no valid JSON found in response")
}

// firstJSONValue scans s for the earliest balanced object or array that
// parses, falling back to the whole trimmed string.
func firstJSONValue(s string) (string, bool) {
	objStart := strings.IndexByte(s, '{')
	arrStart := strings.IndexByte(s, '[')

	if objStart >= 0 && (arrStart < 0 || objStart < arrStart) {
		if v, ok := scanBalanced(s, '{', '}'); ok && json.Valid([]byte(v)) {
			return v, true
		}
	}
	if arrStart >= 0 {
		if v, ok := scanBalanced(s, '[', ']'); ok && json.Valid([]byte(v)) {
			return v, true
		}
	}

	trimmed := strings.TrimSpace(s)
	if trimmed != "" && json.Valid([]byte(trimmed)) {
		return trimmed, true
	}
	return "", false
}

// scanBalanced returns the first depth-balanced span opened by openChar.
// Braces and brackets inside JSON strings do not count toward depth.
func scanBalanced(s string, openChar, closeChar byte) (string, bool) {
	start := strings.IndexByte(s, openChar)
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if c == openChar {
			depth++
		} else if c == closeChar {
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// ParseJSONResponse extracts JSON from a model reply and unmarshals it.
func ParseJSONResponse[T any](response string) (T, error) {
	var result T

	jsonStr, err := ExtractJSON(response)
	if err != nil {
		return result, err
	}
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return result, fmt.Errorf("unmarshal JSON: %w", err)
	}
	return result, nil
}
