// Package jsonutil holds helpers for decoding loosely-typed JSON produced
// by language models.
package jsonutil

import (
	"encoding/json"
	"fmt"
)

// FlexibleString converts a json.RawMessage to a string, tolerating models
// that emit numbers or booleans where a string was asked for. Returns the
// empty string for null or empty input.
func FlexibleString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%g", n)
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return fmt.Sprintf("%t", b)
	}

	return string(raw)
}

// FlexibleStringMap decodes a JSON object into a string map, coercing
// every value through FlexibleString.
func FlexibleStringMap(raw json.RawMessage) (map[string]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var rawMap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rawMap); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(rawMap))
	for k, v := range rawMap {
		out[k] = FlexibleString(v)
	}
	return out, nil
}
