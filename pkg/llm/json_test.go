package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "bare object",
			input: `{"chart_type": "simple_bar", "title": "Overview"}`,
			want:  `{"chart_type": "simple_bar", "title": "Overview"}`,
		},
		{
			name:  "bare array",
			input: `[{"tool": "query_database"}, {"tool": "visualize"}]`,
			want:  `[{"tool": "query_database"}, {"tool": "visualize"}]`,
		},
		{
			name:  "fenced block with language tag",
			input: "```json\n[{\"tool\": \"query_database\"}]\n```",
			want:  `[{"tool": "query_database"}]`,
		},
		{
			name:  "fenced block without language tag",
			input: "```\n{\"chart_type\": \"comparison\"}\n```",
			want:  `{"chart_type": "comparison"}`,
		},
		{
			name:  "leading prose",
			input: "Here is the plan:\n[{\"tool\": \"query_database\"}]",
			want:  `[{"tool": "query_database"}]`,
		},
		{
			name:  "trailing sign-off",
			input: "{\"chart_type\": \"progression\"}\nLet me know if you need anything else.",
			want:  `{"chart_type": "progression"}`,
		},
		{
			name:  "prose around a fence",
			input: "Sure!\n```json\n{\"tool\": \"visualize\"}\n```\nHope that helps.",
			want:  `{"tool": "visualize"}`,
		},
		{
			name:  "nested structures",
			input: `{"params": {"filters": {"levels": ["Entry", "Career"]}}}`,
			want:  `{"params": {"filters": {"levels": ["Entry", "Career"]}}}`,
		},
		{
			name:  "braces inside strings do not unbalance",
			input: `{"reasoning": "Use {bands} and [levels] in the layout", "ok": true}`,
			want:  `{"reasoning": "Use {bands} and [levels] in the layout", "ok": true}`,
		},
		{
			name:  "escaped quotes inside strings",
			input: `{"title": "He said \"salary\"", "valid": true}`,
			want:  `{"title": "He said \"salary\"", "valid": true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractJSON_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no json at all", "use a bar chart for this"},
		{"unclosed object", `{"tool": "query_database"`},
		{"empty input", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractJSON(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestParseJSONResponse(t *testing.T) {
	type step struct {
		Tool string `json:"tool"`
	}

	steps, err := ParseJSONResponse[[]step]("The plan:\n```json\n[{\"tool\": \"query_database\"}, {\"tool\": \"calculate_stats\"}]\n```")
	require.NoError(t, err)
	require.Len(t, steps, 2)
	assert.Equal(t, "query_database", steps[0].Tool)

	_, err = ParseJSONResponse[[]step](`{"tool": "query_database"}`)
	assert.Error(t, err, "object must not unmarshal into a slice")
}
