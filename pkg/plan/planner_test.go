package plan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/watershed-hr/comp-engine/pkg/llm"
	"github.com/watershed-hr/comp-engine/pkg/models"
)

func record(intent models.Intent, functions ...string) *models.EntityRecord {
	return &models.EntityRecord{
		Intent:     intent,
		Functions:  functions,
		Percentile: models.PercentileP50,
	}
}

func toolNames(steps []Step) []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Tool
	}
	return names
}

func TestFallback_ByIntent(t *testing.T) {
	tests := []struct {
		name   string
		intent models.Intent
		want   []string
	}{
		{"compare", models.IntentCompare, []string{ToolQueryDatabase, ToolQueryDatabase, ToolCreateComparison, ToolVisualize}},
		{"visualize", models.IntentVisualize, []string{ToolQueryDatabase, ToolCalculateStats, ToolVisualize}},
		{"analyze", models.IntentAnalyze, []string{ToolQueryDatabase, ToolCalculateStats, ToolVisualize}},
		{"query", models.IntentQuery, []string{ToolQueryDatabase, ToolCalculateStats}},
		{"progression", models.IntentProgression, []string{ToolQueryDatabase, ToolCalculateStats}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := Fallback(record(tt.intent, "Engineering", "Sales"))
			assert.Equal(t, tt.want, toolNames(steps))
		})
	}
}

func TestFallback_CompareSplitsFunctions(t *testing.T) {
	steps := Fallback(record(models.IntentCompare, "Engineering", "Sales"))

	require.Len(t, steps, 4)
	assert.Equal(t, "Engineering", steps[0].Params["function"])
	assert.Equal(t, "Sales", steps[1].Params["function"])
}

func TestBuild_NilClientUsesFallback(t *testing.T) {
	p := New(nil, zap.NewNop())

	steps := p.Build(context.Background(), "finance salaries", record(models.IntentQuery, "Finance"), "")
	assert.Equal(t, []string{ToolQueryDatabase, ToolCalculateStats}, toolNames(steps))
}

func TestBuild_LLMPlanAccepted(t *testing.T) {
	mock := llm.NewMockClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		return "```json\n[{\"tool\": \"query_database\", \"params\": {\"function\": \"Finance\"}}, {\"tool\": \"visualize\"}]\n```", nil
	}
	p := New(mock, zap.NewNop())

	steps := p.Build(context.Background(), "show finance salaries", record(models.IntentVisualize, "Finance"), "")

	require.Len(t, steps, 2)
	assert.Equal(t, ToolQueryDatabase, steps[0].Tool)
	assert.Equal(t, "Finance", steps[0].Params["function"])
	assert.Equal(t, ToolVisualize, steps[1].Tool)
	assert.Equal(t, 1, mock.GenerateResponseCalls)
}

func TestBuild_LLMFailureFallsBack(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
	}{
		{"call fails", "", errors.New("429 rate limit")},
		{"empty reply", "", nil},
		{"prose reply", "I think you should query the database first.", nil},
		{"unknown tool", `[{"tool": "launch_rockets"}]`, nil},
		{"empty array", `[]`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockClient()
			mock.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
				return tt.reply, tt.err
			}
			p := New(mock, zap.NewNop())

			steps := p.Build(context.Background(), "compare finance and sales", record(models.IntentCompare, "Finance", "Sales"), "")

			// The plan is never absent.
			assert.Equal(t,
				[]string{ToolQueryDatabase, ToolQueryDatabase, ToolCreateComparison, ToolVisualize},
				toolNames(steps))
		})
	}
}

func TestBuild_ContextSummaryReachesPrompt(t *testing.T) {
	mock := llm.NewMockClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		return `[{"tool": "query_database"}]`, nil
	}
	p := New(mock, zap.NewNop())

	p.Build(context.Background(), "what about directors?", record(models.IntentQuery, "Finance"), "Q: finance salaries")

	require.Len(t, mock.Prompts, 1)
	assert.Contains(t, mock.Prompts[0], "Q: finance salaries")
	assert.Contains(t, mock.Prompts[0], "what about directors?")
}

func TestBuild_CoercesNonStringParams(t *testing.T) {
	mock := llm.NewMockClient()
	mock.GenerateResponseFunc = func(ctx context.Context, prompt, system string, temp float64) (string, error) {
		return `[{"tool": "query_database", "params": {"function": "Finance", "limit": 25}}]`, nil
	}
	p := New(mock, zap.NewNop())

	steps := p.Build(context.Background(), "finance salaries", record(models.IntentQuery, "Finance"), "")

	require.Len(t, steps, 1)
	assert.Equal(t, map[string]string{"function": "Finance", "limit": "25"}, steps[0].Params)
}

func TestFallback_ByPattern(t *testing.T) {
	t.Run("range creation queries then computes stats", func(t *testing.T) {
		rec := record(models.IntentCreateRanges, "Finance")
		rec.Pattern = models.PatternRangeCreation

		steps := Fallback(rec)
		assert.Equal(t, []string{ToolQueryDatabase, ToolCalculateStats}, toolNames(steps))
	})

	t.Run("title comparison queries each title", func(t *testing.T) {
		rec := record(models.IntentCompare, "Engineering")
		rec.Pattern = models.PatternTitleComparison
		rec.JobTitles = &[2]string{"Senior Manager", "Director"}

		steps := Fallback(rec)
		require.Equal(t,
			[]string{ToolQueryDatabase, ToolQueryDatabase, ToolCreateComparison, ToolVisualize},
			toolNames(steps))
		assert.Equal(t, "Senior Manager", steps[0].Params["title"])
		assert.Equal(t, "Director", steps[1].Params["title"])
		assert.Equal(t, "Engineering", steps[0].Params["function"])
		assert.Equal(t, "Engineering", steps[1].Params["function"])
	})

	t.Run("title comparison without titles degrades to function comparison", func(t *testing.T) {
		rec := record(models.IntentCompare, "Engineering", "Sales")
		rec.Pattern = models.PatternTitleComparison

		steps := Fallback(rec)
		require.Equal(t,
			[]string{ToolQueryDatabase, ToolQueryDatabase, ToolCreateComparison, ToolVisualize},
			toolNames(steps))
		assert.Equal(t, "Engineering", steps[0].Params["function"])
	})

	t.Run("comparison pattern splits functions", func(t *testing.T) {
		rec := record(models.IntentCompare, "Engineering", "Sales")
		rec.Pattern = models.PatternComparison

		steps := Fallback(rec)
		require.Len(t, steps, 4)
		assert.Equal(t, "Sales", steps[1].Params["function"])
	})
}
