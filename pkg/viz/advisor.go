// Package viz chooses a chart archetype for a result set and renders it to
// a PNG file. Chart failures never fail the pipeline; callers treat an empty
// path as "no chart".
package viz

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/watershed-hr/comp-engine/pkg/llm"
	"github.com/watershed-hr/comp-engine/pkg/models"
	"github.com/watershed-hr/comp-engine/pkg/prompts"
)

// ChartType is one of the supported chart archetypes.
type ChartType string

const (
	ChartOverview     ChartType = "comprehensive_overview"
	ChartComparison   ChartType = "comparison"
	ChartDistribution ChartType = "distribution"
	ChartProgression  ChartType = "progression"
	ChartBar          ChartType = "simple_bar"
)

var knownChartTypes = map[ChartType]struct{}{
	ChartOverview:     {},
	ChartComparison:   {},
	ChartDistribution: {},
	ChartProgression:  {},
	ChartBar:          {},
}

// Recommendation is the advisor's verdict on how to draw the data.
type Recommendation struct {
	ChartType ChartType `json:"chart_type"`
	Reasoning string    `json:"reasoning"`
	Layout    string    `json:"layout"`
	Features  []string  `json:"features,omitempty"`
	Title     string    `json:"title"`
}

// Advisor recommends a chart archetype, asking the LLM when one is
// configured and falling back to fixed rules otherwise.
type Advisor struct {
	client llm.Client
	logger *zap.Logger
}

func NewAdvisor(client llm.Client, logger *zap.Logger) *Advisor {
	return &Advisor{client: client, logger: logger.Named("viz_advisor")}
}

// Recommend returns a chart recommendation. Every LLM failure degrades to
// the rule-based recommendation, so the result is never absent.
func (a *Advisor) Recommend(ctx context.Context, question string, rows []models.ResultRow, rec *models.EntityRecord) Recommendation {
	if a.client == nil || len(rows) == 0 {
		return a.fallback(rows, rec)
	}

	prompt := prompts.BuildChartAdvisorPrompt(question, rows, rec)
	raw, err := a.client.GenerateResponse(ctx, prompt, prompts.ChartAdvisorSystem, 0.2)
	if err != nil {
		a.logger.Warn("chart recommendation failed, using rules", zap.Error(err))
		return a.fallback(rows, rec)
	}

	recommendation, err := llm.ParseJSONResponse[Recommendation](raw)
	if err != nil {
		a.logger.Warn("chart recommendation unparseable, using rules", zap.Error(err))
		return a.fallback(rows, rec)
	}
	if _, ok := knownChartTypes[recommendation.ChartType]; !ok {
		a.logger.Warn("chart recommendation named unknown type, using rules",
			zap.String("chart_type", string(recommendation.ChartType)))
		return a.fallback(rows, rec)
	}
	return recommendation
}

// fallback mirrors the rule-based decision: single function with enough
// rows gets the overview, multi-function or compare intent compares,
// progression intent progresses, anything else is a bar chart.
func (a *Advisor) fallback(rows []models.ResultRow, rec *models.EntityRecord) Recommendation {
	var functions []string
	intent := models.IntentQuery
	if rec != nil {
		functions = rec.Functions
		intent = rec.Intent
	}

	switch {
	case len(functions) == 1 && len(rows) >= 5:
		return Recommendation{
			ChartType: ChartOverview,
			Reasoning: "Single function with rich data",
			Layout:    "multi_panel",
			Features:  []string{"gradient_colors", "employee_counts"},
			Title:     functions[0] + " Salary Overview",
		}
	case len(functions) >= 2 || intent == models.IntentCompare:
		return Recommendation{
			ChartType: ChartComparison,
			Reasoning: "Multiple functions to compare",
			Layout:    "single",
			Title:     "Compensation Comparison: " + strings.Join(functions, " vs "),
		}
	case intent == models.IntentProgression:
		title := "Career Progression"
		if len(functions) == 1 {
			title += ": " + functions[0]
		}
		return Recommendation{
			ChartType: ChartProgression,
			Reasoning: "Progression intent",
			Layout:    "single",
			Title:     title,
		}
	default:
		return Recommendation{
			ChartType: ChartBar,
			Reasoning: "Small dataset",
			Layout:    "single",
			Title:     "Compensation Analysis",
		}
	}
}
