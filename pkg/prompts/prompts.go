// Package prompts centralizes every prompt sent to a language model, so
// tests can pin their content and callers share one voice.
package prompts

import (
	"fmt"
	"strings"

	"github.com/watershed-hr/comp-engine/pkg/models"
)

// PlannerSystem instructs the model to plan with the fixed tool vocabulary.
const PlannerSystem = `You are a query planner for a compensation analytics assistant.
Available tools: query_database, create_comparison, visualize, calculate_stats.
Reply with ONLY a JSON array of steps, each {"tool": "...", "params": {...}}.
No prose, no explanation.`

// AnalystSystem instructs the model narrating query results.
const AnalystSystem = `You are a compensation analyst. You explain query results
conversationally and precisely. Never invent numbers that are not in the results.`

// ChartAdvisorSystem instructs the model recommending a chart archetype.
const ChartAdvisorSystem = `You are a data visualization expert for compensation analytics.
Recommend the single best chart type for the data described.
Chart types: comprehensive_overview, comparison, distribution, progression, simple_bar.
Respond ONLY with a JSON object carrying chart_type, reasoning, layout, features, title.`

// BuildPlannerPrompt describes one question and its extracted entities to
// the planner, plus a short view of the recent conversation.
func BuildPlannerPrompt(question string, rec *models.EntityRecord, contextSummary string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n", question)
	if len(rec.Functions) > 0 {
		fmt.Fprintf(&sb, "Functions: %s\n", strings.Join(rec.Functions, ", "))
	}
	if len(rec.Levels) > 0 {
		fmt.Fprintf(&sb, "Levels: %s\n", strings.Join(rec.Levels, ", "))
	}
	fmt.Fprintf(&sb, "Intent: %s\n", rec.Intent)
	if rec.Pattern != "" {
		fmt.Fprintf(&sb, "Query pattern: %s\n", rec.Pattern)
	}
	if contextSummary != "" {
		fmt.Fprintf(&sb, "Recent conversation:\n%s\n", contextSummary)
	}
	return sb.String()
}

// BuildResponsePrompt asks the analyst to narrate one result payload.
func BuildResponsePrompt(question, resultsJSON string) string {
	return fmt.Sprintf("Question: %s\n\nResults: %s\n\n"+
		"Answer the question directly with specific numbers, mention 2-3 key findings, "+
		"and note any chart that was created. Keep it under 150 words.",
		question, resultsJSON)
}

// BuildChartAdvisorPrompt summarizes the result shape for the chart advisor.
// rows must be non-empty.
func BuildChartAdvisorPrompt(question string, rows []models.ResultRow, rec *models.EntityRecord) string {
	functions := map[string]struct{}{}
	levels := map[string]struct{}{}
	minSal, maxSal := rows[0].AvgSalary, rows[0].AvgSalary
	for _, r := range rows {
		functions[r.JobFunction] = struct{}{}
		levels[r.JobLevel] = struct{}{}
		if r.AvgSalary < minSal {
			minSal = r.AvgSalary
		}
		if r.AvgSalary > maxSal {
			maxSal = r.AvgSalary
		}
	}

	intent := models.IntentQuery
	if rec != nil {
		intent = rec.Intent
	}

	var b strings.Builder
	fmt.Fprintf(&b, "USER QUERY: %q\n\n", question)
	fmt.Fprintf(&b, "DATA SUMMARY:\n")
	fmt.Fprintf(&b, "- Rows: %d\n", len(rows))
	fmt.Fprintf(&b, "- Functions: %d\n", len(functions))
	fmt.Fprintf(&b, "- Job levels: %d\n", len(levels))
	fmt.Fprintf(&b, "- Salary range: $%.0f - $%.0f\n", minSal, maxSal)
	fmt.Fprintf(&b, "- Intent: %s\n", intent)
	return b.String()
}
