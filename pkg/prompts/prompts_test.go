package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/watershed-hr/comp-engine/pkg/models"
)

func TestBuildPlannerPrompt(t *testing.T) {
	rec := &models.EntityRecord{
		Functions: []string{"Finance", "Sales"},
		Levels:    []string{"Director"},
		Intent:    models.IntentCompare,
		Pattern:   models.PatternComparison,
	}

	prompt := BuildPlannerPrompt("compare finance and sales directors", rec, "Q: finance salaries")

	assert.Contains(t, prompt, "Question: compare finance and sales directors")
	assert.Contains(t, prompt, "Functions: Finance, Sales")
	assert.Contains(t, prompt, "Levels: Director")
	assert.Contains(t, prompt, "Intent: compare")
	assert.Contains(t, prompt, "Query pattern: comparison")
	assert.Contains(t, prompt, "Recent conversation:\nQ: finance salaries")
}

func TestBuildPlannerPromptOmitsEmptySections(t *testing.T) {
	prompt := BuildPlannerPrompt("salaries", &models.EntityRecord{Intent: models.IntentQuery}, "")

	assert.NotContains(t, prompt, "Functions:")
	assert.NotContains(t, prompt, "Levels:")
	assert.NotContains(t, prompt, "Query pattern:")
	assert.NotContains(t, prompt, "Recent conversation:")
}

func TestBuildResponsePrompt(t *testing.T) {
	prompt := BuildResponsePrompt("what do analysts earn?", `{"avg_salary": 95000}`)

	assert.Contains(t, prompt, "Question: what do analysts earn?")
	assert.Contains(t, prompt, `{"avg_salary": 95000}`)
	assert.Contains(t, prompt, "under 150 words")
}

func TestBuildChartAdvisorPrompt(t *testing.T) {
	rows := []models.ResultRow{
		{JobFunction: "Finance", JobLevel: "Entry", AvgSalary: 55000, Employees: 20},
		{JobFunction: "Finance", JobLevel: "Director", AvgSalary: 180000, Employees: 5},
	}

	prompt := BuildChartAdvisorPrompt("finance pay", rows, &models.EntityRecord{Intent: models.IntentAnalyze})

	assert.Contains(t, prompt, `USER QUERY: "finance pay"`)
	assert.Contains(t, prompt, "- Rows: 2")
	assert.Contains(t, prompt, "- Functions: 1")
	assert.Contains(t, prompt, "- Job levels: 2")
	assert.Contains(t, prompt, "- Salary range: $55000 - $180000")
	assert.Contains(t, prompt, "- Intent: analyze")
}
