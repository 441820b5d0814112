package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watershed-hr/comp-engine/pkg/models"
)

func financeResult() *models.QueryResult {
	return &models.QueryResult{
		Status: models.StatusSuccess,
		Rows: []models.ResultRow{
			{JobFunction: "Finance", JobLevel: "Entry", AvgSalary: 105000},
			{JobFunction: "Finance", JobLevel: "Career", AvgSalary: 150000},
			{JobFunction: "Finance", JobLevel: "Manager (M3)", AvgSalary: 219000},
		},
	}
}

func TestSalarySuggestions(t *testing.T) {
	got := New().Generate(financeResult(), models.IntentQuery, nil)

	require.Len(t, got, 3)
	assert.Equal(t, "Compare Finance with Accounting salaries", got[0])
	assert.Equal(t, "Show career progression path in Finance", got[1])
	assert.Equal(t, "Analyze top specializations within Finance", got[2])
}

func TestSalarySuggestionsOfferVisualization(t *testing.T) {
	res := &models.QueryResult{
		Status: models.StatusSuccess,
		Rows:   []models.ResultRow{{JobFunction: "Finance", JobLevel: "Entry", AvgSalary: 105000}},
	}
	got := New().Generate(res, models.IntentQuery, nil)
	assert.Contains(t, got, "Create a visualization of this data")

	res.ChartPath = "charts/finance.png"
	got = New().Generate(res, models.IntentQuery, nil)
	assert.NotContains(t, got, "Create a visualization of this data")
}

func TestComparisonSuggestions(t *testing.T) {
	res := &models.QueryResult{
		Status: models.StatusSuccess,
		Rows: []models.ResultRow{
			{JobFunction: "Engineering", JobLevel: "Entry", AvgSalary: 105000},
			{JobFunction: "Engineering", JobLevel: "Manager (M3)", AvgSalary: 219000},
			{JobFunction: "Sales", JobLevel: "Entry", AvgSalary: 85000},
		},
	}

	got := New().Generate(res, models.IntentCompare, nil)
	require.Len(t, got, 3)
	assert.Equal(t, "Compare Engineering vs Sales at Entry level specifically", got[0])
	assert.Equal(t, "Add Finance to the comparison", got[1])
	assert.Equal(t, "Compare career progression between Engineering and Sales", got[2])
}

func TestProgressionSuggestionsNameBiggestJump(t *testing.T) {
	got := New().Generate(financeResult(), models.IntentProgression, nil)

	require.NotEmpty(t, got)
	assert.Equal(t, "Compare this progression with Accounting", got[0])
	// 150k to 219k is the largest step.
	assert.Contains(t, got, "Analyze Manager (M3) in detail - shows largest salary jump")
}

func TestHistoryBroadensScope(t *testing.T) {
	history := []models.Turn{
		{Question: "first", Entities: &models.EntityRecord{Functions: []string{"Finance"}}},
		{Question: "second", Entities: &models.EntityRecord{Functions: []string{"Finance"}}},
	}
	res := &models.QueryResult{
		Status: models.StatusSuccess,
		Rows:   []models.ResultRow{{JobFunction: "Finance", JobLevel: "Entry", AvgSalary: 105000}},
	}

	got := New().Generate(res, models.IntentQuery, history)
	assert.LessOrEqual(t, len(got), 3)
}

func TestNoRowsNoSuggestions(t *testing.T) {
	assert.Nil(t, New().Generate(&models.QueryResult{Status: models.StatusNoResults}, models.IntentQuery, nil))
	assert.Nil(t, New().Generate(nil, models.IntentQuery, nil))
}
