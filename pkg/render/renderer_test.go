package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watershed-hr/comp-engine/pkg/models"
)

func sampleResult() *models.QueryResult {
	return &models.QueryResult{
		Status: models.StatusSuccess,
		Rows: []models.ResultRow{
			{JobFunction: "Finance", JobLevel: "Entry", AvgSalary: 105000, Employees: 3368, Positions: 18},
			{JobFunction: "Finance", JobLevel: "Manager (M3)", AvgSalary: 219000, Employees: 8133, Positions: 26},
		},
		RowCount:       2,
		TotalEmployees: 11501,
		Summary:        "Function: Finance | Total workforce: 11,501 employees",
		Insights:       []string{"Salary range spans $105,000 to $219,000, a 109% difference across levels"},
	}
}

func TestResponseLayoutSections(t *testing.T) {
	out := New().Response("What do Finance managers make?", sampleResult(), "Finance managers average $219,000.")

	assert.Contains(t, out, "ANALYSIS RESULTS")
	assert.Contains(t, out, "❓ What do Finance managers make?")
	assert.Contains(t, out, "EXECUTIVE SUMMARY")
	assert.Contains(t, out, "KEY INSIGHTS")
	assert.Contains(t, out, "ANALYSIS DETAILS")
	assert.Contains(t, out, "📈 Rows: 2")

	// Summary precedes the table, table precedes the insights.
	assert.Less(t, strings.Index(out, "EXECUTIVE SUMMARY"), strings.Index(out, "Detailed Data"))
	assert.Less(t, strings.Index(out, "Detailed Data"), strings.Index(out, "KEY INSIGHTS"))
}

func TestResponseOmitsEmptySections(t *testing.T) {
	out := New().Response("anything", &models.QueryResult{Status: models.StatusSuccess}, "")

	assert.NotContains(t, out, "EXECUTIVE SUMMARY")
	assert.NotContains(t, out, "KEY INSIGHTS")
	assert.NotContains(t, out, "ANALYSIS DETAILS")
}

func TestResponseShowsLimitTransparency(t *testing.T) {
	res := sampleResult()
	res.IsLimited = true
	res.TotalAvailable = 9

	out := New().Response("q", res, "")
	assert.Contains(t, out, "📈 Rows: 2 (showing 2 of 9 available)")
}

func TestResponseShowsValidFunctionsOnNoResults(t *testing.T) {
	res := &models.QueryResult{
		Status:         models.StatusNoResults,
		ValidFunctions: []string{"Engineering", "Finance"},
	}
	out := New().Response("q", res, "No data matched your question.")
	assert.Contains(t, out, "Valid functions: Engineering, Finance")
}

func TestTableUnitAwareCells(t *testing.T) {
	out := New().Table(sampleResult().Rows, "Detailed Data")

	assert.Contains(t, out, "$105,000")
	assert.Contains(t, out, "$219,000")
	assert.Contains(t, out, "8,133")
	assert.Contains(t, out, "job_function")
	assert.NotContains(t, out, "$3,368", "employee counts must not render as currency")
}

func TestTableLinesShareWidth(t *testing.T) {
	out := New().Table(sampleResult().Rows, "Detailed Data")
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 4)

	width := len([]rune(lines[0]))
	for _, line := range lines {
		assert.Equal(t, width, len([]rune(line)), "line %q", line)
	}
}

func TestTableEmpty(t *testing.T) {
	assert.Equal(t, "No data to display", New().Table(nil, "x"))
}

func TestSuggestionsNumbered(t *testing.T) {
	out := New().Suggestions([]string{"Compare Finance with Accounting salaries", "Create a visualization of this data"})

	assert.Contains(t, out, "💡 You might also want to:")
	assert.Contains(t, out, "1. Compare Finance with Accounting salaries")
	assert.Contains(t, out, "2. Create a visualization of this data")
	assert.Empty(t, New().Suggestions(nil))
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		value float64
		kind  NumberKind
		want  string
	}{
		{219000, Currency, "$219,000"},
		{219000.4, Currency, "$219,000"},
		{18969, Count, "18,969"},
		{23.456, Percent, "23.5%"},
		{1500, Compact, "$1.5K"},
		{2_300_000, Compact, "$2.3M"},
		{1_200_000_000, Compact, "$1.2B"},
		{850, Compact, "$850"},
		{1234.5, Decimal, "1,234.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.value, tt.kind))
	}
}

func TestFormatChangeAndRange(t *testing.T) {
	assert.Equal(t, "$80,000 - $120,000", FormatCurrencyRange(80000, 120000))
	assert.Equal(t, "+$20,000 (+20.0%)", FormatChange(100000, 120000))
	assert.Equal(t, "-$20,000 (-20.0%)", FormatChange(100000, 80000))
}

func TestWrapBreaksOnSpaces(t *testing.T) {
	lines := wrap("one two three four", 9)
	assert.Equal(t, []string{"one two", "three", "four"}, lines)
}

func TestRangesTableCurrencyCells(t *testing.T) {
	ranges := []models.PayRange{
		{Level: "Entry", Min: 44000, Midpoint: 55000, Max: 66000, Employees: 20},
		{Level: "Career", Min: 68000, Midpoint: 85000, Max: 102000, Employees: 30},
	}

	out := New().RangesTable(ranges)

	assert.Contains(t, out, "Proposed Pay Ranges")
	assert.Contains(t, out, "min_pay")
	assert.Contains(t, out, "$44,000")
	assert.Contains(t, out, "$85,000")
	assert.Contains(t, out, "$102,000")
}

func TestResponseIncludesRangesAndBenchmark(t *testing.T) {
	result := sampleResult()
	result.PayRanges = []models.PayRange{
		{Level: "Entry", Min: 84000, Midpoint: 105000, Max: 126000, Employees: 3368},
	}
	result.Benchmark = &models.Benchmark{
		JobFunction: "Finance",
		AvgSalary:   162000,
		MarketP25:   98000,
		MarketP50:   140000,
		MarketP75:   190000,
		Positioning: "Market rate (50th-75th percentile)",
	}

	out := New().Response("create pay ranges for finance", result, "")

	assert.Contains(t, out, "Proposed Pay Ranges")
	assert.Contains(t, out, "MARKET POSITION")
	assert.Contains(t, out, "Finance average: $162,000")
	assert.Contains(t, out, "Positioning: Market rate (50th-75th percentile)")

	// Bands follow the data table, the benchmark follows the bands.
	assert.Less(t, strings.Index(out, "Detailed Data"), strings.Index(out, "Proposed Pay Ranges"))
	assert.Less(t, strings.Index(out, "Proposed Pay Ranges"), strings.Index(out, "MARKET POSITION"))
}
