package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watershed-hr/comp-engine/pkg/models"
)

func engineeringResult() *models.QueryResult {
	return &models.QueryResult{
		Status: models.StatusSuccess,
		Rows: []models.ResultRow{
			{JobFunction: "Engineering", JobLevel: "Entry", AvgSalary: 105000, Employees: 3368, Positions: 18},
			{JobFunction: "Engineering", JobLevel: "Manager (M3)", AvgSalary: 219000, Employees: 8133, Positions: 26},
		},
		RowCount:       2,
		TotalEmployees: 11501,
	}
}

func salesResult() *models.QueryResult {
	return &models.QueryResult{
		Status: models.StatusSuccess,
		Rows: []models.ResultRow{
			{JobFunction: "Sales", JobLevel: "Entry", AvgSalary: 85000, Employees: 2500, Positions: 15},
			{JobFunction: "Sales", JobLevel: "Manager (M3)", AvgSalary: 178000, Employees: 6000, Positions: 20},
			{JobFunction: "Sales", JobLevel: "Director", AvgSalary: 230000, Employees: 900, Positions: 6},
		},
		RowCount:       3,
		TotalEmployees: 9400,
	}
}

func TestCompareFunctions(t *testing.T) {
	c, err := Compare(engineeringResult(), salesResult(), "Engineering", "Sales", "")
	require.NoError(t, err)

	assert.Equal(t, "Sales", c.Salary.Higher)
	assert.InDelta(t, 162000, c.Salary.Avg1, 0.5)
	assert.InDelta(t, 164333.33, c.Salary.Avg2, 0.5)
	assert.InDelta(t, -1.42, c.Salary.PercentDifference, 0.01)

	assert.Equal(t, "Sales", c.Ranges.Wider)
	assert.InDelta(t, 114000, c.Ranges.Range1.Range, 0.5)
	assert.InDelta(t, 145000, c.Ranges.Range2.Range, 0.5)

	assert.Equal(t, "Engineering", c.Workforce.Larger)
	assert.Equal(t, 11501, c.Workforce.Total1)
	assert.InDelta(t, 1.2235, c.Workforce.Ratio, 0.001)

	assert.Equal(t, "Engineering", c.Positions.MoreDiverse)
	assert.Equal(t, 44, c.Positions.Total1)
	assert.Equal(t, 41, c.Positions.Total2)

	assert.Equal(t, []string{"Entry", "Manager (M3)"}, c.Levels.Common)
	assert.Equal(t, []string{"Director"}, c.Levels.OnlySecond)
	assert.Empty(t, c.Levels.OnlyFirst)
}

func TestCompareAtSpecificLevel(t *testing.T) {
	c, err := Compare(engineeringResult(), salesResult(), "Engineering", "Sales", "Entry")
	require.NoError(t, err)

	assert.InDelta(t, 105000, c.Salary.Avg1, 0.5)
	assert.InDelta(t, 85000, c.Salary.Avg2, 0.5)
	assert.InDelta(t, 23.53, c.Salary.PercentDifference, 0.01)
}

func TestCompareLevelAbsentFallsBackToAllRows(t *testing.T) {
	// Engineering has no Director rows, so the level filter is ignored.
	c, err := Compare(engineeringResult(), salesResult(), "Engineering", "Sales", "Director")
	require.NoError(t, err)
	assert.InDelta(t, 162000, c.Salary.Avg1, 0.5)
}

func TestCompareInsufficientData(t *testing.T) {
	_, err := Compare(engineeringResult(), &models.QueryResult{Status: models.StatusSuccess}, "Engineering", "Sales", "")
	assert.Error(t, err)

	_, err = Compare(nil, salesResult(), "Engineering", "Sales", "")
	assert.Error(t, err)
}

func TestMergeCombinesResults(t *testing.T) {
	merged := Merge(engineeringResult(), salesResult())

	require.Equal(t, models.StatusSuccess, merged.Status)
	assert.Len(t, merged.Rows, 5)
	assert.Equal(t, 5, merged.RowCount)
	assert.Equal(t, 20901, merged.TotalEmployees)
	assert.InDelta(t, 163400, merged.AvgSalary, 0.5)
	assert.False(t, merged.IsLimited)
}

func TestMergeKeepsSuccessfulSide(t *testing.T) {
	empty := &models.QueryResult{Status: models.StatusNoResults}
	eng := engineeringResult()

	assert.Same(t, eng, Merge(eng, empty))
	assert.Same(t, eng, Merge(empty, eng))
}

func TestMergePropagatesLimitTransparency(t *testing.T) {
	a := engineeringResult()
	a.IsLimited = true
	a.TotalAvailable = 8
	b := salesResult()

	merged := Merge(a, b)
	assert.True(t, merged.IsLimited)
	assert.Equal(t, 11, merged.TotalAvailable)
}

func TestComparisonNarrative(t *testing.T) {
	c, err := Compare(engineeringResult(), salesResult(), "Engineering", "Sales", "")
	require.NoError(t, err)

	lines := c.Narrative()
	require.Len(t, lines, 4)

	assert.Contains(t, lines[0], "Sales pays the higher average")
	assert.Contains(t, lines[0], "Engineering")
	assert.Contains(t, lines[1], "Sales has the wider salary range")
	assert.Contains(t, lines[2], "Engineering employs the larger workforce")
	assert.Contains(t, lines[3], "Sales carries levels Engineering has not staffed: Director")
}
