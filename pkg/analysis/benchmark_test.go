package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watershed-hr/comp-engine/pkg/models"
)

func TestMarketStats(t *testing.T) {
	rows := []models.ResultRow{
		{JobFunction: "Engineering", AvgSalary: 105000},
		{JobFunction: "Engineering", AvgSalary: 219000},
		{JobFunction: "Sales", AvgSalary: 85000},
		{JobFunction: "Sales", AvgSalary: 178000},
	}

	market, err := Market(rows)
	require.NoError(t, err)

	assert.InDelta(t, 141500, market.P50, 0.5)
	assert.InDelta(t, 146750, market.Mean, 0.5)
	assert.InDelta(t, 85000, quantile([]float64{85000, 105000, 178000, 219000}, 0), 0.5)
}

func TestMarketEmpty(t *testing.T) {
	_, err := Market(nil)
	assert.Error(t, err)
}

func TestBenchmarkFunctionPositioning(t *testing.T) {
	rows := []models.ResultRow{
		{JobFunction: "Engineering", AvgSalary: 105000},
		{JobFunction: "Engineering", AvgSalary: 219000},
		{JobFunction: "Sales", AvgSalary: 85000},
		{JobFunction: "Sales", AvgSalary: 178000},
	}

	bm, err := BenchmarkFunction(rows, "Engineering")
	require.NoError(t, err)

	assert.Equal(t, "Engineering", bm.JobFunction)
	assert.InDelta(t, 162000, bm.AvgSalary, 0.5)
	// Two of four rows sit below the Engineering average.
	assert.Equal(t, "Market rate (50th-75th percentile)", bm.Positioning)
}

func TestBenchmarkUnknownFunction(t *testing.T) {
	rows := []models.ResultRow{{JobFunction: "Engineering", AvgSalary: 105000}}
	_, err := BenchmarkFunction(rows, "Legal")
	assert.Error(t, err)
}

func TestMarketPositionLabels(t *testing.T) {
	tests := []struct {
		percentile float64
		want       string
	}{
		{95, "Top tier (90th+ percentile)"},
		{80, "Above market (75th-90th percentile)"},
		{60, "Market rate (50th-75th percentile)"},
		{30, "Below market (25th-50th percentile)"},
		{10, "Bottom tier (below 25th percentile)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, marketPosition(tt.percentile))
	}
}

func TestPayRangesSpreadAroundMedian(t *testing.T) {
	rows := []models.ResultRow{
		{JobLevel: "Manager (M3)", AvgSalary: 180000, Employees: 700},
		{JobLevel: "Entry", AvgSalary: 100000, Employees: 900},
	}

	ranges := PayRanges(rows, 0.20)
	require.Len(t, ranges, 2)

	// Ladder order, not input order.
	assert.Equal(t, "Entry", ranges[0].Level)
	assert.InDelta(t, 80000, ranges[0].Min, 0.5)
	assert.InDelta(t, 100000, ranges[0].Midpoint, 0.5)
	assert.InDelta(t, 120000, ranges[0].Max, 0.5)
	assert.Equal(t, 900, ranges[0].Employees)

	assert.Equal(t, "Manager (M3)", ranges[1].Level)
	assert.InDelta(t, 144000, ranges[1].Min, 0.5)
	assert.InDelta(t, 216000, ranges[1].Max, 0.5)
}

func TestPayRangesDefaultSpread(t *testing.T) {
	rows := []models.ResultRow{{JobLevel: "Entry", AvgSalary: 100000}}

	for _, spread := range []float64{0, -0.1, 1.5} {
		ranges := PayRanges(rows, spread)
		require.Len(t, ranges, 1)
		assert.InDelta(t, 80000, ranges[0].Min, 0.5)
		assert.InDelta(t, 120000, ranges[0].Max, 0.5)
	}
}

func TestGroupThousands(t *testing.T) {
	assert.Equal(t, "$1,234,567", money(1234567))
	assert.Equal(t, "$999", money(999))
	assert.Equal(t, "18,969", count(18969))
}
