package analysis

import (
	"math"
	"strings"

	"github.com/watershed-hr/comp-engine/pkg/models"
)

// MarketStats are percentile benchmarks over every returned row.
type MarketStats struct {
	P10, P25, P50, P75, P90 float64
	Mean, Std               float64
}

// Market computes the benchmark distribution across rows.
func Market(rows []models.ResultRow) (MarketStats, error) {
	if len(rows) == 0 {
		return MarketStats{}, errInsufficientData
	}
	salaries := make([]float64, len(rows))
	for i, r := range rows {
		salaries[i] = r.AvgSalary
	}
	return MarketStats{
		P10:  quantile(salaries, 0.10),
		P25:  quantile(salaries, 0.25),
		P50:  quantile(salaries, 0.50),
		P75:  quantile(salaries, 0.75),
		P90:  quantile(salaries, 0.90),
		Mean: mean(salaries),
		Std:  stdDev(salaries),
	}, nil
}

// BenchmarkFunction positions one function's average salary against the
// market distribution of all rows.
func BenchmarkFunction(rows []models.ResultRow, function string) (*models.Benchmark, error) {
	market, err := Market(rows)
	if err != nil {
		return nil, err
	}

	var funcSalaries []float64
	for _, r := range rows {
		if strings.EqualFold(r.JobFunction, function) {
			funcSalaries = append(funcSalaries, r.AvgSalary)
		}
	}
	if len(funcSalaries) == 0 {
		return nil, errInsufficientData
	}
	funcAvg := mean(funcSalaries)

	below := 0
	for _, r := range rows {
		if r.AvgSalary < funcAvg {
			below++
		}
	}
	percentile := float64(below) / float64(len(rows)) * 100

	return &models.Benchmark{
		JobFunction: function,
		AvgSalary:   funcAvg,
		MarketP25:   market.P25,
		MarketP50:   market.P50,
		MarketP75:   market.P75,
		MarketP90:   market.P90,
		Positioning: marketPosition(percentile),
	}, nil
}

func marketPosition(percentile float64) string {
	switch {
	case percentile >= 90:
		return "Top tier (90th+ percentile)"
	case percentile >= 75:
		return "Above market (75th-90th percentile)"
	case percentile >= 50:
		return "Market rate (50th-75th percentile)"
	case percentile >= 25:
		return "Below market (25th-50th percentile)"
	default:
		return "Bottom tier (below 25th percentile)"
	}
}

// PayRanges builds a salary band per level from the level median, with the
// band edges at spread below and above the midpoint. Rows are returned in
// career ladder order.
func PayRanges(rows []models.ResultRow, spread float64) []models.PayRange {
	if spread <= 0 || spread >= 1 {
		spread = 0.20
	}

	type levelAgg struct {
		salaries  []float64
		employees int
	}
	byLevel := map[string]*levelAgg{}
	for _, r := range rows {
		agg, ok := byLevel[r.JobLevel]
		if !ok {
			agg = &levelAgg{}
			byLevel[r.JobLevel] = agg
		}
		agg.salaries = append(agg.salaries, r.AvgSalary)
		agg.employees += r.Employees
	}

	var ranges []models.PayRange
	for _, row := range sortByLadder(rows) {
		agg, ok := byLevel[row.JobLevel]
		if !ok {
			continue
		}
		delete(byLevel, row.JobLevel)
		mid := median(agg.salaries)
		ranges = append(ranges, models.PayRange{
			Level:     row.JobLevel,
			Min:       math.Round(mid * (1 - spread)),
			Midpoint:  math.Round(mid),
			Max:       math.Round(mid * (1 + spread)),
			Employees: agg.employees,
		})
	}
	return ranges
}
