package analysis

import (
	"fmt"
	"strings"

	"github.com/watershed-hr/comp-engine/pkg/models"
)

// Summary builds the one-line executive summary, pipe-joined, keyed off
// intent like Insights.
func (e *Engine) Summary(rows []models.ResultRow, intent models.Intent) string {
	if len(rows) == 0 {
		return "No data available for analysis."
	}
	switch intent {
	case models.IntentCompare:
		return comparisonSummary(rows)
	case models.IntentProgression:
		return progressionSummary(rows)
	default:
		return standardSummary(rows)
	}
}

func standardSummary(rows []models.ResultRow) string {
	var parts []string

	if fns := distinctFunctions(rows); len(fns) == 1 {
		parts = append(parts, "Function: "+fns[0])
	}

	salaries := make([]float64, len(rows))
	minSal, maxSal := rows[0].AvgSalary, rows[0].AvgSalary
	totalEmp, totalPos := 0, 0
	for i, r := range rows {
		salaries[i] = r.AvgSalary
		if r.AvgSalary < minSal {
			minSal = r.AvgSalary
		}
		if r.AvgSalary > maxSal {
			maxSal = r.AvgSalary
		}
		totalEmp += r.Employees
		totalPos += r.Positions
	}

	parts = append(parts, fmt.Sprintf("Average compensation: %s (range: %s - %s)",
		money(mean(salaries)), money(minSal), money(maxSal)))
	parts = append(parts, fmt.Sprintf("Total workforce: %s employees", count(totalEmp)))

	if totalPos > 0 {
		empPerPos := float64(totalEmp) / float64(totalPos)
		parts = append(parts, fmt.Sprintf("%d distinct positions (avg %.0f employees each)",
			totalPos, empPerPos))
	}

	return strings.Join(parts, " | ")
}

func comparisonSummary(rows []models.ResultRow) string {
	fns := distinctFunctions(rows)
	if len(fns) < 2 {
		return standardSummary(rows)
	}

	parts := []string{"Comparing: " + strings.Join(fns, " vs ")}

	avgByFunc := map[string][]float64{}
	totalEmp := 0
	for _, r := range rows {
		avgByFunc[r.JobFunction] = append(avgByFunc[r.JobFunction], r.AvgSalary)
		totalEmp += r.Employees
	}
	highest, lowest := fns[0], fns[0]
	for _, fn := range fns {
		if mean(avgByFunc[fn]) > mean(avgByFunc[highest]) {
			highest = fn
		}
		if mean(avgByFunc[fn]) < mean(avgByFunc[lowest]) {
			lowest = fn
		}
	}
	if loAvg := mean(avgByFunc[lowest]); loAvg > 0 {
		hiAvg := mean(avgByFunc[highest])
		parts = append(parts, fmt.Sprintf("%s leads by %.0f%% (%s vs %s)",
			highest, (hiAvg-loAvg)/loAvg*100, money(hiAvg), money(loAvg)))
	}

	parts = append(parts, fmt.Sprintf("Total: %s employees across both functions", count(totalEmp)))

	return strings.Join(parts, " | ")
}

func progressionSummary(rows []models.ResultRow) string {
	var parts []string

	if fns := distinctFunctions(rows); len(fns) == 1 {
		parts = append(parts, "Career Path: "+fns[0])
	}

	ordered := sortByLadder(rows)
	if len(ordered) > 1 {
		entry := ordered[0].AvgSalary
		top := ordered[len(ordered)-1].AvgSalary
		if entry > 0 {
			parts = append(parts, fmt.Sprintf("Entry to top: %s -> %s (%.0f%% growth)",
				money(entry), money(top), (top-entry)/entry*100))
		}
	}

	levels := map[string]struct{}{}
	for _, r := range rows {
		levels[r.JobLevel] = struct{}{}
	}
	parts = append(parts, fmt.Sprintf("%d career levels", len(levels)))

	return strings.Join(parts, " | ")
}

// distinctFunctions preserves first-seen order.
func distinctFunctions(rows []models.ResultRow) []string {
	seen := map[string]struct{}{}
	var fns []string
	for _, r := range rows {
		if _, ok := seen[r.JobFunction]; ok {
			continue
		}
		seen[r.JobFunction] = struct{}{}
		fns = append(fns, r.JobFunction)
	}
	return fns
}
