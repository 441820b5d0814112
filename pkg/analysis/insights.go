package analysis

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/watershed-hr/comp-engine/pkg/models"
)

const maxInsights = 4

// ladderRank orders level labels along the career ladder. Unknown labels
// sort last.
var ladderRank = map[string]int{
	"Entry":           1,
	"Developing":      2,
	"Career":          3,
	"Advanced":        4,
	"Manager (M3)":    5,
	"Expert":          6,
	"Sr Manager":      7,
	"Director":        8,
	"Principal":       9,
	"Senior Director": 10,
}

func rankOf(level string) int {
	if r, ok := ladderRank[level]; ok {
		return r
	}
	return 99
}

// Engine derives insight sentences and executive summaries from query rows.
type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger.Named("analysis")}
}

// Apply attaches insights and a summary to a successful result in place.
// Non-success results pass through untouched.
func (e *Engine) Apply(result *models.QueryResult, intent models.Intent) {
	if result == nil || result.Status != models.StatusSuccess || len(result.Rows) == 0 {
		return
	}
	result.Insights = e.Insights(result.Rows, intent)
	result.Summary = e.Summary(result.Rows, intent)
	e.logger.Debug("analysis applied",
		zap.String("intent", string(intent)), zap.Int("insights", len(result.Insights)))
}

// Insights returns at most four sentences chosen by intent.
func (e *Engine) Insights(rows []models.ResultRow, intent models.Intent) []string {
	var insights []string
	switch intent {
	case models.IntentCompare:
		insights = comparisonInsights(rows)
	case models.IntentProgression:
		insights = progressionInsights(rows)
	default:
		insights = salaryInsights(rows)
	}
	if len(insights) > maxInsights {
		insights = insights[:maxInsights]
	}
	return insights
}

func salaryInsights(rows []models.ResultRow) []string {
	var insights []string

	salaries := make([]float64, len(rows))
	for i, r := range rows {
		salaries[i] = r.AvgSalary
	}

	minSal, maxSal := salaries[0], salaries[0]
	for _, s := range salaries {
		if s < minSal {
			minSal = s
		}
		if s > maxSal {
			maxSal = s
		}
	}
	if minSal > 0 {
		med := median(salaries)
		mid := (minSal + maxSal) / 2
		skew := ""
		if med < mid {
			skew = " (skewed toward lower end)"
		} else if med > mid {
			skew = " (skewed toward higher end)"
		}
		rangePct := (maxSal - minSal) / minSal * 100
		insights = append(insights, fmt.Sprintf(
			"Salary range spans %s to %s, a %.0f%% difference across levels%s",
			money(minSal), money(maxSal), rangePct, skew))
	}

	totalEmp := 0
	top := rows[0]
	for _, r := range rows {
		totalEmp += r.Employees
		if r.Employees > top.Employees {
			top = r
		}
	}
	if totalEmp > 0 {
		pct := float64(top.Employees) / float64(totalEmp) * 100
		note := ""
		if pct > 40 {
			note = " - highly concentrated"
		} else if pct > 25 {
			note = " - moderately concentrated"
		}
		insights = append(insights, fmt.Sprintf(
			"Largest concentration at %s with %s employees (%.0f%% of total%s)",
			top.JobLevel, count(top.Employees), pct, note))
	}

	if len(rows) > 2 {
		headcounts := make([]float64, len(rows))
		for i, r := range rows {
			headcounts[i] = float64(r.Employees)
		}
		r := pearson(salaries, headcounts)
		if r > 0.5 || r < -0.5 {
			direction := "higher"
			if r < 0 {
				direction = "lower"
			}
			strength := "moderate"
			if r > 0.7 || r < -0.7 {
				strength = "strong"
			}
			insights = append(insights, fmt.Sprintf(
				"Positions with %s salaries tend to have %s headcount (%s correlation: %.2f)",
				direction, direction, strength, r))
		} else {
			insights = append(insights, fmt.Sprintf(
				"Salary levels show little correlation with headcount distribution (correlation: %.2f)",
				r))
		}
	}

	if outliers := identifyOutliers(rows); len(outliers) > 0 {
		o := outliers[0]
		kind := "significantly lower"
		if o.High {
			kind = "significantly higher"
		}
		insights = append(insights, fmt.Sprintf(
			"%s shows %s compensation (%s) compared to other levels",
			o.Level, kind, money(o.Salary)))
	}

	return insights
}

func comparisonInsights(rows []models.ResultRow) []string {
	if len(rows) < 2 {
		return nil
	}

	// Per-function aggregates, keeping first-seen order for the range
	// insight below.
	type funcStats struct {
		salaries  []float64
		employees int
		positions int
	}
	byFunc := map[string]*funcStats{}
	var order []string
	for _, r := range rows {
		fs, ok := byFunc[r.JobFunction]
		if !ok {
			fs = &funcStats{}
			byFunc[r.JobFunction] = fs
			order = append(order, r.JobFunction)
		}
		fs.salaries = append(fs.salaries, r.AvgSalary)
		fs.employees += r.Employees
		fs.positions += r.Positions
	}
	if len(byFunc) < 2 {
		return nil
	}

	var insights []string

	highest, lowest := order[0], order[0]
	for _, fn := range order {
		if mean(byFunc[fn].salaries) > mean(byFunc[highest].salaries) {
			highest = fn
		}
		if mean(byFunc[fn].salaries) < mean(byFunc[lowest].salaries) {
			lowest = fn
		}
	}
	if hiAvg, loAvg := mean(byFunc[highest].salaries), mean(byFunc[lowest].salaries); loAvg > 0 {
		pctDiff := (hiAvg - loAvg) / loAvg * 100
		significance := ""
		switch {
		case pctDiff > 50:
			significance = " - substantial premium"
		case pctDiff > 25:
			significance = " - notable difference"
		case pctDiff < 10:
			significance = " - relatively similar"
		}
		insights = append(insights, fmt.Sprintf(
			"%s pays %.0f%% more than %s on average (%s vs %s)%s",
			highest, pctDiff, lowest, money(hiAvg), money(loAvg), significance))
	}

	largest, smallest := order[0], order[0]
	for _, fn := range order {
		if byFunc[fn].employees > byFunc[largest].employees {
			largest = fn
		}
		if byFunc[fn].employees < byFunc[smallest].employees {
			smallest = fn
		}
	}
	if byFunc[smallest].employees > 0 {
		ratio := float64(byFunc[largest].employees) / float64(byFunc[smallest].employees)
		insights = append(insights, fmt.Sprintf(
			"%s has %s employees vs %s in %s (%.1fx larger workforce)",
			largest, count(byFunc[largest].employees),
			count(byFunc[smallest].employees), smallest, ratio))
	}

	for _, fn := range order[:2] {
		sals := byFunc[fn].salaries
		if len(sals) < 2 {
			continue
		}
		lo, hi := sals[0], sals[0]
		for _, s := range sals {
			if s < lo {
				lo = s
			}
			if s > hi {
				hi = s
			}
		}
		if lo > 0 {
			insights = append(insights, fmt.Sprintf(
				"%s shows %.0f%% salary range across levels (%s to %s)",
				fn, (hi-lo)/lo*100, money(lo), money(hi)))
		}
	}

	mostDiverse, leastDiverse := "", ""
	var minEPP, maxEPP float64
	for _, fn := range order {
		fs := byFunc[fn]
		if fs.positions == 0 {
			continue
		}
		epp := float64(fs.employees) / float64(fs.positions)
		if mostDiverse == "" || epp < minEPP {
			mostDiverse, minEPP = fn, epp
		}
		if leastDiverse == "" || epp > maxEPP {
			leastDiverse, maxEPP = fn, epp
		}
	}
	if mostDiverse != "" && mostDiverse != leastDiverse {
		insights = append(insights, fmt.Sprintf(
			"%s has more position diversity (%.0f emp/position) vs %s (%.0f emp/position)",
			mostDiverse, minEPP, leastDiverse, maxEPP))
	}

	return insights
}

func progressionInsights(rows []models.ResultRow) []string {
	if len(rows) < 2 {
		return nil
	}

	ordered := sortByLadder(rows)

	salaries := make([]float64, len(ordered))
	for i, r := range ordered {
		salaries[i] = r.AvgSalary
	}

	var growthRates, increases []float64
	for i := 1; i < len(salaries); i++ {
		if salaries[i-1] > 0 {
			growthRates = append(growthRates, (salaries[i]-salaries[i-1])/salaries[i-1]*100)
			increases = append(increases, salaries[i]-salaries[i-1])
		}
	}
	if len(growthRates) == 0 {
		return nil
	}

	var insights []string

	if salaries[0] > 0 {
		totalGrowth := (salaries[len(salaries)-1] - salaries[0]) / salaries[0] * 100
		insights = append(insights, fmt.Sprintf(
			"Career progression shows %.0f%% total growth from entry to top level (avg %.1f%% per level)",
			totalGrowth, mean(growthRates)))
	}

	maxIdx := 0
	for i, g := range growthRates {
		if g > growthRates[maxIdx] {
			maxIdx = i
		}
	}
	if maxIdx+1 < len(ordered) {
		insights = append(insights, fmt.Sprintf(
			"Largest jump (%.0f%%, +%s) occurs from %s to %s",
			growthRates[maxIdx], money(increases[maxIdx]),
			ordered[maxIdx].JobLevel, ordered[maxIdx+1].JobLevel))
	}

	growthStd := stdDev(growthRates)
	if growthStd < 5 {
		insights = append(insights, fmt.Sprintf(
			"Progression is highly consistent with similar growth at each level (std dev: %.1f%%)",
			growthStd))
	} else if growthStd > 15 {
		minG, maxG := growthRates[0], growthRates[0]
		for _, g := range growthRates {
			if g < minG {
				minG = g
			}
			if g > maxG {
				maxG = g
			}
		}
		insights = append(insights, fmt.Sprintf(
			"Progression varies significantly between levels (std dev: %.1f%%, range: %.0f%% to %.0f%%)",
			growthStd, minG, maxG))
	}

	if len(growthRates) >= 3 {
		half := len(growthRates) / 2
		early := mean(growthRates[:half])
		late := mean(growthRates[half:])
		if late > early*1.2 {
			insights = append(insights, fmt.Sprintf(
				"Career progression accelerates at higher levels (%.1f%% vs %.1f%% in early career)",
				late, early))
		} else if late < early*0.8 {
			insights = append(insights, fmt.Sprintf(
				"Career progression slows at higher levels (%.1f%% vs %.1f%% in early career)",
				late, early))
		}
	}

	return insights
}

// LadderSort returns rows ordered along the career ladder, salary ascending
// within a tier. The input slice is left untouched.
func LadderSort(rows []models.ResultRow) []models.ResultRow {
	return sortByLadder(rows)
}

// sortByLadder returns rows ordered along the career ladder, salary
// ascending within a tier. The input slice is left untouched.
func sortByLadder(rows []models.ResultRow) []models.ResultRow {
	ordered := append([]models.ResultRow(nil), rows...)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, rj := rankOf(ordered[i].JobLevel), rankOf(ordered[j].JobLevel)
		if ri != rj {
			return ri < rj
		}
		return ordered[i].AvgSalary < ordered[j].AvgSalary
	})
	return ordered
}
