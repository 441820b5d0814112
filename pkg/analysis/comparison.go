package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/watershed-hr/comp-engine/pkg/models"
)

var errInsufficientData = errors.New("insufficient data for comparison")

// SalaryComparison is the average salary block of a two-function comparison.
type SalaryComparison struct {
	Avg1, Avg2        float64
	Difference        float64
	PercentDifference float64
	Higher            string
}

// RangeStat is one function's salary spread across its levels.
type RangeStat struct {
	Min, Max, Range float64
}

// RangeComparison pairs both spreads and names the wider one.
type RangeComparison struct {
	Range1, Range2 RangeStat
	Wider          string
}

// WorkforceComparison is the headcount block.
type WorkforceComparison struct {
	Total1, Total2 int
	Difference     int
	Ratio          float64
	Larger         string
}

// PositionComparison is the distinct-position block.
type PositionComparison struct {
	Total1, Total2 int
	Difference     int
	MoreDiverse    string
}

// LevelComparison describes the level-set overlap of the two functions.
type LevelComparison struct {
	Levels1, Levels2      []string
	Common                []string
	OnlyFirst, OnlySecond []string
}

// Comparison is a merged side-by-side view of two query results.
type Comparison struct {
	Function1, Function2 string
	Level                string

	Salary    SalaryComparison
	Ranges    RangeComparison
	Workforce WorkforceComparison
	Positions PositionComparison
	Levels    LevelComparison
}

// Compare builds a detailed comparison of two single-function results.
// When level is nonempty, both sides are narrowed to that level first; if
// either side has no rows at the level, the full results are used instead.
func Compare(res1, res2 *models.QueryResult, fn1, fn2, level string) (*Comparison, error) {
	if res1 == nil || res2 == nil || len(res1.Rows) == 0 || len(res2.Rows) == 0 {
		return nil, errInsufficientData
	}

	rows1, rows2 := res1.Rows, res2.Rows
	if level != "" {
		f1, f2 := filterLevel(rows1, level), filterLevel(rows2, level)
		if len(f1) > 0 && len(f2) > 0 {
			rows1, rows2 = f1, f2
		}
	}

	c := &Comparison{Function1: fn1, Function2: fn2, Level: level}

	avg1, avg2 := avgSalary(rows1), avgSalary(rows2)
	c.Salary = SalaryComparison{
		Avg1:       avg1,
		Avg2:       avg2,
		Difference: avg1 - avg2,
		Higher:     higherOf(fn1, fn2, avg1, avg2),
	}
	if avg2 > 0 {
		c.Salary.PercentDifference = (avg1 - avg2) / avg2 * 100
	}

	r1, r2 := rangeStat(rows1), rangeStat(rows2)
	c.Ranges = RangeComparison{
		Range1: r1,
		Range2: r2,
		Wider:  higherOf(fn1, fn2, r1.Range, r2.Range),
	}

	emp1, emp2 := sumEmployees(rows1), sumEmployees(rows2)
	c.Workforce = WorkforceComparison{
		Total1:     emp1,
		Total2:     emp2,
		Difference: emp1 - emp2,
		Larger:     higherOf(fn1, fn2, float64(emp1), float64(emp2)),
	}
	if emp2 > 0 {
		c.Workforce.Ratio = float64(emp1) / float64(emp2)
	}

	pos1, pos2 := sumPositions(rows1), sumPositions(rows2)
	c.Positions = PositionComparison{
		Total1:      pos1,
		Total2:      pos2,
		Difference:  pos1 - pos2,
		MoreDiverse: higherOf(fn1, fn2, float64(pos1), float64(pos2)),
	}

	l1, l2 := levelSet(rows1), levelSet(rows2)
	c.Levels = LevelComparison{
		Levels1:    sortedKeys(l1),
		Levels2:    sortedKeys(l2),
		Common:     intersect(l1, l2),
		OnlyFirst:  subtract(l1, l2),
		OnlySecond: subtract(l2, l1),
	}

	return c, nil
}

// Narrative renders a comparison as insight sentences: who pays more, whose
// range is wider, who employs more, and how the level sets overlap.
func (c *Comparison) Narrative() []string {
	var lines []string

	loser := c.Function2
	loAvg, hiAvg := c.Salary.Avg2, c.Salary.Avg1
	if c.Salary.Higher == c.Function2 {
		loser = c.Function1
		loAvg, hiAvg = c.Salary.Avg1, c.Salary.Avg2
	}
	pct := c.Salary.PercentDifference
	if pct < 0 {
		pct = -pct
	}
	lines = append(lines, fmt.Sprintf(
		"%s pays the higher average: %s vs %s for %s (%.0f%% gap)",
		c.Salary.Higher, money(hiAvg), money(loAvg), loser, pct))

	lines = append(lines, fmt.Sprintf(
		"%s has the wider salary range (%s spans %s-%s, %s spans %s-%s)",
		c.Ranges.Wider,
		c.Function1, money(c.Ranges.Range1.Min), money(c.Ranges.Range1.Max),
		c.Function2, money(c.Ranges.Range2.Min), money(c.Ranges.Range2.Max)))

	if c.Workforce.Ratio > 0 {
		lines = append(lines, fmt.Sprintf(
			"%s employs the larger workforce (%s vs %s employees)",
			c.Workforce.Larger, count(c.Workforce.Total1), count(c.Workforce.Total2)))
	}

	switch {
	case len(c.Levels.OnlyFirst) > 0 && len(c.Levels.OnlySecond) > 0:
		lines = append(lines, fmt.Sprintf(
			"Levels unique to %s: %s; unique to %s: %s",
			c.Function1, strings.Join(c.Levels.OnlyFirst, ", "),
			c.Function2, strings.Join(c.Levels.OnlySecond, ", ")))
	case len(c.Levels.OnlyFirst) > 0:
		lines = append(lines, fmt.Sprintf(
			"%s carries levels %s has not staffed: %s",
			c.Function1, c.Function2, strings.Join(c.Levels.OnlyFirst, ", ")))
	case len(c.Levels.OnlySecond) > 0:
		lines = append(lines, fmt.Sprintf(
			"%s carries levels %s has not staffed: %s",
			c.Function2, c.Function1, strings.Join(c.Levels.OnlySecond, ", ")))
	case len(c.Levels.Common) > 0:
		lines = append(lines, fmt.Sprintf(
			"Both sides staff the same levels: %s", strings.Join(c.Levels.Common, ", ")))
	}

	return lines
}

// Merge combines two results into one for downstream analysis and
// rendering. Summary scalars are recomputed over the merged rows.
func Merge(a, b *models.QueryResult) *models.QueryResult {
	if a == nil || a.Status != models.StatusSuccess {
		return b
	}
	if b == nil || b.Status != models.StatusSuccess {
		return a
	}

	merged := &models.QueryResult{
		Status:         models.StatusSuccess,
		Rows:           append(append([]models.ResultRow(nil), a.Rows...), b.Rows...),
		TotalEmployees: a.TotalEmployees + b.TotalEmployees,
		IsLimited:      a.IsLimited || b.IsLimited,
	}
	merged.RowCount = len(merged.Rows)
	if merged.IsLimited {
		merged.TotalAvailable = maxInt(a.TotalAvailable, a.RowCount) + maxInt(b.TotalAvailable, b.RowCount)
	}
	merged.AvgSalary = math.Round(avgSalary(merged.Rows))
	merged.Discrepancies = append(append([]string(nil), a.Discrepancies...), b.Discrepancies...)
	return merged
}

func avgSalary(rows []models.ResultRow) float64 {
	salaries := make([]float64, len(rows))
	for i, r := range rows {
		salaries[i] = r.AvgSalary
	}
	return mean(salaries)
}

func rangeStat(rows []models.ResultRow) RangeStat {
	lo, hi := rows[0].AvgSalary, rows[0].AvgSalary
	for _, r := range rows {
		if r.AvgSalary < lo {
			lo = r.AvgSalary
		}
		if r.AvgSalary > hi {
			hi = r.AvgSalary
		}
	}
	return RangeStat{Min: lo, Max: hi, Range: hi - lo}
}

func sumEmployees(rows []models.ResultRow) int {
	total := 0
	for _, r := range rows {
		total += r.Employees
	}
	return total
}

func sumPositions(rows []models.ResultRow) int {
	total := 0
	for _, r := range rows {
		total += r.Positions
	}
	return total
}

func filterLevel(rows []models.ResultRow, level string) []models.ResultRow {
	var filtered []models.ResultRow
	for _, r := range rows {
		if r.JobLevel == level {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func levelSet(rows []models.ResultRow) map[string]struct{} {
	set := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		set[r.JobLevel] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func intersect(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func subtract(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func higherOf(name1, name2 string, v1, v2 float64) string {
	if v1 >= v2 {
		return name1
	}
	return name2
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
