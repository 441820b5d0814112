// Package analysis turns raw query rows into insight sentences, executive
// summaries, side-by-side comparisons, and benchmark positioning.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/watershed-hr/comp-engine/pkg/models"
)

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// stdDev is the population standard deviation.
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// quantile interpolates linearly between order statistics, matching the
// convention of most statistics libraries.
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// pearson returns the correlation coefficient of two equal-length series,
// or 0 when either series is constant.
func pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return 0
	}
	mx, my := mean(xs), mean(ys)
	var cov, vx, vy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0
	}
	return cov / math.Sqrt(vx*vy)
}

// outlier is a row whose average salary falls outside 1.5 IQR of the rest.
type outlier struct {
	Level  string
	Salary float64
	High   bool
}

// identifyOutliers applies the 1.5 IQR rule to per-row average salaries.
// Requires more than three rows for the quartiles to mean anything.
func identifyOutliers(rows []models.ResultRow) []outlier {
	if len(rows) <= 3 {
		return nil
	}
	salaries := make([]float64, len(rows))
	for i, r := range rows {
		salaries[i] = r.AvgSalary
	}
	q1 := quantile(salaries, 0.25)
	q3 := quantile(salaries, 0.75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	var found []outlier
	for _, r := range rows {
		if r.AvgSalary < lower || r.AvgSalary > upper {
			found = append(found, outlier{
				Level:  r.JobLevel,
				Salary: r.AvgSalary,
				High:   r.AvgSalary > upper,
			})
		}
	}
	return found
}

// money renders a dollar amount with thousands separators and no decimals.
func money(v float64) string {
	return "$" + groupThousands(int64(math.Round(v)))
}

func count(v int) string {
	return groupThousands(int64(v))
}

func groupThousands(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%d", v)
	if len(s) > 3 {
		var parts []string
		for len(s) > 3 {
			parts = append([]string{s[len(s)-3:]}, parts...)
			s = s[:len(s)-3]
		}
		s = s + "," + strings.Join(parts, ",")
	}
	if neg {
		return "-" + s
	}
	return s
}
