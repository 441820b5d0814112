package store

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/watershed-hr/comp-engine/pkg/apperrors"
	"github.com/watershed-hr/comp-engine/pkg/logging"
	"github.com/watershed-hr/comp-engine/pkg/models"
)

// percentileColumns maps (metric, percentile) to a physical column. User
// input never reaches SQL text directly; it only selects from this table.
var percentileColumns = map[models.Metric]map[models.Percentile]string{
	models.MetricBaseSalary: {
		models.PercentileP10: "base_salary_lfy_p10",
		models.PercentileP25: "base_salary_lfy_p25",
		models.PercentileP50: "base_salary_lfy_p50",
		models.PercentileP75: "base_salary_lfy_p75",
		models.PercentileP90: "base_salary_lfy_p90",
	},
	models.MetricTotalComp: {
		models.PercentileP10: "total_comp_lfy_p10",
		models.PercentileP25: "total_comp_lfy_p25",
		models.PercentileP50: "total_comp_lfy_p50",
		models.PercentileP75: "total_comp_lfy_p75",
		models.PercentileP90: "total_comp_lfy_p90",
	},
}

// careerLadderOrder ranks job levels from entry to senior leadership.
// Unknown levels sort last.
const careerLadderOrder = `CASE jp.job_level
		WHEN 'Entry' THEN 1
		WHEN 'Developing' THEN 2
		WHEN 'Career' THEN 3
		WHEN 'Advanced' THEN 4
		WHEN 'Manager (M3)' THEN 5
		WHEN 'Expert' THEN 6
		WHEN 'Sr Manager' THEN 7
		WHEN 'Director' THEN 8
		WHEN 'Principal' THEN 9
		WHEN 'Senior Director' THEN 10
		ELSE 99
	END`

// QuerySpec describes one aggregation query.
type QuerySpec struct {
	Functions  []string
	Levels     []string
	Metric     models.Metric
	Percentile models.Percentile
}

// resolveColumn picks the physical percentile column for a spec.
// variable_pay and employee_count have no percentile columns and fall back
// to base salary.
func resolveColumn(metric models.Metric, pct models.Percentile) (string, error) {
	m := metric
	switch m {
	case models.MetricBaseSalary, models.MetricTotalComp:
	case models.MetricVariablePay, models.MetricEmployeeCount, "":
		m = models.MetricBaseSalary
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownMetric, metric)
	}

	cols := percentileColumns[m]
	col, ok := cols[pct]
	if !ok {
		if pct == "" {
			return cols[models.PercentileP50], nil
		}
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownPercentile, pct)
	}
	return col, nil
}

// buildQuery assembles the aggregation SQL and its arguments. All
// user-derived values are bound as parameters; column names come from
// the fixed mapping above.
func (s *Store) buildQuery(spec *QuerySpec, counting bool) (string, []any, error) {
	col, err := resolveColumn(spec.Metric, spec.Percentile)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	var args []any

	if counting {
		sb.WriteString("SELECT COUNT(*) FROM (")
	}

	sb.WriteString("SELECT jp.job_function, jp.job_level, ")
	fmt.Fprintf(&sb, "ROUND(AVG(cm.%s), 0) AS avg_salary, ", col)
	sb.WriteString("COALESCE(SUM(cm.base_salary_lfy_emp_count), 0) AS employees, ")
	sb.WriteString("COUNT(DISTINCT jp.id) AS positions ")
	sb.WriteString("FROM job_positions jp ")
	sb.WriteString("JOIN compensation_metrics cm ON jp.id = cm.job_position_id ")
	fmt.Fprintf(&sb, "WHERE cm.%s IS NOT NULL AND cm.%s > 0", col, col)

	for _, pattern := range s.excludedLevels {
		sb.WriteString(" AND jp.job_level NOT LIKE ?")
		args = append(args, pattern)
	}

	if len(spec.Functions) > 0 {
		if err := screenParams("function", spec.Functions); err != nil {
			return "", nil, err
		}
		sb.WriteString(" AND LOWER(jp.job_function) IN (" + placeholders(len(spec.Functions)) + ")")
		for _, fn := range spec.Functions {
			args = append(args, strings.ToLower(fn))
		}
	}

	if len(spec.Levels) > 0 {
		if err := screenParams("level", spec.Levels); err != nil {
			return "", nil, err
		}
		sb.WriteString(" AND LOWER(jp.job_level) IN (" + placeholders(len(spec.Levels)) + ")")
		for _, lv := range spec.Levels {
			args = append(args, strings.ToLower(lv))
		}
	}

	sb.WriteString(" GROUP BY jp.job_function, jp.job_level")

	if counting {
		sb.WriteString(")")
		return sb.String(), args, nil
	}

	// A single function reads as a career ladder; order its levels that
	// way. Multi-function results order by salary for easy comparison.
	if len(spec.Functions) == 1 {
		sb.WriteString(" ORDER BY " + careerLadderOrder + ", avg_salary ASC")
	} else {
		sb.WriteString(" ORDER BY avg_salary ASC")
	}

	if s.rowLimit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, s.rowLimit)
	}

	return sb.String(), args, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// Execute runs the aggregation described by spec and returns a populated
// result. Zero matching rows is not an error: the result carries status
// no_results plus the valid function names.
func (s *Store) Execute(ctx context.Context, spec *QuerySpec) (*models.QueryResult, error) {
	query, args, err := s.buildQuery(spec, false)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("executing query",
		zap.Strings("functions", spec.Functions),
		zap.Strings("levels", spec.Levels),
		zap.String("percentile", string(spec.Percentile)),
		zap.String("sql", logging.SanitizeQuery(query)))

	var rows []models.ResultRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("execute aggregation: %w", err)
	}

	if len(rows) == 0 {
		valid, err := s.Functions(ctx)
		if err != nil {
			s.logger.Warn("listing valid functions failed", zap.Error(err))
		}
		return &models.QueryResult{
			Status:         models.StatusNoResults,
			ValidFunctions: valid,
		}, nil
	}

	result := &models.QueryResult{
		Status:   models.StatusSuccess,
		Rows:     rows,
		RowCount: len(rows),
	}
	var salarySum float64
	for _, r := range rows {
		result.TotalEmployees += r.Employees
		salarySum += r.AvgSalary
	}
	result.AvgSalary = salarySum / float64(len(rows))

	// TotalAvailable always reports the true population. When the limit
	// truncated the result a count query finds it; otherwise every row is
	// already present.
	result.TotalAvailable = len(rows)
	if s.rowLimit > 0 && len(rows) == s.rowLimit {
		countQuery, countArgs, err := s.buildQuery(spec, true)
		if err != nil {
			return nil, err
		}
		var total int
		if err := s.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
			return nil, fmt.Errorf("count available rows: %w", err)
		}
		if total > len(rows) {
			result.IsLimited = true
			result.TotalAvailable = total
		}
	}

	result.Discrepancies = Validate(result)
	return result, nil
}
