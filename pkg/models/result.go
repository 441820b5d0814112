package models

import "time"

// ResultStatus is the outcome of a query execution.
type ResultStatus string

const (
	StatusSuccess   ResultStatus = "success"
	StatusNoResults ResultStatus = "no_results"
	StatusError     ResultStatus = "error"
)

// ResultRow is one aggregated compensation row: a function/level cell with
// its rounded average salary, headcount, and distinct position count.
type ResultRow struct {
	JobFunction string  `json:"job_function" db:"job_function"`
	JobLevel    string  `json:"job_level" db:"job_level"`
	AvgSalary   float64 `json:"avg_salary" db:"avg_salary"`
	Employees   int     `json:"employees" db:"employees"`
	Positions   int     `json:"positions" db:"positions"`
}

// QueryResult is the full outcome of one executed question.
type QueryResult struct {
	Status         ResultStatus `json:"status"`
	Rows           []ResultRow  `json:"data"`
	RowCount       int          `json:"row_count"`
	TotalEmployees int          `json:"total_employees"`
	AvgSalary      float64      `json:"avg_salary"`

	// Limit transparency. TotalAvailable is the unlimited row count when
	// IsLimited is true.
	TotalAvailable int  `json:"total_available,omitempty"`
	IsLimited      bool `json:"is_limited,omitempty"`

	// Discrepancies holds validator findings. They are reported, never raised.
	Discrepancies []string `json:"discrepancies,omitempty"`

	Insights []string `json:"insights,omitempty"`
	Summary  string   `json:"summary,omitempty"`

	// PayRanges carries the proposed bands when the question asked for
	// range creation.
	PayRanges []PayRange `json:"pay_ranges,omitempty"`

	// Benchmark positions the queried function against the whole market
	// when the question asked for analysis.
	Benchmark *Benchmark `json:"benchmark,omitempty"`

	ChartPath string `json:"chart_path,omitempty"`
	ToolUsed  string `json:"tool_used,omitempty"`

	// ValidFunctions is populated on no_results so the caller can steer
	// the user toward names that exist.
	ValidFunctions []string `json:"valid_functions,omitempty"`

	Error string `json:"error,omitempty"`
}

// Turn is one completed question/answer exchange.
type Turn struct {
	Timestamp time.Time     `json:"timestamp"`
	Question  string        `json:"question"`
	Entities  *EntityRecord `json:"entities"`
	Result    *QueryResult  `json:"result"`
	Response  string        `json:"response"`
}

// PayRange is a salary band built around a level midpoint.
type PayRange struct {
	Level     string  `json:"level"`
	Min       float64 `json:"min"`
	Midpoint  float64 `json:"midpoint"`
	Max       float64 `json:"max"`
	Employees int     `json:"employees"`
}

// Benchmark positions one function's average against market percentiles
// computed across all returned rows.
type Benchmark struct {
	JobFunction string  `json:"job_function"`
	AvgSalary   float64 `json:"avg_salary"`
	MarketP25   float64 `json:"market_p25"`
	MarketP50   float64 `json:"market_p50"`
	MarketP75   float64 `json:"market_p75"`
	MarketP90   float64 `json:"market_p90"`
	Positioning string  `json:"positioning"`
}
