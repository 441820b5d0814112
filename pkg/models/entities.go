package models

import "strings"

// Intent classifies what the user wants done with compensation data.
type Intent string

const (
	IntentQuery        Intent = "query"
	IntentCompare      Intent = "compare"
	IntentVisualize    Intent = "visualize"
	IntentAnalyze      Intent = "analyze"
	IntentProgression  Intent = "progression"
	IntentCreateRanges Intent = "create_ranges"
	IntentSearch       Intent = "search"
)

// Metric identifies a compensation measure the user asked about.
type Metric string

const (
	MetricBaseSalary    Metric = "base_salary"
	MetricTotalComp     Metric = "total_comp"
	MetricVariablePay   Metric = "variable_pay"
	MetricEmployeeCount Metric = "employee_count"
)

// Percentile identifies a compensation percentile column.
type Percentile string

const (
	PercentileP10 Percentile = "p10"
	PercentileP25 Percentile = "p25"
	PercentileP50 Percentile = "p50"
	PercentileP75 Percentile = "p75"
	PercentileP90 Percentile = "p90"
)

// QueryPattern classifies the shape of a question for planning and prompts.
type QueryPattern string

const (
	PatternRangeCreation   QueryPattern = "range_creation"
	PatternTitleComparison QueryPattern = "title_comparison"
	PatternComparison      QueryPattern = "comparison"
	PatternSpecificRole    QueryPattern = "specific_role"
	PatternBroadCategory   QueryPattern = "broad_category"
	PatternGeneralQuery    QueryPattern = "query"
)

// SuggestionKind tells which entity field a suggestion applies to.
type SuggestionKind string

const (
	SuggestionFunction SuggestionKind = "function"
	SuggestionModule   SuggestionKind = "module"
)

// Suggestion proposes canonical alternatives for an unrecognized name.
// Alternatives are never applied automatically.
type Suggestion struct {
	Kind                 SuggestionKind `json:"kind"`
	Original             string         `json:"original"`
	Alternatives         []string       `json:"alternatives"`
	RequiresConfirmation bool           `json:"requires_confirmation"`
}

// EntityRecord holds everything extracted from one question. Extraction
// never fails: unrecognized inputs produce defaults plus suggestions.
type EntityRecord struct {
	Question    string       `json:"question"`
	Functions   []string     `json:"functions"`
	Levels      []string     `json:"levels"`
	Intent      Intent       `json:"intent"`
	Metrics     []Metric     `json:"metrics"`
	Percentile  Percentile   `json:"percentile"`
	Spread      *float64     `json:"spread,omitempty"`
	JobTitles   *[2]string   `json:"job_titles,omitempty"`
	Pattern     QueryPattern `json:"query_pattern"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

// HasFunction reports whether fn is present, ignoring case.
func (e *EntityRecord) HasFunction(fn string) bool {
	for _, f := range e.Functions {
		if strings.EqualFold(f, fn) {
			return true
		}
	}
	return false
}
