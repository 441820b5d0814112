package extract

import (
	"regexp"

	"github.com/watershed-hr/comp-engine/pkg/models"
)

// phraseAlias maps a multi-word surface phrase to a canonical umbrella
// name. Aliases run before any other function matching and the matched
// phrase is stripped so its words cannot match again.
type phraseAlias struct {
	phrase    string
	canonical string
}

var phraseAliases = []phraseAlias{
	{"business operations", "Corporate & Business Services"},
	{"business services", "Corporate & Business Services"},
	{"corporate services", "Corporate & Business Services"},
	{"people operations", "Human Resources"},
	{"people team", "Human Resources"},
	{"people department", "Human Resources"},
}

// functionRule maps keywords to a canonical function name. Rules are
// evaluated in declared order. Keywords in wordBoundary require a whole
// word match ("hr" must not match inside "through").
type functionRule struct {
	canonical    string
	keywords     []string
	wordBoundary []string
}

var functionRules = []functionRule{
	{canonical: "Engineering", keywords: []string{"engineering", "engineer", "software", "technical"}},
	{canonical: "Finance", keywords: []string{"finance", "financial", "accounting", "treasury"}},
	{canonical: "Sales", keywords: []string{"sales", "selling"}},
	{canonical: "Marketing", keywords: []string{"marketing", "brand", "advertising"}},
	{canonical: "Human Resources", keywords: []string{"human resources", "talent"}, wordBoundary: []string{"hr"}},
	{canonical: "Legal", keywords: []string{"legal", "counsel", "compliance"}},
	{canonical: "Operations", keywords: []string{"operations"}, wordBoundary: []string{"ops"}},
}

// levelRule maps surface forms to a canonical level label. Multi-word
// phrases are listed separately so they are consumed before their
// substrings ("senior director" before "director" or "senior").
type levelRule struct {
	canonical string
	phrases   []string
	keywords  []string
	codes     []string // short codes matched on word boundaries
}

// levelRules are declared in career-ladder order; extracted levels are
// emitted in this order regardless of where they appear in the question.
var levelRules = []levelRule{
	{canonical: "Entry", keywords: []string{"entry", "junior"}, codes: []string{"p1"}},
	{canonical: "Developing", keywords: []string{"developing"}, codes: []string{"p2"}},
	{canonical: "Career", phrases: []string{"mid-level", "mid level"}, keywords: []string{"career"}, codes: []string{"p3"}},
	{canonical: "Advanced", keywords: []string{"advanced", "senior"}, codes: []string{"p4"}},
	{canonical: "Manager (M3)", keywords: []string{"manager", "mgr"}, codes: []string{"m3"}},
	{canonical: "Expert", keywords: []string{"expert"}, codes: []string{"p5"}},
	{canonical: "Sr Manager", phrases: []string{"sr manager", "senior manager"}, codes: []string{"m4"}},
	{canonical: "Director", keywords: []string{"director"}, codes: []string{"m5"}},
	{canonical: "Principal", keywords: []string{"principal"}, codes: []string{"p6"}},
	{canonical: "Senior Director", phrases: []string{"senior director", "sr director"}, codes: []string{"m6"}},
}

// intentRule maps keywords to an intent. First matching rule wins, so
// declaration order is the priority order: range creation outranks
// comparison, progression outranks the generic visualize verbs.
type intentRule struct {
	intent   models.Intent
	keywords []string
	patterns []*regexp.Regexp
}

var vsPattern = regexp.MustCompile(`\bvs\.?\b`)

var intentRules = []intentRule{
	{intent: models.IntentCreateRanges, keywords: []string{"create range", "create pay range", "pay range", "salary range", "build range", "range creation"}},
	{intent: models.IntentCompare, keywords: []string{"compare", "versus", "difference between"}, patterns: []*regexp.Regexp{vsPattern}},
	{intent: models.IntentProgression, keywords: []string{"progression", "career path", "growth", "advancement"}},
	{intent: models.IntentVisualize, keywords: []string{"show", "display", "chart", "graph", "plot", "visualize"}},
	{intent: models.IntentAnalyze, keywords: []string{"analyze", "analysis", "breakdown", "examine"}},
	{intent: models.IntentSearch, keywords: []string{"search for", "look up", "find existing"}},
}

// metricRule maps keywords to a metric. A question can request several.
type metricRule struct {
	metric   models.Metric
	keywords []string
}

var metricRules = []metricRule{
	{models.MetricBaseSalary, []string{"salary", "base", "compensation"}},
	{models.MetricTotalComp, []string{"total comp", "total cash", "total"}},
	{models.MetricVariablePay, []string{"variable", "bonus", "incentive"}},
	{models.MetricEmployeeCount, []string{"employee", "count", "how many"}},
}

// percentileKeywords maps surface forms to a percentile.
var percentileKeywords = []struct {
	keyword    string
	percentile models.Percentile
}{
	{"10th", models.PercentileP10},
	{"25th", models.PercentileP25},
	{"50th", models.PercentileP50},
	{"median", models.PercentileP50},
	{"75th", models.PercentileP75},
	{"90th", models.PercentileP90},
}

// broadCategoryKeywords mark questions that span the whole dataset.
var broadCategoryKeywords = []string{
	"everyone", "all functions", "all departments", "overall",
	"company-wide", "across the company", "whole company",
}
