// Package suggest proposes follow-up questions based on what the user just
// asked and what the data showed.
package suggest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/watershed-hr/comp-engine/pkg/models"
)

const maxSuggestions = 3

// similarFunctions maps a function to natural comparison partners, used to
// seed "compare with X" suggestions.
var similarFunctions = map[string][]string{
	"engineering":     {"Product Management", "Data Science", "IT"},
	"finance":         {"Accounting", "Treasury", "FP&A"},
	"sales":           {"Marketing", "Business Development", "Customer Success"},
	"human resources": {"Recruiting", "People Operations", "Talent Management"},
	"marketing":       {"Sales", "Product Marketing", "Communications"},
	"legal":           {"Compliance", "Risk Management", "Contracts"},
	"operations":      {"Supply Chain", "Logistics", "Manufacturing"},
}

var allFunctions = []string{
	"Engineering", "Finance", "Sales", "Marketing",
	"Human Resources", "Legal", "Operations",
}

// Engine generates at most three follow-up prompts per answer.
type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// Generate builds follow-up prompts keyed off intent. History contributes a
// scope-broadening suggestion once a prior turn exists.
func (e *Engine) Generate(result *models.QueryResult, intent models.Intent, history []models.Turn) []string {
	if result == nil || len(result.Rows) == 0 {
		return nil
	}

	var suggestions []string
	switch intent {
	case models.IntentCompare:
		suggestions = comparisonSuggestions(result)
	case models.IntentProgression:
		suggestions = progressionSuggestions(result)
	default:
		suggestions = salarySuggestions(result)
	}

	if len(history) >= 2 {
		prev := history[len(history)-1]
		if prev.Entities != nil && len(prev.Entities.Functions) > 0 {
			suggestions = append(suggestions, fmt.Sprintf(
				"Broaden analysis to include more functions beyond %s",
				strings.Join(prev.Entities.Functions, ", ")))
		}
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

func salarySuggestions(result *models.QueryResult) []string {
	var suggestions []string
	functions := distinctFunctions(result.Rows)

	if len(functions) == 1 {
		if partners := similarFunctions[strings.ToLower(functions[0])]; len(partners) > 0 {
			suggestions = append(suggestions, fmt.Sprintf(
				"Compare %s with %s salaries", functions[0], partners[0]))
		}
	}

	if len(distinctLevels(result.Rows)) > 2 && len(functions) > 0 {
		suggestions = append(suggestions, fmt.Sprintf(
			"Show career progression path in %s", functions[0]))
	}

	if len(functions) > 0 {
		suggestions = append(suggestions, fmt.Sprintf(
			"Analyze top specializations within %s", functions[0]))
	}

	if result.ChartPath == "" {
		suggestions = append(suggestions, "Create a visualization of this data")
	}

	return suggestions
}

func comparisonSuggestions(result *models.QueryResult) []string {
	var suggestions []string
	functions := distinctFunctions(result.Rows)
	levels := distinctLevels(result.Rows)

	if len(functions) >= 2 {
		if len(levels) > 1 {
			suggestions = append(suggestions, fmt.Sprintf(
				"Compare %s vs %s at %s level specifically",
				functions[0], functions[1], levels[0]))
		}
		if len(functions) == 2 {
			if other := firstOtherFunction(functions); other != "" {
				suggestions = append(suggestions, fmt.Sprintf(
					"Add %s to the comparison", other))
			}
		}
		suggestions = append(suggestions, fmt.Sprintf(
			"Compare career progression between %s and %s",
			functions[0], functions[1]))
	}

	suggestions = append(suggestions, "Analyze variable pay differences between these functions")
	return suggestions
}

func progressionSuggestions(result *models.QueryResult) []string {
	var suggestions []string
	functions := distinctFunctions(result.Rows)

	if len(functions) > 0 {
		if partners := similarFunctions[strings.ToLower(functions[0])]; len(partners) > 0 {
			suggestions = append(suggestions, fmt.Sprintf(
				"Compare this progression with %s", partners[0]))
		}
	}

	if level := biggestJumpLevel(result.Rows); level != "" {
		suggestions = append(suggestions, fmt.Sprintf(
			"Analyze %s in detail - shows largest salary jump", level))
	}

	if len(functions) > 0 {
		suggestions = append(suggestions, fmt.Sprintf(
			"Analyze typical time-to-promotion in %s", functions[0]))
	}

	return suggestions
}

// biggestJumpLevel returns the level reached by the largest salary-ascending
// step, or "" when the data has fewer than two rows.
func biggestJumpLevel(rows []models.ResultRow) string {
	if len(rows) < 2 {
		return ""
	}
	sorted := append([]models.ResultRow(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AvgSalary < sorted[j].AvgSalary
	})
	maxJump, level := 0.0, ""
	for i := 1; i < len(sorted); i++ {
		if jump := sorted[i].AvgSalary - sorted[i-1].AvgSalary; jump > maxJump {
			maxJump = jump
			level = sorted[i].JobLevel
		}
	}
	return level
}

func firstOtherFunction(existing []string) string {
	for _, fn := range allFunctions {
		found := false
		for _, e := range existing {
			if strings.EqualFold(e, fn) {
				found = true
				break
			}
		}
		if !found {
			return fn
		}
	}
	return ""
}

func distinctFunctions(rows []models.ResultRow) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range rows {
		if _, ok := seen[r.JobFunction]; ok {
			continue
		}
		seen[r.JobFunction] = struct{}{}
		out = append(out, r.JobFunction)
	}
	return out
}

func distinctLevels(rows []models.ResultRow) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range rows {
		if _, ok := seen[r.JobLevel]; ok {
			continue
		}
		seen[r.JobLevel] = struct{}{}
		out = append(out, r.JobLevel)
	}
	return out
}
