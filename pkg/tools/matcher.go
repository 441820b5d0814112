package tools

import (
	"strings"

	"go.uber.org/zap"

	"github.com/watershed-hr/comp-engine/pkg/models"
)

// categoryKeywords map report-category words in the question directly to a
// name fragment a matching artifact must carry. These beat name scoring.
var categoryKeywords = []struct {
	keyword  string
	fragment string
}{
	{"transparency", "pay_transparency"},
	{"architecture", "job_architecture"},
	{"pay range report", "pay_range"},
}

// functionAliases translate canonical function names to the short tokens
// artifact filenames actually use.
var functionAliases = map[string][]string{
	"human resources": {"hr", "human"},
	"engineering":     {"engineering", "eng"},
}

// Match decides whether a registered artifact can answer the question
// without a fresh query. Returns the artifact name and true on a match.
func (inv *Inventory) Match(question string, rec *models.EntityRecord) (string, bool) {
	if len(inv.artifacts) == 0 || rec == nil {
		return "", false
	}
	lowerQ := strings.ToLower(question)

	// Report-category keywords take precedence over any name scoring.
	for _, cat := range categoryKeywords {
		if !strings.Contains(lowerQ, cat.keyword) {
			continue
		}
		if name, ok := inv.findByFragment(cat.fragment, rec.Functions); ok {
			inv.logger.Debug("matched artifact by report category",
				zap.String("keyword", cat.keyword), zap.String("artifact", name))
			return name, true
		}
	}

	if len(rec.Functions) == 0 {
		return "", false
	}

	switch {
	case rec.Intent == models.IntentCompare && len(rec.Functions) >= 2:
		return inv.matchComparison(rec.Functions)
	case len(rec.Functions) == 1:
		switch rec.Intent {
		case models.IntentQuery, models.IntentAnalyze, models.IntentVisualize, models.IntentSearch:
			return inv.matchSingleFunction(rec.Functions[0])
		}
	}
	return "", false
}

// findByFragment returns an artifact whose name contains the fragment,
// preferring one that also names a requested function.
func (inv *Inventory) findByFragment(fragment string, functions []string) (string, bool) {
	var fallback string
	for _, name := range inv.Names() {
		lower := strings.ToLower(name)
		if !strings.Contains(lower, fragment) {
			continue
		}
		for _, fn := range functions {
			if nameContainsFunction(lower, fn) {
				return name, true
			}
		}
		if fallback == "" {
			fallback = name
		}
	}
	return fallback, fallback != ""
}

// matchComparison requires every requested function to appear in the name,
// so a two-function artifact never answers a three-function request.
func (inv *Inventory) matchComparison(functions []string) (string, bool) {
	for _, name := range inv.Names() {
		lower := strings.ToLower(name)
		all := true
		for _, fn := range functions {
			if !nameContainsFunction(lower, fn) {
				all = false
				break
			}
		}
		if all {
			inv.logger.Debug("matched comparison artifact", zap.String("artifact", name))
			return name, true
		}
	}
	return "", false
}

// matchSingleFunction rejects comparison artifacts: the name must carry the
// requested function and no other known function, and no "vs" marker.
func (inv *Inventory) matchSingleFunction(function string) (string, bool) {
	for _, name := range inv.Names() {
		lower := strings.ToLower(name)
		if !nameContainsFunction(lower, function) {
			continue
		}
		if strings.Contains(lower, "_vs_") || strings.Contains(lower, "vs_") {
			continue
		}
		if namesOtherFunction(lower, function) {
			continue
		}
		inv.logger.Debug("matched single-function artifact",
			zap.String("function", function), zap.String("artifact", name))
		return name, true
	}
	return "", false
}

func nameContainsFunction(lowerName, function string) bool {
	for _, token := range functionTokens(function) {
		if strings.Contains(lowerName, token) {
			return true
		}
	}
	return false
}

// namesOtherFunction reports whether the artifact name mentions a known
// function other than the requested one.
func namesOtherFunction(lowerName, requested string) bool {
	known := []string{"engineering", "finance", "sales", "marketing", "hr", "legal", "operations"}
	requestedTokens := functionTokens(requested)
	for _, other := range known {
		skip := false
		for _, tok := range requestedTokens {
			if other == tok {
				skip = true
				break
			}
		}
		if skip {
			continue
		}
		if strings.Contains(lowerName, other) {
			return true
		}
	}
	return false
}

func functionTokens(function string) []string {
	lower := strings.ToLower(function)
	if aliases, ok := functionAliases[lower]; ok {
		return aliases
	}
	return []string{strings.ReplaceAll(lower, " ", "_")}
}
