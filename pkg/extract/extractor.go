// Package extract turns free-text questions into structured entity records.
package extract

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/watershed-hr/comp-engine/pkg/config"
	"github.com/watershed-hr/comp-engine/pkg/models"
)

var (
	spreadPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+(?:\.\d+)?)\s*%\s*spread`),
		regexp.MustCompile(`spread\s*(?:of\s*)?(\d+(?:\.\d+)?)\s*%`),
	}
	percentileCodePattern = regexp.MustCompile(`\bp(10|25|50|75|90)\b`)
	jobTitlePattern       = regexp.MustCompile(`["']([^"']+)["']\s*(?:and|vs\.?|versus)\s*["']([^"']+)["']`)
)

// Extractor converts questions into entity records. Extraction never
// fails: a question with no recognizable entities yields an all-default
// record, not an error.
type Extractor struct {
	catalog        *Catalog
	cutoff         float64
	maxSuggestions int
	logger         *zap.Logger
}

// New creates an extractor backed by the canonical-name catalog.
func New(catalog *Catalog, cfg *config.ExtractionConfig, logger *zap.Logger) *Extractor {
	return &Extractor{
		catalog:        catalog,
		cutoff:         cfg.SuggestionCutoff,
		maxSuggestions: cfg.MaxSuggestions,
		logger:         logger.Named("extract"),
	}
}

// Extract parses a question into an entity record.
func (e *Extractor) Extract(ctx context.Context, question string) *models.EntityRecord {
	text := strings.ToLower(question)

	rec := &models.EntityRecord{
		Question:   question,
		Intent:     extractIntent(text),
		Metrics:    extractMetrics(text),
		Percentile: extractPercentile(text),
		Spread:     extractSpread(text),
	}
	rec.Functions = e.extractFunctions(ctx, text)
	rec.Levels = extractLevels(text)

	if rec.Intent == models.IntentCompare {
		if m := jobTitlePattern.FindStringSubmatch(question); m != nil {
			rec.JobTitles = &[2]string{strings.TrimSpace(m[1]), strings.TrimSpace(m[2])}
		}
	}

	e.validateFunctions(ctx, rec)
	rec.Pattern = classifyPattern(rec, text)

	e.logger.Debug("extracted entities",
		zap.Strings("functions", rec.Functions),
		zap.Strings("levels", rec.Levels),
		zap.String("intent", string(rec.Intent)),
		zap.String("pattern", string(rec.Pattern)))

	return rec
}

// extractFunctions matches phrase aliases, then live catalog names
// (longest first), then the static keyword table. Matched text is
// stripped so one phrase cannot produce two functions.
func (e *Extractor) extractFunctions(ctx context.Context, text string) []string {
	working := text
	var found []string

	for _, alias := range phraseAliases {
		if strings.Contains(working, alias.phrase) {
			found = appendUnique(found, alias.canonical)
			working = strings.ReplaceAll(working, alias.phrase, " ")
		}
	}

	catalogNames := append([]string(nil), e.catalog.Functions(ctx)...)
	sort.SliceStable(catalogNames, func(i, j int) bool {
		return len(catalogNames[i]) > len(catalogNames[j])
	})
	for _, name := range catalogNames {
		lower := strings.ToLower(name)
		if strings.Contains(working, lower) {
			found = appendUnique(found, name)
			working = strings.ReplaceAll(working, lower, " ")
		}
	}

	// Static keywords only matter when the live names matched nothing;
	// they also carry the whole load when the store is unreachable.
	if len(found) == 0 {
		for _, rule := range functionRules {
			if matchesFunctionRule(working, rule) {
				found = appendUnique(found, rule.canonical)
			}
		}
	}

	return found
}

func matchesFunctionRule(text string, rule functionRule) bool {
	for _, kw := range rule.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	for _, kw := range rule.wordBoundary {
		if wordBoundaryMatch(text, kw) {
			return true
		}
	}
	return false
}

func wordBoundaryMatch(text, keyword string) bool {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)
	return re.MatchString(text)
}

// Levels returns the canonical job levels named in free text, such as a
// quoted job title. Used by the executor to narrow a title to its ladder tier.
func Levels(text string) []string {
	return extractLevels(strings.ToLower(text))
}

// extractLevels consumes multi-word level phrases first, then single
// keywords and short codes. Results follow the declared ladder order,
// not the order words appear in the question.
func extractLevels(text string) []string {
	working := text
	matched := make(map[string]bool)

	for _, rule := range levelRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(working, phrase) {
				matched[rule.canonical] = true
				working = strings.ReplaceAll(working, phrase, " ")
			}
		}
	}

	for _, rule := range levelRules {
		if matched[rule.canonical] {
			continue
		}
		for _, kw := range rule.keywords {
			if strings.Contains(working, kw) {
				matched[rule.canonical] = true
				break
			}
		}
		if matched[rule.canonical] {
			continue
		}
		for _, code := range rule.codes {
			if wordBoundaryMatch(working, code) {
				matched[rule.canonical] = true
				break
			}
		}
	}

	var levels []string
	for _, rule := range levelRules {
		if matched[rule.canonical] {
			levels = append(levels, rule.canonical)
		}
	}
	return levels
}

func extractIntent(text string) models.Intent {
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.intent
			}
		}
		for _, p := range rule.patterns {
			if p.MatchString(text) {
				return rule.intent
			}
		}
	}
	return models.IntentQuery
}

func extractMetrics(text string) []models.Metric {
	var metrics []models.Metric
	for _, rule := range metricRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				metrics = append(metrics, rule.metric)
				break
			}
		}
	}
	if len(metrics) == 0 {
		metrics = []models.Metric{models.MetricBaseSalary}
	}
	return metrics
}

func extractPercentile(text string) models.Percentile {
	for _, pk := range percentileKeywords {
		if strings.Contains(text, pk.keyword) {
			return pk.percentile
		}
	}
	if m := percentileCodePattern.FindStringSubmatch(text); m != nil {
		return models.Percentile("p" + m[1])
	}
	return models.PercentileP50
}

func extractSpread(text string) *float64 {
	for _, p := range spreadPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if v, ok := parsePercent(m[1]); ok {
				return &v
			}
		}
	}
	return nil
}

func parsePercent(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 || v >= 100 {
		return 0, false
	}
	return v / 100, true
}

// validateFunctions checks extracted names against the canonical catalog.
// A name with no exact case-insensitive match is dropped, never guessed;
// it becomes a suggestion the user must confirm.
func (e *Extractor) validateFunctions(ctx context.Context, rec *models.EntityRecord) {
	catalogFns := e.catalog.Functions(ctx)
	if len(catalogFns) == 0 {
		// Store unavailable. Static-table names pass through unvalidated.
		return
	}
	modules := e.catalog.Modules(ctx)

	var kept []string
	for _, fn := range rec.Functions {
		if canonical, ok := exactMatch(fn, catalogFns); ok {
			kept = appendUnique(kept, canonical)
			continue
		}

		kind := models.SuggestionFunction
		if _, ok := exactMatch(fn, modules); ok {
			kind = models.SuggestionModule
		}
		rec.Suggestions = append(rec.Suggestions, models.Suggestion{
			Kind:                 kind,
			Original:             fn,
			Alternatives:         closestMatches(fn, catalogFns, e.cutoff, e.maxSuggestions),
			RequiresConfirmation: true,
		})
	}
	rec.Functions = kept
}

func exactMatch(name string, candidates []string) (string, bool) {
	for _, c := range candidates {
		if strings.EqualFold(name, c) {
			return c, true
		}
	}
	return "", false
}

// classifyPattern derives the query-pattern label in fixed decision order.
func classifyPattern(rec *models.EntityRecord, text string) models.QueryPattern {
	switch {
	case rec.Intent == models.IntentCreateRanges:
		return models.PatternRangeCreation
	case rec.Intent == models.IntentCompare && rec.JobTitles != nil && len(rec.Functions) == 1:
		return models.PatternTitleComparison
	case rec.Intent == models.IntentCompare || len(rec.Functions) >= 2:
		return models.PatternComparison
	case len(rec.Functions) > 0 && len(rec.Levels) > 0:
		return models.PatternSpecificRole
	case containsAny(text, broadCategoryKeywords):
		return models.PatternBroadCategory
	case len(rec.Functions) > 0:
		return models.PatternSpecificRole
	default:
		return models.PatternGeneralQuery
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func appendUnique(list []string, name string) []string {
	for _, existing := range list {
		if strings.EqualFold(existing, name) {
			return list
		}
	}
	return append(list, name)
}
