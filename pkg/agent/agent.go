// Package agent wires the full question pipeline: extraction, reference
// resolution, artifact matching, planning, query execution, analysis, prose
// generation, and rendering. Execution is single-threaded and synchronous.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/watershed-hr/comp-engine/pkg/analysis"
	"github.com/watershed-hr/comp-engine/pkg/apperrors"
	"github.com/watershed-hr/comp-engine/pkg/config"
	"github.com/watershed-hr/comp-engine/pkg/conversation"
	"github.com/watershed-hr/comp-engine/pkg/export"
	"github.com/watershed-hr/comp-engine/pkg/extract"
	"github.com/watershed-hr/comp-engine/pkg/llm"
	"github.com/watershed-hr/comp-engine/pkg/models"
	"github.com/watershed-hr/comp-engine/pkg/plan"
	"github.com/watershed-hr/comp-engine/pkg/prompts"
	"github.com/watershed-hr/comp-engine/pkg/render"
	"github.com/watershed-hr/comp-engine/pkg/store"
	"github.com/watershed-hr/comp-engine/pkg/suggest"
	"github.com/watershed-hr/comp-engine/pkg/tools"
	"github.com/watershed-hr/comp-engine/pkg/viz"
)

// Agent orchestrates one question at a time against a single store.
type Agent struct {
	store     *store.Store
	client    llm.Client
	extractor *extract.Extractor
	sessions  *conversation.Manager
	planner   *plan.Planner
	inventory *tools.Inventory
	runner    tools.Runner
	insights  *analysis.Engine
	renderer  *render.Renderer
	suggester *suggest.Engine
	advisor   *viz.Advisor
	charts    *viz.Renderer
	exporter  *export.Manager
	spread    float64
	logger    *zap.Logger

	lastQuestion string
	lastResult   *models.QueryResult
	lastResponse string
}

// New assembles the pipeline. client may be nil; every LLM-backed step then
// uses its deterministic fallback.
func New(cfg *config.Config, st *store.Store, client llm.Client, logger *zap.Logger) (*Agent, error) {
	exporter, err := export.NewManager(cfg.Paths.ExportsDir, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing exports: %w", err)
	}

	catalog := extract.NewCatalog(st, logger)
	inventory := tools.NewInventory(cfg.Paths.ToolsDir, logger)

	return &Agent{
		store:     st,
		client:    client,
		extractor: extract.New(catalog, &cfg.Extraction, logger),
		sessions:  conversation.NewManager(logger),
		planner:   plan.New(client, logger),
		inventory: inventory,
		runner:    tools.NewExecRunner(inventory, 30*time.Second, logger),
		insights:  analysis.NewEngine(logger),
		renderer:  render.New(),
		suggester: suggest.New(),
		advisor:   viz.NewAdvisor(client, logger),
		charts:    viz.NewRenderer(cfg.Paths.ChartsDir, logger),
		exporter:  exporter,
		spread:    cfg.Extraction.DefaultSpread,
		logger:    logger.Named("agent"),
	}, nil
}

// StartSession opens a fresh conversation.
func (a *Agent) StartSession() *conversation.Session {
	return a.sessions.StartSession()
}

// Ask answers one question within a session and returns the rendered block.
// Pipeline errors surface as a rendered error response, not a Go error;
// only context cancellation propagates.
func (a *Agent) Ask(ctx context.Context, question string, session *conversation.Session) (string, error) {
	if session == nil {
		session = a.sessions.StartSession()
	}
	rec := a.extractor.Extract(ctx, question)

	if prior, ok := conversation.ResolveReference(question, session); ok {
		if len(rec.Functions) == 0 {
			rec.Functions = prior.LastFunctions
		}
		if len(rec.Levels) == 0 {
			rec.Levels = prior.LastLevels
		}
		a.logger.Debug("resolved reference from previous turn",
			zap.Strings("functions", rec.Functions))
	}

	// Unrecognized names with no resolvable function: ask, don't guess.
	if len(rec.Functions) == 0 && len(rec.Suggestions) > 0 {
		return a.finish(question, rec, suggestionResult(), clarificationProse(rec), session), nil
	}

	// A previously produced artifact that answers the question is reused
	// verbatim; the executor and analyzer are bypassed for this turn.
	if name, ok := a.inventory.Match(question, rec); ok {
		if out, err := a.runner.Run(ctx, name); err == nil && out.ExitCode == 0 {
			result := &models.QueryResult{Status: models.StatusSuccess, ToolUsed: name}
			return a.finish(question, rec, result, out.Stdout, session), nil
		} else if err != nil {
			a.logger.Warn("artifact execution failed, running fresh query",
				zap.String("artifact", name), zap.Error(err))
		}
	}

	steps := a.planner.Build(ctx, question, rec, session.ContextSummary(3))
	result, comparison := a.executePlan(ctx, steps, rec)
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if result.Status == models.StatusSuccess {
		a.insights.Apply(result, rec.Intent)
		if comparison != nil {
			// The merged pair supports a precise two-sided narrative;
			// replace the generic comparison insights with it.
			result.Insights = comparison.Narrative()
		}
		a.enrich(ctx, result, rec)
	}

	prose := a.prose(ctx, question, result)
	return a.finish(question, rec, result, prose, session), nil
}

// executePlan runs plan steps in order. Query results accumulate so a
// comparison step can merge the per-function queries before it; the detailed
// two-sided comparison is returned alongside when one was built.
func (a *Agent) executePlan(ctx context.Context, steps []plan.Step, rec *models.EntityRecord) (*models.QueryResult, *analysis.Comparison) {
	var queried []*models.QueryResult
	var sides []string
	var result *models.QueryResult
	var comparison *analysis.Comparison

	for _, step := range steps {
		switch step.Tool {
		case plan.ToolQueryDatabase:
			spec := a.querySpec(rec, step.Params)
			res, err := a.store.Execute(ctx, spec)
			if err != nil {
				return errorResult(err), nil
			}
			queried = append(queried, res)
			sides = append(sides, sideName(step.Params, spec, res))
			result = res

		case plan.ToolCreateComparison:
			if len(queried) >= 2 {
				left, right := queried[len(queried)-2], queried[len(queried)-1]
				result = analysis.Merge(left, right)
				level := ""
				if len(rec.Levels) == 1 {
					level = rec.Levels[0]
				}
				cmp, err := analysis.Compare(left, right, sides[len(sides)-2], sides[len(sides)-1], level)
				if err != nil {
					a.logger.Debug("comparison skipped", zap.Error(err))
				} else {
					comparison = cmp
				}
			}

		case plan.ToolCalculateStats:
			// Summary scalars are computed by the executor; nothing extra
			// to do here.

		case plan.ToolVisualize:
			if result == nil || result.Status != models.StatusSuccess {
				continue
			}
			recommendation := a.advisor.Recommend(ctx, rec.Question, result.Rows, rec)
			path, err := a.charts.Render(recommendation, result.Rows)
			if err != nil {
				a.logger.Warn("chart rendering failed, continuing without chart", zap.Error(err))
				continue
			}
			result.ChartPath = path
		}
	}

	if result == nil {
		result = &models.QueryResult{
			Status: models.StatusError,
			Error:  "plan produced no query step",
		}
	}
	return result, comparison
}

// querySpec builds one query from the record, with step params narrowing the
// scope: "function" overrides the function list, "title" resolves a quoted
// job title to its ladder level.
func (a *Agent) querySpec(rec *models.EntityRecord, params map[string]string) *store.QuerySpec {
	spec := &store.QuerySpec{
		Functions:  rec.Functions,
		Levels:     rec.Levels,
		Percentile: rec.Percentile,
	}
	if len(rec.Metrics) > 0 {
		spec.Metric = rec.Metrics[0]
	}
	if fn, ok := params["function"]; ok && fn != "" {
		spec.Functions = []string{fn}
	}
	if title, ok := params["title"]; ok && title != "" {
		if levels := extract.Levels(title); len(levels) > 0 {
			spec.Levels = levels
		}
	}
	if level, ok := params["level"]; ok && level != "" {
		spec.Levels = []string{level}
	}
	return spec
}

// sideName labels one side of a comparison: the quoted title when the step
// queried one, otherwise the queried function.
func sideName(params map[string]string, spec *store.QuerySpec, res *models.QueryResult) string {
	if title := params["title"]; title != "" {
		return title
	}
	if len(spec.Functions) == 1 {
		return spec.Functions[0]
	}
	if len(res.Rows) > 0 {
		return res.Rows[0].JobFunction
	}
	return "All functions"
}

/// enrich attaches the pattern-specific supplements: proposed pay bands for
// range creation, a market benchmark for analysis questions.
func (a *Agent) enrich(ctx context.Context, result *models.QueryResult, rec *models.EntityRecord) {
	if rec.Pattern == models.PatternRangeCreation {
		spread := a.spread
		if rec.Spread != nil {
			spread = *rec.Spread
		}
		result.PayRanges = analysis.PayRanges(result.Rows, spread)
	}

	if rec.Intent == models.IntentAnalyze && len(rec.Functions) == 1 {
		// Benchmarking needs the whole market, not just the queried slice.
		market, err := a.store.Execute(ctx, &store.QuerySpec{Percentile: rec.Percentile})
		if err != nil || market.Status != models.StatusSuccess {
			a.logger.Warn("market benchmark skipped", zap.Error(err))
			return
		}
		benchmark, err := analysis.BenchmarkFunction(market.Rows, rec.Functions[0])
		if err != nil {
			a.logger.Debug("benchmark not computable", zap.Error(err))
			return
		}
		result.Benchmark = benchmark
	}
}

// prose asks the LLM to narrate the result, falling back to a deterministic
// narration when no client is configured or the call fails.
func (a *Agent) prose(ctx context.Context, question string, result *models.QueryResult) string {
	if a.client == nil {
		return fallbackProse(result)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fallbackProse(result)
	}

	prompt := prompts.BuildResponsePrompt(question, string(payload))
	reply, err := a.client.GenerateResponse(ctx, prompt, prompts.AnalystSystem, 0.7)
	if err != nil || strings.TrimSpace(reply) == "" {
		a.logger.Debug("prose generation failed, using fallback", zap.Error(err))
		return fallbackProse(result)
	}
	return reply
}

// finish renders, appends the turn, and records state for export commands.
func (a *Agent) finish(question string, rec *models.EntityRecord, result *models.QueryResult, prose string, session *conversation.Session) string {
	if suggestions := a.suggester.Generate(result, rec.Intent, turnsOf(session)); len(suggestions) > 0 {
		prose += "\n\n" + a.renderer.Suggestions(suggestions)
	}

	formatted := a.renderer.Response(question, result, prose)

	if session != nil {
		a.sessions.AppendTurn(session, question, rec, result, prose)
	}

	a.lastQuestion = question
	a.lastResult = result
	a.lastResponse = prose
	return formatted
}

// ExportLast writes the most recent result in every format. Used by the
// interactive export command.
func (a *Agent) ExportLast() (map[string]string, error) {
	if a.lastResult == nil {
		return nil, fmt.Errorf("nothing to export yet")
	}
	return a.exporter.All(a.lastQuestion, a.lastResult, a.lastResponse, ""), nil
}

func turnsOf(session *conversation.Session) []models.Turn {
	if session == nil {
		return nil
	}
	ptrs := session.Turns()
	turns := make([]models.Turn, len(ptrs))
	for i, t := range ptrs {
		turns[i] = *t
	}
	return turns
}

// errorResult turns a pipeline failure into a user-facing result using the
// error taxonomy.
func errorResult(err error) *models.QueryResult {
	classified := apperrors.Classify(err)
	return &models.QueryResult{
		Status: models.StatusError,
		Error:  classified.UserMessage,
	}
}

// suggestionResult carries "did you mean" alternatives for an
// unrecognized function name.
func suggestionResult() *models.QueryResult {
	return &models.QueryResult{Status: models.StatusNoResults}
}

func clarificationProse(rec *models.EntityRecord) string {
	var b strings.Builder
	for _, s := range rec.Suggestions {
		fmt.Fprintf(&b, "I could not find %q.", s.Original)
		if len(s.Alternatives) > 0 {
			fmt.Fprintf(&b, " Did you mean %s?", strings.Join(s.Alternatives, ", "))
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

// fallbackProse narrates a result without an LLM.
func fallbackProse(result *models.QueryResult) string {
	if result == nil {
		return ""
	}
	switch result.Status {
	case models.StatusNoResults:
		msg := "No matching data was found for your question."
		if len(result.ValidFunctions) > 0 {
			msg += " Valid functions include: " + strings.Join(result.ValidFunctions, ", ") + "."
		}
		return msg
	case models.StatusError:
		return result.Error
	}

	var lines []string
	lines = append(lines, "Here are the results:")
	lines = append(lines, fmt.Sprintf("- Rows returned: %d", result.RowCount))
	if result.TotalEmployees > 0 {
		lines = append(lines, fmt.Sprintf("- Total employees: %s",
			render.FormatNumber(float64(result.TotalEmployees), render.Count)))
	}
	if result.AvgSalary > 0 {
		lines = append(lines, fmt.Sprintf("- Average salary: %s",
			render.FormatNumber(result.AvgSalary, render.Currency)))
	}
	if result.ChartPath != "" {
		lines = append(lines, "- Chart saved to "+result.ChartPath)
	}
	return strings.Join(lines, "\n")
}
