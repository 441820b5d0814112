// Package plan turns an entity record into an ordered list of pipeline
// steps, with an LLM-assisted path and a deterministic fallback.
package plan

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/watershed-hr/comp-engine/pkg/jsonutil"
	"github.com/watershed-hr/comp-engine/pkg/llm"
	"github.com/watershed-hr/comp-engine/pkg/models"
	"github.com/watershed-hr/comp-engine/pkg/prompts"
)

// Tool names form a fixed vocabulary; the executor rejects anything else.
const (
	ToolQueryDatabase    = "query_database"
	ToolCreateComparison = "create_comparison"
	ToolVisualize        = "visualize"
	ToolCalculateStats   = "calculate_stats"
)

var toolVocabulary = map[string]bool{
	ToolQueryDatabase:    true,
	ToolCreateComparison: true,
	ToolVisualize:        true,
	ToolCalculateStats:   true,
}

// Step is one abstract pipeline action.
type Step struct {
	Tool   string            `json:"tool"`
	Params map[string]string `json:"params,omitempty"`
}

// UnmarshalJSON tolerates plans where a model emits numbers or booleans
// as parameter values.
func (s *Step) UnmarshalJSON(data []byte) error {
	var raw struct {
		Tool   string          `json:"tool"`
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	params, err := jsonutil.FlexibleStringMap(raw.Params)
	if err != nil {
		return fmt.Errorf("plan step params: %w", err)
	}
	s.Tool = raw.Tool
	s.Params = params
	return nil
}

// Planner builds plans. With a nil client it is purely deterministic.
type Planner struct {
	client llm.Client
	logger *zap.Logger
}

// New creates a planner. client may be nil.
func New(client llm.Client, logger *zap.Logger) *Planner {
	return &Planner{
		client: client,
		logger: logger.Named("plan"),
	}
}

// Build produces the plan for a question. The LLM path is best effort;
// any failure falls back to the deterministic planner, so a plan is
// never absent.
func (p *Planner) Build(ctx context.Context, question string, rec *models.EntityRecord, contextSummary string) []Step {
	if p.client != nil {
		if steps, err := p.buildWithLLM(ctx, question, rec, contextSummary); err == nil {
			return steps
		} else {
			p.logger.Debug("LLM planning failed, using deterministic fallback", zap.Error(err))
		}
	}
	return Fallback(rec)
}

func (p *Planner) buildWithLLM(ctx context.Context, question string, rec *models.EntityRecord, contextSummary string) ([]Step, error) {
	prompt := prompts.BuildPlannerPrompt(question, rec, contextSummary)
	reply, err := p.client.GenerateResponse(ctx, prompt, prompts.PlannerSystem, 0.0)
	if err != nil {
		return nil, fmt.Errorf("planner llm call: %w", err)
	}

	steps, err := llm.ParseJSONResponse[[]Step](reply)
	if err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("empty plan")
	}
	for _, s := range steps {
		if !toolVocabulary[s.Tool] {
			return nil, fmt.Errorf("unknown tool %q in plan", s.Tool)
		}
	}
	return steps, nil
}

// Fallback is the deterministic planner. The query pattern picks the
// execution strategy; intent settles what pattern classification leaves open.
func Fallback(rec *models.EntityRecord) []Step {
	switch rec.Pattern {
	case models.PatternRangeCreation:
		// The executor derives the bands from the queried levels.
		return []Step{
			{Tool: ToolQueryDatabase},
			{Tool: ToolCalculateStats},
		}
	case models.PatternTitleComparison:
		if rec.JobTitles != nil {
			steps := make([]Step, 0, 4)
			for _, title := range rec.JobTitles {
				params := map[string]string{"title": title}
				if len(rec.Functions) == 1 {
					params["function"] = rec.Functions[0]
				}
				steps = append(steps, Step{Tool: ToolQueryDatabase, Params: params})
			}
			return append(steps,
				Step{Tool: ToolCreateComparison},
				Step{Tool: ToolVisualize},
			)
		}
		fallthrough
	case models.PatternComparison:
		return comparisonSteps(rec)
	}

	switch rec.Intent {
	case models.IntentCompare:
		return comparisonSteps(rec)
	case models.IntentVisualize, models.IntentAnalyze:
		return []Step{
			{Tool: ToolQueryDatabase},
			{Tool: ToolCalculateStats},
			{Tool: ToolVisualize},
		}
	default:
		return []Step{
			{Tool: ToolQueryDatabase},
			{Tool: ToolCalculateStats},
		}
	}
}

// comparisonSteps queries each side, merges, and charts the pair.
func comparisonSteps(rec *models.EntityRecord) []Step {
	steps := make([]Step, 0, 4)
	if len(rec.Functions) >= 2 {
		steps = append(steps,
			Step{Tool: ToolQueryDatabase, Params: map[string]string{"function": rec.Functions[0]}},
			Step{Tool: ToolQueryDatabase, Params: map[string]string{"function": rec.Functions[1]}},
		)
	} else {
		steps = append(steps,
			Step{Tool: ToolQueryDatabase},
			Step{Tool: ToolQueryDatabase},
		)
	}
	return append(steps,
		Step{Tool: ToolCreateComparison},
		Step{Tool: ToolVisualize},
	)
}
