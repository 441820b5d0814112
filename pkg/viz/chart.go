package viz

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"go.uber.org/zap"

	"github.com/watershed-hr/comp-engine/pkg/analysis"
	"github.com/watershed-hr/comp-engine/pkg/models"
)

// Renderer draws recommendations to PNG files under a charts directory.
type Renderer struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

func NewRenderer(dir string, logger *zap.Logger) *Renderer {
	return &Renderer{dir: dir, logger: logger.Named("viz"), now: time.Now}
}

// Render draws the chart and returns the file path. Any failure returns an
// empty path and the error; callers continue without a chart.
func (r *Renderer) Render(recommendation Recommendation, rows []models.ResultRow) (string, error) {
	if len(rows) == 0 {
		return "", fmt.Errorf("no rows to chart")
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating charts directory: %w", err)
	}

	path := filepath.Join(r.dir, r.fileName(recommendation, rows))

	var err error
	switch recommendation.ChartType {
	case ChartProgression, ChartOverview, ChartDistribution:
		err = r.renderProgression(path, recommendation, rows)
	default:
		err = r.renderBars(path, recommendation, rows)
	}
	if err != nil {
		return "", err
	}

	r.logger.Debug("chart rendered",
		zap.String("chart_type", string(recommendation.ChartType)),
		zap.String("path", path))
	return path, nil
}

// renderBars draws one bar per row. Comparison charts label bars with
// function and level so grouped data stays readable.
func (r *Renderer) renderBars(path string, recommendation Recommendation, rows []models.ResultRow) error {
	multiFunc := len(distinctFunctions(rows)) > 1

	bars := make([]chart.Value, 0, len(rows))
	for _, row := range analysis.LadderSort(rows) {
		label := row.JobLevel
		if multiFunc {
			label = row.JobFunction + " " + row.JobLevel
		}
		bars = append(bars, chart.Value{Value: row.AvgSalary, Label: label})
	}

	graph := chart.BarChart{
		Title:    recommendation.Title,
		Width:    1024,
		Height:   512,
		BarWidth: 48,
		Bars:     bars,
		YAxis: chart.YAxis{
			ValueFormatter: dollarFormatter,
		},
	}
	return r.writePNG(path, graph.Render)
}

// renderProgression draws salary along the career ladder as a line.
func (r *Renderer) renderProgression(path string, recommendation Recommendation, rows []models.ResultRow) error {
	ordered := analysis.LadderSort(rows)

	xs := make([]float64, len(ordered))
	ys := make([]float64, len(ordered))
	ticks := make([]chart.Tick, len(ordered))
	for i, row := range ordered {
		xs[i] = float64(i)
		ys[i] = row.AvgSalary
		ticks[i] = chart.Tick{Value: float64(i), Label: row.JobLevel}
	}

	graph := chart.Chart{
		Title:  recommendation.Title,
		Width:  1024,
		Height: 512,
		XAxis: chart.XAxis{
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			ValueFormatter: dollarFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Average salary",
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return r.writePNG(path, graph.Render)
}

func (r *Renderer) writePNG(path string, render func(chart.RendererProvider, io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	defer f.Close()

	if err := render(chart.PNG, f); err != nil {
		os.Remove(path)
		return fmt.Errorf("rendering chart: %w", err)
	}
	return nil
}

func (r *Renderer) fileName(recommendation Recommendation, rows []models.ResultRow) string {
	parts := []string{string(recommendation.ChartType)}
	for _, fn := range distinctFunctions(rows) {
		parts = append(parts, slug(fn))
	}
	parts = append(parts, r.now().Format("20060102_150405"))
	return strings.Join(parts, "_") + ".png"
}

func dollarFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("$%.0fK", f/1000)
	}
	return ""
}

func slug(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "&", "and")
	return strings.Join(strings.Fields(s), "_")
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
