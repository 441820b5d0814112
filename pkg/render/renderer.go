package render

import (
	"fmt"
	"strings"

	"github.com/watershed-hr/comp-engine/pkg/models"
)

const (
	layoutWidth = 70
	textWidth   = 64
)

// Renderer assembles the fixed response layout: header, executive summary
// box, data table, proposed-ranges table and market-position box when the
// result carries them, insights box, prose box, metadata, footer.
type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

// Response renders one complete answer. Every section is optional except
// the header and footer; missing pieces simply collapse out of the layout.
func (r *Renderer) Response(question string, result *models.QueryResult, prose string) string {
	var out []string

	out = append(out, header("ANALYSIS RESULTS"), "")
	out = append(out, "❓ "+question, "")

	if result != nil && result.Summary != "" {
		out = append(out, summaryBox(result.Summary), "")
	}
	if result != nil && len(result.Rows) > 0 {
		out = append(out, r.Table(result.Rows, "Detailed Data"), "")
	}
	if result != nil && len(result.PayRanges) > 0 {
		out = append(out, r.RangesTable(result.PayRanges), "")
	}
	if result != nil && result.Benchmark != nil {
		out = append(out, benchmarkBox(result.Benchmark), "")
	}
	if result != nil && len(result.Insights) > 0 {
		out = append(out, insightsBox(result.Insights), "")
	}
	if strings.TrimSpace(prose) != "" {
		out = append(out, proseBox(prose), "")
	}
	if meta := metadata(result); len(meta) > 0 {
		out = append(out, strings.Repeat("─", layoutWidth))
		out = append(out, meta...)
		out = append(out, "")
	}

	out = append(out, strings.Repeat("─", layoutWidth))
	return strings.Join(out, "\n")
}

// Suggestions renders the follow-up prompt list appended after the prose.
func (r *Renderer) Suggestions(suggestions []string) string {
	if len(suggestions) == 0 {
		return ""
	}
	lines := []string{"💡 You might also want to:"}
	for i, s := range suggestions {
		lines = append(lines, fmt.Sprintf("   %d. %s", i+1, s))
	}
	return strings.Join(lines, "\n")
}

// Table renders result rows in a box-drawing table with unit-aware cells.
func (r *Renderer) Table(rows []models.ResultRow, title string) string {
	if len(rows) == 0 {
		return "No data to display"
	}

	columns := []string{"job_function", "job_level", "avg_salary", "employees", "positions"}
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = []string{
			row.JobFunction,
			row.JobLevel,
			formatCell("avg_salary", row.AvgSalary),
			formatCell("employees", float64(row.Employees)),
			formatCell("positions", float64(row.Positions)),
		}
	}
	return grid(title, columns, cells)
}

// grid lays out one box-drawing table with sized columns.
func grid(title string, columns []string, cells [][]string) string {
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len([]rune(col)) + 2
		for _, row := range cells {
			if w := len([]rune(row[i])) + 2; w > widths[i] {
				widths[i] = w
			}
		}
	}

	total := len(columns) + 1
	for _, w := range widths {
		total += w
	}

	var out []string
	out = append(out, "╔"+strings.Repeat("═", total-2)+"╗")
	if title != "" {
		out = append(out, "║"+pad(" "+title, total-2)+"║")
		out = append(out, "╠"+strings.Repeat("═", total-2)+"╣")
	}

	headerParts := make([]string, len(columns))
	sepParts := make([]string, len(columns))
	for i, col := range columns {
		headerParts[i] = pad(col, widths[i])
		sepParts[i] = strings.Repeat("═", widths[i])
	}
	out = append(out, "║"+strings.Join(headerParts, "║")+"║")
	out = append(out, "╠"+strings.Join(sepParts, "╬")+"╣")

	for _, row := range cells {
		parts := make([]string, len(columns))
		for i, cell := range row {
			parts[i] = pad(cell, widths[i])
		}
		out = append(out, "║"+strings.Join(parts, "║")+"║")
	}

	out = append(out, "╚"+strings.Repeat("═", total-2)+"╝")
	return strings.Join(out, "\n")
}

// RangesTable renders proposed pay bands, one row per level, using the same
// box-drawing grid as the data table.
func (r *Renderer) RangesTable(ranges []models.PayRange) string {
	if len(ranges) == 0 {
		return "No data to display"
	}

	columns := []string{"job_level", "min_pay", "midpoint_pay", "max_pay", "employees"}
	cells := make([][]string, len(ranges))
	for i, band := range ranges {
		cells[i] = []string{
			band.Level,
			formatCell("min_pay", band.Min),
			formatCell("midpoint_pay", band.Midpoint),
			formatCell("max_pay", band.Max),
			formatCell("employees", float64(band.Employees)),
		}
	}
	return grid("Proposed Pay Ranges", columns, cells)
}

func benchmarkBox(b *models.Benchmark) string {
	var lines []string
	lines = append(lines, "┌"+strings.Repeat("─", layoutWidth-2)+"┐")
	lines = append(lines, "│"+pad(" 🎯 MARKET POSITION", layoutWidth-2)+"│")
	lines = append(lines, "├"+strings.Repeat("─", layoutWidth-2)+"┤")
	body := []string{
		fmt.Sprintf("%s average: %s", b.JobFunction, FormatNumber(b.AvgSalary, Currency)),
		fmt.Sprintf("Market p25/p50/p75: %s / %s / %s",
			FormatNumber(b.MarketP25, Currency),
			FormatNumber(b.MarketP50, Currency),
			FormatNumber(b.MarketP75, Currency)),
		"Positioning: " + b.Positioning,
	}
	for _, text := range body {
		for _, line := range wrap(text, textWidth) {
			lines = append(lines, "│ "+pad(line, layoutWidth-3)+"│")
		}
	}
	lines = append(lines, "└"+strings.Repeat("─", layoutWidth-2)+"┘")
	return strings.Join(lines, "\n")
}

func header(title string) string {
	width := layoutWidth
	if len(title)+4 > width {
		width = len(title) + 4
	}
	return strings.Join([]string{
		"╔" + strings.Repeat("═", width-2) + "╗",
		"║" + pad(" "+title, width-2) + "║",
		"╚" + strings.Repeat("═", width-2) + "╝",
	}, "\n")
}

func summaryBox(summary string) string {
	var lines []string
	lines = append(lines, "┏"+strings.Repeat("━", layoutWidth-2)+"┓")
	lines = append(lines, "┃"+pad(" 📊 EXECUTIVE SUMMARY", layoutWidth-2)+"┃")
	lines = append(lines, "┣"+strings.Repeat("━", layoutWidth-2)+"┫")
	for _, line := range wrap(summary, textWidth) {
		lines = append(lines, "┃ "+pad(line, layoutWidth-3)+"┃")
	}
	lines = append(lines, "┗"+strings.Repeat("━", layoutWidth-2)+"┛")
	return strings.Join(lines, "\n")
}

func insightsBox(insights []string) string {
	var lines []string
	lines = append(lines, "┌"+strings.Repeat("─", layoutWidth-2)+"┐")
	lines = append(lines, "│"+pad(" 💡 KEY INSIGHTS", layoutWidth-2)+"│")
	lines = append(lines, "├"+strings.Repeat("─", layoutWidth-2)+"┤")
	for i, insight := range insights {
		wrapped := wrap(fmt.Sprintf("%d. %s", i+1, insight), textWidth)
		for j, line := range wrapped {
			if j > 0 {
				line = "   " + line
			}
			lines = append(lines, "│ "+pad(line, layoutWidth-3)+"│")
		}
	}
	lines = append(lines, "└"+strings.Repeat("─", layoutWidth-2)+"┘")
	return strings.Join(lines, "\n")
}

func proseBox(prose string) string {
	var lines []string
	lines = append(lines, "┌"+strings.Repeat("─", layoutWidth-2)+"┐")
	lines = append(lines, "│"+pad(" 📝 ANALYSIS DETAILS", layoutWidth-2)+"│")
	lines = append(lines, "├"+strings.Repeat("─", layoutWidth-2)+"┤")
	for _, line := range wrap(prose, textWidth) {
		lines = append(lines, "│ "+pad(line, layoutWidth-3)+"│")
	}
	lines = append(lines, "└"+strings.Repeat("─", layoutWidth-2)+"┘")
	return strings.Join(lines, "\n")
}

func metadata(result *models.QueryResult) []string {
	if result == nil {
		return nil
	}
	var meta []string
	if result.ChartPath != "" {
		meta = append(meta, "📊 Chart: "+result.ChartPath)
	}
	if result.ToolUsed != "" {
		meta = append(meta, "🔧 Tool: "+result.ToolUsed)
	}
	if result.RowCount > 0 {
		line := fmt.Sprintf("📈 Rows: %d", result.RowCount)
		if result.IsLimited && result.TotalAvailable > result.RowCount {
			line += fmt.Sprintf(" (showing %d of %d available)", result.RowCount, result.TotalAvailable)
		}
		meta = append(meta, line)
	}
	for _, d := range result.Discrepancies {
		meta = append(meta, "⚠️  "+d)
	}
	if result.Status == models.StatusNoResults && len(result.ValidFunctions) > 0 {
		meta = append(meta, "Valid functions: "+strings.Join(result.ValidFunctions, ", "))
	}
	return meta
}
