// Package export writes analysis results to CSV, JSON, and Markdown files
// under a per-format subdirectory of the exports directory.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/watershed-hr/comp-engine/pkg/models"
	"github.com/watershed-hr/comp-engine/pkg/render"
)

var csvHeader = []string{"job_function", "job_level", "avg_salary", "employees", "positions"}

// Manager writes exports under dir/csv, dir/json, and dir/reports.
type Manager struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

func NewManager(dir string, logger *zap.Logger) (*Manager, error) {
	for _, sub := range []string{"csv", "json", "reports"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("creating export directory: %w", err)
		}
	}
	return &Manager{dir: dir, logger: logger.Named("export"), now: time.Now}, nil
}

// CSV writes the result rows and returns the file path.
func (m *Manager) CSV(result *models.QueryResult, filename string) (string, error) {
	if result == nil || len(result.Rows) == 0 {
		return "", fmt.Errorf("no data to export")
	}

	path := filepath.Join(m.dir, "csv", m.withExt(filename, ".csv"))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating csv export: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("writing csv header: %w", err)
	}
	for _, row := range result.Rows {
		record := []string{
			row.JobFunction,
			row.JobLevel,
			strconv.FormatFloat(row.AvgSalary, 'f', -1, 64),
			strconv.Itoa(row.Employees),
			strconv.Itoa(row.Positions),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing csv export: %w", err)
	}

	m.logger.Debug("csv exported", zap.String("path", path), zap.Int("rows", len(result.Rows)))
	return path, nil
}

// jsonExport is the JSON document shape: data plus export metadata.
type jsonExport struct {
	Metadata struct {
		ExportDate string              `json:"export_date"`
		RowCount   int                 `json:"row_count"`
		Status     models.ResultStatus `json:"status"`
	} `json:"metadata"`
	Data     []models.ResultRow `json:"data"`
	Summary  string             `json:"summary,omitempty"`
	Insights []string           `json:"insights,omitempty"`
}

// JSON writes the result with metadata and returns the file path.
func (m *Manager) JSON(result *models.QueryResult, filename string) (string, error) {
	if result == nil {
		return "", fmt.Errorf("no data to export")
	}

	var doc jsonExport
	doc.Metadata.ExportDate = m.now().Format(time.RFC3339)
	doc.Metadata.RowCount = result.RowCount
	doc.Metadata.Status = result.Status
	doc.Data = result.Rows
	doc.Summary = result.Summary
	doc.Insights = result.Insights

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding json export: %w", err)
	}

	path := filepath.Join(m.dir, "json", m.withExt(filename, ".json"))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("writing json export: %w", err)
	}

	m.logger.Debug("json exported", zap.String("path", path))
	return path, nil
}

// Report writes a Markdown report and returns the file path.
func (m *Manager) Report(question string, result *models.QueryResult, response, filename string) (string, error) {
	path := filepath.Join(m.dir, "reports", m.withExt(filename, ".md"))

	var b strings.Builder
	b.WriteString("# Compensation Analysis Report\n")
	b.WriteString(fmt.Sprintf("\n**Generated:** %s\n", m.now().Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("\n**Question:** %s\n", question))
	b.WriteString("\n---\n")

	if result != nil && result.Summary != "" {
		b.WriteString("\n## Executive Summary\n\n")
		b.WriteString(result.Summary + "\n")
	}
	if result != nil && len(result.Insights) > 0 {
		b.WriteString("\n## Key Insights\n\n")
		for i, insight := range result.Insights {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, insight))
		}
	}
	if result != nil && len(result.Rows) > 0 {
		b.WriteString("\n## Detailed Data\n\n")
		b.WriteString(markdownTable(result.Rows))
	}
	if result != nil && result.ChartPath != "" {
		if _, err := os.Stat(result.ChartPath); err == nil {
			if rel, err := filepath.Rel(filepath.Join(m.dir, "reports"), result.ChartPath); err == nil {
				b.WriteString("\n## Visualization\n\n")
				b.WriteString(fmt.Sprintf("![Chart](%s)\n", rel))
			}
		}
	}

	b.WriteString("\n## Analysis Details\n\n")
	b.WriteString(response + "\n")

	b.WriteString("\n---\n\n## Metadata\n\n")
	if result != nil {
		b.WriteString(fmt.Sprintf("- **Rows:** %d\n", result.RowCount))
		b.WriteString(fmt.Sprintf("- **Total Employees:** %s\n",
			render.FormatNumber(float64(result.TotalEmployees), render.Count)))
		if result.ToolUsed != "" {
			b.WriteString(fmt.Sprintf("- **Tool Used:** %s\n", result.ToolUsed))
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	m.logger.Debug("report exported", zap.String("path", path))
	return path, nil
}

// All exports every format under one base filename. Individual failures are
// recorded per format, not propagated, so one bad writer cannot sink the rest.
func (m *Manager) All(question string, result *models.QueryResult, response, baseFilename string) map[string]string {
	if baseFilename == "" {
		baseFilename = "export_" + m.now().Format("20060102_150405")
	}

	exports := make(map[string]string, 3)

	if path, err := m.CSV(result, baseFilename); err != nil {
		exports["csv"] = "Failed: " + err.Error()
	} else {
		exports["csv"] = path
	}
	if path, err := m.JSON(result, baseFilename); err != nil {
		exports["json"] = "Failed: " + err.Error()
	} else {
		exports["json"] = path
	}
	if path, err := m.Report(question, result, response, baseFilename); err != nil {
		exports["report"] = "Failed: " + err.Error()
	} else {
		exports["report"] = path
	}

	return exports
}

// List returns exported file paths, most recent name first. An empty format
// lists everything.
func (m *Manager) List(format string) []string {
	var files []string
	globs := map[string]string{
		"csv":    filepath.Join(m.dir, "csv", "*.csv"),
		"json":   filepath.Join(m.dir, "json", "*.json"),
		"report": filepath.Join(m.dir, "reports", "*.md"),
	}
	for kind, pattern := range globs {
		if format != "" && format != kind {
			continue
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		files = append(files, matches...)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return files
}

func (m *Manager) withExt(filename, ext string) string {
	if filename == "" {
		filename = "export_" + m.now().Format("20060102_150405")
	}
	if !strings.HasSuffix(filename, ext) {
		filename += ext
	}
	return filename
}

func markdownTable(rows []models.ResultRow) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(csvHeader, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(csvHeader)) + "\n")
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %d |\n",
			row.JobFunction, row.JobLevel,
			render.FormatNumber(row.AvgSalary, render.Currency),
			row.Employees, row.Positions))
	}
	return b.String()
}
