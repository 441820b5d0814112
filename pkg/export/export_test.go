package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/watershed-hr/comp-engine/pkg/models"
)

func testResult() *models.QueryResult {
	return &models.QueryResult{
		Status: models.StatusSuccess,
		Rows: []models.ResultRow{
			{JobFunction: "Finance", JobLevel: "Entry", AvgSalary: 105000, Employees: 3368, Positions: 18},
			{JobFunction: "Finance", JobLevel: "Manager (M3)", AvgSalary: 219000, Employees: 8133, Positions: 26},
		},
		RowCount:       2,
		TotalEmployees: 11501,
		Summary:        "Function: Finance",
		Insights:       []string{"Largest concentration at Manager (M3)"},
	}
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	m.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }
	return m
}

func TestCSVRoundTrip(t *testing.T) {
	m := newTestManager(t)

	path, err := m.CSV(testResult(), "finance")
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"Finance", "Entry", "105000", "3368", "18"}, records[1])
}

func TestCSVNoData(t *testing.T) {
	m := newTestManager(t)
	_, err := m.CSV(&models.QueryResult{}, "empty")
	assert.Error(t, err)
}

func TestJSONCarriesMetadataAndInsights(t *testing.T) {
	m := newTestManager(t)

	path, err := m.JSON(testResult(), "finance")
	require.NoError(t, err)

	payload, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc jsonExport
	require.NoError(t, json.Unmarshal(payload, &doc))

	assert.Equal(t, 2, doc.Metadata.RowCount)
	assert.Equal(t, models.StatusSuccess, doc.Metadata.Status)
	assert.Len(t, doc.Data, 2)
	assert.Equal(t, "Function: Finance", doc.Summary)
	assert.Equal(t, []string{"Largest concentration at Manager (M3)"}, doc.Insights)
}

func TestReportSections(t *testing.T) {
	m := newTestManager(t)

	path, err := m.Report("What do Finance managers make?", testResult(), "Managers average $219,000.", "finance")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	report := string(content)

	assert.Contains(t, report, "# Compensation Analysis Report")
	assert.Contains(t, report, "**Question:** What do Finance managers make?")
	assert.Contains(t, report, "## Executive Summary")
	assert.Contains(t, report, "## Key Insights")
	assert.Contains(t, report, "| Finance | Manager (M3) | $219,000 | 8133 | 26 |")
	assert.Contains(t, report, "- **Total Employees:** 11,501")
}

func TestAllWritesEveryFormat(t *testing.T) {
	m := newTestManager(t)

	exports := m.All("question", testResult(), "response", "bundle")
	require.Len(t, exports, 3)

	for kind, path := range exports {
		info, err := os.Stat(path)
		require.NoError(t, err, kind)
		assert.False(t, info.IsDir())
	}

	assert.Len(t, m.List(""), 3)
	assert.Len(t, m.List("csv"), 1)
	assert.Empty(t, m.List("pdf"))
}

func TestAllRecordsCSVFailureWithoutSinkingOthers(t *testing.T) {
	m := newTestManager(t)

	exports := m.All("question", &models.QueryResult{Status: models.StatusNoResults}, "response", "empty")
	assert.Contains(t, exports["csv"], "Failed:")
	assert.NotContains(t, exports["json"], "Failed:")
	assert.NotContains(t, exports["report"], "Failed:")
}
