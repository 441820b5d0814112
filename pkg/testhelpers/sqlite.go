// Package testhelpers provides shared fixtures for tests that need a
// seeded compensation database.
package testhelpers

import (
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// Schema mirrors the production compensation dataset: positions joined to
// per-position percentile metrics.
const Schema = `
CREATE TABLE job_positions (
	id INTEGER PRIMARY KEY,
	job_function TEXT,
	job_level TEXT,
	job_focus TEXT,
	job_module TEXT
);
CREATE TABLE compensation_metrics (
	job_position_id INTEGER NOT NULL REFERENCES job_positions(id),
	base_salary_lfy_p10 REAL,
	base_salary_lfy_p25 REAL,
	base_salary_lfy_p50 REAL,
	base_salary_lfy_p75 REAL,
	base_salary_lfy_p90 REAL,
	total_comp_lfy_p10 REAL,
	total_comp_lfy_p25 REAL,
	total_comp_lfy_p50 REAL,
	total_comp_lfy_p75 REAL,
	total_comp_lfy_p90 REAL,
	base_salary_lfy_emp_count INTEGER
);
`

// Position seeds one job position with its metric row. Percentiles below
// and above the median are derived from P50; P75 may be set explicitly.
type Position struct {
	Function  string
	Level     string
	Module    string
	P50       float64
	P75       float64
	Employees int
}

// NewSQLiteDB opens an in-memory database with the compensation schema
// applied. The connection is closed when the test finishes.
func NewSQLiteDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(Schema)
	require.NoError(t, err)
	return db
}

// Seed inserts positions with derived percentile spreads.
func Seed(t *testing.T, db *sqlx.DB, positions []Position) {
	t.Helper()

	for i, p := range positions {
		id := i + 1
		module := p.Module
		if module == "" {
			module = "Corporate"
		}
		p75 := p.P75
		if p75 == 0 {
			p75 = p.P50 * 1.1
		}

		_, err := db.Exec(
			"INSERT INTO job_positions (id, job_function, job_level, job_focus, job_module) VALUES (?, ?, ?, 'General', ?)",
			id, p.Function, p.Level, module)
		require.NoError(t, err)

		_, err = db.Exec(
			`INSERT INTO compensation_metrics
				(job_position_id, base_salary_lfy_p10, base_salary_lfy_p25, base_salary_lfy_p50,
				 base_salary_lfy_p75, base_salary_lfy_p90, total_comp_lfy_p50, base_salary_lfy_emp_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, p.P50*0.8, p.P50*0.9, p.P50, p75, p.P50*1.3, p.P50*1.15, p.Employees)
		require.NoError(t, err)
	}
}
