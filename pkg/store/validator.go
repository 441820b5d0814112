package store

import (
	"fmt"

	"github.com/watershed-hr/comp-engine/pkg/models"
)

// Validate cross-checks a result's declared metadata against its rows.
// Mismatches are returned as discrepancy strings for the response footer;
// they never fail the request.
func Validate(result *models.QueryResult) []string {
	var discrepancies []string

	if result.RowCount != len(result.Rows) {
		discrepancies = append(discrepancies,
			fmt.Sprintf("row count mismatch: declared %d, actual %d", result.RowCount, len(result.Rows)))
	}

	actualEmployees := 0
	for _, r := range result.Rows {
		actualEmployees += r.Employees
	}
	if result.TotalEmployees != actualEmployees {
		discrepancies = append(discrepancies,
			fmt.Sprintf("employee total mismatch: declared %d, rows sum to %d", result.TotalEmployees, actualEmployees))
	}

	return discrepancies
}
