package database

import (
	"fmt"

	"github.com/joshsymonds/lantern/internal/models"
)

// NotFoundError reports a query against a record that does not exist.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

// SearchFilter provides filtering options for searching findings. Filters
// combine with logical AND; zero values mean "no filter".
type SearchFilter struct {
	// Text matches case-insensitively against title, body, and location.
	Text     string
	Severity *models.Severity
	Asset    string
	Status   *models.Status
}

// RangeFilter restricts findings by asset and date range. Empty From/To
// bounds are unbounded; when either bound is set, undated findings are
// excluded.
type RangeFilter struct {
	Asset string
	From  string
	To    string
}

func (r RangeFilter) dated() bool {
	return r.From != "" || r.To != ""
}

// severityRankCase orders rows most severe first.
const severityRankCase = `CASE severity
		WHEN 'Critical' THEN 0
		WHEN 'High' THEN 1
		WHEN 'Medium' THEN 2
		WHEN 'Low' THEN 3
		WHEN 'Info' THEN 4
		ELSE 5
	END`
