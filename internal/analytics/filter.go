// Package analytics derives dashboard aggregates from cleaned catalog
// records. Every function here is pure: reducers take a filtered view and
// return chart-ready series without touching shared state, so they can run
// concurrently over the same view.
package analytics

import (
	"github.com/streamlens/streamlens-server/internal/domain"
)

// ApplyFilter returns the records admitted by spec, preserving input order.
// The result is a fresh slice; the input is never mutated. A degenerate spec
// yields an empty view.
func ApplyFilter(records []domain.Record, spec domain.FilterSpec) []domain.Record {
	view := make([]domain.Record, 0, len(records))
	for i := range records {
		if spec.Matches(&records[i]) {
			view = append(view, records[i])
		}
	}
	return view
}
