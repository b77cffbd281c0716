// Package search provides full-text search over the cleaned catalog using
// Bleve. The index lives in memory and is rebuilt whenever a new snapshot is
// loaded, so results always describe exactly one snapshot.
package search

import (
	"github.com/streamlens/streamlens-server/internal/domain"
)

// recordToDoc converts a record to the map form Bleve indexes. Keys are
// lowercase to match the index mapping; Bleve would otherwise derive
// capitalized field names from the struct.
func recordToDoc(r *domain.Record) map[string]any {
	return map[string]any{
		"type":         r.ContentType,
		"title":        r.Title,
		"director":     r.Director,
		"countries":    r.Countries,
		"genres":       r.Genres,
		"rating":       r.Rating,
		"release_year": r.ReleaseYear,
	}
}
