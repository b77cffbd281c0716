package domain

import "slices"

// FilterSpec narrows the cleaned catalog to the records a dashboard view
// works on. A spec that admits nothing is valid and yields an empty view,
// never an error.
type FilterSpec struct {
	ContentTypes []string `json:"content_types"`
	MinYear      int      `json:"min_year"`
	MaxYear      int      `json:"max_year"`
}

// Matches reports whether the record belongs to the filtered view. The year
// bounds are inclusive on both ends.
func (s FilterSpec) Matches(r *Record) bool {
	if r.ReleaseYear < s.MinYear || r.ReleaseYear > s.MaxYear {
		return false
	}
	return slices.Contains(s.ContentTypes, r.ContentType)
}

// Degenerate reports whether the spec cannot admit any record: no content
// types selected, or an inverted year range.
func (s FilterSpec) Degenerate() bool {
	return len(s.ContentTypes) == 0 || s.MinYear > s.MaxYear
}

// CatalogMeta describes the observed domain of the filterable fields in one
// cleaned snapshot. It is what a UI needs to render filter controls.
type CatalogMeta struct {
	ContentTypes []string `json:"content_types"`
	MinYear      int      `json:"min_year"`
	MaxYear      int      `json:"max_year"`
}

// DefaultFilter returns the spec that selects the whole cleaned catalog:
// every observed content type and the full observed year span.
func (m CatalogMeta) DefaultFilter() FilterSpec {
	return FilterSpec{
		ContentTypes: slices.Clone(m.ContentTypes),
		MinYear:      m.MinYear,
		MaxYear:      m.MaxYear,
	}
}
