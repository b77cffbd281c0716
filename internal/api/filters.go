package api

import (
	"slices"

	"github.com/streamlens/streamlens-server/internal/domain"
)

// FilterParams are the shared catalog filter query parameters. Absent
// parameters widen to the observed domain, so an unfiltered request selects
// the whole catalog.
type FilterParams struct {
	Types   []string `query:"types" doc:"Content types to include, repeatable. Omit for every observed type."`
	MinYear *int     `query:"min_year" doc:"Inclusive release-year floor. Omit for the observed minimum."`
	MaxYear *int     `query:"max_year" doc:"Inclusive release-year ceiling. Omit for the observed maximum."`
}

// resolveFilter turns request parameters into a concrete filter over the
// observed catalog domain.
func resolveFilter(meta domain.CatalogMeta, p FilterParams) domain.FilterSpec {
	spec := meta.DefaultFilter()
	if p.Types != nil {
		spec.ContentTypes = slices.Clone(p.Types)
	}
	if p.MinYear != nil {
		spec.MinYear = *p.MinYear
	}
	if p.MaxYear != nil {
		spec.MaxYear = *p.MaxYear
	}
	return spec
}
