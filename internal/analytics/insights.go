package analytics

import (
	"github.com/streamlens/streamlens-server/internal/domain"
)

// BuildInsights derives the headline findings for a view. An empty view
// produces the no-data sentinel rather than zeroed findings, so callers can
// distinguish "nothing selected" from "selected records average to zero".
func BuildInsights(view []domain.Record) domain.Insights {
	if len(view) == 0 {
		return domain.Insights{ContentMix: domain.ContentMix{NoData: true}}
	}

	movies, shows, yearSum := 0, 0, 0
	for i := range view {
		switch {
		case view[i].IsMovie():
			movies++
		case view[i].IsShow():
			shows++
		}
		yearSum += view[i].ReleaseYear
	}

	mix := domain.ContentMix{Movies: movies, Shows: shows}
	switch {
	case shows > 0:
		mix.Ratio = float64(movies) / float64(shows)
		mix.Defined = true
	case movies > 0:
		mix.OnlyMovies = true
	}

	insights := domain.Insights{HasData: true, ContentMix: mix}

	if top := TopGenres(view, 1); len(top) > 0 {
		insights.TopGenre = top[0].Label
		insights.TopGenreCount = top[0].Count
	}

	// Truncated, not rounded: 2010.9 reports as 2010.
	insights.MeanReleaseYear = int(float64(yearSum) / float64(len(view)))

	return insights
}
