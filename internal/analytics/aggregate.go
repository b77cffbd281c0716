package analytics

import (
	"maps"
	"slices"

	"github.com/streamlens/streamlens-server/internal/domain"
	"github.com/streamlens/streamlens-server/internal/labels"
)

// Series limits matching what the dashboard renders.
const (
	DefaultGenreLimit   = 15
	DefaultCountryLimit = 15
	DefaultRatingLimit  = 10
)

// tally counts label occurrences while remembering first-encounter order,
// which breaks count ties deterministically.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(label string) {
	if _, seen := t.counts[label]; !seen {
		t.order = append(t.order, label)
	}
	t.counts[label]++
}

// points returns the tallied labels as chart points, sorted by count
// descending with ties in first-encounter order, truncated to limit when
// limit > 0. Keys are assigned after truncation so the emitted series always
// carries collision-free keys.
func (t *tally) points(limit int) []domain.CountPoint {
	points := make([]domain.CountPoint, 0, len(t.order))
	for _, label := range t.order {
		points = append(points, domain.CountPoint{Label: label, Count: t.counts[label]})
	}
	slices.SortStableFunc(points, func(a, b domain.CountPoint) int {
		return b.Count - a.Count
	})
	if limit > 0 && len(points) > limit {
		points = points[:limit]
	}

	uniquer := labels.NewUniquer()
	for i := range points {
		points[i].Key = uniquer.Key(points[i].Label)
	}
	return points
}

// TypeDistribution counts records per content type. Every type observed in
// the view appears.
func TypeDistribution(view []domain.Record) []domain.CountPoint {
	t := newTally()
	for i := range view {
		t.add(view[i].ContentType)
	}
	return t.points(0)
}

// TopGenres counts records per exploded genre and keeps the top limit.
func TopGenres(view []domain.Record, limit int) []domain.CountPoint {
	t := newTally()
	for i := range view {
		for _, genre := range view[i].Genres {
			t.add(genre)
		}
	}
	return t.points(limit)
}

// TopCountries counts records per exploded country and keeps the top limit.
func TopCountries(view []domain.Record, limit int) []domain.CountPoint {
	t := newTally()
	for i := range view {
		for _, country := range view[i].Countries {
			t.add(country)
		}
	}
	return t.points(limit)
}

// RatingDistribution counts records per rating and keeps the top limit.
func RatingDistribution(view []domain.Record, limit int) []domain.CountPoint {
	t := newTally()
	for i := range view {
		t.add(view[i].Rating)
	}
	return t.points(limit)
}

// AddedPerYear counts records per catalog-addition year, ascending. Only
// observed years appear; gaps are not zero-filled.
func AddedPerYear(view []domain.Record) []domain.YearCount {
	counts := make(map[int]int)
	for i := range view {
		counts[view[i].DateAdded.Year()]++
	}
	return yearSeries(counts)
}

// ReleaseYears counts records per release year, ascending. Only observed
// years appear.
func ReleaseYears(view []domain.Record) []domain.YearCount {
	counts := make(map[int]int)
	for i := range view {
		counts[view[i].ReleaseYear]++
	}
	return yearSeries(counts)
}

func yearSeries(counts map[int]int) []domain.YearCount {
	years := slices.Sorted(maps.Keys(counts))
	series := make([]domain.YearCount, 0, len(years))
	for _, year := range years {
		series = append(series, domain.YearCount{Year: year, Count: counts[year]})
	}
	return series
}

// Metrics computes the headline numbers for a view.
func Metrics(view []domain.Record) domain.KeyMetrics {
	m := domain.KeyMetrics{TotalTitles: len(view)}
	countries := make(map[string]struct{})
	genres := make(map[string]struct{})
	for i := range view {
		switch {
		case view[i].IsMovie():
			m.Movies++
		case view[i].IsShow():
			m.Shows++
		}
		for _, country := range view[i].Countries {
			countries[country] = struct{}{}
		}
		for _, genre := range view[i].Genres {
			genres[genre] = struct{}{}
		}
	}
	m.DistinctCountries = len(countries)
	m.DistinctGenres = len(genres)
	return m
}
