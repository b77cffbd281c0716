package service

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamlens/streamlens-server/internal/config"
	"github.com/streamlens/streamlens-server/internal/domain"
	"github.com/streamlens/streamlens-server/internal/ingest"
	"github.com/streamlens/streamlens-server/internal/logger"
	"github.com/streamlens/streamlens-server/internal/metrics"
	"github.com/streamlens/streamlens-server/internal/search"
	"github.com/streamlens/streamlens-server/internal/store"
	"github.com/streamlens/streamlens-server/internal/validation"
)

var catalogHeader = []string{
	"show_id", "type", "title", "director", "cast", "country",
	"date_added", "release_year", "rating", "duration", "listed_in", "description",
}

// sampleRows is five complete catalog rows plus one missing its title, which
// cleaning drops. Three movies, two shows, release years 1995 through 2017.
func sampleRows() [][]string {
	return [][]string{
		{"s1", "Movie", "Inception", "Christopher Nolan", "Leonardo DiCaprio", "United States", "2021-01-15", "2010", "PG-13", "148 min", "Action, Sci-Fi", "a thief"},
		{"s2", "Movie", "The Prestige", "Christopher Nolan", "Hugh Jackman", "United Kingdom, United States", "2021-02-10", "2006", "PG-13", "130 min", "Dramas", "rival magicians"},
		{"s3", "TV Show", "Dark", "Baran bo Odar", "Louis Hofmann", "Germany", "2020-06-27", "2017", "TV-MA", "3 Seasons", "Sci-Fi, Thrillers", "a missing child"},
		{"s4", "Movie", "Seven", "David Fincher", "Brad Pitt", "United States", "2019-11-20", "1995", "R", "127 min", "Thrillers", "two detectives"},
		{"s5", "TV Show", "Stranger Things", "The Duffer Brothers", "Millie Bobby Brown", "United States", "2016-07-15", "2016", "TV-MA", "4 Seasons", "Sci-Fi", "a small town"},
		{"s6", "Movie", "", "Nobody", "Nobody", "Nowhere", "2020-01-01", "2020", "G", "90 min", "Dramas", "dropped"},
	}
}

func allOfSample() domain.FilterSpec {
	return domain.FilterSpec{
		ContentTypes: []string{domain.TypeMovie, domain.TypeShow},
		MinYear:      1995,
		MaxYear:      2017,
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Writer: io.Discard, Format: logger.FormatJSON})
}

func writeCatalog(t *testing.T, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	rewriteCatalog(t, path, rows)
	return path
}

func rewriteCatalog(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	w := csv.NewWriter(f)
	require.NoError(t, w.Write(catalogHeader))
	require.NoError(t, w.WriteAll(rows))
	require.NoError(t, f.Close())
}

func newTestManager(t *testing.T, rows [][]string) *store.Manager {
	t.Helper()
	log := testLogger()
	return store.NewManager(writeCatalog(t, rows), ingest.NewLoader(log), store.NewNoopCache(), metrics.New(), log)
}

func newDashboardService(t *testing.T, rows [][]string) *DashboardService {
	t.Helper()
	return NewDashboardService(newTestManager(t, rows), config.LimitsConfig{}, metrics.New(), testLogger())
}

func newCatalogService(t *testing.T, rows [][]string) (*CatalogService, *store.Manager) {
	t.Helper()
	log := testLogger()
	manager := newTestManager(t, rows)
	idx := search.New(log)
	t.Cleanup(func() { _ = idx.Close() })
	return NewCatalogService(manager, idx, validation.New(), metrics.New(), log), manager
}

func countsByLabel(points []domain.CountPoint) map[string]int {
	m := make(map[string]int, len(points))
	for _, p := range points {
		m[p.Label] = p.Count
	}
	return m
}

func TestDashboardService_Overview(t *testing.T) {
	svc := newDashboardService(t, sampleRows())

	dash, err := svc.Overview(context.Background(), allOfSample())
	require.NoError(t, err)

	assert.Equal(t, allOfSample(), dash.Filter)
	assert.Equal(t, domain.KeyMetrics{
		TotalTitles:       5,
		Movies:            3,
		Shows:             2,
		DistinctCountries: 3,
		DistinctGenres:    4,
	}, dash.Metrics)

	assert.Equal(t, map[string]int{"Movie": 3, "TV Show": 2}, countsByLabel(dash.TypeBreakdown))
	assert.Equal(t, map[string]int{"Sci-Fi": 3, "Thrillers": 2, "Action": 1, "Dramas": 1}, countsByLabel(dash.TopGenres))
	assert.Equal(t, map[string]int{"PG-13": 2, "TV-MA": 2, "R": 1}, countsByLabel(dash.Ratings))
	assert.Equal(t, map[string]int{"United States": 4, "United Kingdom": 1, "Germany": 1}, countsByLabel(dash.TopCountries))

	assert.Equal(t, []domain.YearCount{
		{Year: 2016, Count: 1},
		{Year: 2019, Count: 1},
		{Year: 2020, Count: 1},
		{Year: 2021, Count: 2},
	}, dash.AddedPerYear)
	assert.Equal(t, []domain.YearCount{
		{Year: 1995, Count: 1},
		{Year: 2006, Count: 1},
		{Year: 2010, Count: 1},
		{Year: 2016, Count: 1},
		{Year: 2017, Count: 1},
	}, dash.ReleaseYears)

	assert.Equal(t, domain.UnitMinutes, dash.MovieRuntime.Unit)
	assert.Equal(t, 3, dash.MovieRuntime.Samples)
	assert.InDelta(t, 135.0, dash.MovieRuntime.Mean, 0.001)
	assert.Equal(t, domain.UnitSeasons, dash.ShowSeasons.Unit)
	assert.Equal(t, 2, dash.ShowSeasons.Samples)
	assert.InDelta(t, 3.5, dash.ShowSeasons.Mean, 0.001)

	assert.True(t, dash.Insights.HasData)
	assert.Equal(t, "Sci-Fi", dash.Insights.TopGenre)
	assert.Equal(t, 3, dash.Insights.TopGenreCount)
	assert.Equal(t, 2008, dash.Insights.MeanReleaseYear)
	assert.True(t, dash.Insights.ContentMix.Defined)
	assert.InDelta(t, 1.5, dash.Insights.ContentMix.Ratio, 0.001)
}

func TestDashboardService_Overview_OrdersSeriesByCount(t *testing.T) {
	svc := newDashboardService(t, sampleRows())

	dash, err := svc.Overview(context.Background(), allOfSample())
	require.NoError(t, err)

	require.NotEmpty(t, dash.TopGenres)
	assert.Equal(t, "Sci-Fi", dash.TopGenres[0].Label)
	for i := 1; i < len(dash.TopGenres); i++ {
		assert.LessOrEqual(t, dash.TopGenres[i].Count, dash.TopGenres[i-1].Count)
	}

	require.NotEmpty(t, dash.TopCountries)
	assert.Equal(t, "United States", dash.TopCountries[0].Label)
}

func TestDashboardService_Overview_ConfiguredSeriesLimits(t *testing.T) {
	limits := config.LimitsConfig{TopGenres: 2, TopCountries: 1, TopRatings: 1}
	svc := NewDashboardService(newTestManager(t, sampleRows()), limits, metrics.New(), testLogger())

	dash, err := svc.Overview(context.Background(), allOfSample())
	require.NoError(t, err)

	assert.Len(t, dash.TopGenres, 2)
	assert.Len(t, dash.TopCountries, 1)
	assert.Len(t, dash.Ratings, 1)
	assert.Equal(t, "Sci-Fi", dash.TopGenres[0].Label)
	assert.Equal(t, "United States", dash.TopCountries[0].Label)
}

func TestDashboardService_Overview_AppliesFilter(t *testing.T) {
	svc := newDashboardService(t, sampleRows())

	filter := domain.FilterSpec{
		ContentTypes: []string{domain.TypeMovie},
		MinYear:      2000,
		MaxYear:      2017,
	}
	dash, err := svc.Overview(context.Background(), filter)
	require.NoError(t, err)

	// Seven (1995) falls below the year floor; the shows fall to the type
	// filter. Inception and The Prestige remain.
	assert.Equal(t, 2, dash.Metrics.TotalTitles)
	assert.Equal(t, 2, dash.Metrics.Movies)
	assert.Equal(t, 0, dash.Metrics.Shows)
	assert.Equal(t, map[string]int{"Movie": 2}, countsByLabel(dash.TypeBreakdown))

	assert.Equal(t, 0, dash.ShowSeasons.Samples)
	assert.Equal(t, 2, dash.MovieRuntime.Samples)
	assert.InDelta(t, 139.0, dash.MovieRuntime.Mean, 0.001)

	assert.True(t, dash.Insights.ContentMix.OnlyMovies)
	assert.False(t, dash.Insights.ContentMix.Defined)
}

func TestDashboardService_Overview_DegenerateFilter(t *testing.T) {
	svc := newDashboardService(t, sampleRows())

	dash, err := svc.Overview(context.Background(), domain.FilterSpec{})
	require.NoError(t, err)

	assert.Equal(t, domain.KeyMetrics{}, dash.Metrics)
	assert.Empty(t, dash.TypeBreakdown)
	assert.Empty(t, dash.AddedPerYear)
	assert.Empty(t, dash.TopGenres)
	assert.Empty(t, dash.Ratings)
	assert.Empty(t, dash.TopCountries)
	assert.Empty(t, dash.ReleaseYears)
	assert.Equal(t, 0, dash.MovieRuntime.Samples)
	assert.Empty(t, dash.MovieRuntime.Buckets)
	assert.Equal(t, 0, dash.ShowSeasons.Samples)
	assert.True(t, dash.Insights.ContentMix.NoData)
	assert.False(t, dash.Insights.HasData)
}

func TestDashboardService_Overview_CancelledContext(t *testing.T) {
	svc := newDashboardService(t, sampleRows())

	// Warm the snapshot so cancellation hits the reducers, not the load.
	_, err := svc.Overview(context.Background(), allOfSample())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = svc.Overview(ctx, allOfSample())
	assert.ErrorIs(t, err, context.Canceled)
}
