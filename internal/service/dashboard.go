// Package service implements the application operations over the catalog:
// dashboard aggregation, the record table, search, and health.
package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/streamlens/streamlens-server/internal/analytics"
	"github.com/streamlens/streamlens-server/internal/config"
	"github.com/streamlens/streamlens-server/internal/domain"
	"github.com/streamlens/streamlens-server/internal/logger"
	"github.com/streamlens/streamlens-server/internal/metrics"
	"github.com/streamlens/streamlens-server/internal/store"
)

// DashboardService computes the full aggregate set for a filtered view.
type DashboardService struct {
	manager *store.Manager
	limits  config.LimitsConfig
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewDashboardService creates a new dashboard service. Zero limits fall back
// to the stock chart sizes.
func NewDashboardService(manager *store.Manager, limits config.LimitsConfig, m *metrics.Metrics, log *logger.Logger) *DashboardService {
	if limits.TopGenres < 1 {
		limits.TopGenres = analytics.DefaultGenreLimit
	}
	if limits.TopCountries < 1 {
		limits.TopCountries = analytics.DefaultCountryLimit
	}
	if limits.TopRatings < 1 {
		limits.TopRatings = analytics.DefaultRatingLimit
	}
	return &DashboardService{
		manager: manager,
		limits:  limits,
		metrics: m,
		logger:  log,
	}
}

// Overview builds every dashboard aggregate for the filter. The reducers are
// independent and run concurrently; each one sees the same immutable view. A
// filter that admits nothing yields zeroed series, never an error.
func (s *DashboardService) Overview(ctx context.Context, filter domain.FilterSpec) (*domain.Dashboard, error) {
	snap, err := s.manager.Current(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	view := analytics.ApplyFilter(snap.Records, filter)

	dash := &domain.Dashboard{Filter: filter}

	g, ctx := errgroup.WithContext(ctx)
	reduce := func(name string, fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			defer func(t time.Time) {
				s.metrics.ObserveReducer(name, time.Since(t))
			}(time.Now())
			fn()
			return nil
		})
	}

	reduce("metrics", func() { dash.Metrics = analytics.Metrics(view) })
	reduce("type_breakdown", func() { dash.TypeBreakdown = analytics.TypeDistribution(view) })
	reduce("added_per_year", func() { dash.AddedPerYear = analytics.AddedPerYear(view) })
	reduce("top_genres", func() { dash.TopGenres = analytics.TopGenres(view, s.limits.TopGenres) })
	reduce("ratings", func() { dash.Ratings = analytics.RatingDistribution(view, s.limits.TopRatings) })
	reduce("top_countries", func() { dash.TopCountries = analytics.TopCountries(view, s.limits.TopCountries) })
	reduce("release_years", func() { dash.ReleaseYears = analytics.ReleaseYears(view) })
	reduce("movie_runtime", func() { dash.MovieRuntime = analytics.MovieRuntime(view) })
	reduce("show_seasons", func() { dash.ShowSeasons = analytics.ShowSeasons(view) })
	reduce("insights", func() { dash.Insights = analytics.BuildInsights(view) })

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.metrics.DashboardBuildsTotal.Inc()
	s.logger.Debug("dashboard built",
		"view_records", len(view),
		"snapshot_records", snap.Len(),
		"duration", time.Since(start),
	)
	return dash, nil
}
