package service

import (
	"context"
	"time"

	"github.com/streamlens/streamlens-server/internal/analytics"
	"github.com/streamlens/streamlens-server/internal/domain"
	apperrors "github.com/streamlens/streamlens-server/internal/errors"
	"github.com/streamlens/streamlens-server/internal/logger"
	"github.com/streamlens/streamlens-server/internal/metrics"
	"github.com/streamlens/streamlens-server/internal/search"
	"github.com/streamlens/streamlens-server/internal/store"
	"github.com/streamlens/streamlens-server/internal/validation"
)

// TableParams controls record table pagination.
type TableParams struct {
	Limit  int `json:"limit" validate:"gte=1,lte=500"`
	Offset int `json:"offset" validate:"gte=0"`
}

// RecordPage is one page of the filtered record table.
type RecordPage struct {
	Records []domain.Record `json:"records"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

// SearchParams controls a full-text search over the filtered view.
type SearchParams struct {
	Query string `json:"q" validate:"required,max=200"`
	Limit int    `json:"limit" validate:"gte=1,lte=100"`
}

// SearchHit is one search result resolved back to its record.
type SearchHit struct {
	Record domain.Record `json:"record"`
	Score  float64       `json:"score"`
}

// SearchPage holds the outcome of one search.
type SearchPage struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// CatalogInfo describes the loaded snapshot: the observed filter domain and
// the cleaning summary.
type CatalogInfo struct {
	Meta      domain.CatalogMeta   `json:"meta"`
	Stats     domain.CleaningStats `json:"cleaning"`
	LoadID    string               `json:"load_id"`
	LoadedAt  time.Time            `json:"loaded_at"`
	FromCache bool                 `json:"from_cache"`
}

// Health is the component status report.
type Health struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// CatalogService serves the record table, search, and snapshot metadata.
type CatalogService struct {
	manager  *store.Manager
	index    *search.Index
	validate *validation.Validator
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(manager *store.Manager, index *search.Index, validate *validation.Validator, m *metrics.Metrics, log *logger.Logger) *CatalogService {
	return &CatalogService{
		manager:  manager,
		index:    index,
		validate: validate,
		metrics:  m,
		logger:   log,
	}
}

// Meta returns the observed catalog domain and cleaning summary, loading the
// dataset if needed.
func (s *CatalogService) Meta(ctx context.Context) (*CatalogInfo, error) {
	snap, err := s.manager.Current(ctx)
	if err != nil {
		return nil, err
	}
	return &CatalogInfo{
		Meta:      snap.Meta,
		Stats:     snap.Stats,
		LoadID:    snap.LoadID,
		LoadedAt:  snap.LoadedAt,
		FromCache: snap.FromCache,
	}, nil
}

// Records returns one page of the filtered record table. An offset past the
// end yields an empty page, not an error.
func (s *CatalogService) Records(ctx context.Context, filter domain.FilterSpec, params TableParams) (*RecordPage, error) {
	if err := s.validate.Validate(params); err != nil {
		return nil, err
	}

	snap, err := s.manager.Current(ctx)
	if err != nil {
		return nil, err
	}

	view := analytics.ApplyFilter(snap.Records, filter)
	total := len(view)

	start := min(params.Offset, total)
	end := min(start+params.Limit, total)

	return &RecordPage{
		Records: view[start:end],
		Total:   total,
		Limit:   params.Limit,
		Offset:  params.Offset,
	}, nil
}

// Search runs a full-text query over the filtered view. The index is
// rebuilt lazily when the snapshot it describes is no longer the active one.
func (s *CatalogService) Search(ctx context.Context, filter domain.FilterSpec, params SearchParams) (*SearchPage, error) {
	if err := s.validate.Validate(params); err != nil {
		return nil, err
	}

	snap, err := s.manager.Current(ctx)
	if err != nil {
		return nil, err
	}

	page := &SearchPage{Query: params.Query, Hits: []SearchHit{}}

	// A filter that admits nothing cannot have matches; skip the index.
	if filter.Degenerate() {
		return page, nil
	}

	if err := s.index.Ensure(snap.LoadID, snap.Records); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "build search index")
	}

	result, err := s.index.Search(ctx, search.Params{
		Query:  params.Query,
		Filter: filter,
		Limit:  params.Limit,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "search")
	}
	s.metrics.SearchQueriesTotal.Inc()

	page.Total = result.Total
	page.TookMs = result.TookMs
	for _, hit := range result.Hits {
		record, ok := snap.Record(hit.ID)
		if !ok {
			s.logger.Warn("search hit not in snapshot", "id", hit.ID)
			continue
		}
		page.Hits = append(page.Hits, SearchHit{Record: *record, Score: hit.Score})
	}

	s.logger.Debug("search served",
		"query", params.Query,
		"total", result.Total,
		"took_ms", result.TookMs,
	)
	return page, nil
}

// Health reports component status without forcing a dataset load. The
// overall status degrades when the source file has changed since the active
// snapshot was loaded.
func (s *CatalogService) Health(_ context.Context) *Health {
	h := &Health{
		Status:     "ok",
		Components: make(map[string]string),
	}

	snap := s.manager.Active()
	if snap == nil {
		h.Components["snapshot"] = "not_loaded"
	} else {
		h.Components["snapshot"] = "ok"
	}

	if snap != nil && s.index.LoadID() == snap.LoadID {
		h.Components["search_index"] = "ok"
	} else {
		h.Components["search_index"] = "cold"
	}

	if s.manager.Stale() {
		h.Components["dataset"] = "stale"
		h.Status = "degraded"
	} else {
		h.Components["dataset"] = "fresh"
	}

	return h
}
