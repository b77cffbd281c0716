package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/streamlens/streamlens-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search the catalog",
		Description: "Full-text search over the filtered view; matches titles, directors, genres, and countries",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// SearchInput contains the query, filter, and limit for a search.
type SearchInput struct {
	FilterParams
	Query string `query:"q" doc:"Search query"`
	Limit int    `query:"limit" default:"20" doc:"Max results (max 100)"`
}

// SearchOutput wraps search results for Huma.
type SearchOutput struct {
	Body service.SearchPage
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	info, err := s.services.Catalog.Meta(ctx)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Catalog.Search(ctx, resolveFilter(info.Meta, input.FilterParams), service.SearchParams{
		Query: input.Query,
		Limit: input.Limit,
	})
	if err != nil {
		s.logger.Error("Search failed", "error", err, "query", input.Query)
		return nil, err
	}

	s.logger.Debug("Search completed",
		"query", input.Query,
		"total", page.Total,
		"took_ms", page.TookMs,
	)

	return &SearchOutput{Body: *page}, nil
}
