package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerMetaRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCatalogMeta",
		Method:      http.MethodGet,
		Path:        "/api/v1/meta",
		Summary:     "Get catalog metadata",
		Description: "Returns the observed filter domain and the cleaning summary for the loaded dataset",
		Tags:        []string{"Catalog"},
	}, s.handleGetMeta)
}

// CleaningSummary reports what cleaning removed from the source dataset.
type CleaningSummary struct {
	OriginalRows int     `json:"original_rows" doc:"Rows in the source file"`
	CleanedRows  int     `json:"cleaned_rows" doc:"Rows kept after cleaning"`
	RemovedRows  int     `json:"removed_rows" doc:"Rows dropped by cleaning"`
	RemovedPct   float64 `json:"removed_pct" doc:"Percentage of rows dropped"`
}

// MetaResponse contains catalog metadata in API responses.
type MetaResponse struct {
	ContentTypes []string        `json:"content_types" doc:"Observed content types, sorted"`
	MinYear      int             `json:"min_year" doc:"Earliest observed release year"`
	MaxYear      int             `json:"max_year" doc:"Latest observed release year"`
	Cleaning     CleaningSummary `json:"cleaning" doc:"Cleaning summary for the loaded dataset"`
	LoadID       string          `json:"load_id" doc:"Identifier of the active snapshot"`
	LoadedAt     time.Time       `json:"loaded_at" doc:"When the active snapshot was loaded"`
	FromCache    bool            `json:"from_cache" doc:"Whether the snapshot came from the warm-start cache"`
}

// MetaOutput wraps the meta response for Huma.
type MetaOutput struct {
	Body MetaResponse
}

func (s *Server) handleGetMeta(ctx context.Context, _ *struct{}) (*MetaOutput, error) {
	info, err := s.services.Catalog.Meta(ctx)
	if err != nil {
		s.logger.Error("Failed to get catalog meta", "error", err)
		return nil, err
	}

	return &MetaOutput{
		Body: MetaResponse{
			ContentTypes: info.Meta.ContentTypes,
			MinYear:      info.Meta.MinYear,
			MaxYear:      info.Meta.MaxYear,
			Cleaning: CleaningSummary{
				OriginalRows: info.Stats.OriginalRows,
				CleanedRows:  info.Stats.CleanedRows,
				RemovedRows:  info.Stats.RemovedRows,
				RemovedPct:   info.Stats.RemovedPct,
			},
			LoadID:    info.LoadID,
			LoadedAt:  info.LoadedAt,
			FromCache: info.FromCache,
		},
	}, nil
}
