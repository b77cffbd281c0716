package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/streamlens/streamlens-server/internal/service"
)

func (s *Server) registerRecordsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRecords",
		Method:      http.MethodGet,
		Path:        "/api/v1/records",
		Summary:     "List catalog records",
		Description: "Returns one page of the filtered record table with the total match count",
		Tags:        []string{"Catalog"},
	}, s.handleListRecords)
}

// RecordsInput contains filter and pagination parameters for the record table.
type RecordsInput struct {
	FilterParams
	Limit  int `query:"limit" doc:"Page size, max 500. Omit for the configured table page size."`
	Offset int `query:"offset" doc:"Rows to skip"`
}

// RecordsOutput wraps one record page for Huma.
type RecordsOutput struct {
	Body service.RecordPage
}

func (s *Server) handleListRecords(ctx context.Context, input *RecordsInput) (*RecordsOutput, error) {
	info, err := s.services.Catalog.Meta(ctx)
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = s.limits.TableLimit
	}

	page, err := s.services.Catalog.Records(ctx, resolveFilter(info.Meta, input.FilterParams), service.TableParams{
		Limit:  limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, err
	}

	return &RecordsOutput{Body: *page}, nil
}
