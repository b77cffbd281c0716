package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/streamlens/streamlens-server/internal/domain"
)

func (s *Server) registerDashboardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getDashboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/dashboard",
		Summary:     "Get dashboard aggregates",
		Description: "Returns every dashboard aggregate for the filtered view: key metrics, distributions, yearly trends, duration histograms, and derived insights",
		Tags:        []string{"Dashboard"},
	}, s.handleGetDashboard)
}

// DashboardInput contains the filter parameters for the dashboard.
type DashboardInput struct {
	FilterParams
}

// DashboardOutput wraps the dashboard aggregates for Huma.
type DashboardOutput struct {
	Body domain.Dashboard
}

func (s *Server) handleGetDashboard(ctx context.Context, input *DashboardInput) (*DashboardOutput, error) {
	info, err := s.services.Catalog.Meta(ctx)
	if err != nil {
		s.logger.Error("Failed to resolve catalog meta", "error", err)
		return nil, err
	}

	dash, err := s.services.Dashboard.Overview(ctx, resolveFilter(info.Meta, input.FilterParams))
	if err != nil {
		s.logger.Error("Failed to build dashboard", "error", err)
		return nil, err
	}

	return &DashboardOutput{Body: *dash}, nil
}
