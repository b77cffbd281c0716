package api

import "github.com/streamlens/streamlens-server/internal/service"

// Services groups the business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Dashboard *service.DashboardService
	Catalog   *service.CatalogService
}
