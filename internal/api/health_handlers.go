package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy or degraded"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy or degraded"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

// componentMessages translates internal component states for operators.
// States missing from the map are healthy.
var componentMessages = map[string]string{
	"not_loaded": "dataset not loaded yet",
	"cold":       "search index not built for the active snapshot",
	"stale":      "source file changed since load; restart to pick it up",
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	h := s.services.Catalog.Health(ctx)

	components := make(map[string]ComponentHealth, len(h.Components))
	for name, state := range h.Components {
		ch := ComponentHealth{Status: "healthy"}
		if msg, degraded := componentMessages[state]; degraded {
			ch.Status = "degraded"
			ch.Message = msg
		}
		components[name] = ch
	}

	overall := "healthy"
	if h.Status != "ok" {
		overall = "degraded"
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}
