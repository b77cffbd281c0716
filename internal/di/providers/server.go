package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/streamlens/streamlens-server/internal/api"
	"github.com/streamlens/streamlens-server/internal/config"
	"github.com/streamlens/streamlens-server/internal/logger"
	"github.com/streamlens/streamlens-server/internal/metrics"
	"github.com/streamlens/streamlens-server/internal/ratelimit"
	"github.com/streamlens/streamlens-server/internal/service"
)

// RateLimiterHandle wraps the keyed limiter with shutdown capability.
type RateLimiterHandle struct {
	*ratelimit.KeyedLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.KeyedLimiter.Stop()
	return nil
}

// ProvideRateLimiter provides the per-client request rate limiter.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return &RateLimiterHandle{KeyedLimiter: ratelimit.New(cfg.Rate.RPS, cfg.Rate.Burst)}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	limiterHandle := do.MustInvoke[*RateLimiterHandle](i)

	dashboardService := do.MustInvoke[*service.DashboardService](i)
	catalogService := do.MustInvoke[*service.CatalogService](i)

	services := &api.Services{
		Dashboard: dashboardService,
		Catalog:   catalogService,
	}

	handler := api.NewServer(cfg, services, m, limiterHandle.KeyedLimiter, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
