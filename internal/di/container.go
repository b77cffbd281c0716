// Package di provides dependency injection configuration for the StreamLens server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/streamlens/streamlens-server/internal/config"
	"github.com/streamlens/streamlens-server/internal/di/providers"
	"github.com/streamlens/streamlens-server/internal/logger"
	"github.com/streamlens/streamlens-server/internal/metrics"
	"github.com/streamlens/streamlens-server/internal/service"
	"github.com/streamlens/streamlens-server/internal/store"
	"github.com/streamlens/streamlens-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideMetrics)

	// Catalog layer
	do.Provide(injector, providers.ProvideRecordCache)
	do.Provide(injector, providers.ProvideCatalogManager)
	do.Provide(injector, providers.ProvideDatasetWatcher)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideDashboardService)
	do.Provide(injector, providers.ProvideCatalogService)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and loads the catalog.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*metrics.Metrics](injector)
	_ = do.MustInvoke[*providers.RecordCacheHandle](injector)
	_ = do.MustInvoke[*store.Manager](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*validation.Validator](injector)

	// Business services
	_ = do.MustInvoke[*service.DashboardService](injector)
	_ = do.MustInvoke[*service.CatalogService](injector)

	// Load the dataset before serving; a rejected dataset fails startup
	if err := providers.LoadCatalog(injector); err != nil {
		return err
	}

	// Workers
	_ = do.MustInvoke[*providers.DatasetWatcherHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Build the search index for the loaded snapshot in the background
	providers.WarmSearchIndex(injector)

	return nil
}
