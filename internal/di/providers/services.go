package providers

import (
	"github.com/samber/do/v2"

	"github.com/streamlens/streamlens-server/internal/config"
	"github.com/streamlens/streamlens-server/internal/logger"
	"github.com/streamlens/streamlens-server/internal/metrics"
	"github.com/streamlens/streamlens-server/internal/service"
	"github.com/streamlens/streamlens-server/internal/store"
	"github.com/streamlens/streamlens-server/internal/validation"
)

// ProvideValidator provides the request parameter validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideDashboardService provides the dashboard aggregation service.
func ProvideDashboardService(i do.Injector) (*service.DashboardService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	manager := do.MustInvoke[*store.Manager](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDashboardService(manager, cfg.Limits, m, log), nil
}

// ProvideCatalogService provides the catalog metadata, record table, search,
// and health service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	manager := do.MustInvoke[*store.Manager](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	validate := do.MustInvoke[*validation.Validator](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(manager, indexHandle.Index, validate, m, log), nil
}
