package providers

import (
	"github.com/samber/do/v2"

	"github.com/streamlens/streamlens-server/internal/metrics"
)

// ProvideMetrics provides the Prometheus metric set on its own registry.
func ProvideMetrics(i do.Injector) (*metrics.Metrics, error) {
	return metrics.New(), nil
}
