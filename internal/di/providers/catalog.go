package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/streamlens/streamlens-server/internal/config"
	"github.com/streamlens/streamlens-server/internal/ingest"
	"github.com/streamlens/streamlens-server/internal/logger"
	"github.com/streamlens/streamlens-server/internal/metrics"
	"github.com/streamlens/streamlens-server/internal/store"
	"github.com/streamlens/streamlens-server/internal/store/sqlite"
	"github.com/streamlens/streamlens-server/internal/watcher"
)

// RecordCacheHandle wraps the snapshot cache with shutdown capability.
type RecordCacheHandle struct {
	store.RecordCache
}

// Shutdown implements do.Shutdownable.
func (h *RecordCacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideRecordCache provides the warm-start snapshot cache. An empty cache
// path disables persistence and every start parses the dataset from scratch.
func ProvideRecordCache(i do.Injector) (*RecordCacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Cache.Path == "" {
		log.Info("Snapshot cache disabled by configuration")
		return &RecordCacheHandle{RecordCache: store.NewNoopCache()}, nil
	}

	cache, err := sqlite.Open(cfg.Cache.Path, log)
	if err != nil {
		return nil, err
	}

	log.Info("Snapshot cache opened", "path", cfg.Cache.Path)

	return &RecordCacheHandle{RecordCache: cache}, nil
}

// ProvideCatalogManager provides the snapshot manager for the dataset.
func ProvideCatalogManager(i do.Injector) (*store.Manager, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	cacheHandle := do.MustInvoke[*RecordCacheHandle](i)

	manager := store.NewManager(cfg.Dataset.Path, ingest.NewLoader(log), cacheHandle.RecordCache, m, log)

	log.Info("Catalog manager initialized", "dataset", cfg.Dataset.Path)

	return manager, nil
}

// DatasetWatcherHandle wraps the dataset watcher with shutdown capability.
type DatasetWatcherHandle struct {
	*watcher.Watcher
	started bool
}

// Shutdown implements do.Shutdownable.
func (h *DatasetWatcherHandle) Shutdown() error {
	if h.started && h.Watcher != nil {
		return h.Watcher.Stop()
	}
	return nil
}

// ProvideDatasetWatcher provides the file watcher that flags the snapshot as
// stale when the dataset changes on disk. The snapshot itself never reloads
// while the process runs; /health reports the staleness until a restart.
func ProvideDatasetWatcher(i do.Injector) (*DatasetWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	manager := do.MustInvoke[*store.Manager](i)

	if !cfg.Dataset.Watch {
		log.Info("Dataset watching disabled by configuration")
		return &DatasetWatcherHandle{Watcher: nil, started: false}, nil
	}

	w, err := watcher.New(cfg.Dataset.Path, manager.MarkStale, log, watcher.Options{})
	if err != nil {
		log.WithError(err).Warn("Dataset watcher unavailable")
		// Non-fatal: the server works without the staleness flag.
		return &DatasetWatcherHandle{Watcher: nil, started: false}, nil
	}

	w.Start()

	return &DatasetWatcherHandle{Watcher: w, started: true}, nil
}

// LoadCatalog performs the initial dataset load. A dataset the loader rejects
// (unreadable file, missing required columns) fails startup rather than every
// request after it.
func LoadCatalog(i do.Injector) error {
	manager := do.MustInvoke[*store.Manager](i)

	_, err := manager.Load(context.Background())
	return err
}
