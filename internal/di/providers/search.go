package providers

import (
	"github.com/samber/do/v2"

	"github.com/streamlens/streamlens-server/internal/logger"
	"github.com/streamlens/streamlens-server/internal/search"
	"github.com/streamlens/streamlens-server/internal/store"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory Bleve index. The index is built
// from the active snapshot on first use, not here.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	return &SearchIndexHandle{Index: search.New(log)}, nil
}

// WarmSearchIndex builds the index for the active snapshot in the background
// so the first search does not pay for indexing. A search arriving before the
// warmup finishes builds the index itself; Ensure is idempotent per load.
func WarmSearchIndex(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	manager := do.MustInvoke[*store.Manager](i)
	log := do.MustInvoke[*logger.Logger](i)

	snap := manager.Active()
	if snap == nil || snap.Len() == 0 {
		return
	}

	go func() {
		if err := indexHandle.Ensure(snap.LoadID, snap.Records); err != nil {
			log.WithError(err).Error("Search index warmup failed")
			return
		}
		count, _ := indexHandle.DocCount()
		log.Info("Search index warmed", "documents", count)
	}()
}
