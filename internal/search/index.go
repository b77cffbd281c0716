package search

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/streamlens/streamlens-server/internal/domain"
	"github.com/streamlens/streamlens-server/internal/logger"
)

// Index wraps an in-memory Bleve index over one snapshot's records.
//
// Thread safety: all public methods are safe for concurrent use. A rebuild
// constructs the replacement index outside the lock and swaps it in, so
// searches keep running against the old snapshot until the new one is ready.
type Index struct {
	logger *logger.Logger

	mu     sync.RWMutex
	index  bleve.Index
	loadID string
}

// New creates an empty index. It holds no documents until the first Ensure.
func New(log *logger.Logger) *Index {
	return &Index{logger: log}
}

// LoadID returns the load ID of the snapshot currently indexed, or "" when
// nothing has been indexed yet.
func (i *Index) LoadID() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.loadID
}

// Ensure makes the index describe the snapshot identified by loadID,
// rebuilding from records when it does not already. Concurrent callers for
// the same snapshot trigger a single rebuild.
func (i *Index) Ensure(loadID string, records []domain.Record) error {
	if i.LoadID() == loadID {
		return nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.loadID == loadID {
		return nil
	}

	next, err := buildIndex(records)
	if err != nil {
		return err
	}

	old := i.index
	i.index = next
	i.loadID = loadID

	if old != nil {
		if err := old.Close(); err != nil {
			i.logger.WithError(err).Warn("close previous search index")
		}
	}

	i.logger.Info("search index built", "load_id", loadID, "docs", len(records))
	return nil
}

// DocCount returns the number of indexed records.
func (i *Index) DocCount() (uint64, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.index == nil {
		return 0, nil
	}
	return i.index.DocCount()
}

// Close closes the index and releases resources.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.index == nil {
		return nil
	}
	err := i.index.Close()
	i.index = nil
	i.loadID = ""
	return err
}

// buildIndex creates a fresh in-memory index over the records. Documents are
// committed in batches; batch indexing is much faster than per-document calls.
func buildIndex(records []domain.Record) (bleve.Index, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	const batchSize = 500

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}

		batch := index.NewBatch()
		for j := start; j < end; j++ {
			if err := batch.Index(records[j].ID, recordToDoc(&records[j])); err != nil {
				index.Close()
				return nil, fmt.Errorf("batch index %s: %w", records[j].ID, err)
			}
		}
		if err := index.Batch(batch); err != nil {
			index.Close()
			return nil, fmt.Errorf("commit batch %d-%d: %w", start, end, err)
		}
	}

	return index, nil
}
