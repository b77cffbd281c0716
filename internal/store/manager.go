package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/streamlens/streamlens-server/internal/errors"
	"github.com/streamlens/streamlens-server/internal/ingest"
	"github.com/streamlens/streamlens-server/internal/logger"
	"github.com/streamlens/streamlens-server/internal/metrics"
)

// Manager owns the current snapshot. It loads the dataset lazily on first
// access, serves the same snapshot to all readers, and swaps in a fresh one
// when the source file is marked stale.
type Manager struct {
	path    string
	loader  *ingest.Loader
	cache   RecordCache
	metrics *metrics.Metrics
	logger  *logger.Logger

	mu    sync.RWMutex
	snap  *Snapshot
	stale atomic.Bool
}

// NewManager creates a manager for the dataset at path.
func NewManager(path string, loader *ingest.Loader, cache RecordCache, m *metrics.Metrics, log *logger.Logger) *Manager {
	return &Manager{
		path:    path,
		loader:  loader,
		cache:   cache,
		metrics: m,
		logger:  log,
	}
}

// Current returns the active snapshot, loading the dataset if none is loaded
// yet or the active one is stale. Concurrent callers share a single load.
func (m *Manager) Current(ctx context.Context) (*Snapshot, error) {
	m.mu.RLock()
	snap := m.snap
	m.mu.RUnlock()
	if snap != nil && !m.stale.Load() {
		return snap, nil
	}
	return m.Load(ctx)
}

// Load loads the dataset and swaps in the resulting snapshot. When a fresh
// snapshot is already active it is returned as is, so only the first of a
// burst of callers pays for the load.
func (m *Manager) Load(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.snap != nil && !m.stale.Load() {
		return m.snap, nil
	}

	snap, err := m.reload(ctx)
	if err != nil {
		return nil, err
	}

	m.snap = snap
	m.stale.Store(false)
	return snap, nil
}

// Active returns the loaded snapshot without triggering a load, or nil when
// nothing has been loaded yet. Health checks use this to observe without
// paying for a load.
func (m *Manager) Active() *Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}

// MarkStale flags the active snapshot for replacement. The next Current or
// Load call reloads from disk. Safe to call from the watcher goroutine.
func (m *Manager) MarkStale() {
	m.stale.Store(true)
	m.logger.Debug("snapshot marked stale", "path", m.path)
}

// Stale reports whether the active snapshot has been flagged for replacement.
func (m *Manager) Stale() bool {
	return m.stale.Load()
}

// reload reads the source file and produces a snapshot, from the cache when
// the content hash matches a cached entry, otherwise by parsing and cleaning.
// Callers must hold the write lock.
func (m *Manager) reload(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(m.path) //#nosec G304 -- Dataset path comes from configuration
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.CodeDataset, "read dataset %s", m.path)
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	// A spurious change event leaves the content identical. Keep the active
	// snapshot instead of rebuilding an equal one.
	if m.snap != nil && m.snap.Hash == hash {
		m.logger.Debug("dataset content unchanged", "hash", hash)
		return m.snap, nil
	}

	start := time.Now()

	entry, err := m.cache.Get(ctx, hash)
	if err == nil {
		snap := NewSnapshot(entry.LoadID, hash, m.path, entry.LoadedAt, entry.Records, entry.Stats, true)
		m.metrics.ObserveLoad(metrics.SourceCache, time.Since(start), entry.Stats.OriginalRows, entry.Stats.CleanedRows)
		m.logger.Info("snapshot restored from cache",
			"load_id", snap.LoadID,
			"rows", snap.Len(),
			"hash", hash,
		)
		return snap, nil
	}
	if !apperrors.Is(err, ErrCacheMiss) {
		m.logger.WithError(err).Warn("snapshot cache read failed", "hash", hash)
	}

	raws, err := m.loader.Load(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.CodeDataset, "load dataset %s", m.path)
	}

	records, stats := ingest.Clean(raws)
	snap := NewSnapshot(uuid.NewString(), hash, m.path, time.Now().UTC(), records, stats, false)

	if err := m.cache.Put(ctx, hash, &CacheEntry{
		LoadID:     snap.LoadID,
		SourcePath: snap.Path,
		LoadedAt:   snap.LoadedAt,
		Stats:      snap.Stats,
		Records:    snap.Records,
	}); err != nil {
		m.logger.WithError(err).Warn("snapshot cache write failed", "hash", hash)
	}

	m.metrics.ObserveLoad(metrics.SourceFile, time.Since(start), stats.OriginalRows, stats.CleanedRows)
	m.logger.Info("dataset loaded",
		"load_id", snap.LoadID,
		"rows_original", stats.OriginalRows,
		"rows_cleaned", stats.CleanedRows,
		"removed_pct", stats.RemovedPct,
		"duration", time.Since(start),
	)
	return snap, nil
}
