// Package store owns the in-memory catalog snapshot and its persistent
// warm-start cache.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/streamlens/streamlens-server/internal/domain"
)

// ErrCacheMiss is returned by a cache when no entry exists for a hash.
var ErrCacheMiss = errors.New("snapshot cache miss")

// CacheEntry is the persisted form of one cleaned snapshot, keyed by the
// content hash of the source file it was cleaned from.
type CacheEntry struct {
	LoadID     string
	SourcePath string
	LoadedAt   time.Time
	Stats      domain.CleaningStats
	Records    []domain.Record
}

// RecordCache persists cleaned snapshots across restarts so an unchanged
// dataset does not have to be parsed and cleaned again.
type RecordCache interface {
	// Get returns the entry for hash, or ErrCacheMiss.
	Get(ctx context.Context, hash string) (*CacheEntry, error)
	// Put stores the entry for hash, replacing whatever was cached before.
	Put(ctx context.Context, hash string, entry *CacheEntry) error
	Close() error
}

// NoopCache is a RecordCache that stores nothing. It stands in when caching
// is disabled by configuration.
type NoopCache struct{}

// NewNoopCache creates a no-op cache.
func NewNoopCache() *NoopCache { return &NoopCache{} }

// Get always misses.
func (*NoopCache) Get(context.Context, string) (*CacheEntry, error) {
	return nil, ErrCacheMiss
}

// Put discards the entry.
func (*NoopCache) Put(context.Context, string, *CacheEntry) error { return nil }

// Close does nothing.
func (*NoopCache) Close() error { return nil }
