package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamlens/streamlens-server/internal/domain"
	apperrors "github.com/streamlens/streamlens-server/internal/errors"
	"github.com/streamlens/streamlens-server/internal/ingest"
	"github.com/streamlens/streamlens-server/internal/logger"
	"github.com/streamlens/streamlens-server/internal/metrics"
)

const datasetHeader = "show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description"

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Writer: io.Discard, Format: logger.FormatJSON})
}

func writeDataset(t *testing.T, rows ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	rewriteDataset(t, path, rows...)
	return path
}

func rewriteDataset(t *testing.T, path string, rows ...string) {
	t.Helper()
	content := datasetHeader + "\n"
	if len(rows) > 0 {
		content += strings.Join(rows, "\n") + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func goodRow(id, contentType, title string, year int) string {
	return fmt.Sprintf("%s,%s,%s,Some Director,Some Actor,United States,2021-01-15,%d,PG-13,90 min,Dramas,ignored",
		id, contentType, title, year)
}

// fakeCache is an in-memory RecordCache with injectable failures.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*CacheEntry
	getErr  error
	putErr  error
	puts    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*CacheEntry{}}
}

func (c *fakeCache) Get(_ context.Context, hash string) (*CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	entry, ok := c.entries[hash]
	if !ok {
		return nil, ErrCacheMiss
	}
	return entry, nil
}

func (c *fakeCache) Put(_ context.Context, hash string, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.putErr != nil {
		return c.putErr
	}
	c.puts++
	c.entries[hash] = entry
	return nil
}

func (c *fakeCache) Close() error { return nil }

func newTestManager(t *testing.T, path string, cache RecordCache) *Manager {
	t.Helper()
	log := testLogger()
	return NewManager(path, ingest.NewLoader(log), cache, metrics.New(), log)
}

func TestManager_Load_ParsesAndCleans(t *testing.T) {
	path := writeDataset(t,
		goodRow("s1", domain.TypeMovie, "First", 2010),
		goodRow("s2", domain.TypeShow, "Second", 2015),
		"s3,Movie,No Director,,Actor,United States,2021-01-15,2020,PG-13,90 min,Dramas,x",
		goodRow("s4", domain.TypeMovie, "Third", 2020),
	)
	m := newTestManager(t, path, newFakeCache())

	snap, err := m.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, snap.Len())
	assert.Equal(t, domain.CleaningStats{OriginalRows: 4, CleanedRows: 3, RemovedRows: 1, RemovedPct: 25}, snap.Stats)
	assert.False(t, snap.FromCache)
	assert.NotEmpty(t, snap.LoadID)
	assert.Len(t, snap.Hash, 64)
	assert.Equal(t, path, snap.Path)

	// Meta is derived from the cleaned records.
	assert.Equal(t, []string{domain.TypeMovie, domain.TypeShow}, snap.Meta.ContentTypes)
	assert.Equal(t, 2010, snap.Meta.MinYear)
	assert.Equal(t, 2020, snap.Meta.MaxYear)
}

func TestManager_Current_ReturnsSameSnapshotUntilStale(t *testing.T) {
	path := writeDataset(t, goodRow("s1", domain.TypeMovie, "First", 2010))
	m := newTestManager(t, path, newFakeCache())
	ctx := context.Background()

	first, err := m.Current(ctx)
	require.NoError(t, err)

	// The file changes on disk, but nothing marked the snapshot stale.
	rewriteDataset(t, path,
		goodRow("s1", domain.TypeMovie, "First", 2010),
		goodRow("s2", domain.TypeMovie, "Second", 2012),
	)

	second, err := m.Current(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, second.Len())
}

func TestManager_MarkStale_TriggersReload(t *testing.T) {
	path := writeDataset(t, goodRow("s1", domain.TypeMovie, "First", 2010))
	m := newTestManager(t, path, newFakeCache())
	ctx := context.Background()

	first, err := m.Current(ctx)
	require.NoError(t, err)

	rewriteDataset(t, path,
		goodRow("s1", domain.TypeMovie, "First", 2010),
		goodRow("s2", domain.TypeShow, "Second", 2012),
	)
	m.MarkStale()
	assert.True(t, m.Stale())

	second, err := m.Current(ctx)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 2, second.Len())
	assert.NotEqual(t, first.LoadID, second.LoadID)
	assert.False(t, m.Stale())
}

func TestManager_MarkStale_UnchangedContentKeepsSnapshot(t *testing.T) {
	path := writeDataset(t, goodRow("s1", domain.TypeMovie, "First", 2010))
	m := newTestManager(t, path, newFakeCache())
	ctx := context.Background()

	first, err := m.Current(ctx)
	require.NoError(t, err)

	m.MarkStale()
	second, err := m.Current(ctx)
	require.NoError(t, err)

	// Same bytes on disk hash to the same snapshot.
	assert.Same(t, first, second)
	assert.False(t, m.Stale())
}

func TestManager_Load_WarmStartFromCache(t *testing.T) {
	path := writeDataset(t, goodRow("s1", domain.TypeMovie, "First", 2010))
	cache := newFakeCache()

	// First process run parses the file and fills the cache.
	cold := newTestManager(t, path, cache)
	coldSnap, err := cold.Load(context.Background())
	require.NoError(t, err)
	require.False(t, coldSnap.FromCache)
	require.Equal(t, 1, cache.puts)

	// A fresh manager over the same cache restores without parsing.
	warm := newTestManager(t, path, cache)
	warmSnap, err := warm.Load(context.Background())
	require.NoError(t, err)

	assert.True(t, warmSnap.FromCache)
	assert.Equal(t, coldSnap.LoadID, warmSnap.LoadID)
	assert.Equal(t, coldSnap.Hash, warmSnap.Hash)
	assert.Equal(t, coldSnap.Stats, warmSnap.Stats)
	assert.Equal(t, coldSnap.Records, warmSnap.Records)
	assert.Equal(t, 1, cache.puts, "warm start must not write the cache again")
}

func TestManager_Load_CacheFailuresAreNonFatal(t *testing.T) {
	path := writeDataset(t, goodRow("s1", domain.TypeMovie, "First", 2010))

	broken := newFakeCache()
	broken.getErr = fmt.Errorf("disk on fire")
	broken.putErr = fmt.Errorf("disk still on fire")

	m := newTestManager(t, path, broken)
	snap, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Len())
	assert.False(t, snap.FromCache)
}

func TestManager_Load_MissingFile(t *testing.T) {
	m := newTestManager(t, filepath.Join(t.TempDir(), "absent.csv"), newFakeCache())

	_, err := m.Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrDataset))
}

func TestManager_Load_MissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte("show_id,type,title\ns1,Movie,First\n"), 0o644))

	m := newTestManager(t, path, newFakeCache())
	_, err := m.Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrDataset))

	var missing *ingest.MissingColumnsError
	require.True(t, apperrors.As(err, &missing))
	assert.Contains(t, missing.Columns, "duration")
}

func TestManager_Load_EmptyDataset(t *testing.T) {
	path := writeDataset(t)
	m := newTestManager(t, path, newFakeCache())

	snap, err := m.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, snap.Len())
	assert.Equal(t, domain.CatalogMeta{}, snap.Meta)
	assert.True(t, snap.Meta.DefaultFilter().Degenerate())
}

func TestManager_Load_ConcurrentCallersShareOneLoad(t *testing.T) {
	path := writeDataset(t, goodRow("s1", domain.TypeMovie, "First", 2010))
	cache := newFakeCache()
	m := newTestManager(t, path, cache)

	const callers = 16
	snaps := make([]*Snapshot, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := m.Current(context.Background())
			if err == nil {
				snaps[i] = snap
			}
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		require.NotNil(t, snaps[i])
		assert.Same(t, snaps[0], snaps[i])
	}
	assert.Equal(t, 1, cache.puts, "only one caller should parse the file")
}

func TestManager_Load_CancelledContext(t *testing.T) {
	path := writeDataset(t, goodRow("s1", domain.TypeMovie, "First", 2010))
	m := newTestManager(t, path, newFakeCache())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSnapshot_Record(t *testing.T) {
	records := []domain.Record{
		{ID: "rec-a", Title: "First", ContentType: domain.TypeMovie, ReleaseYear: 2010},
		{ID: "rec-b", Title: "Second", ContentType: domain.TypeShow, ReleaseYear: 2012},
		{ID: "rec-a", Title: "Shadowed", ContentType: domain.TypeMovie, ReleaseYear: 2014},
	}
	snap := NewSnapshot("load-1", "hash", "/tmp/x.csv", time.Now(), records, domain.NewCleaningStats(3, 3), false)

	got, ok := snap.Record("rec-b")
	require.True(t, ok)
	assert.Equal(t, "Second", got.Title)

	// Duplicate IDs resolve to the first occurrence.
	got, ok = snap.Record("rec-a")
	require.True(t, ok)
	assert.Equal(t, "First", got.Title)

	_, ok = snap.Record("rec-missing")
	assert.False(t, ok)
}
