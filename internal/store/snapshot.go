package store

import (
	"maps"
	"slices"
	"time"

	"github.com/streamlens/streamlens-server/internal/domain"
)

// Snapshot is one immutable cleaned catalog. Everything downstream of the
// manager reads from a snapshot; a reload swaps in a new one and never
// mutates records in place.
type Snapshot struct {
	LoadID    string
	Hash      string
	Path      string
	LoadedAt  time.Time
	FromCache bool

	Records []domain.Record
	Stats   domain.CleaningStats
	Meta    domain.CatalogMeta

	byID map[string]int
}

// NewSnapshot builds a snapshot over cleaned records, deriving the catalog
// meta and the ID index. The records slice is owned by the snapshot after
// this call.
func NewSnapshot(loadID, hash, path string, loadedAt time.Time, records []domain.Record, stats domain.CleaningStats, fromCache bool) *Snapshot {
	byID := make(map[string]int, len(records))
	for i := range records {
		if _, dup := byID[records[i].ID]; !dup {
			byID[records[i].ID] = i
		}
	}
	return &Snapshot{
		LoadID:    loadID,
		Hash:      hash,
		Path:      path,
		LoadedAt:  loadedAt,
		FromCache: fromCache,
		Records:   records,
		Stats:     stats,
		Meta:      deriveMeta(records),
		byID:      byID,
	}
}

// Len returns the number of cleaned records.
func (s *Snapshot) Len() int { return len(s.Records) }

// Record returns the record with the given ID. For duplicate IDs the first
// occurrence wins.
func (s *Snapshot) Record(id string) (*domain.Record, bool) {
	i, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return &s.Records[i], true
}

// deriveMeta computes the observed domain of the filterable fields. An empty
// snapshot yields zero meta, which makes the default filter degenerate.
func deriveMeta(records []domain.Record) domain.CatalogMeta {
	if len(records) == 0 {
		return domain.CatalogMeta{}
	}

	types := make(map[string]struct{})
	meta := domain.CatalogMeta{
		MinYear: records[0].ReleaseYear,
		MaxYear: records[0].ReleaseYear,
	}
	for i := range records {
		types[records[i].ContentType] = struct{}{}
		if y := records[i].ReleaseYear; y < meta.MinYear {
			meta.MinYear = y
		} else if y > meta.MaxYear {
			meta.MaxYear = y
		}
	}
	meta.ContentTypes = slices.Sorted(maps.Keys(types))
	return meta
}
