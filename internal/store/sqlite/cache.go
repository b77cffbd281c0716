// Package sqlite provides the SQLite-backed snapshot cache.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/streamlens/streamlens-server/internal/domain"
	"github.com/streamlens/streamlens-server/internal/logger"
	"github.com/streamlens/streamlens-server/internal/store"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Cache is a store.RecordCache backed by a SQLite file.
type Cache struct {
	db     *sql.DB
	logger *logger.Logger
}

// Open creates a snapshot cache at the given path. It configures WAL mode,
// sets pragmas, and runs the schema migration.
func Open(path string, log *logger.Logger) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &Cache{db: db, logger: log}, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// recordColumns is the ordered list of columns selected in record queries.
// Must match the scan order in scanRecord.
const recordColumns = `record_id, content_type, title, director, countries,
	date_added, release_year, duration, rating, genres`

// scanRecord scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Record.
func scanRecord(scanner interface{ Scan(dest ...any) error }) (domain.Record, error) {
	var (
		r         domain.Record
		countries string
		dateAdded string
		genres    string
	)

	err := scanner.Scan(
		&r.ID,
		&r.ContentType,
		&r.Title,
		&r.Director,
		&countries,
		&dateAdded,
		&r.ReleaseYear,
		&r.Duration,
		&r.Rating,
		&genres,
	)
	if err != nil {
		return domain.Record{}, err
	}

	r.DateAdded, err = parseTime(dateAdded)
	if err != nil {
		return domain.Record{}, err
	}
	r.Countries = domain.SplitList(countries)
	r.Genres = domain.SplitList(genres)
	return r, nil
}

// Get returns the cached entry for hash, or store.ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, hash string) (*store.CacheEntry, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT load_id, source_path, loaded_at, original_rows, cleaned_rows
		FROM snapshots WHERE hash = ?`, hash)

	var (
		entry    store.CacheEntry
		loadedAt string
		original int
		cleaned  int
	)
	err := row.Scan(&entry.LoadID, &entry.SourcePath, &loadedAt, &original, &cleaned)
	if err == sql.ErrNoRows {
		return nil, store.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	entry.LoadedAt, err = parseTime(loadedAt)
	if err != nil {
		return nil, fmt.Errorf("parse loaded_at: %w", err)
	}
	entry.Stats = domain.NewCleaningStats(original, cleaned)

	rows, err := c.db.QueryContext(ctx, `
		SELECT `+recordColumns+`
		FROM snapshot_records WHERE hash = ? ORDER BY position ASC`, hash)
	if err != nil {
		return nil, fmt.Errorf("query snapshot_records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.Record, 0, cleaned)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot_records: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	entry.Records = records
	return &entry, nil
}

// Put stores the entry for hash. Any previously cached snapshot is removed
// in the same transaction, so the cache holds at most one snapshot.
func (c *Cache) Put(ctx context.Context, hash string, entry *store.CacheEntry) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_records`); err != nil {
		return fmt.Errorf("delete snapshot_records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("delete snapshots: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (hash, load_id, source_path, loaded_at, original_rows, cleaned_rows)
		VALUES (?, ?, ?, ?, ?, ?)`,
		hash,
		entry.LoadID,
		entry.SourcePath,
		formatTime(entry.LoadedAt),
		entry.Stats.OriginalRows,
		entry.Stats.CleanedRows,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_records (
			hash, position, record_id, content_type, title, director, countries,
			date_added, release_year, duration, rating, genres
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i := range entry.Records {
		r := &entry.Records[i]
		_, err := stmt.ExecContext(ctx,
			hash,
			i,
			r.ID,
			r.ContentType,
			r.Title,
			r.Director,
			strings.Join(r.Countries, domain.ListDelimiter),
			formatTime(r.DateAdded),
			r.ReleaseYear,
			r.Duration,
			r.Rating,
			strings.Join(r.Genres, domain.ListDelimiter),
		)
		if err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	c.logger.Debug("snapshot cached", "hash", hash, "rows", len(entry.Records))
	return nil
}

// formatTime formats a time.Time to RFC3339Nano for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses a RFC3339Nano string back to time.Time.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
