// Package ingest loads the catalog dataset from CSV and cleans it into
// records the analytics pipeline can work on.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/streamlens/streamlens-server/internal/domain"
	"github.com/streamlens/streamlens-server/internal/logger"
)

// Dataset column names.
const (
	ColShowID      = "show_id"
	ColType        = "type"
	ColTitle       = "title"
	ColDirector    = "director"
	ColCountry     = "country"
	ColDateAdded   = "date_added"
	ColReleaseYear = "release_year"
	ColDuration    = "duration"
	ColRating      = "rating"
	ColListedIn    = "listed_in"
)

// RequiredColumns returns the header columns a dataset must carry. ShowID is
// not among them; rows without one get a generated ID during cleaning.
func RequiredColumns() []string {
	return []string{
		ColType,
		ColTitle,
		ColDirector,
		ColCountry,
		ColDateAdded,
		ColReleaseYear,
		ColDuration,
		ColRating,
		ColListedIn,
	}
}

// MissingColumnsError reports required header columns absent from a dataset.
// Loading such a file fails as a whole; there is no row-level recovery from a
// broken schema.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("dataset missing required columns: %s", strings.Join(e.Columns, ", "))
}

// Loader reads raw catalog rows from CSV.
type Loader struct {
	logger *logger.Logger
}

// NewLoader creates a loader.
func NewLoader(log *logger.Logger) *Loader {
	return &Loader{logger: log}
}

// LoadFile opens path and loads its rows.
func (l *Loader) LoadFile(path string) ([]domain.RawRecord, error) {
	file, err := os.Open(path) //#nosec G304 -- Dataset path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	return l.Load(file)
}

// Load reads every data row from r. Unknown columns are ignored, extra cells
// are ignored, and short rows are padded with empty cells. Cell-level
// problems never fail the load; they surface as nil fields on the raw record
// and are resolved by cleaning.
func (l *Loader) Load(r io.Reader) ([]domain.RawRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &MissingColumnsError{Columns: RequiredColumns()}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := indexColumns(header)
	if missing := missingColumns(cols); len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	var (
		raws    []domain.RawRecord
		badDate int
		badYear int
	)
	for row := 1; ; row++ {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse row %d: %w", row, err)
		}

		raw := domain.RawRecord{
			Row:         row,
			ID:          cell(cells, cols, ColShowID),
			ContentType: cell(cells, cols, ColType),
			Title:       cell(cells, cols, ColTitle),
			Director:    cell(cells, cols, ColDirector),
			Country:     cell(cells, cols, ColCountry),
			Duration:    cell(cells, cols, ColDuration),
			Rating:      cell(cells, cols, ColRating),
			ListedIn:    cell(cells, cols, ColListedIn),
		}

		if text := cell(cells, cols, ColDateAdded); text != "" {
			if added, ok := parseDate(text); ok {
				raw.DateAdded = &added
			} else {
				badDate++
				l.logger.Debug("uncoercible date cell", "row", row, "value", text)
			}
		}

		if text := cell(cells, cols, ColReleaseYear); text != "" {
			if year, ok := parseYear(text); ok {
				raw.ReleaseYear = &year
			} else {
				badYear++
				l.logger.Debug("uncoercible year cell", "row", row, "value", text)
			}
		}

		raws = append(raws, raw)
	}

	l.logger.Debug("dataset parsed",
		"rows", len(raws),
		"uncoercible_dates", badDate,
		"uncoercible_years", badYear,
	)
	return raws, nil
}

// indexColumns maps normalized header names to their positions. The first
// cell may carry a UTF-8 byte order mark; it is stripped before matching.
func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

func missingColumns(cols map[string]int) []string {
	var missing []string
	for _, name := range RequiredColumns() {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// cell returns the trimmed value of the named column, or "" when the column
// is unmapped or the row is too short.
func cell(cells []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}
