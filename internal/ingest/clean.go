package ingest

import (
	"github.com/streamlens/streamlens-server/internal/domain"
	"github.com/streamlens/streamlens-server/internal/id"
)

// Clean applies the row-drop policy to raw rows and builds cleaned records.
// A row survives only when every modeled field resolved; the kept rows keep
// their input order. Multi-valued cells are split here, exactly once. Rows
// without a show_id get a generated record ID.
func Clean(raws []domain.RawRecord) ([]domain.Record, domain.CleaningStats) {
	records := make([]domain.Record, 0, len(raws))
	for i := range raws {
		raw := &raws[i]
		if !raw.Fields().Complete() {
			continue
		}

		recordID := raw.ID
		if recordID == "" {
			recordID = id.MustGenerate(id.PrefixRecord)
		}

		records = append(records, domain.Record{
			ID:          recordID,
			ContentType: raw.ContentType,
			Title:       raw.Title,
			Director:    raw.Director,
			Countries:   domain.SplitList(raw.Country),
			DateAdded:   *raw.DateAdded,
			ReleaseYear: *raw.ReleaseYear,
			Duration:    raw.Duration,
			Rating:      raw.Rating,
			Genres:      domain.SplitList(raw.ListedIn),
		})
	}
	return records, domain.NewCleaningStats(len(raws), len(records))
}
