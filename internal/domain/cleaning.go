package domain

// CleaningStats summarizes one cleaning pass over a loaded dataset.
type CleaningStats struct {
	OriginalRows int     `json:"original_rows"`
	CleanedRows  int     `json:"cleaned_rows"`
	RemovedRows  int     `json:"removed_rows"`
	RemovedPct   float64 `json:"removed_pct"`
}

// NewCleaningStats derives the removal counters from the row counts before
// and after cleaning.
func NewCleaningStats(original, cleaned int) CleaningStats {
	stats := CleaningStats{
		OriginalRows: original,
		CleanedRows:  cleaned,
		RemovedRows:  original - cleaned,
	}
	if original > 0 {
		stats.RemovedPct = float64(stats.RemovedRows) / float64(original) * 100
	}
	return stats
}
