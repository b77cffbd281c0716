package ingest

import (
	"strconv"
	"time"
)

// Date layouts accepted for the date_added column, tried in order. The
// textual US form is what the dataset actually uses; the others tolerate
// exports that re-encoded the column.
var dateLayouts = []string{
	"January 2, 2006",
	"2006-01-02",
	"1/2/2006",
}

// parseDate coerces a trimmed, non-empty cell to a date. Reports false when
// no layout matches.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseYear coerces a trimmed, non-empty cell to a year. Integer text is
// taken as-is; float text ("2020.0") is truncated. Reports false when the
// cell is not numeric.
func parseYear(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}
