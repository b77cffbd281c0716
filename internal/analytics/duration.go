package analytics

import (
	"slices"
	"strconv"

	"github.com/streamlens/streamlens-server/internal/domain"
)

// Target bin counts for the duration histograms.
const (
	movieRuntimeBins = 30
	showSeasonBins   = 20
)

// LeadingNumber extracts the leading run of decimal digits from a duration
// cell: "90 min" yields 90, "2 Seasons" yields 2. A cell that does not start
// with a digit yields no value, whatever appears later in the string.
func LeadingNumber(s string) (int, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}

// MovieRuntime bins the runtime minutes of the view's movies.
func MovieRuntime(view []domain.Record) domain.DurationStats {
	return durationStats(view, domain.UnitMinutes, movieRuntimeBins, (*domain.Record).IsMovie)
}

// ShowSeasons bins the season counts of the view's TV shows.
func ShowSeasons(view []domain.Record) domain.DurationStats {
	return durationStats(view, domain.UnitSeasons, showSeasonBins, (*domain.Record).IsShow)
}

func durationStats(view []domain.Record, unit string, bins int, keep func(*domain.Record) bool) domain.DurationStats {
	stats := domain.DurationStats{Unit: unit}

	var values []int
	sum := 0
	for i := range view {
		record := &view[i]
		if !keep(record) {
			continue
		}
		n, ok := LeadingNumber(record.Duration)
		if !ok {
			stats.Excluded++
			continue
		}
		values = append(values, n)
		sum += n
	}

	stats.Samples = len(values)
	if len(values) > 0 {
		stats.Mean = float64(sum) / float64(len(values))
	}
	stats.Buckets = histogram(values, bins)
	return stats
}

// histogram bins values into at most targetBins integer-width buckets
// covering the observed range. Bucket widths are uniform; interior buckets
// with no samples still appear so charts keep their shape.
func histogram(values []int, targetBins int) []domain.HistogramBucket {
	if len(values) == 0 {
		return nil
	}
	if targetBins < 1 {
		targetBins = 1
	}

	lo := slices.Min(values)
	hi := slices.Max(values)
	span := hi - lo + 1
	width := (span + targetBins - 1) / targetBins
	if width < 1 {
		width = 1
	}
	bins := (span + width - 1) / width

	buckets := make([]domain.HistogramBucket, bins)
	for i := range buckets {
		from := lo + i*width
		buckets[i] = domain.HistogramBucket{From: from, To: from + width - 1}
	}
	for _, v := range values {
		buckets[(v-lo)/width].Count++
	}
	return buckets
}
