package domain

// CountPoint is one bar of a categorical chart series. Key is the slugified
// label, stable across reloads, for use as a DOM or query key.
type CountPoint struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// YearCount is one bucket of a per-year series.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// HistogramBucket is one bin of a numeric distribution. Bounds are inclusive.
type HistogramBucket struct {
	From  int `json:"from"`
	To    int `json:"to"`
	Count int `json:"count"`
}

// DurationStats is the binned distribution of one duration unit across a
// filtered view, plus its mean. Records whose duration text yields no number
// are counted in Excluded and do not contribute to the buckets or the mean.
type DurationStats struct {
	Unit     string            `json:"unit"`
	Buckets  []HistogramBucket `json:"buckets"`
	Mean     float64           `json:"mean"`
	Samples  int               `json:"samples"`
	Excluded int               `json:"excluded"`
}

// Duration units.
const (
	UnitMinutes = "minutes"
	UnitSeasons = "seasons"
)

// KeyMetrics are the headline numbers for a filtered view.
type KeyMetrics struct {
	TotalTitles       int `json:"total_titles"`
	Movies            int `json:"movies"`
	Shows             int `json:"shows"`
	DistinctCountries int `json:"distinct_countries"`
	DistinctGenres    int `json:"distinct_genres"`
}

// ContentMix is the movies-to-shows balance of a filtered view. Ratio is
// movies divided by shows and only meaningful when Defined is set; OnlyMovies
// flags the view that has movies but no shows, NoData the empty view.
type ContentMix struct {
	Movies     int     `json:"movies"`
	Shows      int     `json:"shows"`
	Ratio      float64 `json:"ratio"`
	Defined    bool    `json:"defined"`
	OnlyMovies bool    `json:"only_movies"`
	NoData     bool    `json:"no_data"`
}

// Insights are the derived findings for a filtered view. TopGenre and
// MeanReleaseYear are only meaningful when HasData is set.
type Insights struct {
	HasData         bool       `json:"has_data"`
	ContentMix      ContentMix `json:"content_mix"`
	TopGenre        string     `json:"top_genre,omitempty"`
	TopGenreCount   int        `json:"top_genre_count,omitempty"`
	MeanReleaseYear int        `json:"mean_release_year,omitempty"`
}

// Dashboard bundles every aggregate the dashboard renders for one filter.
// All series are recomputed from the filtered view on every request.
type Dashboard struct {
	Filter        FilterSpec    `json:"filter"`
	Metrics       KeyMetrics    `json:"metrics"`
	TypeBreakdown []CountPoint  `json:"type_breakdown"`
	AddedPerYear  []YearCount   `json:"added_per_year"`
	TopGenres     []CountPoint  `json:"top_genres"`
	Ratings       []CountPoint  `json:"ratings"`
	TopCountries  []CountPoint  `json:"top_countries"`
	ReleaseYears  []YearCount   `json:"release_years"`
	MovieRuntime  DurationStats `json:"movie_runtime"`
	ShowSeasons   DurationStats `json:"show_seasons"`
	Insights      Insights      `json:"insights"`
}
