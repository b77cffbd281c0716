// Package domain contains the core catalog entities and the filter and
// aggregate types the analytics pipeline derives from them.
package domain

import (
	"strings"
	"time"
)

// ListDelimiter joins the values of a multi-valued cell in the source dataset.
const ListDelimiter = ", "

// Content type values as they appear in the dataset.
const (
	TypeMovie = "Movie"
	TypeShow  = "TV Show"
)

// RawRecord is one dataset row as parsed, before cleaning. String fields hold
// the trimmed cell text, so "" means the cell was absent or blank. Coerced
// fields are nil when the cell was absent or failed to parse.
type RawRecord struct {
	Row         int // 1-based data row number, for diagnostics
	ID          string
	ContentType string
	Title       string
	Director    string
	Country     string
	DateAdded   *time.Time
	ReleaseYear *int
	Duration    string
	Rating      string
	ListedIn    string
}

// Record is a cleaned catalog entry. Every field carries a usable value and
// the multi-valued fields are already exploded.
type Record struct {
	ID          string    `json:"id"`
	ContentType string    `json:"type"`
	Title       string    `json:"title"`
	Director    string    `json:"director"`
	Countries   []string  `json:"countries"`
	DateAdded   time.Time `json:"date_added"`
	ReleaseYear int       `json:"release_year"`
	Duration    string    `json:"duration"`
	Rating      string    `json:"rating"`
	Genres      []string  `json:"genres"`
}

// IsMovie reports whether the record is a movie.
func (r *Record) IsMovie() bool {
	return r.ContentType == TypeMovie
}

// IsShow reports whether the record is a TV show.
func (r *Record) IsShow() bool {
	return r.ContentType == TypeShow
}

// SplitList explodes a delimiter-joined cell into its values. Cleaning calls
// this exactly once per multi-valued field; everything downstream works with
// the exploded slices.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ListDelimiter)
}

// FieldSet reports which of a raw record's modeled fields resolved to a
// usable value after coercion.
type FieldSet struct {
	ContentType bool
	Title       bool
	Director    bool
	Country     bool
	DateAdded   bool
	ReleaseYear bool
	Duration    bool
	Rating      bool
	ListedIn    bool
}

// Fields derives the presence tuple for a raw record.
func (r *RawRecord) Fields() FieldSet {
	return FieldSet{
		ContentType: r.ContentType != "",
		Title:       r.Title != "",
		Director:    r.Director != "",
		Country:     r.Country != "",
		DateAdded:   r.DateAdded != nil,
		ReleaseYear: r.ReleaseYear != nil,
		Duration:    r.Duration != "",
		Rating:      r.Rating != "",
		ListedIn:    r.ListedIn != "",
	}
}

// Complete reports whether every modeled field resolved. Cleaning keeps
// exactly the rows for which this holds; a single unresolved field drops the
// whole row.
func (f FieldSet) Complete() bool {
	return f == FieldSet{
		ContentType: true,
		Title:       true,
		Director:    true,
		Country:     true,
		DateAdded:   true,
		ReleaseYear: true,
		Duration:    true,
		Rating:      true,
		ListedIn:    true,
	}
}

// Missing lists the unresolved fields by column name, in schema order.
func (f FieldSet) Missing() []string {
	var missing []string
	for _, c := range []struct {
		name string
		ok   bool
	}{
		{"type", f.ContentType},
		{"title", f.Title},
		{"director", f.Director},
		{"country", f.Country},
		{"date_added", f.DateAdded},
		{"release_year", f.ReleaseYear},
		{"duration", f.Duration},
		{"rating", f.Rating},
		{"listed_in", f.ListedIn},
	} {
		if !c.ok {
			missing = append(missing, c.name)
		}
	}
	return missing
}
