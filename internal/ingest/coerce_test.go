package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_TextualUSFormat(t *testing.T) {
	parsed, ok := parseDate("September 24, 2021")

	require.True(t, ok)
	assert.Equal(t, time.Date(2021, time.September, 24, 0, 0, 0, 0, time.UTC), parsed)
}

func TestParseDate_FallbackLayouts(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2021-09-24", time.Date(2021, time.September, 24, 0, 0, 0, 0, time.UTC)},
		{"9/24/2021", time.Date(2021, time.September, 24, 0, 0, 0, 0, time.UTC)},
		{"January 1, 2008", time.Date(2008, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			parsed, ok := parseDate(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, parsed)
		})
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"not a date", "Sometime 2020", "13/45/2020", "2020"} {
		t.Run(input, func(t *testing.T) {
			_, ok := parseDate(input)
			assert.False(t, ok)
		})
	}
}

func TestParseYear_Integer(t *testing.T) {
	year, ok := parseYear("2016")

	require.True(t, ok)
	assert.Equal(t, 2016, year)
}

func TestParseYear_FloatTruncates(t *testing.T) {
	year, ok := parseYear("2016.0")

	require.True(t, ok)
	assert.Equal(t, 2016, year)
}

func TestParseYear_Invalid(t *testing.T) {
	for _, input := range []string{"unknown", "199x", ""} {
		t.Run(input, func(t *testing.T) {
			_, ok := parseYear(input)
			assert.False(t, ok)
		})
	}
}
