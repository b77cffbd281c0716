// Package labels turns catalog label strings into stable chart keys.
package labels

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	// Matches any non-alphanumeric character.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches multiple hyphens.
	multipleHyphens = regexp.MustCompile(`-+`)
)

// Key converts a display label to a URL-safe slug.
// "Sci-Fi & Fantasy" -> "sci-fi-fantasy".
// "Stand-Up Comedy" -> "stand-up-comedy".
// "Señor" -> "senor".
func Key(s string) string {
	// Normalize unicode (decompose accented characters).
	s = norm.NFKD.String(s)

	// Remove non-ASCII characters.
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	// Lowercase.
	s = strings.ToLower(s)

	// Replace non-alphanumeric with hyphens.
	s = nonAlphanumeric.ReplaceAllString(s, "-")

	// Collapse multiple hyphens.
	s = multipleHyphens.ReplaceAllString(s, "-")

	// Trim leading/trailing hyphens.
	s = strings.Trim(s, "-")

	return s
}

// Uniquer hands out collision-free keys within one chart series. Distinct
// labels can slug to the same key ("Sci-Fi/Fantasy" and "Sci-Fi & Fantasy"
// both become "sci-fi-fantasy"); later collisions get a numeric suffix.
type Uniquer struct {
	seen map[string]int
}

// NewUniquer returns an empty Uniquer.
func NewUniquer() *Uniquer {
	return &Uniquer{seen: make(map[string]int)}
}

// Key slugs the label and disambiguates it against every key handed out
// before. Labels that slug to nothing fall back to "unlabeled".
func (u *Uniquer) Key(label string) string {
	key := Key(label)
	if key == "" {
		key = "unlabeled"
	}
	u.seen[key]++
	if n := u.seen[key]; n > 1 {
		return fmt.Sprintf("%s-%d", key, n)
	}
	return key
}
