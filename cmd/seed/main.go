// Package main provides a tool to generate a demo catalog dataset.
//
// The output is a CSV in the layout the server ingests, including a share of
// deliberately broken rows (missing fields, unparseable dates and years) so
// the cleaning report on /api/v1/meta has something to count.
//
// Usage:
//
//	go run ./cmd/seed -out ./data/catalog.csv
//	go run ./cmd/seed -out ./catalog.csv -rows 200 -dirty 0.2 -seed 7
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	outPath   = flag.String("out", "./catalog.csv", "Output CSV path")
	rowCount  = flag.Int("rows", 500, "Number of catalog rows to generate")
	dirtyRate = flag.Float64("dirty", 0.1, "Fraction of rows given a deliberate defect")
	seed      = flag.Int64("seed", 0, "Random seed (0 seeds from the current time)")
)

// header is the full dataset layout. The server only requires a subset of
// these columns; cast and description are here so the file looks like the
// real thing and exercises unknown-column handling.
var header = []string{
	"show_id", "type", "title", "director", "cast", "country",
	"date_added", "release_year", "rating", "duration", "listed_in", "description",
}

func main() {
	flag.Parse()

	if *rowCount < 1 {
		log.Fatal("-rows must be at least 1")
	}
	if *dirtyRate < 0 || *dirtyRate > 1 {
		log.Fatal("-dirty must be between 0 and 1")
	}

	src := *seed
	if src == 0 {
		src = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(src))

	if dir := filepath.Dir(*outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	f, err := os.Create(*outPath)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *outPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		log.Fatalf("Failed to write header: %v", err)
	}

	broken := 0
	for i := 0; i < *rowCount; i++ {
		row := generateRow(rng, i)
		if rng.Float64() < *dirtyRate {
			breakRow(rng, row)
			broken++
		}
		if err := w.Write(row); err != nil {
			log.Fatalf("Failed to write row %d: %v", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("Failed to flush %s: %v", *outPath, err)
	}

	fmt.Printf("Wrote %d rows to %s (%d deliberately broken, seed %d)\n", *rowCount, *outPath, broken, src)
}

// generateRow produces one complete, clean catalog row.
func generateRow(rng *rand.Rand, i int) []string {
	isMovie := rng.Float64() < 0.7

	contentType := "Movie"
	genres := movieGenres
	if !isMovie {
		contentType = "TV Show"
		genres = showGenres
	}

	year := releaseYear(rng)
	added := dateAdded(rng, year)

	id := fmt.Sprintf("s%d", i+1)
	// A few rows ship without an ID; the server generates one during cleaning.
	if rng.Float64() < 0.03 {
		id = ""
	}

	return []string{
		id,
		contentType,
		title(rng),
		pick(rng, directors),
		castList(rng),
		countryList(rng),
		added.Format("January 2, 2006"),
		fmt.Sprintf("%d", year),
		pick(rng, ratings),
		duration(rng, isMovie),
		genreList(rng, genres),
		fmt.Sprintf("A %s story about %s.", pick(rng, tones), pick(rng, subjects)),
	}
}

// breakRow gives a row one of the defects the cleaning stage drops rows for.
func breakRow(rng *rand.Rand, row []string) {
	switch rng.Intn(7) {
	case 0:
		row[2] = "" // title
	case 1:
		row[3] = "" // director
	case 2:
		row[5] = "" // country
	case 3:
		row[6] = "Coming Soon" // unparseable date
	case 4:
		row[7] = "TBD" // unparseable year
	case 5:
		row[8] = "" // rating
	case 6:
		row[9] = "" // duration
	}
}

// releaseYear skews recent, with a small tail of older catalog titles.
func releaseYear(rng *rand.Rand) int {
	if rng.Float64() < 0.1 {
		return 1942 + rng.Intn(53)
	}
	return 1995 + rng.Intn(27)
}

// dateAdded lands between 2015 and late 2021, never before the release year.
func dateAdded(rng *rand.Rand, year int) time.Time {
	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	if year > 2015 {
		start = time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	end := time.Date(2021, 9, 30, 0, 0, 0, 0, time.UTC)
	if !start.Before(end) {
		return end
	}
	days := int(end.Sub(start).Hours() / 24)
	return start.AddDate(0, 0, rng.Intn(days+1))
}

func title(rng *rand.Rand) string {
	t := fmt.Sprintf("%s %s", pick(rng, titleAdjectives), pick(rng, titleNouns))
	switch rng.Intn(10) {
	case 0:
		t = "The " + t
	case 1:
		t = fmt.Sprintf("%s %d", t, 2+rng.Intn(3))
	}
	return t
}

func duration(rng *rand.Rand, isMovie bool) string {
	if isMovie {
		return fmt.Sprintf("%d min", 45+rng.Intn(135))
	}
	seasons := 1 + rng.Intn(9)
	if seasons == 1 {
		return "1 Season"
	}
	return fmt.Sprintf("%d Seasons", seasons)
}

func countryList(rng *rand.Rand) string {
	return joinSample(rng, countries, 1+weighted(rng, 0.75, 0.2))
}

func genreList(rng *rand.Rand, genres []string) string {
	return joinSample(rng, genres, 1+weighted(rng, 0.5, 0.35))
}

func castList(rng *rand.Rand) string {
	return joinSample(rng, actors, 2+rng.Intn(3))
}

// weighted returns 0, 1, or 2 with the given probabilities for 0 and 1.
func weighted(rng *rand.Rand, p0, p1 float64) int {
	r := rng.Float64()
	switch {
	case r < p0:
		return 0
	case r < p0+p1:
		return 1
	default:
		return 2
	}
}

// joinSample joins n distinct values from pool with the dataset's list
// separator.
func joinSample(rng *rand.Rand, pool []string, n int) string {
	if n > len(pool) {
		n = len(pool)
	}
	idx := rng.Perm(len(pool))[:n]
	parts := make([]string, n)
	for i, j := range idx {
		parts[i] = pool[j]
	}
	return strings.Join(parts, ", ")
}

func pick(rng *rand.Rand, pool []string) string {
	return pool[rng.Intn(len(pool))]
}

var titleAdjectives = []string{
	"Silent", "Broken", "Hidden", "Golden", "Midnight", "Lost", "Crimson",
	"Electric", "Paper", "Distant", "Wild", "Quiet", "Burning", "Frozen",
}

var titleNouns = []string{
	"Harbor", "Letters", "Kingdom", "Roads", "Garden", "Shadows", "Signal",
	"Summer", "Station", "Promise", "Detective", "Horizon", "Chef", "Heist",
}

var directors = []string{
	"Marcus Webb", "Elena Vasquez", "Hiro Tanaka", "Priya Nair",
	"Johan Lindqvist", "Amara Diallo", "Carlos Mendes", "Sofia Ricci",
	"David Oyelaran", "Mei-Ling Zhou", "Tomás Herrera", "Anya Petrova",
}

var actors = []string{
	"Jordan Reyes", "Fatima Al-Sayed", "Lucas Moreau", "Nina Kowalski",
	"Deepak Sharma", "Grace Okafor", "Mateo Silva", "Hana Yoshida",
	"Oliver Grant", "Camila Torres", "Sergei Volkov", "Leila Haddad",
}

var countries = []string{
	"United States", "India", "United Kingdom", "Canada", "France",
	"Japan", "South Korea", "Spain", "Mexico", "Germany", "Australia",
	"Brazil", "Italy", "Turkey", "Egypt", "Nigeria",
}

var ratings = []string{
	"TV-MA", "TV-14", "TV-PG", "TV-Y7", "R", "PG-13", "PG", "G", "NR",
}

var movieGenres = []string{
	"Dramas", "Comedies", "Action & Adventure", "Documentaries",
	"Horror Movies", "Sci-Fi & Fantasy", "Thrillers", "Romantic Movies",
	"Children & Family Movies", "Independent Movies",
}

var showGenres = []string{
	"TV Dramas", "TV Comedies", "Crime TV Shows", "Kids' TV", "Docuseries",
	"Reality TV", "TV Action & Adventure", "International TV Shows",
}

var tones = []string{
	"quiet", "ruthless", "tender", "chaotic", "unlikely", "stubborn",
}

var subjects = []string{
	"a family recipe", "a small-town election", "a missing violin",
	"an abandoned lighthouse", "a retired detective", "a street food rivalry",
	"a border village", "a night train",
}
