// Package main provides a tool to inspect the snapshot cache offline.
//
// Usage:
//
//	go run ./cmd/dbinspect ~/streamlens/cache.db
//	CACHE_PATH=~/streamlens/cache.db go run ./cmd/dbinspect
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "modernc.org/sqlite"
)

func main() {
	cachePath := os.Getenv("CACHE_PATH")
	if len(os.Args) > 1 {
		cachePath = os.Args[1]
	}
	if cachePath == "" {
		log.Fatal("Usage: dbinspect <cache.db> (or set CACHE_PATH)")
	}

	db, err := sql.Open("sqlite", "file:"+cachePath+"?mode=ro")
	if err != nil {
		log.Fatalf("Failed to open cache: %v", err)
	}
	defer db.Close()

	fmt.Println("=== Snapshot Cache Inspection ===")
	fmt.Println()

	var (
		hash     string
		loadID   string
		source   string
		loadedAt string
		original int
		cleaned  int
	)
	err = db.QueryRow(`
		SELECT hash, load_id, source_path, loaded_at, original_rows, cleaned_rows
		FROM snapshots`).Scan(&hash, &loadID, &source, &loadedAt, &original, &cleaned)
	if err == sql.ErrNoRows {
		fmt.Println("Cache is empty - no snapshot stored yet")
		return
	}
	if err != nil {
		log.Fatalf("Failed to read snapshots table: %v", err)
	}

	fmt.Printf("Snapshot: %s\n", loadID)
	fmt.Printf("  Content hash: %s\n", hash)
	fmt.Printf("  Source: %s\n", source)
	fmt.Printf("  Loaded at: %s\n", loadedAt)
	fmt.Printf("  Rows: %d original, %d cleaned (%d dropped)\n", original, cleaned, original-cleaned)
	fmt.Println()

	// Breakdown by content type
	rows, err := db.Query(`
		SELECT content_type, COUNT(*) AS n
		FROM snapshot_records
		GROUP BY content_type
		ORDER BY n DESC, content_type ASC`)
	if err != nil {
		log.Fatalf("Failed to count content types: %v", err)
	}
	defer rows.Close()

	fmt.Println("Records by content type:")
	for rows.Next() {
		var contentType string
		var n int
		if err := rows.Scan(&contentType, &n); err != nil {
			log.Fatalf("Failed to scan content type row: %v", err)
		}
		fmt.Printf("  %-10s %d\n", contentType, n)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("Error iterating content types: %v", err)
	}
	fmt.Println()

	var minYear, maxYear int
	if err := db.QueryRow(`SELECT MIN(release_year), MAX(release_year) FROM snapshot_records`).Scan(&minYear, &maxYear); err != nil {
		log.Fatalf("Failed to read year span: %v", err)
	}
	fmt.Printf("Release years: %d - %d\n", minYear, maxYear)
	fmt.Println()

	// Show the first few records in snapshot order
	sample, err := db.Query(`
		SELECT record_id, content_type, title, release_year, rating, duration
		FROM snapshot_records
		ORDER BY position ASC
		LIMIT 5`)
	if err != nil {
		log.Fatalf("Failed to read sample records: %v", err)
	}
	defer sample.Close()

	fmt.Println("First records:")
	for sample.Next() {
		var (
			id          string
			contentType string
			title       string
			year        int
			rating      string
			duration    string
		)
		if err := sample.Scan(&id, &contentType, &title, &year, &rating, &duration); err != nil {
			log.Fatalf("Failed to scan record: %v", err)
		}
		fmt.Printf("  [%s] %s (%d) - %s, %s, %s\n", id, title, year, contentType, rating, duration)
	}
	if err := sample.Err(); err != nil {
		log.Fatalf("Error iterating records: %v", err)
	}

	fmt.Println()
	fmt.Println("=== Summary ===")
	fmt.Printf("Cached rows: %d\n", cleaned)
	fmt.Printf("Drop rate: %.1f%%\n", dropRate(original, cleaned))
}

// dropRate returns the cleaning drop percentage.
func dropRate(original, cleaned int) float64 {
	if original == 0 {
		return 0
	}
	return float64(original-cleaned) / float64(original) * 100
}
