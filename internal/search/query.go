package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/streamlens/streamlens-server/internal/domain"
)

// Params configures a search query. The filter is the same resolved spec the
// dashboard works with, so search results always respect the active view.
type Params struct {
	Query  string
	Filter domain.FilterSpec
	Limit  int
	Offset int
}

// Hit is a single matching record.
type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Result holds the outcome of one search.
type Result struct {
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Search executes a query against the indexed snapshot.
func (i *Index) Search(ctx context.Context, params Params) (*Result, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.index == nil {
		return nil, fmt.Errorf("search index not built")
	}

	searchQuery := buildSearchQuery(params)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	searchResult, err := i.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}
	for _, hit := range searchResult.Hits {
		result.Hits = append(result.Hits, Hit{ID: hit.ID, Score: hit.Score})
	}
	return result, nil
}

// buildSearchQuery constructs the Bleve query from params: a disjunction
// over the text fields, constrained by the filter's content types and year
// range.
func buildSearchQuery(params Params) query.Query {
	var queries []query.Query

	if params.Query != "" {
		textQueries := []query.Query{}

		// Title match with highest boost.
		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		textQueries = append(textQueries, titleMatch)

		directorMatch := bleve.NewMatchQuery(params.Query)
		directorMatch.SetField("director")
		directorMatch.SetBoost(2.0)
		textQueries = append(textQueries, directorMatch)

		genresMatch := bleve.NewMatchQuery(params.Query)
		genresMatch.SetField("genres")
		textQueries = append(textQueries, genresMatch)

		countriesMatch := bleve.NewMatchQuery(params.Query)
		countriesMatch.SetField("countries")
		textQueries = append(textQueries, countriesMatch)

		// Fuzzy matching for typo tolerance on the title.
		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("title")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for partial words (minimum 2 chars).
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Content type filter (exact match, OR across types).
	if len(params.Filter.ContentTypes) > 0 {
		typeQueries := make([]query.Query, len(params.Filter.ContentTypes))
		for i, t := range params.Filter.ContentTypes {
			tq := bleve.NewTermQuery(t)
			tq.SetField("type")
			typeQueries[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(typeQueries...))
	}

	// Year range filter, inclusive on both ends.
	if params.Filter.MinYear != 0 || params.Filter.MaxYear != 0 {
		minYear := float64(params.Filter.MinYear)
		maxYear := float64(params.Filter.MaxYear)
		inclusive := true
		rangeQuery := bleve.NewNumericRangeInclusiveQuery(&minYear, &maxYear, &inclusive, &inclusive)
		rangeQuery.SetField("release_year")
		queries = append(queries, rangeQuery)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}
