package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for catalog records.
//
// Text fields use the English analyzer so "movies" matches "movie"; the
// filter fields use the keyword analyzer because content type and rating are
// matched exactly, never tokenized ("TV Show" is one term).
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// Title - primary search target.
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	// Director - searchable by name.
	directorFieldMapping := bleve.NewTextFieldMapping()
	directorFieldMapping.Analyzer = en.AnalyzerName
	docMapping.AddFieldMappingsAt("director", directorFieldMapping)

	// Genres and countries - the original label text, not slugs.
	genresFieldMapping := bleve.NewTextFieldMapping()
	genresFieldMapping.Analyzer = en.AnalyzerName
	docMapping.AddFieldMappingsAt("genres", genresFieldMapping)

	countriesFieldMapping := bleve.NewTextFieldMapping()
	countriesFieldMapping.Analyzer = en.AnalyzerName
	docMapping.AddFieldMappingsAt("countries", countriesFieldMapping)

	// Content type - exact filter term.
	typeFieldMapping := bleve.NewTextFieldMapping()
	typeFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("type", typeFieldMapping)

	// Rating - exact filter term.
	ratingFieldMapping := bleve.NewTextFieldMapping()
	ratingFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("rating", ratingFieldMapping)

	// Release year - range filter.
	yearFieldMapping := bleve.NewNumericFieldMapping()
	docMapping.AddFieldMappingsAt("release_year", yearFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
