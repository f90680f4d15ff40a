// Package dto defines the JSON request and response types of the v1 API.
package dto

import "time"

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Query           string              `json:"query"`
	Type            string              `json:"type,omitempty"`
	Limit           int                 `json:"limit,omitempty"`
	DocumentTypes   []string            `json:"document_types,omitempty"`
	YearFrom        int                 `json:"year_from,omitempty"`
	YearTo          int                 `json:"year_to,omitempty"`
	IncludeRepealed bool                `json:"include_repealed,omitempty"`
	Facets          map[string][]string `json:"facets,omitempty"`
}

// SearchResult is one ranked hit.
type SearchResult struct {
	ArticleID       int64      `json:"article_id"`
	DocumentID      int64      `json:"document_id"`
	DocumentTitle   string     `json:"document_title"`
	DocumentType    string     `json:"document_type"`
	LawNumber       string     `json:"law_number,omitempty"`
	ArticleNumber   string     `json:"article_number,omitempty"`
	ArticleTitle    string     `json:"article_title,omitempty"`
	Snippet         string     `json:"snippet,omitempty"`
	Highlights      []string   `json:"highlights,omitempty"`
	Score           float64    `json:"score"`
	MatchType       string     `json:"match_type"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	IsRepealed      bool       `json:"is_repealed"`
}

// FacetOption is one selectable facet value.
type FacetOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Count    int    `json:"count"`
	Selected bool   `json:"selected"`
}

// Facet is one computed facet dimension.
type Facet struct {
	Name    string        `json:"name"`
	Label   string        `json:"label"`
	Type    string        `json:"type"`
	Options []FacetOption `json:"options"`
}

// SearchResponse is the body of a search reply. Facet fields are present
// only when the request carried facet selections.
type SearchResponse struct {
	Query          string              `json:"query"`
	Results        []SearchResult      `json:"results"`
	TotalCount     int                 `json:"total_count"`
	Facets         []Facet             `json:"facets,omitempty"`
	FilteredCount  *int                `json:"filtered_count,omitempty"`
	AppliedFilters map[string][]string `json:"applied_filters,omitempty"`
}

// FacetValue is one declared facet option value.
type FacetValue struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FacetDefinition describes one configured facet dimension.
type FacetDefinition struct {
	Name   string       `json:"name"`
	Label  string       `json:"label"`
	Type   string       `json:"type"`
	Values []FacetValue `json:"values,omitempty"`
}

// FacetsResponse is the body of GET /api/v1/facets.
type FacetsResponse struct {
	Facets []FacetDefinition `json:"facets"`
}

// SuggestionsResponse is the body of GET /api/v1/suggestions.
type SuggestionsResponse struct {
	Prefix      string   `json:"prefix"`
	Suggestions []string `json:"suggestions"`
}

// QueryCount pairs a query with its search frequency.
type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// StatsResponse is the body of GET /api/v1/stats.
type StatsResponse struct {
	TotalSearches      int64        `json:"total_searches"`
	AverageExecutionMS float64      `json:"average_execution_ms"`
	IndexedVectors     int          `json:"indexed_vectors"`
	VocabularyTerms    int          `json:"vocabulary_terms"`
	CachedQueries      int          `json:"cached_queries"`
	SemanticEnabled    bool         `json:"semantic_enabled"`
	PopularQueries     []QueryCount `json:"popular_queries,omitempty"`
}
