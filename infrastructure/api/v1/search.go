// Package v1 implements the v1 HTTP API routes.
package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mevzuatlab/mevzuat"
	"github.com/mevzuatlab/mevzuat/application/service"
	"github.com/mevzuatlab/mevzuat/domain/document"
	"github.com/mevzuatlab/mevzuat/domain/facet"
	"github.com/mevzuatlab/mevzuat/domain/search"
	"github.com/mevzuatlab/mevzuat/infrastructure/api/middleware"
	"github.com/mevzuatlab/mevzuat/infrastructure/api/v1/dto"
)

// SearchRouter handles search, suggestion and statistics endpoints.
type SearchRouter struct {
	client *mevzuat.Client
	logger *slog.Logger
}

// NewSearchRouter creates a SearchRouter.
func NewSearchRouter(client *mevzuat.Client) *SearchRouter {
	return &SearchRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for search endpoints.
func (r *SearchRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Search)

	return router
}

// Search handles POST /api/v1/search. Requests with facet selections get a
// faceted response.
func (r *SearchRouter) Search(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body dto.SearchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: %v", middleware.ErrBadRequest, err), r.logger)
		return
	}

	opts := buildSearchOptions(body)

	if len(body.Facets) > 0 {
		faceted, err := r.client.Search.SearchWithFacets(ctx, body.Query, body.Facets, opts...)
		if err != nil {
			middleware.WriteError(w, req, err, r.logger)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, facetedResponse(body.Query, faceted))
		return
	}

	results, err := r.client.Search.Search(ctx, body.Query, opts...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.SearchResponse{
		Query:      body.Query,
		Results:    searchResults(results),
		TotalCount: len(results),
	})
}

// SuggestionsRouter handles completion endpoints.
type SuggestionsRouter struct {
	client *mevzuat.Client
}

// NewSuggestionsRouter creates a SuggestionsRouter.
func NewSuggestionsRouter(client *mevzuat.Client) *SuggestionsRouter {
	return &SuggestionsRouter{client: client}
}

// Routes returns the chi router for suggestion endpoints.
func (r *SuggestionsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.Suggestions)

	return router
}

// Suggestions handles GET /api/v1/suggestions?q=prefix&limit=n.
func (r *SuggestionsRouter) Suggestions(w http.ResponseWriter, req *http.Request) {
	prefix := req.URL.Query().Get("q")

	limit := 10
	if raw := req.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	suggestions := r.client.Search.Suggestions(prefix, limit)
	middleware.WriteJSON(w, http.StatusOK, dto.SuggestionsResponse{
		Prefix:      prefix,
		Suggestions: suggestions,
	})
}

// StatsRouter handles the statistics endpoint.
type StatsRouter struct {
	client *mevzuat.Client
	logger *slog.Logger
}

// NewStatsRouter creates a StatsRouter.
func NewStatsRouter(client *mevzuat.Client) *StatsRouter {
	return &StatsRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for statistics endpoints.
func (r *StatsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.Stats)

	return router
}

// Stats handles GET /api/v1/stats.
func (r *StatsRouter) Stats(w http.ResponseWriter, req *http.Request) {
	stats, err := r.client.Search.PerformanceStats(req.Context())
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	popular := make([]dto.QueryCount, 0, len(stats.PopularQueries()))
	for _, q := range stats.PopularQueries() {
		popular = append(popular, dto.QueryCount{Query: q.Query(), Count: q.Count()})
	}

	middleware.WriteJSON(w, http.StatusOK, dto.StatsResponse{
		TotalSearches:      stats.TotalSearches(),
		AverageExecutionMS: stats.AverageExecutionMS(),
		IndexedVectors:     stats.IndexedVectors(),
		VocabularyTerms:    stats.VocabularyTerms(),
		CachedQueries:      stats.CachedQueries(),
		SemanticEnabled:    r.client.Search.SemanticEnabled(),
		PopularQueries:     popular,
	})
}

func buildSearchOptions(body dto.SearchRequest) []service.SearchOption {
	var opts []service.SearchOption

	if body.Type != "" {
		opts = append(opts, service.WithSearchType(search.Type(body.Type)))
	}
	if body.Limit > 0 {
		opts = append(opts, service.WithLimit(body.Limit))
	}

	var filters []search.FiltersOption
	if len(body.DocumentTypes) > 0 {
		types := make([]document.Type, len(body.DocumentTypes))
		for i, t := range body.DocumentTypes {
			types[i] = document.NormalizeType(t)
		}
		filters = append(filters, search.WithDocumentTypes(types...))
	}
	if body.YearFrom > 0 || body.YearTo > 0 {
		filters = append(filters, search.WithYearRange(body.YearFrom, body.YearTo))
	}
	if body.IncludeRepealed {
		filters = append(filters, search.WithIncludeRepealed(true))
	}
	if len(filters) > 0 {
		opts = append(opts, service.WithFilters(filters...))
	}

	return opts
}

func searchResults(results []search.Result) []dto.SearchResult {
	out := make([]dto.SearchResult, len(results))
	for i, r := range results {
		item := dto.SearchResult{
			ArticleID:     r.ArticleID(),
			DocumentID:    r.DocumentID(),
			DocumentTitle: r.DocumentTitle(),
			DocumentType:  string(r.DocumentType()),
			LawNumber:     r.LawNumber(),
			ArticleNumber: r.ArticleNumber(),
			ArticleTitle:  r.ArticleTitle(),
			Snippet:       r.Snippet(),
			Highlights:    r.Highlights(),
			Score:         r.Score(),
			MatchType:     string(r.MatchType()),
			IsRepealed:    r.IsRepealed(),
		}
		if date := r.PublicationDate(); !date.IsZero() {
			item.PublicationDate = &date
		}
		out[i] = item
	}
	return out
}

func facetedResponse(query string, faceted service.FacetedSearch) dto.SearchResponse {
	computed := faceted.Facets()

	facets := make([]dto.Facet, 0, len(computed.Facets()))
	for _, f := range computed.Facets() {
		facets = append(facets, facetDTO(f))
	}

	filtered := computed.FilteredCount()
	return dto.SearchResponse{
		Query:          query,
		Results:        searchResults(faceted.Results()),
		TotalCount:     computed.TotalCount(),
		Facets:         facets,
		FilteredCount:  &filtered,
		AppliedFilters: computed.AppliedFilters(),
	}
}

func facetDTO(f facet.Facet) dto.Facet {
	options := make([]dto.FacetOption, 0, len(f.Options()))
	for _, opt := range f.Options() {
		options = append(options, dto.FacetOption{
			Value:    opt.Value(),
			Label:    opt.Label(),
			Count:    opt.Count(),
			Selected: opt.Selected(),
		})
	}
	return dto.Facet{
		Name:    f.Name(),
		Label:   f.Label(),
		Type:    string(f.Kind()),
		Options: options,
	}
}
