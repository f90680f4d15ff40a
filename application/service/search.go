// Package service provides application layer services that orchestrate
// domain operations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/mevzuatlab/mevzuat/domain/document"
	"github.com/mevzuatlab/mevzuat/domain/facet"
	"github.com/mevzuatlab/mevzuat/domain/search"
	"github.com/mevzuatlab/mevzuat/internal/config"
)

// candidateMultiplier controls how many candidates each retrieval source
// returns relative to the requested limit, so fusion can reorder across
// sources without starving the page.
const candidateMultiplier = 3

// SearchOption configures a search request.
type SearchOption func(*searchConfig)

type searchConfig struct {
	searchType search.Type
	limit      int
	filters    []search.FiltersOption
}

// WithSearchType selects keyword, semantic or mixed retrieval. Mixed is the
// default.
func WithSearchType(t search.Type) SearchOption {
	return func(c *searchConfig) {
		switch t {
		case search.TypeKeyword, search.TypeSemantic, search.TypeMixed:
			c.searchType = t
		}
	}
}

// WithLimit sets the maximum number of results.
func WithLimit(n int) SearchOption {
	return func(c *searchConfig) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithFilters applies metadata filters to the request.
func WithFilters(opts ...search.FiltersOption) SearchOption {
	return func(c *searchConfig) {
		c.filters = append(c.filters, opts...)
	}
}

// Stats is a point-in-time view of engine health.
type Stats struct {
	totalSearches   int64
	averageMS       float64
	indexedVectors  int
	vocabularyTerms int
	cachedQueries   int
	popularQueries  []search.QueryCount
}

// TotalSearches returns the number of searches served.
func (s Stats) TotalSearches() int64 { return s.totalSearches }

// AverageExecutionMS returns the mean search latency in milliseconds.
func (s Stats) AverageExecutionMS() float64 { return s.averageMS }

// IndexedVectors returns the vector index size.
func (s Stats) IndexedVectors() int { return s.indexedVectors }

// VocabularyTerms returns the suggestion vocabulary size.
func (s Stats) VocabularyTerms() int { return s.vocabularyTerms }

// CachedQueries returns the number of cached result sets.
func (s Stats) CachedQueries() int { return s.cachedQueries }

// PopularQueries returns the most frequent queries on record.
func (s Stats) PopularQueries() []search.QueryCount {
	out := make([]search.QueryCount, len(s.popularQueries))
	copy(out, s.popularQueries)
	return out
}

// FacetedSearch pairs ranked results with the facet drill-down computed over
// them.
type FacetedSearch struct {
	results []search.Result
	facets  facet.Results
}

// Results returns the ranked results that passed the facet selection.
func (f FacetedSearch) Results() []search.Result {
	out := make([]search.Result, len(f.results))
	copy(out, f.results)
	return out
}

// Facets returns the facet computation.
func (f FacetedSearch) Facets() facet.Results { return f.facets }

// Search orchestrates hybrid legal document retrieval: query expansion,
// parallel lexical and semantic search, weighted score fusion, metadata
// filtering and snippet generation.
type Search struct {
	store      document.Store
	keyword    search.KeywordStore
	embeddings search.EmbeddingStore
	history    search.HistoryStore
	index      search.Index
	embedder   search.Embedder

	expander   *search.Expander
	vocabulary *search.Vocabulary
	seeds      []string
	facets     *facet.Engine
	fusion     search.Fusion
	stats      *search.Stats
	cache      *resultCache

	defaultLimit int
	batchSize    int
	parallelism  int
	closed       *atomic.Bool
	logger       *slog.Logger
}

// NewSearch creates a Search service. A nil embedder disables semantic
// retrieval; mixed searches then degrade to keyword-only.
func NewSearch(
	store document.Store,
	keyword search.KeywordStore,
	embeddings search.EmbeddingStore,
	history search.HistoryStore,
	index search.Index,
	embedder search.Embedder,
	cfg config.AppConfig,
	closed *atomic.Bool,
	logger *slog.Logger,
) (*Search, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tables := search.DefaultTables()
	if path := cfg.SynonymsPath(); path != "" {
		loaded, err := search.LoadTables(path)
		if err != nil {
			return nil, fmt.Errorf("load synonym tables: %w", err)
		}
		tables = loaded
	}

	definitions := facet.DefaultDefinitions()
	if path := cfg.FacetsPath(); path != "" {
		loaded, err := facet.LoadDefinitions(path)
		if err != nil {
			return nil, fmt.Errorf("load facet definitions: %w", err)
		}
		definitions = loaded
	}

	vocabulary := search.NewVocabulary()
	for _, seed := range tables.FallbackSuggestions {
		vocabulary.AddTerm(seed, 1)
	}

	return &Search{
		store:        store,
		keyword:      keyword,
		embeddings:   embeddings,
		history:      history,
		index:        index,
		embedder:     embedder,
		expander:     search.NewExpander(tables),
		vocabulary:   vocabulary,
		seeds:        tables.FallbackSuggestions,
		facets:       facet.NewEngine(definitions, logger),
		fusion:       search.NewFusion(cfg.KeywordWeight(), cfg.SemanticWeight()),
		stats:        search.NewStats(),
		cache:        newResultCache(cfg.CacheSize()),
		defaultLimit: cfg.SearchLimit(),
		batchSize:    cfg.Embedding().BatchSize(),
		parallelism:  cfg.Embedding().Parallelism(),
		closed:       closed,
		logger:       logger,
	}, nil
}

// SemanticEnabled reports whether an embedding provider is configured.
func (s *Search) SemanticEnabled() bool {
	return s.embedder != nil
}

// Search runs a search and returns ranked results. A blank query returns no
// results and records nothing.
func (s *Search) Search(ctx context.Context, query string, opts ...SearchOption) ([]search.Result, error) {
	if s.closed != nil && s.closed.Load() {
		return nil, ErrClientClosed
	}

	cfg := searchConfig{searchType: search.TypeMixed, limit: s.defaultLimit}
	for _, opt := range opts {
		opt(&cfg)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	start := time.Now()
	filters := search.NewFilters(cfg.filters...)
	key := cacheKey(query, cfg.searchType, cfg.limit, filters)

	if cached, ok := s.cache.Get(key); ok {
		s.finish(ctx, query, cfg.searchType, len(cached), start)
		return cached, nil
	}

	expansion := s.expander.ExpandDetailed(query)

	keywordCands, semanticCands, err := s.retrieve(ctx, query, expansion, filters, cfg)
	if err != nil {
		return nil, err
	}

	fused := s.fusion.Fuse(keywordCands, semanticCands)
	results, err := s.materialize(ctx, fused, filters, cfg.limit, expansion.Terms())
	if err != nil {
		return nil, err
	}

	s.cache.Put(key, results)
	s.vocabulary.AddTerm(query, 1)
	s.finish(ctx, query, cfg.searchType, len(results), start)
	return results, nil
}

// retrieve runs the lexical and semantic sources in parallel, each with the
// metadata filters pushed down so ineligible articles never consume
// candidate slots. A failing source degrades to zero candidates with a
// warning; searches stay available as long as storage for the surviving
// side is. A semantic request without a configured embedder degrades to
// keyword retrieval the same way.
func (s *Search) retrieve(ctx context.Context, query string, expansion search.Expansion, filters search.Filters, cfg searchConfig) ([]search.Candidate, []search.Candidate, error) {
	fetchLimit := cfg.limit * candidateMultiplier

	var (
		keywordCands  []search.Candidate
		semanticCands []search.Candidate
	)

	g, gctx := errgroup.WithContext(ctx)

	wantKeyword := cfg.searchType != search.TypeSemantic || !s.SemanticEnabled()
	wantSemantic := cfg.searchType != search.TypeKeyword && s.SemanticEnabled()

	if cfg.searchType == search.TypeSemantic && !s.SemanticEnabled() {
		s.logger.Warn("semantic retrieval unavailable, serving keyword results",
			"query", query)
	}

	if wantKeyword {
		g.Go(func() error {
			cands, err := s.keyword.Search(gctx, prefixTerms(expansion.Terms()), filters, fetchLimit)
			if err != nil {
				s.logger.Warn("keyword search failed", "query", query, "error", err)
				return nil
			}
			keywordCands = cands
			return nil
		})
	}
	if wantSemantic {
		g.Go(func() error {
			vectors, err := s.embedder.Embed(gctx, []string{s.expander.SemanticQuery(query)})
			if err != nil || len(vectors) == 0 {
				if err == nil {
					err = errors.New("embedder returned no vector")
				}
				s.logger.Warn("semantic search failed", "query", query, "error", err)
				return nil
			}
			semanticCands = s.semanticCandidates(gctx, query, vectors[0], filters, fetchLimit)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return keywordCands, semanticCands, nil
}

// semanticCandidates scans the vector index against the eligible article
// set, so selective filters keep filling candidate slots instead of losing
// them to higher-ranked ineligible neighbours. Repealed articles stay
// indexed for include-repealed searches, so eligibility is always resolved
// against storage.
func (s *Search) semanticCandidates(ctx context.Context, query string, vector []float64, filters search.Filters, fetchLimit int) []search.Candidate {
	ids, err := s.store.ArticleIDsMatching(ctx, filters.ArticleQuery())
	if err != nil {
		s.logger.Warn("semantic eligibility lookup failed", "query", query, "error", err)
		return nil
	}
	eligible := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		eligible[id] = struct{}{}
	}

	scanK := max(s.index.Size(), fetchLimit)
	cands := make([]search.Candidate, 0, fetchLimit)
	for _, m := range s.index.Query(vector, scanK) {
		if _, ok := eligible[m.ArticleID()]; !ok {
			continue
		}
		cands = append(cands, search.NewCandidate(m.ArticleID(), m.Similarity()))
		if len(cands) >= fetchLimit {
			break
		}
	}
	return cands
}

// materialize loads article rows for the fused ranking and builds the final
// result page with snippets. Filters are already pushed into the retrieval
// sources; re-checking rows here only guards against candidates from a
// stale index whose metadata changed since indexing.
func (s *Search) materialize(ctx context.Context, fused []search.Fused, filters search.Filters, limit int, terms []string) ([]search.Result, error) {
	if len(fused) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(fused))
	for i, f := range fused {
		ids[i] = f.ArticleID()
	}

	rows, err := s.store.ArticlesWithDocuments(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load search results: %w", err)
	}
	byID := make(map[int64]document.ArticleRow, len(rows))
	for _, row := range rows {
		byID[row.Article().ID()] = row
	}

	results := make([]search.Result, 0, limit)
	for _, f := range fused {
		row, ok := byID[f.ArticleID()]
		if !ok {
			continue
		}
		if !filters.Matches(row) {
			continue
		}

		result := search.NewResult(row, f.Score(), f.MatchType())
		snippet, highlights := search.BuildSnippet(row.Article().Content(), terms)
		results = append(results, result.WithSnippet(snippet, highlights))

		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// FacetDefinitions returns the configured facet dimensions in declaration
// order.
func (s *Search) FacetDefinitions() []facet.Definition {
	return s.facets.Definitions()
}

// SearchWithFacets runs a search and computes the facet drill-down over the
// full result set before facet selection narrows it.
func (s *Search) SearchWithFacets(ctx context.Context, query string, selected map[string][]string, opts ...SearchOption) (FacetedSearch, error) {
	base, err := s.Search(ctx, query, opts...)
	if err != nil {
		return FacetedSearch{}, err
	}

	records := make([]map[string]any, len(base))
	for i, r := range base {
		records[i] = r.Record()
	}

	computed := s.facets.Compute(records, selected)

	kept := make(map[int64]struct{}, computed.FilteredCount())
	for _, rec := range computed.Records() {
		if id, ok := rec["article_id"].(int64); ok {
			kept[id] = struct{}{}
		}
	}

	filtered := make([]search.Result, 0, len(kept))
	for _, r := range base {
		if _, ok := kept[r.ArticleID()]; ok {
			filtered = append(filtered, r)
		}
	}

	return FacetedSearch{results: filtered, facets: computed}, nil
}

// Suggestions returns completion candidates for a query prefix.
func (s *Search) Suggestions(prefix string, limit int) []string {
	if limit <= 0 {
		limit = 10
	}
	return s.vocabulary.Suggest(prefix, limit)
}

// PerformanceStats reports engine counters. Process-lifetime counters come
// from memory; when the process is fresh the persisted history fills in the
// long-run numbers.
func (s *Search) PerformanceStats(ctx context.Context) (Stats, error) {
	snap := s.stats.Snapshot()

	out := Stats{
		totalSearches:   snap.TotalSearches(),
		averageMS:       snap.AverageExecutionMS(),
		indexedVectors:  s.index.Size(),
		vocabularyTerms: s.vocabulary.Size(),
		cachedQueries:   s.cache.Len(),
	}

	if s.history != nil {
		avg, n, err := s.history.AverageExecutionMS(ctx)
		if err != nil {
			s.logger.Warn("search history unavailable", "error", err)
		} else if out.totalSearches == 0 {
			out.totalSearches = n
			out.averageMS = avg
		}

		popular, err := s.history.PopularQueries(ctx, 5)
		if err == nil {
			out.popularQueries = popular
		}
	}

	return out, nil
}

// RebuildIndex re-reads the whole corpus: lexical index, suggestion
// vocabulary and, when an embedder is configured, article embeddings and the
// vector index. Embedding batches run on a worker pool.
func (s *Search) RebuildIndex(ctx context.Context) error {
	if s.closed != nil && s.closed.Load() {
		return ErrClientClosed
	}

	rows, err := s.store.AllArticles(ctx)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	docs := make([]search.KeywordDocument, len(rows))
	texts := make([]string, len(rows))
	for i, row := range rows {
		text := indexText(row)
		docs[i] = search.NewKeywordDocument(row.Article().ID(), text)
		texts[i] = text
	}

	if err := s.keyword.Reset(ctx); err != nil {
		return fmt.Errorf("reset keyword index: %w", err)
	}
	if err := s.keyword.Index(ctx, docs); err != nil {
		return fmt.Errorf("rebuild keyword index: %w", err)
	}

	s.vocabulary.Replace(texts, s.seeds)
	s.cache.Clear()

	if !s.SemanticEnabled() {
		// Without an embedder the vector index still warms from embeddings
		// persisted by an earlier run.
		return s.WarmIndex(ctx)
	}

	entries, err := s.embedCorpus(ctx, rows)
	if err != nil {
		return err
	}
	s.index.Rebuild(entries)

	s.logger.Info("index rebuilt",
		"articles", len(rows), "vectors", len(entries))
	return nil
}

// embedCorpus embeds every article in batches on a bounded worker pool and
// persists the vectors.
func (s *Search) embedCorpus(ctx context.Context, rows []document.ArticleRow) ([]search.Entry, error) {
	pool, err := ants.NewPool(s.parallelism)
	if err != nil {
		return nil, fmt.Errorf("create embedding pool: %w", err)
	}
	defer pool.Release()

	var (
		mu      sync.Mutex
		entries []search.Entry
		failed  error
	)
	var wg sync.WaitGroup

	for start := 0; start < len(rows); start += s.batchSize {
		end := min(start+s.batchSize, len(rows))
		batch := rows[start:end]

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()

			if ctx.Err() != nil {
				return
			}

			texts := make([]string, len(batch))
			for i, row := range batch {
				texts[i] = indexText(row)
			}

			vectors, err := s.embedder.Embed(ctx, texts)
			if err != nil {
				mu.Lock()
				failed = errors.Join(failed, err)
				mu.Unlock()
				return
			}

			for i, vec := range vectors {
				articleID := batch[i].Article().ID()
				if err := s.embeddings.Save(ctx, articleID, vec); err != nil {
					mu.Lock()
					failed = errors.Join(failed, err)
					mu.Unlock()
					return
				}
				mu.Lock()
				entries = append(entries, search.NewEntry(articleID, vec))
				mu.Unlock()
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			failed = errors.Join(failed, fmt.Errorf("submit embedding batch: %w", submitErr))
			mu.Unlock()
			break
		}
	}

	wg.Wait()
	if failed != nil {
		return nil, fmt.Errorf("embed corpus: %w", failed)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// WarmIndex loads persisted embeddings into the vector index, used on
// startup to avoid re-embedding the corpus.
func (s *Search) WarmIndex(ctx context.Context) error {
	entries, err := s.embeddings.All(ctx)
	if err != nil {
		return fmt.Errorf("warm vector index: %w", err)
	}
	s.index.Rebuild(entries)
	return nil
}

// IndexDocument adds or refreshes one document's articles in the lexical
// and vector indexes without a full rebuild.
func (s *Search) IndexDocument(ctx context.Context, doc document.Document, articles []document.Article) error {
	if s.closed != nil && s.closed.Load() {
		return ErrClientClosed
	}

	docs := make([]search.KeywordDocument, len(articles))
	texts := make([]string, len(articles))
	for i, art := range articles {
		text := indexTextFor(doc, art)
		docs[i] = search.NewKeywordDocument(art.ID(), text)
		texts[i] = text
	}

	if err := s.keyword.Index(ctx, docs); err != nil {
		return fmt.Errorf("index document %d: %w", doc.ID(), err)
	}
	for _, text := range texts {
		s.vocabulary.AddText(text)
	}
	s.cache.Clear()

	if !s.SemanticEnabled() {
		return nil
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed document %d: %w", doc.ID(), err)
	}
	for i, vec := range vectors {
		articleID := articles[i].ID()
		if err := s.embeddings.Save(ctx, articleID, vec); err != nil {
			return fmt.Errorf("persist embedding for article %d: %w", articleID, err)
		}
		s.index.Add(articleID, vec)
	}
	return nil
}

// RemoveDocument drops a document's articles from every index.
func (s *Search) RemoveDocument(ctx context.Context, articleIDs []int64) error {
	if err := s.keyword.Delete(ctx, articleIDs); err != nil {
		return fmt.Errorf("remove articles from keyword index: %w", err)
	}
	if err := s.embeddings.Delete(ctx, articleIDs); err != nil {
		return fmt.Errorf("remove persisted embeddings: %w", err)
	}
	for _, id := range articleIDs {
		s.index.Remove(id)
	}
	s.cache.Clear()
	return nil
}

// finish records one served search in the in-memory counters and the
// persistent history. History failures are logged, never surfaced.
func (s *Search) finish(ctx context.Context, query string, searchType search.Type, resultCount int, start time.Time) {
	elapsed := time.Since(start)
	s.stats.Record(elapsed)

	if s.history == nil {
		return
	}
	entry := search.NewHistoryEntry(query, searchType, resultCount,
		float64(elapsed.Microseconds())/1000.0, time.Now().UTC())
	if err := s.history.Add(ctx, entry); err != nil {
		s.logger.Warn("recording search history failed", "error", err)
	}
}

// indexText builds the text indexed for one article: the document title and
// article heading give lexical and semantic context beyond the body.
func indexText(row document.ArticleRow) string {
	return indexTextFor(row.Document(), row.Article())
}

func indexTextFor(doc document.Document, art document.Article) string {
	parts := make([]string, 0, 3)
	if doc.Title() != "" {
		parts = append(parts, doc.Title())
	}
	if art.Title() != "" {
		parts = append(parts, art.Title())
	}
	parts = append(parts, art.Content())
	return strings.Join(parts, "\n")
}

// prefixTerms appends the FTS prefix operator to single-word terms so
// suffixed Turkish forms still match. Phrases and very short terms stay
// exact.
func prefixTerms(terms []string) []string {
	out := make([]string, len(terms))
	for i, term := range terms {
		if !strings.ContainsAny(term, " ") && len([]rune(term)) >= 4 {
			out[i] = term + "*"
			continue
		}
		out[i] = term
	}
	return out
}

func cacheKey(query string, searchType search.Type, limit int, filters search.Filters) string {
	var b strings.Builder
	b.WriteString(query)
	b.WriteString("|")
	b.WriteString(string(searchType))
	fmt.Fprintf(&b, "|%d", limit)
	for _, t := range filters.DocumentTypes() {
		b.WriteString("|t:")
		b.WriteString(string(t))
	}
	fmt.Fprintf(&b, "|y:%d-%d|r:%t", filters.YearFrom(), filters.YearTo(), filters.IncludeRepealed())
	return b.String()
}
