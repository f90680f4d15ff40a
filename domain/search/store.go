package search

import (
	"context"
	"time"
)

// KeywordDocument is one article's text queued for lexical indexing.
type KeywordDocument struct {
	articleID int64
	text      string
}

// NewKeywordDocument creates a KeywordDocument.
func NewKeywordDocument(articleID int64, text string) KeywordDocument {
	return KeywordDocument{articleID: articleID, text: text}
}

// ArticleID returns the article id.
func (d KeywordDocument) ArticleID() int64 { return d.articleID }

// Text returns the indexed text.
func (d KeywordDocument) Text() string { return d.text }

// KeywordStore indexes article text and answers lexical queries.
type KeywordStore interface {
	// Index adds documents to the lexical index. Already indexed articles
	// are replaced.
	Index(ctx context.Context, docs []KeywordDocument) error

	// Search matches any of the given terms and returns candidates ordered
	// by descending relevance. Metadata filters constrain the candidate
	// set before the limit is applied, so selective filters never starve
	// behind higher-ranked ineligible matches. Scores are backend-specific
	// and only comparable within one query.
	Search(ctx context.Context, terms []string, filters Filters, limit int) ([]Candidate, error)

	// Delete removes articles from the index. Unknown ids are a no-op.
	Delete(ctx context.Context, articleIDs []int64) error

	// Reset drops the whole index.
	Reset(ctx context.Context) error
}

// EmbeddingStore persists article embeddings so index rebuilds survive
// restarts without re-embedding the corpus.
type EmbeddingStore interface {
	// Save inserts or replaces one article's embedding.
	Save(ctx context.Context, articleID int64, vector []float64) error

	// All returns every persisted embedding.
	All(ctx context.Context) ([]Entry, error)

	// Delete removes embeddings for the given articles.
	Delete(ctx context.Context, articleIDs []int64) error
}

// HistoryEntry is one recorded search.
type HistoryEntry struct {
	query       string
	searchType  Type
	resultCount int
	executionMS float64
	at          time.Time
}

// NewHistoryEntry creates a HistoryEntry.
func NewHistoryEntry(query string, searchType Type, resultCount int, executionMS float64, at time.Time) HistoryEntry {
	return HistoryEntry{
		query:       query,
		searchType:  searchType,
		resultCount: resultCount,
		executionMS: executionMS,
		at:          at,
	}
}

// Query returns the raw query text.
func (h HistoryEntry) Query() string { return h.query }

// SearchType returns the search type used.
func (h HistoryEntry) SearchType() Type { return h.searchType }

// ResultCount returns how many results the search produced.
func (h HistoryEntry) ResultCount() int { return h.resultCount }

// ExecutionMS returns the search latency in milliseconds.
func (h HistoryEntry) ExecutionMS() float64 { return h.executionMS }

// At returns when the search ran.
func (h HistoryEntry) At() time.Time { return h.at }

// HistoryStore persists the search log backing performance statistics and
// popular-query reporting.
type HistoryStore interface {
	// Add records one search.
	Add(ctx context.Context, entry HistoryEntry) error

	// Recent returns the latest entries, newest first.
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)

	// PopularQueries returns the most frequent queries with their counts,
	// most frequent first.
	PopularQueries(ctx context.Context, limit int) ([]QueryCount, error)

	// AverageExecutionMS returns the mean recorded latency and the entry
	// count.
	AverageExecutionMS(ctx context.Context) (float64, int64, error)
}

// QueryCount pairs a query with how often it was searched.
type QueryCount struct {
	query string
	count int64
}

// NewQueryCount creates a QueryCount.
func NewQueryCount(query string, count int64) QueryCount {
	return QueryCount{query: query, count: count}
}

// Query returns the query text.
func (q QueryCount) Query() string { return q.query }

// Count returns the occurrence count.
func (q QueryCount) Count() int64 { return q.count }
