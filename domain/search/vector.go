package search

import "context"

// Match is one approximate-nearest-neighbour hit.
type Match struct {
	articleID  int64
	similarity float64
}

// NewMatch creates a Match.
func NewMatch(articleID int64, similarity float64) Match {
	return Match{articleID: articleID, similarity: similarity}
}

// ArticleID returns the matched article id.
func (m Match) ArticleID() int64 { return m.articleID }

// Similarity returns the cosine similarity, in [0,1] for normalized vectors.
func (m Match) Similarity() float64 { return m.similarity }

// Entry pairs an article id with its embedding vector for index rebuilds.
type Entry struct {
	articleID int64
	vector    []float64
}

// NewEntry creates an Entry. The vector is copied.
func NewEntry(articleID int64, vector []float64) Entry {
	v := make([]float64, len(vector))
	copy(v, vector)
	return Entry{articleID: articleID, vector: v}
}

// ArticleID returns the article id.
func (e Entry) ArticleID() int64 { return e.articleID }

// Vector returns the embedding vector.
func (e Entry) Vector() []float64 {
	v := make([]float64, len(e.vector))
	copy(v, e.vector)
	return v
}

// Index maintains dense embeddings for indexed articles and answers
// nearest-neighbour queries.
//
// Implementations must let mutation run concurrently with queries: readers
// never observe a partially rebuilt index. Rebuild replaces the whole index
// atomically; in-flight queries finish against the previous contents.
type Index interface {
	// Query returns the k most similar articles, ordered by descending
	// similarity with ties broken by ascending article id.
	Query(vector []float64, k int) []Match

	// Rebuild atomically replaces the index contents.
	Rebuild(entries []Entry)

	// Add inserts or replaces one article's vector.
	Add(articleID int64, vector []float64)

	// Remove deletes one article's vector. Removing an id that is not
	// indexed is a no-op.
	Remove(articleID int64)

	// Size returns the number of indexed vectors.
	Size() int
}

// Embedder converts text into embedding vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}
