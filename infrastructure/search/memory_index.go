package search

import (
	"sort"
	"sync"
	"sync/atomic"

	domainsearch "github.com/mevzuatlab/mevzuat/domain/search"
)

// storedVector pairs an article id with its embedding.
type storedVector struct {
	articleID int64
	embedding []float64
}

// snapshot is an immutable view of the index contents. Queries read one
// snapshot for their whole run; mutations install a new one.
type snapshot struct {
	vectors []storedVector
	byID    map[int64]int
}

// MemoryIndex is an in-memory vector index with copy-on-write semantics:
// Rebuild, Add and Remove swap a new snapshot atomically while in-flight
// queries keep reading the previous one. Implements search.Index.
type MemoryIndex struct {
	current atomic.Pointer[snapshot]
	writeMu sync.Mutex
}

// NewMemoryIndex creates an empty MemoryIndex.
func NewMemoryIndex() *MemoryIndex {
	idx := &MemoryIndex{}
	idx.current.Store(&snapshot{byID: map[int64]int{}})
	return idx
}

// Query returns the k most similar articles ordered by descending cosine
// similarity, ties broken by ascending article id.
func (idx *MemoryIndex) Query(vector []float64, k int) []domainsearch.Match {
	snap := idx.current.Load()
	if len(snap.vectors) == 0 || k <= 0 {
		return nil
	}

	matches := make([]domainsearch.Match, 0, len(snap.vectors))
	for _, v := range snap.vectors {
		sim := CosineSimilarity(vector, v.embedding)
		matches = append(matches, domainsearch.NewMatch(v.articleID, sim))
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity() != matches[j].Similarity() {
			return matches[i].Similarity() > matches[j].Similarity()
		}
		return matches[i].ArticleID() < matches[j].ArticleID()
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k]
}

// Rebuild atomically replaces the index contents.
func (idx *MemoryIndex) Rebuild(entries []domainsearch.Entry) {
	fresh := &snapshot{
		vectors: make([]storedVector, 0, len(entries)),
		byID:    make(map[int64]int, len(entries)),
	}
	for _, e := range entries {
		if _, dup := fresh.byID[e.ArticleID()]; dup {
			continue
		}
		fresh.byID[e.ArticleID()] = len(fresh.vectors)
		fresh.vectors = append(fresh.vectors, storedVector{
			articleID: e.ArticleID(),
			embedding: e.Vector(),
		})
	}

	idx.writeMu.Lock()
	defer idx.writeMu.Unlock()
	idx.current.Store(fresh)
}

// Add inserts or replaces one article's vector.
func (idx *MemoryIndex) Add(articleID int64, vector []float64) {
	cp := make([]float64, len(vector))
	copy(cp, vector)

	idx.writeMu.Lock()
	defer idx.writeMu.Unlock()

	snap := idx.current.Load()
	fresh := snap.clone()
	if pos, ok := fresh.byID[articleID]; ok {
		fresh.vectors[pos] = storedVector{articleID: articleID, embedding: cp}
	} else {
		fresh.byID[articleID] = len(fresh.vectors)
		fresh.vectors = append(fresh.vectors, storedVector{articleID: articleID, embedding: cp})
	}
	idx.current.Store(fresh)
}

// Remove deletes one article's vector. Unknown ids are a no-op.
func (idx *MemoryIndex) Remove(articleID int64) {
	idx.writeMu.Lock()
	defer idx.writeMu.Unlock()

	snap := idx.current.Load()
	if _, ok := snap.byID[articleID]; !ok {
		return
	}

	fresh := &snapshot{
		vectors: make([]storedVector, 0, len(snap.vectors)-1),
		byID:    make(map[int64]int, len(snap.vectors)-1),
	}
	for _, v := range snap.vectors {
		if v.articleID == articleID {
			continue
		}
		fresh.byID[v.articleID] = len(fresh.vectors)
		fresh.vectors = append(fresh.vectors, v)
	}
	idx.current.Store(fresh)
}

// Size returns the number of indexed vectors.
func (idx *MemoryIndex) Size() int {
	return len(idx.current.Load().vectors)
}

func (s *snapshot) clone() *snapshot {
	fresh := &snapshot{
		vectors: make([]storedVector, len(s.vectors)),
		byID:    make(map[int64]int, len(s.byID)),
	}
	copy(fresh.vectors, s.vectors)
	for id, pos := range s.byID {
		fresh.byID[id] = pos
	}
	return fresh
}
