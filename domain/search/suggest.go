package search

import (
	"sort"
	"strings"
	"sync"

	"github.com/mevzuatlab/mevzuat/internal/turkish"
)

// minPrefixLen is the shortest prefix worth completing.
const minPrefixLen = 2

// Vocabulary tracks term frequencies across the indexed corpus and answers
// prefix-completion queries. Safe for concurrent use: index rebuilds refresh
// the vocabulary while searches read it.
type Vocabulary struct {
	mu    sync.RWMutex
	freq  map[string]int    // folded term -> occurrences
	forms map[string]string // folded term -> display form
}

// NewVocabulary creates an empty Vocabulary.
func NewVocabulary() *Vocabulary {
	return &Vocabulary{
		freq:  make(map[string]int),
		forms: make(map[string]string),
	}
}

// AddText tokenizes text and counts each term.
func (v *Vocabulary) AddText(text string) {
	tokens := turkish.Tokenize(text)

	v.mu.Lock()
	defer v.mu.Unlock()
	for _, tok := range tokens {
		if len([]rune(tok)) < minPrefixLen {
			continue
		}
		key := turkish.Fold(tok)
		v.freq[key]++
		if _, ok := v.forms[key]; !ok {
			v.forms[key] = tok
		}
	}
}

// AddTerm counts a multi-word phrase as a single suggestion candidate.
func (v *Vocabulary) AddTerm(term string, count int) {
	term = strings.TrimSpace(term)
	if term == "" || count <= 0 {
		return
	}
	key := turkish.Fold(term)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.freq[key] += count
	if _, ok := v.forms[key]; !ok {
		v.forms[key] = turkish.ToLower(term)
	}
}

// Replace swaps the vocabulary contents for ones built from the given texts
// and seed phrases, used on index rebuild.
func (v *Vocabulary) Replace(texts []string, seeds []string) {
	fresh := NewVocabulary()
	for _, t := range texts {
		fresh.AddText(t)
	}
	for _, s := range seeds {
		fresh.AddTerm(s, 1)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.freq = fresh.freq
	v.forms = fresh.forms
}

// Size returns the number of distinct terms.
func (v *Vocabulary) Size() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.freq)
}

// Suggest returns up to limit deduplicated completions for prefix, ordered
// by descending frequency then lexicographically. Matching is
// case-insensitive and diacritics-insensitive.
func (v *Vocabulary) Suggest(prefix string, limit int) []string {
	prefix = strings.TrimSpace(prefix)
	if len([]rune(prefix)) < minPrefixLen || limit <= 0 {
		return nil
	}
	folded := turkish.Fold(prefix)

	type scored struct {
		form string
		n    int
	}

	v.mu.RLock()
	var matches []scored
	for key, n := range v.freq {
		if strings.HasPrefix(key, folded) {
			matches = append(matches, scored{form: v.forms[key], n: n})
		}
	}
	v.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].n != matches[j].n {
			return matches[i].n > matches[j].n
		}
		return matches[i].form < matches[j].form
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.form
	}
	return out
}
