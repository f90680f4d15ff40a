package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/mevzuatlab/mevzuat/internal/turkish"
)

// Expansion weights per term origin. The original query terms always carry
// weight 1.0.
const (
	synonymWeight      = 0.8
	abbreviationWeight = 0.9
	contextWeight      = 0.6
)

// maxContextTerms bounds how many same-field terms a context lookup adds.
const maxContextTerms = 3

// compoundPatterns match multi-word legal references such as "ceza kanunu"
// or "ihale yönetmeliği" so they survive expansion as a unit.
var compoundPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\p{L}+)\s+(kanunu?)`),
	regexp.MustCompile(`(\p{L}+)\s+(yönetmeliği?)`),
	regexp.MustCompile(`(\p{L}+)\s+(tüzüğü?)`),
	regexp.MustCompile(`(\p{L}+)\s+(genelgesi?)`),
	regexp.MustCompile(`(\p{L}+)\s+(tebliği?)`),
	regexp.MustCompile(`(\p{L}+)\s+(kararı?)`),
}

// Expansion is the detailed outcome of expanding one query.
type Expansion struct {
	original     string
	terms        []string
	weights      map[string]float64
	legalContext string
}

// Original returns the raw query.
func (e Expansion) Original() string { return e.original }

// Terms returns every term in the expanded set. The original query tokens
// come first; expansion never removes them.
func (e Expansion) Terms() []string {
	out := make([]string, len(e.terms))
	copy(out, e.terms)
	return out
}

// Weights returns the per-term expansion weights.
func (e Expansion) Weights() map[string]float64 {
	out := make(map[string]float64, len(e.weights))
	for k, v := range e.weights {
		out[k] = v
	}
	return out
}

// Weight returns one term's expansion weight, 0 for unknown terms.
func (e Expansion) Weight(term string) float64 { return e.weights[term] }

// LegalContext returns the detected legal field key (ceza, medeni, ...),
// empty when no field dominated.
func (e Expansion) LegalContext() string { return e.legalContext }

// Expander expands queries using the legal synonym, abbreviation and context
// tables. The tables are read-only after construction, so an Expander is safe
// for concurrent use.
type Expander struct {
	synonyms       map[string][]string // folded key -> synonyms
	abbreviations  map[string]string   // folded abbr -> full form
	fullForms      map[string]string   // folded full form -> abbr (lowercase)
	fullFormKeys   []string            // sorted, for deterministic scans
	contexts       map[string]string
	contextMembers map[string][]string // field -> member terms, sorted
	stopwords      map[string]struct{}
}

// NewExpander creates an Expander from the given tables.
func NewExpander(tables Tables) *Expander {
	e := &Expander{
		synonyms:       make(map[string][]string, len(tables.Synonyms)),
		abbreviations:  make(map[string]string, len(tables.Abbreviations)),
		fullForms:      make(map[string]string, len(tables.Abbreviations)),
		contexts:       make(map[string]string, len(tables.Contexts)),
		contextMembers: make(map[string][]string),
		stopwords:      make(map[string]struct{}, len(tables.Stopwords)+len(tables.LegalStopwords)),
	}

	for term, syns := range tables.Synonyms {
		e.synonyms[turkish.Fold(term)] = syns
	}
	for abbr, full := range tables.Abbreviations {
		e.abbreviations[turkish.Fold(abbr)] = full
		folded := turkish.Fold(full)
		e.fullForms[folded] = turkish.ToLower(abbr)
		e.fullFormKeys = append(e.fullFormKeys, folded)
	}
	sort.Strings(e.fullFormKeys)
	for term, field := range tables.Contexts {
		folded := turkish.Fold(term)
		e.contexts[folded] = field
		e.contextMembers[field] = append(e.contextMembers[field], turkish.ToLower(term))
	}
	for _, members := range e.contextMembers {
		sort.Strings(members)
	}
	for _, w := range tables.Stopwords {
		e.stopwords[turkish.Fold(w)] = struct{}{}
	}
	for _, w := range tables.LegalStopwords {
		e.stopwords[turkish.Fold(w)] = struct{}{}
	}

	return e
}

// Expand returns the expanded term set for a query. The original tokens are
// always present and come first; lookups are case-insensitive and
// diacritics-insensitive; tokens with no table match pass through unchanged.
func (e *Expander) Expand(query string) []string {
	return e.ExpandDetailed(query).Terms()
}

// ExpandDetailed expands a query and reports per-term weights and the
// detected legal context.
func (e *Expander) ExpandDetailed(query string) Expansion {
	normalized := strings.Join(strings.Fields(turkish.ToLower(query)), " ")
	tokens := turkish.Tokenize(query)

	exp := Expansion{
		original: query,
		weights:  make(map[string]float64, len(tokens)*2),
	}

	seen := make(map[string]struct{}, len(tokens)*2)
	add := func(term string, weight float64) {
		if term == "" {
			return
		}
		if _, dup := seen[term]; dup {
			return
		}
		seen[term] = struct{}{}
		exp.terms = append(exp.terms, term)
		exp.weights[term] = weight
	}

	// Original tokens first, weight 1. Never removed, stopword or not.
	for _, tok := range tokens {
		add(tok, 1.0)
	}

	for _, tok := range tokens {
		folded := turkish.Fold(tok)
		if _, stop := e.stopwords[folded]; stop || len([]rune(tok)) < 3 {
			continue
		}

		for _, syn := range e.synonyms[folded] {
			add(turkish.ToLower(syn), synonymWeight)
		}
		if full, ok := e.abbreviations[folded]; ok {
			add(turkish.ToLower(full), abbreviationWeight)
		}
	}

	// Full forms are usually multi-word ("türk ceza kanunu"), so they are
	// matched against the whole query rather than per token.
	foldedQuery := turkish.Fold(normalized)
	for _, full := range e.fullFormKeys {
		if strings.Contains(foldedQuery, full) {
			add(e.fullForms[full], abbreviationWeight)
		}
	}

	// Compound legal references from the normalized query text.
	for _, pattern := range compoundPatterns {
		for _, m := range pattern.FindAllString(normalized, -1) {
			add(m, 1.0)
		}
	}

	exp.legalContext = e.detectContext(tokens)
	if exp.legalContext != "" {
		for _, member := range e.contextTermsFor(exp.legalContext, tokens) {
			add(member, contextWeight)
		}
	}

	return exp
}

// SemanticQuery builds the text handed to the embedding backend: the raw
// query enriched with the detected legal field and the heaviest expansion
// terms, mirroring how articles themselves mention their field.
func (e *Expander) SemanticQuery(query string) string {
	exp := e.ExpandDetailed(query)

	parts := []string{strings.TrimSpace(query)}
	if exp.legalContext != "" {
		parts = append(parts, exp.legalContext+" hukuku")
	}

	extra := exp.Terms()
	sort.SliceStable(extra, func(i, j int) bool {
		return exp.weights[extra[i]] > exp.weights[extra[j]]
	})
	for i, term := range extra {
		if i >= 5 {
			break
		}
		if !strings.Contains(parts[0], term) {
			parts = append(parts, term)
		}
	}

	return strings.Join(parts, " ")
}

func (e *Expander) detectContext(tokens []string) string {
	scores := make(map[string]int)
	for _, tok := range tokens {
		if field, ok := e.contexts[turkish.Fold(tok)]; ok {
			scores[field]++
		}
	}
	if len(scores) == 0 {
		return ""
	}

	best, bestScore := "", 0
	fields := make([]string, 0, len(scores))
	for field := range scores {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		if scores[field] > bestScore {
			best, bestScore = field, scores[field]
		}
	}
	return best
}

func (e *Expander) contextTermsFor(field string, queryTokens []string) []string {
	present := make(map[string]struct{}, len(queryTokens))
	for _, tok := range queryTokens {
		present[turkish.Fold(tok)] = struct{}{}
	}

	var out []string
	for _, member := range e.contextMembers[field] {
		if _, already := present[turkish.Fold(member)]; already {
			continue
		}
		out = append(out, member)
		if len(out) >= maxContextTerms {
			break
		}
	}
	return out
}
