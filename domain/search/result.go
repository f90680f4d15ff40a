package search

import (
	"time"

	"github.com/mevzuatlab/mevzuat/domain/document"
)

// MatchType records which retrieval path produced a result.
type MatchType string

// MatchType values.
const (
	MatchKeyword  MatchType = "keyword"
	MatchSemantic MatchType = "semantic"
	MatchMixed    MatchType = "mixed"
)

// Result represents one ranked search hit. Results are constructed fresh per
// query and never persisted.
//
// Score is normalized into [0,1] per retrieval source before fusion, but the
// fused value can exceed 1 when the configured keyword and semantic weights
// sum above 1; callers must treat the score as a ranking key, not a
// probability.
type Result struct {
	articleID       int64
	documentID      int64
	documentTitle   string
	documentType    document.Type
	lawNumber       string
	articleNumber   string
	articleTitle    string
	content         string
	snippet         string
	highlights      []string
	score           float64
	matchType       MatchType
	legalDomain     string
	institution     string
	status          document.Status
	publicationDate time.Time
	isRepealed      bool
	isAmended       bool
}

// NewResult builds a Result from an article row, a score, and a match type.
func NewResult(row document.ArticleRow, score float64, matchType MatchType) Result {
	art := row.Article()
	doc := row.Document()
	return Result{
		articleID:       art.ID(),
		documentID:      doc.ID(),
		documentTitle:   doc.Title(),
		documentType:    doc.Type(),
		lawNumber:       doc.LawNumber(),
		articleNumber:   art.Number(),
		articleTitle:    art.Title(),
		content:         art.Content(),
		score:           score,
		matchType:       matchType,
		legalDomain:     doc.LegalDomain(),
		institution:     doc.Institution(),
		status:          doc.Status(),
		publicationDate: doc.PublicationDate(),
		isRepealed:      art.IsRepealed(),
		isAmended:       art.IsAmended(),
	}
}

// ArticleID returns the stable article identifier.
func (r Result) ArticleID() int64 { return r.articleID }

// DocumentID returns the stable document identifier.
func (r Result) DocumentID() int64 { return r.documentID }

// DocumentTitle returns the owning document's title.
func (r Result) DocumentTitle() string { return r.documentTitle }

// DocumentType returns the normalized document category.
func (r Result) DocumentType() document.Type { return r.documentType }

// LawNumber returns the statute number, empty when not applicable.
func (r Result) LawNumber() string { return r.lawNumber }

// ArticleNumber returns the article number, empty when absent.
func (r Result) ArticleNumber() string { return r.articleNumber }

// ArticleTitle returns the article heading, empty when absent.
func (r Result) ArticleTitle() string { return r.articleTitle }

// Content returns the full article text.
func (r Result) Content() string { return r.content }

// Snippet returns a bounded excerpt containing a match, empty when none was
// generated.
func (r Result) Snippet() string { return r.snippet }

// Highlights returns marked excerpts around matched terms.
func (r Result) Highlights() []string {
	if r.highlights == nil {
		return nil
	}
	out := make([]string, len(r.highlights))
	copy(out, r.highlights)
	return out
}

// Score returns the ranking score.
func (r Result) Score() float64 { return r.score }

// MatchType returns which retrieval path produced the result.
func (r Result) MatchType() MatchType { return r.matchType }

// PublicationDate returns the owning document's publication date.
func (r Result) PublicationDate() time.Time { return r.publicationDate }

// IsRepealed reports whether the article is repealed.
func (r Result) IsRepealed() bool { return r.isRepealed }

// WithScore returns a copy with the score and match type replaced.
func (r Result) WithScore(score float64, matchType MatchType) Result {
	r.score = score
	r.matchType = matchType
	return r
}

// WithSnippet returns a copy carrying the excerpt and highlights.
func (r Result) WithSnippet(snippet string, highlights []string) Result {
	r.snippet = snippet
	if highlights != nil {
		r.highlights = make([]string, len(highlights))
		copy(r.highlights, highlights)
	}
	return r
}

// Record exposes the result as a flat field map for facet extraction.
// Keys mirror the storage row names used by facet definitions.
func (r Result) Record() map[string]any {
	return map[string]any{
		"article_id":       r.articleID,
		"document_id":      r.documentID,
		"document_title":   r.documentTitle,
		"document_type":    string(r.documentType),
		"law_number":       r.lawNumber,
		"article_number":   r.articleNumber,
		"article_title":    r.articleTitle,
		"content":          r.content,
		"content_length":   len(r.content),
		"legal_domain":     r.legalDomain,
		"institution":      r.institution,
		"status":           string(r.status),
		"publication_date": r.publicationDate,
		"is_repealed":      r.isRepealed,
		"is_amended":       r.isAmended,
		"score":            r.score,
	}
}
