// Package search provides domain types for hybrid legal document retrieval.
package search

import (
	"github.com/mevzuatlab/mevzuat/domain/document"
)

// Type represents the type of search to perform.
type Type string

// Type values.
const (
	TypeKeyword  Type = "keyword"
	TypeSemantic Type = "semantic"
	TypeMixed    Type = "mixed"
)

// Filters represents pre-scoring metadata constraints. They narrow the
// candidate set before ranking; an empty Filters excludes nothing.
type Filters struct {
	documentTypes   []document.Type
	yearFrom        int
	yearTo          int
	includeRepealed bool
}

// FiltersOption is a functional option for Filters.
type FiltersOption func(*Filters)

// WithDocumentTypes restricts results to the given normalized categories.
func WithDocumentTypes(types ...document.Type) FiltersOption {
	return func(f *Filters) {
		if len(types) > 0 {
			f.documentTypes = make([]document.Type, len(types))
			copy(f.documentTypes, types)
		}
	}
}

// WithYearRange restricts results to documents published in [from, to].
// A zero bound is open.
func WithYearRange(from, to int) FiltersOption {
	return func(f *Filters) {
		f.yearFrom = from
		f.yearTo = to
	}
}

// WithIncludeRepealed includes repealed ("mülga") articles in results.
func WithIncludeRepealed(include bool) FiltersOption {
	return func(f *Filters) {
		f.includeRepealed = include
	}
}

// NewFilters creates Filters with options.
func NewFilters(opts ...FiltersOption) Filters {
	f := Filters{}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// DocumentTypes returns the document type filter.
func (f Filters) DocumentTypes() []document.Type {
	if f.documentTypes == nil {
		return nil
	}
	result := make([]document.Type, len(f.documentTypes))
	copy(result, f.documentTypes)
	return result
}

// YearFrom returns the inclusive lower publication year bound, 0 when open.
func (f Filters) YearFrom() int { return f.yearFrom }

// YearTo returns the inclusive upper publication year bound, 0 when open.
func (f Filters) YearTo() int { return f.yearTo }

// IncludeRepealed reports whether repealed articles are eligible.
func (f Filters) IncludeRepealed() bool { return f.includeRepealed }

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	return len(f.documentTypes) == 0 && f.yearFrom == 0 && f.yearTo == 0 && !f.includeRepealed
}

// ArticleQuery converts the filters into the storage-level eligibility
// query, so retrieval backends apply them before any candidate cutoff.
func (f Filters) ArticleQuery() document.ArticleQuery {
	return document.ArticleQuery{
		Types:           f.DocumentTypes(),
		YearFrom:        f.yearFrom,
		YearTo:          f.yearTo,
		IncludeRepealed: f.includeRepealed,
	}
}

// Matches reports whether an article row passes the filters.
func (f Filters) Matches(row document.ArticleRow) bool {
	return f.ArticleQuery().Matches(row)
}
