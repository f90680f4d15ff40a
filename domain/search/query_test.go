package search

import (
	"testing"
	"time"

	"github.com/mevzuatlab/mevzuat/domain/document"
)

func testRow(docType document.Type, year int, repealed bool) document.ArticleRow {
	var published time.Time
	if year > 0 {
		published = time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC)
	}
	doc := document.NewDocument(1, "Test Kanunu", "1234", docType,
		document.StatusActive, "TBMM", "ceza", published)
	art := document.NewArticle(10, 1, "1", "Amaç", "madde içeriği", repealed, false)
	return document.NewArticleRow(art, doc)
}

func TestFilters_Empty(t *testing.T) {
	f := NewFilters()

	if !f.IsEmpty() {
		t.Error("expected empty filters")
	}
	if !f.Matches(testRow(document.TypeKanun, 2020, false)) {
		t.Error("empty filters must pass active articles")
	}
}

func TestFilters_RepealedExcludedByDefault(t *testing.T) {
	f := NewFilters()

	if f.Matches(testRow(document.TypeKanun, 2020, true)) {
		t.Error("repealed article must be excluded by default")
	}

	f = NewFilters(WithIncludeRepealed(true))
	if !f.Matches(testRow(document.TypeKanun, 2020, true)) {
		t.Error("repealed article must pass when included explicitly")
	}
}

func TestFilters_DocumentTypes(t *testing.T) {
	f := NewFilters(WithDocumentTypes(document.TypeKanun, document.TypeYonetmelik))

	if !f.Matches(testRow(document.TypeKanun, 2020, false)) {
		t.Error("expected listed type to pass")
	}
	if f.Matches(testRow(document.TypeGenelge, 2020, false)) {
		t.Error("expected unlisted type to be excluded")
	}
}

func TestFilters_YearRange(t *testing.T) {
	f := NewFilters(WithYearRange(2010, 2020))

	if !f.Matches(testRow(document.TypeKanun, 2015, false)) {
		t.Error("expected in-range year to pass")
	}
	if f.Matches(testRow(document.TypeKanun, 2005, false)) {
		t.Error("expected too-early year to be excluded")
	}
	if f.Matches(testRow(document.TypeKanun, 2021, false)) {
		t.Error("expected too-late year to be excluded")
	}
	// Unknown publication dates cannot satisfy a year bound.
	if f.Matches(testRow(document.TypeKanun, 0, false)) {
		t.Error("expected zero date to be excluded under a year filter")
	}
}

func TestFilters_OpenBounds(t *testing.T) {
	from := NewFilters(WithYearRange(2010, 0))
	if !from.Matches(testRow(document.TypeKanun, 2030, false)) {
		t.Error("expected open upper bound to pass")
	}
	if from.Matches(testRow(document.TypeKanun, 2009, false)) {
		t.Error("expected lower bound to hold")
	}

	to := NewFilters(WithYearRange(0, 2010))
	if !to.Matches(testRow(document.TypeKanun, 1999, false)) {
		t.Error("expected open lower bound to pass")
	}
}

func TestResult_Record(t *testing.T) {
	row := testRow(document.TypeKanun, 2020, false)
	result := NewResult(row, 0.75, MatchMixed)

	rec := result.Record()

	if rec["document_type"] != string(document.TypeKanun) {
		t.Errorf("expected document_type %q, got %v", document.TypeKanun, rec["document_type"])
	}
	if rec["article_id"] != int64(10) {
		t.Errorf("expected article_id 10, got %v", rec["article_id"])
	}
	if rec["content_length"] != len("madde içeriği") {
		t.Errorf("expected content_length %d, got %v", len("madde içeriği"), rec["content_length"])
	}
	if rec["score"] != 0.75 {
		t.Errorf("expected score 0.75, got %v", rec["score"])
	}
}

func TestResult_WithSnippetCopies(t *testing.T) {
	row := testRow(document.TypeKanun, 2020, false)
	highlights := []string{"<mark>madde</mark> içeriği"}

	result := NewResult(row, 0.5, MatchKeyword).WithSnippet("snippet", highlights)

	highlights[0] = "mutated"
	if got := result.Highlights(); got[0] != "<mark>madde</mark> içeriği" {
		t.Errorf("expected defensive copy, got %q", got[0])
	}
}
