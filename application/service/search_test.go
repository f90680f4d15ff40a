package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/mevzuatlab/mevzuat/domain/document"
	"github.com/mevzuatlab/mevzuat/domain/search"
	"github.com/mevzuatlab/mevzuat/internal/config"
)

// fakeDocStore implements document.Store for testing.
type fakeDocStore struct {
	rows []document.ArticleRow
}

func (f *fakeDocStore) SaveDocument(_ context.Context, doc document.Document) (document.Document, error) {
	return doc, nil
}

func (f *fakeDocStore) SaveArticles(_ context.Context, articles []document.Article) ([]document.Article, error) {
	return articles, nil
}

func (f *fakeDocStore) DocumentByID(_ context.Context, _ int64) (document.Document, error) {
	return document.Document{}, nil
}

func (f *fakeDocStore) ArticleWithDocument(_ context.Context, articleID int64) (document.ArticleRow, error) {
	for _, row := range f.rows {
		if row.Article().ID() == articleID {
			return row, nil
		}
	}
	return document.ArticleRow{}, errors.New("not found")
}

func (f *fakeDocStore) ArticlesWithDocuments(_ context.Context, articleIDs []int64) ([]document.ArticleRow, error) {
	byID := make(map[int64]document.ArticleRow, len(f.rows))
	for _, row := range f.rows {
		byID[row.Article().ID()] = row
	}
	var out []document.ArticleRow
	for _, id := range articleIDs {
		if row, ok := byID[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeDocStore) AllArticles(_ context.Context) ([]document.ArticleRow, error) {
	return f.rows, nil
}

func (f *fakeDocStore) ArticlesByDocument(_ context.Context, documentID int64) ([]document.Article, error) {
	var out []document.Article
	for _, row := range f.rows {
		if row.Document().ID() == documentID {
			out = append(out, row.Article())
		}
	}
	return out, nil
}

func (f *fakeDocStore) DeleteDocument(_ context.Context, _ int64) error { return nil }

func (f *fakeDocStore) ArticleIDsMatching(_ context.Context, q document.ArticleQuery) ([]int64, error) {
	var ids []int64
	for _, row := range f.rows {
		if q.Matches(row) {
			ids = append(ids, row.Article().ID())
		}
	}
	return ids, nil
}

// fakeKeywordStore implements search.KeywordStore for testing. When rows is
// set the fake applies the filters before its limit, like the real stores;
// with rows nil it returns the canned candidates untouched.
type fakeKeywordStore struct {
	candidates  []search.Candidate
	rows        []document.ArticleRow
	err         error
	searches    int
	lastFilters search.Filters
	indexed     []search.KeywordDocument
	resets      int
}

func (f *fakeKeywordStore) Index(_ context.Context, docs []search.KeywordDocument) error {
	f.indexed = append(f.indexed, docs...)
	return nil
}

func (f *fakeKeywordStore) Search(_ context.Context, _ []string, filters search.Filters, limit int) ([]search.Candidate, error) {
	f.searches++
	f.lastFilters = filters
	if f.err != nil {
		return nil, f.err
	}
	if f.rows == nil {
		return f.candidates, nil
	}

	byID := make(map[int64]document.ArticleRow, len(f.rows))
	for _, row := range f.rows {
		byID[row.Article().ID()] = row
	}
	var out []search.Candidate
	for _, c := range f.candidates {
		row, ok := byID[c.ArticleID()]
		if !ok || !filters.Matches(row) {
			continue
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeKeywordStore) Delete(_ context.Context, _ []int64) error { return nil }

func (f *fakeKeywordStore) Reset(_ context.Context) error {
	f.resets++
	f.indexed = nil
	return nil
}

// fakeIndex implements search.Index for testing.
type fakeIndex struct {
	matches []search.Match
	entries []search.Entry
}

func (f *fakeIndex) Query(_ []float64, k int) []search.Match {
	if k < len(f.matches) {
		return f.matches[:k]
	}
	return f.matches
}

func (f *fakeIndex) Rebuild(entries []search.Entry) { f.entries = entries }
func (f *fakeIndex) Add(articleID int64, vector []float64) {
	f.entries = append(f.entries, search.NewEntry(articleID, vector))
}
func (f *fakeIndex) Remove(_ int64) {}
func (f *fakeIndex) Size() int      { return len(f.entries) }

// fakeEmbedder implements search.Embedder for testing.
type fakeEmbedder struct {
	vector []float64
	err    error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i := range texts {
		out[i] = f.vector
	}
	return out, nil
}

// fakeEmbeddingStore implements search.EmbeddingStore for testing.
type fakeEmbeddingStore struct {
	saved map[int64][]float64
}

func (f *fakeEmbeddingStore) Save(_ context.Context, articleID int64, vector []float64) error {
	if f.saved == nil {
		f.saved = make(map[int64][]float64)
	}
	f.saved[articleID] = vector
	return nil
}

func (f *fakeEmbeddingStore) All(_ context.Context) ([]search.Entry, error) {
	var out []search.Entry
	for id, vec := range f.saved {
		out = append(out, search.NewEntry(id, vec))
	}
	return out, nil
}

func (f *fakeEmbeddingStore) Delete(_ context.Context, _ []int64) error { return nil }

// fakeHistoryStore implements search.HistoryStore for testing.
type fakeHistoryStore struct {
	entries []search.HistoryEntry
}

func (f *fakeHistoryStore) Add(_ context.Context, entry search.HistoryEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeHistoryStore) Recent(_ context.Context, _ int) ([]search.HistoryEntry, error) {
	return f.entries, nil
}

func (f *fakeHistoryStore) PopularQueries(_ context.Context, _ int) ([]search.QueryCount, error) {
	return nil, nil
}

func (f *fakeHistoryStore) AverageExecutionMS(_ context.Context) (float64, int64, error) {
	return 0, 0, nil
}

func testRows() []document.ArticleRow {
	kanun := document.NewDocument(1, "İş Kanunu", "4857", document.TypeKanun,
		document.StatusActive, "TBMM", "is", time.Date(2003, 5, 22, 0, 0, 0, 0, time.UTC))
	tuzuk := document.NewDocument(2, "Bir Yönetmelik", "", document.TypeYonetmelik,
		document.StatusActive, "Bakanlık", "idare", time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC))

	return []document.ArticleRow{
		document.NewArticleRow(
			document.NewArticle(1, 1, "1", "Amaç", "İşçinin kıdem tazminatı hakları bu maddede düzenlenir.", false, false),
			kanun),
		document.NewArticleRow(
			document.NewArticle(2, 1, "2", "Kapsam", "Tazminat hesabı işçinin son ücreti üzerinden yapılır.", false, false),
			kanun),
		document.NewArticleRow(
			document.NewArticle(3, 2, "5", "", "Mülga madde, artık uygulanmaz.", true, false),
			tuzuk),
	}
}

func newTestSearch(t *testing.T, store document.Store, kw search.KeywordStore, es search.EmbeddingStore, hs search.HistoryStore, idx search.Index, emb search.Embedder) *Search {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc, err := NewSearch(store, kw, es, hs, idx, emb, config.NewAppConfig(), nil, logger)
	if err != nil {
		t.Fatalf("NewSearch: %v", err)
	}
	return svc
}

func TestSearch_BlankQuery_ReturnsNothing(t *testing.T) {
	kw := &fakeKeywordStore{}
	svc := newTestSearch(t, &fakeDocStore{}, kw, &fakeEmbeddingStore{}, nil, &fakeIndex{}, nil)

	for _, query := range []string{"", "   ", "\t\n"} {
		results, err := svc.Search(context.Background(), query)
		if err != nil {
			t.Fatalf("Search(%q): %v", query, err)
		}
		if results != nil {
			t.Errorf("Search(%q) = %d results, want none", query, len(results))
		}
	}
	if kw.searches != 0 {
		t.Errorf("blank queries hit the keyword store %d times", kw.searches)
	}
}

func TestSearch_KeywordOnly_UsesNormalizedWeightedScores(t *testing.T) {
	kw := &fakeKeywordStore{candidates: []search.Candidate{
		search.NewCandidate(1, 10),
		search.NewCandidate(2, 5),
	}}
	svc := newTestSearch(t, &fakeDocStore{rows: testRows()}, kw, &fakeEmbeddingStore{}, nil, &fakeIndex{}, nil)

	results, err := svc.Search(context.Background(), "tazminat", WithSearchType(search.TypeKeyword))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	if results[0].ArticleID() != 1 || results[1].ArticleID() != 2 {
		t.Errorf("order = [%d, %d], want [1, 2]", results[0].ArticleID(), results[1].ArticleID())
	}
	// Min-max normalization maps [10, 5] to [1, 0]; keyword weight is 0.6.
	if results[0].Score() != 0.6 {
		t.Errorf("top score = %f, want 0.6", results[0].Score())
	}
	if results[0].MatchType() != search.MatchKeyword {
		t.Errorf("match type = %q, want keyword", results[0].MatchType())
	}
}

func TestSearch_SemanticOnly_ScoreIsWeightedSimilarity(t *testing.T) {
	idx := &fakeIndex{matches: []search.Match{search.NewMatch(1, 0.85)}}
	emb := &fakeEmbedder{vector: []float64{0.1, 0.2}}
	svc := newTestSearch(t, &fakeDocStore{rows: testRows()}, &fakeKeywordStore{}, &fakeEmbeddingStore{}, nil, idx, emb)

	results, err := svc.Search(context.Background(), "kıdem hakları", WithSearchType(search.TypeSemantic))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	want := 0.4 * 0.85
	if diff := results[0].Score() - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("score = %f, want %f", results[0].Score(), want)
	}
	if results[0].MatchType() != search.MatchSemantic {
		t.Errorf("match type = %q, want semantic", results[0].MatchType())
	}
}

func TestSearch_SemanticType_WithoutEmbedder_DegradesToKeyword(t *testing.T) {
	kw := &fakeKeywordStore{candidates: []search.Candidate{search.NewCandidate(1, 10)}}
	svc := newTestSearch(t, &fakeDocStore{rows: testRows()}, kw, &fakeEmbeddingStore{}, nil, &fakeIndex{}, nil)

	results, err := svc.Search(context.Background(), "tazminat", WithSearchType(search.TypeSemantic))
	if err != nil {
		t.Fatalf("expected keyword degradation, got error: %v", err)
	}
	if kw.searches != 1 {
		t.Errorf("keyword store hit %d times, want 1", kw.searches)
	}
	if len(results) != 1 || results[0].ArticleID() != 1 {
		t.Fatalf("got %d results, want article 1", len(results))
	}
	if results[0].MatchType() != search.MatchKeyword {
		t.Errorf("match type = %q, want keyword", results[0].MatchType())
	}
	if svc.SemanticEnabled() {
		t.Error("SemanticEnabled() = true without an embedder")
	}
}

func TestSearch_Mixed_ArticleInBothSourcesGetsBothScores(t *testing.T) {
	kw := &fakeKeywordStore{candidates: []search.Candidate{
		search.NewCandidate(1, 10),
		search.NewCandidate(2, 5),
	}}
	idx := &fakeIndex{matches: []search.Match{search.NewMatch(2, 0.9)}}
	emb := &fakeEmbedder{vector: []float64{0.1, 0.2}}
	svc := newTestSearch(t, &fakeDocStore{rows: testRows()}, kw, &fakeEmbeddingStore{}, nil, idx, emb)

	results, err := svc.Search(context.Background(), "tazminat")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	var mixed search.Result
	for _, r := range results {
		if r.ArticleID() == 2 {
			mixed = r
		}
	}
	if mixed.MatchType() != search.MatchMixed {
		t.Errorf("article 2 match type = %q, want mixed", mixed.MatchType())
	}
	// Keyword side normalizes to 0, semantic contributes 0.4*0.9.
	want := 0.4 * 0.9
	if diff := mixed.Score() - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("article 2 score = %f, want %f", mixed.Score(), want)
	}
}

func TestSearch_KeywordFailure_DegradesToSemantic(t *testing.T) {
	kw := &fakeKeywordStore{err: errors.New("fts corrupted")}
	idx := &fakeIndex{matches: []search.Match{search.NewMatch(1, 0.7)}}
	emb := &fakeEmbedder{vector: []float64{0.1, 0.2}}
	svc := newTestSearch(t, &fakeDocStore{rows: testRows()}, kw, &fakeEmbeddingStore{}, nil, idx, emb)

	results, err := svc.Search(context.Background(), "tazminat")
	if err != nil {
		t.Fatalf("expected degraded results, got error: %v", err)
	}
	if len(results) != 1 || results[0].ArticleID() != 1 {
		t.Fatalf("got %v results, want article 1 only", len(results))
	}
}

func TestSearch_AllSourcesFailing_DegradesToEmpty(t *testing.T) {
	kw := &fakeKeywordStore{err: errors.New("fts corrupted")}
	svc := newTestSearch(t, &fakeDocStore{rows: testRows()}, kw, &fakeEmbeddingStore{}, nil, &fakeIndex{}, nil)

	results, err := svc.Search(context.Background(), "tazminat", WithSearchType(search.TypeKeyword))
	if err != nil {
		t.Fatalf("source failures must degrade, got error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results from a failed source, want 0", len(results))
	}
}

func TestSearch_RepealedArticlesExcludedByDefault(t *testing.T) {
	kw := &fakeKeywordStore{candidates: []search.Candidate{
		search.NewCandidate(1, 10),
		search.NewCandidate(3, 8),
	}}
	svc := newTestSearch(t, &fakeDocStore{rows: testRows()}, kw, &fakeEmbeddingStore{}, nil, &fakeIndex{}, nil)

	results, err := svc.Search(context.Background(), "madde", WithSearchType(search.TypeKeyword))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, r := range results {
		if r.ArticleID() == 3 {
			t.Fatal("repealed article 3 returned without include-repealed")
		}
	}

	results, err = svc.Search(context.Background(), "madde",
		WithSearchType(search.TypeKeyword),
		WithFilters(search.WithIncludeRepealed(true)))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	found := false
	for _, r := range results {
		if r.ArticleID() == 3 {
			found = true
		}
	}
	if !found {
		t.Fatal("repealed article 3 missing with include-repealed")
	}
}

// filterStarvationRows builds three strong kanun matches and one weak
// yönetmelik match, so a type filter applied only after retrieval would
// lose the yönetmelik article behind a small fetch window.
func filterStarvationRows() []document.ArticleRow {
	kanun := document.NewDocument(1, "İş Kanunu", "4857", document.TypeKanun,
		document.StatusActive, "TBMM", "is", time.Date(2003, 5, 22, 0, 0, 0, 0, time.UTC))
	yonetmelik := document.NewDocument(2, "Fazla Çalışma Yönetmeliği", "", document.TypeYonetmelik,
		document.StatusActive, "Bakanlık", "is", time.Date(2004, 4, 6, 0, 0, 0, 0, time.UTC))

	rows := make([]document.ArticleRow, 0, 4)
	for id := int64(1); id <= 3; id++ {
		rows = append(rows, document.NewArticleRow(
			document.NewArticle(id, 1, "1", "", "İşçinin tazminat hakları.", false, false),
			kanun))
	}
	rows = append(rows, document.NewArticleRow(
		document.NewArticle(4, 2, "5", "", "Fazla çalışma halinde tazminat usulü.", false, false),
		yonetmelik))
	return rows
}

func TestSearch_TypeFilterReachesKeywordSource(t *testing.T) {
	rows := filterStarvationRows()
	kw := &fakeKeywordStore{
		rows: rows,
		candidates: []search.Candidate{
			search.NewCandidate(1, 40),
			search.NewCandidate(2, 30),
			search.NewCandidate(3, 20),
			search.NewCandidate(4, 10),
		},
	}
	svc := newTestSearch(t, &fakeDocStore{rows: rows}, kw, &fakeEmbeddingStore{}, nil, &fakeIndex{}, nil)

	// Limit 1 keeps the fetch window at three candidates, all kanun unless
	// the store sees the type filter.
	results, err := svc.Search(context.Background(), "tazminat",
		WithSearchType(search.TypeKeyword), WithLimit(1),
		WithFilters(search.WithDocumentTypes(document.TypeYonetmelik)))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ArticleID() != 4 {
		t.Fatalf("got %d results, want the yönetmelik article 4", len(results))
	}

	types := kw.lastFilters.DocumentTypes()
	if len(types) != 1 || types[0] != document.TypeYonetmelik {
		t.Errorf("keyword store saw filters %v, want the yönetmelik type", types)
	}
}

func TestSearch_TypeFilterConstrainsSemanticCandidates(t *testing.T) {
	rows := filterStarvationRows()
	entries := make([]search.Entry, 0, 4)
	for id := int64(1); id <= 4; id++ {
		entries = append(entries, search.NewEntry(id, []float64{0.1, 0.2}))
	}
	idx := &fakeIndex{
		entries: entries,
		matches: []search.Match{
			search.NewMatch(1, 0.9),
			search.NewMatch(2, 0.8),
			search.NewMatch(3, 0.7),
			search.NewMatch(4, 0.6),
		},
	}
	emb := &fakeEmbedder{vector: []float64{0.1, 0.2}}
	svc := newTestSearch(t, &fakeDocStore{rows: rows}, &fakeKeywordStore{}, &fakeEmbeddingStore{}, nil, idx, emb)

	results, err := svc.Search(context.Background(), "fazla çalışma",
		WithSearchType(search.TypeSemantic), WithLimit(1),
		WithFilters(search.WithDocumentTypes(document.TypeYonetmelik)))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ArticleID() != 4 {
		t.Fatalf("got %d results, want the yönetmelik article 4", len(results))
	}
	if results[0].MatchType() != search.MatchSemantic {
		t.Errorf("match type = %q, want semantic", results[0].MatchType())
	}
}

func TestSearch_LimitTruncatesAfterFusion(t *testing.T) {
	kw := &fakeKeywordStore{candidates: []search.Candidate{
		search.NewCandidate(1, 10),
		search.NewCandidate(2, 5),
	}}
	svc := newTestSearch(t, &fakeDocStore{rows: testRows()}, kw, &fakeEmbeddingStore{}, nil, &fakeIndex{}, nil)

	results, err := svc.Search(context.Background(), "tazminat",
		WithSearchType(search.TypeKeyword), WithLimit(1))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].ArticleID() != 1 {
		t.Errorf("kept article %d, want the top-ranked 1", results[0].ArticleID())
	}
}

func TestSearch_RepeatedQueryServedFromCache(t *testing.T) {
	kw := &fakeKeywordStore{candidates: []search.Candidate{search.NewCandidate(1, 10)}}
	svc := newTestSearch(t, &fakeDocStore{rows: testRows()}, kw, &fakeEmbeddingStore{}, nil, &fakeIndex{}, nil)

	first, err := svc.Search(context.Background(), "tazminat", WithSearchType(search.TypeKeyword))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	second, err := svc.Search(context.Background(), "tazminat", WithSearchType(search.TypeKeyword))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if kw.searches != 1 {
		t.Errorf("keyword store hit %d times, want 1", kw.searches)
	}
	if len(first) != len(second) {
		t.Errorf("cached results differ: %d vs %d", len(first), len(second))
	}

	// A different limit is a different request.
	if _, err := svc.Search(context.Background(), "tazminat",
		WithSearchType(search.TypeKeyword), WithLimit(5)); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if kw.searches != 2 {
		t.Errorf("keyword store hit %d times after limit change, want 2", kw.searches)
	}
}

func TestSearch_ResultsCarrySnippets(t *testing.T) {
	kw := &fakeKeywordStore{candidates: []search.Candidate{search.NewCandidate(2, 10)}}
	svc := newTestSearch(t, &fakeDocStore{rows: testRows()}, kw, &fakeEmbeddingStore{}, nil, &fakeIndex{}, nil)

	results, err := svc.Search(context.Background(), "tazminat", WithSearchType(search.TypeKeyword))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Snippet() == "" {
		t.Error("result has no snippet")
	}
	if len(results[0].Highlights()) == 0 {
		t.Error("matching content produced no highlights")
	}
}

func TestSearch_RecordsHistory(t *testing.T) {
	kw := &fakeKeywordStore{candidates: []search.Candidate{search.NewCandidate(1, 10)}}
	hs := &fakeHistoryStore{}
	svc := newTestSearch(t, &fakeDocStore{rows: testRows()}, kw, &fakeEmbeddingStore{}, hs, &fakeIndex{}, nil)

	if _, err := svc.Search(context.Background(), "kıdem tazminatı", WithSearchType(search.TypeKeyword)); err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(hs.entries) != 1 {
		t.Fatalf("history has %d entries, want 1", len(hs.entries))
	}
	entry := hs.entries[0]
	if entry.Query() != "kıdem tazminatı" {
		t.Errorf("recorded query = %q", entry.Query())
	}
	if entry.SearchType() != search.TypeKeyword {
		t.Errorf("recorded type = %q", entry.SearchType())
	}
	if entry.ResultCount() != 1 {
		t.Errorf("recorded count = %d, want 1", entry.ResultCount())
	}
}

func TestSearchWithFacets_CountsBaseAndFiltersSelection(t *testing.T) {
	kw := &fakeKeywordStore{candidates: []search.Candidate{
		search.NewCandidate(1, 10),
		search.NewCandidate(2, 8),
		search.NewCandidate(3, 5),
	}}
	svc := newTestSearch(t, &fakeDocStore{rows: testRows()}, kw, &fakeEmbeddingStore{}, nil, &fakeIndex{}, nil)

	selected := map[string][]string{"document_type": {"KANUN"}}
	faceted, err := svc.SearchWithFacets(context.Background(), "madde", selected,
		WithSearchType(search.TypeKeyword),
		WithFilters(search.WithIncludeRepealed(true)))
	if err != nil {
		t.Fatalf("SearchWithFacets: %v", err)
	}

	for _, r := range faceted.Results() {
		if r.DocumentType() != document.TypeKanun {
			t.Errorf("selection leaked document type %q", r.DocumentType())
		}
	}
	if len(faceted.Results()) != 2 {
		t.Errorf("got %d filtered results, want 2", len(faceted.Results()))
	}

	// Facet counts run over the unfiltered base set.
	for _, f := range faceted.Facets().Facets() {
		if f.Name() != "document_type" {
			continue
		}
		for _, opt := range f.Options() {
			switch opt.Value() {
			case "KANUN":
				if opt.Count() != 2 || !opt.Selected() {
					t.Errorf("KANUN option = count %d selected %t", opt.Count(), opt.Selected())
				}
			case "YÖNETMELİK":
				if opt.Count() != 1 || opt.Selected() {
					t.Errorf("YÖNETMELİK option = count %d selected %t", opt.Count(), opt.Selected())
				}
			}
		}
	}
}

func TestRebuildIndex_ReindexesEverything(t *testing.T) {
	kw := &fakeKeywordStore{}
	idx := &fakeIndex{}
	emb := &fakeEmbedder{vector: []float64{0.3, 0.4}}
	es := &fakeEmbeddingStore{}
	svc := newTestSearch(t, &fakeDocStore{rows: testRows()}, kw, es, nil, idx, emb)

	if err := svc.RebuildIndex(context.Background()); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}

	if kw.resets != 1 {
		t.Errorf("keyword index reset %d times, want 1", kw.resets)
	}
	if len(kw.indexed) != 3 {
		t.Errorf("indexed %d keyword documents, want 3", len(kw.indexed))
	}
	if len(es.saved) != 3 {
		t.Errorf("persisted %d embeddings, want 3", len(es.saved))
	}
	if idx.Size() != 3 {
		t.Errorf("vector index holds %d entries, want 3", idx.Size())
	}

	// The suggestion vocabulary refreshes from the corpus text.
	suggestions := svc.Suggestions("tazmin", 5)
	if len(suggestions) == 0 {
		t.Error("rebuilt vocabulary suggests nothing for corpus term prefix")
	}
}

func TestRebuildIndex_WithoutEmbedder_WarmsFromPersistedVectors(t *testing.T) {
	es := &fakeEmbeddingStore{saved: map[int64][]float64{
		1: {0.1, 0.2},
		2: {0.3, 0.4},
	}}
	idx := &fakeIndex{}
	svc := newTestSearch(t, &fakeDocStore{rows: testRows()}, &fakeKeywordStore{}, es, nil, idx, nil)

	if err := svc.RebuildIndex(context.Background()); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	if idx.Size() != 2 {
		t.Errorf("vector index holds %d entries, want 2 from persisted embeddings", idx.Size())
	}
}

func TestPerformanceStats_CountsSearches(t *testing.T) {
	kw := &fakeKeywordStore{candidates: []search.Candidate{search.NewCandidate(1, 10)}}
	svc := newTestSearch(t, &fakeDocStore{rows: testRows()}, kw, &fakeEmbeddingStore{}, &fakeHistoryStore{}, &fakeIndex{}, nil)

	for i := 0; i < 3; i++ {
		if _, err := svc.Search(context.Background(), "tazminat", WithSearchType(search.TypeKeyword)); err != nil {
			t.Fatalf("Search: %v", err)
		}
	}

	stats, err := svc.PerformanceStats(context.Background())
	if err != nil {
		t.Fatalf("PerformanceStats: %v", err)
	}
	if stats.TotalSearches() != 3 {
		t.Errorf("total searches = %d, want 3 (cache hits count)", stats.TotalSearches())
	}
	if stats.CachedQueries() != 1 {
		t.Errorf("cached queries = %d, want 1", stats.CachedQueries())
	}
}
