package facet

import (
	"testing"
	"time"
)

func record(docType, domain string, year int, contentLen int) map[string]any {
	var published time.Time
	if year > 0 {
		published = time.Date(year, time.March, 15, 0, 0, 0, 0, time.UTC)
	}
	return map[string]any{
		"document_type":    docType,
		"legal_domain":     domain,
		"institution":      "tbmm",
		"status":           "active",
		"publication_date": published,
		"content_length":   contentLen,
	}
}

func testBase() []map[string]any {
	return []map[string]any{
		record("5237 Sayılı Türk Ceza Kanunu", "ceza", 2004, 1500),
		record("İş Kanunu", "is", 2003, 6000),
		record("Kişisel Verilerin Korunması Kanunu", "medeni", 2016, 800),
		record("Bazı Konularda Yönetmelik", "idare", 2022, 400),
		record("Genelge (2024/5)", "idare", 2024, 300),
	}
}

func findFacet(t *testing.T, results Results, name string) Facet {
	t.Helper()
	for _, f := range results.Facets() {
		if f.Name() == name {
			return f
		}
	}
	t.Fatalf("facet %q not computed", name)
	return Facet{}
}

func optionCount(f Facet, value string) int {
	for _, o := range f.Options() {
		if o.Value() == value {
			return o.Count()
		}
	}
	return 0
}

func TestEngine_Compute_NoFilters(t *testing.T) {
	engine := NewEngine(DefaultDefinitions(), nil)

	results := engine.Compute(testBase(), nil)

	if results.TotalCount() != 5 || results.FilteredCount() != 5 {
		t.Errorf("expected 5/5, got %d/%d", results.FilteredCount(), results.TotalCount())
	}

	docType := findFacet(t, results, "document_type")
	if got := optionCount(docType, "KANUN"); got != 3 {
		t.Errorf("expected 3 KANUN, got %d", got)
	}
	if got := optionCount(docType, "YÖNETMELİK"); got != 1 {
		t.Errorf("expected 1 YÖNETMELİK, got %d", got)
	}
	if got := optionCount(docType, "GENELGE"); got != 1 {
		t.Errorf("expected 1 GENELGE, got %d", got)
	}
}

func TestEngine_Compute_FilteredCountNeverExceedsTotal(t *testing.T) {
	engine := NewEngine(DefaultDefinitions(), nil)

	selections := []map[string][]string{
		nil,
		{"document_type": {"KANUN"}},
		{"document_type": {"KANUN", "GENELGE"}},
		{"document_type": {"KANUN"}, "legal_domain": {"ceza"}},
		{"publication_year": {"2020-2024"}},
		{"document_type": {"YOK"}},
	}

	for _, selected := range selections {
		results := engine.Compute(testBase(), selected)
		if results.FilteredCount() > results.TotalCount() {
			t.Errorf("selection %v: filtered %d exceeds total %d",
				selected, results.FilteredCount(), results.TotalCount())
		}
	}
}

func TestEngine_Compute_AndAcrossFacetsOrWithin(t *testing.T) {
	engine := NewEngine(DefaultDefinitions(), nil)

	// OR within one facet.
	results := engine.Compute(testBase(), map[string][]string{
		"document_type": {"YÖNETMELİK", "GENELGE"},
	})
	if results.FilteredCount() != 2 {
		t.Errorf("expected 2 results, got %d", results.FilteredCount())
	}

	// AND across facets.
	results = engine.Compute(testBase(), map[string][]string{
		"document_type": {"KANUN"},
		"legal_domain":  {"ceza"},
	})
	if results.FilteredCount() != 1 {
		t.Errorf("expected 1 result, got %d", results.FilteredCount())
	}
}

func TestEngine_Compute_CountsOverUnfilteredBase(t *testing.T) {
	engine := NewEngine(DefaultDefinitions(), nil)

	results := engine.Compute(testBase(), map[string][]string{
		"document_type": {"GENELGE"},
	})

	if results.FilteredCount() != 1 {
		t.Fatalf("expected 1 filtered result, got %d", results.FilteredCount())
	}
	// The document_type facet still counts the whole base so the caller can
	// widen the selection.
	docType := findFacet(t, results, "document_type")
	if got := optionCount(docType, "KANUN"); got != 3 {
		t.Errorf("expected unfiltered KANUN count 3, got %d", got)
	}
	for _, o := range docType.Options() {
		if o.Value() == "GENELGE" && !o.Selected() {
			t.Error("expected GENELGE flagged selected")
		}
		if o.Value() == "KANUN" && o.Selected() {
			t.Error("expected KANUN not flagged selected")
		}
	}
}

func TestEngine_Compute_YearRangeBuckets(t *testing.T) {
	engine := NewEngine(DefaultDefinitions(), nil)

	base := []map[string]any{
		record("Kanun", "ceza", 2022, 100),
		record("Kanun", "ceza", 1998, 100),
		record("Kanun", "ceza", 2016, 100),
	}

	years := findFacet(t, engine.Compute(base, nil), "publication_year")

	if got := optionCount(years, "2020-2024"); got != 1 {
		t.Errorf("expected 2022 in bucket 2020-2024, got count %d", got)
	}
	if got := optionCount(years, "before-2000"); got != 1 {
		t.Errorf("expected 1998 in bucket before-2000, got count %d", got)
	}
	if got := optionCount(years, "2015-2019"); got != 1 {
		t.Errorf("expected 2016 in bucket 2015-2019, got count %d", got)
	}
}

func TestEngine_Compute_ContentLengthBuckets(t *testing.T) {
	engine := NewEngine(DefaultDefinitions(), nil)

	base := []map[string]any{
		record("Kanun", "ceza", 2020, 400),
		record("Kanun", "ceza", 2020, 999),
		record("Kanun", "ceza", 2020, 1000),
		record("Kanun", "ceza", 2020, 4999),
		record("Kanun", "ceza", 2020, 5000),
		record("Kanun", "ceza", 2020, 120000),
	}

	lengths := findFacet(t, engine.Compute(base, nil), "content_length")

	if got := optionCount(lengths, "short"); got != 2 {
		t.Errorf("expected 2 short, got %d", got)
	}
	if got := optionCount(lengths, "medium"); got != 2 {
		t.Errorf("expected 2 medium, got %d", got)
	}
	if got := optionCount(lengths, "long"); got != 2 {
		t.Errorf("expected 2 long, got %d", got)
	}
}

func TestEngine_Compute_RangeFilter(t *testing.T) {
	engine := NewEngine(DefaultDefinitions(), nil)

	results := engine.Compute(testBase(), map[string][]string{
		"publication_year": {"2020-2024"},
	})

	if results.FilteredCount() != 2 {
		t.Errorf("expected 2 results from 2020-2024, got %d", results.FilteredCount())
	}
}

func TestEngine_Compute_NoZeroCountOptions(t *testing.T) {
	engine := NewEngine(DefaultDefinitions(), nil)

	results := engine.Compute(testBase(), nil)

	for _, f := range results.Facets() {
		if len(f.Options()) == 0 {
			t.Errorf("facet %q has no options but was emitted", f.Name())
		}
		for _, o := range f.Options() {
			if o.Count() == 0 {
				t.Errorf("facet %q emits zero-count option %q", f.Name(), o.Value())
			}
		}
	}
}

func TestEngine_Compute_SortOrderCuration(t *testing.T) {
	engine := NewEngine(DefaultDefinitions(), nil)

	docType := findFacet(t, engine.Compute(testBase(), nil), "document_type")

	// document_type declares a curated order; present values keep it.
	wantOrder := []string{"KANUN", "YÖNETMELİK", "GENELGE"}
	options := docType.Options()
	if len(options) != len(wantOrder) {
		t.Fatalf("expected options %v, got %d options", wantOrder, len(options))
	}
	for i, want := range wantOrder {
		if options[i].Value() != want {
			t.Errorf("option[%d]: expected %q, got %q", i, want, options[i].Value())
		}
	}
}

func TestEngine_Compute_MissingFieldSkipsRecord(t *testing.T) {
	engine := NewEngine(DefaultDefinitions(), nil)

	incomplete := map[string]any{"document_type": "Kanun"}
	base := append(testBase(), incomplete)

	results := engine.Compute(base, nil)

	if results.Skipped() == 0 {
		t.Error("expected extraction skips for the incomplete record")
	}
	// The incomplete record still counts where its fields exist.
	docType := findFacet(t, results, "document_type")
	if got := optionCount(docType, "KANUN"); got != 4 {
		t.Errorf("expected 4 KANUN, got %d", got)
	}

	// Filtering on a facet the record lacks excludes it.
	filtered := engine.Compute(base, map[string][]string{"legal_domain": {"ceza"}})
	for _, rec := range filtered.Records() {
		if len(rec) == 1 {
			t.Error("incomplete record passed a filter on a missing field")
		}
	}
}

func TestEngine_Compute_UnknownFacetIgnored(t *testing.T) {
	engine := NewEngine(DefaultDefinitions(), nil)

	results := engine.Compute(testBase(), map[string][]string{"bilinmeyen": {"x"}})

	if results.FilteredCount() != 5 {
		t.Errorf("expected unknown facet to be ignored, got %d results", results.FilteredCount())
	}
}

func TestEngine_Compute_StructRecords(t *testing.T) {
	type row struct {
		DocumentType string
		LegalDomain  string
	}

	// Struct values resolve through the accessor when nested in a map.
	base := []map[string]any{
		{"document_type": "Kanun", "legal_domain": "ceza", "nested": row{DocumentType: "x"}},
	}

	engine := NewEngine(DefaultDefinitions(), nil)
	results := engine.Compute(base, nil)

	docType := findFacet(t, results, "document_type")
	if got := optionCount(docType, "KANUN"); got != 1 {
		t.Errorf("expected 1 KANUN, got %d", got)
	}
}

func TestState_RoundTrip(t *testing.T) {
	engine := NewEngine(DefaultDefinitions(), nil)

	selected := map[string][]string{
		"document_type":    {"KANUN"},
		"publication_year": {"2000-2004"},
	}
	results := engine.Compute(testBase(), selected)

	state := ExportState(results)
	if state.TotalCount != 5 {
		t.Errorf("expected total 5, got %d", state.TotalCount)
	}
	if state.FacetCounts["document_type"]["KANUN"] != 3 {
		t.Errorf("expected exported KANUN count 3, got %d", state.FacetCounts["document_type"]["KANUN"])
	}

	recovered := ImportState(state)
	if len(recovered["document_type"]) != 1 || recovered["document_type"][0] != "KANUN" {
		t.Errorf("expected recovered filter, got %v", recovered)
	}

	// Recomputing with the recovered filters reproduces the counts.
	again := engine.Compute(testBase(), recovered)
	if again.FilteredCount() != results.FilteredCount() {
		t.Errorf("round-trip changed filtered count: %d != %d",
			again.FilteredCount(), results.FilteredCount())
	}
}

func TestImportState_Empty(t *testing.T) {
	recovered := ImportState(State{})
	if recovered == nil || len(recovered) != 0 {
		t.Errorf("expected empty non-nil map, got %v", recovered)
	}
}

func TestLoadDefinitions_Validation(t *testing.T) {
	if _, err := LoadDefinitions("/nonexistent/facets.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
