package facet

import "testing"

func TestExtractField_DotPath(t *testing.T) {
	record := map[string]any{
		"document": map[string]any{
			"type": "KANUN",
		},
	}

	got, ok := extractField(record, "document.type")
	if !ok || got != "KANUN" {
		t.Errorf("expected KANUN, got %v (ok=%v)", got, ok)
	}
}

func TestExtractField_StructSegment(t *testing.T) {
	type doc struct {
		LegalDomain string
	}
	record := map[string]any{"document": doc{LegalDomain: "ceza"}}

	got, ok := extractField(record, "document.legaldomain")
	if !ok || got != "ceza" {
		t.Errorf("expected ceza, got %v (ok=%v)", got, ok)
	}

	got, ok = extractField(map[string]any{"document": &doc{LegalDomain: "is"}}, "document.LegalDomain")
	if !ok || got != "is" {
		t.Errorf("expected pointer traversal, got %v (ok=%v)", got, ok)
	}
}

func TestExtractField_Missing(t *testing.T) {
	record := map[string]any{"a": map[string]any{"b": 1}}

	if _, ok := extractField(record, "a.c"); ok {
		t.Error("expected missing key to fail")
	}
	if _, ok := extractField(record, "a.b.c"); ok {
		t.Error("expected descent into scalar to fail")
	}
	if _, ok := extractField(map[string]any{"a": nil}, "a"); ok {
		t.Error("expected nil value to fail")
	}
}
