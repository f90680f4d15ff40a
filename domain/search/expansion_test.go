package search

import (
	"strings"
	"testing"
)

func testTables() Tables {
	return Tables{
		Synonyms: map[string][]string{
			"işçi": {"çalışan", "personel"},
			"ceza": {"müeyyide", "yaptırım"},
		},
		Abbreviations: map[string]string{
			"TCK": "Türk Ceza Kanunu",
			"İK":  "İş Kanunu",
		},
		Contexts: map[string]string{
			"suç":    "ceza",
			"hapis":  "ceza",
			"sanık":  "ceza",
			"işçi":   "iş",
			"kıdem":  "iş",
			"mesai":  "iş",
			"tazminat": "iş",
		},
		Stopwords:      []string{"ve", "ile", "için"},
		LegalStopwords: []string{"madde", "fıkra"},
	}
}

func TestExpander_Expand_OriginalsAlwaysKept(t *testing.T) {
	e := NewExpander(testTables())

	terms := e.Expand("işçi tazminat hakları")

	for _, want := range []string{"işçi", "tazminat", "hakları"} {
		if !containsTerm(terms, want) {
			t.Errorf("expected original token %q in %v", want, terms)
		}
	}
	// Originals come first, in query order.
	if terms[0] != "işçi" || terms[1] != "tazminat" {
		t.Errorf("expected originals first, got %v", terms[:2])
	}
}

func TestExpander_Expand_Synonyms(t *testing.T) {
	e := NewExpander(testTables())

	exp := e.ExpandDetailed("işçi hakları")

	terms := exp.Terms()
	for _, want := range []string{"çalışan", "personel"} {
		if !containsTerm(terms, want) {
			t.Errorf("expected synonym %q in %v", want, terms)
		}
	}
	if got := exp.Weight("çalışan"); got != synonymWeight {
		t.Errorf("expected synonym weight %f, got %f", synonymWeight, got)
	}
	if got := exp.Weight("işçi"); got != 1.0 {
		t.Errorf("expected original weight 1.0, got %f", got)
	}
}

func TestExpander_Expand_AbbreviationsBothDirections(t *testing.T) {
	e := NewExpander(testTables())

	// Abbreviation to full form. Lookup is case-insensitive.
	terms := e.Expand("tck 122")
	if !containsTerm(terms, "türk ceza kanunu") {
		t.Errorf("expected full form in %v", terms)
	}

	// Full form back to abbreviation.
	exp := e.ExpandDetailed("Türk Ceza Kanunu")
	if !containsTerm(exp.Terms(), "tck") {
		t.Errorf("expected abbreviation in %v", exp.Terms())
	}
	if got := exp.Weight("tck"); got != abbreviationWeight {
		t.Errorf("expected abbreviation weight %f, got %f", abbreviationWeight, got)
	}
}

func TestExpander_Expand_StopwordsNotExpandedButKept(t *testing.T) {
	e := NewExpander(testTables())

	terms := e.Expand("işçi ve madde")

	if !containsTerm(terms, "ve") || !containsTerm(terms, "madde") {
		t.Errorf("expected stopwords kept as originals, got %v", terms)
	}
	// "madde" is a legal stopword: no context or synonym lookup happened
	// for it, so nothing beyond işçi's expansions appears.
	for _, term := range terms {
		if term == "müeyyide" || term == "yaptırım" {
			t.Errorf("unexpected expansion %q from stopword", term)
		}
	}
}

func TestExpander_Expand_ShortTokensNotExpanded(t *testing.T) {
	e := NewExpander(testTables())

	// "İK" folds to a known abbreviation but is under 3 runes.
	terms := e.Expand("ik")
	if containsTerm(terms, "iş kanunu") {
		t.Errorf("expected no expansion for 2-rune token, got %v", terms)
	}
	if !containsTerm(terms, "ik") {
		t.Errorf("expected original kept, got %v", terms)
	}
}

func TestExpander_Expand_CompoundReference(t *testing.T) {
	e := NewExpander(testTables())

	terms := e.Expand("iş kanunu kıdem")

	if !containsTerm(terms, "iş kanunu") {
		t.Errorf("expected compound %q preserved in %v", "iş kanunu", terms)
	}
}

func TestExpander_ExpandDetailed_ContextDetection(t *testing.T) {
	e := NewExpander(testTables())

	exp := e.ExpandDetailed("işçi kıdem tazminatı")

	if exp.LegalContext() != "iş" {
		t.Fatalf("expected context %q, got %q", "iş", exp.LegalContext())
	}
	// Context terms carry the lowest weight and skip tokens already present.
	if !containsTerm(exp.Terms(), "mesai") {
		t.Errorf("expected context term %q in %v", "mesai", exp.Terms())
	}
	if got := exp.Weight("mesai"); got != contextWeight {
		t.Errorf("expected context weight %f, got %f", contextWeight, got)
	}
	if got := exp.Weight("işçi"); got != 1.0 {
		t.Errorf("context expansion must not lower original weight, got %f", got)
	}
}

func TestExpander_ExpandDetailed_NoDuplicates(t *testing.T) {
	e := NewExpander(testTables())

	terms := e.ExpandDetailed("işçi işçi ceza suç").Terms()

	seen := make(map[string]int)
	for _, term := range terms {
		seen[term]++
	}
	for term, n := range seen {
		if n > 1 {
			t.Errorf("term %q appears %d times", term, n)
		}
	}
}

func TestExpander_SemanticQuery(t *testing.T) {
	e := NewExpander(testTables())

	q := e.SemanticQuery("işçi kıdem tazminatı")

	if !strings.HasPrefix(q, "işçi kıdem tazminatı") {
		t.Errorf("expected semantic query to start with original, got %q", q)
	}
	if !strings.Contains(q, "iş hukuku") {
		t.Errorf("expected legal field in %q", q)
	}
}

func TestExpander_TurkishCaseInsensitiveLookup(t *testing.T) {
	e := NewExpander(testTables())

	// Uppercase dotted İ and ASCII I both reach the same table entry.
	for _, query := range []string{"İŞÇİ", "ISCI", "işçi"} {
		terms := e.Expand(query)
		if !containsTerm(terms, "çalışan") {
			t.Errorf("query %q: expected synonym lookup to hit, got %v", query, terms)
		}
	}
}

func TestDefaultTables_Valid(t *testing.T) {
	tables := DefaultTables()

	if len(tables.Synonyms) == 0 {
		t.Error("expected built-in synonyms")
	}
	if tables.Abbreviations["TCK"] != "Türk Ceza Kanunu" {
		t.Errorf("expected TCK mapping, got %q", tables.Abbreviations["TCK"])
	}
	if len(tables.FallbackSuggestions) == 0 {
		t.Error("expected fallback suggestions")
	}
}

func containsTerm(terms []string, want string) bool {
	for _, term := range terms {
		if term == want {
			return true
		}
	}
	return false
}
