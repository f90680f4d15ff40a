package search

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed synonyms.yaml
var defaultTablesYAML []byte

// Tables holds the read-only legal vocabulary used by the Expander. Loaded
// once per engine lifetime and never mutated afterwards.
type Tables struct {
	// Synonyms maps a canonical legal term to equivalent terms.
	Synonyms map[string][]string `yaml:"synonyms"`

	// Abbreviations maps an abbreviation to its full form (TCK -> Türk Ceza
	// Kanunu). Expansion works in both directions.
	Abbreviations map[string]string `yaml:"abbreviations"`

	// Contexts maps a term to a legal field key (suç -> ceza), used to
	// detect the query's legal context.
	Contexts map[string]string `yaml:"contexts"`

	// Stopwords are common Turkish words excluded from expansion lookups.
	Stopwords []string `yaml:"stopwords"`

	// LegalStopwords are domain terms too common to be worth expanding.
	LegalStopwords []string `yaml:"legal_stopwords"`

	// FallbackSuggestions seed the suggestion vocabulary before any articles
	// are indexed.
	FallbackSuggestions []string `yaml:"fallback_suggestions"`
}

// DefaultTables returns the built-in legal vocabulary.
func DefaultTables() Tables {
	tables, err := parseTables(defaultTablesYAML)
	if err != nil {
		// The embedded file is validated by tests; reaching this means a
		// broken build, not a runtime condition.
		panic(fmt.Sprintf("embedded synonym tables invalid: %v", err))
	}
	return tables
}

// LoadTables reads a Tables YAML file from disk.
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read synonym tables %s: %w", path, err)
	}
	return parseTables(data)
}

func parseTables(data []byte) (Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tables{}, fmt.Errorf("parse synonym tables: %w", err)
	}
	return t, nil
}
