// Package facet provides multi-dimensional drill-down over search results
// for legal documents: counting facet options over a result set, filtering
// by selected options, and round-tripping the applied state.
package facet

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed facets.yaml
var defaultDefinitionsYAML []byte

// Kind is the facet behaviour class.
type Kind string

// Kind values.
const (
	KindSingle   Kind = "single"
	KindMultiple Kind = "multiple"
	KindRange    Kind = "range"
)

// Transform names a value normalization applied before counting and
// filtering.
type Transform string

// Transform values.
const (
	TransformNone             Transform = ""
	TransformYear             Transform = "year"
	TransformMonthYear        Transform = "month_year"
	TransformUpper            Transform = "upper"
	TransformLower            Transform = "lower"
	TransformNormalizeDocType Transform = "normalize_document_type"
)

// Range is one bucket of a range facet. A nil bound is open, which makes the
// last declared bucket usable as a catch-all.
type Range struct {
	Key   string   `yaml:"key"`
	Label string   `yaml:"label"`
	Min   *float64 `yaml:"min"`
	Max   *float64 `yaml:"max"`
}

// Contains reports whether v falls inside the bucket.
func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Definition describes one facet: where its value comes from, how to
// normalize it, and how its options are ordered and labelled.
type Definition struct {
	Name      string            `yaml:"name"`
	Label     string            `yaml:"label"`
	Field     string            `yaml:"field"`
	Kind      Kind              `yaml:"type"`
	Transform Transform         `yaml:"transform"`
	SortOrder []string          `yaml:"sort_order"`
	Labels    map[string]string `yaml:"labels"`
	Ranges    []Range           `yaml:"ranges"`
}

// OptionLabel returns the display label for a value, falling back to the
// value itself.
func (d Definition) OptionLabel(value string) string {
	if label, ok := d.Labels[value]; ok {
		return label
	}
	for _, r := range d.Ranges {
		if r.Key == value && r.Label != "" {
			return r.Label
		}
	}
	return value
}

type definitionsFile struct {
	Facets []Definition `yaml:"facets"`
}

// DefaultDefinitions returns the built-in facet set: document_type,
// legal_domain, publication_year, institution, status and content_length.
func DefaultDefinitions() []Definition {
	defs, err := parseDefinitions(defaultDefinitionsYAML)
	if err != nil {
		// The embedded file is validated by tests; reaching this means a
		// broken build, not a runtime condition.
		panic(fmt.Sprintf("embedded facet definitions invalid: %v", err))
	}
	return defs
}

// LoadDefinitions reads facet definitions from a YAML file.
func LoadDefinitions(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read facet definitions %s: %w", path, err)
	}
	return parseDefinitions(data)
}

func parseDefinitions(data []byte) ([]Definition, error) {
	var f definitionsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse facet definitions: %w", err)
	}
	for i, d := range f.Facets {
		if d.Name == "" || d.Field == "" {
			return nil, fmt.Errorf("facet definition %d: name and field are required", i)
		}
		switch d.Kind {
		case KindSingle, KindMultiple, KindRange:
		default:
			return nil, fmt.Errorf("facet %s: unknown type %q", d.Name, d.Kind)
		}
		if d.Kind == KindRange && len(d.Ranges) == 0 {
			return nil, fmt.Errorf("facet %s: range facet needs ranges", d.Name)
		}
	}
	return f.Facets, nil
}
