package facet

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/mevzuatlab/mevzuat/domain/document"
	"github.com/mevzuatlab/mevzuat/internal/turkish"
)

// Engine computes facets over search result records and filters by selected
// facet values. Definitions are read-only after construction, so an Engine
// is safe for concurrent use.
type Engine struct {
	definitions []Definition
	byName      map[string]Definition
	logger      *slog.Logger
}

// NewEngine creates an Engine. A nil logger falls back to slog.Default().
func NewEngine(definitions []Definition, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	byName := make(map[string]Definition, len(definitions))
	for _, d := range definitions {
		byName[d.Name] = d
	}
	return &Engine{definitions: definitions, byName: byName, logger: logger}
}

// Definitions returns the facet definitions the engine computes over, in
// declaration order.
func (e *Engine) Definitions() []Definition {
	out := make([]Definition, len(e.definitions))
	copy(out, e.definitions)
	return out
}

// Compute filters base by the selected facet values and counts every facet
// over the UNFILTERED base, so unselected options keep showing what choosing
// them would add. Selection is AND across facets and OR within one facet.
// Unknown facet names in selected are ignored.
func (e *Engine) Compute(base []map[string]any, selected map[string][]string) Results {
	if selected == nil {
		selected = map[string][]string{}
	}

	filtered := e.applyFilters(base, selected)
	facets, skipped := e.countFacets(base, selected)

	if skipped > 0 {
		e.logger.Debug("facet value extraction skipped records",
			"skipped", skipped, "base", len(base))
	}

	return Results{
		records:        filtered,
		facets:         facets,
		totalCount:     len(base),
		filteredCount:  len(filtered),
		appliedFilters: selected,
		skipped:        skipped,
	}
}

func (e *Engine) applyFilters(base []map[string]any, selected map[string][]string) []map[string]any {
	active := make([]Definition, 0, len(selected))
	values := make(map[string][]string, len(selected))
	for name, vals := range selected {
		if len(vals) == 0 {
			continue
		}
		def, ok := e.byName[name]
		if !ok {
			continue
		}
		active = append(active, def)
		values[name] = vals
	}
	if len(active) == 0 {
		out := make([]map[string]any, len(base))
		copy(out, base)
		return out
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Name < active[j].Name })

	var out []map[string]any
	for _, record := range base {
		if e.matchesAll(record, active, values) {
			out = append(out, record)
		}
	}
	return out
}

func (e *Engine) matchesAll(record map[string]any, active []Definition, values map[string][]string) bool {
	for _, def := range active {
		key, ok := e.facetKey(record, def)
		if !ok {
			// A record whose value cannot be read cannot satisfy the
			// filter on that facet.
			return false
		}
		if !containsValue(values[def.Name], key) {
			return false
		}
	}
	return true
}

func (e *Engine) countFacets(base []map[string]any, selected map[string][]string) ([]Facet, int) {
	var facets []Facet
	skipped := 0

	for _, def := range e.definitions {
		counts := make(map[string]int)
		for _, record := range base {
			key, ok := e.facetKey(record, def)
			if !ok {
				skipped++
				continue
			}
			counts[key]++
		}

		options := buildOptions(def, counts, selected[def.Name])
		if len(options) == 0 {
			continue
		}
		facets = append(facets, NewFacet(def.Name, def.Label, def.Kind, options))
	}

	return facets, skipped
}

// buildOptions orders a facet's counted values. A sort_order both restricts
// the shown values and fixes their order; without one, options sort by
// descending count with lexicographic ties. Zero-count values never appear.
func buildOptions(def Definition, counts map[string]int, selectedValues []string) []Option {
	var options []Option

	if len(def.SortOrder) > 0 {
		for _, value := range def.SortOrder {
			n := counts[value]
			if n == 0 {
				continue
			}
			options = append(options,
				NewOption(value, def.OptionLabel(value), n, containsValue(selectedValues, value)))
		}
		return options
	}

	values := make([]string, 0, len(counts))
	for value := range counts {
		values = append(values, value)
	}
	sort.Slice(values, func(i, j int) bool {
		if counts[values[i]] != counts[values[j]] {
			return counts[values[i]] > counts[values[j]]
		}
		return values[i] < values[j]
	})

	for _, value := range values {
		options = append(options,
			NewOption(value, def.OptionLabel(value), counts[value], containsValue(selectedValues, value)))
	}
	return options
}

// facetKey resolves a record to the facet's countable key: the transformed
// term for single/multiple facets, the matching bucket key for range facets.
func (e *Engine) facetKey(record map[string]any, def Definition) (string, bool) {
	raw, ok := extractField(record, def.Field)
	if !ok {
		return "", false
	}

	if def.Kind == KindRange {
		v, ok := rangeValue(raw, def.Transform)
		if !ok {
			return "", false
		}
		for _, r := range def.Ranges {
			if r.Contains(v) {
				return r.Key, true
			}
		}
		return "", false
	}

	return termValue(raw, def.Transform)
}

// termValue normalizes a raw field value into a term key.
func termValue(raw any, transform Transform) (string, bool) {
	s, ok := stringify(raw)
	if !ok {
		return "", false
	}

	switch transform {
	case TransformUpper:
		s = turkish.ToUpper(s)
	case TransformLower:
		s = turkish.ToLower(s)
	case TransformNormalizeDocType:
		s = string(document.NormalizeType(s))
	case TransformMonthYear:
		if t, isTime := raw.(time.Time); isTime && !t.IsZero() {
			s = t.Format("2006-01")
		} else {
			return "", false
		}
	case TransformYear:
		v, ok := yearOf(raw)
		if !ok {
			return "", false
		}
		s = strconv.Itoa(int(v))
	}

	if s == "" {
		return "", false
	}
	return s, true
}

// rangeValue normalizes a raw field value into the number that range buckets
// compare against.
func rangeValue(raw any, transform Transform) (float64, bool) {
	if transform == TransformYear {
		return yearOf(raw)
	}
	switch v := raw.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case time.Time:
		return yearOf(v)
	default:
		return 0, false
	}
}

// yearOf extracts a publication year from a date, a year number, or a
// YYYY-prefixed string. Zero dates carry no information and fail.
func yearOf(raw any) (float64, bool) {
	switch v := raw.(type) {
	case time.Time:
		if v.IsZero() {
			return 0, false
		}
		return float64(v.Year()), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case string:
		if len(v) < 4 {
			return 0, false
		}
		year, err := strconv.Atoi(v[:4])
		if err != nil {
			return 0, false
		}
		return float64(year), true
	default:
		return 0, false
	}
}

func stringify(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case time.Time:
		if v.IsZero() {
			return "", false
		}
		return v.Format("2006-01-02"), true
	case int, int64, float64, bool:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}

func containsValue(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
