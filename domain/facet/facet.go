package facet

// Option is one selectable value of a facet with its count over the
// unfiltered result set.
type Option struct {
	value    string
	label    string
	count    int
	selected bool
}

// NewOption creates an Option.
func NewOption(value, label string, count int, selected bool) Option {
	return Option{value: value, label: label, count: count, selected: selected}
}

// Value returns the machine value used for filtering.
func (o Option) Value() string { return o.value }

// Label returns the display label.
func (o Option) Label() string { return o.label }

// Count returns how many base results carry the value.
func (o Option) Count() int { return o.count }

// Selected reports whether the caller's filters include the value.
func (o Option) Selected() bool { return o.selected }

// Facet is one computed dimension with its options.
type Facet struct {
	name    string
	label   string
	kind    Kind
	options []Option
}

// NewFacet creates a Facet.
func NewFacet(name, label string, kind Kind, options []Option) Facet {
	return Facet{name: name, label: label, kind: kind, options: options}
}

// Name returns the facet key.
func (f Facet) Name() string { return f.name }

// Label returns the display label.
func (f Facet) Label() string { return f.label }

// Kind returns the facet behaviour class.
func (f Facet) Kind() Kind { return f.kind }

// Options returns the facet's options in display order.
func (f Facet) Options() []Option {
	out := make([]Option, len(f.options))
	copy(out, f.options)
	return out
}

// Results is the outcome of one faceted computation: the filtered records,
// the facets counted over the unfiltered base, and the applied filters.
type Results struct {
	records        []map[string]any
	facets         []Facet
	totalCount     int
	filteredCount  int
	appliedFilters map[string][]string
	skipped        int
}

// Records returns the records that passed the applied filters.
func (r Results) Records() []map[string]any { return r.records }

// Facets returns the computed facets, each counted over the unfiltered base.
func (r Results) Facets() []Facet {
	out := make([]Facet, len(r.facets))
	copy(out, r.facets)
	return out
}

// TotalCount returns the size of the unfiltered base set.
func (r Results) TotalCount() int { return r.totalCount }

// FilteredCount returns how many records passed the filters.
func (r Results) FilteredCount() int { return r.filteredCount }

// AppliedFilters returns the filters the computation ran with.
func (r Results) AppliedFilters() map[string][]string {
	out := make(map[string][]string, len(r.appliedFilters))
	for k, v := range r.appliedFilters {
		vals := make([]string, len(v))
		copy(vals, v)
		out[k] = vals
	}
	return out
}

// Skipped returns how many value extractions failed during counting.
// Extraction failures exclude a record from the affected facet only, never
// from the computation.
func (r Results) Skipped() int { return r.skipped }
