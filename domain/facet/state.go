package facet

// State is the serializable outcome of a faceted computation, shaped for URL
// parameters and API payloads.
type State struct {
	AppliedFilters map[string][]string       `json:"applied_filters"`
	TotalCount     int                       `json:"total_count"`
	FilteredCount  int                       `json:"filtered_count"`
	FacetCounts    map[string]map[string]int `json:"facet_counts"`
}

// ExportState captures the applied filters and per-option counts of a
// computation.
func ExportState(results Results) State {
	counts := make(map[string]map[string]int, len(results.facets))
	for _, f := range results.facets {
		perOption := make(map[string]int, len(f.options))
		for _, o := range f.options {
			perOption[o.value] = o.count
		}
		counts[f.name] = perOption
	}

	return State{
		AppliedFilters: results.AppliedFilters(),
		TotalCount:     results.totalCount,
		FilteredCount:  results.filteredCount,
		FacetCounts:    counts,
	}
}

// ImportState recovers the applied filters from an exported state, ready to
// hand back to Engine.Compute. A zero State yields an empty, non-nil map.
func ImportState(state State) map[string][]string {
	if state.AppliedFilters == nil {
		return map[string][]string{}
	}
	out := make(map[string][]string, len(state.AppliedFilters))
	for name, values := range state.AppliedFilters {
		vals := make([]string, len(values))
		copy(vals, values)
		out[name] = vals
	}
	return out
}
