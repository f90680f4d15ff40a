package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mevzuatlab/mevzuat"
	"github.com/mevzuatlab/mevzuat/domain/facet"
	"github.com/mevzuatlab/mevzuat/infrastructure/api/middleware"
	"github.com/mevzuatlab/mevzuat/infrastructure/api/v1/dto"
)

// FacetsRouter exposes the configured facet dimensions so clients can build
// their filter UI without a prior search.
type FacetsRouter struct {
	client *mevzuat.Client
	logger *slog.Logger
}

// NewFacetsRouter creates a FacetsRouter.
func NewFacetsRouter(client *mevzuat.Client) *FacetsRouter {
	return &FacetsRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for facet endpoints.
func (r *FacetsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)

	return router
}

// List handles GET /api/v1/facets.
func (r *FacetsRouter) List(w http.ResponseWriter, req *http.Request) {
	defs := r.client.Search.FacetDefinitions()

	out := make([]dto.FacetDefinition, 0, len(defs))
	for _, d := range defs {
		out = append(out, facetDefinitionDTO(d))
	}

	middleware.WriteJSON(w, http.StatusOK, dto.FacetsResponse{Facets: out})
}

// facetDefinitionDTO flattens a definition. Declared values come from range
// buckets or the sort order; term facets without a declared order list no
// values, their options only exist relative to a result set.
func facetDefinitionDTO(d facet.Definition) dto.FacetDefinition {
	out := dto.FacetDefinition{
		Name:  d.Name,
		Label: d.Label,
		Type:  string(d.Kind),
	}

	if d.Kind == facet.KindRange {
		for _, bucket := range d.Ranges {
			out.Values = append(out.Values, dto.FacetValue{
				Value: bucket.Key,
				Label: d.OptionLabel(bucket.Key),
			})
		}
		return out
	}

	for _, v := range d.SortOrder {
		out.Values = append(out.Values, dto.FacetValue{
			Value: v,
			Label: d.OptionLabel(v),
		})
	}
	return out
}
