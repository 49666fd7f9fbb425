package rest

import (
	"net/http"
	"strings"

	"qwiksale-search-service/internal/core/domain"
	usecases_port "qwiksale-search-service/internal/core/port/usecases_port"
)

// Outward dictionary names, matching the facet group names in the search
// response.
var dimensionNames = map[domain.FacetDimension]string{
	domain.FacetTown:      "towns",
	domain.FacetCategory:  "categories",
	domain.FacetBrand:     "brands",
	domain.FacetCondition: "conditions",
}

var dimensionByName = func() map[string]domain.FacetDimension {
	m := make(map[string]domain.FacetDimension, len(dimensionNames))
	for dim, name := range dimensionNames {
		m[name] = dim
	}
	return m
}()

type DictionariesHandler struct {
	getDictionariesUC usecases_port.GetDictionariesUseCase
}

func NewDictionariesHandler(getDictionariesUC usecases_port.GetDictionariesUseCase) *DictionariesHandler {
	return &DictionariesHandler{getDictionariesUC: getDictionariesUC}
}

// GetDictionaries handles GET /api/v1/dictionaries. `names` is a
// comma-separated subset of the dimensions; absent means all of them.
func (h *DictionariesHandler) GetDictionaries(w http.ResponseWriter, r *http.Request) {
	namesStr := r.URL.Query().Get("names")
	var names []string
	if namesStr != "" {
		for _, name := range strings.Split(namesStr, ",") {
			if dim, ok := dimensionByName[strings.TrimSpace(name)]; ok {
				names = append(names, string(dim))
			}
		}
		if len(names) == 0 {
			WriteJSONError(w, http.StatusBadRequest, "No known dictionary names requested")
			return
		}
	}

	dictionaries, err := h.getDictionariesUC.Execute(r.Context(), names)
	if err != nil {
		// The use case logs its own errors, here we just answer 500.
		WriteJSONError(w, http.StatusInternalServerError, "Failed to retrieve dictionaries")
		return
	}

	response := make(DictionariesResponse)
	for dim, buckets := range dictionaries {
		response[dimensionNames[dim]] = toFacetBuckets(buckets)
	}

	RespondWithJSON(w, http.StatusOK, response)
}
