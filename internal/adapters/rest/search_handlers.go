package rest

import (
	"net/http"

	usecases_port "qwiksale-search-service/internal/core/port/usecases_port"
)

type SearchHandler struct {
	searchUC usecases_port.SearchListingsUseCase
}

func NewSearchHandler(searchUC usecases_port.SearchListingsUseCase) *SearchHandler {
	return &SearchHandler{searchUC: searchUC}
}

// Search handles GET /api/v1/search. Parameter normalization never fails,
// so the only error path left is the store failing in both ranked and
// degraded mode.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	req := searchRequestFromQuery(r)
	reqCtx := requestContextFor(r, req)

	page, err := h.searchUC.Execute(r.Context(), req)
	if err != nil {
		WriteJSONError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	w.Header().Set("Cache-Control", reqCtx.CacheControl())
	RespondWithJSON(w, http.StatusOK, toSearchResponse(page))
}
