package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GetClient (GET /api/clients/{id})
func (h *QueryHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "id is required")
		return
	}

	client, err := h.Queries.GetClient(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}
