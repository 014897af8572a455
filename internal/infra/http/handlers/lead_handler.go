package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

func leadFilterFrom(r *http.Request) entity.LeadFilter {
	q := r.URL.Query()
	return entity.LeadFilter{
		Status:  entity.LeadStatus(q.Get("status")),
		Source:  q.Get("source"),
		OwnerID: q.Get("owner_id"),
	}
}

// ListLeads (GET /api/leads)
func (h *QueryHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Queries.ListLeads(r.Context(), leadFilterFrom(r))
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}

// LeadSummary (GET /api/leads/summary)
func (h *QueryHandler) LeadSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Queries.LeadSummary(r.Context())
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetLead (GET /api/leads/{id})
func (h *QueryHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "id is required")
		return
	}

	lead, err := h.Queries.GetLead(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// ExportLeads (GET /api/leads/export) streams CSV. Buffered so a failure
// midway still yields a JSON error instead of a truncated file.
func (h *QueryHandler) ExportLeads(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.Queries.ExportLeads(r.Context(), &buf, leadFilterFrom(r)); err != nil {
		writeUseCaseError(w, r, err)
		return
	}

	filename := fmt.Sprintf("leads-%s.csv", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
