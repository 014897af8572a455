package handlers

import (
	"net/http"
	"strconv"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

// ListTasks (GET /api/tasks) groups tasks by due bucket.
func (h *QueryHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	buckets, err := h.Queries.ListTasks(r.Context(), entity.TaskFilter{
		LeadID:     q.Get("lead_id"),
		AssigneeID: q.Get("assignee_id"),
	})
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

// ListActivities (GET /api/activities)
func (h *QueryHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a number")
			return
		}
		limit = n
	}

	activities, err := h.Queries.ListActivities(r.Context(), q.Get("lead_id"), limit)
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	if activities == nil {
		activities = []*entity.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}

// ListTemplates (GET /api/templates)
func (h *QueryHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.Queries.ListTemplates(r.Context())
	if err != nil {
		writeUseCaseError(w, r, err)
		return
	}
	if templates == nil {
		templates = []*entity.Template{}
	}
	writeJSON(w, http.StatusOK, templates)
}
