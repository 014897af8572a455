package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type TemplateApplier interface {
	Execute(ctx context.Context, input usecase.ApplyTemplateInput) (*usecase.ApplyTemplateOutput, error)
}

type OnboardingHandler struct {
	UC TemplateApplier
}

func NewOnboardingHandler(uc TemplateApplier) *OnboardingHandler {
	return &OnboardingHandler{UC: uc}
}

type applyTemplateResponse struct {
	Success  bool           `json:"success"`
	Tasks    []*entity.Task `json:"tasks"`
	Template string         `json:"template"`
	Message  string         `json:"message"`
}

// Handle serves POST /functions/v1/apply-onboarding-template.
func (h *OnboardingHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.ApplyTemplateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.RecordTemplateApplied("INVALID_JSON", 0)
		writeFunctionError(w, "Invalid JSON body")
		return
	}
	if p, ok := middleware.PrincipalFrom(r.Context()); ok {
		input.ActorID = p.UserID
	}

	output, err := h.UC.Execute(r.Context(), input)
	if err != nil {
		middleware.RecordTemplateApplied(resultLabel(err), 0)
		if !usecase.IsDomainError(err) {
			log.WithError(err).WithFields(log.Fields{
				"client_id":   input.ClientID,
				"template_id": input.TemplateID,
			}).Error("❌ aplicação de template falhou")
		}
		writeFunctionError(w, err.Error())
		return
	}
	middleware.RecordTemplateApplied("success", output.Count)

	tasks := output.Tasks
	if tasks == nil {
		tasks = []*entity.Task{}
	}
	writeJSON(w, http.StatusOK, applyTemplateResponse{
		Success:  true,
		Tasks:    tasks,
		Template: output.TemplateName,
		Message:  output.Message,
	})
}
