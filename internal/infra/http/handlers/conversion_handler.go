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

type LeadConverter interface {
	Execute(ctx context.Context, input usecase.ConvertLeadInput) (*usecase.ConvertLeadOutput, error)
}

type ConversionHandler struct {
	UC LeadConverter
}

func NewConversionHandler(uc LeadConverter) *ConversionHandler {
	return &ConversionHandler{UC: uc}
}

type convertLeadResponse struct {
	Success bool           `json:"success"`
	Client  *entity.Client `json:"client"`
	Message string         `json:"message"`
}

// Handle serves POST /functions/v1/convert-lead-to-client.
func (h *ConversionHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var input usecase.ConvertLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		middleware.RecordConversion("INVALID_JSON")
		writeFunctionError(w, "Invalid JSON body")
		return
	}
	if p, ok := middleware.PrincipalFrom(r.Context()); ok {
		input.ActorID = p.UserID
	}

	output, err := h.UC.Execute(r.Context(), input)
	middleware.RecordConversion(resultLabel(err))
	if err != nil {
		if !usecase.IsDomainError(err) {
			log.WithError(err).WithField("lead_id", input.LeadID).Error("❌ conversão falhou")
		}
		writeFunctionError(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, convertLeadResponse{
		Success: true,
		Client:  output.Client,
		Message: output.Message,
	})
}
