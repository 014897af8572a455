package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type functionError struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("⚠️ falha ao escrever resposta")
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

// writeFunctionError is the /functions/v1 failure shape: always 400.
func writeFunctionError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, functionError{Success: false, Error: message})
}

// AuthError renders auth failures for the /api routes.
func AuthError(w http.ResponseWriter, status int, message string) {
	code := "UNAUTHORIZED"
	if status == http.StatusForbidden {
		code = "FORBIDDEN"
	}
	writeErrorResponse(w, status, code, message)
}

// FunctionAuthError renders auth failures for the /functions/v1 routes.
func FunctionAuthError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, functionError{Success: false, Error: message})
}

// writeUseCaseError maps use case errors onto the /api status codes.
func writeUseCaseError(w http.ResponseWriter, r *http.Request, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status := http.StatusBadRequest
		switch {
		case usecase.IsNotFound(err):
			status = http.StatusNotFound
		case de.Code == usecase.CodeForbidden:
			status = http.StatusForbidden
		case de.Code == usecase.CodeOperationInProgress:
			status = http.StatusConflict
		}
		writeErrorResponse(w, status, de.Code, de.Message)
		return
	}

	log.WithError(err).WithField("path", r.URL.Path).Error("❌ erro interno")
	code := usecase.CodeDatabase
	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		code = te.Code
	}
	writeErrorResponse(w, http.StatusInternalServerError, code, "internal error")
}

// resultLabel turns an error into a low-cardinality metric label.
func resultLabel(err error) string {
	if err == nil {
		return "success"
	}
	var de *usecase.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return "error"
}
