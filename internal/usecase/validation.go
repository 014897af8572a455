package usecase

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func ValidateConvertLeadInput(input ConvertLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.LeadID) == "" {
		errors = append(errors, ValidationError{"leadId", "is required"})
	}
	if strings.TrimSpace(input.Details.AccountManagerID) == "" {
		errors = append(errors, ValidationError{"conversionDetails.accountManagerId", "is required"})
	}
	if input.Details.MonthlyValue != nil && input.Details.MonthlyValue.IsNegative() {
		errors = append(errors, ValidationError{"conversionDetails.monthlyValue", "must not be negative"})
	}

	start, startOK := optionalDate(input.Details.ContractStartDate)
	if !startOK {
		errors = append(errors, ValidationError{"conversionDetails.contractStartDate", "must be a valid date (YYYY-MM-DD)"})
	}
	end, endOK := optionalDate(input.Details.ContractEndDate)
	if !endOK {
		errors = append(errors, ValidationError{"conversionDetails.contractEndDate", "must be a valid date (YYYY-MM-DD)"})
	}
	if start != nil && end != nil && end.Before(*start) {
		errors = append(errors, ValidationError{"conversionDetails.contractEndDate", "must not be before contractStartDate"})
	}

	return errors
}

func ValidateApplyTemplateInput(input ApplyTemplateInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.ClientID) == "" {
		errors = append(errors, ValidationError{"clientId", "is required"})
	}
	if strings.TrimSpace(input.TemplateID) == "" {
		errors = append(errors, ValidationError{"templateId", "is required"})
	}

	return errors
}

// validationFailed folds field errors into a single VALIDATION_ERROR.
func validationFailed(errs []ValidationError) *DomainError {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return domainErr(CodeValidation, "validation failed: "+strings.Join(parts, ", "))
}

// optionalDate parses an optional YYYY-MM-DD (a full RFC3339 timestamp is
// accepted too, keeping the calendar day written in its own offset).
// Returns ok=false only for a present but malformed value.
func optionalDate(s *string) (*time.Time, bool) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, true
	}
	v := strings.TrimSpace(*s)
	if t, err := time.Parse(dateLayout, v); err == nil {
		return &t, true
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		y, m, d := t.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &day, true
	}
	return nil, false
}
