package usecase

import (
	"errors"
	"fmt"
)

const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeLeadNotFound        = "LEAD_NOT_FOUND"
	CodeClientNotFound      = "CLIENT_NOT_FOUND"
	CodeTemplateNotFound    = "TEMPLATE_NOT_FOUND"
	CodeAlreadyConverted    = "ALREADY_CONVERTED"
	CodeAlreadyApplied      = "ALREADY_APPLIED"
	CodeEmptyTemplate       = "EMPTY_TEMPLATE"
	CodeOperationInProgress = "OPERATION_IN_PROGRESS"
	CodeForbidden           = "FORBIDDEN"
	CodeDatabase            = "DATABASE_ERROR"
)

// DomainError is a failure the caller can act on: bad input, missing
// record or a violated precondition.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// IsNotFound reports whether err is one of the *_NOT_FOUND domain errors.
func IsNotFound(err error) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	switch de.Code {
	case CodeLeadNotFound, CodeClientNotFound, CodeTemplateNotFound:
		return true
	}
	return false
}

// TechnicalError wraps a downstream failure (store, broker).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *TechnicalError) Unwrap() error { return e.Err }

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func domainErr(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func dbErr(message string, err error) *TechnicalError {
	return &TechnicalError{Code: CodeDatabase, Message: message, Err: err}
}
