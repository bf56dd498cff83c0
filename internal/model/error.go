package model

import (
	"errors"
	"time"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Timestamp     time.Time    `json:"timestamp"`
	Status        int          `json:"status"`
	Error         string       `json:"error"`
	Message       string       `json:"message"`
	Path          string       `json:"path"`
	CorrelationID string       `json:"correlationId,omitempty"`
	Errors        []FieldError `json:"errors,omitempty"`
}

// FieldError describes a validation failure on a single field.
type FieldError struct {
	Field   string `json:"fieldName"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeInvalidParameter   = "INVALID_PARAMETER"
	ErrCodeResourceNotFound   = "RESOURCE_NOT_FOUND"
	ErrCodeIntegrityViolation = "INTEGRITY_VIOLATION"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
	Fields  []FieldError
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped copies compare equal to the sentinels.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && (t.Code == ErrCodeValidation || e.Message == t.Message)
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, message string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: message,
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

// Common domain errors
var (
	ErrResourceNotFound   = NewDomainError(ErrCodeResourceNotFound, "Entity not found")
	ErrIntegrityViolation = NewDomainError(ErrCodeIntegrityViolation, "Integrity violation")
	ErrValidation         = NewDomainError(ErrCodeValidation, "Validation error")
)

// AsDomainError unwraps err to a *DomainError when it carries one.
func AsDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}
