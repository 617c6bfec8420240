package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = new(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrDatabase         = new(ErrCodeDatabase, "database error")
	ErrSystem           = new(ErrCodeSystemError, "system error")

	// Domain errors of the tax engine. UnknownEventType is an input error
	// (the caller referenced an event type absent from the catalog);
	// NoMatchingBracket and CatalogIntegrity are configuration errors and
	// must abort the whole evaluation.
	ErrUnknownEventType  = new(ErrCodeUnknownEventType, "unknown event type")
	ErrNoMatchingBracket = new(ErrCodeNoMatchingBracket, "no matching tier bracket")
	ErrCatalogIntegrity  = new(ErrCodeCatalogIntegrity, "tax catalog integrity error")

	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrNotFound:          http.StatusNotFound,
		ErrAlreadyExists:     http.StatusConflict,
		ErrValidation:        http.StatusBadRequest,
		ErrInvalidOperation:  http.StatusBadRequest,
		ErrDatabase:          http.StatusInternalServerError,
		ErrSystem:            http.StatusInternalServerError,
		ErrUnknownEventType:  http.StatusBadRequest,
		ErrNoMatchingBracket: http.StatusInternalServerError,
		ErrCatalogIntegrity:  http.StatusInternalServerError,
	}
)

const (
	ErrCodeNotFound          = "not_found"
	ErrCodeAlreadyExists     = "already_exists"
	ErrCodeValidation        = "validation_error"
	ErrCodeInvalidOperation  = "invalid_operation"
	ErrCodeDatabase          = "database_error"
	ErrCodeSystemError       = "system_error"
	ErrCodeUnknownEventType  = "unknown_event_type"
	ErrCodeNoMatchingBracket = "no_matching_bracket"
	ErrCodeCatalogIntegrity  = "catalog_integrity_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// new creates a new InternalError sentinel
func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnknownEventType checks if an error is an unknown event type error
func IsUnknownEventType(err error) bool {
	return errors.Is(err, ErrUnknownEventType)
}

// IsNoMatchingBracket checks if an error is a tier bracket resolution error
func IsNoMatchingBracket(err error) bool {
	return errors.Is(err, ErrNoMatchingBracket)
}

// IsCatalogIntegrity checks if an error is a catalog integrity error
func IsCatalogIntegrity(err error) bool {
	return errors.Is(err, ErrCatalogIntegrity)
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}
