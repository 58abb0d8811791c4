package shared

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes shared by the domain, application and HTTP layers.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "NOT_FOUND"
	CodeNotFoundPostWrite = "NOT_FOUND_POST_WRITE"
	CodeInfrastructure    = "INFRASTRUCTURE_ERROR"
	CodeUnauthorized      = "UNAUTHORIZED"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Missing []string `json:"missing_fields,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError reports input the caller must fix.
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// NewMissingFieldsError reports required fields that are absent or null.
func NewMissingFieldsError(missing []string) *DomainError {
	err := NewDomainError(CodeValidation, "Missing required fields: "+strings.Join(missing, ", "))
	err.Missing = append([]string(nil), missing...)
	return err
}

// NewNotFoundError reports a singleton lookup that matched nothing.
func NewNotFoundError(format string, args ...any) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf(format, args...))
}

// NewNotFoundPostWriteError reports a row that vanished between write and
// re-read. It is a store consistency anomaly, not a client error.
func NewNotFoundPostWriteError(table string, id any) *DomainError {
	return NewDomainError(CodeNotFoundPostWrite,
		fmt.Sprintf("row %v in %s not found after write", id, table))
}

// NewInfrastructureError wraps a store or transport failure.
func NewInfrastructureError(op string, cause error) *DomainError {
	return &DomainError{
		Code:    CodeInfrastructure,
		Message: fmt.Sprintf("%s: %v", op, cause),
		cause:   cause,
	}
}

// CodeOf returns the domain code carried by err, or "" for foreign errors.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidation
}
