package serviceerror

import (
	"errors"
	"fmt"
)

type ServiceErrorType string

const (
	ClientErrorType ServiceErrorType = "client_error"
	ServerErrorType ServiceErrorType = "server_error"
)

// ServiceError is the error type returned by the service layer. Two service
// errors match under errors.Is when their codes are equal.
type ServiceError struct {
	Code        string           `json:"code"`
	Type        ServiceErrorType `json:"type"`
	Message     string           `json:"error"`
	Description string           `json:"error_description,omitempty"`

	cause error
}

var (
	InternalError = &ServiceError{
		Type:        ServerErrorType,
		Code:        "HT-5000",
		Message:     "internal_server_error",
		Description: "An unexpected error occurred",
	}

	PersistenceError = &ServiceError{
		Type:        ServerErrorType,
		Code:        "HT-5001",
		Message:     "persistence_error",
		Description: "A storage error occurred",
	}

	InvalidRequest = &ServiceError{
		Type:        ClientErrorType,
		Code:        "HT-4000",
		Message:     "invalid_request",
		Description: "The request is invalid",
	}

	DuplicateRequest = &ServiceError{
		Type:        ClientErrorType,
		Code:        "HT-4001",
		Message:     "duplicate_request",
		Description: "An active request already exists",
	}

	InvalidDecision = &ServiceError{
		Type:        ClientErrorType,
		Code:        "HT-4002",
		Message:     "invalid_decision",
		Description: "Decision must be APPROVED or REJECTED",
	}

	Unauthorized = &ServiceError{
		Type:        ClientErrorType,
		Code:        "HT-4010",
		Message:     "unauthorized",
		Description: "Authentication is required",
	}

	AccessDenied = &ServiceError{
		Type:        ClientErrorType,
		Code:        "HT-4030",
		Message:     "access_denied",
		Description: "Access denied",
	}

	NotFound = &ServiceError{
		Type:        ClientErrorType,
		Code:        "HT-4040",
		Message:     "not_found",
		Description: "Resource not found",
	}

	Conflict = &ServiceError{
		Type:        ClientErrorType,
		Code:        "HT-4090",
		Message:     "conflict",
		Description: "Request conflicts with current state",
	}
)

// CustomServiceError copies baseError with a request-specific description.
func CustomServiceError(baseError *ServiceError, description string) *ServiceError {
	return &ServiceError{
		Type:        baseError.Type,
		Code:        baseError.Code,
		Message:     baseError.Message,
		Description: description,
	}
}

// Wrap copies baseError and records cause, which is reachable through errors.Unwrap
// but never rendered to API clients.
func Wrap(baseError *ServiceError, cause error, description string) *ServiceError {
	err := CustomServiceError(baseError, description)
	err.cause = cause
	return err
}

func (e *ServiceError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Message, e.Description, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Description)
}

func (e *ServiceError) Unwrap() error {
	return e.cause
}

func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// From returns err as a *ServiceError. Errors that are not service errors are
// reported as InternalError.
func From(err error) *ServiceError {
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}
	return Wrap(InternalError, err, InternalError.Description)
}
