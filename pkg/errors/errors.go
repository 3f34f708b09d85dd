package errors

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Common application errors
var (
	ErrNotFound      = NewNotFoundError("resource", "resource not found")
	ErrAlreadyExists = NewAlreadyExistsError("resource", "resource already exists")
	ErrTooLarge      = NewTooLargeError("resource", "resource too large")
	ErrInternal      = NewInternalError("internal server error", nil)
)

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s", e.Field)
	}
	return "validation failed"
}

// Is reports whether target is a ValidationError for the same field.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && (t.Field == "" || t.Field == e.Field)
}

// GRPCStatus returns the gRPC status for this error
func (e *ValidationError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is reports whether target is a NotFoundError for the same resource kind.
// The generic ErrNotFound matches every resource.
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	return ok && (t == ErrNotFound || t.Resource == e.Resource)
}

// GRPCStatus returns the gRPC status for this error
func (e *NotFoundError) GRPCStatus() *status.Status {
	return status.New(codes.NotFound, e.Error())
}

// AlreadyExistsError represents a resource already exists error
type AlreadyExistsError struct {
	Resource string
	Message  string
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(resource, message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// Is reports whether target is an AlreadyExistsError for the same resource kind.
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	return ok && (t == ErrAlreadyExists || t.Resource == e.Resource)
}

// GRPCStatus returns the gRPC status for this error
func (e *AlreadyExistsError) GRPCStatus() *status.Status {
	return status.New(codes.AlreadyExists, e.Error())
}

// TooLargeError reports a payload over a configured size limit
type TooLargeError struct {
	Resource string
	Message  string
}

// NewTooLargeError creates a new too large error
func NewTooLargeError(resource, message string) *TooLargeError {
	return &TooLargeError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *TooLargeError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s too large", e.Resource)
}

// Is reports whether target is a TooLargeError for the same resource kind.
func (e *TooLargeError) Is(target error) bool {
	t, ok := target.(*TooLargeError)
	return ok && (t == ErrTooLarge || t.Resource == e.Resource)
}

// GRPCStatus returns the gRPC status for this error
func (e *TooLargeError) GRPCStatus() *status.Status {
	return status.New(codes.ResourceExhausted, e.Error())
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an InternalError with the same message.
func (e *InternalError) Is(target error) bool {
	t, ok := target.(*InternalError)
	return ok && (t == ErrInternal || t.Message == e.Message)
}

// GRPCStatus returns the gRPC status for this error
func (e *InternalError) GRPCStatus() *status.Status {
	return status.New(codes.Internal, e.Error())
}

// Kind returns a short machine-readable label for err, used in error
// response bodies.
func Kind(err error) string {
	var (
		nf *NotFoundError
		ae *AlreadyExistsError
		ve *ValidationError
		te *TooLargeError
		ie *InternalError
	)
	switch {
	case errors.As(err, &nf):
		return nf.Resource + "_not_found"
	case errors.As(err, &te):
		return te.Resource + "_too_large"
	case errors.As(err, &ae):
		return "already_exists"
	case errors.As(err, &ve):
		if ve.Field == "file" {
			return "invalid_file_type"
		}
		return "validation_error"
	case errors.As(err, &ie):
		return "internal_error"
	default:
		return "internal_error"
	}
}

// HTTPStatus maps err to the REST status code. Invalid upload files are a
// bad request; other validation failures are unprocessable.
func HTTPStatus(err error) int {
	var (
		nf *NotFoundError
		ae *AlreadyExistsError
		ve *ValidationError
		te *TooLargeError
	)
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &te):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &ae):
		return http.StatusBadRequest
	case errors.As(err, &ve):
		if ve.Field == "file" {
			return http.StatusBadRequest
		}
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
