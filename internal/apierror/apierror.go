// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Kind classifies domain errors so handlers can map them to HTTP statuses
// without matching message strings.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindPreconditionFailed
	KindValidationFailed
	KindAmountMismatch
	KindNotPayable
	KindUnauthorized
	KindConflict
)

// Error is the typed error domain services return for expected failures.
// Unexpected failures (DB down, etc.) are returned raw and map to 500.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func NotFound(msg string) error           { return &Error{Kind: KindNotFound, Message: msg} }
func PreconditionFailed(msg string) error { return &Error{Kind: KindPreconditionFailed, Message: msg} }
func ValidationFailed(msg string) error   { return &Error{Kind: KindValidationFailed, Message: msg} }
func AmountMismatch(msg string) error     { return &Error{Kind: KindAmountMismatch, Message: msg} }
func NotPayable(msg string) error         { return &Error{Kind: KindNotPayable, Message: msg} }
func Unauthorized(msg string) error       { return &Error{Kind: KindUnauthorized, Message: msg} }
func Conflict(msg string) error           { return &Error{Kind: KindConflict, Message: msg} }

// KindOf extracts the Kind from an error chain; KindInternal when untyped.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Status maps a domain error to its HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindPreconditionFailed, KindConflict:
		return http.StatusConflict
	case KindValidationFailed:
		return http.StatusUnprocessableEntity
	case KindAmountMismatch, KindNotPayable:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
