// Package apperr definisce gli errori strutturati esposti dalle API HTTP.
// Ogni errore ha un tipo, un messaggio per il client e un codice HTTP.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Type e' la categoria dell'errore.
type Type string

const (
	TypeValidation          Type = "validation"
	TypeUnauthenticated     Type = "unauthenticated"
	TypeForbidden           Type = "forbidden"
	TypeNotFound            Type = "not_found"
	TypeConflict            Type = "conflict"
	TypeRateLimited         Type = "rate_limited"
	TypeUpstreamUnavailable Type = "upstream_unavailable"
	TypeInternal            Type = "internal"
)

// Error e' un errore con tipo, messaggio e contesto.
type Error struct {
	Type    Type
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus mappa il tipo nel codice HTTP.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeUnauthenticated:
		return http.StatusUnauthorized
	case TypeForbidden:
		return http.StatusForbidden
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeRateLimited:
		return http.StatusTooManyRequests
	case TypeUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithField aggiunge un campo di contesto (chainable).
func (e *Error) WithField(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Response e' il corpo JSON inviato al client.
type Response struct {
	Error   string         `json:"error"`
	Type    Type           `json:"type"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *Error) ToResponse() Response {
	return Response{Error: e.Message, Type: e.Type, Context: e.Context}
}

func Validation(message string) *Error {
	return &Error{Type: TypeValidation, Message: message}
}

func Unauthenticated(message string) *Error {
	return &Error{Type: TypeUnauthenticated, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Type: TypeForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Type: TypeNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Type: TypeConflict, Message: message}
}

func RateLimited(message string) *Error {
	return &Error{Type: TypeRateLimited, Message: message}
}

// UpstreamUnavailable e' per storage o servizi esterni non raggiungibili.
func UpstreamUnavailable(message string, cause error) *Error {
	return &Error{Type: TypeUpstreamUnavailable, Message: message, Cause: cause}
}

func Internal(message string, cause error) *Error {
	return &Error{Type: TypeInternal, Message: message, Cause: cause}
}

// From converte un errore qualsiasi; se non e' gia' strutturato diventa internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var structured *Error
	if errors.As(err, &structured) {
		return structured
	}
	return Internal("internal server error", err)
}
