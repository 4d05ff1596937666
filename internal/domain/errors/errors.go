// Package errors defines the fault taxonomy that crosses every layer of the
// orchestrator: local faults are caught at the HTTP boundary and translated
// into the error envelope, background-task faults are logged and recorded
// on the owning row, never crashing a worker loop.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel domain errors, used with errors.Is across repository/cache layers.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
)

// Fault is the common shape of every error kind the orchestrator raises
// deliberately (as opposed to leaked internal errors, which InternalFault wraps).
type Fault struct {
	Kind       string
	Code       string
	Message    string
	HTTPStatus int
	Cause      error
}

func (f *Fault) Error() string {
	if f.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Cause)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Fault) Unwrap() error { return f.Cause }

func newFault(kind, code, message string, status int, cause error) *Fault {
	return &Fault{Kind: kind, Code: code, Message: message, HTTPStatus: status, Cause: cause}
}

// Validation rejects a request before any state change. Not retried.
func Validation(code, message string) *Fault {
	return newFault("ValidationFault", code, message, http.StatusBadRequest, nil)
}

// Auth signals an API key that was not recognized. Not retried.
func Auth(code, message string) *Fault {
	return newFault("AuthFault", code, message, http.StatusUnauthorized, nil)
}

// Domain signals a business-rule violation: payment not refundable, refund
// exceeds remaining balance, endpoint not found, etc. Not retried, surfaced verbatim.
func Domain(code, message string) *Fault {
	return newFault("DomainFault", code, message, http.StatusBadRequest, nil)
}

// DomainNotFound is a Domain fault shaped as a 404.
func DomainNotFound(code, message string) *Fault {
	return newFault("DomainFault", code, message, http.StatusNotFound, nil)
}

// Gateway wraps a failure from a Gateway Port call. httpStatus defaults to
// 500 when the adapter did not supply one.
func Gateway(code, message string, httpStatus int, cause error) *Fault {
	if httpStatus == 0 {
		httpStatus = http.StatusInternalServerError
	}
	return newFault("GatewayFault", code, message, httpStatus, cause)
}

// ValidationStatus is Validation with an explicit HTTP status, for local
// rejections that are 4xx but not exactly 400 — e.g. rate limiting's 429.
func ValidationStatus(code, message string, httpStatus int) *Fault {
	return newFault("ValidationFault", code, message, httpStatus, nil)
}

// Transport signals a retryable failure delivering a webhook. Never
// surfaced synchronously — only ever recorded on a WebhookDelivery row.
func Transport(message string, cause error) *Fault {
	return newFault("TransportFault", "TRANSPORT_ERROR", message, 0, cause)
}

// Internal wraps an unexpected error. Logged with correlation id, returned
// as 500 with a sanitized message; never leaks the underlying cause to callers.
func Internal(cause error) *Fault {
	return newFault("InternalFault", "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError, cause)
}

// AsFault unwraps err into a *Fault if it (or something it wraps) is one.
func AsFault(err error) (*Fault, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
