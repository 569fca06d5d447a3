package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for handler-boundary mapping.
type Kind string

const (
	KindAuthentication    Kind = "AUTHENTICATION"
	KindPermissionDenied  Kind = "PERMISSION_DENIED"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindOwnership         Kind = "OWNERSHIP"
	KindValidation        Kind = "VALIDATION"
	KindNotFound          Kind = "NOT_FOUND"
	KindConflict          Kind = "CONFLICT"
	KindInternal          Kind = "INTERNAL"
)

// Error carries a kind, a safe end-user message, and an optional cause.
// Internal detail never reaches the response body.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps an error kind to its response status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindPermissionDenied, KindOwnership:
		return http.StatusForbidden
	case KindValidation, KindInvalidTransition:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// NewAuthentication reports a request with no resolvable actor.
func NewAuthentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// NewPermissionDenied reports a resolvable actor lacking a capability.
// The required permission is kept for logging, not shown to the caller.
func NewPermissionDenied(required string) *Error {
	return &Error{
		Kind:    KindPermissionDenied,
		Message: "Permission denied",
		Cause:   fmt.Errorf("missing permission %q", required),
	}
}

// NewInvalidTransition reports a (from, to) pair absent from the
// delivery transition table.
func NewInvalidTransition(from, to string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("invalid status transition from %s to %s", from, to),
	}
}

// NewOwnership reports a rider acting on a delivery not assigned to them.
// Kept distinct from invalid-transition so UIs can tell the two apart.
func NewOwnership(message string) *Error {
	return &Error{Kind: KindOwnership, Message: message}
}

func NewValidation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NewNotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

// NewConflict reports a lost-update race, e.g. a status row moved
// between read and conditional write.
func NewConflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewInternal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Cause: cause}
}

// FromError extracts an *Error, wrapping unknown errors as internal.
func FromError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Kind: KindInternal, Message: "internal server error", Cause: err}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
