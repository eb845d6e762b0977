// Package apperr carries the error taxonomy shared by every handler:
// each failure has a kind that maps to exactly one HTTP status, and the
// kind (not the underlying cause) is what callers see.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Unauthenticated Kind = iota
	RoleMismatch
	NotAuthorized
	InvalidTransition
	NotFound
	Conflict
	InvalidPayload
	StorageFailure
)

type Error struct {
	Kind   Kind
	Detail string
	cause  error
}

func (e *Error) Error() string {
	return e.Detail
}

func (e *Error) Unwrap() error {
	return e.cause
}

func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Storage wraps an opaque store failure without leaking its cause to the
// caller; the original error stays available for logging.
func Storage(err error) *Error {
	return &Error{Kind: StorageFailure, Detail: "Internal server error", cause: err}
}

func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return 0, false
}

func HTTPStatus(err error) int {
	kind, ok := KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch kind {
	case Unauthenticated:
		return http.StatusUnauthorized
	case RoleMismatch, NotAuthorized:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict, InvalidTransition:
		return http.StatusConflict
	case InvalidPayload:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
