package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{Unauthenticated, http.StatusUnauthorized},
		{RoleMismatch, http.StatusForbidden},
		{NotAuthorized, http.StatusForbidden},
		{InvalidTransition, http.StatusConflict},
		{Conflict, http.StatusConflict},
		{NotFound, http.StatusNotFound},
		{InvalidPayload, http.StatusBadRequest},
		{StorageFailure, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(New(tt.kind, "boom")); got != tt.want {
			t.Errorf("HTTPStatus(kind %v) = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestHTTPStatusUnknownError(t *testing.T) {
	if got := HTTPStatus(errors.New("plain")); got != http.StatusInternalServerError {
		t.Fatalf("foreign errors must map to 500, got %d", got)
	}
}

func TestKindOfThroughWrapping(t *testing.T) {
	err := fmt.Errorf("loading task: %w", New(NotFound, "Task Not Found"))

	kind, ok := KindOf(err)

	if !ok || kind != NotFound {
		t.Fatalf("KindOf(wrapped) = %v, %v", kind, ok)
	}
}

func TestStorageKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Storage(cause)

	if err.Error() != "Internal server error" {
		t.Fatalf("storage errors must not leak the cause, got %q", err.Error())
	}

	if !errors.Is(err, cause) {
		t.Fatal("the original cause must stay reachable for logging")
	}
}

func TestNewf(t *testing.T) {
	err := Newf(Conflict, "Task with description %q already exists", "dedupe")

	if err.Kind != Conflict {
		t.Fatalf("kind = %v, want Conflict", err.Kind)
	}

	if err.Error() != `Task with description "dedupe" already exists` {
		t.Fatalf("detail = %q", err.Error())
	}
}
