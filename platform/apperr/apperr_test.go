package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{"not found", NotFound("x"), http.StatusNotFound},
		{"validation", Validation("x"), http.StatusBadRequest},
		{"bad request", BadRequest("x"), http.StatusBadRequest},
		{"conflict", Conflict("x"), http.StatusConflict},
		{"forbidden", Forbidden("x"), http.StatusForbidden},
		{"unauthorized", Unauthorized("x"), http.StatusUnauthorized},
		{"invalid state", InvalidState("x"), http.StatusUnprocessableEntity},
		{"partial write", PartialWrite("x", errors.New("inner")), http.StatusInternalServerError},
		{"internal", Internal("x"), http.StatusInternalServerError},
		{"gone", Gone("x"), http.StatusGone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPartialWriteWrapsCause(t *testing.T) {
	cause := errors.New("booking update failed")
	err := PartialWrite("request committed but booking not updated", cause)

	if !errors.Is(err, cause) {
		t.Error("expected the cause to be reachable via errors.Is")
	}
	if !Is(err, KindPartialWrite) {
		t.Error("expected KindPartialWrite")
	}
}

func TestGetKind(t *testing.T) {
	if got := GetKind(errors.New("plain")); got != KindUnknown {
		t.Errorf("GetKind(plain error) = %v, want KindUnknown", got)
	}
	if got := GetKind(Conflict("x")); got != KindConflict {
		t.Errorf("GetKind(conflict) = %v, want KindConflict", got)
	}
}

func TestErrorStringIncludesOp(t *testing.T) {
	err := NotFound("request not found").WithOp("requests.Get")
	if got, want := err.Error(), "requests.Get: request not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
