package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestFactoryStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"validation", NewValidation("bad input"), CodeValidation, http.StatusBadRequest},
		{"not found", NewNotFound("medicine", "m-1"), CodeNotFound, http.StatusNotFound},
		{"invalid state", NewInvalidState("cannot approve"), CodeInvalidState, http.StatusConflict},
		{"insufficient stock", NewInsufficientStock("m-1", 10, 3), CodeInsufficientStock, http.StatusConflict},
		{"concurrent modification", NewConcurrentModification("bill", "b-1"), CodeConcurrentModification, http.StatusConflict},
		{"unauthorized", NewUnauthorized("token expired"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", NewForbidden("insufficient permissions"), CodeForbidden, http.StatusForbidden},
		{"conflict", NewConflict("already exists"), CodeConflict, http.StatusConflict},
		{"duplicate", NewDuplicate("customer", "phone", "12345"), CodeDuplicate, http.StatusConflict},
		{"internal", NewInternal(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.wantCode)
			}
			if tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("HTTPStatus = %d, want %d", tt.err.HTTPStatus, tt.wantStatus)
			}
		})
	}
}

func TestInsufficientStockDetails(t *testing.T) {
	err := NewInsufficientStock("m-1", 10, 3)

	if err.Details["requested"] != 10 {
		t.Errorf("requested = %v, want 10", err.Details["requested"])
	}
	if err.Details["available"] != 3 {
		t.Errorf("available = %v, want 3", err.Details["available"])
	}
}

func TestWithDetailAndCause(t *testing.T) {
	cause := errors.New("pq: duplicate key")
	err := NewValidation("bad phone").
		WithDetail("field", "phone").
		WithCause(cause)

	if err.Details["field"] != "phone" {
		t.Errorf("field detail = %v, want phone", err.Details["field"])
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find cause through Unwrap")
	}
}

func TestAsAppErrorThroughWrapping(t *testing.T) {
	orig := NewNotFound("supplier", "s-1")
	wrapped := fmt.Errorf("load supplier: %w", orig)

	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to unwrap")
	}
	if appErr.Code != CodeNotFound {
		t.Errorf("Code = %q, want %q", appErr.Code, CodeNotFound)
	}

	if _, ok := AsAppError(errors.New("plain")); ok {
		t.Error("expected plain error to not convert")
	}
}

func TestGetHTTPStatus(t *testing.T) {
	if got := GetHTTPStatus(NewForbidden("nope")); got != http.StatusForbidden {
		t.Errorf("GetHTTPStatus = %d, want %d", got, http.StatusForbidden)
	}
	if got := GetHTTPStatus(errors.New("plain")); got != http.StatusInternalServerError {
		t.Errorf("GetHTTPStatus(plain) = %d, want %d", got, http.StatusInternalServerError)
	}
}
