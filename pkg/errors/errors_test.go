package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/zfogg/otakulist/pkg/api"
)

func TestNewCLIError(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewCLIError(ErrorTypeValidation, "Test error", cause)

	if err.Type != ErrorTypeValidation {
		t.Errorf("Expected type %s, got %s", ErrorTypeValidation, err.Type)
	}
	if err.Message != "Test error" {
		t.Errorf("Expected message 'Test error', got '%s'", err.Message)
	}
	if !errors.Is(err, cause) {
		t.Error("Cause should be reachable through Unwrap")
	}
}

func TestWithSuggestion(t *testing.T) {
	err := NewCLIError(ErrorTypeValidation, "Test", nil).WithSuggestion("Try something else")

	if !err.HasSuggestion() {
		t.Error("HasSuggestion returned false")
	}
}

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"reorder conflict", &api.ConflictError{ListID: "l1"}, ErrorTypeConflict},
		{"wrapped conflict", fmt.Errorf("move: %w", &api.ConflictError{ListID: "l1"}), ErrorTypeConflict},
		{"unauthorized", &api.APIError{StatusCode: http.StatusUnauthorized}, ErrorTypeAuth},
		{"forbidden", &api.APIError{StatusCode: http.StatusForbidden}, ErrorTypeForbidden},
		{"not found", fmt.Errorf("failed to fetch list: %w", &api.APIError{StatusCode: http.StatusNotFound, Message: "list"}), ErrorTypeNotFound},
		{"bad request", &api.APIError{StatusCode: http.StatusBadRequest, Message: "bad order"}, ErrorTypeValidation},
		{"rate limit", &api.APIError{StatusCode: http.StatusTooManyRequests}, ErrorTypeRateLimit},
		{"server", &api.APIError{StatusCode: http.StatusBadGateway}, ErrorTypeServer},
		{"deadline", context.DeadlineExceeded, ErrorTypeTimeout},
		{"refused", errors.New("dial tcp: connection refused"), ErrorTypeNetwork},
		{"other", errors.New("something odd"), ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategorizeError(tt.err)
			if got.Type != tt.want {
				t.Errorf("CategorizeError(%v): got %s, want %s", tt.err, got.Type, tt.want)
			}
		})
	}
}

func TestCategorizeErrorKeepsCLIError(t *testing.T) {
	orig := ValidationError("name", "cannot be empty")
	if CategorizeError(fmt.Errorf("create: %w", orig)) != orig {
		t.Error("existing CLIError should be returned as is")
	}
	if CategorizeError(nil) != nil {
		t.Error("nil should stay nil")
	}
}

func TestFormatError(t *testing.T) {
	out := FormatError(&api.ConflictError{ListID: "l1", Message: "list changed"})

	if !strings.Contains(out, "Error (conflict): list changed") {
		t.Errorf("unexpected format: %q", out)
	}
	if !strings.Contains(out, "Suggestion:") {
		t.Errorf("conflict should carry a suggestion: %q", out)
	}
	if FormatError(nil) != "" {
		t.Error("FormatError(nil) should be empty")
	}
}
