package domain

import (
	"errors"
	"testing"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil error", nil, ""},
		{"domain error", Invalid("cart.add", "bad quantity"), EINVALID},
		{"wrapped domain error", Internal(errors.New("pq: boom"), "order.create", "failed to save order"), EINTERNAL},
		{"plain error", errors.New("boom"), EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage_HidesInternalDetails(t *testing.T) {
	err := Internal(errors.New("connection refused"), "order.create", "failed to save order")
	msg := ErrorMessage(err)
	if msg != "An internal error occurred. Please try again later." {
		t.Errorf("internal error leaked message: %q", msg)
	}

	err = NotFound("product.get", "product", "abc-123")
	if ErrorMessage(err) != "product not found: abc-123" {
		t.Errorf("unexpected message: %q", ErrorMessage(err))
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("duplicate key")
	err := Internal(underlying, "user.create", "failed to create user")
	if !errors.Is(err, underlying) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}

func TestValidationError_Collect(t *testing.T) {
	var err error
	err = AddFieldError(err, "email", "Email is required")
	err = AddFieldError(err, "password", "Password must be at least 6 characters")

	if !IsValidationError(err) {
		t.Fatal("expected a ValidationError")
	}

	fields := GetValidationFields(err)
	if len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(fields))
	}
	if fields["email"] != "Email is required" {
		t.Errorf("unexpected email error: %q", fields["email"])
	}
}
