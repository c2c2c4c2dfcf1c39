package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("quantity must be between %d and %d", 1, 999999)

	if err.Error() != "quantity must be between 1 and 999999" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if _, ok := IsValidationError(err); !ok {
		t.Error("expected IsValidationError to match")
	}
	if _, ok := IsNotFoundError(err); ok {
		t.Error("validation error should not match IsNotFoundError")
	}
}

func TestIsMatchesThroughWrapping(t *testing.T) {
	base := NewConflictError("SKU %s already exists", "BP-100")
	wrapped := fmt.Errorf("failed to create product: %w", base)

	ce, ok := IsConflictError(wrapped)
	if !ok {
		t.Fatal("expected IsConflictError to match wrapped error")
	}
	if ce.Message != "SKU BP-100 already exists" {
		t.Errorf("unexpected message: %q", ce.Message)
	}
}

func TestInvariantViolationUnwrap(t *testing.T) {
	cause := stderrors.New("driver: bad connection")
	err := NewInvariantViolation("counter adjustment failed", cause)

	if !stderrors.Is(err, cause) {
		t.Error("expected cause to be reachable via errors.Is")
	}
	if err.Error() != "counter adjustment failed: driver: bad connection" {
		t.Errorf("unexpected message: %q", err.Error())
	}

	bare := NewInvariantViolation("stock would go negative", nil)
	if bare.Error() != "stock would go negative" {
		t.Errorf("unexpected message: %q", bare.Error())
	}
}

func TestNotFoundThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading: %w", NewNotFoundError("product %d not found", 42))

	if _, ok := IsNotFoundError(wrapped); !ok {
		t.Error("expected IsNotFoundError to match wrapped error")
	}
	if _, ok := IsConflictError(wrapped); ok {
		t.Error("not found error should not match IsConflictError")
	}
}
