package errors

import (
	"fmt"
	"testing"
)

func TestTendError_Error(t *testing.T) {
	err := &TendError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "task not found",
	}

	expected := "NOT_FOUND: task not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("input is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "input is required" {
		t.Errorf("Message = %q, want %q", err.Message, "input is required")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("goal", "01ARZ3NDEKTSV4RRFFQ69G5FAV")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["kind"] != "goal" {
		t.Errorf("Details[kind] = %v, want %q", err.Details["kind"], "goal")
	}
	if err.Details["identifier"] != "01ARZ3NDEKTSV4RRFFQ69G5FAV" {
		t.Errorf("Details[identifier] = %v, want ULID", err.Details["identifier"])
	}
}

func TestNewNameExists(t *testing.T) {
	err := NewNameExists("life area", "Health")

	if err.Code != ErrNameExists {
		t.Errorf("Code = %q, want %q", err.Code, ErrNameExists)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Details["name"] != "Health" {
		t.Errorf("Details[name] = %v, want %q", err.Details["name"], "Health")
	}
}

func TestNewRateLimited(t *testing.T) {
	err := NewRateLimited(42)

	if err.Code != ErrRateLimited {
		t.Errorf("Code = %q, want %q", err.Code, ErrRateLimited)
	}
	if err.Status != 429 {
		t.Errorf("Status = %d, want 429", err.Status)
	}
	if err.Details["retry_after_seconds"] != 42 {
		t.Errorf("Details[retry_after_seconds] = %v, want 42", err.Details["retry_after_seconds"])
	}
}

func TestNewPersistence(t *testing.T) {
	cause := fmt.Errorf("disk I/O error")
	err := NewPersistence("task.insert", cause)

	if err.Code != ErrPersistence {
		t.Errorf("Code = %q, want %q", err.Code, ErrPersistence)
	}
	if err.Status != 500 {
		t.Errorf("Status = %d, want 500", err.Status)
	}
	if err.Details["operation"] != "task.insert" {
		t.Errorf("Details[operation] = %v, want %q", err.Details["operation"], "task.insert")
	}
	if err.Details["cause"] != "disk I/O error" {
		t.Errorf("Details[cause] = %v, want %q", err.Details["cause"], "disk I/O error")
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		originalErr := fmt.Errorf("database connection failed")
		err := NewInternal(originalErr)

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		if err.Status != 500 {
			t.Errorf("Status = %d, want 500", err.Status)
		}
		// Message should be generic (not leak internal details)
		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		// Original error should be stored in Details for logging
		if err.Details["internal_error"] != "database connection failed" {
			t.Errorf("Details[internal_error] = %q, want %q", err.Details["internal_error"], "database connection failed")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)

		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		// Details should be empty but not nil
		if err.Details == nil {
			t.Error("Details should not be nil")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		err := NewNotFound("task", "abc")
		if !Is(err, ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		err := NewNotFound("task", "abc")
		if Is(err, ErrRateLimited) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("non-TendError", func(t *testing.T) {
		err := fmt.Errorf("plain error")
		if Is(err, ErrNotFound) {
			t.Error("Is() = true, want false for non-TendError")
		}
	})

	t.Run("wrapped TendError", func(t *testing.T) {
		inner := NewNotFound("task", "abc")
		wrapped := fmt.Errorf("commit: %w", inner)
		if !Is(wrapped, ErrNotFound) {
			t.Error("Is() = false, want true for wrapped TendError")
		}
		if Is(wrapped, ErrNameExists) {
			t.Error("Is() = true, want false for wrong code on wrapped TendError")
		}
	})
}
