package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestRecover_WithPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		panic("test panic message")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected error from recovered panic, got nil")
	}

	var panicErr *PanicError
	if !As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}
	if panicErr.Operation != "TestOperation" {
		t.Errorf("Expected operation 'TestOperation', got '%s'", panicErr.Operation)
	}
	if panicErr.StackTrace == "" {
		t.Error("Expected non-empty stack trace")
	}
	if got := panicErr.Error(); got != "panic in TestOperation: test panic message" {
		t.Errorf("unexpected message %q", got)
	}
	if !strings.Contains(panicErr.String(), "Stack trace:") {
		t.Error("String() should include the stack trace")
	}
}

func TestRecover_WithoutPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		return nil
	}

	if err := testFunc(); err != nil {
		t.Fatalf("Expected no error when no panic occurs, got: %v", err)
	}
}

func TestRecover_WithExistingError(t *testing.T) {
	originalErr := fmt.Errorf("original error")

	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		err = originalErr
		panic("panic after error")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "panic in TestOperation") {
		t.Errorf("Error message should contain panic info: %s", err)
	}
	if !Is(err, originalErr) {
		t.Error("original error should remain in the chain")
	}
}

func TestSafeExecute(t *testing.T) {
	cause := fmt.Errorf("matrix dimension error")

	err := SafeExecute("MLOperation", func() error { panic(cause) })
	if err == nil {
		t.Fatal("Expected error from panic recovery, got nil")
	}
	if err.Error() != "panic in MLOperation: matrix dimension error" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !Is(err, cause) {
		t.Error("panic value should be reachable through Unwrap")
	}

	if err := SafeExecute("MLOperation", func() error { return nil }); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
