package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRecover_WithPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "Pipeline.Predict")
		panic("index out of range")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected error from recovered panic, got nil")
	}

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}
	if panicErr.Operation != "Pipeline.Predict" {
		t.Errorf("Expected operation 'Pipeline.Predict', got '%s'", panicErr.Operation)
	}
	if panicErr.StackTrace == "" {
		t.Error("Expected non-empty stack trace")
	}
	if want := "panic in Pipeline.Predict: index out of range"; panicErr.Error() != want {
		t.Errorf("Error() = %q, want %q", panicErr.Error(), want)
	}
}

func TestRecover_WithoutPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "Pipeline.Predict")
		return nil
	}
	if err := testFunc(); err != nil {
		t.Fatalf("Expected no error when no panic occurs, got: %v", err)
	}
}

func TestRecover_WithExistingError(t *testing.T) {
	original := fmt.Errorf("original error")

	testFunc := func() (err error) {
		defer Recover(&err, "Pipeline.Predict")
		err = original
		panic("panic after error")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "panic in Pipeline.Predict") {
		t.Errorf("Error message should contain panic info: %s", err.Error())
	}
	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Errorf("Expected PanicError in chain, got %T", err)
	}
}

func TestSafeExecute(t *testing.T) {
	tests := []struct {
		name    string
		fn      func() error
		wantErr string
	}{
		{name: "no error", fn: func() error { return nil }},
		{name: "returned error", fn: func() error { return New("boom") }, wantErr: "boom"},
		{name: "panic with error value", fn: func() error { panic(New("matrix dimension error")) }, wantErr: "panic in transform: matrix dimension error"},
		{name: "panic with int", fn: func() error { panic(42) }, wantErr: "panic in transform: 42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SafeExecute("transform", tt.fn)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("SafeExecute() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestPanicError_UnwrapErrorValue(t *testing.T) {
	cause := New("singular")
	err := SafeExecute("fit", func() error { panic(cause) })
	if !errors.Is(err, cause) {
		t.Errorf("expected errors.Is to reach the panic value")
	}
}
