package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "Fit",
			kind:     "invalid input",
			err:      fmt.Errorf("test error"),
			wantMsg:  "salarygo: Fit: invalid input: test error",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Predict",
			kind:     "not fitted",
			err:      nil,
			wantMsg:  "salarygo: Predict: not fitted",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("LinearRegression.Predict", 10, 9, 1)

	want := "salarygo: LinearRegression.Predict: dimension mismatch on axis 1 (features). Expected 10, got 9"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("OneHotEncoder", "Transform")

	want := "salarygo: OneHotEncoder: this model is not fitted yet. Call Fit() before using Transform()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewMissingFeatureError(t *testing.T) {
	err := NewMissingFeatureError("transform", "Job Title")

	if !strings.Contains(err.Error(), "for feature 'Job Title'") {
		t.Errorf("Error() = %q, want feature name", err.Error())
	}
	var shapeErr *InputShapeError
	if !As(err, &shapeErr) {
		t.Fatal("Error should be castable to *InputShapeError")
	}
	if shapeErr.Phase != "transform" {
		t.Errorf("Phase = %q, want transform", shapeErr.Phase)
	}
}

func TestSchemaError_Zerolog(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	err := NewSchemaError("format_version", 1, 7)
	var schemaErr *SchemaError
	if !As(err, &schemaErr) {
		t.Fatal("Error should be castable to *SchemaError")
	}
	logger.Error().Object("detail", schemaErr).Msg("artifact rejected")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid log line: %v", err)
	}
	detail, ok := entry["detail"].(map[string]interface{})
	if !ok {
		t.Fatalf("detail object missing in %s", buf.String())
	}
	if detail["field"] != "format_version" || detail["type"] != "SchemaError" {
		t.Errorf("unexpected detail: %v", detail)
	}
}

func TestWarn_RoutesToZerologFunc(t *testing.T) {
	var got []error
	SetZerologWarnFunc(func(w error) { got = append(got, w) })
	defer SetZerologWarnFunc(nil)

	Warn(NewDataConversionWarning("string", "float64", "cell \"abc\" in column Age"))

	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}
	want := "data converted from string to float64. Reason: cell \"abc\" in column Age"
	if got[0].Error() != want {
		t.Errorf("warning = %q, want %q", got[0].Error(), want)
	}
}

func TestWarn_FallsBackToHandler(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(nil)

	Warn(NewDataConversionWarning("string", "float64", "x"))
	if len(got) != 1 {
		t.Fatalf("expected handler to receive warning, got %d", len(got))
	}
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrMissingFields, "in predict handler")

	if !Is(wrapped, ErrMissingFields) {
		t.Error("Expected Is(wrapped, ErrMissingFields) to be true")
	}
	if !strings.Contains(wrapped.Error(), "in predict handler") {
		t.Error("Expected wrapped error to contain wrapping message")
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Predict", 10, 5)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}
	expectedMsg := "in Predict: expected 10, got 5"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestCheckNumericalStability(t *testing.T) {
	nan := math.NaN()

	if err := CheckNumericalStability("fit", []float64{1, 2, 3}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := CheckNumericalStability("fit", []float64{1, nan})
	var numErr *NumericalInstabilityError
	if !As(err, &numErr) {
		t.Fatalf("expected NumericalInstabilityError, got %v", err)
	}
	if len(numErr.Values) != 1 {
		t.Errorf("expected one unstable value, got %v", numErr.Values)
	}
	if err := CheckScalar("predict", 1.5); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
