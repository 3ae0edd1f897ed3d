package model

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSaveJSON_LoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	want := &ModelWeights{
		ModelType:    "LinearRegression",
		Version:      "1",
		Coefficients: []float64{1.5, -2},
		Intercept:    3,
		Features:     []string{"Age", "Years of Experience"},
		IsFitted:     true,
	}

	if err := SaveJSON(want, path); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}
	var got ModelWeights
	if err := LoadJSON(&got, path); err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if diff := cmp.Diff(want, &got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteFileAtomic_FailureKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "artifact.json")
	if err := os.WriteFile(path, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("fit failed")
	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "previous" {
		t.Errorf("artifact overwritten by failed write: %q", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %v", entries)
	}
}

func TestLoadJSON_RejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	if err := os.WriteFile(path, []byte(`{"model_type":"x","surprise":1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	var w ModelWeights
	if err := LoadJSON(&w, path); err == nil {
		t.Error("expected unknown field to be rejected")
	}
}

func TestModelWeights_Validate(t *testing.T) {
	tests := []struct {
		name    string
		w       ModelWeights
		wantErr bool
	}{
		{name: "valid", w: ModelWeights{ModelType: "LinearRegression", Version: "1", Coefficients: []float64{1}, IsFitted: true}},
		{name: "missing type", w: ModelWeights{Version: "1", Coefficients: []float64{1}, IsFitted: true}, wantErr: true},
		{name: "fitted without coefficients", w: ModelWeights{ModelType: "LinearRegression", Version: "1", IsFitted: true}, wantErr: true},
		{name: "feature count mismatch", w: ModelWeights{ModelType: "LinearRegression", Version: "1", Coefficients: []float64{1, 2}, Features: []string{"Age"}, IsFitted: true}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.w.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestModelWeights_CloneIsDeep(t *testing.T) {
	orig := &ModelWeights{ModelType: "LinearRegression", Version: "1", Coefficients: []float64{1, 2}, IsFitted: true}
	clone := orig.Clone()
	clone.Coefficients[0] = 99
	if orig.Coefficients[0] != 1 {
		t.Error("Clone shares coefficient storage with the original")
	}
}
