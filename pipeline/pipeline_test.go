package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/YuminosukeSato/salarygo/dataset"
	"github.com/YuminosukeSato/salarygo/pkg/errors"
)

const sampleData = "../testdata/salary_sample.csv"

func exampleRecord() map[string]any {
	return map[string]any{
		dataset.ColAge:            28.0,
		dataset.ColGender:         "Female",
		dataset.ColEducationLevel: "Master's",
		dataset.ColJobTitle:       "Data Analyst",
		dataset.ColExperience:     3.0,
	}
}

func fitted(t *testing.T) (*Pipeline, *dataset.Labeled) {
	t.Helper()
	l, err := dataset.LoadCSV(sampleData, dataset.SalarySchema())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	train, test, err := dataset.TrainTestSplit(l, dataset.DefaultTestSize, dataset.DefaultSeed)
	if err != nil {
		t.Fatal(err)
	}
	p := New(dataset.SalarySchema())
	if err := p.Fit(train.X, train.Y); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	return p, test
}

func TestPipeline_FitPredict(t *testing.T) {
	p, test := fitted(t)

	if p.RunID == "" || p.CreatedAt.IsZero() {
		t.Error("Fit should stamp run id and creation time")
	}
	if got := p.Model.NFeatures; got != p.Preprocessor.NumFeatures() {
		t.Errorf("model width %d != preprocessor width %d", got, p.Preprocessor.NumFeatures())
	}

	pred, err := p.PredictRecord(exampleRecord())
	if err != nil {
		t.Fatalf("PredictRecord: %v", err)
	}
	if pred <= 0 {
		t.Errorf("prediction = %v, want positive", pred)
	}
	again, _ := p.PredictRecord(exampleRecord())
	if again != pred {
		t.Errorf("identical input gave %v then %v", pred, again)
	}

	report, err := p.Evaluate(test)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if report.Samples != test.Rows() || report.RMSE <= 0 {
		t.Errorf("unexpected report %+v", report)
	}
	if p.Metrics == nil || *p.Metrics != report {
		t.Error("Evaluate should record the report")
	}
}

func TestPipeline_PredictRecordMissingField(t *testing.T) {
	p, _ := fitted(t)
	rec := exampleRecord()
	delete(rec, dataset.ColJobTitle)
	if _, err := p.PredictRecord(rec); !errors.Is(err, errors.ErrMissingFields) {
		t.Errorf("expected ErrMissingFields, got %v", err)
	}
}

func TestPipeline_SaveLoad(t *testing.T) {
	p, test := fitted(t)
	if _, err := p.Evaluate(test); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "salary_prediction_model.json")
	if err := p.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.RunID != p.RunID {
		t.Errorf("RunID = %q, want %q", loaded.RunID, p.RunID)
	}
	if diff := cmp.Diff(p.Metrics, loaded.Metrics); diff != "" {
		t.Errorf("metrics mismatch (-want +got):\n%s", diff)
	}

	want, _ := p.Predict(test.X)
	got, err := loaded.Predict(test.X)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("loaded pipeline predicts differently (-want +got):\n%s", diff)
	}

	if err := loaded.Fit(test.X, test.Y); err == nil {
		t.Error("a loaded pipeline must be read-only")
	}

	// overwriting keeps a single valid artifact
	if err := p.Save(path); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the artifact in the directory, found %d entries", len(entries))
	}
}

func TestPipeline_SaveFailureLeavesNothing(t *testing.T) {
	p, _ := fitted(t)
	path := filepath.Join(t.TempDir(), "missing-dir", "model.json")
	if err := p.Save(path); err == nil {
		t.Fatal("expected error saving into a missing directory")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("no artifact should exist, stat err = %v", err)
	}
}

func TestLoad_Rejects(t *testing.T) {
	p, _ := fitted(t)

	tests := []struct {
		name   string
		mutate func(a *Artifact)
		field  string
	}{
		{name: "format version", mutate: func(a *Artifact) { a.FormatVersion = 99 }, field: "format_version"},
		{name: "schema", mutate: func(a *Artifact) { a.Schema.Columns = a.Schema.Columns[:4] }, field: "schema"},
		{name: "run id", mutate: func(a *Artifact) { a.RunID = "not-a-uuid" }, field: "run_id"},
		{
			name:   "coefficient count",
			mutate: func(a *Artifact) { a.Model.Coefficients = a.Model.Coefficients[1:]; a.Model.Features = nil },
			field:  "model.coefficients",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := p.Artifact()
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(a)

			path := filepath.Join(t.TempDir(), "model.json")
			raw, err := json.Marshal(a)
			if err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(path, raw, 0o644); err != nil {
				t.Fatal(err)
			}

			_, err = Load(path)
			var schemaErr *errors.SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected SchemaError, got %v", err)
			}
			if schemaErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", schemaErr.Field, tt.field)
			}
		})
	}
}

func TestLoad_Malformed(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"not json":      "{",
		"unknown field": `{"format_version":1,"surprise":true}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".json")
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
	if _, err := Load(filepath.Join(dir, "absent.json")); err == nil {
		t.Error("expected error for a missing artifact")
	}
}
