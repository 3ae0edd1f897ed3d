package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/YuminosukeSato/salarygo/pkg/errors"
)

const sampleCSV = `Age,Gender,Education Level,Job Title,Years of Experience,Salary
32,Male,Bachelor's,Software Engineer,5,90000
28,Female,Master's,Data Analyst,3,65000
45,Male,PhD,Senior Manager,15,150000
,Female,,Sales Associate,,
36,,Bachelor's,Data Analyst,7,60000
29,Female,Master's,,abc,55000
`

func TestReadCSV(t *testing.T) {
	var warnings []error
	errors.SetZerologWarnFunc(func(w error) { warnings = append(warnings, w) })
	defer errors.SetZerologWarnFunc(nil)

	l, err := ReadCSV(strings.NewReader(sampleCSV), SalarySchema())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	if l.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1 (row without salary)", l.Dropped)
	}
	if diff := cmp.Diff([]float64{90000, 65000, 150000, 60000, 55000}, l.Y); diff != "" {
		t.Errorf("target mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(SalarySchema().Names(), l.X.Names()); diff != "" {
		t.Errorf("column order mismatch (-want +got):\n%s", diff)
	}

	gender, _ := l.X.Column(ColGender)
	if !gender.IsMissing(3) {
		t.Error("empty Gender cell should be missing")
	}
	job, _ := l.X.Column(ColJobTitle)
	if v, ok := job.String(1); !ok || v != "Data Analyst" {
		t.Errorf("Job Title row 1 = %q, %v", v, ok)
	}
	exp, _ := l.X.Column(ColExperience)
	if !math.IsNaN(exp.Float(4)) {
		t.Errorf("unparsable experience should be missing, got %v", exp.Float(4))
	}
	if len(warnings) != 1 {
		t.Errorf("expected one conversion warning, got %d", len(warnings))
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "missing feature column", input: "Age,Gender,Salary\n30,Male,1000\n"},
		{name: "missing target column", input: "Age,Gender,Education Level,Job Title,Years of Experience\n30,Male,PhD,CEO,10\n"},
		{name: "non numeric target", input: "Age,Gender,Education Level,Job Title,Years of Experience,Salary\n30,Male,PhD,CEO,10,lots\n"},
		{name: "ragged row", input: "Age,Gender,Education Level,Job Title,Years of Experience,Salary\n30,Male\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.input), SalarySchema()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadCSV_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Salary_Data.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := LoadCSV(path, SalarySchema())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if l.Rows() != 5 {
		t.Errorf("Rows() = %d, want 5", l.Rows())
	}

	if _, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), SalarySchema()); err == nil {
		t.Error("expected error for missing file")
	}
}
