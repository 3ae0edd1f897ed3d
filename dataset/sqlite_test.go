package dataset

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	stmts := []string{
		`CREATE TABLE salaries ("Age" REAL, "Gender" TEXT, "Education Level" TEXT, "Job Title" TEXT, "Years of Experience" REAL, "Salary" REAL)`,
		`INSERT INTO salaries VALUES (32, 'Male', 'Bachelor''s', 'Software Engineer', 5, 90000)`,
		`INSERT INTO salaries VALUES (28, 'Female', 'Master''s', 'Data Analyst', 3, 65000)`,
		`INSERT INTO salaries VALUES (NULL, NULL, 'PhD', 'Director', NULL, 180000)`,
		`INSERT INTO salaries VALUES (40, 'Male', 'PhD', 'Director', 12, NULL)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
	return db
}

func TestLoadSQLite(t *testing.T) {
	db := newTestDB(t)

	l, err := LoadSQLite(context.Background(), db, "salaries", SalarySchema())
	if err != nil {
		t.Fatalf("LoadSQLite: %v", err)
	}
	if l.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", l.Dropped)
	}
	if diff := cmp.Diff([]float64{90000, 65000, 180000}, l.Y); diff != "" {
		t.Errorf("target mismatch (-want +got):\n%s", diff)
	}

	age, _ := l.X.Column(ColAge)
	if age.Float(0) != 32 || !age.IsMissing(2) {
		t.Errorf("unexpected Age column: %v, missing(2)=%v", age.Float(0), age.IsMissing(2))
	}
	edu, _ := l.X.Column(ColEducationLevel)
	if v, _ := edu.String(0); v != "Bachelor's" {
		t.Errorf("Education Level row 0 = %q", v)
	}
	gender, _ := l.X.Column(ColGender)
	if !gender.IsMissing(2) {
		t.Error("NULL Gender should be missing")
	}
}

func TestLoadSQLite_UnknownTable(t *testing.T) {
	db := newTestDB(t)
	if _, err := LoadSQLite(context.Background(), db, "nope", SalarySchema()); err == nil {
		t.Error("expected error for unknown table")
	}
}
