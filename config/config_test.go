package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/YuminosukeSato/salarygo/trainer"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "salary.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.Serve.Addr != "0.0.0.0:5000" || cfg.Train.Data != "Salary_Data.csv" || cfg.Train.Model != "salary_prediction_model.json" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_Overlay(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
train:
  sqlite: salaries.db
  table: employees
  seed: 7
serve:
  addr: 127.0.0.1:8080
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := Default()
	want.LogLevel = "debug"
	want.Train.SQLite = "salaries.db"
	want.Train.Table = "employees"
	want.Train.Seed = 7
	want.Serve.Addr = "127.0.0.1:8080"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	tc := cfg.Train.Trainer()
	wantTC := trainer.Config{
		DataPath:   "Salary_Data.csv",
		SQLitePath: "salaries.db",
		Table:      "employees",
		ModelPath:  "salary_prediction_model.json",
		TestSize:   0.2,
		Seed:       7,
	}
	if diff := cmp.Diff(wantTC, tc); diff != "" {
		t.Errorf("trainer config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown key":        "train:\n  epochs: 3\n",
		"bad yaml":           "train: [",
		"bad log level":      "log_level: loud\n",
		"bad log format":     "log_format: xml\n",
		"test size too big":  "train:\n  test_size: 1.5\n",
		"sqlite needs table": "train:\n  sqlite: x.db\n",
		"empty addr":         "serve:\n  addr: \"\"\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("empty file should keep defaults (-want +got):\n%s", diff)
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := Default()
			cfg.LogFormat = format
			logger, err := cfg.NewLogger(&buf)
			if err != nil {
				t.Fatal(err)
			}
			logger.Info("hello")
			if !bytes.Contains(buf.Bytes(), []byte("hello")) {
				t.Errorf("log output %q lacks message", buf.String())
			}
		})
	}
}
