package preprocessing

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/YuminosukeSato/salarygo/dataset"
	"github.com/YuminosukeSato/salarygo/pkg/errors"
)

func TestSimpleImputer_Median(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "odd count", values: []float64{3, 1, math.NaN(), 2}, want: 2},
		{name: "even count averages middle pair", values: []float64{4, 1, 3, 2}, want: 2.5},
		{name: "single value", values: []float64{math.NaN(), 7}, want: 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp := NewSimpleImputer(StrategyMedian)
			col := dataset.NewNumericColumn("x", tt.values)
			out, err := imp.FitTransform([]*dataset.Column{col})
			if err != nil {
				t.Fatalf("FitTransform: %v", err)
			}
			if imp.Medians[0] != tt.want {
				t.Errorf("median = %v, want %v", imp.Medians[0], tt.want)
			}
			for i := 0; i < out[0].Len(); i++ {
				if out[0].IsMissing(i) {
					t.Errorf("row %d still missing", i)
				}
			}
			// the input column is left untouched
			if !math.IsNaN(tt.values[0]) && col.Float(0) != tt.values[0] {
				t.Error("input column was modified")
			}
		})
	}
}

func TestSimpleImputer_MostFrequent(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		null   []bool
		want   string
	}{
		{
			name:   "clear winner",
			values: []string{"b", "a", "b", ""},
			null:   []bool{false, false, false, true},
			want:   "b",
		},
		{
			name:   "tie goes to smallest",
			values: []string{"Male", "Female", "Male", "Female"},
			want:   "Female",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp := NewSimpleImputer(StrategyMostFrequent)
			col := dataset.NewCategoricalColumn("c", tt.values, tt.null)
			out, err := imp.FitTransform([]*dataset.Column{col})
			if err != nil {
				t.Fatalf("FitTransform: %v", err)
			}
			if imp.Modes[0] != tt.want {
				t.Errorf("mode = %q, want %q", imp.Modes[0], tt.want)
			}
			for i := 0; i < out[0].Len(); i++ {
				if _, ok := out[0].String(i); !ok {
					t.Errorf("row %d still missing", i)
				}
			}
		})
	}
}

func TestSimpleImputer_StatisticsFromFitOnly(t *testing.T) {
	imp := NewSimpleImputer(StrategyMedian)
	if err := imp.Fit([]*dataset.Column{dataset.NewNumericColumn("x", []float64{1, 2, 3})}); err != nil {
		t.Fatal(err)
	}
	out, err := imp.Transform([]*dataset.Column{dataset.NewNumericColumn("x", []float64{100, math.NaN()})})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]float64{100, 2}, []float64{out[0].Float(0), out[0].Float(1)}); diff != "" {
		t.Errorf("Transform mismatch (-want +got):\n%s", diff)
	}
}

func TestSimpleImputer_Errors(t *testing.T) {
	t.Run("all missing", func(t *testing.T) {
		imp := NewSimpleImputer(StrategyMedian)
		err := imp.Fit([]*dataset.Column{dataset.NewNumericColumn("x", []float64{math.NaN()})})
		if err == nil {
			t.Error("expected error for a column without observed values")
		}
	})
	t.Run("wrong kind", func(t *testing.T) {
		imp := NewSimpleImputer(StrategyMedian)
		err := imp.Fit([]*dataset.Column{dataset.NewCategoricalColumn("c", []string{"a"}, nil)})
		if err == nil {
			t.Error("expected error for a categorical column")
		}
	})
	t.Run("unknown strategy", func(t *testing.T) {
		imp := NewSimpleImputer("mean")
		err := imp.Fit([]*dataset.Column{dataset.NewNumericColumn("x", []float64{1})})
		var valErr *errors.ValidationError
		if !errors.As(err, &valErr) {
			t.Errorf("expected ValidationError, got %v", err)
		}
	})
	t.Run("not fitted", func(t *testing.T) {
		imp := NewSimpleImputer(StrategyMedian)
		_, err := imp.Transform([]*dataset.Column{dataset.NewNumericColumn("x", []float64{1})})
		var nfErr *errors.NotFittedError
		if !errors.As(err, &nfErr) {
			t.Errorf("expected NotFittedError, got %v", err)
		}
	})
}
