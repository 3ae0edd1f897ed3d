// Package pipeline binds the fitted column transformer and the regression
// model into a single predictor, and persists both as one versioned JSON
// artifact.
package pipeline

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/salarygo/dataset"
	"github.com/YuminosukeSato/salarygo/linear"
	"github.com/YuminosukeSato/salarygo/metrics"
	"github.com/YuminosukeSato/salarygo/pkg/errors"
	"github.com/YuminosukeSato/salarygo/preprocessing"
)

// Pipeline is a preprocessor followed by a linear model. A pipeline restored
// from an artifact is read-only: Fit returns an error.
type Pipeline struct {
	Schema       dataset.Schema
	Preprocessor *preprocessing.ColumnTransformer
	Model        *linear.LinearRegression

	// Metrics holds the held-out evaluation, if one was run.
	Metrics *metrics.Report

	RunID     string
	CreatedAt time.Time

	loaded bool
}

// New returns an unfitted salary pipeline for schema.
func New(schema dataset.Schema, opts ...linear.Option) *Pipeline {
	return &Pipeline{
		Schema:       schema,
		Preprocessor: preprocessing.NewSalaryTransformer(),
		Model:        linear.NewLinearRegression(opts...),
	}
}

// Fit learns the preprocessing statistics and the regression weights from
// the training rows only.
func (p *Pipeline) Fit(X *dataset.Frame, y []float64) error {
	if p.loaded {
		return errors.NewValueError("Pipeline.Fit", "pipeline was loaded from an artifact and is read-only")
	}
	if X == nil || X.Rows() == 0 {
		return errors.NewModelError("Pipeline.Fit", "empty data", errors.ErrEmptyData)
	}
	if X.Rows() != len(y) {
		return errors.NewDimensionError("Pipeline.Fit", X.Rows(), len(y), 0)
	}

	Xt, err := p.Preprocessor.FitTransform(X)
	if err != nil {
		return errors.Wrap(err, "preprocessing failed")
	}
	if err := p.Model.Fit(Xt, mat.NewDense(len(y), 1, append([]float64(nil), y...))); err != nil {
		return errors.Wrap(err, "model fit failed")
	}

	p.Metrics = nil
	p.RunID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()
	return nil
}

// Predict returns one prediction per row of X.
func (p *Pipeline) Predict(X *dataset.Frame) ([]float64, error) {
	Xt, err := p.Preprocessor.Transform(X)
	if err != nil {
		return nil, err
	}
	pred, err := p.Model.Predict(Xt)
	if err != nil {
		return nil, err
	}
	out := mat.Col(nil, 0, pred)
	if err := errors.CheckNumericalStability("Pipeline.Predict", out); err != nil {
		return nil, err
	}
	return out, nil
}

// PredictRecord predicts a single decoded JSON object keyed by column name.
// A record lacking a schema column fails with errors.ErrMissingFields.
func (p *Pipeline) PredictRecord(rec map[string]any) (float64, error) {
	X, err := dataset.FrameFromRecord(p.Schema, rec)
	if err != nil {
		return 0, err
	}
	pred, err := p.Predict(X)
	if err != nil {
		return 0, err
	}
	return pred[0], nil
}

// Evaluate scores the pipeline on held-out rows and records the report so
// that it is persisted with the artifact.
func (p *Pipeline) Evaluate(test *dataset.Labeled) (metrics.Report, error) {
	pred, err := p.Predict(test.X)
	if err != nil {
		return metrics.Report{}, err
	}
	report, err := metrics.Evaluate(
		mat.NewVecDense(len(test.Y), append([]float64(nil), test.Y...)),
		mat.NewVecDense(len(pred), pred),
	)
	if err != nil {
		return metrics.Report{}, err
	}
	if !p.loaded {
		p.Metrics = &report
	}
	return report, nil
}

// FeatureNames returns the model input columns after preprocessing.
func (p *Pipeline) FeatureNames() []string {
	return p.Preprocessor.FeatureNames()
}
