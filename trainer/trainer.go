// Package trainer runs the offline training job: load the labeled table,
// split it, fit the pipeline, report held-out metrics and persist the
// artifact.
package trainer

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/YuminosukeSato/salarygo/dataset"
	"github.com/YuminosukeSato/salarygo/metrics"
	"github.com/YuminosukeSato/salarygo/pipeline"
	"github.com/YuminosukeSato/salarygo/pkg/errors"
	"github.com/YuminosukeSato/salarygo/pkg/log"
)

// Default locations, relative to the working directory.
const (
	DefaultDataPath  = "Salary_Data.csv"
	DefaultModelPath = "salary_prediction_model.json"
)

// Config describes one training run. When SQLitePath is set the data is read
// from Table in that database instead of DataPath.
type Config struct {
	DataPath   string
	SQLitePath string
	Table      string
	ModelPath  string
	// PlotPath, when set, receives a predicted-vs-actual PNG of the held-out rows.
	PlotPath string
	TestSize float64
	Seed     uint64
}

// DefaultConfig returns the fixed defaults of the training entry point.
func DefaultConfig() Config {
	return Config{
		DataPath:  DefaultDataPath,
		ModelPath: DefaultModelPath,
		TestSize:  dataset.DefaultTestSize,
		Seed:      dataset.DefaultSeed,
	}
}

// Result summarizes a finished run.
type Result struct {
	Pipeline  *pipeline.Pipeline
	Report    metrics.Report
	TrainRows int
	TestRows  int
	Dropped   int
}

// Option configures Run.
type Option func(*runner)

// WithLogger sets the structured logger.
func WithLogger(l log.Logger) Option {
	return func(r *runner) { r.logger = l }
}

// WithOutput sets where the metric lines are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(r *runner) { r.out = w }
}

type runner struct {
	cfg    Config
	logger log.Logger
	out    io.Writer
}

// Run executes the training job. Metrics are reported, never used as a
// gate. Any failure aborts the run before the artifact is written.
func Run(ctx context.Context, cfg Config, opts ...Option) (*Result, error) {
	r := &runner{
		cfg:    cfg,
		logger: log.NewZerologLogger(io.Discard, log.LevelError),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(log.ComponentKey, "trainer")
	return r.run(ctx)
}

func (r *runner) run(ctx context.Context) (*Result, error) {
	start := time.Now()
	schema := dataset.SalarySchema()

	labeled, source, err := r.load(ctx, schema)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Dataset loaded",
		log.SourceKey, source,
		log.SamplesKey, labeled.Rows(),
		log.DroppedKey, labeled.Dropped,
	)

	train, test, err := dataset.TrainTestSplit(labeled, r.cfg.TestSize, r.cfg.Seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to split dataset")
	}

	p := pipeline.New(schema)
	if err := p.Fit(train.X, train.Y); err != nil {
		return nil, errors.Wrap(err, "failed to fit pipeline")
	}
	r.logger.Info("Pipeline fitted",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, train.Rows(),
		log.FeaturesKey, p.Preprocessor.NumFeatures(),
		log.RandomSeedKey, r.cfg.Seed,
		log.RunIDKey, p.RunID,
	)

	report, err := p.Evaluate(test)
	if err != nil {
		return nil, errors.Wrap(err, "failed to evaluate pipeline")
	}
	fmt.Fprintf(r.out, "RMSE: %.2f\n", report.RMSE)
	fmt.Fprintf(r.out, "R2 Score: %.3f\n", report.R2Score)
	r.logger.Info("Held-out evaluation",
		log.PhaseKey, log.PhaseValidation,
		log.SamplesKey, report.Samples,
		log.RMSEKey, report.RMSE,
		log.R2ScoreKey, report.R2Score,
	)

	if r.cfg.PlotPath != "" {
		pred, err := p.Predict(test.X)
		if err != nil {
			return nil, errors.Wrap(err, "failed to predict held-out rows")
		}
		if err := SaveHoldoutPlot(r.cfg.PlotPath, test.Y, pred, report); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "training cancelled")
	}
	if err := p.Save(r.cfg.ModelPath); err != nil {
		return nil, err
	}
	r.logger.Info("Artifact saved",
		log.OperationKey, log.OperationSave,
		log.ArtifactPathKey, r.cfg.ModelPath,
		log.ArtifactVersionKey, pipeline.FormatVersion,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return &Result{
		Pipeline:  p,
		Report:    report,
		TrainRows: train.Rows(),
		TestRows:  test.Rows(),
		Dropped:   labeled.Dropped,
	}, nil
}

func (r *runner) load(ctx context.Context, schema dataset.Schema) (*dataset.Labeled, string, error) {
	if r.cfg.SQLitePath == "" {
		l, err := dataset.LoadCSV(r.cfg.DataPath, schema)
		return l, r.cfg.DataPath, err
	}
	if r.cfg.Table == "" {
		return nil, "", errors.NewValidationError("table", "is required with a sqlite source", r.cfg.Table)
	}
	db, err := dataset.OpenSQLite(r.cfg.SQLitePath)
	if err != nil {
		return nil, "", err
	}
	defer db.Close()

	l, err := dataset.LoadSQLite(ctx, db, r.cfg.Table, schema)
	return l, r.cfg.SQLitePath + ":" + r.cfg.Table, err
}
