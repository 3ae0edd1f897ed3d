package pipeline

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/salarygo/core/model"
	"github.com/YuminosukeSato/salarygo/dataset"
	"github.com/YuminosukeSato/salarygo/linear"
	"github.com/YuminosukeSato/salarygo/metrics"
	"github.com/YuminosukeSato/salarygo/pkg/errors"
	"github.com/YuminosukeSato/salarygo/preprocessing"
)

// FormatVersion is the artifact layout this build reads and writes.
const FormatVersion = 1

// Artifact is the on-disk form of a fitted pipeline.
type Artifact struct {
	FormatVersion int                   `json:"format_version"`
	CreatedAt     time.Time             `json:"created_at"`
	RunID         string                `json:"run_id"`
	Schema        dataset.Schema        `json:"schema"`
	Preprocessor  *preprocessing.Params `json:"preprocessor"`
	Model         *model.ModelWeights   `json:"model"`
	Metrics       *metrics.Report       `json:"metrics,omitempty"`
}

// Artifact exports the fitted state.
func (p *Pipeline) Artifact() (*Artifact, error) {
	params, err := p.Preprocessor.Params()
	if err != nil {
		return nil, err
	}
	weights, err := p.Model.ExportWeights()
	if err != nil {
		return nil, err
	}
	weights.Features = params.FeatureNames

	return &Artifact{
		FormatVersion: FormatVersion,
		CreatedAt:     p.CreatedAt,
		RunID:         p.RunID,
		Schema:        p.Schema,
		Preprocessor:  params,
		Model:         weights,
		Metrics:       p.Metrics,
	}, nil
}

// Save writes the artifact to path, replacing any earlier one. The file is
// written beside path and renamed into place, so a failed save leaves the
// previous artifact untouched.
func (p *Pipeline) Save(path string) error {
	a, err := p.Artifact()
	if err != nil {
		return err
	}
	if err := model.SaveJSON(a, path); err != nil {
		return errors.Wrapf(err, "failed to save artifact %s", path)
	}
	return nil
}

// Load reads an artifact and checks it against the salary schema.
func Load(path string) (*Pipeline, error) {
	return LoadWithSchema(path, dataset.SalarySchema())
}

// LoadWithSchema reads an artifact and checks it against expected.
func LoadWithSchema(path string, expected dataset.Schema) (*Pipeline, error) {
	var a Artifact
	if err := model.LoadJSON(&a, path); err != nil {
		return nil, errors.Wrapf(err, "failed to load artifact %s", path)
	}
	return FromArtifact(&a, expected)
}

// FromArtifact rebuilds a read-only pipeline. It rejects unknown format
// versions, a schema different from expected, preprocessing that reads
// columns outside the schema, and a coefficient count that does not match
// the preprocessor output width.
func FromArtifact(a *Artifact, expected dataset.Schema) (*Pipeline, error) {
	if a.FormatVersion != FormatVersion {
		return nil, errors.NewSchemaError("format_version", FormatVersion, a.FormatVersion)
	}
	if !a.Schema.Equal(expected) {
		return nil, errors.NewSchemaError("schema", expected.Names(), a.Schema.Names())
	}
	if _, err := uuid.Parse(a.RunID); err != nil {
		return nil, errors.NewSchemaError("run_id", "uuid", a.RunID)
	}
	if a.Preprocessor == nil || a.Model == nil {
		return nil, errors.NewSchemaError("sections", "preprocessor and model", "missing")
	}

	ct, err := preprocessing.FromParams(a.Preprocessor)
	if err != nil {
		return nil, errors.Wrap(err, "invalid preprocessor")
	}
	names := expected.Names()
	for _, col := range ct.InputColumns() {
		if !slices.Contains(names, col) {
			return nil, errors.NewSchemaError("preprocessor.columns", names, col)
		}
	}

	if len(a.Model.Coefficients) != ct.NumFeatures() {
		return nil, errors.NewSchemaError("model.coefficients", ct.NumFeatures(), len(a.Model.Coefficients))
	}
	if len(a.Model.Features) > 0 && !slices.Equal(a.Model.Features, ct.FeatureNames()) {
		return nil, errors.NewSchemaError("model.features", ct.FeatureNames(), a.Model.Features)
	}
	lr := linear.NewLinearRegression()
	if err := lr.ImportWeights(a.Model); err != nil {
		return nil, errors.Wrap(err, "invalid model weights")
	}

	return &Pipeline{
		Schema:       a.Schema,
		Preprocessor: ct,
		Model:        lr,
		Metrics:      a.Metrics,
		RunID:        a.RunID,
		CreatedAt:    a.CreatedAt,
		loaded:       true,
	}, nil
}
