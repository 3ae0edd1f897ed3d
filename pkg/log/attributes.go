// Standard attribute keys shared by the trainer and the service. Keys follow
// a hierarchical naming convention ("ml.operation", "data.samples") so that
// log analysis can filter on them.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator or transformer.
	// Examples: "LinearRegression", "ColumnTransformer"
	ModelNameKey = "model.name"

	// OperationKey specifies the machine learning operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which component is logging.
	// Examples: "trainer", "server", "dataset"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the model lifecycle.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	// DroppedKey counts rows removed by the loader (missing target).
	DroppedKey = "data.dropped"
	SourceKey  = "data.source"
)

// Performance and evaluation.
const (
	DurationMsKey = "perf.duration_ms"
	RMSEKey       = "metrics.rmse"
	R2ScoreKey    = "metrics.r2_score"
	RandomSeedKey = "config.random_seed"
)

// Artifact and HTTP context.
const (
	ArtifactPathKey    = "artifact.path"
	ArtifactVersionKey = "artifact.version"
	RunIDKey           = "artifact.run_id"
	HTTPMethodKey      = "http.method"
	HTTPPathKey        = "http.path"
	HTTPStatusKey      = "http.status"
	RequestIDKey       = "http.request_id"
	ListenAddrKey      = "http.addr"
)

// Error context.
const (
	ErrorCodeKey = "error.code"
	ErrorTypeKey = "error.type"
)

// Standard attribute values.
const (
	OperationFit          = "fit"
	OperationPredict      = "predict"
	OperationTransform    = "transform"
	OperationFitTransform = "fit_transform"
	OperationScore        = "score"
	OperationLoad         = "load"
	OperationSave         = "save"

	PhaseTraining      = "training"
	PhaseValidation    = "validation"
	PhaseInference     = "inference"
	PhasePreprocessing = "preprocessing"

	ErrorMissingFields  = "MISSING_FIELDS"
	ErrorPredictFailure = "PREDICT_FAILURE"
	ErrorSchemaMismatch = "SCHEMA_MISMATCH"
)
