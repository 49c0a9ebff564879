// Package log defines standard attribute keys for the training pipeline.
//
// The keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so that log lines from every stage can be filtered the
// same way.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model or transformer.
	// Examples: "GradientDescentRegressor", "StandardScaler"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "transform", "normalize", "evaluate"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is emitting the record.
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of the pipeline.
	PhaseKey = "ml.phase"

	// RunIDKey identifies one pipeline invocation.
	RunIDKey = "run.id"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// RetainedKey is the number of rows that passed the input filter.
	RetainedKey = "data.retained"

	// DroppedKey is the number of rows rejected by the input filter.
	DroppedKey = "data.dropped"

	// TrainSamplesKey and TestSamplesKey are the partition sizes after the split.
	TrainSamplesKey = "data.train_samples"
	TestSamplesKey  = "data.test_samples"

	// SourceKey is the path or name of the input dataset.
	SourceKey = "data.source"
)

// Performance and Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// LossKey records the mean squared error on the training data.
	LossKey = "metrics.loss"

	// RMSEKey, MAEKey, MSEKey, R2ScoreKey and MAPEKey record evaluation metrics.
	RMSEKey    = "metrics.rmse"
	MAEKey     = "metrics.mae"
	MSEKey     = "metrics.mse"
	R2ScoreKey = "metrics.r2_score"
	MAPEKey    = "metrics.mape"

	// EpochKey records the number of training epochs.
	EpochKey = "training.epoch"
)

// Hyperparameters and Configuration
const (
	// LearningRateKey records the learning rate for gradient descent.
	LearningRateKey = "hyperparams.learning_rate"

	// TrainRatioKey records the fraction of rows assigned to training.
	TrainRatioKey = "hyperparams.train_ratio"
)

// Error Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrAttrKey carries the error value; StacktraceAttrKey its stack trace.
	ErrAttrKey        = "error"
	StacktraceAttrKey = "error.stacktrace"

	// DetailKey carries the structured fields of a typed error.
	DetailKey = "error.detail"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationNormalize = "normalize"
	OperationEvaluate  = "evaluate"

	PhaseLoading       = "loading"
	PhasePreprocessing = "preprocessing"
	PhaseTraining      = "training"
	PhaseTesting       = "testing"
	PhaseReporting     = "reporting"

	ErrorEmptyData         = "EMPTY_DATA"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorInvalidInput      = "INVALID_INPUT"
)
