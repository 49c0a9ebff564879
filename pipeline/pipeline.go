// Package pipeline wires loading, normalization, training, evaluation and
// the optional artifacts into a single run.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/houseprice/config"
	"github.com/YuminosukeSato/houseprice/core/model"
	"github.com/YuminosukeSato/houseprice/dataset"
	"github.com/YuminosukeSato/houseprice/linear"
	"github.com/YuminosukeSato/houseprice/metrics"
	"github.com/YuminosukeSato/houseprice/pkg/errors"
	"github.com/YuminosukeSato/houseprice/pkg/log"
	"github.com/YuminosukeSato/houseprice/preprocessing"
	"github.com/YuminosukeSato/houseprice/store"
	"github.com/YuminosukeSato/houseprice/visualization"
)

// Result is the outcome of a successful run.
type Result struct {
	RunID string

	Retained        int
	Dropped         int
	DefaultedPrices int
	TrainSamples    int
	TestSamples     int
	Stats           preprocessing.Statistics

	Weights *mat.VecDense

	// TestTargets and Predictions are on the log-price scale.
	TestTargets *mat.VecDense
	Predictions *mat.VecDense

	Report metrics.Report

	// PlotPath and WeightsPath are the artifacts written, if any.
	PlotPath    string
	WeightsPath string
}

// Pipeline runs the house price model end to end.
type Pipeline struct {
	cfg    *config.Config
	logger log.Logger
	store  store.RunStore
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithStore records runs in s instead of the store named by the
// configuration. The caller keeps ownership of s.
func WithStore(s store.RunStore) Option {
	return func(p *Pipeline) { p.store = s }
}

// New returns a Pipeline for cfg.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.GetLoggerWithName("pipeline")
	}
	return p
}

// Run loads the configured dataset and executes every stage.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	logger := p.logger.With(log.PhaseKey, log.PhaseLoading)
	rows, err := dataset.LoadCSV(p.cfg.Data.Path)
	if err != nil {
		logger.Error("Failed to load dataset", err, log.SourceKey, p.cfg.Data.Path)
		return nil, err
	}
	logger.Debug("Dataset loaded", log.SourceKey, p.cfg.Data.Path, log.SamplesKey, len(rows))
	return p.Execute(ctx, rows)
}

// Execute runs every stage on rows that have already been read. Panics
// raised by the numeric code are returned as errors.
func (p *Pipeline) Execute(ctx context.Context, rows []dataset.Row) (res *Result, err error) {
	defer errors.Recover(&err, "pipeline.Execute")
	if err := p.cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	start := time.Now()
	runID := uuid.NewString()
	logger := p.logger.With(log.RunIDKey, runID)
	res = &Result{RunID: runID}

	// normalize
	normalizer := preprocessing.NewNormalizer(
		preprocessing.WithTrainRatio(p.cfg.Normalizer.TrainRatio),
		preprocessing.WithEpsilon(p.cfg.Normalizer.Epsilon),
		preprocessing.WithStrictPrice(p.cfg.Normalizer.StrictPrice),
		preprocessing.WithLogger(logger.With(log.PhaseKey, log.PhasePreprocessing)),
	)
	norm, err := normalizer.Normalize(rows)
	if err != nil {
		return nil, errors.Wrap(err, "normalize")
	}
	res.Retained = norm.Retained
	res.Dropped = norm.Dropped
	res.DefaultedPrices = norm.DefaultedPrices
	res.TrainSamples = norm.Train.Len()
	res.TestSamples = norm.Test.Len()
	res.Stats = norm.Stats
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// train
	reg := linear.NewGradientDescentRegressor(
		linear.WithLearningRate(p.cfg.Training.LearningRate),
		linear.WithEpochs(p.cfg.Training.Epochs),
		linear.WithLogger(logger.With(log.PhaseKey, log.PhaseTraining)),
	)
	if err := reg.Fit(norm.Train.X, norm.Train.Y); err != nil {
		return nil, errors.Wrap(err, "train")
	}
	res.Weights = reg.Weights
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// evaluate
	rmse, predictions, err := linear.Evaluate(norm.Test.X, norm.Test.Y, reg.Weights)
	if err != nil {
		return nil, errors.Wrap(err, "evaluate")
	}
	report, err := metrics.Summarize(norm.Test.Y, predictions)
	if err != nil {
		return nil, errors.Wrap(err, "evaluate")
	}
	report.RMSE = rmse
	res.Report = report
	res.TestTargets = norm.Test.Y
	res.Predictions = predictions

	evalLogger := logger.With(log.PhaseKey, log.PhaseTesting)
	evalLogger.Info("Evaluation completed",
		log.OperationKey, log.OperationEvaluate,
		log.TestSamplesKey, res.TestSamples,
		log.RMSEKey, report.RMSE,
		log.MAEKey, report.MAE,
		log.MSEKey, report.MSE,
		log.R2ScoreKey, report.R2,
		log.MAPEKey, report.MAPE,
	)

	// artifacts
	if err := p.writeArtifacts(res, reg, logger.With(log.PhaseKey, log.PhaseReporting)); err != nil {
		return nil, err
	}
	if err := p.record(ctx, res); err != nil {
		return nil, err
	}

	logger.Info("Pipeline completed",
		log.RetainedKey, res.Retained,
		log.DroppedKey, res.Dropped,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (p *Pipeline) writeArtifacts(res *Result, reg *linear.GradientDescentRegressor, logger log.Logger) error {
	out := p.cfg.Output
	if out.PlotPath != "" {
		if err := visualization.SavePredictions(out.PlotPath, res.TestTargets, res.Predictions, out.PlotWidth, out.PlotHeight); err != nil {
			return errors.Wrap(err, "plot predictions")
		}
		res.PlotPath = out.PlotPath
		logger.Info("Prediction plot saved", "path", out.PlotPath)
	}

	if out.WeightsPath != "" {
		metadata := res.Stats.Map()
		metadata["run_id"] = res.RunID
		metadata["target"] = "ln(price)"
		metadata["train_ratio"] = p.cfg.Normalizer.TrainRatio
		metadata["retained"] = res.Retained

		mw, err := reg.ToModelWeights(dataset.FeatureNames, metadata)
		if err != nil {
			return errors.Wrap(err, "export weights")
		}
		if err := model.SaveWeights(mw, out.WeightsPath); err != nil {
			return errors.Wrap(err, "export weights")
		}
		res.WeightsPath = out.WeightsPath
		logger.Info("Model weights saved", "path", out.WeightsPath)
	}
	return nil
}

func (p *Pipeline) record(ctx context.Context, res *Result) error {
	s := p.store
	if s == nil {
		if p.cfg.Store.Path == "" {
			return nil
		}
		opened, err := store.NewSQLiteStore(p.cfg.Store.Path)
		if err != nil {
			return err
		}
		defer opened.Close()
		s = opened
	}

	run := store.NewRun()
	run.ID = res.RunID
	run.DataPath = p.cfg.Data.Path
	run.LearningRate = p.cfg.Training.LearningRate
	run.Epochs = p.cfg.Training.Epochs
	run.TrainRatio = p.cfg.Normalizer.TrainRatio
	run.StrictPrice = p.cfg.Normalizer.StrictPrice
	run.Retained = res.Retained
	run.Dropped = res.Dropped
	run.TrainSamples = res.TrainSamples
	run.TestSamples = res.TestSamples
	run.Weights = append([]float64(nil), res.Weights.RawVector().Data...)
	run.Mean = res.Stats.Mean
	run.Std = res.Stats.Std
	run.Metrics = res.Report

	if err := s.SaveRun(ctx, run); err != nil {
		return errors.Wrap(err, "record run")
	}
	return nil
}
