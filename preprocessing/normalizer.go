package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/houseprice/dataset"
	"github.com/YuminosukeSato/houseprice/pkg/errors"
	"github.com/YuminosukeSato/houseprice/pkg/log"
)

// DefaultTrainRatio is the fraction of retained rows placed in the training
// partition.
const DefaultTrainRatio = 0.8

// Result is the output of Normalize.
type Result struct {
	Train dataset.Partition
	Test  dataset.Partition

	// Stats were computed over all retained rows, before the split.
	Stats Statistics

	// SplitIndex is the first row of the test partition.
	SplitIndex int

	Retained int
	Dropped  int

	// DefaultedPrices counts retained rows whose price fell back to
	// dataset.DefaultPrice.
	DefaultedPrices int
}

// Normalizer filters rows, log-transforms the price, standardizes the
// features and splits the result in row order.
type Normalizer struct {
	trainRatio  float64
	epsilon     float64
	strictPrice bool
	logger      log.Logger
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithTrainRatio sets the training fraction; values outside [0, 1] are
// rejected by Normalize.
func WithTrainRatio(ratio float64) Option {
	return func(n *Normalizer) { n.trainRatio = ratio }
}

// WithEpsilon sets the standard deviation floor.
func WithEpsilon(eps float64) Option {
	return func(n *Normalizer) { n.epsilon = eps }
}

// WithStrictPrice drops rows whose price did not parse instead of keeping
// them with the default price.
func WithStrictPrice(strict bool) Option {
	return func(n *Normalizer) { n.strictPrice = strict }
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(n *Normalizer) { n.logger = logger }
}

// NewNormalizer returns a Normalizer with an 80/20 split and a 1e-8 floor.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		trainRatio: DefaultTrainRatio,
		epsilon:    DefaultEpsilon,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = log.GetLoggerWithName("preprocessing")
	}
	return n
}

// Normalize converts rows into standardized train and test partitions.
//
// A row is retained when the sum of its five raw features and its price are
// both strictly positive. The target is ln(price). Statistics are fitted on
// every retained row and the split is a contiguous cut at
// floor(trainRatio * N). Zero retained rows yields an error wrapping
// errors.ErrEmptyData.
func (n *Normalizer) Normalize(rows []dataset.Row) (*Result, error) {
	if n.trainRatio < 0 || n.trainRatio > 1 || math.IsNaN(n.trainRatio) {
		return nil, errors.NewValidationError("train_ratio", "must be within [0, 1]", n.trainRatio)
	}

	features := make([]float64, 0, len(rows)*dataset.NumFeatures)
	targets := make([]float64, 0, len(rows))
	res := &Result{}

	for _, row := range rows {
		rec := dataset.Extract(row)
		if !n.keep(rec) {
			res.Dropped++
			continue
		}
		if !rec.PriceParsed {
			res.DefaultedPrices++
		}
		features = append(features, rec.Features[:]...)
		targets = append(targets, math.Log(rec.Price))
	}
	res.Retained = len(targets)

	if res.Dropped > 0 {
		n.logger.Debug("Rows dropped by filter",
			log.DroppedKey, res.Dropped,
			log.RetainedKey, res.Retained,
		)
		errors.Warn(errors.NewDataConversionWarning("row", "dropped", "non-positive feature sum or price", res.Dropped))
	}
	if res.DefaultedPrices > 0 {
		errors.Warn(errors.NewDataConversionWarning("price", "float64", "unparsable price replaced by default 1.0", res.DefaultedPrices))
	}

	if res.Retained == 0 {
		n.logger.Error("No rows left after filtering", errors.ErrEmptyData,
			log.OperationKey, log.OperationNormalize,
			log.DroppedKey, res.Dropped,
			log.ErrorCodeKey, log.ErrorEmptyData,
		)
		return nil, errors.Wrapf(errors.ErrEmptyData, "normalize: all %d rows were filtered out", len(rows))
	}

	X := mat.NewDense(res.Retained, dataset.NumFeatures, features)
	y := mat.NewVecDense(res.Retained, targets)

	scaler := NewStandardScaler(n.epsilon)
	if err := scaler.Fit(X); err != nil {
		return nil, errors.Wrap(err, "normalize: fit statistics")
	}
	if err := scaler.TransformInPlace(X); err != nil {
		return nil, errors.Wrap(err, "normalize: standardize features")
	}
	stats, err := scaler.Statistics()
	if err != nil {
		return nil, err
	}
	res.Stats = stats

	res.SplitIndex = dataset.SplitIndex(res.Retained, n.trainRatio)
	res.Train, res.Test, err = dataset.SplitAt(X, y, res.SplitIndex)
	if err != nil {
		return nil, errors.Wrap(err, "normalize: split")
	}

	n.logger.Info("Dataset normalized",
		log.OperationKey, log.OperationNormalize,
		log.SamplesKey, len(rows),
		log.RetainedKey, res.Retained,
		log.DroppedKey, res.Dropped,
		log.TrainSamplesKey, res.Train.Len(),
		log.TestSamplesKey, res.Test.Len(),
		log.TrainRatioKey, n.trainRatio,
	)
	return res, nil
}

func (n *Normalizer) keep(rec dataset.Record) bool {
	if n.strictPrice && !rec.PriceParsed {
		return false
	}
	return rec.FeatureSum() > 0 && rec.Price > 0
}
