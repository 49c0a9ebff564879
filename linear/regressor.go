package linear

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/houseprice/core/model"
	"github.com/YuminosukeSato/houseprice/metrics"
	"github.com/YuminosukeSato/houseprice/pkg/errors"
	"github.com/YuminosukeSato/houseprice/pkg/log"
)

// Defaults for GradientDescentRegressor.
const (
	DefaultLearningRate = 0.01
	DefaultEpochs       = 1000
)

// ModelType names the estimator in exported weights.
const ModelType = "GradientDescentRegressor"

// WeightsVersion is the format version written by ToModelWeights.
const WeightsVersion = "1.0"

// GradientDescentRegressor は勾配降下法で学習する切片なしの線形回帰モデル
type GradientDescentRegressor struct {
	model.BaseEstimator
	Weights   *mat.VecDense
	NFeatures int

	learningRate float64
	epochs       int
	logger       log.Logger
}

var _ model.Regressor = (*GradientDescentRegressor)(nil)

// NewGradientDescentRegressor creates an unfitted regressor.
//
//	reg := linear.NewGradientDescentRegressor(
//	    linear.WithLearningRate(0.01),
//	    linear.WithEpochs(1000),
//	)
//	err := reg.Fit(X, y)
func NewGradientDescentRegressor(opts ...Option) *GradientDescentRegressor {
	r := &GradientDescentRegressor{
		learningRate: DefaultLearningRate,
		epochs:       DefaultEpochs,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = log.GetLoggerWithName("linear")
	}
	r.logger = r.logger.With(log.ModelNameKey, ModelType)
	return r
}

// Fit trains the model. y must be an n×1 matrix or a mat.Vector.
func (r *GradientDescentRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "GradientDescentRegressor.Fit")

	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return errors.NewModelError("GradientDescentRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	target, err := toVector("GradientDescentRegressor.Fit", y)
	if err != nil {
		return err
	}

	start := time.Now()
	w, err := Train(X, target, r.learningRate, r.epochs)
	if err != nil {
		r.logger.Error("Training failed", err,
			log.OperationKey, log.OperationFit,
			log.SamplesKey, rows,
		)
		return err
	}

	r.Weights = w
	r.NFeatures = cols
	r.SetFitted()

	fields := []any{
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		log.LearningRateKey, r.learningRate,
		log.EpochKey, r.epochs,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	}
	if pred, perr := Predict(X, w); perr == nil {
		if loss, lerr := metrics.MSE(target, pred); lerr == nil {
			fields = append(fields, log.LossKey, loss)
		}
	}
	r.logger.Info("Training completed", fields...)
	return nil
}

// Predict returns an n×1 prediction vector.
func (r *GradientDescentRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError(ModelType, "Predict")
	}
	if _, c := X.Dims(); c != r.NFeatures {
		return nil, errors.NewDimensionError("GradientDescentRegressor.Predict", r.NFeatures, c, 1)
	}
	return Predict(X, r.Weights)
}

// Score returns the R² of the predictions for X against y. It is NaN when y
// has no variance.
func (r *GradientDescentRegressor) Score(X, y mat.Matrix) (float64, error) {
	if !r.IsFitted() {
		return 0, errors.NewNotFittedError(ModelType, "Score")
	}
	target, err := toVector("GradientDescentRegressor.Score", y)
	if err != nil {
		return 0, err
	}
	pred, err := r.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(target, pred.(*mat.VecDense))
}

// GetWeights returns a copy of the learned weights, or nil before Fit.
func (r *GradientDescentRegressor) GetWeights() []float64 {
	if r.Weights == nil {
		return nil
	}
	weights := make([]float64, r.Weights.Len())
	for i := range weights {
		weights[i] = r.Weights.AtVec(i)
	}
	return weights
}

// GetParams returns the hyperparameters.
func (r *GradientDescentRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"learning_rate": r.learningRate,
		"epochs":        r.epochs,
	}
}

// ToModelWeights exports the fitted weights. features, if non-empty, must
// name every coefficient.
func (r *GradientDescentRegressor) ToModelWeights(features []string, metadata map[string]interface{}) (*model.ModelWeights, error) {
	if !r.IsFitted() {
		return nil, errors.NewNotFittedError(ModelType, "ToModelWeights")
	}
	mw := &model.ModelWeights{
		ModelType:       ModelType,
		Version:         WeightsVersion,
		Coefficients:    r.GetWeights(),
		Features:        features,
		Hyperparameters: r.GetParams(),
		Metadata:        metadata,
		IsFitted:        true,
	}
	if err := mw.Validate(); err != nil {
		return nil, err
	}
	return mw, nil
}

// FromModelWeights restores a fitted regressor from exported weights.
func FromModelWeights(mw *model.ModelWeights, opts ...Option) (*GradientDescentRegressor, error) {
	if err := mw.Validate(); err != nil {
		return nil, err
	}
	if mw.ModelType != ModelType {
		return nil, errors.NewValidationError("model_type", "unsupported model type", mw.ModelType)
	}
	if !mw.IsFitted {
		return nil, errors.NewNotFittedError(ModelType, "FromModelWeights")
	}
	if lr, ok := mw.Hyperparameters["learning_rate"].(float64); ok {
		opts = append([]Option{WithLearningRate(lr)}, opts...)
	}
	switch epochs := mw.Hyperparameters["epochs"].(type) {
	case float64:
		opts = append([]Option{WithEpochs(int(epochs))}, opts...)
	case int:
		opts = append([]Option{WithEpochs(epochs)}, opts...)
	}
	r := NewGradientDescentRegressor(opts...)
	coef := append([]float64(nil), mw.Coefficients...)
	r.Weights = mat.NewVecDense(len(coef), coef)
	r.NFeatures = len(coef)
	r.SetFitted()
	return r, nil
}

func (r *GradientDescentRegressor) String() string {
	if !r.IsFitted() {
		return fmt.Sprintf("GradientDescentRegressor(learning_rate=%g, epochs=%d)", r.learningRate, r.epochs)
	}
	return fmt.Sprintf("GradientDescentRegressor(learning_rate=%g, epochs=%d, n_features=%d)",
		r.learningRate, r.epochs, r.NFeatures)
}

func toVector(op string, y mat.Matrix) (mat.Vector, error) {
	if v, ok := y.(mat.Vector); ok {
		return v, nil
	}
	r, c := y.Dims()
	if c != 1 {
		return nil, errors.NewValueError(op, "y must be a column vector")
	}
	if r == 0 {
		return &mat.VecDense{}, nil
	}
	return mat.NewVecDense(r, mat.Col(nil, 0, y)), nil
}
