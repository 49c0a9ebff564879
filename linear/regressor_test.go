package linear

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/houseprice/core/model"
	"github.com/YuminosukeSato/houseprice/pkg/errors"
	"github.com/YuminosukeSato/houseprice/pkg/log"
)

func newTestRegressor(t *testing.T, opts ...Option) (*GradientDescentRegressor, *log.TestLogger) {
	t.Helper()
	logger, _ := log.NewTestLogger(log.LevelDebug)
	return NewGradientDescentRegressor(append([]Option{WithLogger(logger)}, opts...)...), logger
}

func TestGradientDescentRegressorFit(t *testing.T) {
	X, y := createBenchmarkData(500, 3)
	reg, logger := newTestRegressor(t, WithLearningRate(0.1), WithEpochs(2000))

	require.NoError(t, reg.Fit(X, y))
	assert.True(t, reg.IsFitted())
	assert.Equal(t, 3, reg.NFeatures)

	weights := reg.GetWeights()
	require.Len(t, weights, 3)
	for j, want := range []float64{0.5, 1.0, 1.5} {
		assert.InDelta(t, want, weights[j], 0.05, "weight %d", j)
	}

	score, err := reg.Score(X, y)
	require.NoError(t, err)
	assert.Greater(t, score, 0.99)

	assert.True(t, logger.ContainsMessage("Training completed"))
	assert.True(t, logger.ContainsField(log.ModelNameKey, ModelType))
	assert.True(t, logger.ContainsField(log.SamplesKey, 500.0))
	assert.True(t, logger.ContainsField(log.EpochKey, 2000.0))
}

func TestGradientDescentRegressorDefaults(t *testing.T) {
	reg, _ := newTestRegressor(t)
	params := reg.GetParams()
	assert.Equal(t, DefaultLearningRate, params["learning_rate"])
	assert.Equal(t, DefaultEpochs, params["epochs"])
	assert.Nil(t, reg.GetWeights())
	assert.Contains(t, reg.String(), "epochs=1000")
}

func TestGradientDescentRegressorColumnMatrixTarget(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 2, 2, 3, 3, 4})
	y := mat.NewDense(3, 1, []float64{100, 200, 300})

	reg, _ := newTestRegressor(t, WithEpochs(100))
	require.NoError(t, reg.Fit(X, y))

	pred, err := reg.Predict(mat.NewDense(2, 2, []float64{1.5, 2.5, 2.5, 3.5}))
	require.NoError(t, err)
	r, c := pred.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 1, c)
}

func TestGradientDescentRegressorErrors(t *testing.T) {
	reg, logger := newTestRegressor(t)

	_, err := reg.Predict(mat.NewDense(1, 2, nil))
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))

	_, err = reg.Score(mat.NewDense(1, 2, nil), mat.NewVecDense(1, nil))
	assert.True(t, errors.As(err, &nf))

	err = reg.Fit(&mat.Dense{}, &mat.VecDense{})
	assert.True(t, errors.Is(err, errors.ErrEmptyData))

	err = reg.Fit(mat.NewDense(2, 2, nil), mat.NewDense(2, 2, nil))
	var ve *errors.ValueError
	assert.True(t, errors.As(err, &ve))

	bad, badLogger := newTestRegressor(t, WithLearningRate(-1))
	err = bad.Fit(mat.NewDense(2, 1, []float64{1, 2}), mat.NewVecDense(2, []float64{1, 2}))
	var vale *errors.ValidationError
	assert.True(t, errors.As(err, &vale))
	assert.False(t, bad.IsFitted())
	assert.True(t, badLogger.ContainsMessage("Training failed"))

	require.NoError(t, reg.Fit(mat.NewDense(2, 2, []float64{1, 0, 0, 1}), mat.NewVecDense(2, []float64{1, 2})))
	_, err = reg.Predict(mat.NewDense(1, 3, nil))
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))
	assert.False(t, logger.ContainsMessage("Training failed"))
}

func TestGradientDescentRegressorScoreConstantTarget(t *testing.T) {
	errors.SetWarningHandler(func(error) {})
	defer errors.SetWarningHandler(nil)

	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewVecDense(3, []float64{5, 5, 5})
	reg, _ := newTestRegressor(t, WithEpochs(10))
	require.NoError(t, reg.Fit(X, y))

	score, err := reg.Score(X, y)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(score))
}

func TestModelWeightsRoundTrip(t *testing.T) {
	X, y := createBenchmarkData(200, 2)
	reg, _ := newTestRegressor(t, WithLearningRate(0.05), WithEpochs(300))
	require.NoError(t, reg.Fit(X, y))

	mw, err := reg.ToModelWeights([]string{"a", "b"}, map[string]interface{}{"note": "test"})
	require.NoError(t, err)
	assert.Equal(t, ModelType, mw.ModelType)
	assert.Equal(t, reg.GetWeights(), mw.Coefficients)

	data, err := mw.ToJSON()
	require.NoError(t, err)

	var decoded model.ModelWeights
	require.NoError(t, decoded.FromJSON(data))

	restored, err := FromModelWeights(&decoded)
	require.NoError(t, err)
	assert.Equal(t, reg.GetWeights(), restored.GetWeights())
	assert.Equal(t, 0.05, restored.GetParams()["learning_rate"])
	assert.Equal(t, 300, restored.GetParams()["epochs"])

	want, err := reg.Predict(X)
	require.NoError(t, err)
	got, err := restored.Predict(X)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))

	_, err = reg.ToModelWeights([]string{"only-one"}, nil)
	assert.Error(t, err)
}

func TestToModelWeightsUnfitted(t *testing.T) {
	reg, _ := newTestRegressor(t)
	_, err := reg.ToModelWeights(nil, nil)
	var nf *errors.NotFittedError
	assert.True(t, errors.As(err, &nf))
}
