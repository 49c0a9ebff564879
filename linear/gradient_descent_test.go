package linear

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/houseprice/pkg/errors"
)

func TestTrainLinearData(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1.0, 2.0,
		2.0, 3.0,
		3.0, 4.0,
	})
	y := mat.NewVecDense(3, []float64{100.0, 200.0, 300.0})

	w, err := Train(X, y, 0.01, 100)
	require.NoError(t, err)
	require.Equal(t, 2, w.Len())

	XTest := mat.NewDense(2, 2, []float64{
		1.5, 2.5,
		2.5, 3.5,
	})
	yTest := mat.NewVecDense(2, []float64{150.0, 250.0})

	rmse, predictions, err := Evaluate(XTest, yTest, w)
	require.NoError(t, err)
	assert.Less(t, rmse, 50.0, "prediction RMSE too high")
	for i := 0; i < 2; i++ {
		assert.InDelta(t, yTest.AtVec(i), predictions.AtVec(i), 50.0)
	}
}

func TestTrainMatchesManualUpdate(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		0.5, -1.0,
		-0.5, 1.0,
		1.5, 0.0,
		-1.5, 0.0,
	})
	y := mat.NewVecDense(4, []float64{1.0, -1.0, 2.0, -2.0})
	const lr, epochs = 0.1, 25

	got, err := Train(X, y, lr, epochs)
	require.NoError(t, err)

	w := []float64{0, 0}
	for e := 0; e < epochs; e++ {
		grad := []float64{0, 0}
		for i := 0; i < 4; i++ {
			pred := X.At(i, 0)*w[0] + X.At(i, 1)*w[1]
			for j := range grad {
				grad[j] += (pred - y.AtVec(i)) * X.At(i, j)
			}
		}
		for j := range w {
			w[j] -= lr * grad[j] / 4
		}
	}

	for j := range w {
		assert.InDelta(t, w[j], got.AtVec(j), 1e-12)
	}
}

func TestTrainZeroLearningRate(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewVecDense(3, []float64{1, 2, 3})

	for _, epochs := range []int{0, 1, 10, 500} {
		w, err := Train(X, y, 0, epochs)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 0}, w.RawVector().Data, "epochs=%d", epochs)
	}
}

func TestTrainZeroEpochs(t *testing.T) {
	X := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	y := mat.NewVecDense(2, []float64{1, 2})

	w, err := Train(X, y, 0.5, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, w.RawVector().Data)
}

func TestTrainErrors(t *testing.T) {
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	y := mat.NewVecDense(2, []float64{1, 2})

	tests := []struct {
		name   string
		X      mat.Matrix
		y      mat.Vector
		lr     float64
		epochs int
		check  func(t *testing.T, err error)
	}{
		{
			name: "empty training set", X: &mat.Dense{}, y: &mat.VecDense{}, lr: 0.01, epochs: 10,
			check: func(t *testing.T, err error) {
				assert.True(t, errors.Is(err, errors.ErrEmptyData))
			},
		},
		{
			name: "length mismatch", X: X, y: mat.NewVecDense(3, nil), lr: 0.01, epochs: 10,
			check: func(t *testing.T, err error) {
				var de *errors.DimensionError
				assert.True(t, errors.As(err, &de))
			},
		},
		{
			name: "negative epochs", X: X, y: y, lr: 0.01, epochs: -1,
			check: func(t *testing.T, err error) {
				var ve *errors.ValidationError
				assert.True(t, errors.As(err, &ve))
			},
		},
		{
			name: "negative learning rate", X: X, y: y, lr: -0.1, epochs: 1,
			check: func(t *testing.T, err error) {
				var ve *errors.ValidationError
				assert.True(t, errors.As(err, &ve))
			},
		},
		{
			name: "NaN learning rate", X: X, y: y, lr: math.NaN(), epochs: 1,
			check: func(t *testing.T, err error) {
				var ve *errors.ValidationError
				assert.True(t, errors.As(err, &ve))
			},
		},
		{
			name: "divergent learning rate", X: X, y: y, lr: 1e6, epochs: 200,
			check: func(t *testing.T, err error) {
				var ne *errors.NumericalInstabilityError
				assert.True(t, errors.As(err, &ne))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Train(tt.X, tt.y, tt.lr, tt.epochs)
			require.Error(t, err)
			assert.Nil(t, w)
			tt.check(t, err)
		})
	}
}

func TestPredict(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		1, 2,
		3, 4,
		-1, 0.5,
	})
	w := mat.NewVecDense(2, []float64{2, -1})

	got, err := Predict(X, w)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, -2.5}, got.RawVector().Data)

	_, err = Predict(X, mat.NewVecDense(3, nil))
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))

	empty, err := Predict(&mat.Dense{}, w)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())
}

func TestPredictParallelMatchesSequential(t *testing.T) {
	X, _ := createBenchmarkData(3000, 5)
	w := mat.NewVecDense(5, []float64{0.3, -1.2, 2.5, 0.01, -0.7})

	got, err := Predict(X, w)
	require.NoError(t, err)

	for i := 0; i < 3000; i++ {
		want := floats.Dot(X.RawRowView(i), w.RawVector().Data)
		if got.AtVec(i) != want {
			t.Fatalf("row %d: got %v want %v", i, got.AtVec(i), want)
		}
	}
}

func TestEvaluateErrors(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{1, 2})
	w := mat.NewVecDense(1, []float64{1})

	_, _, err := Evaluate(X, mat.NewVecDense(3, nil), w)
	var de *errors.DimensionError
	assert.True(t, errors.As(err, &de))

	_, _, err = Evaluate(&mat.Dense{}, &mat.VecDense{}, w)
	var ve *errors.ValueError
	assert.True(t, errors.As(err, &ve))

	rmse, _, err := Evaluate(X, mat.NewVecDense(2, []float64{1, 2}), w)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rmse)
}
