// Package linear fits a no-intercept linear model by full-batch gradient
// descent and applies it to feature matrices.
package linear

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/houseprice/core/parallel"
	"github.com/YuminosukeSato/houseprice/metrics"
	"github.com/YuminosukeSato/houseprice/pkg/errors"
)

// Train runs exactly epochs iterations of batch gradient descent on the
// squared error of y ≈ X·w and returns w.
//
// Weights start at zero. Each epoch computes the full residual vector
// r = X·w - y, the gradient g = Xᵀ·r, and applies
// w[j] -= learningRate * g[j] / n. There is no intercept term.
//
// The gradient is a BLAS matrix-vector product, so its summation order may
// differ from a row-by-row loop in the last bits.
func Train(X mat.Matrix, y mat.Vector, learningRate float64, epochs int) (*mat.VecDense, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("linear.Train", "empty training set", errors.ErrEmptyData)
	}
	if y.Len() != r {
		return nil, errors.NewDimensionError("linear.Train", r, y.Len(), 0)
	}
	if epochs < 0 {
		return nil, errors.NewValidationError("epochs", "must be non-negative", epochs)
	}
	if learningRate < 0 || math.IsNaN(learningRate) || math.IsInf(learningRate, 0) {
		return nil, errors.NewValidationError("learning_rate", "must be a finite non-negative number", learningRate)
	}

	w := mat.NewVecDense(c, nil)
	residual := mat.NewVecDense(r, nil)
	grad := mat.NewVecDense(c, nil)
	weights := w.RawVector().Data
	gradient := grad.RawVector().Data
	n := float64(r)

	for epoch := 0; epoch < epochs; epoch++ {
		residual.MulVec(X, w)
		residual.SubVec(residual, y)
		grad.MulVec(X.T(), residual)
		for j := range weights {
			weights[j] -= learningRate * gradient[j] / n
		}
	}

	if err := errors.CheckNumericalStability("linear.Train", weights, epochs); err != nil {
		return nil, err
	}
	return w, nil
}

// Predict returns X·w for every row of X.
func Predict(X mat.Matrix, w mat.Vector) (*mat.VecDense, error) {
	r, c := X.Dims()
	if r == 0 {
		return &mat.VecDense{}, nil
	}
	if w.Len() != c {
		return nil, errors.NewDimensionError("linear.Predict", w.Len(), c, 1)
	}

	dense, ok := X.(*mat.Dense)
	if !ok {
		dense = mat.DenseCopyOf(X)
	}
	weights := make([]float64, c)
	for j := range weights {
		weights[j] = w.AtVec(j)
	}

	out := make([]float64, r)
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = floats.Dot(dense.RawRowView(i), weights)
		}
	})
	return mat.NewVecDense(r, out), nil
}

// Evaluate predicts X with w and returns the RMSE against y, computed on
// the scale of y, together with the predictions.
func Evaluate(X mat.Matrix, y mat.Vector, w mat.Vector) (float64, *mat.VecDense, error) {
	predictions, err := Predict(X, w)
	if err != nil {
		return 0, nil, err
	}
	rmse, err := metrics.RMSE(y, predictions)
	if err != nil {
		return 0, nil, errors.Wrap(err, "evaluate")
	}
	return rmse, predictions, nil
}
