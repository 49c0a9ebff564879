// Package model defines the estimator contracts shared by the preprocessing
// and linear packages, and the serialized form of trained weights.
package model

import "gonum.org/v1/gonum/mat"

// EstimatorState は学習状態を表す
type EstimatorState int

const (
	// NotFitted means Fit has not completed successfully.
	NotFitted EstimatorState = iota
	// Fitted means the estimator holds learned parameters.
	Fitted
)

// BaseEstimator is embedded by every estimator to track its fitted state.
type BaseEstimator struct {
	state EstimatorState
}

// IsFitted reports whether Fit has completed.
func (e *BaseEstimator) IsFitted() bool {
	return e.state == Fitted
}

// SetFitted marks the estimator as fitted.
func (e *BaseEstimator) SetFitted() {
	e.state = Fitted
}

// Reset returns the estimator to the unfitted state.
func (e *BaseEstimator) Reset() {
	e.state = NotFitted
}

// Fitter learns parameters from features X and a column vector y.
type Fitter interface {
	Fit(X, y mat.Matrix) error
}

// Predictor produces an n×1 prediction matrix for X.
type Predictor interface {
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer returns the coefficient of determination R² of the prediction.
type Scorer interface {
	Score(X, y mat.Matrix) (float64, error)
}

// Regressor is a supervised model that can be fitted, queried and scored.
type Regressor interface {
	Fitter
	Predictor
	Scorer
}

// Transformer learns column statistics and rescales data with them.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
	FitTransform(X mat.Matrix) (mat.Matrix, error)
}
