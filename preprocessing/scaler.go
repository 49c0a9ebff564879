// Package preprocessing turns raw housing rows into standardized train and
// test partitions.
package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/houseprice/core/model"
	"github.com/YuminosukeSato/houseprice/core/parallel"
	"github.com/YuminosukeSato/houseprice/pkg/errors"
)

// DefaultEpsilon is the floor applied to a standard deviation before it is
// used as a divisor.
const DefaultEpsilon = 1e-8

// Statistics holds the per-feature parameters of a standardization.
type Statistics struct {
	// Mean is the per-feature mean.
	Mean []float64 `json:"mean"`
	// Std is the per-feature population standard deviation.
	Std []float64 `json:"std"`
	// Scale is max(Std, epsilon), the divisor actually applied.
	Scale []float64 `json:"scale"`
}

// Standardize returns (x - Mean[j]) / Scale[j].
func (s Statistics) Standardize(j int, x float64) float64 {
	return (x - s.Mean[j]) / s.Scale[j]
}

// Map returns the statistics in a form suitable for metadata maps.
func (s Statistics) Map() map[string]interface{} {
	return map[string]interface{}{
		"mean":  append([]float64(nil), s.Mean...),
		"std":   append([]float64(nil), s.Std...),
		"scale": append([]float64(nil), s.Scale...),
	}
}

// StandardScaler は平均0、標準偏差1への標準化を行う
//
// Fit computes population statistics (divide by N). Scale is floored at
// Epsilon so constant columns map to zero instead of dividing by zero.
//
//	scaler := preprocessing.NewStandardScaler(preprocessing.DefaultEpsilon)
//	err := scaler.Fit(X)
//	XScaled, err := scaler.Transform(X)
type StandardScaler struct {
	model.BaseEstimator

	Mean      []float64
	Std       []float64
	Scale     []float64
	NFeatures int

	// Epsilon is the lower bound for Scale.
	Epsilon float64
}

var _ model.Transformer = (*StandardScaler)(nil)

// NewStandardScaler returns an unfitted scaler. A non-positive epsilon
// selects DefaultEpsilon.
func NewStandardScaler(epsilon float64) *StandardScaler {
	if epsilon <= 0 {
		epsilon = DefaultEpsilon
	}
	return &StandardScaler{Epsilon: epsilon}
}

// Fit computes the per-column mean and population standard deviation of X.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.NFeatures = c
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	s.Scale = make([]float64, c)

	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		s.Mean[j], s.Std[j] = stat.PopMeanStdDev(col, nil)
		s.Scale[j] = math.Max(s.Std[j], s.Epsilon)
	}
	if err := errors.CheckNumericalStability("StandardScaler.Fit", s.Mean, 0); err != nil {
		return err
	}

	s.SetFitted()
	return nil
}

// Transform returns a standardized copy of X.
func (s *StandardScaler) Transform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}
	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}
	if r == 0 {
		return &mat.Dense{}, nil
	}
	result := mat.DenseCopyOf(X)
	s.apply(result)
	return result, nil
}

// TransformInPlace standardizes X, overwriting its values.
func (s *StandardScaler) TransformInPlace(X *mat.Dense) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError("StandardScaler", "TransformInPlace")
	}
	if X.IsEmpty() {
		return nil
	}
	if _, c := X.Dims(); c != s.NFeatures {
		return errors.NewDimensionError("StandardScaler.TransformInPlace", s.NFeatures, c, 1)
	}
	s.apply(X)
	return nil
}

// apply rewrites every row of X. Rows are independent so large matrices are
// split across goroutines.
func (s *StandardScaler) apply(X *mat.Dense) {
	r, _ := X.Dims()
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			row := X.RawRowView(i)
			for j, v := range row {
				row[j] = (v - s.Mean[j]) / s.Scale[j]
			}
		}
	})
}

// FitTransform fits on X and returns its standardized copy.
func (s *StandardScaler) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform maps standardized values back to the original scale.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (mat.Matrix, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}
	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, c, 1)
	}
	if r == 0 {
		return &mat.Dense{}, nil
	}
	result := mat.DenseCopyOf(X)
	for i := 0; i < r; i++ {
		row := result.RawRowView(i)
		for j, v := range row {
			row[j] = v*s.Scale[j] + s.Mean[j]
		}
	}
	return result, nil
}

// Statistics returns a copy of the fitted parameters.
func (s *StandardScaler) Statistics() (Statistics, error) {
	if !s.IsFitted() {
		return Statistics{}, errors.NewNotFittedError("StandardScaler", "Statistics")
	}
	return Statistics{
		Mean:  append([]float64(nil), s.Mean...),
		Std:   append([]float64(nil), s.Std...),
		Scale: append([]float64(nil), s.Scale...),
	}, nil
}

// GetParams returns the scaler's hyperparameters.
func (s *StandardScaler) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"epsilon": s.Epsilon,
	}
}

func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(epsilon=%g)", s.Epsilon)
	}
	return fmt.Sprintf("StandardScaler(epsilon=%g, n_features=%d)", s.Epsilon, s.NFeatures)
}
