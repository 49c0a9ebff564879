package dataset

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/houseprice/pkg/errors"
)

// Partition is an index-aligned feature matrix and target vector. An empty
// partition holds zero-value matrices whose Dims are (0, 0).
type Partition struct {
	X *mat.Dense
	Y *mat.VecDense
}

// Len returns the number of samples.
func (p Partition) Len() int {
	if p.Y == nil {
		return 0
	}
	return p.Y.Len()
}

// SplitIndex returns floor(n * ratio).
func SplitIndex(n int, ratio float64) int {
	return int(math.Floor(float64(n) * ratio))
}

// SplitAt cuts X and y into rows [0, index) and [index, n) without
// reordering. Both partitions own copies of their rows.
func SplitAt(X *mat.Dense, y *mat.VecDense, index int) (train, test Partition, err error) {
	r, _ := X.Dims()
	if y.Len() != r {
		return Partition{}, Partition{}, errors.NewDimensionError("dataset.SplitAt", r, y.Len(), 0)
	}
	if index < 0 || index > r {
		return Partition{}, Partition{}, errors.NewValidationError("index", "must be within [0, rows]", index)
	}
	return rowRange(X, y, 0, index), rowRange(X, y, index, r), nil
}

func rowRange(X *mat.Dense, y *mat.VecDense, i, k int) Partition {
	if k <= i {
		return Partition{X: &mat.Dense{}, Y: &mat.VecDense{}}
	}
	_, c := X.Dims()
	return Partition{
		X: mat.DenseCopyOf(X.Slice(i, k, 0, c)),
		Y: mat.VecDenseCopyOf(y.SliceVec(i, k)),
	}
}
