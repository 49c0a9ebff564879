package metrics

import (
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/houseprice/pkg/errors"
)

// Report holds the evaluation metrics of one prediction vector.
type Report struct {
	RMSE float64
	MAE  float64
	MSE  float64
	// R2 is NaN when the targets have no variance.
	R2 float64
	// MAPE is a percentage.
	MAPE float64
}

// Summarize computes every metric in Report.
func Summarize(yTrue, yPred mat.Vector) (Report, error) {
	var (
		r   Report
		err error
	)
	if r.MSE, err = MSE(yTrue, yPred); err != nil {
		return Report{}, errors.Wrap(err, "summarize")
	}
	r.RMSE = math.Sqrt(r.MSE)
	if r.MAE, err = MAE(yTrue, yPred); err != nil {
		return Report{}, errors.Wrap(err, "summarize")
	}
	if r.R2, err = R2Score(yTrue, yPred); err != nil {
		return Report{}, errors.Wrap(err, "summarize")
	}
	if r.MAPE, err = MAPE(yTrue, yPred); err != nil {
		return Report{}, errors.Wrap(err, "summarize")
	}
	return r, nil
}

// MarshalZerologObject adds the metrics to a zerolog event.
func (r Report) MarshalZerologObject(e *zerolog.Event) {
	e.Float64("rmse", r.RMSE).
		Float64("mae", r.MAE).
		Float64("mse", r.MSE).
		Float64("r2_score", r.R2).
		Float64("mape", r.MAPE)
}
