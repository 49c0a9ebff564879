// Package visualization renders actual and predicted prices.
package visualization

import (
	"image/color"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/YuminosukeSato/houseprice/pkg/errors"
)

// Default image size in pixels.
const (
	DefaultWidth  = 1024
	DefaultHeight = 768
)

var (
	actualColor    = color.RGBA{R: 255, A: 255}
	predictedColor = color.RGBA{B: 255, A: 255}
)

// pixels converts a pixel count to a length at the PNG canvas resolution.
func pixels(n float64) vg.Length {
	return vg.Length(n) * vg.Inch / vg.Length(vgimg.DefaultDPI)
}

// NewPredictionPlot builds a scatter plot of exp(actual) in red and
// exp(predicted) in blue against the sample index. Both inputs are on the
// log scale. The y axis spans [0, max(exp(actual))].
func NewPredictionPlot(actual, predicted mat.Vector) (*plot.Plot, error) {
	n := actual.Len()
	if n == 0 {
		return nil, errors.NewValueError("visualization.NewPredictionPlot", "no samples to plot")
	}
	if predicted.Len() != n {
		return nil, errors.NewDimensionError("visualization.NewPredictionPlot", n, predicted.Len(), 0)
	}

	actualPts := make(plotter.XYs, n)
	predictedPts := make(plotter.XYs, n)
	yMax := math.Inf(-1)
	for i := 0; i < n; i++ {
		a := math.Exp(actual.AtVec(i))
		actualPts[i] = plotter.XY{X: float64(i), Y: a}
		predictedPts[i] = plotter.XY{X: float64(i), Y: math.Exp(predicted.AtVec(i))}
		yMax = math.Max(yMax, a)
	}
	if err := errors.CheckScalar("visualization.NewPredictionPlot", yMax, 0); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = "Actual vs Predicted Prices"
	p.X.Label.Text = "Sample"
	p.Y.Label.Text = "Price"

	predictedScatter, err := plotter.NewScatter(predictedPts)
	if err != nil {
		return nil, errors.Wrap(err, "predicted scatter")
	}
	predictedScatter.Color = predictedColor
	predictedScatter.Shape = draw.CircleGlyph{}
	predictedScatter.Radius = pixels(5)

	actualScatter, err := plotter.NewScatter(actualPts)
	if err != nil {
		return nil, errors.Wrap(err, "actual scatter")
	}
	actualScatter.Color = actualColor
	actualScatter.Shape = draw.CircleGlyph{}
	actualScatter.Radius = pixels(5)

	// actual is drawn last so it stays visible where markers overlap
	p.Add(predictedScatter, actualScatter)
	// Add widens the axes to the data range, so the bounds are pinned after it.
	p.X.Min, p.X.Max = 0, float64(n)
	p.Y.Min, p.Y.Max = 0, yMax
	p.Legend.Add("predicted", predictedScatter)
	p.Legend.Add("actual", actualScatter)
	p.Legend.Top = true
	return p, nil
}

// WritePredictions renders the prediction plot as a width×height PNG to w.
func WritePredictions(w io.Writer, actual, predicted mat.Vector, width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.NewValidationError("size", "width and height must be positive", [2]int{width, height})
	}
	p, err := NewPredictionPlot(actual, predicted)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(pixels(float64(width)), pixels(float64(height)), "png")
	if err != nil {
		return errors.Wrap(err, "render plot")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "write plot")
	}
	return nil
}

// SavePredictions writes the PNG to path.
func SavePredictions(path string, actual, predicted mat.Vector, width, height int) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	return WritePredictions(f, actual, predicted, width, height)
}
