package model

import (
	"encoding/json"
	"io"
	"os"

	"github.com/YuminosukeSato/houseprice/pkg/errors"
)

// ModelWeights is the serialized form of a trained linear model.
type ModelWeights struct {
	// ModelType is the estimator name, e.g. "GradientDescentRegressor".
	ModelType string `json:"model_type"`

	// Version guards against loading incompatible files.
	Version string `json:"version"`

	// Coefficients holds one weight per feature. There is no intercept.
	Coefficients []float64 `json:"coefficients"`

	// Features names the columns in coefficient order.
	Features []string `json:"features,omitempty"`

	// Hyperparameters used for training (learning rate, epochs).
	Hyperparameters map[string]interface{} `json:"hyperparameters"`

	// Metadata carries training-time facts such as the normalization
	// statistics needed to standardize new inputs.
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	IsFitted bool `json:"is_fitted"`
}

// ToJSON serializes the weights as indented JSON.
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mw, "", "  ")
}

// FromJSON restores the weights from JSON and validates them.
func (mw *ModelWeights) FromJSON(data []byte) error {
	if err := json.Unmarshal(data, mw); err != nil {
		return errors.Wrap(err, "decode model weights")
	}
	return mw.Validate()
}

// Validate checks that the weights are internally consistent.
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return errors.NewValidationError("model_type", "is required", mw.ModelType)
	}
	if mw.Version == "" {
		return errors.NewValidationError("version", "is required", mw.Version)
	}
	if !mw.IsFitted && len(mw.Coefficients) > 0 {
		return errors.NewValidationError("coefficients", "unfitted model should not have coefficients", len(mw.Coefficients))
	}
	if mw.IsFitted && len(mw.Coefficients) == 0 {
		return errors.NewValidationError("coefficients", "fitted model must have coefficients", 0)
	}
	if len(mw.Features) > 0 && len(mw.Features) != len(mw.Coefficients) {
		return errors.NewDimensionError("ModelWeights.Validate", len(mw.Coefficients), len(mw.Features), 1)
	}
	return nil
}

// WriteTo writes the JSON form of the weights to w.
func (mw *ModelWeights) WriteTo(w io.Writer) (int64, error) {
	data, err := mw.ToJSON()
	if err != nil {
		return 0, errors.Wrap(err, "encode model weights")
	}
	n, err := w.Write(append(data, '\n'))
	return int64(n), err
}

// SaveWeights validates mw and writes it to path.
func SaveWeights(mw *ModelWeights, path string) error {
	if err := mw.Validate(); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer file.Close()

	if _, err := mw.WriteTo(file); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return file.Close()
}

// LoadWeights reads and validates weights written by SaveWeights.
func LoadWeights(path string) (*ModelWeights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	mw := &ModelWeights{}
	if err := mw.FromJSON(data); err != nil {
		return nil, err
	}
	return mw, nil
}
