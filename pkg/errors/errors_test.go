package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "Normalizer.Normalize",
			kind:    "no rows retained",
			err:     ErrEmptyData,
			wantMsg: "houseprice: Normalizer.Normalize: no rows retained: empty data",
		},
		{
			name:    "without original error",
			op:      "Train",
			kind:    "diverged",
			err:     nil,
			wantMsg: "houseprice: Train: diverged",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
			if tt.err != nil && !Is(err, tt.err) {
				t.Errorf("Expected %v to be in the chain", tt.err)
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Train", 4, 3, 0)

	want := "houseprice: Train: dimension mismatch on axis 0 (rows). Expected 4, got 3"
	assert.Equal(t, want, err.Error())

	var dimErr *DimensionError
	require.True(t, As(err, &dimErr))
	assert.Equal(t, 4, dimErr.Expected)
	assert.Equal(t, 3, dimErr.Got)

	err = NewDimensionError("Predict", 5, 2, 1)
	assert.Contains(t, err.Error(), "(features)")
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("epochs", "must be non-negative", -1)
	assert.Equal(t, "houseprice: validation failed for parameter 'epochs': must be non-negative (got: -1)", err.Error())

	var valErr *ValidationError
	assert.True(t, As(err, &valErr))
}

func TestWrapKeepsSentinel(t *testing.T) {
	err := Wrapf(ErrEmptyData, "reading %s", "houses.csv")
	assert.True(t, Is(err, ErrEmptyData))
	assert.Contains(t, err.Error(), "reading houses.csv")
	assert.NotEmpty(t, GetSafeDetails(WithStack(New("boom"))))
}

func TestWarnRouting(t *testing.T) {
	var fallback, structured []error
	SetWarningHandler(func(w error) { fallback = append(fallback, w) })
	defer SetWarningHandler(nil)

	w := NewUndefinedMetricWarning("r2_score", "zero variance in y_true", math.NaN())
	Warn(w)
	require.Len(t, fallback, 1)
	assert.Contains(t, fallback[0].Error(), "'r2_score' is ill-defined")

	SetZerologWarnFunc(func(w error) { structured = append(structured, w) })
	defer SetZerologWarnFunc(nil)

	Warn(NewDataConversionWarning("string", "float64", "unparsable price", 3))
	assert.Len(t, fallback, 1)
	require.Len(t, structured, 1)
	assert.Equal(t, "3 value(s) converted from string to float64. Reason: unparsable price", structured[0].Error())
}

func TestCheckNumericalStability(t *testing.T) {
	assert.NoError(t, CheckNumericalStability("weights", []float64{0, 1.5, -2}, 10))

	err := CheckNumericalStability("weights", []float64{1, math.NaN(), math.Inf(1)}, 1000)
	require.Error(t, err)

	var numErr *NumericalInstabilityError
	require.True(t, As(err, &numErr))
	assert.Equal(t, 1000, numErr.Iteration)
	assert.Len(t, numErr.Values, 2)

	assert.NoError(t, CheckScalar("loss", 0.5, 0))
	assert.Error(t, CheckScalar("loss", math.Inf(-1), 0))
}
