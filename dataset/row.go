// Package dataset reads the housing CSV into positional rows and holds the
// numeric partitions produced from them.
package dataset

import (
	"math"
	"strconv"
)

// Column positions consumed from each row.
const (
	ColPrice     = 2
	ColBeds      = 3
	ColBath      = 4
	ColSqft      = 5
	ColLatitude  = 15
	ColLongitude = 16

	// MinColumns is the width of a complete row.
	MinColumns = 17

	// NumFeatures is the number of numeric features extracted per row.
	NumFeatures = 5
)

// Fallbacks for missing or unparsable fields.
const (
	DefaultFeatureValue = 0.0
	DefaultPrice        = 1.0
)

// FeatureColumns lists the feature positions in feature-index order.
var FeatureColumns = [NumFeatures]int{ColBeds, ColBath, ColSqft, ColLatitude, ColLongitude}

// FeatureNames names the features in feature-index order.
var FeatureNames = []string{"beds", "bath", "property_sqft", "latitude", "longitude"}

// Row is one raw record, indexed by column position.
type Row []string

// Record is the numeric view of a Row.
type Record struct {
	Features [NumFeatures]float64
	Price    float64

	// PriceParsed is false when Price holds DefaultPrice.
	PriceParsed bool

	// Defaulted counts the feature and price fields that fell back to a default.
	Defaulted int
}

// FeatureSum is the sum of the raw feature values used by the input filter.
func (r Record) FeatureSum() float64 {
	var sum float64
	for _, v := range r.Features {
		sum += v
	}
	return sum
}

// Extract converts a row into a Record. Missing, unparsable or infinite
// feature fields become DefaultFeatureValue and the price becomes DefaultPrice.
// A "NaN" field parses as NaN, which no positivity filter accepts.
// Fields are not trimmed.
func Extract(row Row) Record {
	var rec Record
	for j, col := range FeatureColumns {
		v, ok := parseField(row, col)
		if !ok {
			v = DefaultFeatureValue
			rec.Defaulted++
		}
		rec.Features[j] = v
	}

	price, ok := parseField(row, ColPrice)
	if !ok {
		price = DefaultPrice
		rec.Defaulted++
	}
	rec.Price = price
	rec.PriceParsed = ok
	return rec
}

func parseField(row Row, col int) (float64, bool) {
	if col >= len(row) {
		return 0, false
	}
	v, err := strconv.ParseFloat(row[col], 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
