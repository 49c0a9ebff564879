package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"

	"github.com/YuminosukeSato/houseprice/pkg/errors"
)

// LoadCSV reads every data row of the CSV file at path. The header row is
// discarded.
func LoadCSV(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", path)
	}
	defer file.Close()

	rows, err := ReadCSV(file)
	if err != nil {
		return nil, errors.Wrapf(err, "read dataset %s", path)
	}
	return rows, nil
}

// ReadCSV reads comma-separated records from r, discarding the first one.
// Rows may have any width; short rows are handled by Extract's defaults.
// Quoted fields may contain commas and stray quotes are tolerated.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows []Row
	header := true
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "parse record %d", len(rows)+1)
		}
		if header {
			header = false
			continue
		}
		rows = append(rows, Row(rec))
	}
	return rows, nil
}
