// Package csvutil provides generic CSV file helpers built on gocsv. The
// movement import/export wire format has its own hand-written codec in
// internal/csvio; these helpers serve the tabular side files, such as
// snapshot dumps, where struct tags describe the columns.
package csvutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Delimiter is the column separator used for reading and writing. It can be
// overridden through configuration.
var Delimiter rune = ','

// SetDelimiter changes the delimiter for subsequent reads and writes.
func SetDelimiter(delim rune) {
	Delimiter = delim
	gocsv.TagSeparator = fmt.Sprintf("%c", delim)
}

// ReadFile reads a CSV file into a slice of row structs.
func ReadFile[TRow any](filePath string) ([]TRow, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open CSV file: %w", err)
	}
	defer file.Close()

	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.Comma = Delimiter
		return r
	})

	var rows []TRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("parse CSV file: %w", err)
	}
	return rows, nil
}

// WriteFile writes a slice of row structs to a CSV file, creating parent
// directories as needed.
func WriteFile[TRow any](rows []TRow, filePath string) error {
	if rows == nil {
		return fmt.Errorf("cannot write nil rows to CSV")
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer file.Close()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("write CSV data: %w", err)
	}
	return nil
}
