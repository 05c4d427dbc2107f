// Package io loads and saves datasets. CSV files carry no type metadata,
// so loading infers each column's type from its values; JSON round-trips
// both data and declared types.
package io

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/strataprep/strata/pkg/dataset"
	"github.com/strataprep/strata/pkg/errors"
)

// CSVOptions controls CSV parsing
type CSVOptions struct {
	// Comma is the field delimiter; zero means ','.
	Comma rune
	// Types pins declared types per column, overriding inference.
	Types map[string]dataset.Type
}

// ReadCSV reads a headered CSV stream into a dataset. Column types are
// inferred unless pinned in opts; unparsable values under a pinned type
// become missing cells.
func ReadCSV(r io.Reader, opts CSVOptions) (*dataset.Dataset, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to parse CSV")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrorTypeFile, "CSV input has no header row")
	}

	header := records[0]
	raw := make([][]string, len(header))
	for i := range raw {
		raw[i] = make([]string, 0, len(records)-1)
	}
	for rowNum, record := range records[1:] {
		if len(record) != len(header) {
			return nil, errors.Newf(errors.ErrorTypeFile,
				"row %d has %d fields, expected %d", rowNum+1, len(record), len(header))
		}
		for i, field := range record {
			raw[i] = append(raw[i], field)
		}
	}

	columns := make([]*dataset.Column, len(header))
	for i, name := range header {
		dtype, pinned := opts.Types[name]
		if !pinned {
			dtype = dataset.InferType(raw[i])
		}
		columns[i] = dataset.ColumnFromStrings(name, dtype, raw[i])
	}
	return dataset.New(columns...)
}

// LoadCSV reads a CSV file into a dataset
func LoadCSV(path string, opts CSVOptions) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open CSV file")
	}
	defer f.Close()
	return ReadCSV(f, opts)
}

// WriteCSV writes a dataset as headered CSV. Missing cells render as empty
// fields.
func WriteCSV(w io.Writer, d *dataset.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.ColumnNames()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write CSV header")
	}

	cols := d.Columns()
	record := make([]string, len(cols))
	for i := 0; i < d.RowCount(); i++ {
		for j, col := range cols {
			record[j] = cellString(col.Value(i))
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write CSV row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush CSV output")
	}
	return nil
}

// cellString renders a cell for CSV output; missing cells become the empty
// field.
func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	switch n := v.(type) {
	case string:
		return n
	case int64:
		return strconv.FormatInt(n, 10)
	case float64:
		return strconv.FormatFloat(n, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(n)
	case time.Time:
		return n.Format(time.RFC3339)
	default:
		return fmt.Sprint(n)
	}
}

// SaveCSV writes a dataset to a CSV file
func SaveCSV(path string, d *dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create CSV file")
	}
	defer f.Close()
	return WriteCSV(f, d)
}
