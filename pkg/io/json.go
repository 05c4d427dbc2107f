package io

import (
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/strataprep/strata/pkg/dataset"
	"github.com/strataprep/strata/pkg/errors"
)

// jsonColumn is the on-disk representation of one column
type jsonColumn struct {
	Name   string        `json:"name"`
	Type   string        `json:"type"`
	Values []interface{} `json:"values"`
}

// jsonDocument is the column-oriented on-disk dataset format. Unlike CSV it
// preserves declared types, so a round trip needs no inference.
type jsonDocument struct {
	Columns []jsonColumn `json:"columns"`
}

// ReadJSON reads a column-oriented JSON document into a dataset
func ReadJSON(r io.Reader) (*dataset.Dataset, error) {
	var doc jsonDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to parse JSON document")
	}

	columns := make([]*dataset.Column, len(doc.Columns))
	for i, jc := range doc.Columns {
		dtype, err := dataset.ParseType(jc.Type)
		if err != nil {
			return nil, err
		}
		cells := make([]interface{}, len(jc.Values))
		for row, v := range jc.Values {
			cell, err := decodeCell(dtype, v)
			if err != nil {
				e := errors.Wrap(err, errors.ErrorTypeFile, "invalid cell in JSON document")
				return nil, e.WithColumn(jc.Name).WithRows([]int{row})
			}
			cells[row] = cell
		}
		col, err := dataset.NewColumn(jc.Name, dtype, cells)
		if err != nil {
			return nil, err
		}
		columns[i] = col
	}
	return dataset.New(columns...)
}

// LoadJSON reads a JSON file into a dataset
func LoadJSON(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open JSON file")
	}
	defer f.Close()
	return ReadJSON(f)
}

// decodeCell maps a decoded JSON value onto a declared type. JSON numbers
// arrive as float64 and timestamps as RFC 3339 strings, so integer and
// timestamp columns need an explicit conversion before column validation.
func decodeCell(dtype dataset.Type, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	switch dtype {
	case dataset.TypeInteger:
		f, ok := v.(float64)
		if !ok || f != float64(int64(f)) {
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch, "value %v is not an integer", v)
		}
		return int64(f), nil
	case dataset.TypeTimestamp:
		s, ok := v.(string)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch, "value %v is not a timestamp string", v)
		}
		ts, ok := dataset.ParseTimestamp(s)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch, "value %q is not a valid timestamp", s)
		}
		return ts, nil
	default:
		return v, nil
	}
}

// WriteJSON writes a dataset as a column-oriented JSON document
func WriteJSON(w io.Writer, d *dataset.Dataset) error {
	doc := jsonDocument{Columns: make([]jsonColumn, 0, d.ColumnCount())}
	for _, col := range d.Columns() {
		values := make([]interface{}, col.Len())
		for i := 0; i < col.Len(); i++ {
			v := col.Value(i)
			if ts, ok := v.(time.Time); ok {
				v = ts.Format(time.RFC3339Nano)
			}
			values[i] = v
		}
		doc.Columns = append(doc.Columns, jsonColumn{
			Name:   col.Name(),
			Type:   col.DType().String(),
			Values: values,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to encode JSON document")
	}
	return nil
}

// SaveJSON writes a dataset to a JSON file
func SaveJSON(path string, d *dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create JSON file")
	}
	defer f.Close()
	return WriteJSON(f, d)
}
