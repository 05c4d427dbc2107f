package dataset

import (
	"math"
	"time"

	"github.com/strataprep/strata/pkg/errors"
)

// Column is a named, typed sequence of cells. A nil cell is the missing
// marker, distinct from every valid value of every type. Columns are
// immutable after construction; transformations build new ones.
type Column struct {
	name   string
	dtype  Type
	values []interface{}
}

// NewColumn creates a column after validating every cell against the
// declared type. Integer cells may be given as int or int64 and are stored
// as int64. Float NaN cells are stored as missing.
func NewColumn(name string, dtype Type, values []interface{}) (*Column, error) {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		if v == nil {
			continue
		}
		cell, err := normalizeCell(dtype, v)
		if err != nil {
			return nil, err.WithColumn(name).WithRows([]int{i})
		}
		cells[i] = cell
	}
	return &Column{name: name, dtype: dtype, values: cells}, nil
}

// MustNewColumn is NewColumn that panics on invalid cells. Intended for
// tests and literal fixtures.
func MustNewColumn(name string, dtype Type, values []interface{}) *Column {
	col, err := NewColumn(name, dtype, values)
	if err != nil {
		panic(err)
	}
	return col
}

// normalizeCell validates a single non-nil cell and returns its canonical
// in-memory representation.
func normalizeCell(dtype Type, v interface{}) (interface{}, *errors.Error) {
	switch dtype {
	case TypeInteger:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case int32:
			return int64(n), nil
		}
	case TypeFloat:
		switch n := v.(type) {
		case float64:
			if math.IsNaN(n) {
				return nil, nil
			}
			return n, nil
		case float32:
			return float64(n), nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
	case TypeString, TypeCategorical:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case TypeBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case TypeTimestamp:
		if ts, ok := v.(time.Time); ok {
			return ts, nil
		}
	}
	return nil, errors.Newf(errors.ErrorTypeTypeMismatch, "value %v (%T) is not valid for %s column", v, v, dtype)
}

// Canonical validates a single value against a declared type and returns
// its canonical cell representation. A nil value stays nil (missing).
func Canonical(dtype Type, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	cell, err := normalizeCell(dtype, v)
	if err != nil {
		return nil, err
	}
	return cell, nil
}

// Derived builds a column from already-canonical cells, skipping
// validation. It exists for transformation code that rewrites cells it has
// read from an existing column; such cells are canonical by construction.
// The column takes ownership of the slice.
func Derived(name string, dtype Type, cells []interface{}) *Column {
	return &Column{name: name, dtype: dtype, values: cells}
}

// Name returns the column name
func (c *Column) Name() string { return c.name }

// DType returns the declared type
func (c *Column) DType() Type { return c.dtype }

// Len returns the number of cells
func (c *Column) Len() int { return len(c.values) }

// Value returns the cell at index i; nil means missing
func (c *Column) Value(i int) interface{} { return c.values[i] }

// IsMissing reports whether the cell at index i is missing
func (c *Column) IsMissing(i int) bool { return c.values[i] == nil }

// MissingCount returns the number of missing cells
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.values {
		if v == nil {
			n++
		}
	}
	return n
}

// HasMissing reports whether the column contains at least one missing cell
func (c *Column) HasMissing() bool {
	for _, v := range c.values {
		if v == nil {
			return true
		}
	}
	return false
}

// Float returns the cell at index i as a float64. The second return is
// false for missing cells or non-numeric columns.
func (c *Column) Float(i int) (float64, bool) {
	switch n := c.values[i].(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Floats returns the non-missing numeric values in row order together with
// their row indices.
func (c *Column) Floats() ([]float64, []int) {
	vals := make([]float64, 0, len(c.values))
	idx := make([]int, 0, len(c.values))
	for i := range c.values {
		if f, ok := c.Float(i); ok {
			vals = append(vals, f)
			idx = append(idx, i)
		}
	}
	return vals, idx
}

// Values returns a copy of the cells
func (c *Column) Values() []interface{} {
	out := make([]interface{}, len(c.values))
	copy(out, c.values)
	return out
}

// take builds a new column containing the cells at the given row indices,
// in the given order.
func (c *Column) take(rows []int) *Column {
	cells := make([]interface{}, len(rows))
	for i, r := range rows {
		cells[i] = c.values[r]
	}
	return Derived(c.name, c.dtype, cells)
}
