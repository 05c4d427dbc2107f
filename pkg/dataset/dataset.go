package dataset

import (
	"github.com/strataprep/strata/pkg/errors"
)

// Dataset is an ordered collection of columns sharing a row count.
// Datasets are immutable: every transformation returns a new instance and
// unchanged columns are shared between instances, which is safe because
// columns never mutate after construction.
type Dataset struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New creates a dataset from columns, enforcing unique names and equal
// lengths.
func New(columns ...*Column) (*Dataset, error) {
	d := &Dataset{
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if _, exists := d.index[col.Name()]; exists {
			return nil, errors.Newf(errors.ErrorTypeInvalidParameter, "duplicate column name %q", col.Name()).WithColumn(col.Name())
		}
		if i == 0 {
			d.rows = col.Len()
		} else if col.Len() != d.rows {
			return nil, errors.Newf(errors.ErrorTypeInvalidParameter,
				"column %q has %d rows, expected %d", col.Name(), col.Len(), d.rows).WithColumn(col.Name())
		}
		d.index[col.Name()] = len(d.columns)
		d.columns = append(d.columns, col)
	}
	return d, nil
}

// MustNew is New that panics on invalid input. Intended for tests and
// literal fixtures.
func MustNew(columns ...*Column) *Dataset {
	d, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return d
}

// RowCount returns the number of rows
func (d *Dataset) RowCount() int { return d.rows }

// ColumnCount returns the number of columns
func (d *Dataset) ColumnCount() int { return len(d.columns) }

// Column retrieves a column by name
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[i], true
}

// HasColumn reports whether a column with the given name exists
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Columns returns the columns in dataset order
func (d *Dataset) Columns() []*Column {
	out := make([]*Column, len(d.columns))
	copy(out, d.columns)
	return out
}

// ColumnNames returns the column names in dataset order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, col := range d.columns {
		names[i] = col.Name()
	}
	return names
}

// Row returns the cells of row i keyed by column name; missing cells map
// to nil.
func (d *Dataset) Row(i int) map[string]interface{} {
	row := make(map[string]interface{}, len(d.columns))
	for _, col := range d.columns {
		row[col.Name()] = col.Value(i)
	}
	return row
}

// SelectRows returns a new dataset containing the rows at the given
// indices, in the given order. Unlisted rows are dropped.
func (d *Dataset) SelectRows(rows []int) *Dataset {
	columns := make([]*Column, len(d.columns))
	for i, col := range d.columns {
		columns[i] = col.take(rows)
	}
	out := &Dataset{columns: columns, index: d.cloneIndex(), rows: len(rows)}
	return out
}

// ReplaceColumn returns a new dataset with the column of the same name
// replaced. Unrelated columns are shared with the receiver.
func (d *Dataset) ReplaceColumn(col *Column) (*Dataset, error) {
	i, ok := d.index[col.Name()]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeColumnNotFound, "column %q not found", col.Name()).WithColumn(col.Name())
	}
	if col.Len() != d.rows {
		return nil, errors.Newf(errors.ErrorTypeInvalidParameter,
			"replacement column %q has %d rows, expected %d", col.Name(), col.Len(), d.rows).WithColumn(col.Name())
	}
	columns := make([]*Column, len(d.columns))
	copy(columns, d.columns)
	columns[i] = col
	return &Dataset{columns: columns, index: d.cloneIndex(), rows: d.rows}, nil
}

// DropColumns returns a new dataset without the named columns. Names not
// present are ignored.
func (d *Dataset) DropColumns(names ...string) *Dataset {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[name] = struct{}{}
	}
	columns := make([]*Column, 0, len(d.columns))
	index := make(map[string]int)
	for _, col := range d.columns {
		if _, gone := drop[col.Name()]; gone {
			continue
		}
		index[col.Name()] = len(columns)
		columns = append(columns, col)
	}
	return &Dataset{columns: columns, index: index, rows: d.rows}
}

func (d *Dataset) cloneIndex() map[string]int {
	index := make(map[string]int, len(d.index))
	for k, v := range d.index {
		index[k] = v
	}
	return index
}

// Summary describes a dataset's shape and composition. It backs the
// inspect surface consumed by orchestrators.
type Summary struct {
	Rows               int               `json:"rows"`
	Columns            int               `json:"columns"`
	MissingCells       int               `json:"missing_cells"`
	Types              map[string]string `json:"types"`
	MissingByColumn    map[string]int    `json:"missing_by_column"`
	NumericColumns     []string          `json:"numeric_columns"`
	CategoricalColumns []string          `json:"categorical_columns"`
}

// Summary computes a summary of the dataset
func (d *Dataset) Summary() Summary {
	s := Summary{
		Rows:            d.rows,
		Columns:         len(d.columns),
		Types:           make(map[string]string, len(d.columns)),
		MissingByColumn: make(map[string]int, len(d.columns)),
	}
	for _, col := range d.columns {
		missing := col.MissingCount()
		s.MissingCells += missing
		s.MissingByColumn[col.Name()] = missing
		s.Types[col.Name()] = col.DType().String()
		if col.DType().IsNumeric() {
			s.NumericColumns = append(s.NumericColumns, col.Name())
		}
		if col.DType() == TypeCategorical || col.DType() == TypeString {
			s.CategoricalColumns = append(s.CategoricalColumns, col.Name())
		}
	}
	return s
}
