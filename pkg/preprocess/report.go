// Package preprocess implements the tabular preprocessing engine: missing
// value handling, type conversion, normalization, outlier handling, row
// filtering and sampling over immutable datasets. Every operation is a pure
// function from an input dataset to a new dataset plus a report; the engine
// holds no state between calls.
package preprocess

import (
	"github.com/google/uuid"
)

// Kind identifies an operation family
type Kind string

const (
	KindMissingValues   Kind = "missing_values"
	KindTypeConversion  Kind = "type_conversion"
	KindNormalization   Kind = "normalization"
	KindOutlierHandling Kind = "outlier_handling"
	KindRowFilter       Kind = "row_filter"
	KindRowSample       Kind = "row_sample"
)

// NormParams holds the per-column parameters a normalization used, enabling
// a collaborator to invert the transform later.
type NormParams struct {
	Method string  `json:"method"`
	Min    float64 `json:"min,omitempty"`
	Max    float64 `json:"max,omitempty"`
	Mean   float64 `json:"mean,omitempty"`
	Std    float64 `json:"std,omitempty"`
	Median float64 `json:"median,omitempty"`
	Q1     float64 `json:"q1,omitempty"`
	Q3     float64 `json:"q3,omitempty"`
	IQR    float64 `json:"iqr,omitempty"`
	MaxAbs float64 `json:"max_abs,omitempty"`
}

// Report is the per-operation metadata returned alongside the new dataset.
type Report struct {
	OperationID string `json:"operation_id"`
	Kind        Kind   `json:"kind"`

	RowsBefore   int `json:"rows_before"`
	RowsAfter    int `json:"rows_after"`
	RowsAffected int `json:"rows_affected"`

	// CellsChanged counts rewritten cells per column (fills, conversions,
	// winsorized values).
	CellsChanged map[string]int `json:"cells_changed,omitempty"`

	// Coerced counts cells turned into missing by coerce-mode conversion.
	Coerced map[string]int `json:"coerced,omitempty"`

	// Flagged lists outlier row indices per column.
	Flagged map[string][]int `json:"flagged,omitempty"`

	// DroppedColumns lists columns removed by the drop_column strategy.
	DroppedColumns []string `json:"dropped_columns,omitempty"`

	// Normalization holds per-column inverse-transform parameters.
	Normalization map[string]NormParams `json:"normalization,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}

func newReport(kind Kind, rowsBefore int) *Report {
	return &Report{
		OperationID: uuid.NewString(),
		Kind:        kind,
		RowsBefore:  rowsBefore,
		RowsAfter:   rowsBefore,
	}
}

func (r *Report) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, sprintf(format, args...))
}

func (r *Report) addCellsChanged(column string, n int) {
	if n == 0 {
		return
	}
	if r.CellsChanged == nil {
		r.CellsChanged = make(map[string]int)
	}
	r.CellsChanged[column] += n
}

func (r *Report) addCoerced(column string, n int) {
	if n == 0 {
		return
	}
	if r.Coerced == nil {
		r.Coerced = make(map[string]int)
	}
	r.Coerced[column] += n
}

func (r *Report) addFlagged(column string, rows []int) {
	if r.Flagged == nil {
		r.Flagged = make(map[string][]int)
	}
	r.Flagged[column] = rows
}

func (r *Report) addNormParams(column string, p NormParams) {
	if r.Normalization == nil {
		r.Normalization = make(map[string]NormParams)
	}
	r.Normalization[column] = p
}
