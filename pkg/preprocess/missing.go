package preprocess

import (
	"go.uber.org/zap"

	"github.com/strataprep/strata/pkg/dataset"
	"github.com/strataprep/strata/pkg/errors"
)

// MissingStrategy selects how missing values are resolved
type MissingStrategy int

const (
	StrategyDropRow MissingStrategy = iota
	StrategyDropColumn
	StrategyFillMean
	StrategyFillMedian
	StrategyFillMode
	StrategyFillValue
	StrategyInterpolate
)

// String returns the canonical strategy name
func (s MissingStrategy) String() string {
	switch s {
	case StrategyDropRow:
		return "drop_row"
	case StrategyDropColumn:
		return "drop_column"
	case StrategyFillMean:
		return "fill_mean"
	case StrategyFillMedian:
		return "fill_median"
	case StrategyFillMode:
		return "fill_mode"
	case StrategyFillValue:
		return "fill_value"
	case StrategyInterpolate:
		return "interpolate"
	default:
		return "unknown"
	}
}

// ParseMissingStrategy parses a canonical strategy name
func ParseMissingStrategy(s string) (MissingStrategy, error) {
	switch s {
	case "drop_row", "drop":
		return StrategyDropRow, nil
	case "drop_column":
		return StrategyDropColumn, nil
	case "fill_mean":
		return StrategyFillMean, nil
	case "fill_median":
		return StrategyFillMedian, nil
	case "fill_mode":
		return StrategyFillMode, nil
	case "fill_value":
		return StrategyFillValue, nil
	case "interpolate":
		return StrategyInterpolate, nil
	default:
		return 0, errors.Newf(errors.ErrorTypeInvalidParameter, "unknown missing value strategy %q", s)
	}
}

// MissingValuesRequest parameterizes a missing value operation
type MissingValuesRequest struct {
	Strategy  MissingStrategy
	Columns   []string
	FillValue interface{} // required for StrategyFillValue
}

// HandleMissingValues resolves missing values in the target columns per the
// requested strategy and returns a new dataset plus a report. The input is
// never modified; on error nothing is returned.
func (e *Engine) HandleMissingValues(d *dataset.Dataset, req MissingValuesRequest) (*dataset.Dataset, *Report, error) {
	cols, err := e.targets(d, req.Columns)
	if err != nil {
		return nil, nil, err
	}
	report := newReport(KindMissingValues, d.RowCount())

	var out *dataset.Dataset
	switch req.Strategy {
	case StrategyDropRow:
		out = e.dropRows(d, cols, report)
	case StrategyDropColumn:
		out = e.dropColumns(d, cols, report)
	case StrategyFillMean:
		out, err = e.fillStatistic(d, cols, report, "mean", mean)
	case StrategyFillMedian:
		out, err = e.fillStatistic(d, cols, report, "median", median)
	case StrategyFillMode:
		out, err = e.fillMode(d, cols, report)
	case StrategyFillValue:
		out, err = e.fillValue(d, cols, report, req.FillValue)
	case StrategyInterpolate:
		out, err = e.interpolate(d, cols, report)
	default:
		return nil, nil, errors.Newf(errors.ErrorTypeInvalidParameter, "unknown missing value strategy %d", req.Strategy)
	}
	if err != nil {
		return nil, nil, err
	}

	report.RowsAfter = out.RowCount()
	e.logger.Debug("missing values handled",
		zap.String("strategy", req.Strategy.String()),
		zap.Int("rows_affected", report.RowsAffected))
	return out, report, nil
}

// dropRows removes every row with a missing cell in any target column
func (e *Engine) dropRows(d *dataset.Dataset, cols []*dataset.Column, report *Report) *dataset.Dataset {
	keep := make([]int, 0, d.RowCount())
	for i := 0; i < d.RowCount(); i++ {
		missing := false
		for _, col := range cols {
			if col.IsMissing(i) {
				missing = true
				break
			}
		}
		if !missing {
			keep = append(keep, i)
		}
	}
	report.RowsAffected = d.RowCount() - len(keep)
	return d.SelectRows(keep)
}

// dropColumns removes every target column that contains a missing cell
func (e *Engine) dropColumns(d *dataset.Dataset, cols []*dataset.Column, report *Report) *dataset.Dataset {
	var names []string
	for _, col := range cols {
		if n := col.MissingCount(); n > 0 {
			names = append(names, col.Name())
			report.addCellsChanged(col.Name(), n)
		}
	}
	report.DroppedColumns = names
	return d.DropColumns(names...)
}

// fillStatistic fills missing cells of numeric columns with a statistic of
// the non-missing cells.
func (e *Engine) fillStatistic(d *dataset.Dataset, cols []*dataset.Column, report *Report, name string, fn func([]float64) float64) (*dataset.Dataset, error) {
	for _, col := range cols {
		if !col.DType().IsNumeric() {
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
				"fill_%s requires a numeric column, %q has type %s", name, col.Name(), col.DType()).WithColumn(col.Name())
		}
	}

	out := d
	for _, col := range cols {
		vals, _ := col.Floats()
		if len(vals) == 0 {
			report.warnf("column %q has no numeric values to compute %s", col.Name(), name)
			continue
		}
		fill := fn(vals)
		filled := 0
		cells := col.Values()
		for i := range cells {
			if cells[i] == nil {
				cells[i] = fill
				filled++
			}
		}
		if filled == 0 {
			continue
		}
		var err error
		out, err = out.ReplaceColumn(finishNumericColumn(col, cells))
		if err != nil {
			return nil, err
		}
		report.addCellsChanged(col.Name(), filled)
		report.RowsAffected += filled
	}
	return out, nil
}

// fillMode fills missing cells with the most frequent non-missing value.
// Ties break toward the value seen first in row order.
func (e *Engine) fillMode(d *dataset.Dataset, cols []*dataset.Column, report *Report) (*dataset.Dataset, error) {
	out := d
	for _, col := range cols {
		counts := make(map[interface{}]int)
		first := make(map[interface{}]int)
		for i := 0; i < col.Len(); i++ {
			v := col.Value(i)
			if v == nil {
				continue
			}
			if _, seen := counts[v]; !seen {
				first[v] = i
			}
			counts[v]++
		}
		if len(counts) == 0 {
			report.warnf("column %q has no values to compute mode", col.Name())
			continue
		}

		var modeVal interface{}
		bestCount, bestFirst := -1, -1
		for v, n := range counts {
			if n > bestCount || (n == bestCount && first[v] < bestFirst) {
				modeVal, bestCount, bestFirst = v, n, first[v]
			}
		}

		filled := 0
		cells := col.Values()
		for i := range cells {
			if cells[i] == nil {
				cells[i] = modeVal
				filled++
			}
		}
		if filled == 0 {
			continue
		}
		var err error
		out, err = out.ReplaceColumn(dataset.Derived(col.Name(), col.DType(), cells))
		if err != nil {
			return nil, err
		}
		report.addCellsChanged(col.Name(), filled)
		report.RowsAffected += filled
	}
	return out, nil
}

// fillValue fills missing cells with a caller-supplied literal
func (e *Engine) fillValue(d *dataset.Dataset, cols []*dataset.Column, report *Report, literal interface{}) (*dataset.Dataset, error) {
	if literal == nil {
		return nil, errors.New(errors.ErrorTypeInvalidParameter, "fill_value strategy requires a fill value")
	}

	// Validate the literal against every target column before touching any.
	fills := make([]interface{}, len(cols))
	for i, col := range cols {
		fill, err := dataset.Canonical(col.DType(), literal)
		if err != nil {
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
				"fill value %v (%T) is incompatible with %s column %q", literal, literal, col.DType(), col.Name()).WithColumn(col.Name())
		}
		fills[i] = fill
	}

	out := d
	for i, col := range cols {
		filled := 0
		cells := col.Values()
		for j := range cells {
			if cells[j] == nil {
				cells[j] = fills[i]
				filled++
			}
		}
		if filled == 0 {
			continue
		}
		var err error
		out, err = out.ReplaceColumn(dataset.Derived(col.Name(), col.DType(), cells))
		if err != nil {
			return nil, err
		}
		report.addCellsChanged(col.Name(), filled)
		report.RowsAffected += filled
	}
	return out, nil
}

// interpolate fills interior gaps of numeric columns by linear
// interpolation over row position. Gaps at either end have no bounding
// neighbor on one side and stay missing.
func (e *Engine) interpolate(d *dataset.Dataset, cols []*dataset.Column, report *Report) (*dataset.Dataset, error) {
	for _, col := range cols {
		if !col.DType().IsNumeric() {
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
				"interpolate requires a numeric column, %q has type %s", col.Name(), col.DType()).WithColumn(col.Name())
		}
	}

	out := d
	for _, col := range cols {
		cells := col.Values()
		filled := 0

		prev := -1 // index of the last non-missing cell
		for i := 0; i < len(cells); i++ {
			if cells[i] != nil {
				if prev >= 0 && i-prev > 1 {
					left, _ := col.Float(prev)
					right, _ := col.Float(i)
					span := float64(i - prev)
					for j := prev + 1; j < i; j++ {
						frac := float64(j-prev) / span
						cells[j] = left + (right-left)*frac
						filled++
					}
				}
				prev = i
			}
		}

		if filled == 0 {
			continue
		}
		var err error
		out, err = out.ReplaceColumn(finishNumericColumn(col, cells))
		if err != nil {
			return nil, err
		}
		report.addCellsChanged(col.Name(), filled)
		report.RowsAffected += filled
	}
	return out, nil
}
