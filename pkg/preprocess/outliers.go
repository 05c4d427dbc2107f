package preprocess

import (
	"math"

	"go.uber.org/zap"

	"github.com/strataprep/strata/pkg/dataset"
	"github.com/strataprep/strata/pkg/errors"
)

// OutlierMethod selects the detection statistic
type OutlierMethod int

const (
	OutlierZScore OutlierMethod = iota
	OutlierIQR
)

// String returns the canonical method name
func (m OutlierMethod) String() string {
	if m == OutlierIQR {
		return "iqr"
	}
	return "zscore"
}

// ParseOutlierMethod parses a canonical method name
func ParseOutlierMethod(s string) (OutlierMethod, error) {
	switch s {
	case "zscore", "z_score":
		return OutlierZScore, nil
	case "iqr":
		return OutlierIQR, nil
	default:
		return 0, errors.Newf(errors.ErrorTypeInvalidParameter, "unknown outlier method %q", s)
	}
}

// OutlierAction selects what happens to detected outliers
type OutlierAction int

const (
	// ActionDetect reports outliers without changing the dataset
	ActionDetect OutlierAction = iota
	// ActionRemove drops every row flagged in any target column
	ActionRemove
	// ActionWinsorize clamps out-of-range values to the nearest bound
	ActionWinsorize
)

// String returns the canonical action name
func (a OutlierAction) String() string {
	switch a {
	case ActionRemove:
		return "remove"
	case ActionWinsorize:
		return "winsorize"
	default:
		return "detect"
	}
}

// ParseOutlierAction parses a canonical action name
func ParseOutlierAction(s string) (OutlierAction, error) {
	switch s {
	case "detect", "":
		return ActionDetect, nil
	case "remove":
		return ActionRemove, nil
	case "winsorize":
		return ActionWinsorize, nil
	default:
		return 0, errors.Newf(errors.ErrorTypeInvalidParameter, "unknown outlier action %q", s)
	}
}

// OutliersRequest parameterizes an outlier operation. Threshold is
// mandatory; the engine assumes no conventional default.
type OutliersRequest struct {
	Method    OutlierMethod
	Action    OutlierAction
	Threshold float64
	Columns   []string
}

// bounds is the inclusive keep-range for one column
type bounds struct {
	lo, hi float64
	ok     bool // false when the column's spread is degenerate
}

// HandleOutliers detects outliers in the target numeric columns and applies
// the requested action. Rows with a missing cell in a target column are
// never flagged for that column.
func (e *Engine) HandleOutliers(d *dataset.Dataset, req OutliersRequest) (*dataset.Dataset, *Report, error) {
	cols, err := e.numericTargets(d, req.Columns)
	if err != nil {
		return nil, nil, err
	}
	if req.Threshold <= 0 || math.IsNaN(req.Threshold) {
		return nil, nil, errors.Newf(errors.ErrorTypeInvalidParameter,
			"outlier threshold must be a positive number, got %v", req.Threshold)
	}

	report := newReport(KindOutlierHandling, d.RowCount())

	colBounds := make([]bounds, len(cols))
	flaggedAny := make(map[int]struct{})
	for ci, col := range cols {
		vals, idx := col.Floats()
		if len(vals) == 0 {
			report.warnf("column %q has no numeric values for outlier detection", col.Name())
			continue
		}
		b := outlierBounds(req.Method, req.Threshold, vals)
		colBounds[ci] = b
		if !b.ok {
			report.warnf("column %q has zero spread, no outliers detected", col.Name())
			report.addFlagged(col.Name(), []int{})
			continue
		}

		var rows []int
		for i, v := range vals {
			if v < b.lo || v > b.hi {
				rows = append(rows, idx[i])
				flaggedAny[idx[i]] = struct{}{}
			}
		}
		if rows == nil {
			rows = []int{}
		}
		report.addFlagged(col.Name(), rows)
	}

	out := d
	switch req.Action {
	case ActionDetect:
		report.RowsAffected = len(flaggedAny)

	case ActionRemove:
		keep := make([]int, 0, d.RowCount())
		for i := 0; i < d.RowCount(); i++ {
			if _, flagged := flaggedAny[i]; !flagged {
				keep = append(keep, i)
			}
		}
		report.RowsAffected = d.RowCount() - len(keep)
		out = d.SelectRows(keep)

	case ActionWinsorize:
		for ci, col := range cols {
			b := colBounds[ci]
			if !b.ok {
				continue
			}
			cells := col.Values()
			clamped := 0
			for i := range cells {
				f, numeric := col.Float(i)
				if !numeric {
					continue
				}
				switch {
				case f < b.lo:
					cells[i] = b.lo
					clamped++
				case f > b.hi:
					cells[i] = b.hi
					clamped++
				}
			}
			if clamped == 0 {
				continue
			}
			out, err = out.ReplaceColumn(finishNumericColumn(col, cells))
			if err != nil {
				return nil, nil, err
			}
			report.addCellsChanged(col.Name(), clamped)
		}
		report.RowsAffected = len(flaggedAny)

	default:
		return nil, nil, errors.Newf(errors.ErrorTypeInvalidParameter, "unknown outlier action %d", req.Action)
	}

	report.RowsAfter = out.RowCount()
	e.logger.Debug("outliers handled",
		zap.String("method", req.Method.String()),
		zap.String("action", req.Action.String()),
		zap.Int("rows_affected", report.RowsAffected))
	return out, report, nil
}

// outlierBounds computes the keep-range for one column's non-missing values
func outlierBounds(method OutlierMethod, threshold float64, vals []float64) bounds {
	switch method {
	case OutlierIQR:
		q1 := quantile(vals, 0.25)
		q3 := quantile(vals, 0.75)
		iqr := q3 - q1
		if iqr == 0 {
			return bounds{}
		}
		return bounds{lo: q1 - threshold*iqr, hi: q3 + threshold*iqr, ok: true}
	default:
		mu := mean(vals)
		sigma := popStdDev(vals)
		if sigma == 0 {
			return bounds{}
		}
		return bounds{lo: mu - threshold*sigma, hi: mu + threshold*sigma, ok: true}
	}
}
