package preprocess

import (
	"go.uber.org/zap"

	"github.com/strataprep/strata/pkg/dataset"
	"github.com/strataprep/strata/pkg/errors"
)

// NormMethod selects a normalization method
type NormMethod int

const (
	NormMinMax NormMethod = iota
	NormZScore
	NormRobust
	NormMaxAbs
)

// String returns the canonical method name
func (m NormMethod) String() string {
	switch m {
	case NormMinMax:
		return "min_max"
	case NormZScore:
		return "z_score"
	case NormRobust:
		return "robust"
	case NormMaxAbs:
		return "max_abs"
	default:
		return "unknown"
	}
}

// ParseNormMethod parses a canonical method name
func ParseNormMethod(s string) (NormMethod, error) {
	switch s {
	case "min_max":
		return NormMinMax, nil
	case "z_score", "standard":
		return NormZScore, nil
	case "robust":
		return NormRobust, nil
	case "max_abs":
		return NormMaxAbs, nil
	default:
		return 0, errors.Newf(errors.ErrorTypeInvalidParameter, "unknown normalization method %q", s)
	}
}

// NormalizeRequest parameterizes a normalization operation
type NormalizeRequest struct {
	Method  NormMethod
	Columns []string
}

// Normalize rescales the target numeric columns. Missing cells are excluded
// from the statistics and stay missing in the result. The report records
// the per-column parameters needed for a later inverse transform. Result
// columns are always float typed.
func (e *Engine) Normalize(d *dataset.Dataset, req NormalizeRequest) (*dataset.Dataset, *Report, error) {
	cols, err := e.numericTargets(d, req.Columns)
	if err != nil {
		return nil, nil, err
	}

	report := newReport(KindNormalization, d.RowCount())
	out := d
	for _, col := range cols {
		vals, _ := col.Floats()
		if len(vals) == 0 {
			report.warnf("column %q has no numeric values to normalize", col.Name())
			continue
		}

		transform, params, warning := normTransform(req.Method, vals)
		if warning != "" {
			report.warnf("column %q: %s", col.Name(), warning)
		}
		report.addNormParams(col.Name(), params)

		cells := make([]interface{}, col.Len())
		changed := 0
		for i := 0; i < col.Len(); i++ {
			if f, ok := col.Float(i); ok {
				cells[i] = transform(f)
				changed++
			}
		}
		out, err = out.ReplaceColumn(dataset.Derived(col.Name(), dataset.TypeFloat, cells))
		if err != nil {
			return nil, nil, err
		}
		report.addCellsChanged(col.Name(), changed)
	}
	report.RowsAffected = d.RowCount()

	e.logger.Debug("columns normalized",
		zap.String("method", req.Method.String()),
		zap.Int("columns", len(cols)))
	return out, report, nil
}

// normTransform builds the per-value transform for a method over the
// non-missing values, together with the inverse-transform parameters and a
// warning when a degenerate spread forces constant zero output.
func normTransform(method NormMethod, vals []float64) (func(float64) float64, NormParams, string) {
	switch method {
	case NormMinMax:
		lo, hi := vals[0], vals[0]
		for _, v := range vals {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		params := NormParams{Method: "min_max", Min: lo, Max: hi}
		if hi == lo {
			return zeroTransform, params, "constant column, min_max output set to 0"
		}
		return func(x float64) float64 { return (x - lo) / (hi - lo) }, params, ""

	case NormZScore:
		mu := mean(vals)
		sigma := popStdDev(vals)
		params := NormParams{Method: "z_score", Mean: mu, Std: sigma}
		if sigma == 0 {
			return zeroTransform, params, "zero standard deviation, z_score output set to 0"
		}
		return func(x float64) float64 { return (x - mu) / sigma }, params, ""

	case NormRobust:
		med := median(vals)
		q1 := quantile(vals, 0.25)
		q3 := quantile(vals, 0.75)
		iqr := q3 - q1
		params := NormParams{Method: "robust", Median: med, Q1: q1, Q3: q3, IQR: iqr}
		if iqr == 0 {
			return zeroTransform, params, "zero interquartile range, robust output set to 0"
		}
		return func(x float64) float64 { return (x - med) / iqr }, params, ""

	default: // NormMaxAbs
		scale := maxAbs(vals)
		params := NormParams{Method: "max_abs", MaxAbs: scale}
		if scale == 0 {
			return zeroTransform, params, ""
		}
		return func(x float64) float64 { return x / scale }, params, ""
	}
}

func zeroTransform(float64) float64 { return 0 }
