package preprocess

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/strataprep/strata/pkg/dataset"
	"github.com/strataprep/strata/pkg/errors"
)

// ConversionMode governs per-value parse failures during type conversion
type ConversionMode int

const (
	// ModeStrict fails the whole call on the first unparsable value
	ModeStrict ConversionMode = iota
	// ModeCoerce turns unparsable values into missing cells
	ModeCoerce
)

// maxReportedFailures bounds the offending row sample carried by a
// strict-mode conversion error.
const maxReportedFailures = 10

// String returns the canonical mode name
func (m ConversionMode) String() string {
	if m == ModeCoerce {
		return "coerce"
	}
	return "strict"
}

// ParseConversionMode parses a canonical mode name
func ParseConversionMode(s string) (ConversionMode, error) {
	switch s {
	case "strict":
		return ModeStrict, nil
	case "coerce":
		return ModeCoerce, nil
	default:
		return 0, errors.Newf(errors.ErrorTypeInvalidParameter, "unknown conversion mode %q", s)
	}
}

// ConvertTypesRequest parameterizes a type conversion operation
type ConvertTypesRequest struct {
	Types map[string]dataset.Type
	Mode  ConversionMode
}

// ConvertTypes converts each listed column to its target declared type.
// Columns are converted independently; the call is atomic, so a strict-mode
// failure in any column returns the input unchanged.
func (e *Engine) ConvertTypes(d *dataset.Dataset, req ConvertTypesRequest) (*dataset.Dataset, *Report, error) {
	if len(req.Types) == 0 {
		return nil, nil, errors.New(errors.ErrorTypeEmptySelection, "at least one target column is required")
	}

	names := make([]string, 0, len(req.Types))
	for name := range req.Types {
		if !d.HasColumn(name) {
			return nil, nil, errors.Newf(errors.ErrorTypeColumnNotFound, "column %q not found", name).WithColumn(name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	report := newReport(KindTypeConversion, d.RowCount())
	out := d
	for _, name := range names {
		col, _ := d.Column(name)
		target := req.Types[name]
		if col.DType() == target {
			continue
		}

		converted, coerced, err := convertColumn(col, target, req.Mode)
		if err != nil {
			return nil, nil, err
		}
		out, err = out.ReplaceColumn(converted)
		if err != nil {
			return nil, nil, err
		}
		report.addCellsChanged(name, col.Len()-col.MissingCount())
		report.addCoerced(name, coerced)
		if coerced > 0 {
			report.warnf("column %q: %d values could not be parsed as %s and are now missing", name, coerced, target)
		}
	}

	e.logger.Debug("types converted",
		zap.Int("columns", len(names)),
		zap.String("mode", req.Mode.String()))
	return out, report, nil
}

// convertColumn converts a single column, returning the new column and the
// number of cells coerced to missing.
func convertColumn(col *dataset.Column, target dataset.Type, mode ConversionMode) (*dataset.Column, int, error) {
	cells := make([]interface{}, col.Len())
	coerced := 0
	var failed []int

	for i := 0; i < col.Len(); i++ {
		v := col.Value(i)
		if v == nil {
			continue
		}
		cell, ok := convertCell(v, target)
		if ok {
			cells[i] = cell
			continue
		}
		if mode == ModeCoerce {
			coerced++
			continue
		}
		if len(failed) < maxReportedFailures {
			failed = append(failed, i)
		}
	}

	if len(failed) > 0 {
		return nil, 0, errors.Newf(errors.ErrorTypeValueConversion,
			"column %q has values that cannot be converted to %s", col.Name(), target).
			WithColumn(col.Name()).WithRows(failed)
	}
	return dataset.Derived(col.Name(), target, cells), coerced, nil
}

// convertCell converts one canonical cell to the target type's canonical
// representation. It reports false when the value cannot be represented.
func convertCell(v interface{}, target dataset.Type) (interface{}, bool) {
	switch target {
	case dataset.TypeString, dataset.TypeCategorical:
		return cellToString(v), true

	case dataset.TypeInteger:
		switch n := v.(type) {
		case int64:
			return n, true
		case float64:
			// Fractional parts truncate toward zero, as a numeric cast does.
			return int64(n), true
		case bool:
			if n {
				return int64(1), true
			}
			return int64(0), true
		case string:
			if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
				return i, true
			}
			return nil, false
		case time.Time:
			return n.Unix(), true
		}

	case dataset.TypeFloat:
		switch n := v.(type) {
		case int64:
			return float64(n), true
		case float64:
			return n, true
		case bool:
			if n {
				return 1.0, true
			}
			return 0.0, true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
				return f, true
			}
			return nil, false
		case time.Time:
			return float64(n.Unix()), true
		}

	case dataset.TypeBoolean:
		switch n := v.(type) {
		case bool:
			return n, true
		case int64:
			return n != 0, true
		case float64:
			return n != 0, true
		case string:
			if b, ok := dataset.ParseBool(n); ok {
				return b, true
			}
			return nil, false
		}

	case dataset.TypeTimestamp:
		switch n := v.(type) {
		case time.Time:
			return n, true
		case int64:
			return time.Unix(n, 0).UTC(), true
		case string:
			if ts, ok := dataset.ParseTimestamp(strings.TrimSpace(n)); ok {
				return ts, true
			}
			return nil, false
		}
	}
	return nil, false
}

// cellToString renders a cell in its canonical textual form
func cellToString(v interface{}) string {
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
		return ""
	}
}
