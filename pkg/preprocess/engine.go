package preprocess

import (
	"go.uber.org/zap"

	"github.com/strataprep/strata/pkg/dataset"
	"github.com/strataprep/strata/pkg/errors"
)

// Engine is the preprocessing façade. It validates operation requests,
// dispatches to the matching handler and returns a new dataset plus a
// report. It never mutates its input and keeps no state between calls, so
// a single Engine is safe for concurrent use.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates an engine. A nil logger disables engine logging.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger}
}

// Request is the generic operation request record consumed by Apply. The
// set of meaningful fields depends on Kind; Apply validates that the
// required ones are present before dispatching.
type Request struct {
	Kind    Kind     `yaml:"kind" json:"kind"`
	Columns []string `yaml:"columns,omitempty" json:"columns,omitempty"`

	// missing_values
	Strategy  string      `yaml:"strategy,omitempty" json:"strategy,omitempty"`
	FillValue interface{} `yaml:"fill_value,omitempty" json:"fill_value,omitempty"`

	// type_conversion
	Types map[string]string `yaml:"types,omitempty" json:"types,omitempty"`
	Mode  string            `yaml:"mode,omitempty" json:"mode,omitempty"`

	// normalization and outlier_handling
	Method    string  `yaml:"method,omitempty" json:"method,omitempty"`
	Action    string  `yaml:"action,omitempty" json:"action,omitempty"`
	Threshold float64 `yaml:"threshold,omitempty" json:"threshold,omitempty"`

	// row_filter
	Expression string `yaml:"expression,omitempty" json:"expression,omitempty"`

	// row_sample
	N        int     `yaml:"n,omitempty" json:"n,omitempty"`
	Fraction float64 `yaml:"fraction,omitempty" json:"fraction,omitempty"`
	Seed     int64   `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// Apply validates a generic request and dispatches it to the matching
// handler. Each call is a single, independently atomic transformation.
func (e *Engine) Apply(d *dataset.Dataset, req Request) (*dataset.Dataset, *Report, error) {
	switch req.Kind {
	case KindMissingValues:
		strategy, err := ParseMissingStrategy(req.Strategy)
		if err != nil {
			return nil, nil, err
		}
		return e.HandleMissingValues(d, MissingValuesRequest{
			Strategy:  strategy,
			Columns:   req.Columns,
			FillValue: req.FillValue,
		})
	case KindTypeConversion:
		types := make(map[string]dataset.Type, len(req.Types))
		for col, name := range req.Types {
			t, err := dataset.ParseType(name)
			if err != nil {
				return nil, nil, err
			}
			types[col] = t
		}
		mode := ModeStrict
		if req.Mode != "" {
			var err error
			mode, err = ParseConversionMode(req.Mode)
			if err != nil {
				return nil, nil, err
			}
		}
		return e.ConvertTypes(d, ConvertTypesRequest{Types: types, Mode: mode})
	case KindNormalization:
		method, err := ParseNormMethod(req.Method)
		if err != nil {
			return nil, nil, err
		}
		return e.Normalize(d, NormalizeRequest{Method: method, Columns: req.Columns})
	case KindOutlierHandling:
		method, err := ParseOutlierMethod(req.Method)
		if err != nil {
			return nil, nil, err
		}
		action, err := ParseOutlierAction(req.Action)
		if err != nil {
			return nil, nil, err
		}
		return e.HandleOutliers(d, OutliersRequest{
			Method:    method,
			Action:    action,
			Threshold: req.Threshold,
			Columns:   req.Columns,
		})
	case KindRowFilter:
		return e.FilterRows(d, req.Expression)
	case KindRowSample:
		return e.SampleRows(d, SampleRequest{N: req.N, Fraction: req.Fraction, Seed: req.Seed})
	default:
		return nil, nil, errors.Newf(errors.ErrorTypeInvalidParameter, "unknown operation kind %q", req.Kind)
	}
}

// targets resolves the requested column names, rejecting empty selections
// and unknown names before any handler runs.
func (e *Engine) targets(d *dataset.Dataset, columns []string) ([]*dataset.Column, error) {
	if len(columns) == 0 {
		return nil, errors.New(errors.ErrorTypeEmptySelection, "at least one target column is required")
	}
	cols := make([]*dataset.Column, len(columns))
	for i, name := range columns {
		col, ok := d.Column(name)
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeColumnNotFound, "column %q not found", name).WithColumn(name)
		}
		cols[i] = col
	}
	return cols, nil
}

// numericTargets is targets plus a numeric type check on every column
func (e *Engine) numericTargets(d *dataset.Dataset, columns []string) ([]*dataset.Column, error) {
	cols, err := e.targets(d, columns)
	if err != nil {
		return nil, err
	}
	for _, col := range cols {
		if !col.DType().IsNumeric() {
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
				"column %q has type %s, numeric required", col.Name(), col.DType()).WithColumn(col.Name())
		}
	}
	return cols, nil
}

// finishNumericColumn builds the result column for a numeric rewrite.
// cells may mix the column's original cell representation with float64
// replacements. An integer column keeps its type when every replacement is
// integral; otherwise the whole column is promoted to float, mirroring how
// fractional fills widen an integer series.
func finishNumericColumn(col *dataset.Column, cells []interface{}) *dataset.Column {
	if col.DType() != dataset.TypeInteger {
		return dataset.Derived(col.Name(), col.DType(), cells)
	}

	integral := true
	for _, v := range cells {
		if f, ok := v.(float64); ok && !isIntegral(f) {
			integral = false
			break
		}
	}

	out := make([]interface{}, len(cells))
	if integral {
		for i, v := range cells {
			if f, ok := v.(float64); ok {
				out[i] = int64(f)
			} else {
				out[i] = v
			}
		}
		return dataset.Derived(col.Name(), dataset.TypeInteger, out)
	}
	for i, v := range cells {
		switch n := v.(type) {
		case int64:
			out[i] = float64(n)
		case float64:
			out[i] = n
		}
	}
	return dataset.Derived(col.Name(), dataset.TypeFloat, out)
}
