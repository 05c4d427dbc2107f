package filterexpr

import (
	"time"

	"github.com/strataprep/strata/pkg/dataset"
	"github.com/strataprep/strata/pkg/errors"
)

// Evaluate parses an expression and evaluates it against a dataset,
// returning one boolean per row. Rows whose cells are missing in a
// compared column never match.
func Evaluate(d *dataset.Dataset, input string) ([]bool, error) {
	expr, err := Parse(input)
	if err != nil {
		return nil, err
	}
	return EvalExpr(d, expr)
}

// EvalExpr evaluates a parsed expression against a dataset
func EvalExpr(d *dataset.Dataset, expr Expr) ([]bool, error) {
	ev := &evaluator{d: d}
	return ev.mask(expr)
}

type evaluator struct {
	d *dataset.Dataset
}

// mask evaluates a boolean subexpression to a per-row mask
func (ev *evaluator) mask(expr Expr) ([]bool, error) {
	switch node := expr.(type) {
	case *LogicalExpr:
		left, err := ev.mask(node.Left)
		if err != nil {
			return nil, err
		}
		right, err := ev.mask(node.Right)
		if err != nil {
			return nil, err
		}
		out := make([]bool, len(left))
		for i := range left {
			if node.Op == "and" {
				out[i] = left[i] && right[i]
			} else {
				out[i] = left[i] || right[i]
			}
		}
		return out, nil

	case *NotExpr:
		inner, err := ev.mask(node.X)
		if err != nil {
			return nil, err
		}
		out := make([]bool, len(inner))
		for i := range inner {
			out[i] = !inner[i]
		}
		return out, nil

	case *CompareExpr:
		return ev.compare(node)

	case *Ident:
		// A bare identifier is usable as a mask when the column is boolean.
		col, err := ev.column(node.Name)
		if err != nil {
			return nil, err
		}
		if col.DType() != dataset.TypeBoolean {
			return nil, errors.Newf(errors.ErrorTypeTypeMismatch,
				"column %q is not boolean and cannot be used as a condition", node.Name).WithColumn(node.Name)
		}
		out := make([]bool, col.Len())
		for i := 0; i < col.Len(); i++ {
			if b, ok := col.Value(i).(bool); ok {
				out[i] = b
			}
		}
		return out, nil

	case *BoolLit:
		out := make([]bool, ev.d.RowCount())
		for i := range out {
			out[i] = node.Value
		}
		return out, nil

	default:
		return nil, errors.New(errors.ErrorTypeInvalidParameter,
			"expression does not evaluate to a condition")
	}
}

func (ev *evaluator) column(name string) (*dataset.Column, error) {
	col, ok := ev.d.Column(name)
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeUnknownIdentifier,
			"identifier %q is not a column", name).WithColumn(name)
	}
	return col, nil
}

// operand is either a column or a literal scalar
type operand struct {
	col     *dataset.Column
	literal interface{} // float64, string or bool when col is nil
}

func (ev *evaluator) operand(expr Expr) (operand, error) {
	switch node := expr.(type) {
	case *Ident:
		col, err := ev.column(node.Name)
		if err != nil {
			return operand{}, err
		}
		return operand{col: col}, nil
	case *NumberLit:
		return operand{literal: node.Value}, nil
	case *StringLit:
		return operand{literal: node.Value}, nil
	case *BoolLit:
		return operand{literal: node.Value}, nil
	default:
		return operand{}, errors.New(errors.ErrorTypeInvalidParameter,
			"comparison operands must be column names or literals")
	}
}

// compare evaluates a comparison to a per-row mask
func (ev *evaluator) compare(node *CompareExpr) ([]bool, error) {
	left, err := ev.operand(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := ev.operand(node.Right)
	if err != nil {
		return nil, err
	}

	if err := checkComparable(node.Op, left, right); err != nil {
		return nil, decorate(err, left, right)
	}

	rows := ev.d.RowCount()
	out := make([]bool, rows)
	for i := 0; i < rows; i++ {
		lv := left.value(i)
		rv := right.value(i)
		if lv == nil || rv == nil {
			continue // missing never matches
		}
		match, err := compareValues(node.Op, lv, rv)
		if err != nil {
			return nil, decorate(err, left, right)
		}
		out[i] = match
	}
	return out, nil
}

// kind buckets an operand for static compatibility checking
func (o operand) kind() string {
	if o.col != nil {
		switch o.col.DType() {
		case dataset.TypeInteger, dataset.TypeFloat:
			return "number"
		case dataset.TypeBoolean:
			return "boolean"
		case dataset.TypeTimestamp:
			return "timestamp"
		default:
			return "string"
		}
	}
	switch o.literal.(type) {
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return "string"
	}
}

// checkComparable rejects comparisons whose operand types can never match,
// so a mismatch fails even when every compared cell is missing.
func checkComparable(op string, left, right operand) error {
	lk, rk := left.kind(), right.kind()
	compatible := lk == rk ||
		(lk == "timestamp" && rk == "string") ||
		(lk == "string" && rk == "timestamp")
	if !compatible {
		return errors.Newf(errors.ErrorTypeTypeMismatch,
			"cannot compare %s with %s", lk, rk)
	}
	if lk == "boolean" && op != "==" && op != "!=" {
		return errors.Newf(errors.ErrorTypeTypeMismatch,
			"operator %q is not defined for booleans", op)
	}
	return nil
}

func (o operand) value(row int) interface{} {
	if o.col != nil {
		return o.col.Value(row)
	}
	return o.literal
}

// decorate attaches the compared column name to a type mismatch
func decorate(err error, left, right operand) error {
	e, ok := err.(*errors.Error)
	if !ok {
		return err
	}
	if left.col != nil {
		return e.WithColumn(left.col.Name())
	}
	if right.col != nil {
		return e.WithColumn(right.col.Name())
	}
	return e
}

// compareValues compares two non-missing cell values. Numeric cells compare
// as floats, strings lexicographically, booleans and timestamps with the
// operators that make sense for them.
func compareValues(op string, a, b interface{}) (bool, error) {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return compareFloats(op, af, bf), nil
		}
		return false, errors.Newf(errors.ErrorTypeTypeMismatch,
			"cannot compare a number with %T", b)
	}

	switch av := a.(type) {
	case string:
		if bt, ok := b.(time.Time); ok {
			at, err := toTime(av)
			if err != nil {
				return false, err
			}
			return compareFloats(op, float64(at.UnixNano()), float64(bt.UnixNano())), nil
		}
		bv, ok := b.(string)
		if !ok {
			return false, errors.Newf(errors.ErrorTypeTypeMismatch,
				"cannot compare a string with %T", b)
		}
		return compareStrings(op, av, bv), nil

	case bool:
		bv, ok := b.(bool)
		if !ok {
			return false, errors.Newf(errors.ErrorTypeTypeMismatch,
				"cannot compare a boolean with %T", b)
		}
		switch op {
		case "==":
			return av == bv, nil
		case "!=":
			return av != bv, nil
		default:
			return false, errors.Newf(errors.ErrorTypeTypeMismatch,
				"operator %q is not defined for booleans", op)
		}

	case time.Time:
		bv, err := toTime(b)
		if err != nil {
			return false, err
		}
		return compareFloats(op, float64(av.UnixNano()), float64(bv.UnixNano())), nil

	default:
		return false, errors.Newf(errors.ErrorTypeTypeMismatch, "unsupported operand type %T", a)
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// toTime accepts timestamp cells and string literals in a supported layout
func toTime(v interface{}) (time.Time, error) {
	switch n := v.(type) {
	case time.Time:
		return n, nil
	case string:
		if ts, ok := dataset.ParseTimestamp(n); ok {
			return ts, nil
		}
		return time.Time{}, errors.Newf(errors.ErrorTypeTypeMismatch,
			"%q is not a valid timestamp literal", n)
	default:
		return time.Time{}, errors.Newf(errors.ErrorTypeTypeMismatch,
			"cannot compare a timestamp with %T", v)
	}
}

func compareFloats(op string, a, b float64) bool {
	switch op {
	case ">":
		return a > b
	case ">=":
		return a >= b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case "==":
		return a == b
	case "!=":
		return a != b
	default:
		return false
	}
}

func compareStrings(op, a, b string) bool {
	switch op {
	case ">":
		return a > b
	case ">=":
		return a >= b
	case "<":
		return a < b
	case "<=":
		return a <= b
	case "==":
		return a == b
	case "!=":
		return a != b
	default:
		return false
	}
}
