// Package dataset provides the immutable tabular data model operated on by
// the preprocessing engine. A Dataset is an ordered collection of equally
// sized, uniquely named Columns; every transformation produces a new Dataset
// and leaves its input untouched.
package dataset

import (
	"github.com/strataprep/strata/pkg/errors"
)

// Type is the declared type of a column
type Type int

const (
	TypeString Type = iota
	TypeInteger
	TypeFloat
	TypeBoolean
	TypeTimestamp
	TypeCategorical
)

// String returns the canonical name of the type
func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeBoolean:
		return "boolean"
	case TypeTimestamp:
		return "timestamp"
	case TypeCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// ParseType parses a canonical type name
func ParseType(s string) (Type, error) {
	switch s {
	case "string":
		return TypeString, nil
	case "integer", "int":
		return TypeInteger, nil
	case "float", "double":
		return TypeFloat, nil
	case "boolean", "bool":
		return TypeBoolean, nil
	case "timestamp", "datetime":
		return TypeTimestamp, nil
	case "categorical", "category":
		return TypeCategorical, nil
	default:
		return TypeString, errors.Newf(errors.ErrorTypeInvalidParameter, "unknown column type %q", s)
	}
}

// IsNumeric reports whether columns of this type participate in numeric
// operations (normalization, mean/median fills, outlier detection).
func (t Type) IsNumeric() bool {
	return t == TypeInteger || t == TypeFloat
}
