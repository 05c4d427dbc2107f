package dataset

import (
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/strataprep/strata/pkg/errors"
)

// arrowType maps a declared type to its Arrow equivalent. Categorical
// columns travel as plain strings; dictionary encoding is the consumer's
// concern.
func arrowType(t Type) arrow.DataType {
	switch t {
	case TypeInteger:
		return arrow.PrimitiveTypes.Int64
	case TypeFloat:
		return arrow.PrimitiveTypes.Float64
	case TypeBoolean:
		return arrow.FixedWidthTypes.Boolean
	case TypeTimestamp:
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}
	default:
		return arrow.BinaryTypes.String
	}
}

// ToArrow converts the dataset to an Arrow record batch for downstream
// analysis and visualization collaborators. Missing cells become Arrow
// nulls. The caller owns the returned record and must Release it.
func ToArrow(d *Dataset, mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	fields := make([]arrow.Field, d.ColumnCount())
	arrays := make([]arrow.Array, 0, d.ColumnCount())
	release := func() {
		for _, a := range arrays {
			a.Release()
		}
	}

	for i, col := range d.Columns() {
		fields[i] = arrow.Field{Name: col.Name(), Type: arrowType(col.DType()), Nullable: true}
		arr, err := buildArray(col, mem)
		if err != nil {
			release()
			return nil, err
		}
		arrays = append(arrays, arr)
	}

	schema := arrow.NewSchema(fields, nil)
	rec := array.NewRecord(schema, arrays, int64(d.RowCount()))
	release()
	return rec, nil
}

func buildArray(col *Column, mem memory.Allocator) (arrow.Array, error) {
	switch col.DType() {
	case TypeInteger:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		for i := 0; i < col.Len(); i++ {
			if v, ok := col.Value(i).(int64); ok {
				b.Append(v)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray(), nil
	case TypeFloat:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for i := 0; i < col.Len(); i++ {
			if v, ok := col.Value(i).(float64); ok {
				b.Append(v)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray(), nil
	case TypeBoolean:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for i := 0; i < col.Len(); i++ {
			if v, ok := col.Value(i).(bool); ok {
				b.Append(v)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray(), nil
	case TypeTimestamp:
		b := array.NewTimestampBuilder(mem, &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"})
		defer b.Release()
		for i := 0; i < col.Len(); i++ {
			if v, ok := col.Value(i).(time.Time); ok {
				b.Append(arrow.Timestamp(v.UnixMicro()))
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray(), nil
	case TypeString, TypeCategorical:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for i := 0; i < col.Len(); i++ {
			if v, ok := col.Value(i).(string); ok {
				b.Append(v)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray(), nil
	default:
		return nil, errors.Newf(errors.ErrorTypeInternal, "unsupported column type %s", col.DType())
	}
}
