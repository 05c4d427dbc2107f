package preprocess

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataprep/strata/pkg/dataset"
	"github.com/strataprep/strata/pkg/errors"
)

func TestConvertStrictFailure(t *testing.T) {
	e := newTestEngine()
	d := dataset.MustNew(
		dataset.MustNewColumn("n", dataset.TypeString, []interface{}{"1", "2", "x"}),
	)

	_, _, err := e.ConvertTypes(d, ConvertTypesRequest{
		Types: map[string]dataset.Type{"n": dataset.TypeInteger},
		Mode:  ModeStrict,
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValueConversion))

	var perr *errors.Error
	require.ErrorAs(t, err, &perr)
	colName, ok := perr.Column()
	require.True(t, ok)
	assert.Equal(t, "n", colName)
	rows, ok := perr.Rows()
	require.True(t, ok)
	assert.Equal(t, []int{2}, rows)

	// Atomicity: the input column keeps its type.
	col, _ := d.Column("n")
	assert.Equal(t, dataset.TypeString, col.DType())
}

func TestConvertCoerce(t *testing.T) {
	e := newTestEngine()
	d := dataset.MustNew(
		dataset.MustNewColumn("n", dataset.TypeString, []interface{}{"1", "2", "x"}),
	)

	out, report, err := e.ConvertTypes(d, ConvertTypesRequest{
		Types: map[string]dataset.Type{"n": dataset.TypeInteger},
		Mode:  ModeCoerce,
	})
	require.NoError(t, err)

	col, _ := out.Column("n")
	assert.Equal(t, dataset.TypeInteger, col.DType())
	assert.Equal(t, int64(1), col.Value(0))
	assert.Equal(t, int64(2), col.Value(1))
	assert.True(t, col.IsMissing(2))
	assert.Equal(t, 1, report.Coerced["n"])
	require.Len(t, report.Warnings, 1)
}

func TestConvertFloatToIntegerTruncates(t *testing.T) {
	e := newTestEngine()
	d := dataset.MustNew(
		dataset.MustNewColumn("x", dataset.TypeFloat, []interface{}{1.9, -2.7, nil}),
	)

	out, _, err := e.ConvertTypes(d, ConvertTypesRequest{
		Types: map[string]dataset.Type{"x": dataset.TypeInteger},
	})
	require.NoError(t, err)
	col, _ := out.Column("x")
	assert.Equal(t, int64(1), col.Value(0))
	assert.Equal(t, int64(-2), col.Value(1))
	assert.True(t, col.IsMissing(2))
}

func TestConvertToBoolean(t *testing.T) {
	e := newTestEngine()
	d := dataset.MustNew(
		dataset.MustNewColumn("flag", dataset.TypeString, []interface{}{"true", "no", "1", "0"}),
	)

	out, _, err := e.ConvertTypes(d, ConvertTypesRequest{
		Types: map[string]dataset.Type{"flag": dataset.TypeBoolean},
	})
	require.NoError(t, err)
	col, _ := out.Column("flag")
	assert.Equal(t, []interface{}{true, false, true, false}, col.Values())
}

func TestConvertToTimestamp(t *testing.T) {
	e := newTestEngine()
	d := dataset.MustNew(
		dataset.MustNewColumn("ts", dataset.TypeString, []interface{}{"2024-01-02", nil}),
	)

	out, _, err := e.ConvertTypes(d, ConvertTypesRequest{
		Types: map[string]dataset.Type{"ts": dataset.TypeTimestamp},
	})
	require.NoError(t, err)
	col, _ := out.Column("ts")
	ts, ok := col.Value(0).(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2024, ts.Year())
	assert.True(t, col.IsMissing(1))
}

func TestConvertToStringRoundTrips(t *testing.T) {
	e := newTestEngine()
	d := dataset.MustNew(
		dataset.MustNewColumn("n", dataset.TypeFloat, []interface{}{1.5, nil}),
		dataset.MustNewColumn("b", dataset.TypeBoolean, []interface{}{true, false}),
	)

	out, _, err := e.ConvertTypes(d, ConvertTypesRequest{
		Types: map[string]dataset.Type{
			"n": dataset.TypeString,
			"b": dataset.TypeString,
		},
	})
	require.NoError(t, err)
	n, _ := out.Column("n")
	assert.Equal(t, "1.5", n.Value(0))
	assert.True(t, n.IsMissing(1))
	b, _ := out.Column("b")
	assert.Equal(t, "true", b.Value(0))
}

func TestConvertSameTypeIsNoop(t *testing.T) {
	e := newTestEngine()
	d := dataset.MustNew(
		dataset.MustNewColumn("n", dataset.TypeInteger, []interface{}{1, 2}),
	)

	out, report, err := e.ConvertTypes(d, ConvertTypesRequest{
		Types: map[string]dataset.Type{"n": dataset.TypeInteger},
	})
	require.NoError(t, err)
	assert.Empty(t, report.CellsChanged)
	col, _ := out.Column("n")
	assert.Equal(t, []interface{}{int64(1), int64(2)}, col.Values())
}

func TestConvertValidation(t *testing.T) {
	e := newTestEngine()
	d := dataset.MustNew(
		dataset.MustNewColumn("n", dataset.TypeInteger, []interface{}{1}),
	)

	_, _, err := e.ConvertTypes(d, ConvertTypesRequest{})
	assert.True(t, errors.IsType(err, errors.ErrorTypeEmptySelection))

	_, _, err = e.ConvertTypes(d, ConvertTypesRequest{
		Types: map[string]dataset.Type{"ghost": dataset.TypeFloat},
	})
	assert.True(t, errors.IsType(err, errors.ErrorTypeColumnNotFound))
}
