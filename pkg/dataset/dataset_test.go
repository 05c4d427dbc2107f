package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataprep/strata/pkg/errors"
)

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	age := MustNewColumn("age", TypeInteger, []interface{}{25, nil, 30, 40})
	score := MustNewColumn("score", TypeFloat, []interface{}{80.5, 95.0, nil, 70.25})
	name := MustNewColumn("name", TypeString, []interface{}{"ann", "bob", "cat", nil})
	return MustNew(age, score, name)
}

func TestNewColumnValidation(t *testing.T) {
	_, err := NewColumn("age", TypeInteger, []interface{}{1, "two", 3})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))

	col, err := NewColumn("age", TypeInteger, []interface{}{1, int64(2), nil})
	require.NoError(t, err)
	assert.Equal(t, int64(1), col.Value(0))
	assert.Equal(t, int64(2), col.Value(1))
	assert.True(t, col.IsMissing(2))
}

func TestNaNBecomesMissing(t *testing.T) {
	col, err := NewColumn("x", TypeFloat, []interface{}{1.0, math.NaN(), 3.0})
	require.NoError(t, err)
	assert.True(t, col.IsMissing(1))
	assert.Equal(t, 1, col.MissingCount())
}

func TestNewDatasetInvariants(t *testing.T) {
	a := MustNewColumn("a", TypeInteger, []interface{}{1, 2})
	short := MustNewColumn("b", TypeInteger, []interface{}{1})
	_, err := New(a, short)
	require.Error(t, err)

	dup := MustNewColumn("a", TypeFloat, []interface{}{1.0, 2.0})
	_, err = New(a, dup)
	require.Error(t, err)
}

func TestColumnAccessors(t *testing.T) {
	d := testDataset(t)
	assert.Equal(t, 4, d.RowCount())
	assert.Equal(t, 3, d.ColumnCount())
	assert.Equal(t, []string{"age", "score", "name"}, d.ColumnNames())

	col, ok := d.Column("age")
	require.True(t, ok)
	f, ok := col.Float(0)
	require.True(t, ok)
	assert.Equal(t, 25.0, f)
	_, ok = col.Float(1)
	assert.False(t, ok)

	vals, idx := col.Floats()
	assert.Equal(t, []float64{25, 30, 40}, vals)
	assert.Equal(t, []int{0, 2, 3}, idx)
}

func TestSelectRowsPreservesOrderAndInput(t *testing.T) {
	d := testDataset(t)
	out := d.SelectRows([]int{3, 0})

	assert.Equal(t, 2, out.RowCount())
	col, _ := out.Column("age")
	assert.Equal(t, int64(40), col.Value(0))
	assert.Equal(t, int64(25), col.Value(1))

	// Original untouched.
	assert.Equal(t, 4, d.RowCount())
}

func TestReplaceColumn(t *testing.T) {
	d := testDataset(t)
	repl := MustNewColumn("age", TypeFloat, []interface{}{1.0, 2.0, 3.0, 4.0})
	out, err := d.ReplaceColumn(repl)
	require.NoError(t, err)

	col, _ := out.Column("age")
	assert.Equal(t, TypeFloat, col.DType())
	orig, _ := d.Column("age")
	assert.Equal(t, TypeInteger, orig.DType())

	_, err = d.ReplaceColumn(MustNewColumn("ghost", TypeFloat, []interface{}{1.0, 2.0, 3.0, 4.0}))
	assert.True(t, errors.IsType(err, errors.ErrorTypeColumnNotFound))
}

func TestDropColumns(t *testing.T) {
	d := testDataset(t)
	out := d.DropColumns("score", "ghost")
	assert.Equal(t, []string{"age", "name"}, out.ColumnNames())
	assert.Equal(t, 3, d.ColumnCount())
}

func TestRow(t *testing.T) {
	d := testDataset(t)
	row := d.Row(1)
	assert.Nil(t, row["age"])
	assert.Equal(t, 95.0, row["score"])
	assert.Equal(t, "bob", row["name"])
}

func TestSummary(t *testing.T) {
	d := testDataset(t)
	s := d.Summary()
	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, 3, s.Columns)
	assert.Equal(t, 3, s.MissingCells)
	assert.Equal(t, 1, s.MissingByColumn["age"])
	assert.Equal(t, []string{"age", "score"}, s.NumericColumns)
	assert.Equal(t, []string{"name"}, s.CategoricalColumns)
	assert.Equal(t, "integer", s.Types["age"])
}
