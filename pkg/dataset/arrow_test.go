package dataset

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToArrow(t *testing.T) {
	d := MustNew(
		MustNewColumn("age", TypeInteger, []interface{}{25, nil, 40}),
		MustNewColumn("score", TypeFloat, []interface{}{80.5, 95.0, nil}),
		MustNewColumn("name", TypeString, []interface{}{"ann", "bob", "cat"}),
	)

	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	rec, err := ToArrow(d, mem)
	require.NoError(t, err)
	defer rec.Release()

	assert.Equal(t, int64(3), rec.NumRows())
	assert.Equal(t, int64(3), rec.NumCols())
	assert.Equal(t, "age", rec.Schema().Field(0).Name)

	ages := rec.Column(0).(*array.Int64)
	assert.Equal(t, int64(25), ages.Value(0))
	assert.True(t, ages.IsNull(1))
	assert.Equal(t, int64(40), ages.Value(2))

	scores := rec.Column(1).(*array.Float64)
	assert.Equal(t, 80.5, scores.Value(0))
	assert.True(t, scores.IsNull(2))

	names := rec.Column(2).(*array.String)
	assert.Equal(t, "bob", names.Value(1))
}
