package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/strataprep/strata/pkg/dataset"
	"github.com/strataprep/strata/pkg/errors"
)

func peopleDataset() *dataset.Dataset {
	return dataset.MustNew(
		dataset.MustNewColumn("age", dataset.TypeInteger, []interface{}{25, 30, 35, 40}),
		dataset.MustNewColumn("score", dataset.TypeFloat, []interface{}{95.0, 92.0, 88.0, 91.0}),
		dataset.MustNewColumn("name", dataset.TypeString, []interface{}{"ada", "bob", "cyd", "dee"}),
	)
}

func TestFilterRows(t *testing.T) {
	e := NewEngine(zaptest.NewLogger(t))
	d := peopleDataset()

	out, report, err := e.FilterRows(d, "age > 30 & score <= 90")
	require.NoError(t, err)

	require.Equal(t, 1, out.RowCount())
	assert.Equal(t, "cyd", mustCol(t, out, "name").Value(0))
	assert.Equal(t, 3, report.RowsAffected)
	assert.Equal(t, 4, d.RowCount())
}

func TestFilterRowsMissingNeverMatches(t *testing.T) {
	e := newTestEngine()
	d := dataset.MustNew(
		dataset.MustNewColumn("x", dataset.TypeFloat, []interface{}{1.0, nil, 3.0}),
	)

	out, _, err := e.FilterRows(d, "x < 100")
	require.NoError(t, err)
	assert.Equal(t, 2, out.RowCount())

	// The complement does not match the missing row either.
	out, _, err = e.FilterRows(d, "x >= 100")
	require.NoError(t, err)
	assert.Equal(t, 0, out.RowCount())
}

func TestFilterRowsErrors(t *testing.T) {
	e := newTestEngine()
	d := peopleDataset()

	_, _, err := e.FilterRows(d, "")
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidParameter))

	_, _, err = e.FilterRows(d, "ghost > 1")
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnknownIdentifier))

	_, _, err = e.FilterRows(d, "name > 30")
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
}

func TestApplyDispatch(t *testing.T) {
	e := newTestEngine()
	d := peopleDataset()

	out, report, err := e.Apply(d, Request{
		Kind:    KindNormalization,
		Method:  "min_max",
		Columns: []string{"score"},
	})
	require.NoError(t, err)
	assert.Equal(t, KindNormalization, report.Kind)
	assert.NotEmpty(t, report.OperationID)
	col := mustCol(t, out, "score")
	assert.Equal(t, dataset.TypeFloat, col.DType())

	out, _, err = e.Apply(d, Request{
		Kind:  KindTypeConversion,
		Types: map[string]string{"age": "string"},
	})
	require.NoError(t, err)
	assert.Equal(t, dataset.TypeString, mustCol(t, out, "age").DType())

	out, _, err = e.Apply(d, Request{Kind: KindRowFilter, Expression: "age >= 35"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.RowCount())

	out, _, err = e.Apply(d, Request{Kind: KindRowSample, N: 2, Seed: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, out.RowCount())
}

func TestApplyRejectsUnknowns(t *testing.T) {
	e := newTestEngine()
	d := peopleDataset()

	_, _, err := e.Apply(d, Request{Kind: "transmogrify"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidParameter))

	_, _, err = e.Apply(d, Request{Kind: KindMissingValues, Strategy: "wish_away", Columns: []string{"age"}})
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidParameter))

	_, _, err = e.Apply(d, Request{Kind: KindTypeConversion, Types: map[string]string{"age": "complex"}})
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidParameter))
}

func TestChainedOperationsLeaveInputsIntact(t *testing.T) {
	e := newTestEngine()
	d := dataset.MustNew(
		dataset.MustNewColumn("x", dataset.TypeFloat, []interface{}{1.0, nil, 3.0, 4.0, 100.0}),
	)

	filled, _, err := e.Apply(d, Request{Kind: KindMissingValues, Strategy: "fill_median", Columns: []string{"x"}})
	require.NoError(t, err)
	trimmed, _, err := e.Apply(filled, Request{
		Kind: KindOutlierHandling, Method: "zscore", Action: "remove", Threshold: 1.9, Columns: []string{"x"},
	})
	require.NoError(t, err)
	normalized, _, err := e.Apply(trimmed, Request{Kind: KindNormalization, Method: "min_max", Columns: []string{"x"}})
	require.NoError(t, err)

	assert.Equal(t, 4, normalized.RowCount())
	// Every intermediate stays what it was.
	assert.True(t, mustCol(t, d, "x").IsMissing(1))
	assert.False(t, mustCol(t, filled, "x").HasMissing())
	assert.Equal(t, 5, filled.RowCount())
}
