package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataprep/strata/pkg/dataset"
	"github.com/strataprep/strata/pkg/errors"
)

func floatsOf(t *testing.T, d *dataset.Dataset, name string) []float64 {
	t.Helper()
	col, ok := d.Column(name)
	require.True(t, ok)
	out := make([]float64, col.Len())
	for i := range out {
		f, ok := col.Float(i)
		require.True(t, ok, "row %d is missing", i)
		out[i] = f
	}
	return out
}

func TestNormalizeMinMax(t *testing.T) {
	e := newTestEngine()
	d := dataset.MustNew(
		dataset.MustNewColumn("x", dataset.TypeFloat, []interface{}{1.0, 2.0, 3.0, 4.0, 5.0}),
	)

	out, report, err := e.Normalize(d, NormalizeRequest{Method: NormMinMax, Columns: []string{"x"}})
	require.NoError(t, err)

	got := floatsOf(t, out, "x")
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9)
	}
	params := report.Normalization["x"]
	assert.Equal(t, 1.0, params.Min)
	assert.Equal(t, 5.0, params.Max)
}

func TestNormalizeConstantColumn(t *testing.T) {
	e := newTestEngine()
	d := dataset.MustNew(
		dataset.MustNewColumn("x", dataset.TypeFloat, []interface{}{7.0, 7.0, 7.0}),
	)

	out, report, err := e.Normalize(d, NormalizeRequest{Method: NormMinMax, Columns: []string{"x"}})
	require.NoError(t, err)

	for _, v := range floatsOf(t, out, "x") {
		assert.Zero(t, v)
	}
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "constant column")
}

func TestNormalizeZScore(t *testing.T) {
	e := newTestEngine()
	d := dataset.MustNew(
		dataset.MustNewColumn("x", dataset.TypeFloat, []interface{}{2.0, 4.0, 6.0}),
	)

	out, report, err := e.Normalize(d, NormalizeRequest{Method: NormZScore, Columns: []string{"x"}})
	require.NoError(t, err)

	got := floatsOf(t, out, "x")
	// mean 4, population std sqrt(8/3)
	assert.InDelta(t, 0.0, got[1], 1e-9)
	assert.InDelta(t, -got[0], got[2], 1e-9)
	assert.InDelta(t, 4.0, report.Normalization["x"].Mean, 1e-9)
}

func TestNormalizeRobust(t *testing.T) {
	e := newTestEngine()
	d := dataset.MustNew(
		dataset.MustNewColumn("x", dataset.TypeFloat, []interface{}{1.0, 2.0, 3.0, 4.0, 5.0}),
	)

	out, report, err := e.Normalize(d, NormalizeRequest{Method: NormRobust, Columns: []string{"x"}})
	require.NoError(t, err)

	got := floatsOf(t, out, "x")
	// median 3, q1 2, q3 4, iqr 2
	assert.InDelta(t, -1.0, got[0], 1e-9)
	assert.InDelta(t, 0.0, got[2], 1e-9)
	assert.InDelta(t, 1.0, got[4], 1e-9)
	assert.InDelta(t, 2.0, report.Normalization["x"].IQR, 1e-9)
}

func TestNormalizeMaxAbs(t *testing.T) {
	e := newTestEngine()
	d := dataset.MustNew(
		dataset.MustNewColumn("x", dataset.TypeFloat, []interface{}{-4.0, 2.0, 1.0}),
	)

	out, _, err := e.Normalize(d, NormalizeRequest{Method: NormMaxAbs, Columns: []string{"x"}})
	require.NoError(t, err)

	got := floatsOf(t, out, "x")
	assert.InDelta(t, -1.0, got[0], 1e-9)
	assert.InDelta(t, 0.5, got[1], 1e-9)
}

func TestNormalizePreservesMissing(t *testing.T) {
	e := newTestEngine()
	d := dataset.MustNew(
		dataset.MustNewColumn("x", dataset.TypeFloat, []interface{}{1.0, nil, 3.0}),
	)

	out, _, err := e.Normalize(d, NormalizeRequest{Method: NormMinMax, Columns: []string{"x"}})
	require.NoError(t, err)
	col, _ := out.Column("x")
	assert.True(t, col.IsMissing(1))
	f, _ := col.Float(2)
	assert.InDelta(t, 1.0, f, 1e-9)
}

func TestNormalizeIntegerColumnYieldsFloat(t *testing.T) {
	e := newTestEngine()
	d := dataset.MustNew(
		dataset.MustNewColumn("n", dataset.TypeInteger, []interface{}{1, 2, 3}),
	)

	out, _, err := e.Normalize(d, NormalizeRequest{Method: NormMinMax, Columns: []string{"n"}})
	require.NoError(t, err)
	col, _ := out.Column("n")
	assert.Equal(t, dataset.TypeFloat, col.DType())
}

func TestNormalizeNonNumeric(t *testing.T) {
	e := newTestEngine()
	d := dataset.MustNew(
		dataset.MustNewColumn("name", dataset.TypeString, []interface{}{"a", "b"}),
	)

	_, _, err := e.Normalize(d, NormalizeRequest{Method: NormMinMax, Columns: []string{"name"}})
	assert.True(t, errors.IsType(err, errors.ErrorTypeTypeMismatch))
}
