package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strataprep/strata/pkg/dataset"
	"github.com/strataprep/strata/pkg/errors"
	"github.com/strataprep/strata/pkg/preprocess"
	"github.com/strataprep/strata/pkg/testutil"
)

const sampleConfig = `
name: clean-ages
input:
  path: ${STRATA_TEST_INPUT}
output:
  path: out.csv
operations:
  - kind: missing_values
    strategy: fill_mean
    columns: [age]
  - kind: normalization
    method: min_max
    columns: [age]
`

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))
	t.Setenv("STRATA_TEST_INPUT", "in.csv")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "clean-ages", cfg.Name)
	assert.Equal(t, "in.csv", cfg.Input.Path)
	require.Len(t, cfg.Operations, 2)
	assert.Equal(t, preprocess.KindMissingValues, cfg.Operations[0].Kind)
	assert.Equal(t, "fill_mean", cfg.Operations[0].Strategy)
	assert.Equal(t, []string{"age"}, cfg.Operations[1].Columns)
}

func TestConfigValidation(t *testing.T) {
	cases := []Config{
		{Operations: []preprocess.Request{{Kind: preprocess.KindRowFilter}}}, // no input
		{Input: FileConfig{Path: "in.csv"}},                                 // no operations
		{Input: FileConfig{Path: "in.csv"}, Operations: []preprocess.Request{{}}},
	}
	for _, cfg := range cases {
		err := cfg.Validate()
		assert.True(t, errors.IsType(err, errors.ErrorTypeConfig), "%+v", cfg)
	}
}

func TestRun(t *testing.T) {
	r := NewRunner(preprocess.NewEngine(nil), testutil.TestLogger(t))
	d := dataset.MustNew(
		dataset.MustNewColumn("age", dataset.TypeFloat, []interface{}{20.0, nil, 40.0}),
	)

	result, err := r.Run(context.Background(), d, []preprocess.Request{
		{Kind: preprocess.KindMissingValues, Strategy: "fill_mean", Columns: []string{"age"}},
		{Kind: preprocess.KindNormalization, Method: "min_max", Columns: []string{"age"}},
	})
	require.NoError(t, err)

	require.Len(t, result.Reports, 2)
	col, _ := result.Dataset.Column("age")
	assert.False(t, col.HasMissing())
	f, _ := col.Float(1)
	assert.InDelta(t, 0.5, f, 1e-9) // filled with mean 30, then scaled into [0,1]
	// Input untouched.
	orig, _ := d.Column("age")
	assert.True(t, orig.HasMissing())
}

func TestRunAbortsOnFailure(t *testing.T) {
	r := NewRunner(preprocess.NewEngine(nil), nil)
	d := dataset.MustNew(
		dataset.MustNewColumn("age", dataset.TypeFloat, []interface{}{20.0, 30.0}),
	)

	_, err := r.Run(context.Background(), d, []preprocess.Request{
		{Kind: preprocess.KindNormalization, Method: "min_max", Columns: []string{"ghost"}},
		{Kind: preprocess.KindRowFilter, Expression: "age > 0"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeColumnNotFound))
}

func TestRunCancelled(t *testing.T) {
	r := NewRunner(preprocess.NewEngine(nil), nil)
	d := dataset.MustNew(
		dataset.MustNewColumn("age", dataset.TypeFloat, []interface{}{20.0}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Run(ctx, d, []preprocess.Request{
		{Kind: preprocess.KindRowFilter, Expression: "age > 0"},
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInternal))
}
