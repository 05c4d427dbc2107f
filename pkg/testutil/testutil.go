// Package testutil provides shared helpers for strata tests
package testutil

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/strataprep/strata/pkg/dataset"
)

// TestLogger creates a logger that writes to the test output and is cleaned
// up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout. The caller
// must call the returned cancel function.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// FloatColumn builds a float column from values, turning NaN-free literals
// into cells and nils into missing markers.
func FloatColumn(t *testing.T, name string, cells ...interface{}) *dataset.Column {
	t.Helper()
	col, err := dataset.NewColumn(name, dataset.TypeFloat, cells)
	if err != nil {
		t.Fatalf("building column %q: %v", name, err)
	}
	return col
}

// Floats extracts a column's cells as floats, failing the test on missing
// cells.
func Floats(t *testing.T, d *dataset.Dataset, name string) []float64 {
	t.Helper()
	col, ok := d.Column(name)
	if !ok {
		t.Fatalf("column %q not found", name)
	}
	out := make([]float64, col.Len())
	for i := range out {
		f, ok := col.Float(i)
		if !ok {
			t.Fatalf("column %q row %d is missing", name, i)
		}
		out[i] = f
	}
	return out
}
