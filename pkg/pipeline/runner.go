package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/strataprep/strata/pkg/dataset"
	"github.com/strataprep/strata/pkg/errors"
	"github.com/strataprep/strata/pkg/metrics"
	"github.com/strataprep/strata/pkg/preprocess"
)

// Runner executes configured operation sequences against datasets. A single
// Runner is safe for concurrent use.
type Runner struct {
	engine *preprocess.Engine
	logger *zap.Logger
}

// NewRunner creates a runner. A nil logger disables run logging.
func NewRunner(engine *preprocess.Engine, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{engine: engine, logger: logger}
}

// Result is the outcome of a pipeline run
type Result struct {
	Dataset *dataset.Dataset
	Reports []*preprocess.Report
}

// Run applies the operations in order. The first failing operation aborts
// the run; because every operation is atomic, the returned error leaves no
// partially transformed dataset behind.
func (r *Runner) Run(ctx context.Context, d *dataset.Dataset, ops []preprocess.Request) (*Result, error) {
	result := &Result{Dataset: d, Reports: make([]*preprocess.Report, 0, len(ops))}

	for i, op := range ops {
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), errors.ErrorTypeInternal, "pipeline run cancelled")
		default:
		}

		start := time.Now()
		out, report, err := r.engine.Apply(result.Dataset, op)

		rowsIn := result.Dataset.RowCount()
		rowsOut := rowsIn
		cells := 0
		if err == nil {
			rowsOut = out.RowCount()
			for _, n := range report.CellsChanged {
				cells += n
			}
		}
		metrics.Observe(string(op.Kind), err, start, rowsIn, rowsOut, cells)

		if err != nil {
			r.logger.Error("pipeline step failed",
				zap.Int("step", i),
				zap.String("kind", string(op.Kind)),
				zap.Error(err))
			return nil, err
		}

		r.logger.Info("pipeline step complete",
			zap.Int("step", i),
			zap.String("kind", string(op.Kind)),
			zap.String("operation_id", report.OperationID),
			zap.Int("rows_before", report.RowsBefore),
			zap.Int("rows_after", report.RowsAfter),
			zap.Int("rows_affected", report.RowsAffected),
			zap.Strings("warnings", report.Warnings),
			zap.Duration("elapsed", time.Since(start)))

		result.Dataset = out
		result.Reports = append(result.Reports, report)
	}
	return result, nil
}
