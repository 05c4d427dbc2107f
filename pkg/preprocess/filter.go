package preprocess

import (
	"go.uber.org/zap"

	"github.com/strataprep/strata/pkg/dataset"
	"github.com/strataprep/strata/pkg/errors"
	"github.com/strataprep/strata/pkg/filterexpr"
)

// FilterRows keeps the rows matching a restricted boolean expression over
// the dataset's columns, preserving original row order. The expression
// language is defined by the filterexpr package.
func (e *Engine) FilterRows(d *dataset.Dataset, expression string) (*dataset.Dataset, *Report, error) {
	if expression == "" {
		return nil, nil, errors.New(errors.ErrorTypeInvalidParameter, "filter expression is required")
	}

	mask, err := filterexpr.Evaluate(d, expression)
	if err != nil {
		return nil, nil, err
	}

	keep := make([]int, 0, d.RowCount())
	for i, ok := range mask {
		if ok {
			keep = append(keep, i)
		}
	}

	report := newReport(KindRowFilter, d.RowCount())
	report.RowsAffected = d.RowCount() - len(keep)
	out := d.SelectRows(keep)
	report.RowsAfter = out.RowCount()

	e.logger.Debug("rows filtered",
		zap.String("expression", expression),
		zap.Int("rows_removed", report.RowsAffected))
	return out, report, nil
}
