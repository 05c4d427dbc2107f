package preprocess

import (
	"math/rand"
	"sort"

	"go.uber.org/zap"

	"github.com/strataprep/strata/pkg/dataset"
	"github.com/strataprep/strata/pkg/errors"
)

// SampleRequest parameterizes a row sampling operation. Exactly one of N
// and Fraction must be set. The seed makes the draw reproducible.
type SampleRequest struct {
	N        int
	Fraction float64
	Seed     int64
}

// SampleRows draws rows without replacement. The surviving rows keep their
// original relative order.
func (e *Engine) SampleRows(d *dataset.Dataset, req SampleRequest) (*dataset.Dataset, *Report, error) {
	if req.N > 0 && req.Fraction > 0 {
		return nil, nil, errors.New(errors.ErrorTypeInvalidParameter, "sample size and fraction are mutually exclusive")
	}

	n := req.N
	switch {
	case req.N > 0:
		if req.N > d.RowCount() {
			return nil, nil, errors.Newf(errors.ErrorTypeInvalidParameter,
				"sample size %d exceeds row count %d", req.N, d.RowCount())
		}
	case req.Fraction > 0:
		if req.Fraction > 1 {
			return nil, nil, errors.Newf(errors.ErrorTypeInvalidParameter,
				"sample fraction must be in (0, 1], got %v", req.Fraction)
		}
		n = int(req.Fraction * float64(d.RowCount()))
	default:
		return nil, nil, errors.New(errors.ErrorTypeInvalidParameter, "sample requires a size or a fraction")
	}

	rng := rand.New(rand.NewSource(req.Seed))
	picked := rng.Perm(d.RowCount())[:n]
	sort.Ints(picked)

	report := newReport(KindRowSample, d.RowCount())
	report.RowsAffected = d.RowCount() - n
	out := d.SelectRows(picked)
	report.RowsAfter = out.RowCount()

	e.logger.Debug("rows sampled", zap.Int("rows", n), zap.Int64("seed", req.Seed))
	return out, report, nil
}
