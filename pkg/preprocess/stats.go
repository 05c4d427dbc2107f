package preprocess

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func sprintf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

func mean(xs []float64) float64 {
	return stat.Mean(xs, nil)
}

// popStdDev is the population (ddof=0) standard deviation. The engine uses
// population statistics throughout so that z-scores of small samples match
// the documented detection bounds.
func popStdDev(xs []float64) float64 {
	return stat.PopStdDev(xs, nil)
}

// quantile computes the p-quantile with linear interpolation on p*(n-1),
// matching the quartile definition the engine documents. gonum's
// stat.Quantile cumulant kinds use a different interpolation rule, so this
// is computed directly.
func quantile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func median(xs []float64) float64 {
	return quantile(xs, 0.5)
}

// maxAbs returns max(|x|) over the values, 0 for an empty slice
func maxAbs(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	abs := make([]float64, len(xs))
	for i, x := range xs {
		abs[i] = math.Abs(x)
	}
	return floats.Max(abs)
}

// isIntegral reports whether f has no fractional part
func isIntegral(f float64) bool {
	return f == math.Trunc(f)
}
