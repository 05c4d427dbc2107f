// Package metrics exposes Prometheus collectors for the preprocessing
// engine: operation counts, durations and row volumes. Collectors register
// themselves on the default registry via promauto; a pipeline run records
// into them through Observe.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal counts preprocessing operations by kind and outcome.
	// Labels: kind (missing_values, type_conversion, ...), status
	// (success/failure).
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_operations_total",
			Help: "Total number of preprocessing operations executed",
		},
		[]string{"kind", "status"},
	)

	// OperationDuration tracks the wall-clock duration of each operation.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "strata_operation_duration_seconds",
			Help:    "Preprocessing operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 10, 7), // 100µs .. 100s
		},
		[]string{"kind"},
	)

	// RowsProcessed counts input rows seen per operation kind.
	RowsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_rows_processed_total",
			Help: "Total number of rows fed into preprocessing operations",
		},
		[]string{"kind"},
	)

	// RowsDropped counts rows removed by row-reducing operations.
	RowsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_rows_dropped_total",
			Help: "Total number of rows removed by preprocessing operations",
		},
		[]string{"kind"},
	)

	// CellsChanged counts individual cell rewrites (fills, conversions,
	// clamped outliers).
	CellsChanged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strata_cells_changed_total",
			Help: "Total number of cells rewritten by preprocessing operations",
		},
		[]string{"kind"},
	)
)

// Observe records one finished operation. rowsIn and rowsOut are the row
// counts before and after; cells is the number of rewritten cells.
func Observe(kind string, err error, start time.Time, rowsIn, rowsOut, cells int) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	OperationsTotal.WithLabelValues(kind, status).Inc()
	OperationDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		return
	}
	RowsProcessed.WithLabelValues(kind).Add(float64(rowsIn))
	if dropped := rowsIn - rowsOut; dropped > 0 {
		RowsDropped.WithLabelValues(kind).Add(float64(dropped))
	}
	if cells > 0 {
		CellsChanged.WithLabelValues(kind).Add(float64(cells))
	}
}
