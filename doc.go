// Package strata implements a tabular data preprocessing engine built on an
// immutable column-oriented dataset model.
//
// The engine cleans raw tabular data before analysis: handling missing
// values, converting column types, normalizing numeric ranges, detecting and
// treating outliers, filtering rows with a restricted expression language
// and drawing reproducible samples. Every operation consumes a dataset and
// returns a new one together with a report describing what changed; inputs
// are never mutated, and a failed operation leaves nothing half-applied.
//
// # Packages
//
//   - pkg/dataset: the immutable Dataset and Column model, type inference
//     and Arrow interchange
//   - pkg/preprocess: the preprocessing engine and its operation handlers
//   - pkg/filterexpr: the restricted row-filter expression language
//   - pkg/pipeline: declarative YAML pipelines over ordered operations
//   - pkg/io: CSV and JSON loading and saving
//   - pkg/errors: structured, categorized errors
//   - pkg/logger: zap-based structured logging
//   - pkg/metrics: Prometheus collectors for operation telemetry
//
// # Quick start
//
//	d, err := io.LoadCSV("data.csv", io.CSVOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	engine := preprocess.NewEngine(nil)
//	clean, report, err := engine.HandleMissingValues(d, preprocess.MissingValuesRequest{
//	    Strategy: preprocess.StrategyFillMean,
//	    Columns:  []string{"age"},
//	})
package strata
