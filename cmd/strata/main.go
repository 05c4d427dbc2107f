package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/strataprep/strata/pkg/dataset"
	stratio "github.com/strataprep/strata/pkg/io"
	"github.com/strataprep/strata/pkg/logger"
	"github.com/strataprep/strata/pkg/pipeline"
	"github.com/strataprep/strata/pkg/preprocess"
)

var version = "0.1.0"

func main() {
	v := viper.New()
	v.SetEnvPrefix("STRATA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "strata",
		Short: "Strata - tabular data preprocessing",
		Long: `Strata cleans tabular datasets: missing value handling, type
conversion, normalization, outlier handling, row filtering and sampling,
driven by a declarative YAML pipeline.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(logger.Config{
				Level:    v.GetString("log-level"),
				Encoding: "console",
			})
		},
	}
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("metrics-listen", "", "address to expose Prometheus metrics on, e.g. :9090")
	if err := v.BindPFlags(root.PersistentFlags()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	v.SetDefault("log-level", "info")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("strata v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	runCmd := &cobra.Command{
		Use:   "run <pipeline.yaml>",
		Short: "Run a preprocessing pipeline",
		Long: `Run a preprocessing pipeline described by a YAML file. The input
dataset is loaded, every operation is applied in order, the result is saved
to the configured output and the per-operation reports are printed as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, args[0], v.GetString("metrics-listen"))
		},
	}
	root.AddCommand(runCmd)

	inspectCmd := &cobra.Command{
		Use:   "inspect <dataset file>",
		Short: "Summarize a dataset file",
		Long:  "Load a CSV or JSON dataset and print its shape, column types and missing cell counts as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDataset(args[0], "")
			if err != nil {
				return err
			}
			return printJSON(cmd, d.Summary())
		},
	}
	root.AddCommand(inspectCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runPipeline(cmd *cobra.Command, configPath, metricsAddr string) error {
	log := logger.Get()
	defer func() { _ = log.Sync() }()

	if metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				log.Warn("metrics listener stopped", zap.Error(err))
			}
		}()
	}

	cfg, err := pipeline.LoadConfig(configPath)
	if err != nil {
		return err
	}
	log.Info("pipeline loaded",
		zap.String("name", cfg.Name),
		zap.String("input", cfg.Input.Path),
		zap.Int("operations", len(cfg.Operations)))

	d, err := loadDataset(cfg.Input.Path, cfg.Input.Format)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(preprocess.NewEngine(log), log)
	result, err := runner.Run(cmd.Context(), d, cfg.Operations)
	if err != nil {
		return err
	}

	if cfg.Output.Path != "" {
		if err := saveDataset(cfg.Output.Path, cfg.Output.Format, result.Dataset); err != nil {
			return err
		}
		log.Info("output written",
			zap.String("path", cfg.Output.Path),
			zap.Int("rows", result.Dataset.RowCount()))
	}
	return printJSON(cmd, result.Reports)
}

// fileFormat resolves an explicit format or falls back to the extension
func fileFormat(path, format string) string {
	if format != "" {
		return format
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "csv"
}

func loadDataset(path, format string) (*dataset.Dataset, error) {
	if fileFormat(path, format) == "json" {
		return stratio.LoadJSON(path)
	}
	return stratio.LoadCSV(path, stratio.CSVOptions{})
}

func saveDataset(path, format string, d *dataset.Dataset) error {
	if fileFormat(path, format) == "json" {
		return stratio.SaveJSON(path, d)
	}
	return stratio.SaveCSV(path, d)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
