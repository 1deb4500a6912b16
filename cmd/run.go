package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/valuegraph/engine"
	"github.com/lehigh-university-libraries/valuegraph/runcfg"
)

var (
	runConfigFile       string
	outputDir           string
	threads             int
	batchSize           int
	createMetadataFiles bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a run configuration",
	Long: `Execute every task of a run configuration sequentially, merging all
outputs into one set of CSV files with cross-task deduplication.

Each task names a profile (a built-in name or a path to a profile JSON
file), an input directory of .jsonl / .jsonl.gz files, and the filter
values to bind.

Examples:
  valuegraph run --run-config run.yaml --output out/
  valuegraph run --run-config run.yaml --output out/ --threads 8 --batch-size 5000
  valuegraph run --run-config run.yaml --output out/ --create-metadata-files`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runConfigFile, "run-config", "", "Run configuration YAML file (required)")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for CSV files (required)")
	runCmd.Flags().IntVar(&threads, "threads", 0, "Worker threads per task (0 = one per CPU)")
	runCmd.Flags().IntVar(&batchSize, "batch-size", 0, fmt.Sprintf("Records per writer batch (0 = %d)", engine.DefaultBatchSize))
	runCmd.Flags().BoolVar(&createMetadataFiles, "create-metadata-files", false, "Also emit sources.csv, processes.csv, source_process_relationships.csv")

	_ = runCmd.MarkFlagRequired("run-config")
	_ = runCmd.MarkFlagRequired("output")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := runcfg.Load(runConfigFile)
	if err != nil {
		return err
	}

	runner := engine.NewRunner(cfg, engine.Options{
		OutputDir:           outputDir,
		Threads:             threads,
		BatchSize:           batchSize,
		CreateMetadataFiles: createMetadataFiles,
	})

	if err := runner.Run(cmd.Context()); err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}
