// Package cmd provides CLI commands for valuegraph.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var logLevel string

func setupLogger(flagLevel string) {
	level := strings.ToUpper(flagLevel)
	if level == "" {
		level = strings.ToUpper(os.Getenv("LOG_LEVEL"))
	}

	var slogLevel slog.Level
	switch level {
	case "DEBUG":
		slogLevel = slog.LevelDebug
	case "INFO", "":
		slogLevel = slog.LevelInfo
	case "WARN", "WARNING":
		slogLevel = slog.LevelWarn
	case "ERROR":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	slog.SetDefault(slog.New(handler))
}

var rootCmd = &cobra.Command{
	Use:   "valuegraph",
	Short: "Extract value-centered relationship graphs from scholarly metadata dumps",
	Long: `Valuegraph decomposes compressed JSONL dumps of scholarly metadata
(Crossref, OpenAlex, and anything a profile can describe) into typed values
and typed relationships, written as a set of normalized CSV tables.

Identity is content-derived and deterministic: repeated runs over the same
input produce the same set of rows (the timestamp column is the task start
time unless EXTRACT_TIMESTAMP pins it), and outputs from different sources
join on shared content.

Examples:
  valuegraph run --run-config run.yaml --output out/
  valuegraph run --run-config run.yaml --output out/ --threads 8 --create-metadata-files
  valuegraph validate --run-config run.yaml
  valuegraph profiles list`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger(logLevel)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error; default from LOG_LEVEL)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(profilesCmd)
}
