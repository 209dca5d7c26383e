// Package command implements the grocerydash-cli subcommands: offline
// reporting and search over a receipt export, sharing the ingest and
// aggregation code with the server.
package command

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"grocerydash/internal/core"
	"grocerydash/internal/ingest"
)

var (
	schemaPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "grocerydash-cli",
	Short: "Grocery receipt reports from the command line",
	Long: `grocerydash-cli reads a grocery receipt export (CSV or XLSX) and
prints the same aggregates the dashboard shows: category and store
breakdowns, monthly totals, most bought items, and trip statistics.

Examples:
  grocerydash-cli report receipts.csv
  grocerydash-cli search receipts.csv milk
  grocerydash-cli report --schema columns.yaml export.xlsx`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the CLI, exiting non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&schemaPath, "schema", "", "path to a YAML column schema override")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
}

// loadSchema resolves the column layout: the fixed receipt layout
// unless a YAML override was given.
func loadSchema() (ingest.Schema, error) {
	if schemaPath == "" {
		return ingest.ReceiptSchema(), nil
	}
	return ingest.LoadSchema(schemaPath)
}

// readDataset opens and normalizes the export named by the argument.
func readDataset(path string) ([]core.Record, ingest.Stats, error) {
	schema, err := loadSchema()
	if err != nil {
		return nil, ingest.Stats{}, fmt.Errorf("load schema: %w", err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, ingest.Stats{}, err
	}
	defer f.Close()

	return ingest.ParseReader(f, path, schema)
}
