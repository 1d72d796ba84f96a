package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudsweep/cloudsweep/storage"
)

var reportList bool

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the most recent stored audit report",
	Long: `Report prints the last audit report persisted to the run history,
or lists stored runs with --list.`,
	Example: `  cloudsweep report          # Print the latest report
  cloudsweep report --list   # List stored runs, newest first`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().BoolVarP(&reportList, "list", "l", false, "List stored runs instead of printing the latest report")
}

func runReport(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	store, err := storage.Open(flagDataDir)
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer store.Close()

	if reportList {
		runs := store.ListRuns(20)
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No stored runs.")
			return nil
		}
		for _, run := range runs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", run.Timestamp.Format("2006-01-02 15:04:05"), run.RunID)
		}
		return nil
	}

	report, err := store.LatestReport()
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}
	if report == nil {
		return fmt.Errorf("no stored reports; run 'cloudsweep audit' first")
	}

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	return nil
}
