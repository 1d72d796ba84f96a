package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloudsweep/cloudsweep/audit"
	"github.com/cloudsweep/cloudsweep/collector"
	"github.com/cloudsweep/cloudsweep/providers"
	"github.com/cloudsweep/cloudsweep/storage"
	"github.com/cloudsweep/cloudsweep/types"
)

var auditOutput string

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inventory and classify project resources",
	Long: `Audit collects every enabled resource category, classifies each
record (unused, orphaned, stale, public, unlabeled), estimates
monthly cost, and writes a JSON report.

The audit is strictly read-only. A category whose collection fails is
reported as degraded with an empty list; the run never aborts.`,
	Example: `  cloudsweep audit --project my-project             # Report to stdout
  cloudsweep audit --project my-project -o audit.json
  cloudsweep audit --project my-project --region eu-west-1`,
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVarP(&auditOutput, "output", "o", "", "Write the report to a file instead of stdout")
}

func runAudit(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	ctx := cmd.Context()

	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	provider, err := providers.GetProvider(ctx, cfg.Provider, providers.ProviderConfig{
		Region:  cfg.Region,
		Project: cfg.Project,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize provider: %w", err)
	}

	results := collector.New(provider).CollectAll(ctx, cfg.Policy)

	report := audit.NewAggregator(cfg.Policy).Aggregate(results, cfg.Project, time.Now())
	report.Recommendations = audit.Recommend(report)

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	if auditOutput != "" {
		if err := os.WriteFile(auditOutput, encoded, 0600); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), string(encoded))
	}

	// History persistence is best effort; the report already reached
	// its primary output.
	if err := saveReport(report); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to persist run history: %v\n", err)
	}

	return nil
}

func saveReport(report *types.AuditReport) error {
	if err := os.MkdirAll(flagDataDir, 0700); err != nil {
		return err
	}
	store, err := storage.Open(flagDataDir)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.SaveReport(report)
}
