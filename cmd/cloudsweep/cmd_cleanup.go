package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudsweep/cloudsweep/cleanup"
	"github.com/cloudsweep/cloudsweep/config"
	"github.com/cloudsweep/cloudsweep/providers"
	"github.com/cloudsweep/cloudsweep/storage"
	"github.com/cloudsweep/cloudsweep/types"
)

var (
	cleanupDryRun         bool
	cleanupExecute        bool
	cleanupYes            bool
	cleanupCategories     []string
	cleanupRetention      []string
	cleanupAllowExpensive bool
)

// cleanupCmd represents the cleanup command
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove resources that are provably safe to delete",
	Long: `Cleanup re-queries live resource state, evaluates every resource
against the safety rules, and acts on what is provably safe: known
zero usage, no dependents, not allowlisted.

Dry-run is the default; no provider mutation happens until --execute
is given. Live runs ask for one run-wide confirmation before any
action. A failed action is recorded and the run continues.`,
	Example: `  cloudsweep cleanup --project my-project                  # Dry run
  cloudsweep cleanup --project my-project --execute        # Live, prompts once
  cloudsweep cleanup --project my-project --execute --yes  # Live, no prompt
  cloudsweep cleanup --project my-project --categories disk,snapshot
  cloudsweep cleanup --project my-project --retention-days snapshot=14`,
	RunE: runCleanup,
}

func init() {
	rootCmd.AddCommand(cleanupCmd)

	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", true, "Simulate actions without calling the provider")
	cleanupCmd.Flags().BoolVar(&cleanupExecute, "execute", false, "Perform actions instead of simulating them")
	cleanupCmd.MarkFlagsMutuallyExclusive("dry-run", "execute")
	cleanupCmd.Flags().BoolVarP(&cleanupYes, "yes", "y", false, "Skip the confirmation prompt")
	cleanupCmd.Flags().StringSliceVar(&cleanupCategories, "categories", nil, "Restrict cleanup to these categories")
	cleanupCmd.Flags().StringSliceVar(&cleanupRetention, "retention-days", nil, "Override retention, e.g. snapshot=14")
	cleanupCmd.Flags().BoolVar(&cleanupAllowExpensive, "allow-expensive", false, "Allow removal of high-cost resources")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	ctx := cmd.Context()

	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyCleanupFlags(&cfg.Policy); err != nil {
		return err
	}

	provider, err := providers.GetProvider(ctx, cfg.Provider, providers.ProviderConfig{
		Region:  cfg.Region,
		Project: cfg.Project,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize provider: %w", err)
	}

	var confirmer cleanup.Confirmer
	if cleanupYes {
		confirmer = cleanup.AutoConfirmer{}
	} else {
		confirmer = &cleanup.TerminalConfirmer{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()}
	}

	journal, err := openJournal()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: decision journaling disabled: %v\n", err)
	} else {
		defer journal.Close()
	}

	engine := cleanup.NewEngine(provider, cfg.Policy, confirmer, journalOrNil(journal), cleanup.Options{})

	summary, err := engine.Run(ctx)
	if err != nil {
		if errors.Is(err, cleanup.ErrConfirmationDenied) {
			// Declining the gate is a clean no-op, not a failure.
			fmt.Fprintln(cmd.ErrOrStderr(), "Cleanup cancelled; nothing was changed.")
			return nil
		}
		return err
	}

	encoded, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(encoded))

	if !summary.Success() {
		return &exitCodeError{
			code: 2,
			err:  fmt.Errorf("%d of %d actions failed", summary.Failed, summary.Evaluated),
		}
	}
	return nil
}

// applyCleanupFlags layers flag overrides onto the loaded policy.
func applyCleanupFlags(policy *config.Policy) error {
	policy.DryRun = !cleanupExecute
	if cleanupAllowExpensive {
		policy.ExpensiveCleanupEnabled = true
	}

	if len(cleanupCategories) > 0 {
		selected := make(map[types.Category]bool, len(cleanupCategories))
		for _, name := range cleanupCategories {
			category := types.Category(strings.TrimSpace(name))
			if !category.Valid() {
				return fmt.Errorf("unknown category: %q", name)
			}
			selected[category] = true
		}
		policy.Categories = selected
	}

	for _, entry := range cleanupRetention {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			return fmt.Errorf("invalid retention override %q, want category=days", entry)
		}
		category := types.Category(strings.TrimSpace(name))
		if !category.Valid() {
			return fmt.Errorf("unknown category in retention override: %q", name)
		}
		days, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || days < 0 {
			return fmt.Errorf("invalid retention days in %q", entry)
		}
		if policy.RetentionDays == nil {
			policy.RetentionDays = make(map[types.Category]int)
		}
		policy.RetentionDays[category] = days
	}

	return nil
}

func openJournal() (*storage.Store, error) {
	if err := os.MkdirAll(flagDataDir, 0700); err != nil {
		return nil, err
	}
	return storage.Open(flagDataDir)
}

// journalOrNil avoids handing the engine a typed nil interface.
func journalOrNil(store *storage.Store) cleanup.Journal {
	if store == nil {
		return nil
	}
	return store
}
