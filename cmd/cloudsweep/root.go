package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cloudsweep/cloudsweep/config"
)

var (
	version = "0.1.0"
	rootCmd = &cobra.Command{
		Use:   "cloudsweep",
		Short: "Cloud project resource auditor",
		Long: `CloudSweep - Cloud Project Resource Auditor

CloudSweep inventories the resources of a cloud project, classifies
them (unused, orphaned, stale, public, unlabeled), estimates their
monthly cost, and optionally cleans up what is provably safe to
remove. Cleanup defaults to dry-run and re-queries live state before
every action.`,
		Version: version,
	}

	flagConfig   string
	flagProvider string
	flagRegion   string
	flagProject  string
	flagDataDir  string
	flagDebug    bool
)

// exitCodeError carries a process exit code through cobra's error
// return. Execute unwraps it so partial failures exit 2, not 1.
type exitCodeError struct {
	code int
	err  error
}

func (e *exitCodeError) Error() string { return e.err.Error() }
func (e *exitCodeError) Unwrap() error { return e.err }

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.err)
			os.Exit(exitErr.code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// init sets up the root command
func init() {
	rootCmd.SetVersionTemplate(`CloudSweep {{.Version}} - Cloud Project Resource Auditor
`)

	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "aws", "Cloud provider")
	rootCmd.PersistentFlags().StringVarP(&flagRegion, "region", "r", "us-east-1", "Region to audit")
	rootCmd.PersistentFlags().StringVarP(&flagProject, "project", "p", "", "Project identity used in reports")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", defaultDataDir(), "Directory for run history")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")

	cobra.OnInitialize(func() {
		if flagDebug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	})
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home + "/.cloudsweep"
	}
	return ".cloudsweep"
}

// loadRunConfig merges the config file (when given) with flag
// overrides. Flags win; the result is immutable for the rest of the
// run. Any failure here is a prerequisite failure.
func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{
		Version:  "1",
		Provider: flagProvider,
		Region:   flagRegion,
		Project:  flagProject,
		Policy:   config.DefaultPolicy(),
	}

	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		if cmd.Flags().Changed("provider") || cfg.Provider == "" {
			cfg.Provider = flagProvider
		}
		if cmd.Flags().Changed("region") || cfg.Region == "" {
			cfg.Region = flagRegion
		}
		if cmd.Flags().Changed("project") {
			cfg.Project = flagProject
		}
	}

	if cfg.Project == "" {
		return nil, fmt.Errorf("project is required (set --project or the config file)")
	}
	return cfg, nil
}
