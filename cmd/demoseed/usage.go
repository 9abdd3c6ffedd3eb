// ABOUTME: The usage command, which derives per-workspace usage and billing metrics.
// ABOUTME: Plan tiers come from built-in defaults with optional overrides from config.

package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/2389/demoseed/internal/randutil"
	"github.com/2389/demoseed/internal/usage"
)

func newUsageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Derive usage and billing metrics for workspaces",
		Long: `Reads a workspace CSV with Plan, Seats and Signup date columns and appends:

  Monthly API calls, Compute hours, Data storage (GB), Average model size (GB),
  Deployed models, Average latency (ms), Monthly cost ($)

Metrics scale with sqrt(seats) and account age. Unknown plans use the Free tier.
Tier parameters can be overridden under usage.tiers in demoseed.yaml.`,
		Example: `  demoseed usage
  demoseed usage --input workspaces2.csv --output workspaces3.csv --seed 7`,
		Args: cobra.NoArgs,
		RunE: runUsage,
	}
	cmd.Flags().String("input", "workspaces2.csv", "Workspace CSV to read")
	cmd.Flags().String("output", "workspaces3.csv", "CSV to write")
	cmd.Flags().Int64("seed", usage.DefaultSeed, "Random seed (0 seeds from the clock)")
	return cmd
}

func runUsage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		"usage.input_path":  "input",
		"usage.output_path": "output",
		"usage.seed":        "seed",
	})
	if err != nil {
		return err
	}

	output, err := validateAndCleanPath(cfg.Usage.OutputPath)
	if err != nil {
		return err
	}
	tiers, err := cfg.UsageTiers()
	if err != nil {
		return err
	}

	t, err := usage.SynthesizeFile(cfg.Usage.InputPath, output, usage.Options{
		Tiers: tiers,
		Now:   time.Now(),
		Rand:  randutil.New(cfg.Usage.Seed),
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"input": cfg.Usage.InputPath, "output": output, "rows": t.Len()}).Info("Usage metrics derived")
	fmt.Fprintf(cmd.OutOrStdout(), "Enriched data saved to %s\n", output)
	return nil
}
