// ABOUTME: The deals command, which fabricates pipeline deals for known workspaces.
// ABOUTME: Also hosts validate, which checks the built-in catalog against a lookup file.

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/2389/demoseed/internal/deals"
	"github.com/2389/demoseed/internal/randutil"
	"github.com/2389/demoseed/internal/table"
)

func newDealsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deals",
		Short: "Generate dummy sales deals linked to workspaces",
		Long: `Generates deal records for a fixed catalog of companies. Workspace names are
resolved to IDs through a lookup CSV with "name" and "workspace_id" columns.

Each deal gets a random stage, a stage change within the last 90 days, the
stages preceding it, and (70% of the time each) a value and a seat count.`,
		Example: `  demoseed deals
  demoseed deals --count 200 --lookup data/workspaces.csv --output deals.csv
  demoseed deals --strict --preview 0`,
		Args: cobra.NoArgs,
		RunE: runDeals,
	}
	cmd.Flags().Int("count", deals.DefaultCount, "Number of deals to generate")
	cmd.Flags().String("lookup", "data/workspaces.csv", "Workspace lookup CSV (name, workspace_id)")
	cmd.Flags().String("output", "dummy_deals.csv", "CSV to write")
	cmd.Flags().Int64("seed", 0, "Random seed (0 seeds from the clock)")
	cmd.Flags().Bool("strict", false, "Fail before generating if any catalog workspace is missing from the lookup")
	cmd.Flags().Int("preview", 5, "Number of generated rows to print (0 disables)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that every catalog workspace resolves in the lookup file",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
	cmd.Flags().String("lookup", "data/workspaces.csv", "Workspace lookup CSV (name, workspace_id)")
	return cmd
}

func runDeals(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{
		"deals.count":       "count",
		"deals.lookup_path": "lookup",
		"deals.output_path": "output",
		"deals.seed":        "seed",
		"deals.strict":      "strict",
		"deals.preview":     "preview",
	})
	if err != nil {
		return err
	}

	output, err := validateAndCleanPath(cfg.Deals.OutputPath)
	if err != nil {
		return err
	}

	lookup, err := deals.LoadLookup(cfg.Deals.LookupPath)
	if err != nil {
		return err
	}
	if cfg.Deals.Strict {
		if err := deals.ValidateCatalog(deals.DefaultCatalog(), lookup); err != nil {
			return err
		}
	}

	gen := deals.New(lookup, randutil.New(cfg.Deals.Seed))
	gen.Options.Window = cfg.Deals.Window
	gen.Options.MultiWorkspaceRate = cfg.Deals.MultiWorkspaceRate
	gen.Options.BlankRate = cfg.Deals.BlankRate

	generated, err := gen.Generate(cfg.Deals.Count)
	if err != nil {
		return err
	}
	t := deals.Table(generated)
	if err := t.WriteFile(output); err != nil {
		return err
	}

	log.WithFields(log.Fields{"output": output, "deals": len(generated)}).Info("Deals generated")
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generated %d dummy deal records and saved to %s\n", len(generated), output)
	if cfg.Deals.Preview > 0 && t.Len() > 0 {
		fmt.Fprintln(out, "\nSample of the generated data:")
		return printPreview(out, t, cfg.Deals.Preview)
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, map[string]string{"deals.lookup_path": "lookup"})
	if err != nil {
		return err
	}

	lookup, err := deals.LoadLookup(cfg.Deals.LookupPath)
	if err != nil {
		return err
	}
	catalog := deals.DefaultCatalog()
	if err := deals.ValidateCatalog(catalog, lookup); err != nil {
		return err
	}

	total := 0
	for _, c := range catalog {
		total += len(c.Workspaces)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "All %d workspaces across %d companies resolve in %s\n",
		total, len(catalog), cfg.Deals.LookupPath)
	return nil
}

// printPreview writes the first n rows of t as aligned columns.
func printPreview(w io.Writer, t *table.Table, n int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Header, "\t"))
	for i := 0; i < n && i < t.Len(); i++ {
		fmt.Fprintln(tw, strings.Join(t.Rows[i], "\t"))
	}
	return tw.Flush()
}
