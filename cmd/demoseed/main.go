// ABOUTME: Entry point for the demoseed CRM demo data toolkit.
// ABOUTME: Wires config, logging, and the utm/deals/usage/validate commands into one CLI.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/2389/demoseed/internal/config"
	apperrors "github.com/2389/demoseed/internal/errors"
	"github.com/2389/demoseed/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "demoseed",
		Short: "demoseed - synthesize and enrich CRM demo data as CSV",
		Long: `demoseed generates realistic-looking demo data for a CRM-style product.

Each command is an independent batch transform: it reads one CSV, applies
randomized derivation rules row by row, and writes one CSV.

Commands:
  • utm       Add utm_source/medium/campaign/content/term columns to any table
  • deals     Fabricate sales pipeline deals linked to known workspaces
  • usage     Derive API, compute, storage and cost metrics for workspaces
  • validate  Check every catalog workspace resolves in the lookup file

Typical pipeline:
  demoseed usage                                  # workspaces2.csv -> workspaces3.csv
  demoseed utm workspaces3.csv workspaces4.csv
  demoseed deals --lookup data/workspaces.csv     # -> dummy_deals.csv

Configuration (lowest to highest precedence):
  built-in defaults, demoseed.yaml, .env files, DEMOSEED_* environment, flags`,
	}

	rootCmd.PersistentFlags().String("config", getEnv("DEMOSEED_CONFIG", ""), "Config file (default ./demoseed.yaml if present, or $DEMOSEED_CONFIG)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(newUTMCmd(), newDealsCmd(), newUsageCmd(), newValidateCmd())

	return rootCmd
}

// loadConfig loads configuration with the given config-key to flag-name
// bindings and configures logging from it. Arguments have been validated by
// the time it runs, so usage is no longer printed on failure.
func loadConfig(cmd *cobra.Command, flagKeys map[string]string) (*config.Config, error) {
	cmd.SilenceUsage = true

	keys := map[string]string{
		"log_level":  "log-level",
		"log_format": "log-format",
	}
	for k, v := range flagKeys {
		keys[k] = v
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: configFile,
		Flags:      cmd.Flags(),
		FlagKeys:   keys,
	})
	if err != nil {
		return nil, err
	}

	if err := logging.Configure(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidConfig, "invalid logging settings")
	}
	log.WithField("command", cmd.Name()).Debug("Configuration loaded")
	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// validateAndCleanPath validates and cleans an output file path.
// Handles Unix/Linux, macOS, and Windows paths (including UNC and drive letters).
// Relative paths may climb out of the working directory; only VCS, dependency
// and .env entries are refused, matched as whole path components.
func validateAndCleanPath(path string) (string, error) {
	cleanPath := strings.TrimSpace(path)
	cleanPath = filepath.Clean(cleanPath)

	// Reject empty and root-like paths
	if cleanPath == "" || cleanPath == "." || cleanPath == ".." || cleanPath == string(filepath.Separator) {
		return "", invalidPath(path, "output path cannot be empty, '.', '..', or '/'")
	}

	// Windows: reject bare drive letters (e.g., "C:", "D:")
	if runtime.GOOS == "windows" && len(cleanPath) == 2 && cleanPath[1] == ':' {
		return "", invalidPath(path, "output path cannot be a bare drive letter")
	}

	// Reject known problematic path components
	badComponents := []string{
		".git",
		".svn",
		"node_modules",
		".env",
	}
	for _, component := range strings.Split(filepath.ToSlash(cleanPath), "/") {
		for _, bad := range badComponents {
			if strings.EqualFold(component, bad) {
				return "", invalidPath(path, fmt.Sprintf("output path cannot contain '%s'", bad))
			}
		}
	}

	return cleanPath, nil
}

func invalidPath(path, msg string) error {
	return apperrors.New(apperrors.ErrInvalidArguments, msg).WithField(path)
}
