package main

import (
	"fmt"

	"evodash/internal/appversion"

	"github.com/spf13/cobra"
)

// newRootCmd creates the root evodash command with all subcommands attached.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "evodash",
		Short:         "Admin client for the auto-evolve RAG backend",
		Long:          "evodash drives the auto-evolve backend from the terminal.\nIt triggers pipeline runs, manages sources and settings, and tails events.",
		Version:       fmt.Sprintf("evodash %s", appversion.String()),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.PersistentFlags().String("base-url", "", "backend base URL (overrides config and EVODASH_BASE_URL)")
	cmd.PersistentFlags().Bool("no-wait", false, "do not poll task handles returned by background jobs")

	cmd.AddCommand(
		newStatusCmd(),
		newCrawlCmd(),
		newIndexCmd(),
		newDiscoverCmd(),
		newIngestCmd(),
		newEvaluateCmd(),
		newSeedCmd(),
		newSourcesCmd(),
		newSettingsCmd(),
		newSearchCmd(),
		newDocsCmd(),
		newMetricsCmd(),
		newVersionsCmd(),
		newEventsCmd(),
		newDashCmd(),
	)

	return cmd
}
