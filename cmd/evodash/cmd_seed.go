package main

import (
	"github.com/spf13/cobra"

	"evodash/pkg/action"
)

// newSeedCmd creates the "evodash seed" subcommand.
func newSeedCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Derive new discovery topics from the corpus",
		Long:  "Asks the backend to mine the ingested documents for new discovery queries,\nfeeding the self-evolution loop.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrigger(cmd, func(d *action.Dispatcher) action.Result {
				return d.Seed(cmd.Context(), limit)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum topics to seed (0 = backend default)")

	return cmd
}
