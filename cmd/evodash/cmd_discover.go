package main

import (
	"github.com/spf13/cobra"

	"evodash/pkg/action"
	"evodash/pkg/gateway"
)

// newDiscoverCmd creates the "evodash discover" subcommand.
func newDiscoverCmd() *cobra.Command {
	var (
		perQuery int
		maxNew   int
		queries  []string
		async    bool
	)

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Trigger source discovery",
		Long:  "Asks the backend to search for new crawl sources from its discovery queries.\nWith --async the backend returns a task handle that is polled to completion.",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := gateway.DiscoverParams{
				PerQuery: perQuery,
				MaxNew:   maxNew,
				Queries:  queries,
			}
			return runTrigger(cmd, func(d *action.Dispatcher) action.Result {
				return d.Discover(cmd.Context(), p, async)
			})
		},
	}

	cmd.Flags().IntVar(&perQuery, "per-query", 0, "results per discovery query (0 = backend default)")
	cmd.Flags().IntVar(&maxNew, "max-new", 0, "maximum new sources to register (0 = backend default)")
	cmd.Flags().StringSliceVar(&queries, "query", nil, "discovery queries overriding the stored ones")
	cmd.Flags().BoolVar(&async, "async", false, "run discovery in the background and poll the task")

	return cmd
}
