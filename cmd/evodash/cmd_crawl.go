package main

import (
	"github.com/spf13/cobra"

	"evodash/pkg/action"
	"evodash/pkg/gateway"
)

// newCrawlCmd creates the "evodash crawl" subcommand.
func newCrawlCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Trigger a crawl pass over registered sources",
		Long:  "Asks the backend to crawl its registered sources and store new documents.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrigger(cmd, func(d *action.Dispatcher) action.Result {
				return d.Crawl(cmd.Context(), limit)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", gateway.DefaultCrawlLimit, "maximum pages fetched per source")

	return cmd
}
