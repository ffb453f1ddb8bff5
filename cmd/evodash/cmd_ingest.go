package main

import (
	"github.com/spf13/cobra"

	"evodash/pkg/action"
	"evodash/pkg/gateway"
)

// newIngestCmd creates the "evodash ingest" subcommand.
func newIngestCmd() *cobra.Command {
	var (
		sourceIDs []int64
		newURL    string
		async     bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Trigger a full discover+crawl+index pass",
		Long:  "Runs the complete ingestion pipeline.\nWith --async the backend returns a task handle that is polled to completion.",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := gateway.IngestParams{
				SourceIDs: sourceIDs,
				NewURL:    newURL,
			}
			return runTrigger(cmd, func(d *action.Dispatcher) action.Result {
				return d.Ingest(cmd.Context(), p, async)
			})
		},
	}

	cmd.Flags().Int64SliceVar(&sourceIDs, "source-id", nil, "restrict crawling to these source IDs")
	cmd.Flags().StringVar(&newURL, "url", "", "register this URL as a source before ingesting")
	cmd.Flags().BoolVar(&async, "async", false, "run ingestion in the background and poll the task")

	return cmd
}
