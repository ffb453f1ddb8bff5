package main

import (
	"github.com/spf13/cobra"

	"evodash/pkg/action"
)

// newIndexCmd creates the "evodash index" subcommand.
func newIndexCmd() *cobra.Command {
	var batch int

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Trigger indexing of unembedded documents",
		Long:  "Asks the backend to chunk and embed documents that are not yet searchable.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrigger(cmd, func(d *action.Dispatcher) action.Result {
				return d.Index(cmd.Context(), batch)
			})
		},
	}

	cmd.Flags().IntVar(&batch, "batch", 0, "batch size (0 = backend default)")

	return cmd
}
