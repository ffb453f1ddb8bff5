package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"evodash/pkg/action"
)

// newVersionsCmd creates the "evodash versions" subcommand group.
func newVersionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "Manage index versions",
	}

	cmd.AddCommand(
		newVersionsListCmd(),
		newVersionsActivateCmd(),
	)

	return cmd
}

// newVersionsListCmd creates "evodash versions list".
func newVersionsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List index versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}

			versions, err := client.IndexVersions(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(versions) == 0 {
				fmt.Fprintln(w, "no index versions")
				return nil
			}

			for _, v := range versions {
				fmt.Fprintf(w, "%6d  %-8s  docs=%-6d  threshold=%.2f  %s\n",
					v.ID, v.Status, v.DocCount, v.ThresholdScore, v.CreatedAt)
			}
			return nil
		},
	}
}

// newVersionsActivateCmd creates "evodash versions activate".
func newVersionsActivateCmd() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "activate <id>",
		Short: "Promote an index version to active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid version id %q", args[0])
			}
			return runTrigger(cmd, func(d *action.Dispatcher) action.Result {
				return d.ActivateIndex(cmd.Context(), id, threshold)
			})
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0, "minimum retrieval score for the activated index")

	return cmd
}
