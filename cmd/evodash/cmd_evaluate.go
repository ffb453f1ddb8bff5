package main

import (
	"github.com/spf13/cobra"

	"evodash/pkg/action"
)

// newEvaluateCmd creates the "evodash evaluate" subcommand.
func newEvaluateCmd() *cobra.Command {
	var (
		sets  []string
		async bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Trigger an evaluation run",
		Long:  "Runs the continuous-evaluation question sets against the active index\nand records the scores.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrigger(cmd, func(d *action.Dispatcher) action.Result {
				return d.Evaluate(cmd.Context(), sets, async)
			})
		},
	}

	cmd.Flags().StringSliceVar(&sets, "set", nil, "question sets to evaluate (empty = backend defaults)")
	cmd.Flags().BoolVar(&async, "async", false, "run evaluation in the background and poll the task")

	return cmd
}
