package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

// newDashCmd creates the "evodash dash" subcommand.
func newDashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Launch the interactive dashboard",
		Long:  "Opens the evodash TUI for monitoring metrics, events, sources and settings.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dashCmd := exec.CommandContext(cmd.Context(), "evodash-tui")
			dashCmd.Stdin = os.Stdin
			dashCmd.Stdout = os.Stdout
			dashCmd.Stderr = os.Stderr

			if err := dashCmd.Run(); err != nil {
				return fmt.Errorf("run evodash-tui: %w", err)
			}

			return nil
		},
	}
}
