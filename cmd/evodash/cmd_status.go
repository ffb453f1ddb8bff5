package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newStatusCmd creates the "evodash status" subcommand.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check backend health",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}

			h, err := client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("backend %s unreachable: %w", cfg.BaseURL, err)
			}

			st := newStyles(cmd.OutOrStdout())
			w := cmd.OutOrStdout()

			line := fmt.Sprintf("%s (%s)", h.Status, cfg.BaseURL)
			if h.Status == "ok" {
				fmt.Fprintln(w, st.ok.Render(line))
			} else {
				fmt.Fprintln(w, st.err.Render(line))
			}
			if h.Version != "" {
				fmt.Fprintf(w, "version: %s\n", h.Version)
			}
			if h.Env != "" {
				fmt.Fprintf(w, "env:     %s\n", h.Env)
			}
			return nil
		},
	}
}
