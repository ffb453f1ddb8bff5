package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"evodash/pkg/action"
	"evodash/pkg/gateway"
)

// newSourcesCmd creates the "evodash sources" subcommand group.
func newSourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage crawl sources",
	}

	cmd.AddCommand(
		newSourcesListCmd(),
		newSourcesAddCmd(),
		newSourcesRmCmd(),
		newSourcesTestCmd(),
	)

	return cmd
}

// newSourcesListCmd creates "evodash sources list".
func newSourcesListCmd() *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered crawl sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}

			sources, err := client.Sources(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(sources) == 0 {
				fmt.Fprintln(w, "no sources registered")
				return nil
			}

			for _, s := range sources {
				fmt.Fprintf(w, "%6d  %-6s  %s\n", s.ID, s.Kind, s.URL)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", gateway.DefaultSourceLimit, "maximum sources to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "pagination offset")

	return cmd
}

// newSourcesAddCmd creates "evodash sources add".
func newSourcesAddCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Register a new crawl source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrigger(cmd, func(d *action.Dispatcher) action.Result {
				return d.CreateSource(cmd.Context(), args[0], kind)
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "html", "source kind (html, rss, sitemap)")

	return cmd
}

// newSourcesRmCmd creates "evodash sources rm".
func newSourcesRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a crawl source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid source id %q", args[0])
			}
			return runTrigger(cmd, func(d *action.Dispatcher) action.Result {
				return d.DeleteSource(cmd.Context(), id)
			})
		},
	}
}

// newSourcesTestCmd creates "evodash sources test".
func newSourcesTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test <id>",
		Short: "Check connectivity of a registered source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid source id %q", args[0])
			}

			client, _, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}

			res, err := client.TestSource(cmd.Context(), id)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if res.OK {
				fmt.Fprintf(w, "ok (%d) %s\n", res.Status, res.Message)
				return nil
			}
			fmt.Fprintf(w, "unreachable (%d) %s\n", res.Status, res.Message)
			return fmt.Errorf("source %d is unreachable", id)
		},
	}
}
