package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// newMetricsCmd creates the "evodash metrics" subcommand.
func newMetricsCmd() *cobra.Command {
	var history int

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show corpus and evaluation metrics",
		Long:  "Prints the current metrics snapshot, or past evaluation runs with --history.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}

			if history > 0 {
				return printHistory(cmd, history)
			}

			m, err := client.Metrics(cmd.Context())
			if err != nil {
				return err
			}

			st := newStyles(cmd.OutOrStdout())
			w := cmd.OutOrStdout()

			docs := m.Documents
			if docs == 0 {
				docs = m.NbDocs
			}

			fmt.Fprintln(w, st.title.Render("Corpus"))
			fmt.Fprintf(w, "  documents:  %d\n", docs)
			fmt.Fprintf(w, "  sources:    %d\n", m.NbSources)
			fmt.Fprintf(w, "  coverage:   %.1f%%\n", m.Coverage*100)
			if m.FreshnessDays != nil {
				fmt.Fprintf(w, "  freshness:  %.1f days\n", *m.FreshnessDays)
			}
			if m.LastUpdate != "" {
				fmt.Fprintf(w, "  updated:    %s\n", m.LastUpdate)
			}

			if m.CI != nil {
				fmt.Fprintln(w, st.title.Render("Evaluation"))
				printScore(w, "overall", m.CI.Overall)
				printScore(w, "exact", m.CI.Exact)
				printScore(w, "grounded", m.CI.Groundedness)
				printScore(w, "freshness", m.CI.Freshness)
				if m.CI.UpdatedAt != "" {
					fmt.Fprintf(w, "  scored:     %s\n", m.CI.UpdatedAt)
				}
			}

			if len(m.DiscoveryQueries) > 0 {
				fmt.Fprintln(w, st.title.Render("Discovery queries"))
				for _, q := range m.DiscoveryQueries {
					fmt.Fprintf(w, "  - %s\n", q)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&history, "history", 0, "show the last N evaluation runs instead of the snapshot")

	return cmd
}

// printScore prints one optional sub-score line.
func printScore(w io.Writer, name string, v *float64) {
	if v == nil {
		return
	}
	fmt.Fprintf(w, "  %-10s  %.3f\n", name+":", *v)
}

// printHistory lists past evaluation runs, newest first.
func printHistory(cmd *cobra.Command, limit int) error {
	client, _, err := clientFromFlags(cmd)
	if err != nil {
		return err
	}

	scores, err := client.MetricsHistory(cmd.Context(), limit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(scores) == 0 {
		fmt.Fprintln(w, "no evaluation runs recorded")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-8s  %-8s  %-8s\n", "ts", "overall", "exact", "grounded")
	for _, s := range scores {
		fmt.Fprintf(w, "%-20s  %-8s  %-8s  %-8s\n",
			s.TS, fmtScore(s.Overall), fmtScore(s.Exact), fmtScore(s.Groundedness))
	}
	return nil
}

// fmtScore renders an optional score for the history table.
func fmtScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.3f", *v)
}
