package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"evodash/pkg/gateway"
)

// newDocsCmd creates the "evodash docs" subcommand.
func newDocsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "List recently ingested documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}

			docs, err := client.Documents(cmd.Context(), limit)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(docs) == 0 {
				fmt.Fprintln(w, "no documents ingested")
				return nil
			}

			for _, d := range docs {
				title := d.Title
				if title == "" {
					title = d.URL
				}
				fmt.Fprintf(w, "%-10s  %-4s  %s\n", d.Date, d.Lang, title)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", gateway.DefaultDocumentLimit, "maximum documents to list")

	return cmd
}
