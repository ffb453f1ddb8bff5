package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"evodash/pkg/gateway"
)

// newSearchCmd creates the "evodash search" subcommand.
func newSearchCmd() *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "search <question...>",
		Short: "Ask the backend a retrieval-augmented question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}

			res, err := client.Search(cmd.Context(), strings.Join(args, " "), k)
			if err != nil {
				return err
			}
			if res.Error != "" {
				return fmt.Errorf("backend error: %s", res.Error)
			}

			st := newStyles(cmd.OutOrStdout())
			w := cmd.OutOrStdout()

			fmt.Fprintln(w, res.Answer)
			if res.Confidence > 0 {
				fmt.Fprintf(w, "\n%s %.2f\n", st.dim.Render("confidence:"), res.Confidence)
			}
			if len(res.Sources) > 0 {
				fmt.Fprintln(w, st.title.Render("\nSources"))
				for _, s := range res.Sources {
					switch len(s) {
					case 0:
					case 1:
						fmt.Fprintf(w, "  - %s\n", s[0])
					default:
						fmt.Fprintf(w, "  - %s (%s)\n", s[0], s[1])
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&k, "k", gateway.DefaultSearchK, "number of chunks to retrieve")

	return cmd
}
