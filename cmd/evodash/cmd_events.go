package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"evodash/pkg/eventlog"
	"evodash/pkg/feed"
	"evodash/pkg/gateway"
)

// eventsConfig holds configuration for the events command.
type eventsConfig struct {
	limit  int
	follow bool
	stage  string
	level  string
	record bool
	local  bool
	dbPath string
}

// newEventsCmd creates the "evodash events" subcommand.
func newEventsCmd() *cobra.Command {
	var cfg eventsConfig

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show and tail backend pipeline events",
		Long:  "Displays the backend event window, oldest first.\nWith --follow new events are polled continuously; with --record every\nfetched window is archived locally; with --local the archive is read\ninstead of the backend.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.dbPath == "" {
				cfg.dbPath = eventlog.DefaultDBPath()
			}

			if cfg.local {
				return printLocalEvents(cmd, cfg)
			}

			client, appCfg, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}

			var archive *eventlog.Archive
			if cfg.record {
				archive, err = eventlog.Open(cfg.dbPath)
				if err != nil {
					return err
				}
				defer archive.Close()
			}

			if cfg.follow {
				return followEvents(cmd.Context(), cmd.OutOrStdout(), client, archive, cfg, appCfg.TailInterval())
			}

			return printEvents(cmd.Context(), cmd.OutOrStdout(), client, archive, cfg)
		},
	}

	cmd.Flags().IntVar(&cfg.limit, "limit", gateway.DefaultEventLimit, "number of recent events to fetch")
	cmd.Flags().BoolVarP(&cfg.follow, "follow", "f", false, "poll for new events continuously")
	cmd.Flags().StringVar(&cfg.stage, "stage", "", "only show events from this pipeline stage")
	cmd.Flags().StringVar(&cfg.level, "level", "", "only show events at this level")
	cmd.Flags().BoolVar(&cfg.record, "record", false, "archive fetched events locally")
	cmd.Flags().BoolVar(&cfg.local, "local", false, "read from the local archive instead of the backend")
	cmd.Flags().StringVar(&cfg.dbPath, "db", "", "archive path (default ~/.evodash/events.db)")

	return cmd
}

// matchEvent applies the stage/level display filter.
func matchEvent(cfg eventsConfig, e gateway.Event) bool {
	if cfg.stage != "" && e.Stage != cfg.stage {
		return false
	}
	if cfg.level != "" && e.Level != cfg.level {
		return false
	}
	return true
}

// formatEvent writes a single event in a human-readable line.
func formatEvent(w io.Writer, e gateway.Event) {
	fmt.Fprintf(w, "%s  %-10s %-7s %s\n", e.TS, e.Stage, e.Level, e.Message)
}

// chronological reverses the newest-first backend window in place so events
// read top to bottom in time order.
func chronological(events []gateway.Event) {
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
}

// fetchWindow retrieves one event window, archiving it when recording.
func fetchWindow(ctx context.Context, client *gateway.Client, archive *eventlog.Archive, limit int) ([]gateway.Event, error) {
	events, err := client.Events(ctx, limit)
	if err != nil {
		return nil, err
	}
	if archive != nil {
		if _, err := archive.Append(ctx, events); err != nil {
			return nil, fmt.Errorf("archive events: %w", err)
		}
	}
	return events, nil
}

// printEvents fetches and displays one window.
func printEvents(ctx context.Context, w io.Writer, client *gateway.Client, archive *eventlog.Archive, cfg eventsConfig) error {
	events, err := fetchWindow(ctx, client, archive, cfg.limit)
	if err != nil {
		return err
	}

	chronological(events)

	shown := 0
	for _, e := range events {
		if matchEvent(cfg, e) {
			formatEvent(w, e)
			shown++
		}
	}
	if shown == 0 {
		fmt.Fprintln(w, "no events")
	}
	return nil
}

// eventKey identifies an event for follow-mode deduplication.
func eventKey(e gateway.Event) string {
	return e.TS + "|" + e.Stage + "|" + e.Message
}

// followEvents prints the current window, then polls and prints events not
// seen before. The seen set is rebuilt from each window, so memory stays
// bounded by the fetch limit. A fetch failure ends the follow with its error;
// cancelling the context ends it cleanly.
func followEvents(ctx context.Context, w io.Writer, client *gateway.Client, archive *eventlog.Archive, cfg eventsConfig, interval time.Duration) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	seen := make(map[string]bool)
	var failure error

	puller := &feed.Puller[[]gateway.Event]{
		Interval: interval,
		Proj:     &feed.Projection[[]gateway.Event]{},
		Fetch: func(ctx context.Context) ([]gateway.Event, error) {
			return fetchWindow(ctx, client, archive, gateway.DefaultTailLimit)
		},
		OnUpdate: func(window []gateway.Event) {
			events := append([]gateway.Event(nil), window...)
			chronological(events)

			next := make(map[string]bool, len(events))
			for _, e := range events {
				key := eventKey(e)
				next[key] = true
				if !seen[key] && matchEvent(cfg, e) {
					formatEvent(w, e)
				}
			}
			seen = next
		},
		OnError: func(err error) {
			// Cancellation is a clean stop, not a fetch failure.
			if ctx.Err() != nil {
				return
			}
			failure = err
			cancel()
		},
	}

	puller.Run(ctx)
	return failure
}

// printLocalEvents reads the local archive instead of the backend.
func printLocalEvents(cmd *cobra.Command, cfg eventsConfig) error {
	reader, err := eventlog.NewReader(cfg.dbPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	records, err := reader.Query(cmd.Context(), eventlog.QueryOpts{
		Stage: cfg.stage,
		Level: cfg.level,
		Limit: cfg.limit,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(w, "no archived events")
		return nil
	}

	// Archive queries return newest first; flip for reading order.
	for i := len(records) - 1; i >= 0; i-- {
		formatEvent(w, records[i].Event)
	}
	return nil
}
