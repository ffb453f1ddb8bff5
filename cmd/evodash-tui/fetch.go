package main

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"evodash/pkg/gateway"
)

// snapshotTickMsg drives the coarse refresh of metrics, sources, settings
// and index versions.
type snapshotTickMsg time.Time

// tailTickMsg drives the faster event tail refresh.
type tailTickMsg time.Time

// Data messages carry the issue sequence of the fetch that produced them so
// the projection can discard a stale response that resolves late.
type (
	healthMsg struct {
		seq  uint64
		data gateway.Health
		err  error
	}
	metricsMsg struct {
		seq  uint64
		data gateway.Metrics
		err  error
	}
	eventsMsg struct {
		seq  uint64
		data []gateway.Event
		err  error
	}
	sourcesMsg struct {
		seq  uint64
		data []gateway.Source
		err  error
	}
	settingsMsg struct {
		seq  uint64
		data gateway.Settings
		err  error
	}
	versionsMsg struct {
		seq  uint64
		data []gateway.IndexVersion
		err  error
	}
	historyMsg struct {
		seq  uint64
		data []gateway.CIScore
		err  error
	}
	recentEventsMsg struct {
		seq  uint64
		data []gateway.Event
		err  error
	}
)

// searchMsg carries the outcome of a one-shot search submitted from the
// search view. Submissions are gated one at a time, so no sequence guard.
type searchMsg struct {
	data gateway.SearchResult
	err  error
}

// snapshotTickCmd schedules the next coarse refresh.
func snapshotTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return snapshotTickMsg(t)
	})
}

// tailTickCmd schedules the next event tail refresh.
func tailTickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tailTickMsg(t)
	})
}

// fetchCtx bounds one background fetch.
func (a *App) fetchCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.Cfg.RequestTimeout())
}

func (a *App) fetchHealthCmd() tea.Cmd {
	seq := a.health.Begin()
	return func() tea.Msg {
		ctx, cancel := a.fetchCtx()
		defer cancel()
		h, err := a.Client.Health(ctx)
		return healthMsg{seq: seq, data: h, err: err}
	}
}

func (a *App) fetchMetricsCmd() tea.Cmd {
	seq := a.metrics.Begin()
	return func() tea.Msg {
		ctx, cancel := a.fetchCtx()
		defer cancel()
		m, err := a.Client.Metrics(ctx)
		return metricsMsg{seq: seq, data: m, err: err}
	}
}

// fetchEventsCmd pulls the live tail window. The tail over-fetches relative
// to the snapshot view so a polling transport approximates a stream. With an
// archive attached, every fetched window is recorded before display; the
// archive dedups overlapping windows itself.
func (a *App) fetchEventsCmd() tea.Cmd {
	seq := a.events.Begin()
	return func() tea.Msg {
		ctx, cancel := a.fetchCtx()
		defer cancel()
		evs, err := a.Client.Events(ctx, gateway.DefaultTailLimit)
		if err == nil && a.Archive != nil {
			if _, aerr := a.Archive.Append(ctx, evs); aerr != nil {
				log.Printf("event archive: %v", aerr)
			}
		}
		return eventsMsg{seq: seq, data: evs, err: err}
	}
}

// fetchRecentEventsCmd pulls the coarse snapshot window of the event stream.
// It refreshes on the snapshot tick, independently of the tail, so the two
// projections of the same resource advance on their own cadences.
func (a *App) fetchRecentEventsCmd() tea.Cmd {
	seq := a.recent.Begin()
	return func() tea.Msg {
		ctx, cancel := a.fetchCtx()
		defer cancel()
		evs, err := a.Client.Events(ctx, gateway.DefaultEventLimit)
		return recentEventsMsg{seq: seq, data: evs, err: err}
	}
}

func (a *App) fetchHistoryCmd() tea.Cmd {
	seq := a.history.Begin()
	return func() tea.Msg {
		ctx, cancel := a.fetchCtx()
		defer cancel()
		hs, err := a.Client.MetricsHistory(ctx, gateway.DefaultHistoryLimit)
		return historyMsg{seq: seq, data: hs, err: err}
	}
}

// searchCmd submits one retrieval-augmented query.
func (a *App) searchCmd(query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := a.fetchCtx()
		defer cancel()
		res, err := a.Client.Search(ctx, query, gateway.DefaultSearchK)
		return searchMsg{data: res, err: err}
	}
}

func (a *App) fetchSourcesCmd() tea.Cmd {
	seq := a.sources.Begin()
	return func() tea.Msg {
		ctx, cancel := a.fetchCtx()
		defer cancel()
		srcs, err := a.Client.Sources(ctx, gateway.DefaultSourceLimit, 0)
		return sourcesMsg{seq: seq, data: srcs, err: err}
	}
}

func (a *App) fetchSettingsCmd() tea.Cmd {
	seq := a.settings.Begin()
	return func() tea.Msg {
		ctx, cancel := a.fetchCtx()
		defer cancel()
		s, err := a.Client.Settings(ctx)
		return settingsMsg{seq: seq, data: s, err: err}
	}
}

func (a *App) fetchVersionsCmd() tea.Cmd {
	seq := a.versions.Begin()
	return func() tea.Msg {
		ctx, cancel := a.fetchCtx()
		defer cancel()
		vs, err := a.Client.IndexVersions(ctx)
		return versionsMsg{seq: seq, data: vs, err: err}
	}
}

// snapshotBatch fetches every coarse-cadence resource.
func (a *App) snapshotBatch() tea.Cmd {
	return tea.Batch(
		a.fetchHealthCmd(),
		a.fetchMetricsCmd(),
		a.fetchHistoryCmd(),
		a.fetchRecentEventsCmd(),
		a.fetchSourcesCmd(),
		a.fetchSettingsCmd(),
		a.fetchVersionsCmd(),
	)
}
