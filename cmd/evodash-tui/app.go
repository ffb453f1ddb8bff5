package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"evodash/pkg/action"
	"evodash/pkg/config"
	"evodash/pkg/eventlog"
	"evodash/pkg/feed"
	"evodash/pkg/gateway"
	"evodash/pkg/jobs"
	"evodash/pkg/prefs"
)

// actionMsg carries the final outcome of a dispatched command.
type actionMsg action.Result

// App bundles the backend client, the action dispatcher and the data
// projections. It is shared by reference across Bubble Tea model copies so
// projection state survives Update.
type App struct {
	Client *gateway.Client
	Disp   *action.Dispatcher
	Cfg    config.Config
	Prefs  prefs.Prefs
	Theme  Theme

	health   feed.Projection[gateway.Health]
	metrics  feed.Projection[gateway.Metrics]
	history  feed.Projection[[]gateway.CIScore]
	sources  feed.Projection[[]gateway.Source]
	settings feed.Projection[gateway.Settings]
	versions feed.Projection[[]gateway.IndexVersion]

	// Two independent projections of the same event stream: the fine live
	// tail (tail cadence, large window) and a coarse recent-events snapshot
	// (snapshot cadence, smaller window). They refresh on separate ticks and
	// may briefly observe different backend states.
	events feed.Projection[[]gateway.Event]
	recent feed.Projection[[]gateway.Event]

	// Archive, when non-nil, records every fetched event window locally.
	Archive *eventlog.Archive

	// invalidations receives resources dirtied by successful mutations;
	// the model drains it and refetches those views ahead of their tick.
	invalidations chan action.Resource
}

// newApp wires the gateway, poller and dispatcher from resolved config and
// operator preferences.
func newApp(cfg config.Config, p prefs.Prefs) *App {
	a := &App{
		Cfg:           cfg,
		Prefs:         p,
		Theme:         themeFor(p.Theme),
		invalidations: make(chan action.Resource, 16),
	}
	a.rebuildClient()
	return a
}

// rebuildClient (re)creates the gateway client and dispatcher from the
// current config, e.g. after the config file changed on disk.
func (a *App) rebuildClient() {
	a.Client = gateway.New(a.Cfg.BaseURL, gateway.WithTimeout(a.Cfg.RequestTimeout()))

	poller := jobs.New(a.Client, a.Cfg.PollInterval(), a.Cfg.PollTimeout())
	a.Disp = action.New(a.Client, poller,
		action.WithLocale(a.Prefs.Locale),
		action.WithInvalidator(func(rs ...action.Resource) {
			for _, r := range rs {
				select {
				case a.invalidations <- r:
				default:
				}
			}
		}),
	)
}

// dispatchCmd runs one dispatcher command off the UI goroutine and delivers
// the settled result.
func (a *App) dispatchCmd(fn func(*action.Dispatcher) action.Result) tea.Cmd {
	return func() tea.Msg {
		return actionMsg(fn(a.Disp))
	}
}

// drainInvalidations returns the refetch commands for every resource marked
// dirty since the last drain.
func (a *App) drainInvalidations() []tea.Cmd {
	dirty := map[action.Resource]bool{}
	for {
		select {
		case r := <-a.invalidations:
			dirty[r] = true
		default:
			cmds := make([]tea.Cmd, 0, len(dirty))
			for r := range dirty {
				switch r {
				case action.ResourceMetrics:
					cmds = append(cmds, a.fetchMetricsCmd(), a.fetchHistoryCmd())
				case action.ResourceSources:
					cmds = append(cmds, a.fetchSourcesCmd())
				case action.ResourceSettings:
					cmds = append(cmds, a.fetchSettingsCmd())
				case action.ResourceVersions:
					cmds = append(cmds, a.fetchVersionsCmd())
				case action.ResourceDocuments:
					// No dedicated documents view; the metrics card
					// carries the corpus counters.
					cmds = append(cmds, a.fetchMetricsCmd())
				}
			}
			return cmds
		}
	}
}
