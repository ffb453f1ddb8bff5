package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"evodash/pkg/action"
	"evodash/pkg/gateway"
	"evodash/pkg/prefs"
)

// view identifies a dashboard screen.
type view int

const (
	viewOverview view = iota
	viewEvents
	viewSources
	viewSettings
	viewSearch
	viewHelp
)

// numTabs counts the views reachable through the tab cycle; help is not one.
const numTabs = 5

// Model is the Bubble Tea model for the evodash dashboard.
type Model struct {
	app *App

	activeView view
	width      int
	height     int

	// Events view. autoScroll pins the viewport to the newest event; it is
	// suspended while the operator scrolls back and resumes on demand.
	vp                viewport.Model
	vpReady           bool
	autoScroll        bool
	lastEventsVersion uint64

	// Sources view.
	tbl table.Model

	// Settings view.
	settingsCursor int

	// Search view. searchBusy gates submissions one at a time.
	searchInput  textinput.Model
	searchBusy   bool
	searchResult *gateway.SearchResult
	searchErr    error

	// Action state. pending is non-empty while a dispatched command runs.
	spin       spinner.Model
	pending    action.Command
	lastResult *action.Result

	// Most recent fetch failure, shown in the status bar while data stays
	// stale-but-present.
	fetchErr error
}

// newModel creates the dashboard model around a shared App.
func newModel(app *App) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	tbl := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Kind", Width: 8},
			{Title: "URL", Width: 60},
			{Title: "Added", Width: 20},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	ti := textinput.New()
	ti.Placeholder = "poser une question au corpus…"
	ti.CharLimit = 300
	ti.Width = 60

	return Model{
		app:         app,
		activeView:  viewOverview,
		autoScroll:  true,
		spin:        sp,
		tbl:         tbl,
		searchInput: ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.app.snapshotBatch(),
		m.app.fetchEventsCmd(),
		snapshotTickCmd(m.app.Cfg.SnapshotInterval()),
		tailTickCmd(m.app.Cfg.TailInterval()),
		watchConfigCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case snapshotTickMsg:
		return m, tea.Batch(m.app.snapshotBatch(), snapshotTickCmd(m.app.Cfg.SnapshotInterval()))

	case tailTickMsg:
		return m, tea.Batch(m.app.fetchEventsCmd(), tailTickCmd(m.app.Cfg.TailInterval()))

	case healthMsg:
		m.applyFetch(msg.err, func() bool { return m.app.health.Resolve(msg.seq, msg.data) }, msg.seq, failHealth(m.app))

	case metricsMsg:
		m.applyFetch(msg.err, func() bool { return m.app.metrics.Resolve(msg.seq, msg.data) }, msg.seq, failMetrics(m.app))

	case eventsMsg:
		m.applyFetch(msg.err, func() bool { return m.app.events.Resolve(msg.seq, msg.data) }, msg.seq, failEvents(m.app))
		m.refreshEventsViewport()

	case sourcesMsg:
		m.applyFetch(msg.err, func() bool { return m.app.sources.Resolve(msg.seq, msg.data) }, msg.seq, failSources(m.app))
		m.refreshSourcesTable()

	case settingsMsg:
		m.applyFetch(msg.err, func() bool { return m.app.settings.Resolve(msg.seq, msg.data) }, msg.seq, failSettings(m.app))
		m.clampSettingsCursor()

	case versionsMsg:
		m.applyFetch(msg.err, func() bool { return m.app.versions.Resolve(msg.seq, msg.data) }, msg.seq, failVersions(m.app))

	case historyMsg:
		m.applyFetch(msg.err, func() bool { return m.app.history.Resolve(msg.seq, msg.data) }, msg.seq, failHistory(m.app))

	case recentEventsMsg:
		m.applyFetch(msg.err, func() bool { return m.app.recent.Resolve(msg.seq, msg.data) }, msg.seq, failRecent(m.app))

	case searchMsg:
		m.searchBusy = false
		if msg.err != nil {
			m.searchErr = msg.err
		} else {
			r := msg.data
			m.searchResult = &r
			m.searchErr = nil
		}

	case actionMsg:
		m.pending = ""
		r := action.Result(msg)
		m.lastResult = &r
		if cmds := m.app.drainInvalidations(); len(cmds) > 0 {
			return m, tea.Batch(cmds...)
		}

	case spinner.TickMsg:
		if m.pending != "" || m.searchBusy {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}

	case configChangedMsg:
		m.reloadConfig()
		return m, tea.Batch(m.app.snapshotBatch(), m.app.fetchEventsCmd(), watchConfigCmd())
	}

	return m, nil
}

// applyFetch routes one fetch outcome into its projection and tracks the
// latest fetch failure for the status bar.
func (m *Model) applyFetch(err error, resolve func() bool, seq uint64, fail func(uint64)) {
	if err != nil {
		fail(seq)
		m.fetchErr = err
		return
	}
	resolve()
	m.fetchErr = nil
}

// The projections are generic, so Fail cannot be passed method-value style
// without naming the instantiation.
func failHealth(a *App) func(uint64)   { return a.health.Fail }
func failMetrics(a *App) func(uint64)  { return a.metrics.Fail }
func failEvents(a *App) func(uint64)   { return a.events.Fail }
func failSources(a *App) func(uint64)  { return a.sources.Fail }
func failSettings(a *App) func(uint64) { return a.settings.Fail }
func failVersions(a *App) func(uint64) { return a.versions.Fail }
func failHistory(a *App) func(uint64)  { return a.history.Fail }
func failRecent(a *App) func(uint64)   { return a.recent.Fail }

// resize recomputes widget dimensions after a terminal size change.
func (m *Model) resize() {
	contentHeight := m.height - 4
	if contentHeight < 1 {
		contentHeight = 1
	}

	if !m.vpReady {
		m.vp = viewport.New(m.width, contentHeight)
		m.vpReady = true
	} else {
		m.vp.Width = m.width
		m.vp.Height = contentHeight
	}

	m.tbl.SetHeight(contentHeight)
	if m.width > 10 {
		m.searchInput.Width = m.width - 4
	}
	m.refreshEventsViewport()
}

// refreshEventsViewport re-renders the tail content. When pinned, the view
// snaps to the newest event only after the projection actually advanced.
func (m *Model) refreshEventsViewport() {
	if !m.vpReady {
		return
	}

	events, ok := m.app.events.Get()
	if !ok {
		return
	}

	m.vp.SetContent(renderEventLines(events, m.width))

	version := m.app.events.Version()
	if m.autoScroll && version != m.lastEventsVersion {
		m.vp.GotoBottom()
	}
	m.lastEventsVersion = version
}

// refreshSourcesTable rebuilds the table rows from the sources projection.
func (m *Model) refreshSourcesTable() {
	sources, ok := m.app.sources.Get()
	if !ok {
		return
	}

	rows := make([]table.Row, len(sources))
	for i, s := range sources {
		rows[i] = table.Row{fmt.Sprintf("%d", s.ID), s.Kind, s.URL, s.CreatedAt}
	}
	m.tbl.SetRows(rows)
}

// sortedSettingKeys returns the settings keys in display order.
func (m Model) sortedSettingKeys() []string {
	settings, ok := m.app.settings.Get()
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// clampSettingsCursor keeps the cursor inside the refreshed key list.
func (m *Model) clampSettingsCursor() {
	n := len(m.sortedSettingKeys())
	if n == 0 {
		m.settingsCursor = 0
		return
	}
	if m.settingsCursor >= n {
		m.settingsCursor = n - 1
	}
}

// reloadConfig re-resolves config and preferences after the config file
// changed on disk and rebuilds the client against the new base URL.
func (m *Model) reloadConfig() {
	cfg, err := resolveConfig()
	if err != nil {
		m.fetchErr = err
		return
	}
	p := resolvePrefs()

	m.app.Cfg = cfg
	m.app.Prefs = p
	m.app.Theme = themeFor(p.Theme)
	m.app.rebuildClient()
}

// handleKeyPress processes keyboard input. The search view captures raw
// keystrokes for its input field, so the global bindings apply everywhere
// else only.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.activeView == viewSearch {
		return m.handleSearchKeys(msg)
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "1":
		m.activeView = viewOverview
		return m, nil
	case "2":
		m.activeView = viewEvents
		return m, nil
	case "3":
		m.activeView = viewSources
		return m, nil
	case "4":
		m.activeView = viewSettings
		return m, nil
	case "5", "/":
		m.activeView = viewSearch
		return m, m.searchInput.Focus()
	case "?":
		m.activeView = viewHelp
		return m, nil
	case "tab":
		m.activeView = (m.activeView + 1) % numTabs
		if m.activeView == viewSearch {
			return m, m.searchInput.Focus()
		}
		return m, nil
	}

	switch m.activeView {
	case viewEvents:
		return m.handleEventsKeys(msg)
	case viewSources:
		return m.handleSourcesKeys(msg)
	case viewSettings:
		return m.handleSettingsKeys(key)
	case viewHelp:
		if key == "esc" {
			m.activeView = viewOverview
		}
		return m, nil
	default:
		return m.handleOverviewKeys(key)
	}
}

// handleSearchKeys drives the query input. Enter submits, esc returns to the
// overview, anything else edits the query.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.activeView = viewOverview
		m.searchInput.Blur()
		return m, nil
	case "enter":
		q := strings.TrimSpace(m.searchInput.Value())
		if q == "" || m.searchBusy {
			return m, nil
		}
		m.searchBusy = true
		m.searchErr = nil
		return m, tea.Batch(m.app.searchCmd(q), m.spin.Tick)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// dispatch starts one command and switches the status line to pending.
func (m Model) dispatch(cmd action.Command, fn func(*action.Dispatcher) action.Result) (tea.Model, tea.Cmd) {
	if m.pending != "" {
		// One action at a time from the dashboard; the CLI is the tool for
		// scripted parallel runs.
		return m, nil
	}
	m.pending = cmd
	return m, tea.Batch(m.app.dispatchCmd(fn), m.spin.Tick)
}

// handleOverviewKeys processes the trigger keys on the overview.
func (m Model) handleOverviewKeys(key string) (tea.Model, tea.Cmd) {
	app := m.app
	switch key {
	case "c":
		return m.dispatch(action.Crawl, func(d *action.Dispatcher) action.Result {
			return d.Crawl(context.Background(), gateway.DefaultCrawlLimit)
		})
	case "i":
		return m.dispatch(action.Index, func(d *action.Dispatcher) action.Result {
			return d.Index(context.Background(), 0)
		})
	case "d":
		return m.dispatch(action.Discover, func(d *action.Dispatcher) action.Result {
			return d.Discover(context.Background(), gateway.DiscoverParams{}, true)
		})
	case "g":
		return m.dispatch(action.Ingest, func(d *action.Dispatcher) action.Result {
			return d.Ingest(context.Background(), gateway.IngestParams{}, true)
		})
	case "e":
		return m.dispatch(action.Evaluate, func(d *action.Dispatcher) action.Result {
			return d.Evaluate(context.Background(), nil, false)
		})
	case "s":
		return m.dispatch(action.Seed, func(d *action.Dispatcher) action.Result {
			return d.Seed(context.Background(), 0)
		})
	case "r":
		return m, tea.Batch(app.snapshotBatch(), app.fetchEventsCmd())
	}
	return m, nil
}

// handleEventsKeys scrolls the tail. Scrolling up suspends the pin to the
// newest event; G or end resumes it.
func (m Model) handleEventsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "pgup", "b":
		m.autoScroll = false
	case "G", "end":
		m.autoScroll = true
		m.vp.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	if m.vp.AtBottom() {
		m.autoScroll = true
	}
	return m, cmd
}

// handleSourcesKeys navigates the sources table and deletes on x.
func (m Model) handleSourcesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "x" {
		row := m.tbl.SelectedRow()
		if len(row) == 0 {
			return m, nil
		}
		var id int64
		if _, err := fmt.Sscanf(row[0], "%d", &id); err != nil {
			return m, nil
		}
		return m.dispatch(action.SourceDelete, func(d *action.Dispatcher) action.Result {
			return d.DeleteSource(context.Background(), id)
		})
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

// handleSettingsKeys moves the cursor and toggles the selected setting.
func (m Model) handleSettingsKeys(key string) (tea.Model, tea.Cmd) {
	keys := m.sortedSettingKeys()

	switch key {
	case "j", "down":
		if m.settingsCursor < len(keys)-1 {
			m.settingsCursor++
		}
	case "k", "up":
		if m.settingsCursor > 0 {
			m.settingsCursor--
		}
	case "enter", " ":
		if len(keys) == 0 {
			return m, nil
		}
		settings, _ := m.app.settings.Get()
		name := keys[m.settingsCursor]

		current, err := gateway.ParseToggle(settings[name])
		if err != nil {
			// Not a toggle: surface instead of silently writing false.
			m.fetchErr = fmt.Errorf("setting %s: %w", name, err)
			return m, nil
		}
		return m.dispatch(action.SettingSave, func(d *action.Dispatcher) action.Result {
			return d.SaveSetting(context.Background(), name, !current)
		})
	}
	return m, nil
}

// localeName returns the display name of the active locale.
func (m Model) localeName() string {
	if m.app.Prefs.Locale == prefs.LocaleEN {
		return "EN"
	}
	return "FR"
}
