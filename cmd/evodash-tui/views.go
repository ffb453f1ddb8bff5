package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"evodash/pkg/gateway"
)

// tabNames label the switchable views in order.
var tabNames = []string{"1 Vue d'ensemble", "2 Événements", "3 Sources", "4 Paramètres", "5 Recherche"}

// View implements tea.Model.
func (m Model) View() string {
	header := m.renderHeader()
	status := m.renderStatusBar()

	var body string
	switch m.activeView {
	case viewEvents:
		body = m.renderEvents()
	case viewSources:
		body = m.tbl.View()
	case viewSettings:
		body = m.renderSettings()
	case viewSearch:
		body = m.renderSearch()
	case viewHelp:
		body = renderHelp(m.app.Theme)
	default:
		body = m.renderOverview()
	}

	return header + "\n" + status + "\n" + body
}

// renderHeader renders the view tabs.
func (m Model) renderHeader() string {
	theme := m.app.Theme
	active := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary)
	inactive := lipgloss.NewStyle().Foreground(theme.Muted)

	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		if view(i) == m.activeView {
			parts[i] = active.Render(name)
		} else {
			parts[i] = inactive.Render(name)
		}
	}
	return strings.Join(parts, "   ")
}

// renderStatusBar renders backend health, the last action outcome and any
// fetch failure while the views show stale data.
func (m Model) renderStatusBar() string {
	theme := m.app.Theme

	var backend string
	if h, ok := m.app.health.Get(); ok && h.Status == "ok" {
		backend = lipgloss.NewStyle().Foreground(theme.Success).Render("backend: ok")
	} else {
		backend = lipgloss.NewStyle().Foreground(theme.Error).Render("backend: hors ligne")
	}

	parts := []string{backend}

	if metrics, ok := m.app.metrics.Get(); ok {
		docs := metrics.Documents
		if docs == 0 {
			docs = metrics.NbDocs
		}
		parts = append(parts, fmt.Sprintf("docs: %d  sources: %d", docs, metrics.NbSources))
	}

	if m.pending != "" {
		parts = append(parts, m.spin.View()+string(m.pending))
	} else if m.lastResult != nil {
		style := lipgloss.NewStyle().Foreground(theme.Success)
		if m.lastResult.Failed() {
			style = lipgloss.NewStyle().Foreground(theme.Error)
		}
		parts = append(parts, style.Render(m.lastResult.Message))
	}

	if m.fetchErr != nil {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(theme.Warning).Render("données périmées: "+m.fetchErr.Error()))
	}

	parts = append(parts, lipgloss.NewStyle().Foreground(theme.Muted).Render(m.localeName()+" | ? aide | q quitter"))

	return strings.Join(parts, "  |  ")
}

// renderOverview renders the metrics and index-version cards.
func (m Model) renderOverview() string {
	theme := m.app.Theme
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary)
	muted := lipgloss.NewStyle().Foreground(theme.Muted)

	var b strings.Builder

	metrics, ok := m.app.metrics.Get()
	if !ok {
		b.WriteString(muted.Render("chargement des métriques…"))
		b.WriteString("\n")
	} else {
		docs := metrics.Documents
		if docs == 0 {
			docs = metrics.NbDocs
		}
		b.WriteString(title.Render("Corpus"))
		b.WriteString(fmt.Sprintf("\n  documents: %d   sources: %d   couverture: %.1f%%\n",
			docs, metrics.NbSources, metrics.Coverage*100))
		if metrics.FreshnessDays != nil {
			b.WriteString(fmt.Sprintf("  fraîcheur: %.1f jours\n", *metrics.FreshnessDays))
		}

		if ci := metrics.CI; ci != nil {
			b.WriteString(title.Render("\nÉvaluation"))
			b.WriteString("\n  " + renderScore("globale", ci.Overall) +
				renderScore("exacte", ci.Exact) +
				renderScore("ancrage", ci.Groundedness) + "\n")
		}
	}

	if history, ok := m.app.history.Get(); ok && len(history) > 0 {
		b.WriteString(title.Render("\nHistorique des scores"))
		b.WriteString("\n  " + renderSparkline(history) + "\n")
	}

	// Recent-events card, fed by the snapshot projection. The live tail on
	// the events view refreshes on its own cadence.
	if recent, ok := m.app.recent.Get(); ok && len(recent) > 0 {
		b.WriteString(title.Render("\nÉvénements récents"))
		b.WriteString("\n")
		n := len(recent)
		if n > 5 {
			n = 5
		}
		for i := n - 1; i >= 0; i-- {
			b.WriteString("  " + eventLine(recent[i], m.width-2) + "\n")
		}
	}

	if versions, ok := m.app.versions.Get(); ok && len(versions) > 0 {
		b.WriteString(title.Render("\nVersions d'index"))
		b.WriteString("\n")
		for _, v := range versions {
			marker := "  "
			if v.Status == "active" {
				marker = "▸ "
			}
			b.WriteString(fmt.Sprintf("%s%d  %-8s  docs=%d\n", marker, v.ID, v.Status, v.DocCount))
		}
	}

	b.WriteString(muted.Render("\nc crawl  i index  d découverte  g ingestion  e évaluation  s seed  r rafraîchir"))
	return b.String()
}

// renderScore formats one optional evaluation sub-score.
func renderScore(name string, v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%s: %.3f   ", name, *v)
}

// renderSparkline maps the overall score of each past evaluation run onto
// eight block levels, oldest run first. Runs without an overall score render
// as a middle dot.
func renderSparkline(history []gateway.CIScore) string {
	levels := []rune("▁▂▃▄▅▆▇█")

	var b strings.Builder
	for i := len(history) - 1; i >= 0; i-- {
		s := history[i].Overall
		if s == nil {
			b.WriteRune('·')
			continue
		}
		v := *s
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		b.WriteRune(levels[int(v*float64(len(levels)-1))])
	}
	return b.String()
}

// renderSearch renders the query prompt and the last answer.
func (m Model) renderSearch() string {
	theme := m.app.Theme
	muted := lipgloss.NewStyle().Foreground(theme.Muted)
	errStyle := lipgloss.NewStyle().Foreground(theme.Error)

	var b strings.Builder
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")

	switch {
	case m.searchBusy:
		b.WriteString(m.spin.View() + " recherche en cours…")
	case m.searchErr != nil:
		b.WriteString(errStyle.Render("recherche impossible: " + m.searchErr.Error()))
	case m.searchResult == nil:
		b.WriteString(muted.Render("entrée: interroger le corpus  |  échap: retour"))
	case m.searchResult.Error != "":
		b.WriteString(errStyle.Render(m.searchResult.Error))
	default:
		res := m.searchResult
		b.WriteString(res.Answer)
		b.WriteString("\n\n")
		b.WriteString(muted.Render(fmt.Sprintf("confiance: %.2f", res.Confidence)))
		for _, s := range res.Sources {
			switch len(s) {
			case 0:
			case 1:
				b.WriteString("\n  - " + s[0])
			default:
				b.WriteString(fmt.Sprintf("\n  - %s (%s)", s[0], s[1]))
			}
		}
	}
	return b.String()
}

// renderEvents renders the tail viewport with a pin indicator.
func (m Model) renderEvents() string {
	if !m.vpReady {
		return "chargement…"
	}

	footer := ""
	if !m.autoScroll {
		footer = "\n" + lipgloss.NewStyle().Foreground(m.app.Theme.Warning).
			Render("défilement suspendu — G pour reprendre")
	}
	return m.vp.View() + footer
}

// eventLine formats one event, truncated to width runes. Truncation counts
// runes, not bytes, so accented messages are never split mid-character.
func eventLine(e gateway.Event, width int) string {
	line := fmt.Sprintf("%s  %-10s %-7s %s", e.TS, e.Stage, e.Level, e.Message)
	if width > 0 {
		if r := []rune(line); len(r) > width {
			line = string(r[:width])
		}
	}
	return line
}

// renderEventLines formats the event window oldest first for the viewport.
func renderEventLines(events []gateway.Event, width int) string {
	var b strings.Builder
	for i := len(events) - 1; i >= 0; i-- {
		b.WriteString(eventLine(events[i], width))
		b.WriteString("\n")
	}
	return b.String()
}

// renderSettings renders the settings list with the toggle cursor.
func (m Model) renderSettings() string {
	theme := m.app.Theme
	muted := lipgloss.NewStyle().Foreground(theme.Muted)

	settings, ok := m.app.settings.Get()
	if !ok {
		return muted.Render("chargement des paramètres…")
	}

	keys := m.sortedSettingKeys()
	if len(keys) == 0 {
		return muted.Render("aucun paramètre")
	}

	selected := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary)

	var b strings.Builder
	for i, k := range keys {
		line := fmt.Sprintf("%-30s %v", k, settings[k])
		if i == m.settingsCursor {
			b.WriteString(selected.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString(muted.Render("\nentrée: inverser le paramètre sélectionné"))
	return b.String()
}
