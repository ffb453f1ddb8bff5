package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// helpEntry is one key binding line in the help view.
type helpEntry struct {
	key  string
	desc string
}

var helpEntries = []helpEntry{
	{"1-5", "changer de vue"},
	{"tab", "vue suivante"},
	{"/", "recherche"},
	{"c", "lancer un crawl"},
	{"i", "lancer l'indexation"},
	{"d", "lancer la découverte (arrière-plan)"},
	{"g", "lancer l'ingestion complète (arrière-plan)"},
	{"e", "lancer une évaluation"},
	{"s", "dériver de nouveaux sujets"},
	{"r", "rafraîchir toutes les vues"},
	{"j/k, ↑/↓", "naviguer / faire défiler"},
	{"G, fin", "reprendre le suivi des événements"},
	{"x", "supprimer la source sélectionnée"},
	{"entrée", "inverser le paramètre sélectionné"},
	{"?", "cette aide"},
	{"q", "quitter"},
}

// renderHelp renders the key binding reference.
func renderHelp(theme Theme) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary)
	keyStyle := lipgloss.NewStyle().Foreground(theme.Secondary)

	var b strings.Builder
	b.WriteString(title.Render("Raccourcis"))
	b.WriteString("\n\n")
	for _, e := range helpEntries {
		b.WriteString("  ")
		b.WriteString(keyStyle.Render(padRight(e.key, 12)))
		b.WriteString(e.desc)
		b.WriteString("\n")
	}
	b.WriteString("\nesc pour revenir")
	return b.String()
}

// padRight pads s with spaces to at least n characters.
func padRight(s string, n int) string {
	for len(s) < n {
		s += " "
	}
	return s
}
