package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// styles holds the CLI output styles. Colors apply only when the writer is a
// terminal; piped and test output stays plain.
type styles struct {
	ok    lipgloss.Style
	err   lipgloss.Style
	dim   lipgloss.Style
	title lipgloss.Style
}

// newStyles builds the style set for a writer.
func newStyles(w io.Writer) styles {
	plain := styles{
		ok:    lipgloss.NewStyle(),
		err:   lipgloss.NewStyle(),
		dim:   lipgloss.NewStyle(),
		title: lipgloss.NewStyle(),
	}

	f, isFile := w.(*os.File)
	if !isFile || (!isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())) {
		return plain
	}

	return styles{
		ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		err:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		dim:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		title: lipgloss.NewStyle().Bold(true),
	}
}
