package main

import (
	"github.com/charmbracelet/lipgloss"

	"evodash/pkg/prefs"
)

// Theme defines the visual styling for the evodash dashboard.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Muted     lipgloss.Color
}

// DefaultTheme returns the default color theme.
func DefaultTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("12"),  // Blue
		Secondary: lipgloss.Color("14"),  // Cyan
		Success:   lipgloss.Color("10"),  // Green
		Warning:   lipgloss.Color("11"),  // Yellow
		Error:     lipgloss.Color("9"),   // Red
		Muted:     lipgloss.Color("240"), // Gray
	}
}

// MonoTheme returns a monochrome theme for restricted terminals.
func MonoTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("15"),
		Secondary: lipgloss.Color("7"),
		Success:   lipgloss.Color("15"),
		Warning:   lipgloss.Color("7"),
		Error:     lipgloss.Color("15"),
		Muted:     lipgloss.Color("8"),
	}
}

// themeFor maps an operator theme preference to a Theme.
func themeFor(name string) Theme {
	if name == prefs.ThemeMono {
		return MonoTheme()
	}
	return DefaultTheme()
}
