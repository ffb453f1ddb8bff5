// Package prefs persists operator display preferences (locale and theme).
// Preferences are the only client-side state that outlives a session; all
// dashboard data is refetched from the backend.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"evodash/pkg/config"
)

// Supported locales for operator-facing messages.
const (
	LocaleFR = "fr"
	LocaleEN = "en"
)

// Supported dashboard themes.
const (
	ThemeDefault = "default"
	ThemeMono    = "mono"
)

// Prefs holds persisted display preferences.
type Prefs struct {
	// Locale selects operator message language: "fr" (default) or "en".
	Locale string `toml:"locale"`

	// Theme selects the dashboard color theme: "default" or "mono".
	Theme string `toml:"theme"`
}

// Default returns the built-in preferences. The backend emits French
// operator messages, so French is the default locale.
func Default() Prefs {
	return Prefs{Locale: LocaleFR, Theme: ThemeDefault}
}

// DefaultPath returns the preference file path under the evodash home.
func DefaultPath() (string, error) {
	home, err := config.Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "prefs.toml"), nil
}

// Load reads preferences from path. A missing file returns defaults.
// Unknown locale or theme values fall back to the defaults rather than
// propagating a bad value into every view.
func Load(path string) (Prefs, error) {
	p := Default()

	data, err := os.ReadFile(path) //nolint:gosec // path comes from DefaultPath(), not remote input
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return p, fmt.Errorf("read prefs %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse prefs %s: %w", path, err)
	}

	p.normalize()
	return p, nil
}

// Save writes preferences as TOML, creating the parent directory if needed.
func (p Prefs) Save(path string) error {
	p.normalize()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // display prefs are not secret
		return fmt.Errorf("write prefs %s: %w", path, err)
	}

	return nil
}

// normalize clamps unknown values to the defaults.
func (p *Prefs) normalize() {
	switch p.Locale {
	case LocaleFR, LocaleEN:
	default:
		p.Locale = LocaleFR
	}
	switch p.Theme {
	case ThemeDefault, ThemeMono:
	default:
		p.Theme = ThemeDefault
	}
}
