package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"evodash/pkg/config"
	"evodash/pkg/prefs"
)

// configChangedMsg is sent when the evodash home directory changed on disk.
type configChangedMsg struct{}

// resolveConfig loads configuration with environment overrides.
func resolveConfig() (config.Config, error) {
	return config.Resolve()
}

// resolvePrefs loads operator preferences, falling back to defaults.
func resolvePrefs() prefs.Prefs {
	path, err := prefs.DefaultPath()
	if err != nil {
		return prefs.Default()
	}
	p, err := prefs.Load(path)
	if err != nil {
		return prefs.Default()
	}
	return p
}

// watchConfigCmd watches the evodash home for config or preference edits.
// Returns nil when the directory does not exist or the watcher cannot be
// created; the dashboard then runs on its polling cadence alone.
func watchConfigCmd() tea.Cmd {
	home, err := config.Home()
	if err != nil {
		return nil
	}
	watcher := initWatcher(home)
	if watcher == nil {
		return nil
	}
	return runWatcher(watcher)
}

// initWatcher creates a watcher on the given directory, or nil on failure.
func initWatcher(dir string) *fsnotify.Watcher {
	if _, err := os.Stat(dir); err != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("fsnotify: failed to create watcher: %v (falling back to polling)", err)
		return nil
	}

	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		log.Printf("fsnotify: failed to watch %s: %v (falling back to polling)", dir, err)
		return nil
	}

	return watcher
}

// runWatcher waits for a relevant change, debounced so an editor's
// write-rename sequence produces a single reload.
func runWatcher(watcher *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		defer watcher.Close() //nolint:errcheck // watcher is re-armed per message

		debounceTimer := newDebounceTimer()
		defer debounceTimer.Stop()

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if relevantChange(event.Name) {
					resetDebounceTimer(debounceTimer)
				}

			case <-debounceTimer.C:
				return configChangedMsg{}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Printf("fsnotify: watcher error: %v", err)
				return nil
			}
		}
	}
}

// relevantChange reports whether a changed path affects the dashboard.
func relevantChange(path string) bool {
	switch filepath.Base(path) {
	case "config.toml", "prefs.toml":
		return true
	}
	return false
}

// newDebounceTimer creates a stopped timer for debouncing change events.
func newDebounceTimer() *time.Timer {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	return timer
}

// resetDebounceTimer restarts the debounce window.
func resetDebounceTimer(timer *time.Timer) {
	const debounceDuration = 100 * time.Millisecond
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(debounceDuration)
}
