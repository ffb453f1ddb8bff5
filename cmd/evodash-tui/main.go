// Package main implements the evodash interactive dashboard.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"evodash/pkg/eventlog"
	"evodash/pkg/gateway"
)

// snapshot is the robot-mode JSON document: one non-interactive capture of
// everything the dashboard would display, for scripts and health checks.
type snapshot struct {
	Health   gateway.Health         `json:"health"`
	Metrics  gateway.Metrics        `json:"metrics"`
	Events   []gateway.Event        `json:"events"`
	Sources  []gateway.Source       `json:"sources"`
	Settings gateway.Settings       `json:"settings"`
	Versions []gateway.IndexVersion `json:"versions"`
}

// robotMode fetches everything once and emits JSON. Individual fetch
// failures leave their section zero-valued; only a completely unreachable
// backend is fatal.
func robotMode(app *App) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), app.Cfg.RequestTimeout())
	defer cancel()

	var snap snapshot

	h, err := app.Client.Health(ctx)
	if err != nil {
		return nil, fmt.Errorf("backend unreachable: %w", err)
	}
	snap.Health = h

	snap.Metrics, _ = app.Client.Metrics(ctx)
	snap.Events, _ = app.Client.Events(ctx, gateway.DefaultEventLimit)
	snap.Sources, _ = app.Client.Sources(ctx, gateway.DefaultSourceLimit, 0)
	snap.Settings, _ = app.Client.Settings(ctx)
	snap.Versions, _ = app.Client.IndexVersions(ctx)

	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

// wantRobotMode reports whether to emit a JSON snapshot instead of the TUI:
// explicitly via --robot, or implicitly when stdout is not a terminal.
func wantRobotMode(args []string, stdout *os.File) bool {
	if hasFlag(args, "--robot") {
		return true
	}
	if stdout == nil {
		return false
	}
	return !isatty.IsTerminal(stdout.Fd()) && !isatty.IsCygwinTerminal(stdout.Fd())
}

func main() {
	cfg, err := resolveConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "evodash-tui: %v\n", err)
		os.Exit(1)
	}
	app := newApp(cfg, resolvePrefs())

	if hasFlag(os.Args[1:], "--record") {
		archive, err := eventlog.Open(eventlog.DefaultDBPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "evodash-tui: %v\n", err)
			os.Exit(1)
		}
		defer archive.Close()
		app.Archive = archive
	}

	if wantRobotMode(os.Args[1:], os.Stdout) {
		data, err := robotMode(app)
		if err != nil {
			fmt.Fprintf(os.Stderr, "evodash-tui: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	p := tea.NewProgram(newModel(app), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}
