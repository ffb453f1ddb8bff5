package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"evodash/pkg/action"
	"evodash/pkg/config"
	"evodash/pkg/gateway"
	"evodash/pkg/jobs"
	"evodash/pkg/prefs"
)

// clientFromFlags resolves configuration and builds the gateway client.
// The --base-url flag wins over EVODASH_BASE_URL and the config file.
func clientFromFlags(cmd *cobra.Command) (*gateway.Client, config.Config, error) {
	cfg, err := config.Resolve()
	if err != nil {
		return nil, cfg, fmt.Errorf("resolve config: %w", err)
	}

	if u, err := cmd.Flags().GetString("base-url"); err == nil && u != "" {
		cfg.BaseURL = u
	}

	return gateway.New(cfg.BaseURL, gateway.WithTimeout(cfg.RequestTimeout())), cfg, nil
}

// dispatcherFromFlags builds an action dispatcher wired to the gateway, the
// job poller and the operator's locale preference. With --no-wait the poller
// is omitted, so commands report the submission result without waiting.
func dispatcherFromFlags(cmd *cobra.Command) (*action.Dispatcher, error) {
	client, cfg, err := clientFromFlags(cmd)
	if err != nil {
		return nil, err
	}

	locale := prefs.LocaleFR
	if path, err := prefs.DefaultPath(); err == nil {
		if p, err := prefs.Load(path); err == nil {
			locale = p.Locale
		}
	}

	var poller action.Poller
	if noWait, err := cmd.Flags().GetBool("no-wait"); err != nil || !noWait {
		poller = jobs.New(client, cfg.PollInterval(), cfg.PollTimeout())
	}

	st := newStyles(cmd.OutOrStdout())
	d := action.New(client, poller,
		action.WithLocale(locale),
		action.WithObserver(func(r action.Result) {
			// Intermediate publication while a background job runs. The
			// final result is printed by the command itself.
			if !r.Final {
				fmt.Fprintln(cmd.OutOrStdout(), st.dim.Render(r.Message))
			}
		}),
	)
	return d, nil
}

// printResult renders a settled dispatch. Failed dispatches exit non-zero
// through the returned error.
func printResult(cmd *cobra.Command, r action.Result) error {
	st := newStyles(cmd.OutOrStdout())

	if r.Failed() {
		reason := r.Err
		if reason == "" {
			reason = r.Status
		}
		fmt.Fprintln(cmd.ErrOrStderr(), st.err.Render(r.Message))
		return fmt.Errorf("%s", reason)
	}

	fmt.Fprintln(cmd.OutOrStdout(), st.ok.Render(r.Message))
	if r.TaskID != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "task: %s\n", r.TaskID)
	}
	return nil
}

// runTrigger executes one dispatched command and renders its outcome.
func runTrigger(cmd *cobra.Command, fn func(*action.Dispatcher) action.Result) error {
	d, err := dispatcherFromFlags(cmd)
	if err != nil {
		return err
	}
	return printResult(cmd, fn(d))
}
