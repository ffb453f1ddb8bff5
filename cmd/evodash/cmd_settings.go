package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"evodash/pkg/action"
	"evodash/pkg/gateway"
)

// newSettingsCmd creates the "evodash settings" subcommand group.
func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage backend admin settings",
	}

	cmd.AddCommand(
		newSettingsListCmd(),
		newSettingsSetCmd(),
		newSettingsToggleCmd(),
		newSettingsExportCmd(),
		newSettingsImportCmd(),
	)

	return cmd
}

// sortedKeys returns map keys in stable order for deterministic output.
func sortedKeys(s gateway.Settings) []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// newSettingsListCmd creates "evodash settings list".
func newSettingsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all admin settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}

			settings, err := client.Settings(cmd.Context())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(settings) == 0 {
				fmt.Fprintln(w, "no settings stored")
				return nil
			}

			for _, k := range sortedKeys(settings) {
				fmt.Fprintf(w, "%-30s %v\n", k, settings[k])
			}
			return nil
		},
	}
}

// newSettingsSetCmd creates "evodash settings set".
func newSettingsSetCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Upsert one admin setting",
		Long:  "Stores the value as a string, or as the decoded JSON value with --json.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value any = args[1]
			if asJSON {
				if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
					return fmt.Errorf("parse --json value: %w", err)
				}
			}
			return runTrigger(cmd, func(d *action.Dispatcher) action.Result {
				return d.SaveSetting(cmd.Context(), args[0], value)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "interpret the value as JSON")

	return cmd
}

// newSettingsToggleCmd creates "evodash settings toggle".
func newSettingsToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <key>",
		Short: "Flip a boolean setting",
		Long:  "Reads the current value, interprets it as a toggle and stores the negation.\nAn unrecognized stored value is an error, not a silent false.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}

			settings, err := client.Settings(cmd.Context())
			if err != nil {
				return err
			}

			key := args[0]
			current := false
			if raw, ok := settings[key]; ok {
				current, err = gateway.ParseToggle(raw)
				if err != nil {
					return fmt.Errorf("setting %s: %w", key, err)
				}
			}

			return runTrigger(cmd, func(d *action.Dispatcher) action.Result {
				return d.SaveSetting(cmd.Context(), key, !current)
			})
		},
	}
}

// newSettingsExportCmd creates "evodash settings export".
func newSettingsExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all settings as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}

			settings, err := client.Settings(cmd.Context())
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(settings)
			if err != nil {
				return fmt.Errorf("encode settings: %w", err)
			}

			if out == "" {
				fmt.Fprint(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := os.WriteFile(out, data, 0o644); err != nil { //nolint:gosec // settings export is operator data
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d settings to %s\n", len(settings), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "write to file instead of stdout")

	return cmd
}

// newSettingsImportCmd creates "evodash settings import".
func newSettingsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import settings from a YAML file",
		Long:  "Upserts every key in the file. Keys absent from the file are left untouched.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0]) //nolint:gosec // operator-supplied path
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			var settings gateway.Settings
			if err := yaml.Unmarshal(data, &settings); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			client, _, err := clientFromFlags(cmd)
			if err != nil {
				return err
			}

			for _, k := range sortedKeys(settings) {
				if err := client.SaveSetting(cmd.Context(), k, settings[k]); err != nil {
					return fmt.Errorf("import %s: %w", k, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported %d settings\n", len(settings))
			return nil
		},
	}
}
