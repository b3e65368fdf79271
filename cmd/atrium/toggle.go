package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newToggleCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <plugin-id>",
		Short: "Activate or deactivate a plugin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToggle(cmd, rootFlags, args[0])
		},
	}

	return cmd
}

func runToggle(cmd *cobra.Command, rootFlags *rootFlags, id string) error {
	app, err := buildAppContext(rootFlags)
	if err != nil {
		return err
	}

	if id == app.Registry.CorePluginID() && app.Registry.IsActive(id) {
		fmt.Fprintf(cmd.OutOrStdout(), "Plugin '%s' is the core plugin and stays active.\n", id)
		return nil
	}

	if err := app.Registry.Toggle(cmd.Context(), id); err != nil {
		return fmt.Errorf("toggling plugin '%s': %w", id, err)
	}

	if app.Registry.IsActive(id) {
		fmt.Fprintf(cmd.OutOrStdout(), "Plugin '%s' is now active.\n", id)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Plugin '%s' is now inactive.\n", id)
	}
	return nil
}
