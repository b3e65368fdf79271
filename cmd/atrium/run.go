package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRunCmd(rootFlags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Activate the configured plugin set and report the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, rootFlags)
		},
	}

	return cmd
}

func runRun(cmd *cobra.Command, rootFlags *rootFlags) error {
	app, err := buildAppContext(rootFlags)
	if err != nil {
		return err
	}

	initial := app.Config.Plugins.Initial
	activateErr := app.Registry.ActivatePlugins(cmd.Context(), initial)

	active := app.Registry.ActivePluginIDs()
	fmt.Fprintf(cmd.OutOrStdout(), "Active plugins: %s\n", strings.Join(active, ", "))

	if activateErr != nil {
		return fmt.Errorf("plugin activation incomplete: %w", activateErr)
	}
	return nil
}
