package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/atriumapp/atrium/internal/plugin"
)

type pluginsOptions struct {
	jsonOutput bool
}

func newPluginsCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &pluginsOptions{}

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List registered plugins and their lifecycle state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlugins(cmd, rootFlags, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

type pluginRow struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	State        string   `json:"state"`
	Active       bool     `json:"active"`
	Dependencies []string `json:"dependencies,omitempty"`
}

func runPlugins(cmd *cobra.Command, rootFlags *rootFlags, opts *pluginsOptions) error {
	app, err := buildAppContext(rootFlags)
	if err != nil {
		return err
	}

	rows := collectPluginRows(app.Registry)

	if opts.jsonOutput {
		return renderPluginsJSON(cmd, rows)
	}
	return renderPluginsTable(cmd, rows)
}

func collectPluginRows(registry *plugin.Registry) []pluginRow {
	plugins := registry.Plugins()
	rows := make([]pluginRow, 0, len(plugins))

	for _, p := range plugins {
		meta := p.Metadata()
		state, _ := registry.PluginState(meta.ID)

		rows = append(rows, pluginRow{
			ID:           meta.ID,
			Name:         meta.Name,
			State:        state.String(),
			Active:       registry.IsActive(meta.ID),
			Dependencies: meta.Dependencies,
		})
	}
	return rows
}

func renderPluginsTable(cmd *cobra.Command, rows []pluginRow) error {
	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	styled := isTerminal(cmd.OutOrStdout())

	fmt.Fprintln(writer, "ID\tNAME\tSTATE\tACTIVE\tDEPENDS ON")

	for _, row := range rows {
		deps := "-"
		if len(row.Dependencies) > 0 {
			deps = strings.Join(row.Dependencies, ", ")
		}

		activeMarker := "no"
		if row.Active {
			activeMarker = "yes"
		}

		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			row.ID,
			row.Name,
			formatState(row.State, styled),
			activeMarker,
			deps,
		)
	}

	return writer.Flush()
}

type pluginsJSONPayload struct {
	Count   int         `json:"count"`
	Plugins []pluginRow `json:"plugins"`
}

func renderPluginsJSON(cmd *cobra.Command, rows []pluginRow) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(pluginsJSONPayload{Count: len(rows), Plugins: rows})
}

var stateBadges = map[string]lipgloss.Style{
	string(plugin.StateActive):   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	string(plugin.StateError):    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	string(plugin.StateDisposed): lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
}

func formatState(state string, styled bool) string {
	if !styled {
		return state
	}
	if badge, ok := stateBadges[state]; ok {
		return badge.Render(state)
	}
	return state
}

func isTerminal(writer any) bool {
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
