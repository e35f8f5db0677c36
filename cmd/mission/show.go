package main

import (
	"github.com/Veraticus/mission-control/internal/render"
	"github.com/spf13/cobra"
)

func showCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the dashboard once",
		Long: `Fetch the Numbers and Charts ranges and print the dashboard.

Fetch and schema problems are shown as notices above the tiles; the command
only fails on configuration errors.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShow(cmd, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, json, yaml)")

	return cmd
}

func runShow(cmd *cobra.Command, format string) error {
	f, err := render.ParseFormat(format)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	view := a.service.Build(cmd.Context())
	return render.Write(cmd.OutOrStdout(), view, f, terminalWidth())
}
