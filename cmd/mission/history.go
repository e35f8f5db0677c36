package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/Veraticus/mission-control/internal/cli"
	"github.com/Veraticus/mission-control/internal/common"
	"github.com/Veraticus/mission-control/internal/metrics"
	"github.com/Veraticus/mission-control/internal/render"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	var (
		limit  int
		format string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded metric snapshots",
		Long: `List the snapshots recorded by previous runs, newest first.

Requires history.enabled; every successful fetch of the Numbers range records
one snapshot.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, limit, format)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of snapshots (0 for all)")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, json, yaml)")

	return cmd
}

func runHistory(cmd *cobra.Command, limit int, format string) error {
	f, err := render.ParseFormat(format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return common.NewUserError("History is disabled. Set history.enabled: true to record snapshots.", nil)
	}

	store, err := openHistory(cmd.Context(), cfg.History)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	snaps, err := store.ListSnapshots(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}

	switch f {
	case render.FormatJSON:
		return render.JSON(cmd.OutOrStdout(), snaps)
	case render.FormatYAML:
		return render.YAML(cmd.OutOrStdout(), snaps)
	}

	if len(snaps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No snapshots recorded yet."))
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TAKEN AT\tISV\tGOAL\tMAYAPUR\tREACHED")
	for _, s := range snaps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			s.TakenAt.Local().Format("2006-01-02 15:04"),
			metrics.FormatPoints(s.Metrics.Score()),
			metrics.FormatPoints(s.Metrics.Goal()),
			metrics.FormatPoints(s.Metrics.Rival()),
			metrics.FormatPercent(s.PercentReached))
	}
	return w.Flush()
}
