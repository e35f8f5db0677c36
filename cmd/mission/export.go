package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/mission-control/internal/cli"
	"github.com/Veraticus/mission-control/internal/config"
	"github.com/Veraticus/mission-control/internal/render"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the dashboard to an Excel workbook",
		Long: `Fetch the dashboard and write an .xlsx workbook with a Summary sheet,
one sheet per fetched range and a Notices sheet when anything degraded.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, out)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "mission-control.xlsx", "output file")

	return cmd
}

func runExport(cmd *cobra.Command, out string) error {
	out = config.ExpandPath(out)
	if filepath.Ext(out) != ".xlsx" {
		return fmt.Errorf("output file must end in .xlsx: %s", out)
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Export")
	interrupts.SetHint("No workbook was written.")
	ctx := interrupts.HandleInterrupts(cmd.Context())
	defer interrupts.Stop()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	bar := newProgressBar(cmd, -1, "Fetching ranges...")
	view := a.service.Build(ctx)
	_ = bar.Finish()
	if interrupts.WasInterrupted() {
		return ctx.Err()
	}

	bar = newProgressBar(cmd, render.WorkbookSheets(view), "Writing sheets...")
	f, err := render.Workbook(view, func(sheet string) {
		bar.Describe("[cyan]" + sheet + "[reset]")
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	if interrupts.WasInterrupted() {
		return ctx.Err()
	}

	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := f.SaveAs(out); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	for _, n := range view.Notices {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatNotice(n))
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Exported "+out))
	return nil
}

func newProgressBar(cmd *cobra.Command, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(cmd.ErrOrStderr()); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
