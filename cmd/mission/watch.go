package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/mission-control/internal/tui"
	"github.com/Veraticus/mission-control/internal/tui/themes"
	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	var (
		interval  time.Duration
		themeName string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the dashboard full screen and refresh it periodically",
		Long: `Show the terminal dashboard and redraw it every --interval.

Press r to refresh immediately, ? for help, q or Ctrl+C to quit.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			theme, ok := themes.ByName(themeName)
			if !ok {
				return fmt.Errorf("unknown theme %q (want neon or mocha)", themeName)
			}
			if interval <= 0 {
				return fmt.Errorf("interval must be positive")
			}

			a, err := newApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			return tui.Run(cmd.Context(), tui.Config{
				Builder:  a.service,
				Interval: interval,
				Theme:    theme,
				Width:    terminalWidth(),
			})
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", tui.DefaultInterval, "refresh interval")
	cmd.Flags().StringVar(&themeName, "theme", "neon", "color theme (neon, mocha)")

	return cmd
}
