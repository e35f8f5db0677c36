package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/mission-control/internal/cli"
	"github.com/Veraticus/mission-control/internal/common"
	"github.com/Veraticus/mission-control/internal/model"
	"github.com/Veraticus/mission-control/internal/render"
	"github.com/Veraticus/mission-control/internal/sheets"
	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	var fetch bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and credentials",
		Long: `Validate the configuration and build the read-only service-account
credential. With --fetch, also read both ranges once.

Exits non-zero when configuration is missing or unusable.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if err := cfg.Sheets.Validate(); err != nil {
				return missingConfigHint(err)
			}
			cred, err := sheets.LoadCredentials(ctx, cfg.Sheets.ServiceAccount)
			if err != nil {
				return missingConfigHint(err)
			}
			fmt.Fprintln(out, cli.FormatSuccess("Credentials valid for "+cred.ClientEmail))

			if !fetch {
				return nil
			}

			reader, err := sheets.NewReader(ctx, cfg.Sheets, nil)
			if err != nil {
				return err
			}
			failed := false
			for _, rng := range []struct {
				name  string
				value model.SheetRange
			}{
				{render.TableNumbers, cfg.Sheets.Numbers()},
				{render.TableCharts, cfg.Sheets.Charts()},
			} {
				res := reader.Fetch(ctx, rng.value)
				switch {
				case !res.OK():
					failed = true
					fmt.Fprintln(out, cli.FormatError(fmt.Sprintf("%s (%s): %v", rng.name, rng.value.Range, res.Err)))
				case res.Empty():
					fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%s (%s): no data rows", rng.name, rng.value.Range)))
				default:
					fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s (%s): %d columns, %d rows",
						rng.name, rng.value.Range, len(res.Table.Headers), res.Table.Len())))
				}
			}
			if failed {
				return fmt.Errorf("one or more ranges could not be fetched")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fetch, "fetch", false, "also fetch both ranges")

	return cmd
}

// missingConfigHint tells the user where absent fields can be set.
func missingConfigHint(err error) error {
	if !errors.Is(err, common.ErrMissingConfig) {
		return err
	}
	return common.NewUserError(err.Error()+". Set them in the config file or as MISSION_* environment variables.", err)
}
