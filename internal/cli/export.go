package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"peak/internal/export"
	"peak/internal/service"
)

func newExportCmd(a *app) *cobra.Command {
	var format, out string
	var days int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the daily trend to a Parquet or CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if out == "" {
				out = "peak-trend." + string(f)
			}
			if days < 1 || days > service.MaxTrendDays {
				return fmt.Errorf("--days must be between 1 and %d", service.MaxTrendDays)
			}

			profile, err := a.profileService().Load()
			if err != nil {
				return err
			}
			trend, err := service.NewTrendBuilder(a.db, a.loc, a.log).Build(cmd.Context(), profile, days, a.now())
			if err != nil {
				return err
			}

			if err := export.WriteFile(trend, f, out); err != nil {
				return err
			}
			printf(a.out, "Wrote %d days to %s\n", len(trend), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatCSV), "output format: parquet or csv")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default peak-trend.<format>)")
	cmd.Flags().IntVarP(&days, "days", "d", service.BaselineWindowDays, "number of days ending today")
	return cmd
}
