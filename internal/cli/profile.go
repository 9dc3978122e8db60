package cli

import (
	"github.com/spf13/cobra"

	"peak/internal/analysis"
	"peak/internal/service"
)

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the baseline HRV and sleep target",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the current profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.profileService().Load()
			if err != nil {
				return err
			}
			return renderProfile(a.out, p)
		},
	}

	var baseline, sleepTarget string
	set := &cobra.Command{
		Use:   "set",
		Short: "Update the profile; omitted values are kept",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.profileService().Update(baseline, sleepTarget)
			if err != nil {
				return err
			}
			return renderProfile(a.out, p)
		},
	}
	set.Flags().StringVar(&baseline, "baseline-hrv", "", "baseline HRV in ms")
	set.Flags().StringVar(&sleepTarget, "sleep-target", "", "sleep target in hours")

	var days, minDays int
	personalize := &cobra.Command{
		Use:   "personalize",
		Short: "Set the baseline HRV to your rolling average",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := a.profileService()
			current, err := svc.Load()
			if err != nil {
				return err
			}
			trend, err := service.NewTrendBuilder(a.db, a.loc, a.log).Build(cmd.Context(), current, days, a.now())
			if err != nil {
				return err
			}

			p, changed, err := svc.Personalize(trend, minDays)
			if err != nil {
				return err
			}
			if !changed {
				printf(a.out, "Not enough HRV history: need %d days with data in the last %d.\n", minDays, days)
			}
			return renderProfile(a.out, p)
		},
	}
	personalize.Flags().IntVarP(&days, "days", "d", service.BaselineWindowDays, "days of history to average")
	personalize.Flags().IntVar(&minDays, "min-days", analysis.DefaultBaselineDays, "minimum days with HRV data")

	cmd.AddCommand(show, set, personalize)
	return cmd
}
