package cli

import (
	"github.com/spf13/cobra"

	"peak/internal/analysis"
	"peak/internal/service"
)

func newTodayCmd(a *app) *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show today's readiness score and metrics so far",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			provider, err := a.provider(remote)
			if err != nil {
				return err
			}
			profile, err := a.profileService().Load()
			if err != nil {
				return err
			}

			session := service.NewSession(provider, profile, service.SessionConfig{
				Location:  a.loc,
				TrendDays: a.cfg.Display.TrendDays,
				Cache:     a.db,
				Now:       a.now,
			}, a.log)
			if err := session.Refresh(cmd.Context()); err != nil {
				return err
			}

			if err := renderToday(a.out, session.CurrentDailyMetrics(), session.Profile(), session.RefreshedAt()); err != nil {
				return err
			}
			if chart := renderChart("Readiness - last days", session.Trend(a.cfg.Display.TrendDays), analysis.FieldReadiness); chart != "" {
				printf(a.out, "%s\n", chart)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "read samples from the remote API instead of the local store")
	return cmd
}
