package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"peak/internal/analysis"
	"peak/internal/service"
	"peak/internal/store"
)

func newTrendCmd(a *app) *cobra.Command {
	var days int
	var remote, cached bool

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show daily metrics and readiness for recent days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days == 0 {
				days = a.cfg.Display.TrendDays
			}
			if days > service.MaxTrendDays {
				return fmt.Errorf("--days must be at most %d", service.MaxTrendDays)
			}

			var trend []store.DailyMetrics
			if cached {
				if days < 1 {
					return fmt.Errorf("%w: got %d", service.ErrInvalidDays, days)
				}
				to := analysis.StartOfDay(a.now(), a.loc)
				from := to.AddDate(0, 0, -(days - 1))
				var err error
				if trend, err = a.db.ListDailyMetrics(from, to, a.loc); err != nil {
					return fmt.Errorf("reading cached days: %w", err)
				}
				if len(trend) == 0 {
					printf(a.out, "No cached days yet. Run 'peak trend' or 'peak today' first.\n")
					return nil
				}
			} else {
				provider, err := a.provider(remote)
				if err != nil {
					return err
				}
				profile, err := a.profileService().Load()
				if err != nil {
					return err
				}

				trend, err = service.NewTrendBuilder(provider, a.loc, a.log).Build(cmd.Context(), profile, days, a.now())
				if err != nil {
					return err
				}
				if err := a.db.SaveDailyMetrics(trend); err != nil {
					a.log.Warnw("caching daily metrics failed", "error", err)
				}
			}

			if err := renderTrendTable(a.out, trend); err != nil {
				return err
			}
			for _, c := range []struct {
				title string
				field analysis.Field
			}{
				{"Readiness", analysis.FieldReadiness},
				{"HRV (ms)", analysis.FieldHRV},
				{"Resting HR (bpm)", analysis.FieldRestingHR},
				{"Sleep (h)", analysis.FieldSleepHours},
			} {
				if chart := renderChart(c.title, trend, c.field); chart != "" {
					printf(a.out, "%s\n", chart)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 0, "number of days ending today (default display.trend_days)")
	cmd.Flags().BoolVar(&remote, "remote", false, "read samples from the remote API instead of the local store")
	cmd.Flags().BoolVar(&cached, "cached", false, "show previously computed days without re-aggregating")
	cmd.MarkFlagsMutuallyExclusive("remote", "cached")
	return cmd
}
