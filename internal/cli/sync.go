package cli

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"peak/internal/healthapi"
	"peak/internal/service"
)

func newSyncCmd(a *app) *cobra.Command {
	var days int
	var full bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Download recent samples from the remote API into the local store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.remoteClient()
			if err != nil {
				return err
			}

			svc := service.NewSyncService(client, a.db, a.loc, a.log)
			if full {
				if err := svc.Reset(); err != nil {
					return err
				}
			}
			progress := make(chan service.SyncProgress)
			done := make(chan struct{})
			go func() {
				defer close(done)
				for p := range progress {
					pct := float64(p.Completed) / float64(p.Total)
					label := string(p.Kind)
					if label == "" {
						label = "done"
					}
					printf(a.errOut, "\r%s %-14s", renderProgressBar(pct, 30), label)
				}
				printf(a.errOut, "\n")
			}()

			result, err := svc.SyncRecent(cmd.Context(), days, a.now(), progress)
			<-done
			if err != nil {
				return err
			}

			for _, e := range result.Errors {
				printf(a.errOut, "warning: %v\n", e)
				var apiErr *healthapi.APIError
				if errors.As(e, &apiErr) && apiErr.Unauthorized() {
					printf(a.errOut, "hint: the access token was rejected; update remote.access_token and remote.refresh_token\n")
				}
			}
			minute, daily := client.RateLimitStatus()
			printf(a.out, "Synced %s samples from %s to %s (rate limit left: %d/min, %s/day)\n",
				humanize.Comma(int64(result.Stored())),
				result.From.Format("Jan 2"),
				result.To.Format("Jan 2 15:04"),
				minute,
				humanize.Comma(int64(daily)),
			)
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d sample kinds failed to sync", len(result.Errors))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", service.DefaultSyncDays, "days of history to fetch")
	cmd.Flags().BoolVar(&full, "full", false, "ignore the last sync and fetch every requested day")
	return cmd
}
