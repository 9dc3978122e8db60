package cli

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"peak/internal/service"
	"peak/internal/store"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show stored sample counts, last sync and remote auth state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			counts, err := a.db.CountSamples()
			if err != nil {
				return fmt.Errorf("counting samples: %w", err)
			}

			table := tablewriter.NewWriter(a.out)
			table.Header([]string{"Kind", "Samples"})
			var data [][]string
			for _, kind := range store.AllKinds {
				data = append(data, []string{string(kind), humanize.Comma(int64(counts[kind]))})
			}
			if err := table.Bulk(data); err != nil {
				return err
			}
			if err := table.Render(); err != nil {
				return err
			}

			last, err := service.LastSync(a.db)
			if err != nil {
				return err
			}
			if last.IsZero() {
				printf(a.out, "Last sync: never\n")
			} else {
				printf(a.out, "Last sync: %s\n", humanize.RelTime(last, a.now(), "ago", "from now"))
			}

			if !a.cfg.RemoteEnabled() {
				printf(a.out, "Remote: not configured\n")
				return nil
			}
			stored, err := a.db.GetAuth()
			switch {
			case errors.Is(err, store.ErrNoAuth):
				printf(a.out, "Remote: %s (no token stored)\n", a.cfg.Remote.BaseURL)
			case err != nil:
				return fmt.Errorf("reading auth: %w", err)
			case stored.ExpiresAt.IsZero():
				printf(a.out, "Remote: %s (token without expiry)\n", a.cfg.Remote.BaseURL)
			default:
				printf(a.out, "Remote: %s (token expires %s)\n", a.cfg.Remote.BaseURL,
					humanize.RelTime(stored.ExpiresAt, a.now(), "ago", "from now"))
			}
			return nil
		},
	}
}
