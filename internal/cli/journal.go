package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newJournalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Record and review how you feel",
	}

	var mood int
	var notes string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a mood entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := a.journal()
			if err != nil {
				return err
			}
			entry, err := log.Add(mood, strings.TrimSpace(notes))
			if err != nil {
				return err
			}
			printf(a.out, "Saved entry %s (%s)\n", entry.ID[:8], moodBar(entry.Mood))
			return nil
		},
	}
	add.Flags().IntVarP(&mood, "mood", "m", 3, "mood from 1 (low) to 5 (great)")
	add.Flags().StringVarP(&notes, "notes", "n", "", "free-form notes")

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List journal entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := a.journal()
			if err != nil {
				return err
			}
			entries := log.Entries()
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}
			return renderJournal(a.out, entries, a.now())
		},
	}
	list.Flags().IntVarP(&limit, "limit", "l", 20, "maximum entries to show (0 for all)")

	cmd.AddCommand(add, list)
	return cmd
}
