package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
)

// skipSetup marks commands that run without config or database
const skipSetup = "skip-setup"

// Execute runs the root command with the process arguments
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root, a := newRootCmd(os.Stdout, os.Stderr)
	defer a.close()
	return root.ExecuteContext(ctx)
}

// newRootCmd builds the command tree writing to out and errOut
func newRootCmd(out, errOut io.Writer) (*cobra.Command, *app) {
	a := &app{out: out, errOut: errOut, now: time.Now}

	root := &cobra.Command{
		Use:           "peak",
		Short:         "Daily readiness from heart rate variability, resting heart rate and sleep.",
		Long:          `Peak aggregates health samples into daily metrics and scores how ready you are to train today.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipSetup] != "" {
				return nil
			}
			return a.setup()
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.peak/config.json)")

	root.AddCommand(
		newTodayCmd(a),
		newTrendCmd(a),
		newSyncCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newJournalCmd(a),
		newProfileCmd(a),
		newStatusCmd(a),
		newInitCmd(a),
	)
	return root, a
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
