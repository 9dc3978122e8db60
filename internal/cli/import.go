package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"peak/internal/service"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Load a JSON array of raw samples into the local store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening import file: %w", err)
			}
			defer file.Close()

			stored, skipped, err := service.ImportSamples(file, a.db)
			if err != nil {
				return err
			}
			a.log.Infow("imported samples", "file", args[0], "stored", stored, "skipped", skipped)
			printf(a.out, "Imported %d samples (%d skipped)\n", stored, skipped)
			return nil
		},
	}
}
