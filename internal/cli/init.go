package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"peak/internal/config"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "init",
		Short:       "Write an example config file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			written, err := config.CreateExample(a.configPath)
			if err != nil {
				return err
			}

			path := a.configPath
			if path == "" {
				dir, err := config.GetConfigDir()
				if err != nil {
					return err
				}
				path = filepath.Join(dir, "config.json")
			}
			if !written {
				printf(a.out, "Config already exists at %s\n", path)
				return nil
			}
			printf(a.out, "Wrote example config to %s\nEdit remote.* to enable 'peak sync'.\n", path)
			return nil
		},
	}
}
