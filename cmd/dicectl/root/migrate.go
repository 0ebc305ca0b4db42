package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"lucky-dice-bot/internal/repository"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the storage schema for the configured driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			_, cleanup, err := repository.Open(context.Background(), cfg)
			if err != nil {
				return err
			}
			cleanup()
			fmt.Fprintf(cmd.OutOrStdout(), "%s storage ready\n", cfg.Storage.Driver)
			return nil
		},
	}
}
