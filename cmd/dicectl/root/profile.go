package root

import (
	"context"

	"github.com/spf13/cobra"

	"lucky-dice-bot/internal/service"
)

func newProfileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile <user-id>",
		Short: "Print a player's profile as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := context.Background()
			l, cleanup, err := openLedger(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := service.NewAccountService(l).Profile(ctx, userID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
}

func newProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <user-id>",
		Short: "Print a player's adventure progress as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := context.Background()
			l, cleanup, err := openLedger(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			v, err := service.NewAdventureService(l).State(ctx, userID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}
}
