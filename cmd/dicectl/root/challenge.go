package root

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lucky-dice-bot/internal/challenge"
	"lucky-dice-bot/internal/model"
	"lucky-dice-bot/internal/reward"
)

func newChallengeCmd() *cobra.Command {
	var (
		date   string
		days   int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "challenge",
		Short: "Show the daily challenge for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			loc, err := cfg.Game.Location()
			if err != nil {
				return err
			}

			start := time.Now().In(loc)
			if date != "" {
				start, err = time.ParseInLocation(time.DateOnly, date, loc)
				if err != nil {
					return fmt.Errorf("invalid date %q, want YYYY-MM-DD", date)
				}
			}
			if days < 1 {
				return fmt.Errorf("--days must be at least 1")
			}

			out := make([]model.Challenge, 0, days)
			for i := range days {
				out = append(out, challenge.Generate(start.AddDate(0, 0, i)))
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), out)
			}
			for _, c := range out {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-11s  %3d  %s\n", c.Date, c.Kind, c.BaseReward, c.Description)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "streak bonus: +%d%% at 3 days, +%d%% at 7\n", reward.BonusPercent(3), reward.BonusPercent(7))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "first date as YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&days, "days", 1, "number of consecutive days")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
