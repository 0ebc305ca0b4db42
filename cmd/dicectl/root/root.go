// Package root holds the dicectl command tree.
package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const Version = "0.1.0"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dicectl",
		Short:         "Lucky Dice admin tool",
		Long:          "dicectl prints daily challenges, player profiles and adventure progress, and prepares storage.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	cmd.PersistentFlags().String("config", "config", "directory containing config.yaml")

	cmd.AddCommand(
		newChallengeCmd(),
		newProfileCmd(),
		newProgressCmd(),
		newMigrateCmd(),
	)
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error: "+err.Error())
		os.Exit(1)
	}
}
