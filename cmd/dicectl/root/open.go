package root

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"lucky-dice-bot/internal/config"
	"lucky-dice-bot/internal/ledger"
	"lucky-dice-bot/internal/pkg/clock"
	"lucky-dice-bot/internal/pkg/lock"
	"lucky-dice-bot/internal/repository"
)

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	// Storage logs go to stderr only when something is wrong
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

func openLedger(ctx context.Context, cfg *config.Config) (*ledger.Ledger, func(), error) {
	store, cleanup, err := repository.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Game.Location()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	l := ledger.New(store, lock.NewProfileLock(), clock.NewSystem(loc))
	l.SetLockTimeout(cfg.Game.LockTimeout)
	return l, cleanup, nil
}

func parseUserID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", arg)
	}
	return id, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
