// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"lucky-dice-bot/internal/adventure"
	"lucky-dice-bot/internal/ledger"
	"lucky-dice-bot/internal/pkg/lock"
	"lucky-dice-bot/internal/reward"
	"lucky-dice-bot/internal/service"
)

// RequestTimeout bounds the storage work of a single update.
const RequestTimeout = 10 * time.Second

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), RequestTimeout)
}

// displayName returns the name used in replies.
func displayName(u *tele.User) string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return u.FirstName
}

// errorText maps a service error to the reply shown to the player.
func errorText(err error) string {
	switch {
	case errors.Is(err, reward.ErrDailyBonusClaimed):
		return "⏳ You already claimed today's bonus. Come back tomorrow!"
	case errors.Is(err, reward.ErrAlreadyClaimed):
		return "✅ Today's challenge is already complete"
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return "❌ Not enough luck points!"
	case errors.Is(err, ledger.ErrAlreadyUnlocked):
		return "✅ You already own this item"
	case errors.Is(err, service.ErrItemNotFound):
		return "❌ Item not found"
	case errors.Is(err, service.ErrInvalidRoll):
		return "❌ The dice got lost, please roll again"
	case errors.Is(err, adventure.ErrMissionNotReady):
		return "⏳ The mission needs more successful rolls. /qroll to keep going"
	case errors.Is(err, lock.ErrLockTimeout):
		return "⏳ Still busy with your last roll, try again in a moment"
	default:
		return "❌ Something went wrong, please try again later"
	}
}

// replyError logs unexpected errors and replies with their player-facing text.
func replyError(c tele.Context, err error, op string) error {
	if isUnexpected(err) {
		log.Error().Err(err).Int64("user_id", c.Sender().ID).Str("op", op).Msg("Handler failed")
	}
	return c.Reply(errorText(err))
}

func isUnexpected(err error) bool {
	for _, known := range []error{
		reward.ErrDailyBonusClaimed,
		reward.ErrAlreadyClaimed,
		ledger.ErrInsufficientFunds,
		ledger.ErrAlreadyUnlocked,
		service.ErrItemNotFound,
		adventure.ErrMissionNotReady,
	} {
		if errors.Is(err, known) {
			return false
		}
	}
	return true
}
