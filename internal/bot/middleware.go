package bot

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"lucky-dice-bot/internal/config"
)

// privateAccess remembers players seen in a whitelisted group. Only they
// may talk to the bot in a private chat while a whitelist is set.
type privateAccess struct {
	mu    sync.RWMutex
	users map[int64]struct{}
}

func newPrivateAccess() *privateAccess {
	return &privateAccess{users: make(map[int64]struct{})}
}

func (a *privateAccess) grant(userID int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.users[userID] = struct{}{}
}

func (a *privateAccess) granted(userID int64) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.users[userID]
	return ok
}

// allow decides whether an update from sender in chat is served. Group
// chats must be whitelisted; serving one grants the sender private access.
func (a *privateAccess) allow(cfg *config.Config, chat *tele.Chat, sender *tele.User) bool {
	if chat.Type == tele.ChatPrivate {
		return len(cfg.Whitelist.Chats) == 0 || a.granted(sender.ID)
	}
	if !cfg.IsChatAllowed(chat.ID) {
		return false
	}
	a.grant(sender.ID)
	return true
}

// WhitelistMiddleware drops updates from chats outside the whitelist.
func WhitelistMiddleware(cfg *config.Config, access *privateAccess) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chat, sender := c.Chat(), c.Sender()
			if chat == nil || sender == nil {
				return nil
			}
			if !access.allow(cfg, chat, sender) {
				log.Debug().
					Int64("chat_id", chat.ID).
					Int64("user_id", sender.ID).
					Msg("Ignoring update from non-whitelisted chat")
				return nil
			}
			return next(c)
		}
	}
}

// LoggingMiddleware logs every served update with how long it took.
func LoggingMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			err := next(c)

			ev := log.Debug()
			if err != nil {
				ev = log.Warn().Err(err)
			}
			if sender := c.Sender(); sender != nil {
				ev = ev.Int64("user_id", sender.ID).Str("username", sender.Username)
			}
			if chat := c.Chat(); chat != nil {
				ev = ev.Int64("chat_id", chat.ID).Str("chat_type", string(chat.Type))
			}
			if cb := c.Callback(); cb != nil {
				ev = ev.Str("callback", cb.Data)
			} else {
				ev = ev.Str("text", c.Text())
			}
			ev.Dur("took", time.Since(start)).Msg("Update handled")
			return err
		}
	}
}

// RecoveryMiddleware turns a handler panic into an apology to the player.
func RecoveryMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					ev := log.Error().Interface("panic", r)
					if sender := c.Sender(); sender != nil {
						ev = ev.Int64("user_id", sender.ID)
					}
					ev.Msg("Recovered from panic in handler")
					err = c.Reply("❌ Something went wrong, please try again later")
				}
			}()
			return next(c)
		}
	}
}
