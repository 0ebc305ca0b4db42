// Package bot provides the Telegram bot initialization and handler registration.
package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"lucky-dice-bot/internal/config"
	"lucky-dice-bot/internal/handler"
	"lucky-dice-bot/internal/service"
)

// DefaultRollCooldown is the minimum gap between two rolls of one player.
const DefaultRollCooldown = 2 * time.Second

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot    *tele.Bot
	cfg    *config.Config
	access *privateAccess

	// Handlers
	accountHandler *handler.AccountHandler
	gameHandler    *handler.GameHandler
	shopHandler    *handler.ShopHandler
}

// Dependencies holds all the dependencies needed by the bot handlers.
type Dependencies struct {
	Config           *config.Config
	AccountService   *service.AccountService
	ChallengeService *service.ChallengeService
	ShopService      *service.ShopService
	AdventureService *service.AdventureService
}

// New creates a new Bot instance with the given dependencies.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pollTimeout := deps.Config.Bot.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 10 * time.Second
	}
	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
		OnError: func(err error, c tele.Context) {
			log.Error().Err(err).Msg("Telegram update failed")
		},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:            teleBot,
		cfg:            deps.Config,
		access:         newPrivateAccess(),
		accountHandler: handler.NewAccountHandler(deps.AccountService, deps.ChallengeService),
		gameHandler:    handler.NewGameHandler(deps.ChallengeService, deps.AdventureService, deps.AccountService, DefaultRollCooldown),
		shopHandler:    handler.NewShopHandler(deps.ShopService),
	}

	b.registerMiddleware()
	b.registerHandlers()

	return b, nil
}

// registerMiddleware registers all middleware.
func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(WhitelistMiddleware(b.cfg, b.access))
	b.bot.Use(LoggingMiddleware())
}

// Commands lists the bot commands shown in Telegram's menu.
func Commands() []tele.Command {
	return []tele.Command{
		{Text: "start", Description: "Start playing and record today's visit"},
		{Text: "roll", Description: "Roll two dice for the daily challenge"},
		{Text: "challenge", Description: "Show today's challenge"},
		{Text: "bonus", Description: "Claim the daily login bonus"},
		{Text: "quest", Description: "Adventure map and current mission"},
		{Text: "qroll", Description: "Roll for the current mission"},
		{Text: "resolve", Description: "Complete a finished mission"},
		{Text: "artifacts", Description: "Your artifact collection"},
		{Text: "shop", Description: "Cosmetics shop"},
		{Text: "achievements", Description: "Achievements and progress"},
		{Text: "profile", Description: "Your stats"},
	}
}

// registerHandlers registers all command and callback handlers.
func (b *Bot) registerHandlers() {
	// Account handlers
	b.bot.Handle("/start", b.accountHandler.HandleStart)
	b.bot.Handle("/profile", b.accountHandler.HandleProfile)
	b.bot.Handle("/bonus", b.accountHandler.HandleBonus)
	b.bot.Handle("/achievements", b.accountHandler.HandleAchievements)

	// Classic mode
	b.bot.Handle("/challenge", b.gameHandler.HandleChallenge)
	b.bot.Handle("/roll", b.gameHandler.HandleRoll)

	// Adventure mode
	b.bot.Handle("/quest", b.gameHandler.HandleQuest)
	b.bot.Handle("/qroll", b.gameHandler.HandleQuestRoll)
	b.bot.Handle("/resolve", b.gameHandler.HandleResolve)
	b.bot.Handle("/artifacts", b.gameHandler.HandleArtifacts)

	// Shop
	b.bot.Handle("/shop", b.shopHandler.HandleShop)

	b.bot.Handle(tele.OnCallback, b.handleCallback)
}

// handleCallback routes callbacks to appropriate handlers
func (b *Bot) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}

	data := handler.CallbackData(callback)
	log.Debug().Str("data", data).Msg("Callback received")

	if strings.HasPrefix(data, "shop_") {
		return b.shopHandler.HandleShopCallback(c)
	}
	return c.Respond()
}

// Start starts the bot polling. It blocks until Stop is called.
func (b *Bot) Start() {
	if err := b.bot.SetCommands(Commands()); err != nil {
		log.Warn().Err(err).Msg("Failed to set bot commands")
	}
	log.Info().Str("username", b.bot.Me.Username).Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}
