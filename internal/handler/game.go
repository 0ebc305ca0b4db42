package handler

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"lucky-dice-bot/internal/service"
)

// Roll modes, also used as cooldown keys.
const (
	modeClassic   = "classic"
	modeAdventure = "adventure"
)

// DiceAnimationDelay is how long Telegram's dice animation runs before the
// result is announced.
const DiceAnimationDelay = 3 * time.Second

// GameHandler handles dice rolls, the daily challenge and adventure mode.
type GameHandler struct {
	challengeService *service.ChallengeService
	adventureService *service.AdventureService
	accountService   *service.AccountService
	rollCooldown     time.Duration
	animationDelay   time.Duration
	cooldowns        sync.Map // map[string]time.Time - key: "userID:mode"
	now              func() time.Time
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(
	challengeService *service.ChallengeService,
	adventureService *service.AdventureService,
	accountService *service.AccountService,
	rollCooldown time.Duration,
) *GameHandler {
	return &GameHandler{
		challengeService: challengeService,
		adventureService: adventureService,
		accountService:   accountService,
		rollCooldown:     rollCooldown,
		animationDelay:   DiceAnimationDelay,
		now:              time.Now,
	}
}

// checkCooldown returns the seconds left before userID may roll in mode
// again, or 0.
func (h *GameHandler) checkCooldown(userID int64, mode string) int {
	key := fmt.Sprintf("%d:%s", userID, mode)
	if lastTime, ok := h.cooldowns.Load(key); ok {
		remaining := h.rollCooldown - h.now().Sub(lastTime.(time.Time))
		if remaining > 0 {
			return int(remaining.Seconds()) + 1
		}
	}
	return 0
}

// setCooldown starts the cooldown for a user and mode.
func (h *GameHandler) setCooldown(userID int64, mode string) {
	key := fmt.Sprintf("%d:%s", userID, mode)
	h.cooldowns.Store(key, h.now())
}

// rollDice sends two 🎲 messages and returns the values Telegram rolled.
func (h *GameHandler) rollDice(c tele.Context) (int, int, error) {
	dice1Msg, err := c.Bot().Send(c.Chat(), tele.Cube)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to send first die: %w", err)
	}
	dice2Msg, err := c.Bot().Send(c.Chat(), tele.Cube)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to send second die: %w", err)
	}
	if dice1Msg.Dice == nil || dice2Msg.Dice == nil {
		return 0, 0, fmt.Errorf("telegram returned no dice value")
	}
	return dice1Msg.Dice.Value, dice2Msg.Dice.Value, nil
}

// HandleChallenge handles the /challenge command.
func (h *GameHandler) HandleChallenge(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx, cancel := requestContext()
	defer cancel()

	challenge, err := h.challengeService.Today(ctx, sender.ID)
	if err != nil {
		return replyError(c, err, "challenge")
	}
	p, err := h.accountService.Profile(ctx, sender.ID)
	if err != nil {
		return replyError(c, err, "profile")
	}
	return c.Reply(FormatChallenge(challenge, p.StreakDays))
}

// HandleRoll handles the /roll command: a classic roll that settles the
// daily challenge.
func (h *GameHandler) HandleRoll(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	if remaining := h.checkCooldown(sender.ID, modeClassic); remaining > 0 {
		return c.Reply(fmt.Sprintf("⏳ Wait %d seconds before rolling again", remaining))
	}
	h.setCooldown(sender.ID, modeClassic)

	die1, die2, err := h.rollDice(c)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to roll dice")
		return c.Reply("❌ Failed to roll the dice, please try again")
	}

	ctx, cancel := requestContext()
	defer cancel()
	res, err := h.challengeService.Roll(ctx, sender.ID, die1, die2)
	if err != nil {
		return replyError(c, err, "roll")
	}

	time.Sleep(h.animationDelay)
	_, err = c.Bot().Send(c.Chat(), FormatRoll(displayName(sender), res))
	return err
}

// HandleQuest handles the /quest command.
func (h *GameHandler) HandleQuest(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx, cancel := requestContext()
	defer cancel()

	view, err := h.adventureService.State(ctx, sender.ID)
	if err != nil {
		return replyError(c, err, "quest")
	}
	return c.Reply(FormatAdventure(view))
}

// HandleQuestRoll handles the /qroll command: a roll for the active mission.
func (h *GameHandler) HandleQuestRoll(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	if remaining := h.checkCooldown(sender.ID, modeAdventure); remaining > 0 {
		return c.Reply(fmt.Sprintf("⏳ Wait %d seconds before rolling again", remaining))
	}

	ctx, cancel := requestContext()
	defer cancel()

	view, err := h.adventureService.State(ctx, sender.ID)
	if err != nil {
		return replyError(c, err, "quest")
	}
	if view.Finished {
		return c.Reply(FormatAdventureRoll(displayName(sender), &service.AdventureRoll{Finished: true}))
	}
	h.setCooldown(sender.ID, modeAdventure)

	die1, die2, err := h.rollDice(c)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Failed to roll dice")
		return c.Reply("❌ Failed to roll the dice, please try again")
	}

	res, err := h.adventureService.Roll(ctx, sender.ID, die1, die2)
	if err != nil {
		return replyError(c, err, "quest roll")
	}

	time.Sleep(h.animationDelay)
	_, err = c.Bot().Send(c.Chat(), FormatAdventureRoll(displayName(sender), res))
	return err
}

// HandleResolve handles the /resolve command.
func (h *GameHandler) HandleResolve(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx, cancel := requestContext()
	defer cancel()

	res, p, err := h.adventureService.Resolve(ctx, sender.ID)
	if err != nil {
		return replyError(c, err, "resolve")
	}
	return c.Reply(FormatResolution(res, p))
}

// HandleArtifacts handles the /artifacts command.
func (h *GameHandler) HandleArtifacts(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx, cancel := requestContext()
	defer cancel()

	artifacts, err := h.adventureService.Artifacts(ctx, sender.ID)
	if err != nil {
		return replyError(c, err, "artifacts")
	}
	return c.Reply(FormatArtifacts(artifacts))
}
