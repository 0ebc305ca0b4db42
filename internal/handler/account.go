package handler

import (
	tele "gopkg.in/telebot.v3"

	"lucky-dice-bot/internal/service"
)

// AccountHandler handles account-related commands.
type AccountHandler struct {
	accountService   *service.AccountService
	challengeService *service.ChallengeService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *service.AccountService, challengeService *service.ChallengeService) *AccountHandler {
	return &AccountHandler{
		accountService:   accountService,
		challengeService: challengeService,
	}
}

// HandleStart handles the /start command.
// Records the visit, which moves the login streak at most once a day, and
// shows today's challenge.
func (h *AccountHandler) HandleStart(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx, cancel := requestContext()
	defer cancel()

	visit, err := h.accountService.Visit(ctx, sender.ID)
	if err != nil {
		return replyError(c, err, "visit")
	}
	challenge, err := h.challengeService.Today(ctx, sender.ID)
	if err != nil {
		return replyError(c, err, "challenge")
	}

	return c.Reply(FormatWelcome(displayName(sender), visit, challenge))
}

// HandleProfile handles the /profile command.
func (h *AccountHandler) HandleProfile(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx, cancel := requestContext()
	defer cancel()

	p, err := h.accountService.Profile(ctx, sender.ID)
	if err != nil {
		return replyError(c, err, "profile")
	}
	return c.Reply(FormatProfile(displayName(sender), p))
}

// HandleBonus handles the /bonus command.
func (h *AccountHandler) HandleBonus(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx, cancel := requestContext()
	defer cancel()

	res, err := h.accountService.ClaimDailyBonus(ctx, sender.ID)
	if err != nil {
		return replyError(c, err, "bonus")
	}
	return c.Reply(FormatBonus(res))
}

// HandleAchievements handles the /achievements command.
func (h *AccountHandler) HandleAchievements(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx, cancel := requestContext()
	defer cancel()

	statuses, err := h.accountService.Achievements(ctx, sender.ID)
	if err != nil {
		return replyError(c, err, "achievements")
	}
	return c.Reply(FormatAchievements(statuses))
}
