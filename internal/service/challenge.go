package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"lucky-dice-bot/internal/achievement"
	"lucky-dice-bot/internal/challenge"
	"lucky-dice-bot/internal/ledger"
	"lucky-dice-bot/internal/model"
	"lucky-dice-bot/internal/pkg/metrics"
	"lucky-dice-bot/internal/repository"
	"lucky-dice-bot/internal/reward"
	"lucky-dice-bot/internal/streak"
)

// ChallengeService serves the daily challenge and settles classic rolls.
type ChallengeService struct {
	ledger *ledger.Ledger
}

// NewChallengeService creates a new ChallengeService instance.
func NewChallengeService(l *ledger.Ledger) *ChallengeService {
	return &ChallengeService{ledger: l}
}

// ForDate returns the challenge of date's calendar day. It is the same for
// every player and touches no storage.
func (s *ChallengeService) ForDate(date time.Time) model.Challenge {
	return challenge.Generate(date)
}

// Today returns the player's copy of today's challenge, reconciled against
// regeneration and against the profile's completed ids. Reading does not
// write; the reconciled copy is persisted by the next roll.
func (s *ChallengeService) Today(ctx context.Context, userID int64) (model.Challenge, error) {
	now := s.ledger.Clock().Now()
	generated := challenge.Generate(now)

	var stored model.Challenge
	found, err := s.ledger.Load(ctx, repository.ChallengeKey(userID, generated.ID), &stored)
	if err != nil {
		return model.Challenge{}, fmt.Errorf("failed to load challenge: %w", err)
	}
	if !found {
		stored = model.Challenge{}
	}

	p, err := s.ledger.Get(ctx, userID)
	if err != nil {
		return model.Challenge{}, fmt.Errorf("failed to load profile: %w", err)
	}

	c, _ := reconcile(generated, stored, found, p)
	return c, nil
}

func reconcile(generated, stored model.Challenge, found bool, p *model.Profile) (model.Challenge, bool) {
	c, changed := challenge.Reconcile(generated, stored, found)
	if !c.Completed && p.HasCompleted(c.ID) {
		c.Completed = true
		changed = true
	}
	return c, changed
}

// RollResult is everything a classic roll changed.
type RollResult struct {
	Die1, Die2    int
	Challenge     model.Challenge
	Satisfied     bool
	Payout        int64
	AlreadyPaid   bool
	DoublesStreak int
	StreakBonus   int64
	Achievements  []achievement.Definition
	Profile       *model.Profile
}

// Roll settles a classic roll. It records today's visit if missing, counts
// the roll, pays the doubles streak
// bonus, evaluates and claims today's challenge and pays newly earned
// achievements, all in one commit. Dice outside 1..6 are rejected with
// ErrInvalidRoll before anything is read or written.
func (s *ChallengeService) Roll(ctx context.Context, userID int64, die1, die2 int) (*RollResult, error) {
	if !validDice(die1, die2) {
		return nil, ErrInvalidRoll
	}

	res := &RollResult{Die1: die1, Die2: die2}
	p, err := s.ledger.Transact(ctx, userID, func(tx *ledger.Tx) error {
		now := tx.Now()
		p := tx.Profile

		// The payout bonus must see today's streak.
		if !streak.VisitedToday(p, now) {
			streak.OnVisit(p, now)
		}

		generated := challenge.Generate(now)
		key := repository.ChallengeKey(userID, generated.ID)
		var stored model.Challenge
		found, err := tx.Load(key, &stored)
		if err != nil {
			return err
		}
		if !found {
			stored = model.Challenge{}
		}
		c, changed := reconcile(generated, stored, found, p)

		res.DoublesStreak = ledger.ApplyRoll(p, die1, die2)
		if bonus := reward.RollStreakBonus(res.DoublesStreak); bonus > 0 {
			note := fmt.Sprintf("doubles x%d", res.DoublesStreak)
			if err := ledger.Credit(p, bonus, model.ReasonRollStreak, note, now); err != nil {
				return err
			}
			res.StreakBonus = bonus
		}

		if challenge.IsSatisfied(c, die1, die2) {
			res.Satisfied = true
			payout, err := reward.Claim(&c, p, now)
			switch {
			case errors.Is(err, reward.ErrAlreadyClaimed):
				res.AlreadyPaid = true
			case err != nil:
				return err
			default:
				res.Payout = payout
				changed = true
			}
		}
		if changed {
			if err := tx.Stage(key, c); err != nil {
				return err
			}
		}
		res.Challenge = c

		res.Achievements = achievement.Award(p, now)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to settle roll: %w", err)
	}
	res.Profile = p

	metrics.Rolls.WithLabelValues("classic").Inc()
	if res.StreakBonus > 0 {
		metrics.LuckPointsAwarded.WithLabelValues(model.ReasonRollStreak).Add(float64(res.StreakBonus))
	}
	if res.Satisfied {
		if res.AlreadyPaid {
			metrics.ChallengeClaims.WithLabelValues("duplicate").Inc()
		} else {
			metrics.ChallengeClaims.WithLabelValues("paid").Inc()
			metrics.LuckPointsAwarded.WithLabelValues(model.ReasonChallenge).Add(float64(res.Payout))
		}
	}
	for _, a := range res.Achievements {
		metrics.LuckPointsAwarded.WithLabelValues(model.ReasonAchievement).Add(float64(a.Points))
	}

	if res.Payout > 0 {
		log.Info().
			Int64("user_id", userID).
			Str("challenge_id", res.Challenge.ID).
			Int64("payout", res.Payout).
			Msg("Daily challenge completed")
	}
	return res, nil
}
