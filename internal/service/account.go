// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"lucky-dice-bot/internal/achievement"
	"lucky-dice-bot/internal/ledger"
	"lucky-dice-bot/internal/model"
	"lucky-dice-bot/internal/pkg/metrics"
	"lucky-dice-bot/internal/reward"
	"lucky-dice-bot/internal/streak"
)

// AccountService handles visits, the daily bonus and profile reads.
type AccountService struct {
	ledger *ledger.Ledger
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(l *ledger.Ledger) *AccountService {
	return &AccountService{ledger: l}
}

// VisitResult describes the outcome of a visit.
type VisitResult struct {
	Streak  int
	Changed bool
	Profile *model.Profile
}

// Visit records that the player opened the game. The login streak moves at
// most once per calendar day; later visits on the same day write nothing.
func (s *AccountService) Visit(ctx context.Context, userID int64) (*VisitResult, error) {
	p, err := s.ledger.Transact(ctx, userID, func(tx *ledger.Tx) error {
		if streak.VisitedToday(tx.Profile, tx.Now()) {
			return errUnchanged
		}
		streak.OnVisit(tx.Profile, tx.Now())
		return nil
	})
	if errors.Is(err, errUnchanged) {
		p, err = s.ledger.Get(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile: %w", err)
		}
		return &VisitResult{Streak: p.StreakDays, Profile: p}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record visit: %w", err)
	}

	log.Debug().Int64("user_id", userID).Int("streak", p.StreakDays).Msg("Visit recorded")
	return &VisitResult{Streak: p.StreakDays, Changed: true, Profile: p}, nil
}

// Profile returns the player's current profile.
func (s *AccountService) Profile(ctx context.Context, userID int64) (*model.Profile, error) {
	p, err := s.ledger.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return p, nil
}

// DailyBonusResult describes a paid daily bonus.
type DailyBonusResult struct {
	Bonus   int64
	Streak  int
	Profile *model.Profile
}

// ClaimDailyBonus pays the daily login bonus. A player who has not visited
// today has the visit applied first so the bonus uses the current streak.
// A second claim on the same day returns reward.ErrDailyBonusClaimed.
func (s *AccountService) ClaimDailyBonus(ctx context.Context, userID int64) (*DailyBonusResult, error) {
	var bonus int64
	p, err := s.ledger.Transact(ctx, userID, func(tx *ledger.Tx) error {
		if !streak.VisitedToday(tx.Profile, tx.Now()) {
			streak.OnVisit(tx.Profile, tx.Now())
		}
		var err error
		bonus, err = reward.ClaimDailyBonus(tx.Profile, tx.Now().Format(time.DateOnly), tx.Now())
		return err
	})
	if err != nil {
		if errors.Is(err, reward.ErrDailyBonusClaimed) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to claim daily bonus: %w", err)
	}

	metrics.LuckPointsAwarded.WithLabelValues(model.ReasonDailyBonus).Add(float64(bonus))
	log.Info().Int64("user_id", userID).Int64("bonus", bonus).Msg("Daily bonus claimed")
	return &DailyBonusResult{Bonus: bonus, Streak: p.StreakDays, Profile: p}, nil
}

// Achievements returns every achievement with the player's progress.
func (s *AccountService) Achievements(ctx context.Context, userID int64) ([]achievement.Status, error) {
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return achievement.Statuses(p), nil
}
