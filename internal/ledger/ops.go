package ledger

import (
	"context"
	"time"

	"lucky-dice-bot/internal/model"
	"lucky-dice-bot/internal/streak"
)

// Credit adds a positive amount of luck points and records why.
func Credit(p *model.Profile, amount int64, reason, note string, at time.Time) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	p.LuckPoints += amount
	p.Record(amount, reason, note, at)
	return nil
}

// Spend unlocks itemID for cost luck points. Spending is the only way luck
// points go down, and an item is never bought twice.
func Spend(p *model.Profile, itemID string, cost int64, at time.Time) error {
	if cost < 0 {
		return ErrInvalidAmount
	}
	if p.HasItem(itemID) {
		return ErrAlreadyUnlocked
	}
	if p.LuckPoints < cost {
		return ErrInsufficientFunds
	}
	p.LuckPoints -= cost
	p.UnlockedItems = append(p.UnlockedItems, itemID)
	p.Record(-cost, model.ReasonShopPurchase, itemID, at)
	return nil
}

// ApplyRoll counts a roll on the profile's statistics and returns the new
// consecutive doubles count. Dice must already be validated.
func ApplyRoll(p *model.Profile, die1, die2 int) int {
	p.TotalRolls++
	s := &p.Stats
	s.DoublesStreak = streak.NextRollStreak(s.DoublesStreak, die1, die2)
	if die1 == die2 {
		s.Doubles++
	}
	if s.DoublesStreak > s.BestDoublesStreak {
		s.BestDoublesStreak = s.DoublesStreak
	}
	if die1 == 1 && die2 == 1 {
		s.SnakeEyes++
	}
	if die1+die2 == 7 {
		s.LuckySevens++
	}
	return s.DoublesStreak
}

// AddPoints credits luck points to a player in its own commit.
func (l *Ledger) AddPoints(ctx context.Context, userID, amount int64, reason, note string) (*model.Profile, error) {
	return l.Transact(ctx, userID, func(tx *Tx) error {
		return Credit(tx.Profile, amount, reason, note, tx.Now())
	})
}

// RecordRoll counts a roll in its own commit.
func (l *Ledger) RecordRoll(ctx context.Context, userID int64, die1, die2 int) (*model.Profile, error) {
	return l.Update(ctx, userID, func(p *model.Profile) error {
		ApplyRoll(p, die1, die2)
		return nil
	})
}

// UnlockItem grants an item without charging for it.
func (l *Ledger) UnlockItem(ctx context.Context, userID int64, itemID string) (*model.Profile, error) {
	return l.Update(ctx, userID, func(p *model.Profile) error {
		if p.HasItem(itemID) {
			return ErrAlreadyUnlocked
		}
		p.UnlockedItems = append(p.UnlockedItems, itemID)
		return nil
	})
}

// SpendPoints buys itemID for cost luck points.
func (l *Ledger) SpendPoints(ctx context.Context, userID int64, itemID string, cost int64) (*model.Profile, error) {
	return l.Transact(ctx, userID, func(tx *Tx) error {
		return Spend(tx.Profile, itemID, cost, tx.Now())
	})
}
