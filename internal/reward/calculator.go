// Package reward computes payouts and guards them against double claims.
package reward

import (
	"errors"
	"time"

	"lucky-dice-bot/internal/model"
)

// Reward errors.
var (
	ErrAlreadyClaimed    = errors.New("challenge already claimed")
	ErrDailyBonusClaimed = errors.New("daily bonus already claimed today")
)

// Tier maps a threshold to a bonus.
type Tier struct {
	Threshold int
	Value     int64
}

// streakTiers holds login streak bonus percentages, highest threshold first.
var streakTiers = []Tier{
	{Threshold: 30, Value: 200},
	{Threshold: 14, Value: 100},
	{Threshold: 7, Value: 50},
	{Threshold: 3, Value: 20},
}

// rollStreakTiers holds the flat bonus for consecutive doubles, highest first.
var rollStreakTiers = []Tier{
	{Threshold: 5, Value: 50},
	{Threshold: 3, Value: 15},
	{Threshold: 2, Value: 5},
}

// Daily login bonus parameters.
const (
	DailyBonusBase      int64 = 20
	DailyBonusPerDay    int64 = 5
	DailyBonusStreakCap int64 = 50
)

// StreakTiers returns a copy of the login streak bonus table.
func StreakTiers() []Tier {
	out := make([]Tier, len(streakTiers))
	copy(out, streakTiers)
	return out
}

func highest(tiers []Tier, n int) int64 {
	for _, t := range tiers {
		if n >= t.Threshold {
			return t.Value
		}
	}
	return 0
}

// BonusPercent returns the bonus percentage earned by a login streak.
func BonusPercent(streakDays int) int {
	return int(highest(streakTiers, streakDays))
}

// ComputePayout returns the challenge's base reward plus the streak bonus,
// floor(base * percent / 100).
func ComputePayout(c model.Challenge, p *model.Profile) int64 {
	base := int64(c.BaseReward)
	if base < 0 {
		base = 0
	}
	streak := 0
	if p != nil {
		streak = p.StreakDays
	}
	bonus := base * int64(BonusPercent(streak)) / 100
	return base + bonus
}

// Claimed reports whether c has already paid out to p.
func Claimed(c *model.Challenge, p *model.Profile) bool {
	return c.Completed || p.HasCompleted(c.ID)
}

// Claim pays out c to p exactly once. It marks the challenge completed,
// records its id on the profile and credits the payout. The caller persists
// both documents in a single commit. A second claim returns ErrAlreadyClaimed
// and changes nothing.
func Claim(c *model.Challenge, p *model.Profile, at time.Time) (int64, error) {
	if Claimed(c, p) {
		return 0, ErrAlreadyClaimed
	}

	payout := ComputePayout(*c, p)

	c.Completed = true
	p.ChallengesCompleted = append(p.ChallengesCompleted, c.ID)
	p.LuckPoints += payout
	p.Record(payout, model.ReasonChallenge, c.ID, at)

	return payout, nil
}

// RollStreakBonus returns the flat bonus for a run of consecutive doubles.
func RollStreakBonus(doublesStreak int) int64 {
	return highest(rollStreakTiers, doublesStreak)
}

// DailyBonus returns the daily login bonus for a streak:
// 20 + min(streak*5, 50).
func DailyBonus(streakDays int) int64 {
	extra := int64(streakDays) * DailyBonusPerDay
	if extra > DailyBonusStreakCap {
		extra = DailyBonusStreakCap
	}
	if extra < 0 {
		extra = 0
	}
	return DailyBonusBase + extra
}

// ClaimDailyBonus credits the daily bonus once per calendar day, where today
// is the YYYY-MM-DD key of the current local day.
func ClaimDailyBonus(p *model.Profile, today string, at time.Time) (int64, error) {
	if p.DailyBonusDate == today {
		return 0, ErrDailyBonusClaimed
	}
	bonus := DailyBonus(p.StreakDays)
	p.DailyBonusDate = today
	p.LuckPoints += bonus
	p.Record(bonus, model.ReasonDailyBonus, today, at)
	return bonus, nil
}
