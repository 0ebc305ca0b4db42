// Package model defines the data models for the lucky dice bot.
// Every model here is persisted as a whole JSON snapshot.
package model

import (
	"slices"
	"time"
)

// Profile is a player's account state.
type Profile struct {
	UserID              *int64        `json:"userId"`
	LuckPoints          int64         `json:"luckPoints"`
	TotalRolls          int64         `json:"totalRolls"`
	UnlockedItems       []string      `json:"unlockedItems"`
	StreakDays          int           `json:"streakDays"`
	LastVisit           *time.Time    `json:"lastVisit"`
	ChallengesCompleted []string      `json:"challengesCompleted"`
	XP                  int64         `json:"xp"`
	Crystals            int64         `json:"crystals"`
	Stats               RollStats     `json:"stats"`
	Achievements        []string      `json:"achievements"`
	DailyBonusDate      string        `json:"dailyBonusDate,omitempty"`
	History             []LedgerEntry `json:"history"`
	UpdatedAt           time.Time     `json:"updatedAt"`
}

// RollStats holds counters derived from the roll stream.
type RollStats struct {
	Doubles           int64 `json:"doubles"`
	SnakeEyes         int64 `json:"snakeEyes"`
	LuckySevens       int64 `json:"luckySevens"`
	DoublesStreak     int   `json:"doublesStreak"`
	BestDoublesStreak int   `json:"bestDoublesStreak"`
}

// LedgerEntry records a single luck point change.
type LedgerEntry struct {
	Amount int64     `json:"amount"`
	Reason string    `json:"reason"`
	Note   string    `json:"note,omitempty"`
	At     time.Time `json:"at"`
}

// Ledger entry reasons for categorizing luck point changes.
const (
	ReasonChallenge    = "challenge"     // Daily challenge payout
	ReasonDailyBonus   = "daily_bonus"   // Daily login bonus
	ReasonRollStreak   = "roll_streak"   // Consecutive doubles bonus
	ReasonAchievement  = "achievement"   // One-time achievement payout
	ReasonMission      = "mission"       // Adventure mission reward
	ReasonShopPurchase = "shop_purchase" // Cosmetic purchase
)

// MaxHistory bounds the number of ledger entries kept on a profile.
const MaxHistory = 50

// NewProfile returns a zero-valued profile owned by userID.
func NewProfile(userID int64) *Profile {
	id := userID
	return &Profile{
		UserID:              &id,
		UnlockedItems:       []string{},
		ChallengesCompleted: []string{},
		Achievements:        []string{},
		History:             []LedgerEntry{},
	}
}

// Clone returns a deep copy of the profile.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	if p.UserID != nil {
		id := *p.UserID
		c.UserID = &id
	}
	if p.LastVisit != nil {
		lv := *p.LastVisit
		c.LastVisit = &lv
	}
	c.UnlockedItems = slices.Clone(p.UnlockedItems)
	c.ChallengesCompleted = slices.Clone(p.ChallengesCompleted)
	c.Achievements = slices.Clone(p.Achievements)
	c.History = slices.Clone(p.History)
	return &c
}

// HasItem reports whether itemID is unlocked.
func (p *Profile) HasItem(itemID string) bool {
	return slices.Contains(p.UnlockedItems, itemID)
}

// HasCompleted reports whether the challenge id has already paid out.
func (p *Profile) HasCompleted(challengeID string) bool {
	return slices.Contains(p.ChallengesCompleted, challengeID)
}

// HasAchievement reports whether the achievement id has already paid out.
func (p *Profile) HasAchievement(id string) bool {
	return slices.Contains(p.Achievements, id)
}

// Level returns the player level derived from the roll count.
func (p *Profile) Level() int64 {
	return p.TotalRolls * 8 / 100
}

// Record appends a ledger entry, keeping only the most recent MaxHistory entries.
func (p *Profile) Record(amount int64, reason, note string, at time.Time) {
	p.History = append(p.History, LedgerEntry{Amount: amount, Reason: reason, Note: note, At: at})
	if n := len(p.History); n > MaxHistory {
		p.History = slices.Clone(p.History[n-MaxHistory:])
	}
}

// Sanitize repairs fields of a decoded profile that cannot hold their invariants:
// nil sets become empty, negative counters are floored at zero and duplicate
// ids are collapsed.
func (p *Profile) Sanitize() {
	if p.UnlockedItems == nil {
		p.UnlockedItems = []string{}
	}
	if p.ChallengesCompleted == nil {
		p.ChallengesCompleted = []string{}
	}
	if p.Achievements == nil {
		p.Achievements = []string{}
	}
	if p.History == nil {
		p.History = []LedgerEntry{}
	}
	p.UnlockedItems = dedupe(p.UnlockedItems)
	p.ChallengesCompleted = dedupe(p.ChallengesCompleted)
	p.Achievements = dedupe(p.Achievements)

	if p.LuckPoints < 0 {
		p.LuckPoints = 0
	}
	if p.TotalRolls < 0 {
		p.TotalRolls = 0
	}
	if p.StreakDays < 0 {
		p.StreakDays = 0
	}
	if p.XP < 0 {
		p.XP = 0
	}
	if p.Crystals < 0 {
		p.Crystals = 0
	}
	if p.Stats.DoublesStreak < 0 {
		p.Stats.DoublesStreak = 0
	}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
