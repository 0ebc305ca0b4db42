package handler

import (
	"fmt"
	"strings"

	"lucky-dice-bot/internal/achievement"
	"lucky-dice-bot/internal/adventure"
	"lucky-dice-bot/internal/model"
	"lucky-dice-bot/internal/reward"
	"lucky-dice-bot/internal/service"
	"lucky-dice-bot/internal/shop"
)

const divider = "━━━━━━━━━━━━━━━\n"

// FormatWelcome creates the /start reply.
func FormatWelcome(name string, visit *service.VisitResult, c model.Challenge) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎲 Welcome, %s!\n\n", name)
	switch {
	case visit.Changed && visit.Streak > 1:
		fmt.Fprintf(&b, "🔥 Login streak: %d days (+%d%% challenge bonus)\n", visit.Streak, reward.BonusPercent(visit.Streak))
	case visit.Changed:
		b.WriteString("🔥 Login streak started: day 1\n")
	default:
		fmt.Fprintf(&b, "🔥 Login streak: %d days\n", visit.Streak)
	}
	fmt.Fprintf(&b, "🍀 Luck points: %d\n\n", visit.Profile.LuckPoints)
	b.WriteString(FormatChallenge(c, visit.Streak))
	b.WriteString("\n\nCommands:\n" +
		"/roll - roll two dice for today's challenge\n" +
		"/challenge - show today's challenge\n" +
		"/bonus - claim the daily bonus\n" +
		"/quest - adventure mode\n" +
		"/shop - cosmetics shop\n" +
		"/achievements - achievements\n" +
		"/profile - your stats")
	return b.String()
}

// FormatChallenge describes a daily challenge and its payout at streak.
func FormatChallenge(c model.Challenge, streak int) string {
	var b strings.Builder
	b.WriteString("🎯 Today's challenge\n")
	b.WriteString(divider)
	fmt.Fprintf(&b, "%s\n", c.Description)
	base := int64(c.BaseReward)
	payout := reward.ComputePayout(c, &model.Profile{StreakDays: streak})
	if payout > base {
		fmt.Fprintf(&b, "🍀 Reward: %d (+%d streak bonus)\n", base, payout-base)
	} else {
		fmt.Fprintf(&b, "🍀 Reward: %d\n", base)
	}
	if c.Completed {
		b.WriteString("✅ Completed")
	} else {
		b.WriteString("⏳ Not completed yet")
	}
	return b.String()
}

// FormatRoll describes a settled classic roll.
func FormatRoll(name string, r *service.RollResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s 🎲🎲 %d + %d = %d\n", name, r.Die1, r.Die2, r.Die1+r.Die2)

	switch {
	case r.Payout > 0:
		fmt.Fprintf(&b, "🎉 Challenge complete! +%d luck points\n", r.Payout)
	case r.AlreadyPaid:
		b.WriteString("✅ That would have done it, but today's challenge is already complete\n")
	case r.Challenge.Completed:
		b.WriteString("✅ Today's challenge is already complete\n")
	default:
		fmt.Fprintf(&b, "🎯 Not this time: %s\n", r.Challenge.Description)
	}

	if r.StreakBonus > 0 {
		fmt.Fprintf(&b, "🔥 %d doubles in a row! +%d\n", r.DoublesStreak, r.StreakBonus)
	}
	for _, a := range r.Achievements {
		fmt.Fprintf(&b, "🏆 %s %s unlocked! +%d\n", a.Emoji, a.Name, a.Points)
	}
	fmt.Fprintf(&b, "🍀 Luck points: %d", r.Profile.LuckPoints)
	return b.String()
}

// FormatProfile describes a player's stats.
func FormatProfile(name string, p *model.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "👤 %s\n", name)
	b.WriteString(divider)
	fmt.Fprintf(&b, "⭐ Level: %d\n", p.Level())
	fmt.Fprintf(&b, "🍀 Luck points: %d\n", p.LuckPoints)
	fmt.Fprintf(&b, "✨ XP: %d   💎 Crystals: %d\n", p.XP, p.Crystals)
	fmt.Fprintf(&b, "🔥 Login streak: %d days\n", p.StreakDays)
	fmt.Fprintf(&b, "🎯 Challenges completed: %d\n", len(p.ChallengesCompleted))
	b.WriteString(divider)
	fmt.Fprintf(&b, "🎲 Rolls: %d\n", p.TotalRolls)
	fmt.Fprintf(&b, "🎲🎲 Doubles: %d (best run %d)\n", p.Stats.Doubles, p.Stats.BestDoublesStreak)
	fmt.Fprintf(&b, "🐍 Snake eyes: %d   7️⃣ Sevens: %d\n", p.Stats.SnakeEyes, p.Stats.LuckySevens)
	fmt.Fprintf(&b, "🎨 Dice style: %s", shop.ActiveDiceStyle(p.UnlockedItems))
	return b.String()
}

// FormatBonus describes a paid daily bonus.
func FormatBonus(r *service.DailyBonusResult) string {
	return fmt.Sprintf("🎁 Daily bonus: +%d luck points (streak %d)\n🍀 Luck points: %d",
		r.Bonus, r.Streak, r.Profile.LuckPoints)
}

// FormatAchievements lists achievements with progress.
func FormatAchievements(statuses []achievement.Status) string {
	var b strings.Builder
	b.WriteString("🏆 Achievements\n")
	b.WriteString(divider)
	for _, s := range statuses {
		mark := "⬜"
		if s.Completed {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%s %s %s (%d/%d) +%d\n", mark, s.Emoji, s.Name, s.Progress, s.Target, s.Points)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatAdventure shows the map and the current mission.
func FormatAdventure(v *service.AdventureView) string {
	var b strings.Builder
	b.WriteString("🗺️ Adventure\n")
	b.WriteString(divider)
	for _, loc := range v.Locations {
		fmt.Fprintf(&b, "%s %s %s\n", locationMark(loc.State), loc.Emoji, loc.Name)
		if loc.State != adventure.LocationActive {
			continue
		}
		for i, n := range loc.Nodes {
			icon := "•"
			if n.Kind == model.NodeBoss {
				icon = "👹"
			}
			fmt.Fprintf(&b, "    %s %s %s\n", nodeMark(loc.NodeStates[i]), icon, n.Mission.Title)
		}
	}
	b.WriteString(divider)

	if v.Finished {
		b.WriteString("🏁 Every location is cleared. Legendary!")
		return b.String()
	}
	if am := v.State.ActiveMission; am != nil {
		b.WriteString(FormatMission(am.Mission))
		fmt.Fprintf(&b, "\n📊 Progress: %d/%d (%d attempts)", am.SuccessfulRolls, am.Mission.TargetSuccesses, am.Attempts)
		return b.String()
	}
	if m, ok := currentMission(v); ok {
		b.WriteString(FormatMission(m))
		b.WriteString("\n/qroll to start")
	}
	return b.String()
}

// FormatMission describes a mission's goal and rewards.
func FormatMission(m model.Mission) string {
	return fmt.Sprintf("⚔️ %s\n%s\n🎯 Roll %d+ on two dice %d times\n🎁 %d XP, %d luck points, %d crystals",
		m.Title, m.Description, m.RequiredRollValue, m.TargetSuccesses,
		m.Rewards.XP, m.Rewards.Points, m.Rewards.Crystals)
}

// FormatAdventureRoll describes one adventure roll.
func FormatAdventureRoll(name string, r *service.AdventureRoll) string {
	if r.Finished {
		return "🏁 Every location is already cleared."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s 🎲🎲 %d + %d = %d\n", name, r.Die1, r.Die2, r.Die1+r.Die2)
	if r.Success {
		b.WriteString("✅ Success!\n")
	} else {
		b.WriteString("❌ Not enough\n")
	}
	if am := r.Mission; am != nil {
		fmt.Fprintf(&b, "📊 %s: %d/%d", am.Mission.Title, am.SuccessfulRolls, am.Mission.TargetSuccesses)
		if am.Ready() {
			b.WriteString("\n🏅 Ready! /resolve to complete the mission")
		}
	}
	return b.String()
}

// FormatResolution describes a resolved mission.
func FormatResolution(r *adventure.Resolution, p *model.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🏅 %s complete!\n", r.Mission.Title)
	fmt.Fprintf(&b, "🎁 +%d XP, +%d luck points, +%d crystals\n", r.Rewards.XP, r.Rewards.Points, r.Rewards.Crystals)
	if r.Artifact != nil {
		fmt.Fprintf(&b, "🧿 Artifact found: %s %s\n", r.Artifact.Emoji, r.Artifact.Name)
	}
	switch {
	case r.Finished:
		b.WriteString("🏁 You cleared the final location!\n")
	case r.LocationCleared:
		b.WriteString("🗺️ Location cleared! A new one is open.\n")
	}
	fmt.Fprintf(&b, "🍀 Luck points: %d", p.LuckPoints)
	return b.String()
}

// FormatArtifacts lists the artifact collection.
func FormatArtifacts(artifacts []model.Artifact) string {
	var b strings.Builder
	collected := 0
	for _, a := range artifacts {
		if a.Collected {
			collected++
		}
	}
	fmt.Fprintf(&b, "🧿 Artifacts %d/%d\n", collected, len(artifacts))
	b.WriteString(divider)
	for _, a := range artifacts {
		if a.Collected {
			fmt.Fprintf(&b, "%s %s\n", a.Emoji, a.Name)
		} else {
			b.WriteString("❔ ???\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func currentMission(v *service.AdventureView) (model.Mission, bool) {
	for _, loc := range v.Locations {
		if loc.ID != v.State.CurrentLocation {
			continue
		}
		i := v.State.CurrentNodeIndex
		if i >= 0 && i < len(loc.Nodes) {
			return loc.Nodes[i].Mission, true
		}
	}
	return model.Mission{}, false
}

func locationMark(s adventure.LocationState) string {
	switch s {
	case adventure.LocationCleared:
		return "✅"
	case adventure.LocationActive:
		return "▶️"
	default:
		return "🔒"
	}
}

func nodeMark(s adventure.NodeState) string {
	switch s {
	case adventure.NodeCompleted:
		return "✅"
	case adventure.NodeActive:
		return "▶️"
	default:
		return "🔒"
	}
}
