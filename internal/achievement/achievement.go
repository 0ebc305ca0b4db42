// Package achievement defines one-time milestones earned from the roll stream.
package achievement

import (
	"time"

	"lucky-dice-bot/internal/model"
)

// Achievement ids
const (
	FirstRoll = "first_roll"
	Roll50    = "roll_50"
	Roll100   = "roll_100"
	Doubles10 = "doubles_10"
	SnakeEyes = "snake_eyes"
	Lucky7    = "lucky_7"
)

// Definition describes an achievement and how progress is measured.
type Definition struct {
	ID          string
	Name        string
	Emoji       string
	Description string
	Points      int64
	Target      int64
	progress    func(p *model.Profile) int64
}

// Progress returns p's progress toward the definition, capped at Target.
func (d Definition) Progress(p *model.Profile) int64 {
	v := d.progress(p)
	if v > d.Target {
		return d.Target
	}
	return v
}

// Met reports whether p has reached the target.
func (d Definition) Met(p *model.Profile) bool {
	return d.progress(p) >= d.Target
}

var definitions = []Definition{
	{
		ID: FirstRoll, Name: "First Roll", Emoji: "🎲",
		Description: "Roll the dice for the first time",
		Points:      10, Target: 1,
		progress: func(p *model.Profile) int64 { return p.TotalRolls },
	},
	{
		ID: Roll50, Name: "Beginner", Emoji: "🥉",
		Description: "Roll the dice 50 times",
		Points:      25, Target: 50,
		progress: func(p *model.Profile) int64 { return p.TotalRolls },
	},
	{
		ID: Roll100, Name: "Veteran", Emoji: "🥈",
		Description: "Roll the dice 100 times",
		Points:      50, Target: 100,
		progress: func(p *model.Profile) int64 { return p.TotalRolls },
	},
	{
		ID: Doubles10, Name: "Double Trouble", Emoji: "👯",
		Description: "Roll 10 doubles",
		Points:      30, Target: 10,
		progress: func(p *model.Profile) int64 { return p.Stats.Doubles },
	},
	{
		ID: SnakeEyes, Name: "Snake Eyes", Emoji: "🐍",
		Description: "Roll a pair of ones",
		Points:      15, Target: 1,
		progress: func(p *model.Profile) int64 { return p.Stats.SnakeEyes },
	},
	{
		ID: Lucky7, Name: "Lucky Seven", Emoji: "🍀",
		Description: "Roll a total of 7 five times",
		Points:      20, Target: 5,
		progress: func(p *model.Profile) int64 { return p.Stats.LuckySevens },
	},
}

// All returns every definition in display order.
func All() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Get returns the definition with the given id.
func Get(id string) (Definition, bool) {
	for _, d := range definitions {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// Award marks and pays every achievement p has newly met. Each achievement
// pays at most once; ids already on the profile are skipped.
func Award(p *model.Profile, at time.Time) []Definition {
	var earned []Definition
	for _, d := range definitions {
		if p.HasAchievement(d.ID) || !d.Met(p) {
			continue
		}
		p.Achievements = append(p.Achievements, d.ID)
		p.LuckPoints += d.Points
		p.Record(d.Points, model.ReasonAchievement, d.ID, at)
		earned = append(earned, d)
	}
	return earned
}

// Status is a definition with p's progress, for display.
type Status struct {
	Definition
	Progress  int64
	Completed bool
}

// Statuses returns every achievement with p's progress.
func Statuses(p *model.Profile) []Status {
	out := make([]Status, 0, len(definitions))
	for _, d := range definitions {
		out = append(out, Status{
			Definition: d,
			Progress:   d.Progress(p),
			Completed:  p.HasAchievement(d.ID),
		})
	}
	return out
}
