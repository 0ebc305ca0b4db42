package achievement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"lucky-dice-bot/internal/model"
)

var now = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func ids(defs []Definition) []string {
	out := make([]string, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.ID)
	}
	return out
}

func TestAwardFirstRoll(t *testing.T) {
	p := model.NewProfile(1)
	p.TotalRolls = 1

	earned := Award(p, now)

	assert.Equal(t, []string{FirstRoll}, ids(earned))
	assert.Equal(t, int64(10), p.LuckPoints)
	assert.Equal(t, []string{FirstRoll}, p.Achievements)
	require.Len(t, p.History, 1)
	assert.Equal(t, model.ReasonAchievement, p.History[0].Reason)
}

func TestAwardPaysOnce(t *testing.T) {
	p := model.NewProfile(1)
	p.TotalRolls = 100
	p.Stats.SnakeEyes = 1

	first := Award(p, now)
	assert.ElementsMatch(t, []string{FirstRoll, Roll50, Roll100, SnakeEyes}, ids(first))
	assert.Equal(t, int64(10+25+50+15), p.LuckPoints)

	second := Award(p, now)
	assert.Empty(t, second)
	assert.Equal(t, int64(100), p.LuckPoints)
}

func TestAwardThresholds(t *testing.T) {
	p := model.NewProfile(1)
	p.TotalRolls = 49
	p.Stats.Doubles = 9
	p.Stats.LuckySevens = 4

	assert.Equal(t, []string{FirstRoll}, ids(Award(p, now)))

	p.Stats.LuckySevens = 5
	p.Stats.Doubles = 10
	assert.ElementsMatch(t, []string{Doubles10, Lucky7}, ids(Award(p, now)))
}

func TestStatuses(t *testing.T) {
	p := model.NewProfile(1)
	p.TotalRolls = 70
	p.Achievements = []string{FirstRoll}

	st := Statuses(p)
	require.Len(t, st, 6)

	assert.Equal(t, int64(1), st[0].Progress)
	assert.True(t, st[0].Completed)
	assert.Equal(t, int64(50), st[1].Progress)
	assert.False(t, st[1].Completed)
	assert.Equal(t, int64(70), st[2].Progress)
}

func TestGet(t *testing.T) {
	d, ok := Get(Lucky7)
	require.True(t, ok)
	assert.Equal(t, int64(20), d.Points)
	assert.Equal(t, int64(5), d.Target)

	_, ok = Get("nope")
	assert.False(t, ok)
}

// TestAwardIdempotentProperty: achievements never pay twice, whatever the counters.
func TestAwardIdempotentProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := model.NewProfile(1)
		p.TotalRolls = rapid.Int64Range(0, 200).Draw(t, "rolls")
		p.Stats.Doubles = rapid.Int64Range(0, 20).Draw(t, "doubles")
		p.Stats.SnakeEyes = rapid.Int64Range(0, 3).Draw(t, "snake")
		p.Stats.LuckySevens = rapid.Int64Range(0, 10).Draw(t, "sevens")

		Award(p, now)
		points := p.LuckPoints
		n := len(p.Achievements)

		if again := Award(p, now); len(again) != 0 {
			t.Fatalf("second award paid %v", ids(again))
		}
		if p.LuckPoints != points || len(p.Achievements) != n {
			t.Fatalf("second award changed the profile")
		}
	})
}
