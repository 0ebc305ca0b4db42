package challenge

import (
	"strconv"
	"strings"
	"time"

	"lucky-dice-bot/internal/model"
	"lucky-dice-bot/internal/pkg/seed"
)

// Target range for the sum kinds.
const (
	minTarget = 3
	maxTarget = 11
)

// DateLayout formats the calendar day used in challenge ids.
const DateLayout = "2006-01-02"

// IDForDate returns the challenge id of the calendar day of date.
func IDForDate(date time.Time) string {
	return "challenge-" + date.Format(DateLayout)
}

// Generate produces the challenge of the calendar day of date.
// It is a pure function of the day: the same day always yields the same
// kind, parameters and base reward.
//
// Draw order is frozen: archetype, then kind parameters (target, or dice1
// then dice2), then base reward.
func Generate(date time.Time) model.Challenge {
	seq := seed.ForDate(date)

	a := archetypes[seq.Intn(CatalogSize)]

	var params model.ChallengeParams
	switch a.Kind {
	case model.KindSumEqual, model.KindSumGreater, model.KindSumLess:
		params.Target = seq.IntRange(minTarget, maxTarget)
	case model.KindSpecific:
		params.Dice1 = seq.IntRange(1, 6)
		params.Dice2 = seq.IntRange(1, 6)
	case model.KindDoubles, model.KindConsecutive:
		// No parameters.
	}

	baseReward := seq.IntRange(a.RewardMin, a.RewardMax)

	return model.Challenge{
		ID:          IDForDate(date),
		Date:        date.Format(DateLayout),
		Kind:        a.Kind,
		Description: Describe(a.Template, params),
		Params:      params,
		BaseReward:  baseReward,
		Completed:   false,
	}
}

// Describe substitutes challenge parameters into a display template.
func Describe(template string, p model.ChallengeParams) string {
	r := strings.NewReplacer(
		"{target}", strconv.Itoa(p.Target),
		"{dice1}", strconv.Itoa(p.Dice1),
		"{dice2}", strconv.Itoa(p.Dice2),
	)
	return r.Replace(template)
}
