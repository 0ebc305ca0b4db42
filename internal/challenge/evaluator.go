package challenge

import "lucky-dice-bot/internal/model"

// IsSatisfied reports whether the roll (die1, die2) completes the challenge.
// It never fails: unknown kinds and dice outside [1,6] are not satisfied.
//
// KindSpecific is order-sensitive: die1 must match Dice1 and die2 must match Dice2.
func IsSatisfied(c model.Challenge, die1, die2 int) bool {
	if !validDie(die1) || !validDie(die2) {
		return false
	}

	sum := die1 + die2
	switch c.Kind {
	case model.KindSumEqual:
		return sum == c.Params.Target
	case model.KindSumGreater:
		return sum > c.Params.Target
	case model.KindSumLess:
		return sum < c.Params.Target
	case model.KindDoubles:
		return die1 == die2
	case model.KindSpecific:
		return die1 == c.Params.Dice1 && die2 == c.Params.Dice2
	case model.KindConsecutive:
		return abs(die1-die2) == 1
	default:
		return false
	}
}

func validDie(v int) bool {
	return v >= 1 && v <= 6
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
